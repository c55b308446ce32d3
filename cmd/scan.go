/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/goreqs/pkg/exitcode"
	"github.com/fulmenhq/goreqs/pkg/manifest"
	"github.com/fulmenhq/goreqs/pkg/names"
	"github.com/spf13/cobra"
)

func newScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <path>",
		Short: "List third-party imports without contacting PyPI",
		Long: `Scan walks the tree at <path> and prints the third-party packages its
imports refer to. No versions are looked up and nothing is written.

With --diff the result is compared against the existing requirements file:
lines starting with "+" are imported but missing from the manifest, lines
starting with "-" are pinned but never imported.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: runScan,
	}

	addScanFlags(cmd)
	cmd.Flags().String("format", manifest.FormatText, "Output format (text|json|yaml)")
	cmd.Flags().Bool("diff", false, "Compare against the existing requirements file")
	cmd.Flags().String("savepath", "", "Requirements file to compare with (default <path>/requirements.txt)")
	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	root := args[0]
	format, _ := cmd.Flags().GetString("format")
	diff, _ := cmd.Flags().GetBool("diff")

	switch strings.ToLower(format) {
	case manifest.FormatText, manifest.FormatJSON, manifest.FormatYAML:
	default:
		return fmt.Errorf("%w: unsupported format %q (expected text, json or yaml)", exitcode.ErrUsage, format)
	}

	cfg, report, err := runCore(cmd, root)
	if err != nil {
		return err
	}

	if diff {
		path, _ := cmd.Flags().GetString("savepath")
		if path == "" {
			path = filepath.Join(root, cfg.Manifest.Filename)
		}
		return printDiff(cmd, report.ThirdParty, path)
	}

	return manifest.WriteReport(cmd.OutOrStdout(), manifest.Report{
		Root:       report.Root,
		Files:      len(report.Files),
		Dirs:       report.Dirs,
		LocalNames: report.LocalNames.Sorted(),
		Candidates: names.FromSlice(report.Candidates).Sorted(),
		ThirdParty: report.ThirdParty.Sorted(),
	}, format)
}

// printDiff compares imported packages with the names pinned in path
func printDiff(cmd *cobra.Command, imported names.Set, path string) error {
	pinned := names.New()
	// #nosec G304 -- user-selected manifest path
	data, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		entries, err := manifest.ParseBytes(data)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		for _, e := range entries {
			pinned.Add(e.Name)
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	for _, name := range imported.Difference(pinned).Sorted() {
		fmt.Fprintln(out, "+ "+name)
	}
	for _, name := range pinned.Difference(imported).Sorted() {
		fmt.Fprintln(out, "- "+name)
	}
	return nil
}
