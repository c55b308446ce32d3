/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/goreqs/pkg/logger"
	"github.com/fulmenhq/goreqs/pkg/manifest"
	"github.com/fulmenhq/goreqs/pkg/registry"
	"github.com/spf13/cobra"
)

// runGenerate scans args[0], pins its third-party imports and writes the
// manifest. Nothing is written if the scan fails.
func runGenerate(cmd *cobra.Command, args []string) error {
	root := args[0]
	printOnly, _ := cmd.Flags().GetBool("print")
	savePath, _ := cmd.Flags().GetString("savepath")

	// Progress goes to stderr when stdout carries the manifest
	progress := cmd.OutOrStdout()
	if printOnly {
		progress = cmd.ErrOrStderr()
	}

	fmt.Fprintln(progress, "Looking for imports")
	cfg, report, err := runCore(cmd, root)
	if err != nil {
		return err
	}
	thirdParty := report.ThirdParty.Sorted()

	fmt.Fprintln(progress, "Getting latest version of packages information from PyPi")
	pkgs := registry.ResolveAll(cmd.Context(), newResolver(cfg), thirdParty, cfg.Registry.Concurrency)
	if err := cmd.Context().Err(); err != nil {
		return err
	}
	logger.Debug("Resolved package versions", logger.Int("resolved", len(pkgs)), logger.Int("requested", len(thirdParty)))

	fmt.Fprintln(progress, "Found third-party imports: "+strings.Join(thirdParty, ", "))

	entries := manifest.FromPackages(pkgs)
	if printOnly {
		return manifest.Write(cmd.OutOrStdout(), entries)
	}

	path := savePath
	if path == "" {
		path = filepath.Join(root, cfg.Manifest.Filename)
	}
	if err := manifest.WriteFile(path, entries); err != nil {
		return err
	}
	fmt.Fprintln(progress, "Successfully saved requirements file in: "+path)
	return nil
}
