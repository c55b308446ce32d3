/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/fulmenhq/goreqs/pkg/buildinfo"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show goreqs version information",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  runVersion,
	}
	cmd.Flags().Bool("extended", false, "Show module and build information")
	cmd.Flags().Bool("json", false, "Output version information in JSON format")
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	out := cmd.OutOrStdout()
	info := buildinfo.Get()

	if jsonOutput {
		versionInfo := map[string]interface{}{
			"version":   info.Version,
			"goVersion": info.GoVersion,
			"platform":  runtime.GOOS,
			"arch":      runtime.GOARCH,
		}
		if extended {
			versionInfo["module"] = info.Module
			versionInfo["moduleVersion"] = info.ModuleVersion
			versionInfo["gitCommit"] = info.ShortCommit()
			versionInfo["gitDirty"] = info.Dirty
		}
		jsonData, err := json.MarshalIndent(versionInfo, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %v", err)
		}
		fmt.Fprintln(out, string(jsonData))
		return nil
	}

	fmt.Fprintf(out, "goreqs %s\n", info.Version)
	if extended {
		fmt.Fprintf(out, "Module: %s %s\n", info.Module, info.ModuleVersion)
		fmt.Fprintf(out, "Git commit: %s\n", info.ShortCommit())
		if info.Dirty {
			fmt.Fprintf(out, "Git status: dirty (uncommitted changes)\n")
		}
	}
	fmt.Fprintf(out, "Go Version: %s\n", info.GoVersion)
	fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	return nil
}
