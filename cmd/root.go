/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fulmenhq/goreqs/pkg/buildinfo"
	"github.com/fulmenhq/goreqs/pkg/exitcode"
	"github.com/fulmenhq/goreqs/pkg/logger"
	"github.com/spf13/cobra"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goreqs <path>",
		Short: "Generate requirements.txt for a Python project from its imports",
		Long: `Goreqs walks a Python source tree, collects the modules named in its import
statements, drops local modules and the standard library, and pins every
remaining package to its latest version on PyPI.

Examples:
   goreqs ./myproject                       # Write ./myproject/requirements.txt
   goreqs ./myproject --savepath reqs.txt   # Write the manifest elsewhere
   goreqs ./myproject --print               # Print the manifest to stdout
   goreqs scan ./myproject --format json    # Show third-party imports, no network
   goreqs version                           # Show version`,
		Args:          usageArgs(cobra.ExactArgs(1)),
		RunE:          runGenerate,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	// Add global flags
	cmd.PersistentFlags().String("log-level", "warn", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("debug", false, "Print debug information (same as --log-level debug)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	addScanFlags(cmd)
	cmd.Flags().String("savepath", "", "Save the requirements file to this path instead of <path>/requirements.txt")
	cmd.Flags().Bool("print", false, "Write the manifest to stdout instead of a file")
	cmd.Flags().String("pypi-url", "", "Base URL of the PyPI-compatible index (default https://pypi.org)")
	cmd.Flags().Int("concurrency", 0, "Maximum concurrent version lookups (default 4)")
	cmd.Flags().Duration("timeout", 0, "Timeout for each version lookup (default 30s)")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", exitcode.ErrUsage, err)
	})

	// Wire Cobra's built-in --version using goreqs's binary version
	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("goreqs {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(newScanCommand())
	cmd.AddCommand(newVersionCommand())
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute runs the root command and exits with the code matching any error.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		os.Exit(exitcode.For(err))
	}
}

func init() {
	registerSubcommands(rootCmd)
}

// addScanFlags registers the flags shared by every command that walks a tree
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().String("stdlib-file", "", "Read standard-library module names from this file")
	cmd.Flags().String("extension", "", "Source file extension to scan (default .py)")
	cmd.Flags().StringSlice("exclude", nil, "Glob of paths to skip, relative to <path> (repeatable)")
	cmd.Flags().Bool("respect-gitignore", false, "Skip paths ignored by .gitignore and .goreqsignore")
}

// usageArgs marks argument validation failures as usage errors
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", exitcode.ErrUsage, err)
		}
		return nil
	}
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	debug, _ := cmd.Flags().GetBool("debug")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	logLevel := logger.ParseLevel(logLevelStr)
	if debug && logLevel > logger.DebugLevel {
		logLevel = logger.DebugLevel
	}

	config := logger.Config{
		Level:     logLevel,
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "goreqs",
		Output:    cmd.ErrOrStderr(),
	}

	if err := logger.Initialize(config); err != nil {
		// Fallback to stderr
		_, _ = os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(exitcode.ConfigError)
	}
}
