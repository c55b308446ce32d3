/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/fulmenhq/goreqs/pkg/classify"
	"github.com/fulmenhq/goreqs/pkg/config"
	"github.com/fulmenhq/goreqs/pkg/logger"
	"github.com/fulmenhq/goreqs/pkg/registry"
	"github.com/fulmenhq/goreqs/pkg/scanner"
	"github.com/fulmenhq/goreqs/pkg/stdlib"
	"github.com/spf13/cobra"
)

// newResolver builds the version resolver for a run. Tests replace it.
var newResolver = func(cfg *config.Config) registry.Resolver {
	return registry.NewPyPIClient(registry.PyPIOptions{
		BaseURL:   cfg.Registry.BaseURL,
		Timeout:   cfg.Registry.Timeout,
		UserAgent: "goreqs",
	})
}

// loadConfig resolves configuration for root and checks root itself, so a
// missing project fails as a filesystem error before any config is read.
func loadConfig(cmd *cobra.Command, root string) (*config.Config, error) {
	st, err := os.Stat(root)
	if err != nil {
		return nil, &scanner.FilesystemError{Op: "stat", Path: root, Err: err}
	}
	if !st.IsDir() {
		return nil, &scanner.FilesystemError{Op: "scan", Path: root, Err: fmt.Errorf("not a directory")}
	}

	cfg, err := config.Load(root, cmd.Flags())
	if err != nil {
		return nil, err
	}
	logger.Debug("Resolved configuration",
		logger.String("extension", cfg.Scan.Extension),
		logger.Strings("exclude", cfg.Scan.Exclude),
		logger.String("pypi_url", cfg.Registry.BaseURL),
		logger.Int("concurrency", cfg.Registry.Concurrency))
	return cfg, nil
}

// newClassifier uses the configured stdlib list, or the embedded one
func newClassifier(cfg *config.Config) (*classify.Classifier, error) {
	if cfg.StdlibFile == "" {
		return classify.New(stdlib.Default()), nil
	}
	set, err := stdlib.LoadFile(cfg.StdlibFile)
	if err != nil {
		return nil, fmt.Errorf("%w: stdlib_file: %v", config.ErrInvalid, err)
	}
	logger.Debug("Loaded standard-library names", logger.String("path", cfg.StdlibFile), logger.Int("count", set.Len()))
	return classify.New(set), nil
}

func scanOptions(cfg *config.Config) scanner.Options {
	return scanner.Options{
		Extension:        cfg.Scan.Extension,
		Exclude:          cfg.Scan.Exclude,
		RespectGitignore: cfg.Scan.RespectGitignore,
	}
}

// runCore performs the scan and classification for root
func runCore(cmd *cobra.Command, root string) (*config.Config, *classify.Report, error) {
	cfg, err := loadConfig(cmd, root)
	if err != nil {
		return nil, nil, err
	}
	c, err := newClassifier(cfg)
	if err != nil {
		return nil, nil, err
	}
	report, err := classify.Run(root, scanOptions(cfg), c)
	if err != nil {
		return nil, nil, err
	}
	return cfg, report, nil
}
