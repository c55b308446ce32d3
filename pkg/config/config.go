// Package config loads goreqs settings from defaults, config files, the
// environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fulmenhq/goreqs/pkg/logger"
	"github.com/fulmenhq/goreqs/pkg/safeio"
)

// ErrInvalid marks configuration that failed to parse or validate
var ErrInvalid = errors.New("invalid configuration")

// Config holds all configuration for goreqs
type Config struct {
	StdlibFile string         `mapstructure:"stdlib_file"`
	Scan       ScanConfig     `mapstructure:"scan"`
	Registry   RegistryConfig `mapstructure:"registry"`
	Manifest   ManifestConfig `mapstructure:"manifest"`
}

// ScanConfig controls the tree walk
type ScanConfig struct {
	Extension        string   `mapstructure:"extension"`
	Exclude          []string `mapstructure:"exclude"`
	RespectGitignore bool     `mapstructure:"respect_gitignore"`
}

// RegistryConfig controls version lookups
type RegistryConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`
}

// ManifestConfig controls the written manifest
type ManifestConfig struct {
	Filename string `mapstructure:"filename"`
}

// Config file names, in lookup order
var (
	ProjectConfigNames = []string{".goreqs.yaml", ".goreqs.yml"}
	UserConfigName     = ".goreqs.yaml"
	PyProjectName      = "pyproject.toml"
)

// Flag names bound onto config keys when present
var flagBindings = map[string]string{
	"stdlib-file":       "stdlib_file",
	"extension":         "scan.extension",
	"exclude":           "scan.exclude",
	"respect-gitignore": "scan.respect_gitignore",
	"pypi-url":          "registry.base_url",
	"timeout":           "registry.timeout",
	"concurrency":       "registry.concurrency",
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Scan: ScanConfig{
			Extension: ".py",
			Exclude:   []string{},
		},
		Registry: RegistryConfig{
			BaseURL:     "https://pypi.org",
			Timeout:     30 * time.Second,
			Concurrency: 4,
		},
		Manifest: ManifestConfig{
			Filename: "requirements.txt",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("stdlib_file", d.StdlibFile)
	v.SetDefault("scan.extension", d.Scan.Extension)
	v.SetDefault("scan.exclude", d.Scan.Exclude)
	v.SetDefault("scan.respect_gitignore", d.Scan.RespectGitignore)
	v.SetDefault("registry.base_url", d.Registry.BaseURL)
	v.SetDefault("registry.timeout", d.Registry.Timeout)
	v.SetDefault("registry.concurrency", d.Registry.Concurrency)
	v.SetDefault("manifest.filename", d.Manifest.Filename)
}

// Load resolves configuration for a project rooted at root. Sources apply in
// increasing precedence: defaults, ~/.goreqs.yaml, [tool.goreqs] in
// pyproject.toml, .goreqs.yaml at the root, GOREQS_* environment variables,
// then any changed flags in flags (which may be nil).
func Load(root string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, UserConfigName)
		// #nosec G304 -- fixed file name in the user's home directory
		if err := mergeYAML(v, path, func() ([]byte, error) { return os.ReadFile(path) }); err != nil {
			return nil, err
		}
	}

	if err := mergePyProject(v, root); err != nil {
		return nil, err
	}

	for _, name := range ProjectConfigNames {
		path := filepath.Join(root, name)
		if err := mergeYAML(v, path, func() ([]byte, error) { return safeio.ReadFileContained(root, path) }); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix("GOREQS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := BindFlags(v, flags); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if cfg.StdlibFile != "" && !filepath.IsAbs(cfg.StdlibFile) && (flags == nil || !flags.Changed("stdlib-file")) {
		cfg.StdlibFile = filepath.Join(root, cfg.StdlibFile)
	}

	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// BindFlags binds known goreqs flags present in flags onto their config keys
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for name, key := range flagBindings {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// Check validates values that the schema cannot express
func (c *Config) Check() error {
	if !strings.HasPrefix(c.Scan.Extension, ".") || len(c.Scan.Extension) < 2 {
		return fmt.Errorf("%w: scan.extension must start with a dot, got %q", ErrInvalid, c.Scan.Extension)
	}
	for _, pattern := range c.Scan.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: scan.exclude: invalid pattern %q", ErrInvalid, pattern)
		}
	}
	if c.Registry.Concurrency < 1 {
		return fmt.Errorf("%w: registry.concurrency must be at least 1, got %d", ErrInvalid, c.Registry.Concurrency)
	}
	if c.Registry.Timeout <= 0 {
		return fmt.Errorf("%w: registry.timeout must be positive", ErrInvalid)
	}
	u, err := url.Parse(c.Registry.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: registry.base_url must be an http(s) URL, got %q", ErrInvalid, c.Registry.BaseURL)
	}
	if c.Manifest.Filename == "" {
		return fmt.Errorf("%w: manifest.filename must not be empty", ErrInvalid)
	}
	return nil
}

func mergeYAML(v *viper.Viper, path string, read func() ([]byte, error)) error {
	data, err := read()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := Validate(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	if err := v.MergeConfigMap(doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	logger.Debug("Loaded config file", logger.String("path", path))
	return nil
}

// mergePyProject applies the [tool.goreqs] table of root/pyproject.toml
func mergePyProject(v *viper.Viper, root string) error {
	path := filepath.Join(root, PyProjectName)
	data, err := safeio.ReadFileContained(root, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc map[string]interface{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}

	tool, ok := doc["tool"].(map[string]interface{})
	if !ok {
		return nil
	}
	section, ok := tool["goreqs"].(map[string]interface{})
	if !ok {
		return nil
	}

	if err := validateDocument(section); err != nil {
		return fmt.Errorf("%s [tool.goreqs]: %w", path, err)
	}
	if err := v.MergeConfigMap(section); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	logger.Debug("Loaded [tool.goreqs] from pyproject.toml", logger.String("path", path))
	return nil
}
