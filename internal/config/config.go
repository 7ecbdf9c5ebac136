// Package config loads the clip2html YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/alnah/go-clip2html/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidProvider = errors.New("invalid provider")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Supported inference providers.
const (
	ProviderBedrock = "bedrock"
	ProviderOllama  = "ollama"
)

// DirName and FileName locate the default config file under ~/.config.
const (
	DirName  = "go-clip2html"
	FileName = "config.yaml"
)

// MaxFileSize limits config input to prevent memory exhaustion (1MB).
const MaxFileSize = 1 << 20

// Field limits.
const (
	MaxModelLength  = 200  // Bedrock ARNs are long
	MaxRegionLength = 50   // "us-gov-west-1"
	MaxPathLength   = 4096 // PATH_MAX
	MaxURLLength    = 2048 // Browser limit
	MaxTokensLimit  = 100000
	MaxTimeout      = 30 * time.Minute
)

// Config holds all settings for one run.
type Config struct {
	Provider  string        `yaml:"provider"`  // "bedrock" (default) or "ollama"
	Model     string        `yaml:"model"`     // Empty = provider default
	Region    string        `yaml:"region"`    // Empty = AWS default chain
	MaxTokens int           `yaml:"maxTokens"` // 0 = service default
	Timeout   string        `yaml:"timeout"`   // Go duration, "" or "0" = transport default
	Workspace string        `yaml:"workspace"` // Empty = ~/screenshot_analysis
	Ollama    OllamaConfig  `yaml:"ollama"`
	Browser   BrowserConfig `yaml:"browser"`
}

// OllamaConfig defines the local model server.
type OllamaConfig struct {
	URL string `yaml:"url"` // Empty = http://localhost:11434
}

// BrowserConfig defines how the document is opened.
type BrowserConfig struct {
	Path      string `yaml:"path"`      // Empty = platform Chrome location
	Preferred *bool  `yaml:"preferred"` // nil = true; false = OS default handler only
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{Provider: ProviderBedrock}
}

// PreferChrome reports whether the preferred browser should be tried first.
func (c *Config) PreferChrome() bool {
	return c.Browser.Preferred == nil || *c.Browser.Preferred
}

// TimeoutDuration returns the parsed timeout, or 0 when unset or invalid.
// Call Validate first to reject invalid values.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := parseTimeout(c.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Validate checks provider, field lengths and numeric ranges.
// Called automatically by Load, but available for configs built by hand.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Provider) {
	case "", ProviderBedrock, ProviderOllama:
	default:
		return fmt.Errorf("%w: %q (must be %s or %s)", ErrInvalidProvider, c.Provider, ProviderBedrock, ProviderOllama)
	}

	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"model", c.Model, MaxModelLength},
		{"region", c.Region, MaxRegionLength},
		{"workspace", c.Workspace, MaxPathLength},
		{"ollama.url", c.Ollama.URL, MaxURLLength},
		{"browser.path", c.Browser.Path, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if c.MaxTokens < 0 || c.MaxTokens > MaxTokensLimit {
		return fmt.Errorf("%w: maxTokens must be between 0 and %d, got %d", ErrInvalidValue, MaxTokensLimit, c.MaxTokens)
	}

	d, err := parseTimeout(c.Timeout)
	if err != nil {
		return fmt.Errorf("%w: timeout %q: %v", ErrInvalidValue, c.Timeout, err)
	}
	if d < 0 || d > MaxTimeout {
		return fmt.Errorf("%w: timeout must be between 0 and %s, got %s", ErrInvalidValue, MaxTimeout, d)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// Dir returns ~/.config/go-clip2html.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", DirName), nil
}

// DefaultPath returns ~/.config/go-clip2html/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// ResolvePath maps a --config value to a file. A value containing a path
// separator is a path, with "~" expanded. A bare name selects a file in
// Dir, ".yaml" being added when it has no extension:
//
//   - "work" -> ~/.config/go-clip2html/work.yaml
//   - "work.yml" -> ~/.config/go-clip2html/work.yml
//   - "./clip2html.yaml" -> ./clip2html.yaml
func ResolvePath(value string) (string, error) {
	if fileutil.IsFilePath(value) {
		return fileutil.ExpandHome(value)
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if filepath.Ext(value) == "" {
		value += ".yaml"
	}
	return filepath.Join(dir, value), nil
}

// Load reads the config file at path. When explicit is false a missing
// file yields DefaultConfig; an explicitly named file must exist.
func Load(path string, explicit bool) (*Config, error) {
	path, err := fileutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if explicit {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return DefaultConfig(), nil
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	case !info.Mode().IsRegular():
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrConfigParse, path)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML strictly over DefaultConfig and validates the result.
// Unknown keys are rejected. Empty input yields the defaults.
func Parse(data []byte) (*Config, error) {
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigParse, len(data), MaxFileSize)
	}

	cfg := DefaultConfig()
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}
	cfg.Provider = strings.ToLower(cfg.Provider)
	if cfg.Provider == "" {
		cfg.Provider = ProviderBedrock
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
