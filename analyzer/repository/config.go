package repository

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Config controls repository scanning.
type Config struct {
	// IgnoreRules uses two rule families: a rule starting with "/" is a
	// glob matched against the root-relative path, any other rule matches
	// a single path segment anywhere under the root.
	IgnoreRules []string `yaml:"ignoreRules,omitempty" json:"ignoreRules,omitempty"`
	// Extensions lists the source file extensions to collect, ".py" by
	// default.
	Extensions []string `yaml:"extensions,omitempty" json:"extensions,omitempty"`
}

// DefaultConfig returns the scan configuration used when none is supplied.
func DefaultConfig() *Config {
	return &Config{
		IgnoreRules: []string{".git", "__pycache__", ".venv", "venv"},
		Extensions:  []string{".py"},
	}
}

// LoadConfig reads a YAML scan configuration from a file URL. Unset fields
// fall back to defaults.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load scan config from %s: %w", URL, err)
	}
	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse scan config %s: %w", URL, err)
	}
	defaults := DefaultConfig()
	if len(config.Extensions) == 0 {
		config.Extensions = defaults.Extensions
	}
	if config.IgnoreRules == nil {
		config.IgnoreRules = defaults.IgnoreRules
	}
	return config, nil
}
