// Package config loads tool configuration from a YAML file with
// PDREPORT_* environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// envPrefix namespaces environment overrides: PDREPORT_TOKEN -> token.
const envPrefix = "PDREPORT_"

// Config holds the full tool configuration. It is loaded once at
// process start and read-only thereafter.
type Config struct {
	// Token is the PagerDuty API credential (required).
	Token string `koanf:"token" yaml:"token"`

	// BaseURL overrides the API host; empty means the production host.
	BaseURL string `koanf:"base_url" yaml:"base_url"`

	// OutputDir is where export CSV files are written.
	OutputDir string `koanf:"output_dir" yaml:"output_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level" yaml:"log_level"`

	// Pretty switches log output from JSON to console format.
	Pretty bool `koanf:"pretty" yaml:"pretty"`

	// Timeout bounds a single API request.
	Timeout time.Duration `koanf:"timeout" yaml:"timeout"`

	// MetricsAddr, when set, serves Prometheus metrics during exports.
	MetricsAddr string `koanf:"metrics_addr" yaml:"metrics_addr"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		OutputDir: "exports",
		LogLevel:  "info",
		Timeout:   30 * time.Second,
	}
}

// Load reads configuration from the given YAML file (if it exists),
// then overlays PDREPORT_* environment variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path. Used to
// generate a starter config.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("token is required (set it in the config file or PDREPORT_TOKEN)")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	return nil
}
