package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigDir is the directory searched for config.yaml, relative to the
// working directory.
const DefaultConfigDir = ".solvercheck"

// HistoryConfig represents run-history persistence configuration
type HistoryConfig struct {
	// Enabled enables recording of run results
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database
	DBPath string `yaml:"db_path"`

	// KeepRuns is the maximum number of runs to retain (0 = unlimited)
	KeepRuns int `yaml:"keep_runs"`
}

// Config represents solvercheck configuration options
type Config struct {
	// DefaultMode is the mode used when --mode is not given (serial, parallel)
	DefaultMode string `yaml:"default_mode"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// Color controls colored output (auto, always, never)
	Color string `yaml:"color"`

	// History contains run-history persistence configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		DefaultMode: "serial",
		LogLevel:    "info",
		Color:       "auto",
		History: HistoryConfig{
			Enabled:  true,
			DBPath:   filepath.Join(DefaultConfigDir, "history.db"),
			KeepRuns: 100,
		},
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		// File doesn't exist, return defaults (not an error)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %s: %w", path, err)
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from dir/.solvercheck/config.yaml
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, DefaultConfigDir, "config.yaml"))
}

// MergeWithFlags overrides config values with explicitly set CLI flags.
// Nil pointers mean the flag was not set and the config value is kept.
func (c *Config) MergeWithFlags(mode *string, logLevel *string, noHistory *bool) {
	if mode != nil {
		c.DefaultMode = *mode
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if noHistory != nil && *noHistory {
		c.History.Enabled = false
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	switch c.DefaultMode {
	case "serial", "parallel":
	default:
		return fmt.Errorf("invalid default_mode %q (want serial or parallel)", c.DefaultMode)
	}

	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}

	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color %q (want auto, always, or never)", c.Color)
	}

	if c.History.KeepRuns < 0 {
		return fmt.Errorf("history.keep_runs must be >= 0, got %d", c.History.KeepRuns)
	}
	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("history.db_path must be set when history is enabled")
	}

	return nil
}
