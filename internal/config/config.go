// Package config holds the run settings of the subcost command: data
// location, logging, output and concurrency.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v9"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable the config reads.
const EnvPrefix = "SUBCOST_"

// Config is the resolved run configuration.
type Config struct {
	// DataRoot overrides the scenario's data_root when set.
	DataRoot string `yaml:"data_root" env:"DATA_ROOT"`

	Log    LogConfig    `yaml:"log" envPrefix:"LOG_"`
	Output OutputConfig `yaml:"output" envPrefix:"OUTPUT_"`

	// Workers > 1 estimates voltages concurrently.
	Workers int `yaml:"workers" env:"WORKERS"`
	// Tolerance is the relative deviation from a validation figure above
	// which a warning is raised.
	Tolerance float64 `yaml:"tolerance" env:"TOLERANCE"`
}

// LogConfig selects the log level and encoding.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"` // text or json
}

// OutputConfig selects where and how results are written.
type OutputConfig struct {
	Dir    string `yaml:"dir" env:"DIR"`
	Format string `yaml:"format" env:"FORMAT"` // text, csv, json or xlsx
}

// ValidLogFormats lists the accepted log encodings.
var ValidLogFormats = []string{"text", "json"}

// ValidLogLevels lists the accepted log levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Output: OutputConfig{
			Dir:    ".",
			Format: "text",
		},
		Workers:   1,
		Tolerance: 0.5,
	}
}

// Load reads the YAML file at path over the defaults, then applies
// SUBCOST_* environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if !contains(ValidLogLevels, c.Log.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Log.Level, ValidLogLevels)
	}
	if !contains(ValidLogFormats, c.Log.Format) {
		return fmt.Errorf("invalid log format: %s (valid: %v)", c.Log.Format, ValidLogFormats)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %v", c.Tolerance)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
