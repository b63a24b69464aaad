package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 0.5, cfg.Tolerance)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subcost.yaml")
	data := "data_root: /srv/costs\nworkers: 4\nlog:\n  level: debug\noutput:\n  format: csv\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/costs", cfg.DataRoot)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "unset keys keep defaults")
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, ".", cfg.Output.Dir)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subcost.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 4\n"), 0o644))

	t.Setenv("SUBCOST_WORKERS", "8")
	t.Setenv("SUBCOST_DATA_ROOT", "/data")
	t.Setenv("SUBCOST_LOG_FORMAT", "json")
	t.Setenv("SUBCOST_OUTPUT_DIR", "/tmp/out")
	t.Setenv("SUBCOST_TOLERANCE", "0.25")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "/data", cfg.DataRoot)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/tmp/out", cfg.Output.Dir)
	assert.Equal(t, 0.25, cfg.Tolerance)
}

func TestEnvParseError(t *testing.T) {
	t.Setenv("SUBCOST_WORKERS", "many")
	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"level", func(c *Config) { c.Log.Level = "loud" }},
		{"format", func(c *Config) { c.Log.Format = "xml" }},
		{"workers", func(c *Config) { c.Workers = 0 }},
		{"tolerance", func(c *Config) { c.Tolerance = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
