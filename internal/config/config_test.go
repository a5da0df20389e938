package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidFile(t *testing.T) {
	content := `
redis:
  host: redis.internal
  port: 6380
  db: 2
trace:
  operation_name: "Custom.Store"
  strict_pairing: true
metrics:
  enabled: true
  port: 9100
  path: /metrics
logging:
  level: debug
  format: console
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "redis.internal", cfg.Redis.Host)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "Custom.Store", cfg.Trace.OperationName)
	assert.True(t, cfg.Trace.StrictPairing)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9100, cfg.Metrics.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.True(t, cfg.Trace.StrictPairing)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("REDIS_HOST", "override.internal")
	t.Setenv("REDIS_PORT", "7000")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "override.internal", cfg.Redis.Host)
	assert.Equal(t, 7000, cfg.Redis.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("redis: [not a mapping"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"missing redis host", func(c *Config) { c.Redis.Host = "" }, true},
		{"port out of range", func(c *Config) { c.Redis.Port = 70000 }, true},
		{"negative db", func(c *Config) { c.Redis.DB = -1 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"metrics enabled without path", func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.Path = ""
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
