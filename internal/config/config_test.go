package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "concierge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9090
database:
  path: /tmp/test.db
oracle:
  provider: google
  model: gemini-1.5-pro
executor:
  pool_size: 4
  task_timeout: 30s
  retry_delay: 100ms
loop:
  max_iterations: 5
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, "gemini-1.5-pro", cfg.Oracle.Model)
	assert.Equal(t, 4, cfg.Executor.PoolSize)
	assert.Equal(t, 30*time.Second, cfg.Executor.TaskTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Executor.RetryDelay)
	assert.Equal(t, 5, cfg.Loop.MaxIterations)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_DefaultsFillGaps(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9999
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Executor.PoolSize)
	assert.Equal(t, 3, cfg.Loop.MaxIterations)
	assert.Equal(t, "google", cfg.Oracle.Provider)
}

func TestLoad_EnvInterpolation(t *testing.T) {
	t.Setenv("TEST_ORACLE_KEY", "secret-key")

	path := writeConfig(t, `
oracle:
  google:
    api_key: ${TEST_ORACLE_KEY}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-key", cfg.Oracle.Google.APIKey)
}

func TestLoadWithDefaults_MissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Port, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults are valid", func(c *Config) {}, true},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, false},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, false},
		{"unknown provider", func(c *Config) { c.Oracle.Provider = "psychic" }, false},
		{"test-only provider rejected", func(c *Config) { c.Oracle.Provider = "scripted" }, false},
		{"tracing enabled with noop", func(c *Config) { c.Tracing.Enabled = true }, true},
		{"tracing bad provider", func(c *Config) { c.Tracing.Enabled = true; c.Tracing.Provider = "zipkin" }, false},
		{"temperature out of range", func(c *Config) { c.Oracle.Temperature = 3.5 }, false},
		{"zero pool", func(c *Config) { c.Executor.PoolSize = 0 }, false},
		{"zero iterations", func(c *Config) { c.Loop.MaxIterations = 0 }, false},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, false},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestWriteDefault_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concierge.yaml")

	require.NoError(t, WriteDefault(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Port, cfg.Server.Port)
	assert.Equal(t, DefaultConfig().Loop.MaxIterations, cfg.Loop.MaxIterations)

	assert.Error(t, WriteDefault(path), "must not overwrite an existing file")
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	path := writeConfig(t, `
oracle:
  provider: psychic
`)

	_, err := Load(path)
	assert.Error(t, err)
}
