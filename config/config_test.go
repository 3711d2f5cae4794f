package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "API_KEY", "LOG_LEVEL", "SHORTFALL_POLICY", "ORACLE_MODEL_PATH", "ORACLE_URL", "REDIS_ADDR", "REDIS_PASSWORD", "RATE_LIMIT_RPM"} {
		t.Setenv(k, "")
	}
	// Load looks for .env in the working directory
	chdir(t, t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "proportional", cfg.Engine.ShortfallPolicy)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
engine:
  shortfall_policy: due_date_first
oracle:
  url: http://model:8000
  timeout: 500ms
cache:
  enabled: true
  ttl: 1m
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "due_date_first", cfg.Engine.ShortfallPolicy)
	assert.Equal(t, "http://model:8000", cfg.Oracle.URL)
	assert.Equal(t, 500*time.Millisecond, cfg.Oracle.Timeout)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	// untouched keys keep their defaults
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("RATE_LIMIT_RPM", "120")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("API_KEY", "secret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "redis:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 120, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "secret", cfg.Server.APIKey)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("SHORTFALL_POLICY")
	require.NoError(t, os.WriteFile(".env", []byte("SHORTFALL_POLICY=due_date_first\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "due_date_first", cfg.Engine.ShortfallPolicy)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("RATE_LIMIT_RPM", "lots")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"unknown policy", func(c *Config) { c.Engine.ShortfallPolicy = "random" }},
		{"zero rpm", func(c *Config) { c.RateLimit.RequestsPerMinute = 0 }},
		{"zero burst", func(c *Config) { c.RateLimit.Burst = 0 }},
		{"two oracles", func(c *Config) {
			c.Oracle.ModelPath = "model.yaml"
			c.Oracle.URL = "http://model"
		}},
	}

	assert.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
