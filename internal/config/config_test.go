package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/poiskkino-client/pkg/logging"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "https://api.poiskkino.dev", cfg.PoiskKino.BaseURL)
	assert.Equal(t, 120*time.Second, cfg.PoiskKino.Timeout)
	assert.True(t, cfg.PoiskKino.IgnoreTMDbImages)
	assert.False(t, cfg.PoiskKino.CoalesceRequests)
	assert.Equal(t, 24*time.Hour, cfg.Cache.PositiveTTL)
	assert.Equal(t, time.Hour, cfg.Cache.NegativeTTL)
	assert.Equal(t, 200, cfg.Quota.DailyLimit)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Empty(t, cfg.Validate())
}

func TestLoad_Full(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	t.Setenv("TEST_POISKKINO_KEY", "abc123")

	path := writeConfig(t, `
[poiskkino]
api_key = "${TEST_POISKKINO_KEY}"
base_url = "http://localhost:9000"
user_agent = "test-agent/2.0"
timeout = "30s"
ignore_tmdb_images = false
coalesce_requests = true

[cache]
positive_ttl = "12h"
negative_ttl = "30m"

[quota]
daily_limit = 500
redis_addr = "localhost:6379"

[server]
host = "127.0.0.1"
port = 9090

[log]
level = "debug"
pretty = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "abc123", cfg.PoiskKino.APIKey)
	assert.Equal(t, "http://localhost:9000", cfg.PoiskKino.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.PoiskKino.Timeout)
	assert.False(t, cfg.PoiskKino.IgnoreTMDbImages)
	assert.True(t, cfg.PoiskKino.CoalesceRequests)
	assert.Equal(t, 12*time.Hour, cfg.Cache.PositiveTTL)
	assert.Equal(t, 30*time.Minute, cfg.Cache.NegativeTTL)
	assert.Equal(t, 500, cfg.Quota.DailyLimit)
	assert.Equal(t, "localhost:6379", cfg.Quota.RedisAddr)
	assert.Equal(t, "127.0.0.1:9090", cfg.Addr())

	clientCfg := cfg.ClientConfig()
	assert.Equal(t, "test-agent/2.0", clientCfg.UserAgent)
	assert.Equal(t, 30*time.Minute, clientCfg.NegativeTTL)
	assert.True(t, clientCfg.CoalesceRequests)

	logCfg := cfg.LoggingConfig()
	assert.Equal(t, logging.LevelDebug, logCfg.Level)
	assert.True(t, logCfg.Pretty)
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	t.Setenv(APIKeyEnv, "")

	cfg, err := Load(writeConfig(t, `
[server]
port = 8181
`))
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.Server.Port)
	assert.True(t, cfg.PoiskKino.IgnoreTMDbImages, "absent keys keep their defaults")
	assert.Equal(t, 24*time.Hour, cfg.Cache.PositiveTTL)
}

func TestLoad_EnvOverridesAPIKey(t *testing.T) {
	t.Setenv(APIKeyEnv, "from-env")

	cfg, err := Load(writeConfig(t, `
[poiskkino]
api_key = "from-file"
`))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.PoiskKino.APIKey)
}

func TestLoad_OptionalAPIKey(t *testing.T) {
	t.Setenv(APIKeyEnv, "")

	cfg, err := Load(writeConfig(t, `
[poiskkino]
api_key = "${POISKKINO_TEST_UNSET_KEY_98765:-}"
`))
	require.NoError(t, err)
	assert.Empty(t, cfg.PoiskKino.APIKey, "a blank key is allowed; lookups report unconfigured")
}

func TestLoad_MissingEnvVar(t *testing.T) {
	path := writeConfig(t, `
[poiskkino]
api_key = "${POISKKINO_TEST_UNSET_KEY_12345}"
`)

	_, err := Load(path)
	require.Error(t, err)

	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, path, cfgErr.Path)
	assert.Equal(t, []string{"POISKKINO_TEST_UNSET_KEY_12345"}, cfgErr.Missing)
}

func TestLoad_ValidationError(t *testing.T) {
	_, err := Load(writeConfig(t, `
[cache]
positive_ttl = "1h"
negative_ttl = "2h"

[server]
port = 70000

[log]
level = "loud"
`))
	require.Error(t, err)

	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	require.Len(t, cfgErr.Errors, 3)
	assert.Contains(t, err.Error(), "cache.negative_ttl")
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "log.level")
}

func TestLoad_InvalidTOML(t *testing.T) {
	_, err := Load(writeConfig(t, `[server`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestLoadOrDefault(t *testing.T) {
	t.Setenv(APIKeyEnv, "env-key")

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.PoiskKino.APIKey)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"blank base url", func(c *Config) { c.PoiskKino.BaseURL = "" }, "poiskkino.base_url: required"},
		{"relative base url", func(c *Config) { c.PoiskKino.BaseURL = "poiskkino.dev" }, "must be an absolute URL"},
		{"blank user agent", func(c *Config) { c.PoiskKino.UserAgent = "" }, "poiskkino.user_agent"},
		{"zero timeout", func(c *Config) { c.PoiskKino.Timeout = 0 }, "poiskkino.timeout"},
		{"zero positive ttl", func(c *Config) { c.Cache.PositiveTTL = 0 }, "cache.positive_ttl"},
		{"equal ttls", func(c *Config) { c.Cache.NegativeTTL = c.Cache.PositiveTTL }, "must be shorter"},
		{"zero limit", func(c *Config) { c.Quota.DailyLimit = 0 }, "quota.daily_limit"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			errs := cfg.Validate()
			if len(errs) == 0 {
				t.Fatalf("Validate() = no errors, want %q", tt.wantErr)
			}
			if !strings.Contains(strings.Join(errs, "\n"), tt.wantErr) {
				t.Errorf("Validate() = %v, want an error containing %q", errs, tt.wantErr)
			}
		})
	}
}

func TestError(t *testing.T) {
	empty := &Error{Path: "/etc/poiskkino/config.toml"}
	assert.Equal(t, "", empty.Error())
	assert.False(t, empty.HasErrors())

	e := &Error{
		Path:    "/etc/poiskkino/config.toml",
		Missing: []string{"POISKKINO_API_KEY"},
		Errors:  []string{"server.port: must be between 1 and 65535, got 0"},
	}
	assert.True(t, e.HasErrors())
	got := e.Error()
	assert.Contains(t, got, "/etc/poiskkino/config.toml")
	assert.Contains(t, got, "missing environment variables: POISKKINO_API_KEY")
	assert.Contains(t, got, "validation failed:")
	assert.Contains(t, got, "  - server.port")
}
