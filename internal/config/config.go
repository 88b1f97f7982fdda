// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Sternrassler/poiskkino-client/pkg/cache"
	"github.com/Sternrassler/poiskkino-client/pkg/client"
	"github.com/Sternrassler/poiskkino-client/pkg/logging"
	"github.com/Sternrassler/poiskkino-client/pkg/ratelimit"
)

// APIKeyEnv overrides poiskkino.api_key when set.
const APIKeyEnv = "POISKKINO_API_KEY"

// Config is the root configuration structure.
type Config struct {
	PoiskKino PoiskKinoConfig `toml:"poiskkino"`
	Cache     CacheConfig     `toml:"cache"`
	Quota     QuotaConfig     `toml:"quota"`
	Server    ServerConfig    `toml:"server"`
	Log       LogConfig       `toml:"log"`
}

type PoiskKinoConfig struct {
	APIKey           string        `toml:"api_key"`
	BaseURL          string        `toml:"base_url"`
	UserAgent        string        `toml:"user_agent"`
	Timeout          time.Duration `toml:"timeout"`
	IgnoreTMDbImages bool          `toml:"ignore_tmdb_images"`
	CoalesceRequests bool          `toml:"coalesce_requests"`
}

type CacheConfig struct {
	PositiveTTL time.Duration `toml:"positive_ttl"`
	NegativeTTL time.Duration `toml:"negative_ttl"`
}

type QuotaConfig struct {
	DailyLimit int    `toml:"daily_limit"`
	RedisAddr  string `toml:"redis_addr"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		PoiskKino: PoiskKinoConfig{
			BaseURL:          client.DefaultBaseURL,
			UserAgent:        client.DefaultUserAgent,
			Timeout:          client.DefaultTimeout,
			IgnoreTMDbImages: true,
		},
		Cache: CacheConfig{
			PositiveTTL: cache.PositiveTTL,
			NegativeTTL: cache.NegativeTTL,
		},
		Quota: QuotaConfig{
			DailyLimit: ratelimit.DefaultDailyLimit,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads, parses and validates the configuration file.
// Problems are reported as a single *Error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := Parse(string(data))
	if err != nil {
		var cfgErr *Error
		if errors.As(err, &cfgErr) {
			cfgErr.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML content on top of the defaults.
func Parse(content string) (*Config, error) {
	content, missing := substituteEnvVars(content)

	cfg := Default()
	if _, err := toml.Decode(content, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyEnv()

	cfgErr := &Error{Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

// LoadOrDefault loads path, or the defaults when path is empty.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		cfg.applyEnv()
		return cfg, nil
	}
	return Load(path)
}

func (c *Config) applyEnv() {
	if key := strings.TrimSpace(os.Getenv(APIKeyEnv)); key != "" {
		c.PoiskKino.APIKey = key
	}
}

// ClientConfig maps the settings onto a client.Config.
func (c *Config) ClientConfig() client.Config {
	cfg := client.DefaultConfig()
	cfg.BaseURL = c.PoiskKino.BaseURL
	cfg.UserAgent = c.PoiskKino.UserAgent
	cfg.Timeout = c.PoiskKino.Timeout
	cfg.CoalesceRequests = c.PoiskKino.CoalesceRequests
	cfg.PositiveTTL = c.Cache.PositiveTTL
	cfg.NegativeTTL = c.Cache.NegativeTTL
	return cfg
}

// LoggingConfig maps the [log] section onto a logging.Config.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	if level, err := logging.ParseLevel(c.Log.Level); err == nil {
		cfg.Level = level
	}
	cfg.Pretty = c.Log.Pretty
	return cfg
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
