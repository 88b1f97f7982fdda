package config

import (
	"fmt"
	"net/url"

	"github.com/Sternrassler/poiskkino-client/pkg/logging"
)

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.PoiskKino.BaseURL == "" {
		errs = append(errs, "poiskkino.base_url: required")
	} else if u, err := url.Parse(c.PoiskKino.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("poiskkino.base_url: must be an absolute URL, got %q", c.PoiskKino.BaseURL))
	}
	if c.PoiskKino.UserAgent == "" {
		errs = append(errs, "poiskkino.user_agent: required")
	}
	if c.PoiskKino.Timeout <= 0 {
		errs = append(errs, fmt.Sprintf("poiskkino.timeout: must be positive, got %s", c.PoiskKino.Timeout))
	}

	if c.Cache.PositiveTTL <= 0 {
		errs = append(errs, fmt.Sprintf("cache.positive_ttl: must be positive, got %s", c.Cache.PositiveTTL))
	}
	if c.Cache.NegativeTTL <= 0 {
		errs = append(errs, fmt.Sprintf("cache.negative_ttl: must be positive, got %s", c.Cache.NegativeTTL))
	} else if c.Cache.NegativeTTL >= c.Cache.PositiveTTL {
		errs = append(errs, fmt.Sprintf("cache.negative_ttl: must be shorter than positive_ttl (%s), got %s", c.Cache.PositiveTTL, c.Cache.NegativeTTL))
	}

	if c.Quota.DailyLimit < 1 {
		errs = append(errs, fmt.Sprintf("quota.daily_limit: must be at least 1, got %d", c.Quota.DailyLimit))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	return errs
}
