// Package ratelimit tracks PoiskKino daily request quota and upstream throttling.
// It observes traffic and never blocks it: serialization is the gate's job, and
// a throttled response is reported to callers by the client itself.
package ratelimit

import (
	"time"
)

// Redis keys for quota state storage.
const (
	RedisKeyUsedPrefix   = "poiskkino:quota:used:"
	RedisKeyLastThrottle = "poiskkino:quota:last_throttle"
)

const (
	// DefaultDailyLimit is the free-tier request budget per UTC day.
	DefaultDailyLimit = 200

	// WarningFraction is the share of the daily budget below which each
	// request logs a warning.
	WarningFraction = 0.1
)

// Throttle records the most recent 429/403 answer from upstream.
type Throttle struct {
	StatusCode int       `json:"status_code"`
	Message    string    `json:"message"`
	At         time.Time `json:"at"`
}

// QuotaState is a snapshot of the daily request budget.
type QuotaState struct {
	// Day is the UTC date the counter belongs to (YYYY-MM-DD).
	Day string `json:"day"`

	// Used is the number of outbound requests made on Day.
	Used int `json:"used"`

	// Limit is the configured daily budget.
	Limit int `json:"limit"`

	// LastThrottle is the latest upstream throttle, if any was recorded.
	LastThrottle *Throttle `json:"last_throttle,omitempty"`
}

// Remaining returns the requests left today. Returns 0 once the budget is spent.
func (s *QuotaState) Remaining() int {
	if s.Used >= s.Limit {
		return 0
	}
	return s.Limit - s.Used
}

// Exhausted returns true once the daily budget is spent.
func (s *QuotaState) Exhausted() bool {
	return s.Remaining() == 0
}

// NeedsWarning returns true when fewer than WarningFraction of the budget is left.
func (s *QuotaState) NeedsWarning() bool {
	return float64(s.Remaining()) < float64(s.Limit)*WarningFraction
}

// ThrottledWithin reports whether upstream throttled us within d before now.
func (s *QuotaState) ThrottledWithin(now time.Time, d time.Duration) bool {
	return s.LastThrottle != nil && now.Sub(s.LastThrottle.At) < d
}

// DayKey returns the UTC date of t.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// EndOfDay returns the first instant of the UTC day after t.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)
}
