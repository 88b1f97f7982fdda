package cache

import (
	"time"
)

// Entry is a cached lookup outcome. A nil Value records a confirmed absence.
// Entries are replaced on every write, never mutated in place.
type Entry[T any] struct {
	// Value is the decoded payload, nil for a negative entry
	Value *T

	// Expires is when the entry becomes stale
	Expires time.Time

	// CachedAt is when the entry was written
	CachedAt time.Time
}

// Negative reports whether the entry records a confirmed not-found.
func (e *Entry[T]) Negative() bool {
	return e.Value == nil
}

// IsExpired returns true if the entry has expired at the given instant.
func (e *Entry[T]) IsExpired(now time.Time) bool {
	return !now.Before(e.Expires)
}

// TTL returns the time left until expiration at the given instant.
// Returns 0 if already expired.
func (e *Entry[T]) TTL(now time.Time) time.Duration {
	ttl := e.Expires.Sub(now)
	if ttl < 0 {
		return 0
	}
	return ttl
}
