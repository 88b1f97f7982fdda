package cache

import (
	"time"

	csmap "github.com/mhmtszr/concurrent-swiss-map"
)

// TTL policy for lookup outcomes.
const (
	// PositiveTTL is how long a decoded payload stays fresh
	PositiveTTL = 24 * time.Hour

	// NegativeTTL is how long a confirmed not-found stays fresh. It is shorter
	// than PositiveTTL so catalog additions become visible within the hour.
	NegativeTTL = 1 * time.Hour
)

// Store is a concurrent key to entry map for a single lookup kind.
// It is safe for concurrent use; the last writer for a key wins.
type Store[T any] struct {
	kind    Kind
	entries *csmap.CsMap[Key, *Entry[T]]
	now     func() time.Time
}

// Option configures a Store.
type Option[T any] func(*Store[T])

// WithClock overrides the time source (for testing).
func WithClock[T any](now func() time.Time) Option[T] {
	return func(s *Store[T]) {
		s.now = now
	}
}

// NewStore creates an empty store for the given kind.
func NewStore[T any](kind Kind, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		kind:    kind,
		entries: csmap.Create[Key, *Entry[T]](),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the fresh entry stored under key.
// A stale entry is evicted on sight and reported as a miss.
func (s *Store[T]) Get(key Key) (*Entry[T], bool) {
	entry, ok := s.entries.Load(key)
	if !ok {
		CacheMisses.WithLabelValues(string(s.kind)).Inc()
		return nil, false
	}

	now := s.now()
	if entry.IsExpired(now) {
		// Only drop the entry we observed; a concurrent Put may have replaced it.
		if s.entries.DeleteIf(key, func(current *Entry[T]) bool { return current == entry }) {
			CacheEvictions.WithLabelValues(string(s.kind)).Inc()
			CacheEntries.WithLabelValues(string(s.kind)).Set(float64(s.entries.Count()))
		}
		CacheMisses.WithLabelValues(string(s.kind)).Inc()
		return nil, false
	}

	result := "positive"
	if entry.Negative() {
		result = "negative"
	}
	CacheHits.WithLabelValues(string(s.kind), result).Inc()

	return entry, true
}

// Put stores value under key for ttl. A nil value records a confirmed absence.
// Non-positive TTLs are ignored.
func (s *Store[T]) Put(key Key, value *T, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	now := s.now()
	s.entries.Store(key, &Entry[T]{
		Value:    value,
		Expires:  now.Add(ttl),
		CachedAt: now,
	})
	CacheEntries.WithLabelValues(string(s.kind)).Set(float64(s.entries.Count()))
}

// Delete removes the entry stored under key.
func (s *Store[T]) Delete(key Key) {
	if s.entries.Delete(key) {
		CacheEntries.WithLabelValues(string(s.kind)).Set(float64(s.entries.Count()))
	}
}

// Len returns the number of stored entries, fresh or not yet evicted.
func (s *Store[T]) Len() int {
	return s.entries.Count()
}

// Kind returns the lookup kind served by the store.
func (s *Store[T]) Kind() Kind {
	return s.kind
}
