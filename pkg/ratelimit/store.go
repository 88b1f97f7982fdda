package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Store persists quota counters.
type Store interface {
	// Incr adds one request to day's counter and returns the new count.
	// The counter expires at expireAt.
	Incr(ctx context.Context, day string, expireAt time.Time) (int, error)

	// Used returns day's counter, 0 if none was recorded.
	Used(ctx context.Context, day string) (int, error)

	// SetThrottle records the latest upstream throttle.
	SetThrottle(ctx context.Context, th Throttle) error

	// LastThrottle returns the latest upstream throttle, nil if none.
	LastThrottle(ctx context.Context) (*Throttle, error)
}

// MemoryStore keeps counters in process memory. Counts reset on restart.
type MemoryStore struct {
	mu    sync.Mutex
	items *gocache.Cache
}

// NewMemoryStore creates an in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: gocache.New(gocache.NoExpiration, 10*time.Minute),
	}
}

// Incr implements Store.
func (m *MemoryStore) Incr(_ context.Context, day string, expireAt time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := RedisKeyUsedPrefix + day
	// Add fails when the counter already exists, which is the common case.
	_ = m.items.Add(key, int64(0), time.Until(expireAt))

	n, err := m.items.IncrementInt64(key, 1)
	if err != nil {
		return 0, fmt.Errorf("increment %s: %w", key, err)
	}
	return int(n), nil
}

// Used implements Store.
func (m *MemoryStore) Used(_ context.Context, day string) (int, error) {
	v, ok := m.items.Get(RedisKeyUsedPrefix + day)
	if !ok {
		return 0, nil
	}
	n, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected counter type %T", v)
	}
	return int(n), nil
}

// SetThrottle implements Store.
func (m *MemoryStore) SetThrottle(_ context.Context, th Throttle) error {
	m.items.Set(RedisKeyLastThrottle, th, gocache.NoExpiration)
	return nil
}

// LastThrottle implements Store.
func (m *MemoryStore) LastThrottle(_ context.Context) (*Throttle, error) {
	v, ok := m.items.Get(RedisKeyLastThrottle)
	if !ok {
		return nil, nil
	}
	th, ok := v.(Throttle)
	if !ok {
		return nil, fmt.Errorf("unexpected throttle type %T", v)
	}
	return &th, nil
}

// RedisStore shares counters between processes using the same API key.
type RedisStore struct {
	redis *redis.Client
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(redisClient *redis.Client) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{redis: redisClient}
}

// Incr implements Store.
func (r *RedisStore) Incr(ctx context.Context, day string, expireAt time.Time) (int, error) {
	key := RedisKeyUsedPrefix + day

	pipe := r.redis.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireAt(ctx, key, expireAt)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis incr: %w", err)
	}

	return int(incr.Val()), nil
}

// Used implements Store.
func (r *RedisStore) Used(ctx context.Context, day string) (int, error) {
	n, err := r.redis.Get(ctx, RedisKeyUsedPrefix+day).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get: %w", err)
	}
	return n, nil
}

// SetThrottle implements Store.
func (r *RedisStore) SetThrottle(ctx context.Context, th Throttle) error {
	data, err := json.Marshal(th)
	if err != nil {
		return fmt.Errorf("marshal throttle: %w", err)
	}
	if err := r.redis.Set(ctx, RedisKeyLastThrottle, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// LastThrottle implements Store.
func (r *RedisStore) LastThrottle(ctx context.Context) (*Throttle, error) {
	data, err := r.redis.Get(ctx, RedisKeyLastThrottle).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var th Throttle
	if err := json.Unmarshal(data, &th); err != nil {
		return nil, fmt.Errorf("parse throttle: %w", err)
	}
	return &th, nil
}
