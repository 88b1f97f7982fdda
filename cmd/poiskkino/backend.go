package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sternrassler/poiskkino-client/internal/config"
	"github.com/Sternrassler/poiskkino-client/pkg/client"
	"github.com/Sternrassler/poiskkino-client/pkg/logging"
	"github.com/Sternrassler/poiskkino-client/pkg/ratelimit"
)

const redisPingTimeout = 5 * time.Second

// backend bundles the client with whatever it needs closed afterwards.
type backend struct {
	*client.Client
	redis *redis.Client
}

func (b *backend) Close() {
	b.Client.Close()
	if b.redis != nil {
		b.redis.Close()
	}
}

// newBackend builds the lookup client. The quota tracker is shared through
// Redis when quota.redis_addr is set, and kept in-process otherwise.
func newBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	b := &backend{}

	var store ratelimit.Store
	if cfg.Quota.RedisAddr != "" {
		b.redis = redis.NewClient(&redis.Options{Addr: cfg.Quota.RedisAddr})

		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := b.redis.Ping(pingCtx).Err(); err != nil {
			b.redis.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Quota.RedisAddr, err)
		}
		store = ratelimit.NewRedisStore(b.redis)
	} else {
		store = ratelimit.NewMemoryStore()
	}

	clientCfg := cfg.ClientConfig()
	clientCfg.Tracker = ratelimit.NewTracker(store, logging.NewLogger("quota"),
		ratelimit.WithDailyLimit(cfg.Quota.DailyLimit))

	c, err := client.New(clientCfg)
	if err != nil {
		if b.redis != nil {
			b.redis.Close()
		}
		return nil, fmt.Errorf("create client: %w", err)
	}
	b.Client = c
	return b, nil
}
