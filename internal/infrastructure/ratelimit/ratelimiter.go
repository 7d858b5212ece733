package ratelimit

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shieldgate/internal/domain/ratelimit"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// StoreFactory builds one independent counter store per tier.
type StoreFactory struct {
	Backend     string
	RedisClient redis.Cmdable
	KeyPrefix   string
	StaleAfter  time.Duration
}

// NewStore returns a fresh store for tier. Redis stores of different tiers
// use disjoint key prefixes.
func (f StoreFactory) NewStore(tier ratelimit.Tier) (ratelimit.CounterStore, error) {
	switch f.Backend {
	case BackendMemory, "":
		return NewMemoryStore(WithStaleAfter(f.StaleAfter)), nil
	case BackendRedis:
		if f.RedisClient == nil {
			return nil, fmt.Errorf("redis backend selected but no redis client configured")
		}
		prefix := f.KeyPrefix
		if prefix == "" {
			prefix = "ratelimit"
		}
		return NewRedisStore(f.RedisClient, prefix+":"+tier.String(), WithRedisStaleAfter(f.StaleAfter)), nil
	default:
		return nil, fmt.Errorf("unknown rate limit backend %q", f.Backend)
	}
}
