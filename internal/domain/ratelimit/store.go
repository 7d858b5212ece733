package ratelimit

import (
	"context"
	"time"
)

// CounterStore keeps WindowState per client key and applies Admit to it
// atomically. Implementations may keep state in memory or in a shared
// backend.
type CounterStore interface {
	Check(ctx context.Context, key string, limits Limits, now time.Time) (Decision, error)
}

// Resetter is implemented by stores that can forget a client key, giving it
// full quota again.
type Resetter interface {
	Reset(ctx context.Context, key string) error
}

// Sweeper is implemented by stores that need explicit eviction of idle keys.
type Sweeper interface {
	// Sweep evicts keys whose hour window closed more than the configured
	// grace before now and returns how many were removed.
	Sweep(now time.Time) int
}
