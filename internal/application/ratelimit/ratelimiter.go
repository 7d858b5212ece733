// Package ratelimit applies tiered fixed-window quotas to request identities.
package ratelimit

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"

	ratelimitdomain "shieldgate/internal/domain/ratelimit"
	"shieldgate/internal/shared/logger"
)

// ErrResetUnsupported is returned by Reset when the store keeps no
// resettable state.
var ErrResetUnsupported = errors.New("counter store does not support reset")

// RateLimiter enforces one (per-minute, per-hour) quota pair over a counter
// store keyed by client identity.
type RateLimiter struct {
	name   string
	limits ratelimitdomain.Limits
	store  ratelimitdomain.CounterStore
	clock  clockwork.Clock
	logger logger.Interface
}

// NewRateLimiter creates a limiter that owns store.
func NewRateLimiter(
	name string,
	limits ratelimitdomain.Limits,
	store ratelimitdomain.CounterStore,
	clock clockwork.Clock,
	logger logger.Interface,
) *RateLimiter {
	return &RateLimiter{
		name:   name,
		limits: limits,
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Check admits or rejects one request of id. It never fails: when the store
// is unavailable the request is admitted and the error is logged.
func (l *RateLimiter) Check(ctx context.Context, id ratelimitdomain.Identity) ratelimitdomain.Decision {
	return l.CheckKey(ctx, id.ClientKey())
}

// CheckKey is Check for an already derived client key.
func (l *RateLimiter) CheckKey(ctx context.Context, key string) ratelimitdomain.Decision {
	now := l.clock.Now()

	decision, err := l.store.Check(ctx, key, l.limits, now)
	if err != nil {
		l.logger.Errorw("rate limit store unavailable, admitting request",
			"limiter", l.name,
			"client_key", key,
			"error", err,
		)
		return ratelimitdomain.Decision{
			Allowed:   true,
			Limit:     l.limits.PerMinute,
			Remaining: l.limits.PerMinute,
			ResetAt:   now.Add(ratelimitdomain.MinuteWindow),
		}
	}

	if !decision.Allowed {
		l.logger.Debugw("rate limit exceeded",
			"limiter", l.name,
			"client_key", key,
			"window", decision.Window,
			"retry_after", decision.RetryAfterSeconds(),
		)
	}

	return decision
}

// Reset gives key full quota again. Stores that cannot forget keys report
// ErrResetUnsupported.
func (l *RateLimiter) Reset(ctx context.Context, key string) error {
	resetter, ok := l.store.(ratelimitdomain.Resetter)
	if !ok {
		return ErrResetUnsupported
	}
	if err := resetter.Reset(ctx, key); err != nil {
		return fmt.Errorf("failed to reset %s on %s limiter: %w", key, l.name, err)
	}
	l.logger.Infow("rate limit counters reset", "limiter", l.name, "client_key", key)
	return nil
}

// Limits returns the quota pair of the limiter.
func (l *RateLimiter) Limits() ratelimitdomain.Limits {
	return l.limits
}

// Store returns the counter store owned by the limiter.
func (l *RateLimiter) Store() ratelimitdomain.CounterStore {
	return l.store
}
