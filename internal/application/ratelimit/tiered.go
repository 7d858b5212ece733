package ratelimit

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"

	ratelimitdomain "shieldgate/internal/domain/ratelimit"
	"shieldgate/internal/shared/config"
	"shieldgate/internal/shared/logger"
)

// StoreProvider creates the counter store of one tier. Every call must return
// a store that shares no counters with stores of other tiers.
type StoreProvider interface {
	NewStore(tier ratelimitdomain.Tier) (ratelimitdomain.CounterStore, error)
}

// TieredRateLimiter routes each identity to the limiter of its tier. Tiers do
// not share quota.
type TieredRateLimiter struct {
	limiters map[ratelimitdomain.Tier]*RateLimiter
	clock    clockwork.Clock
	logger   logger.Interface
}

// NewTieredRateLimiter builds one limiter per known tier. limits may omit
// tiers; those fall back to ratelimitdomain.DefaultTierLimits.
func NewTieredRateLimiter(
	limits map[ratelimitdomain.Tier]ratelimitdomain.Limits,
	stores StoreProvider,
	clock clockwork.Clock,
	logger logger.Interface,
) (*TieredRateLimiter, error) {
	t := &TieredRateLimiter{
		limiters: make(map[ratelimitdomain.Tier]*RateLimiter, len(ratelimitdomain.Tiers)),
		clock:    clock,
		logger:   logger,
	}

	for _, tier := range ratelimitdomain.Tiers {
		tierLimits, ok := limits[tier]
		if !ok {
			tierLimits = ratelimitdomain.DefaultTierLimits[tier]
		}
		if tierLimits.PerMinute < 1 || tierLimits.PerHour < 1 {
			return nil, fmt.Errorf("invalid limits for tier %s: %d/min, %d/hour",
				tier, tierLimits.PerMinute, tierLimits.PerHour)
		}

		store, err := stores.NewStore(tier)
		if err != nil {
			return nil, fmt.Errorf("failed to create counter store for tier %s: %w", tier, err)
		}

		t.limiters[tier] = NewRateLimiter(tier.String(), tierLimits, store, clock, logger.With("tier", tier.String()))
	}

	logger.Infow("tiered rate limiter initialized", "tiers", len(t.limiters))
	return t, nil
}

// Check resolves the tier of id and runs that tier's limiter. An unknown
// subscription value is served as free.
func (t *TieredRateLimiter) Check(ctx context.Context, id ratelimitdomain.Identity) (ratelimitdomain.Tier, ratelimitdomain.Decision) {
	tier, recognized := ratelimitdomain.ResolveTier(id)
	if !recognized {
		t.logger.Debugw("unrecognized subscription tier, using free",
			"subscription_tier", id.SubscriptionTier,
		)
	}

	return tier, t.Limiter(tier).Check(ctx, id)
}

// Limiter returns the limiter of tier, or the free limiter for an unknown one.
func (t *TieredRateLimiter) Limiter(tier ratelimitdomain.Tier) *RateLimiter {
	if l, ok := t.limiters[tier]; ok {
		return l
	}
	return t.limiters[ratelimitdomain.TierFree]
}

// Reset gives key full quota again in every tier. The key may have been
// counted under several tiers, for example after a subscription change.
func (t *TieredRateLimiter) Reset(ctx context.Context, key string) error {
	var errs []error
	for _, tier := range ratelimitdomain.Tiers {
		if err := t.limiters[tier].Reset(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// TierLimits returns the effective quota of every tier.
func (t *TieredRateLimiter) TierLimits() map[ratelimitdomain.Tier]ratelimitdomain.Limits {
	out := make(map[ratelimitdomain.Tier]ratelimitdomain.Limits, len(t.limiters))
	for tier, l := range t.limiters {
		out[tier] = l.Limits()
	}
	return out
}

// Sweep evicts idle keys from every store that needs explicit eviction and
// returns the number removed.
func (t *TieredRateLimiter) Sweep(ctx context.Context) (int, error) {
	now := t.clock.Now()
	removed := 0
	for _, tier := range ratelimitdomain.Tiers {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if sweeper, ok := t.limiters[tier].Store().(ratelimitdomain.Sweeper); ok {
			removed += sweeper.Sweep(now)
		}
	}
	return removed, nil
}

// LimitsFromConfig converts the configured tier table. Unknown tier names are
// rejected.
func LimitsFromConfig(tiers map[string]config.TierLimitConfig) (map[ratelimitdomain.Tier]ratelimitdomain.Limits, error) {
	out := make(map[ratelimitdomain.Tier]ratelimitdomain.Limits, len(tiers))
	for name, cfg := range tiers {
		tier, ok := ratelimitdomain.ParseTier(name)
		if !ok {
			return nil, fmt.Errorf("unknown rate limit tier %q", name)
		}
		out[tier] = ratelimitdomain.Limits{PerMinute: cfg.PerMinute, PerHour: cfg.PerHour}
	}
	return out, nil
}
