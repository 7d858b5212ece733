package middleware

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"shieldgate/internal/domain/ratelimit"
	"shieldgate/internal/shared/constants"
	apperrors "shieldgate/internal/shared/errors"
	"shieldgate/internal/shared/logger"
	"shieldgate/internal/shared/utils"
)

// TierLimiter admits or rejects a request identity against its tier's quota.
type TierLimiter interface {
	Check(ctx context.Context, id ratelimit.Identity) (ratelimit.Tier, ratelimit.Decision)
}

// RateLimiter enforces tiered per-client quotas. Rejected requests get a 429
// and never reach the handlers.
type RateLimiter struct {
	limiter  TierLimiter
	identity *IdentityResolver
	excluded map[string]struct{}
	logger   logger.Interface
}

func NewRateLimiter(limiter TierLimiter, identity *IdentityResolver, excludedPaths []string, logger logger.Interface) *RateLimiter {
	excluded := make(map[string]struct{}, len(excludedPaths))
	for _, p := range excludedPaths {
		excluded[p] = struct{}{}
	}
	return &RateLimiter{
		limiter:  limiter,
		identity: identity,
		excluded: excluded,
		logger:   logger,
	}
}

// Limit returns a Gin middleware that enforces the tier quota per client.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := rl.excluded[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		id := rl.identity.Resolve(c)
		tier, decision := rl.limiter.Check(c.Request.Context(), id)
		c.Set(constants.ContextKeyRateLimitTier, tier.String())

		reset := strconv.FormatInt(decision.ResetAt.Unix(), 10)
		c.Header(constants.HeaderRateLimitLimit, strconv.Itoa(decision.Limit))
		c.Header(constants.HeaderRateLimitReset, reset)

		if !decision.Allowed {
			retryAfter := decision.RetryAfterSeconds()
			c.Header(constants.HeaderRateLimitRemaining, "0")
			c.Header(constants.HeaderRetryAfter, strconv.Itoa(retryAfter))

			rl.logger.Infow("rate limit exceeded",
				"client_key", id.ClientKey(),
				"tier", tier,
				"window", decision.Window,
				"path", c.Request.URL.Path,
				"retry_after", retryAfter,
			)
			utils.AbortWithRateLimit(c,
				apperrors.NewQuotaExceededError("Rate limit exceeded",
					fmt.Sprintf("Too many requests. Please try again in %d seconds.", retryAfter)),
				decision.Limit, decision.ResetAt.Unix(), retryAfter)
			return
		}

		c.Header(constants.HeaderRateLimitRemaining, strconv.Itoa(decision.Remaining))
		c.Next()
	}
}
