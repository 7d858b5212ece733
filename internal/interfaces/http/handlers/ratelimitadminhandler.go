package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"shieldgate/internal/domain/ratelimit"
	"shieldgate/internal/shared/constants"
	"shieldgate/internal/shared/errors"
	"shieldgate/internal/shared/logger"
	"shieldgate/internal/shared/utils"
)

// RateLimitAdmin is the operator view of the tiered limiter.
type RateLimitAdmin interface {
	TierLimits() map[ratelimit.Tier]ratelimit.Limits
	Reset(ctx context.Context, key string) error
}

// RateLimitAdminHandler serves the operator endpoints of the rate limiter.
type RateLimitAdminHandler struct {
	limiter RateLimitAdmin
	logger  logger.Interface
}

func NewRateLimitAdminHandler(limiter RateLimitAdmin, logger logger.Interface) *RateLimitAdminHandler {
	return &RateLimitAdminHandler{
		limiter: limiter,
		logger:  logger,
	}
}

type TierLimitsResponse struct {
	Tier      string `json:"tier"`
	PerMinute int    `json:"per_minute"`
	PerHour   int    `json:"per_hour"`
}

// ListTiers handles GET /api/v1/admin/ratelimit/tiers
//
// @Summary List rate limit tiers
// @Description Effective per-minute and per-hour quota of every tier
// @Tags RateLimit
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse{data=[]TierLimitsResponse}
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /admin/ratelimit/tiers [get]
func (h *RateLimitAdminHandler) ListTiers(c *gin.Context) {
	limits := h.limiter.TierLimits()

	out := make([]TierLimitsResponse, 0, len(limits))
	for _, tier := range ratelimit.Tiers {
		l, ok := limits[tier]
		if !ok {
			continue
		}
		out = append(out, TierLimitsResponse{
			Tier:      tier.String(),
			PerMinute: l.PerMinute,
			PerHour:   l.PerHour,
		})
	}

	utils.SuccessResponse(c, http.StatusOK, "", out)
}

// ResetClient handles DELETE /api/v1/admin/ratelimit/clients/:key
//
// @Summary Reset client counters
// @Description Give a client key full quota again in every tier
// @Tags RateLimit
// @Security Bearer
// @Param key path string true "Client key, e.g. user:42 or ip:10.0.0.1"
// @Success 204
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /admin/ratelimit/clients/{key} [delete]
func (h *RateLimitAdminHandler) ResetClient(c *gin.Context) {
	key := c.Param("key")
	if !ratelimit.IsClientKey(key) {
		_ = c.Error(errors.NewValidationError("invalid client key", "expected user:<id>, api:<key> or ip:<address>"))
		return
	}

	if err := h.limiter.Reset(c.Request.Context(), key); err != nil {
		h.logger.Errorw("failed to reset rate limit", "error", err, "client_key", key)
		_ = c.Error(errors.NewInternalError("failed to reset rate limit"))
		return
	}

	h.logger.Infow("rate limit reset by operator",
		"client_key", key,
		"operator", c.GetString(constants.ContextKeyUserID),
	)
	utils.NoContentResponse(c)
}
