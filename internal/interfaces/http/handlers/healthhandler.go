package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"

	"shieldgate/internal/shared/logger"
	"shieldgate/internal/shared/version"
)

const readinessTimeout = 2 * time.Second

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	redis  redis.Cmdable
	clock  clockwork.Clock
	logger logger.Interface
}

// NewHealthHandler creates a HealthHandler. redisClient may be nil when the
// counters are kept in memory.
func NewHealthHandler(redisClient redis.Cmdable, clock clockwork.Clock, logger logger.Interface) *HealthHandler {
	return &HealthHandler{
		redis:  redisClient,
		clock:  clock,
		logger: logger,
	}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Service   string            `json:"service,omitempty"`
	Version   string            `json:"version,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Health handles GET /api/v1/health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: h.clock.Now().UTC().Format(time.RFC3339),
		Service:   "shieldgate",
		Version:   version.String(),
	})
}

// Live handles GET /api/v1/health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "alive",
		Timestamp: h.clock.Now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /api/v1/health/ready. It fails while a configured Redis
// backend is unreachable.
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := map[string]string{}

	if h.redis != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		if err := h.redis.Ping(ctx).Err(); err != nil {
			h.logger.Warnw("readiness check failed", "component", "redis", "error", err)
			checks["redis"] = "unavailable"
			c.JSON(http.StatusServiceUnavailable, HealthResponse{
				Status:    "not_ready",
				Timestamp: h.clock.Now().UTC().Format(time.RFC3339),
				Checks:    checks,
			})
			return
		}
		checks["redis"] = "ok"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ready",
		Timestamp: h.clock.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}
