package routes

import (
	"github.com/gin-gonic/gin"

	"shieldgate/internal/interfaces/http/handlers"
)

// HealthRouteConfig holds dependencies for health routes.
type HealthRouteConfig struct {
	HealthHandler *handlers.HealthHandler
}

// SetupHealthRoutes configures health and probe routes.
func SetupHealthRoutes(group *gin.RouterGroup, cfg *HealthRouteConfig) {
	health := group.Group("/health")
	{
		health.GET("", cfg.HealthHandler.Health)
		health.GET("/live", cfg.HealthHandler.Live)
		health.GET("/ready", cfg.HealthHandler.Ready)
	}
}
