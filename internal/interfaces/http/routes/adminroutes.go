package routes

import (
	"github.com/gin-gonic/gin"

	"shieldgate/internal/interfaces/http/handlers"
	"shieldgate/internal/interfaces/http/middleware"
)

// AdminRouteConfig holds dependencies for the operator routes.
type AdminRouteConfig struct {
	RateLimitAdminHandler *handlers.RateLimitAdminHandler
	PermissionMiddleware  *middleware.PermissionMiddleware
}

// SetupAdminRoutes configures the operator routes. Every route requires a
// role the permission enforcer grants.
func SetupAdminRoutes(group *gin.RouterGroup, cfg *AdminRouteConfig) {
	admin := group.Group("/admin")
	admin.Use(cfg.PermissionMiddleware.RequirePermission())

	rl := admin.Group("/ratelimit")
	{
		rl.GET("/tiers", cfg.RateLimitAdminHandler.ListTiers)
		rl.DELETE("/clients/:key", cfg.RateLimitAdminHandler.ResetClient)
	}
}
