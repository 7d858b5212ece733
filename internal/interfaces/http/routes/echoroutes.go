package routes

import (
	"github.com/gin-gonic/gin"

	"shieldgate/internal/interfaces/http/handlers"
)

// EchoRouteConfig holds dependencies for echo routes.
type EchoRouteConfig struct {
	EchoHandler *handlers.EchoHandler
}

// SetupEchoRoutes configures the echo routes. Mutating methods sit behind the
// CSRF check when it is enabled.
func SetupEchoRoutes(group *gin.RouterGroup, cfg *EchoRouteConfig) {
	echo := group.Group("/echo")
	{
		echo.GET("", cfg.EchoHandler.Get)
		echo.POST("", cfg.EchoHandler.Mutate)
		echo.PUT("", cfg.EchoHandler.Mutate)
		echo.PATCH("", cfg.EchoHandler.Mutate)
		echo.DELETE("", cfg.EchoHandler.Mutate)
	}
}
