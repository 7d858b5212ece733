package routes

import (
	"github.com/gin-gonic/gin"

	"shieldgate/internal/interfaces/http/handlers"
)

// CSRFRouteConfig holds dependencies for CSRF token routes.
type CSRFRouteConfig struct {
	CSRFHandler *handlers.CSRFHandler
}

// SetupCSRFRoutes configures the token issuing and revocation routes.
func SetupCSRFRoutes(group *gin.RouterGroup, cfg *CSRFRouteConfig) {
	group.GET("/csrf-token", cfg.CSRFHandler.IssueToken)
	group.DELETE("/csrf-token", cfg.CSRFHandler.RevokeToken)
}
