package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shieldgate/internal/shared/constants"
	"shieldgate/internal/shared/logger"
	"shieldgate/internal/shared/utils"
)

// PermissionChecker decides whether a role may perform action on resource.
type PermissionChecker interface {
	Enforce(role, resource, action string) (bool, error)
}

type PermissionMiddleware struct {
	checker PermissionChecker
	logger  logger.Interface
}

func NewPermissionMiddleware(checker PermissionChecker, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		checker: checker,
		logger:  logger,
	}
}

// RequirePermission checks the caller's role against the request path and
// method. It must run after OptionalAuth.
func (m *PermissionMiddleware) RequirePermission() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(constants.ContextKeyUserID)
		if userID == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		role := c.GetString(constants.ContextKeyUserRole)
		resource := c.Request.URL.Path
		action := c.Request.Method

		allowed, err := m.checker.Enforce(role, resource, action)
		if err != nil {
			m.logger.Errorw("permission check failed", "error", err, "user_id", userID, "resource", resource, "action", action)
			utils.ErrorResponse(c, http.StatusInternalServerError, "permission check failed")
			c.Abort()
			return
		}

		if !allowed {
			m.logger.Warnw("permission denied", "user_id", userID, "role", role, "resource", resource, "action", action)
			utils.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
