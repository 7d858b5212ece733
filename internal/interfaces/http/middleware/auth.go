package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"shieldgate/internal/infrastructure/auth"
	"shieldgate/internal/shared/constants"
	"shieldgate/internal/shared/logger"
)

// TokenVerifier verifies an access token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	logger   logger.Interface
}

func NewAuthMiddleware(verifier TokenVerifier, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// OptionalAuth places the identity of a valid bearer token on the context.
// Requests without a token, or with an invalid one, continue anonymously.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := m.verifier.Verify(parts[1])
		if err != nil {
			m.logger.Debugw("ignoring invalid bearer token", "error", err)
			c.Next()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.UserID)
		if claims.Role != "" {
			c.Set(constants.ContextKeyUserRole, claims.Role)
		}
		if claims.SubscriptionTier != "" {
			c.Set(constants.ContextKeySubscriptionTier, claims.SubscriptionTier)
		}

		c.Next()
	}
}
