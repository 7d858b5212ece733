package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shieldgate/internal/domain/security"
	"shieldgate/internal/shared/constants"
	apperrors "shieldgate/internal/shared/errors"
	"shieldgate/internal/shared/logger"
)

// CORS negotiates cross-origin access. A preflight (OPTIONS carrying an
// Origin) is answered here and never reaches the handlers. Other requests
// always continue; allowed origins get the CORS response headers.
func CORS(policy *security.CORSPolicy, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader(constants.HeaderOrigin)

		if c.Request.Method == http.MethodOptions && origin != "" {
			if err := policy.CheckPreflight(origin); err != nil {
				log.Debugw("preflight rejected", "origin", origin, "path", c.Request.URL.Path)
				rejection := apperrors.GetAppError(err)
				c.String(rejection.Code, rejection.Message)
				c.Abort()
				return
			}

			copyHeaders(c.Writer.Header(), policy.PreflightHeaders(origin))
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		if origin != "" && policy.IsOriginAllowed(origin) {
			copyHeaders(c.Writer.Header(), policy.ResponseHeaders(origin))
		}

		c.Next()
	}
}

func copyHeaders(dst, src http.Header) {
	for k, v := range src {
		dst[k] = v
	}
}
