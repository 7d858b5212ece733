package middleware

import (
	"github.com/gin-gonic/gin"

	"shieldgate/internal/domain/security"
	"shieldgate/internal/shared/errors"
	"shieldgate/internal/shared/logger"
	"shieldgate/internal/shared/utils"
)

// CSRF validates the Double Submit Cookie pair on state-changing requests.
// For POST, PUT, DELETE and PATCH outside the exempt paths, the cookieName
// cookie must equal the headerName header.
func CSRF(validator *security.CSRFValidator, headerName, cookieName string, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookieToken, _ := c.Cookie(cookieName)
		headerToken := c.GetHeader(headerName)

		err := validator.Validate(c.Request.Method, c.Request.URL.Path, headerToken, cookieToken)
		if err != nil {
			log.Warnw("csrf validation failed",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"has_header", headerToken != "",
				"has_cookie", cookieToken != "",
			)
			utils.AbortWithRejection(c, errors.GetAppError(err))
			return
		}

		c.Next()
	}
}
