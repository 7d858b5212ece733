package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"
	"syscall"

	"github.com/gin-gonic/gin"

	apperrors "shieldgate/internal/shared/errors"
	"shieldgate/internal/shared/logger"
	"shieldgate/internal/shared/utils"
)

// redactedHeaders are masked when a request is logged after a panic.
var redactedHeaders = []string{
	"Authorization",
	"Cookie",
	"X-Api-Key",
	"X-Csrf-Token",
}

// Recovery turns a handler panic into a 500 JSON response. Panics caused by
// a client that went away are logged and the request is dropped.
func Recovery(log logger.Interface) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if isBrokenConnection(recovered) {
			log.Warnw("client connection lost during request",
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"error", recovered)
			c.Abort()
			return
		}

		log.Errorw("panic recovered",
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"headers", redactHeaders(c.Request.Header),
			"error", recovered,
			"stack", string(debug.Stack()))

		utils.ErrorResponseWithError(c, apperrors.NewInternalError("Internal server error occurred"))
		c.Abort()
	})
}

func redactHeaders(h http.Header) http.Header {
	out := h.Clone()
	for _, name := range redactedHeaders {
		if out.Get(name) != "" {
			out.Set(name, "*")
		}
	}
	return out
}

func isBrokenConnection(recovered any) bool {
	err, ok := recovered.(error)
	if !ok {
		return false
	}
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET)
}

// ErrorHandler renders the last error a handler attached with c.Error when
// the handler wrote no response itself.
func ErrorHandler(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		if !apperrors.IsAppError(err) {
			log.Errorw("unhandled handler error",
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"error", err)
		}

		if !c.Writer.Written() {
			utils.ErrorResponseWithError(c, err)
		}
	}
}
