package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shieldgate/internal/shared/constants"
)

const maxRequestIDLength = 128

// RequestID keeps a caller supplied X-Request-ID or assigns a new UUID, and
// echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}

		c.Set(constants.ContextKeyRequestID, requestID)
		c.Header(constants.HeaderXRequestID, requestID)

		c.Next()
	}
}
