package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shieldgate/internal/shared/errors"
)

// APIResponse represents a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorInfo represents error information in API response
type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// RejectionBody is the flat body of a terminal rejection produced by the
// protection pipeline.
type RejectionBody struct {
	Error string `json:"error"`
}

// RateLimitBody is the body of a 429 response.
type RateLimitBody struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	Limit      int    `json:"limit"`
	Reset      int64  `json:"reset"`
	RetryAfter int    `json:"retry_after"`
}

// SuccessResponse sends a successful response with custom status code
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	}

	c.JSON(statusCode, response)
}

// ErrorResponse sends an error response with a plain message
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	errorInfo := ErrorInfo{
		Type:    "error",
		Message: message,
	}

	response := APIResponse{
		Success: false,
		Error:   &errorInfo,
	}

	c.JSON(statusCode, response)
}

// ErrorResponseWithError sends an error response based on error type
func ErrorResponseWithError(c *gin.Context, err error) {
	var statusCode int
	var errorInfo ErrorInfo

	if appErr := errors.GetAppError(err); appErr != nil {
		statusCode = appErr.Code
		errorInfo = ErrorInfo{
			Type:    string(appErr.Type),
			Message: appErr.Message,
			Details: appErr.Details,
		}
	} else {
		// For non-AppError, do not expose internal error details to prevent information leakage
		statusCode = http.StatusInternalServerError
		errorInfo = ErrorInfo{
			Type:    string(errors.ErrorTypeInternal),
			Message: "Internal server error occurred",
		}
	}

	response := APIResponse{
		Success: false,
		Error:   &errorInfo,
	}

	c.JSON(statusCode, response)
}

// AbortWithRejection writes {"error": message} with status and stops the chain.
func AbortWithRejection(c *gin.Context, err *errors.AppError) {
	c.AbortWithStatusJSON(err.Code, RejectionBody{Error: err.Message})
}

// AbortWithRateLimit writes the quota rejection body and stops the chain.
// Rate limit headers are expected to be set by the caller.
func AbortWithRateLimit(c *gin.Context, err *errors.AppError, limit int, reset int64, retryAfter int) {
	c.AbortWithStatusJSON(err.Code, RateLimitBody{
		Error:      err.Message,
		Message:    err.Details,
		Limit:      limit,
		Reset:      reset,
		RetryAfter: retryAfter,
	})
}

// NoContentResponse sends a no content response
func NoContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
