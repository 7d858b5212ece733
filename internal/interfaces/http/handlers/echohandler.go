package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"shieldgate/internal/shared/constants"
	"shieldgate/internal/shared/errors"
	"shieldgate/internal/shared/logger"
	"shieldgate/internal/shared/utils"
)

// EchoHandler is a small protected resource used to exercise the pipeline.
// Echoed text is stripped of markup so the endpoint cannot reflect HTML.
type EchoHandler struct {
	policy *bluemonday.Policy
	logger logger.Interface
}

func NewEchoHandler(logger logger.Interface) *EchoHandler {
	return &EchoHandler{
		policy: bluemonday.StrictPolicy(),
		logger: logger,
	}
}

type EchoRequest struct {
	Message string `json:"message" binding:"required,max=1024"`
}

type EchoResponse struct {
	Method    string `json:"method"`
	Path      string `json:"path"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	Tier      string `json:"tier,omitempty"`
}

// Get handles GET /api/v1/echo
func (h *EchoHandler) Get(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", h.response(c, c.Query("message")))
}

// Mutate handles POST, PUT, PATCH and DELETE /api/v1/echo
func (h *EchoHandler) Mutate(c *gin.Context) {
	var req EchoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debugw("invalid echo request", "error", err)
		_ = c.Error(errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	status := http.StatusOK
	if c.Request.Method == http.MethodPost {
		status = http.StatusCreated
	}
	utils.SuccessResponse(c, status, "", h.response(c, req.Message))
}

func (h *EchoHandler) response(c *gin.Context, message string) EchoResponse {
	return EchoResponse{
		Method:    c.Request.Method,
		Path:      c.Request.URL.Path,
		Message:   h.policy.Sanitize(message),
		RequestID: c.GetString(constants.ContextKeyRequestID),
		UserID:    c.GetString(constants.ContextKeyUserID),
		Tier:      c.GetString(constants.ContextKeyRateLimitTier),
	}
}
