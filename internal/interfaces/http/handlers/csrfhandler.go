package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shieldgate/internal/domain/security"
	"shieldgate/internal/shared/config"
	"shieldgate/internal/shared/errors"
	"shieldgate/internal/shared/logger"
	"shieldgate/internal/shared/utils"
)

// CSRFHandler issues double-submit tokens.
type CSRFHandler struct {
	cookieName string
	cookie     config.CookieConfig
	logger     logger.Interface
}

func NewCSRFHandler(cfg config.CSRFConfig, logger logger.Interface) *CSRFHandler {
	return &CSRFHandler{
		cookieName: cfg.CookieName,
		cookie:     cfg.Cookie,
		logger:     logger,
	}
}

type CSRFTokenResponse struct {
	CSRFToken string `json:"csrf_token"`
}

// IssueToken handles GET /api/v1/csrf-token. The token is returned in the
// body and set as a script-readable cookie; clients echo it in the CSRF
// header on state-changing requests.
//
// @Summary Issue CSRF token
// @Tags CSRF
// @Produce json
// @Success 200 {object} utils.APIResponse{data=CSRFTokenResponse}
// @Router /csrf-token [get]
func (h *CSRFHandler) IssueToken(c *gin.Context) {
	token, err := security.GenerateCSRFToken()
	if err != nil {
		h.logger.Errorw("failed to generate csrf token", "error", err)
		utils.ErrorResponseWithError(c, errors.NewInternalError("failed to generate csrf token"))
		return
	}

	utils.SetCSRFCookie(c, h.cookieName, h.cookie, token)
	utils.SuccessResponse(c, http.StatusOK, "", CSRFTokenResponse{CSRFToken: token})
}

// RevokeToken handles DELETE /api/v1/csrf-token by expiring the cookie.
// Being a DELETE, it needs a valid token pair itself.
func (h *CSRFHandler) RevokeToken(c *gin.Context) {
	utils.ClearCSRFCookie(c, h.cookieName, h.cookie)
	utils.NoContentResponse(c)
}
