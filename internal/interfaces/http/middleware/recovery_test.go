package middleware

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"syscall"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"shieldgate/internal/shared/errors"
	"shieldgate/internal/shared/logger"
)

func TestRecovery_PanicBecomes500(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(logger.NewNop()))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t,
		`{"success":false,"error":{"type":"internal_error","message":"Internal server error occurred"}}`,
		w.Body.String())
}

func TestErrorHandler_RendersAppError(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(logger.NewNop()))
	r.POST("/test", func(c *gin.Context) {
		_ = c.Error(errors.NewValidationError("invalid body", "message is required"))
	})

	w := serve(r, httptest.NewRequest(http.MethodPost, "/test", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t,
		`{"success":false,"error":{"type":"validation_error","message":"invalid body","details":"message is required"}}`,
		w.Body.String())
}

func TestRecovery_BrokenConnectionIsDropped(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(logger.NewNop()))
	r.GET("/gone", func(c *gin.Context) {
		panic(fmt.Errorf("flush response: %w", syscall.EPIPE))
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/gone", nil))

	assert.Empty(t, w.Body.String())
}

func TestRedactHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer secret")
	h.Set("X-API-Key", "key-1")
	h.Set("Accept", "application/json")

	out := redactHeaders(h)

	assert.Equal(t, "*", out.Get("Authorization"))
	assert.Equal(t, "*", out.Get("X-API-Key"))
	assert.Equal(t, "application/json", out.Get("Accept"))
	assert.Empty(t, out.Get("Cookie"))
	assert.Equal(t, "Bearer secret", h.Get("Authorization"))
}

func TestErrorHandler_PlainErrorIs500(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(logger.NewNop()))
	r.GET("/test", func(c *gin.Context) {
		_ = c.Error(stderrors.New("store offline"))
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "store offline")
}
