package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"shieldgate/internal/domain/security"
)

func TestSecurityHeaders_AppliedToEveryStatus(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders(security.NewHeaderPolicy(nil, "", false)))
	r.GET("/ok", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/fail", func(c *gin.Context) { c.AbortWithStatus(http.StatusInternalServerError) })
	r.GET("/empty", func(c *gin.Context) {})

	for _, path := range []string{"/ok", "/fail", "/empty", "/missing"} {
		t.Run(path, func(t *testing.T) {
			w := serve(r, httptest.NewRequest(http.MethodGet, path, nil))
			for k, v := range security.DefaultSecurityHeaders {
				assert.Equal(t, v, w.Header().Get(k), k)
			}
			assert.Empty(t, w.Header().Get(security.HeaderStrictTransportSecurity))
		})
	}
}

func TestSecurityHeaders_OverrideDownstreamValue(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders(security.NewHeaderPolicy(nil, "", false)))
	r.GET("/test", func(c *gin.Context) {
		c.Header("X-Frame-Options", "ALLOWALL")
		c.String(http.StatusOK, "ok")
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, []string{"DENY"}, w.Header().Values("X-Frame-Options"))
	assert.Equal(t, "ok", w.Body.String())
}

func TestSecurityHeaders_HSTS(t *testing.T) {
	tests := []struct {
		name       string
		production bool
		proto      string
		want       string
	}{
		{"production behind https proxy", true, "https", security.DefaultHSTS},
		{"production over http", true, "http", ""},
		{"production without proxy header", true, "", ""},
		{"development over https", false, "https", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestEngine(SecurityHeaders(security.NewHeaderPolicy(nil, "", tt.production)))
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tt.proto)
			}

			w := serve(r, req)

			assert.Equal(t, tt.want, w.Header().Get(security.HeaderStrictTransportSecurity))
		})
	}
}

func TestSecurityHeaders_OverridesAndRemovals(t *testing.T) {
	policy := security.NewHeaderPolicy(map[string]string{
		"Content-Security-Policy": "default-src 'none'",
		"X-XSS-Protection":        "",
	}, "", false)
	r := newTestEngine(SecurityHeaders(policy))

	w := serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, "default-src 'none'", w.Header().Get("Content-Security-Policy"))
	assert.Empty(t, w.Header().Values("X-Xss-Protection"))
}
