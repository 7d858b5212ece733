package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	r := newTestEngine(RequestID())

	w := serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))
	_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	w = serve(r, req)
	assert.Equal(t, "upstream-id", w.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 500))
	w = serve(r, req)
	assert.NotEqual(t, strings.Repeat("x", 500), w.Header().Get("X-Request-ID"))
}
