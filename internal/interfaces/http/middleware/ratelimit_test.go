package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appratelimit "shieldgate/internal/application/ratelimit"
	"shieldgate/internal/domain/ratelimit"
	infraratelimit "shieldgate/internal/infrastructure/ratelimit"
	"shieldgate/internal/shared/constants"
	"shieldgate/internal/shared/logger"
	"shieldgate/internal/shared/utils"
)

var rateLimitStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestTiered(t *testing.T, clock clockwork.Clock, limits map[ratelimit.Tier]ratelimit.Limits) *appratelimit.TieredRateLimiter {
	t.Helper()
	tiered, err := appratelimit.NewTieredRateLimiter(limits,
		infraratelimit.StoreFactory{Backend: infraratelimit.BackendMemory}, clock, logger.NewNop())
	require.NoError(t, err)
	return tiered
}

func newRateLimitEngine(t *testing.T, clock clockwork.Clock, limits map[ratelimit.Tier]ratelimit.Limits, pre ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	rl := NewRateLimiter(newTestTiered(t, clock, limits), NewIdentityResolver("X-API-Key", true),
		[]string{"/health"}, logger.NewNop())

	r := gin.New()
	r.Use(pre...)
	r.Use(rl.Limit())
	r.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "healthy") })
	return r
}

func fromAddr(path, addr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = addr
	return req
}

func TestRateLimiter_AdmitsThenRejects(t *testing.T) {
	clock := clockwork.NewFakeClockAt(rateLimitStart)
	r := newRateLimitEngine(t, clock, map[ratelimit.Tier]ratelimit.Limits{
		ratelimit.TierFree: {PerMinute: 2, PerHour: 10},
	})

	w := serve(r, fromAddr("/test", "10.0.0.1:1234"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, strconv.FormatInt(rateLimitStart.Add(time.Minute).Unix(), 10), w.Header().Get("X-RateLimit-Reset"))

	clock.Advance(100 * time.Millisecond)
	w = serve(r, fromAddr("/test", "10.0.0.1:1234"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	clock.Advance(100 * time.Millisecond)
	w = serve(r, fromAddr("/test", "10.0.0.1:1234"))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	var body utils.RateLimitBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Rate limit exceeded", body.Error)
	assert.Equal(t, "Too many requests. Please try again in 60 seconds.", body.Message)
	assert.Equal(t, 2, body.Limit)
	assert.Equal(t, rateLimitStart.Add(time.Minute).Unix(), body.Reset)
	assert.Equal(t, 60, body.RetryAfter)

	// another client is unaffected
	w = serve(r, fromAddr("/test", "10.0.0.2:1234"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_ExcludedPathIsNotCounted(t *testing.T) {
	clock := clockwork.NewFakeClockAt(rateLimitStart)
	r := newRateLimitEngine(t, clock, map[ratelimit.Tier]ratelimit.Limits{
		ratelimit.TierFree: {PerMinute: 1, PerHour: 10},
	})

	for i := 0; i < 5; i++ {
		w := serve(r, fromAddr("/health", "10.0.0.1:1234"))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}

	assert.Equal(t, http.StatusOK, serve(r, fromAddr("/test", "10.0.0.1:1234")).Code)
}

func TestRateLimiter_HourWindowRejection(t *testing.T) {
	clock := clockwork.NewFakeClockAt(rateLimitStart)
	r := newRateLimitEngine(t, clock, map[ratelimit.Tier]ratelimit.Limits{
		ratelimit.TierFree: {PerMinute: 5, PerHour: 2},
	})

	serve(r, fromAddr("/test", "10.0.0.1:1"))
	serve(r, fromAddr("/test", "10.0.0.1:1"))
	clock.Advance(10 * time.Minute)

	w := serve(r, fromAddr("/test", "10.0.0.1:1"))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, strconv.Itoa(50*60), w.Header().Get("Retry-After"))
}

func TestRateLimiter_ForwardedForAndAPIKeyIdentity(t *testing.T) {
	clock := clockwork.NewFakeClockAt(rateLimitStart)
	r := newRateLimitEngine(t, clock, map[ratelimit.Tier]ratelimit.Limits{
		ratelimit.TierFree: {PerMinute: 1, PerHour: 10},
	})

	forwarded := func(xff string) *http.Request {
		req := fromAddr("/test", "192.168.0.1:1")
		req.Header.Set("X-Forwarded-For", xff)
		return req
	}

	assert.Equal(t, http.StatusOK, serve(r, forwarded("203.0.113.5, 192.168.0.1")).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, forwarded("203.0.113.5")).Code)
	assert.Equal(t, http.StatusOK, serve(r, forwarded("203.0.113.6")).Code)

	withKey := forwarded("203.0.113.5")
	withKey.Header.Set("X-API-Key", "key-1")
	assert.Equal(t, http.StatusOK, serve(r, withKey).Code)
}

func TestRateLimiter_TierFromContext(t *testing.T) {
	clock := clockwork.NewFakeClockAt(rateLimitStart)
	var tier string
	setIdentity := func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, "9")
		c.Set(constants.ContextKeyUserRole, "admin")
		c.Set(constants.ContextKeySubscriptionTier, "basic")
		c.Next()
		tier = c.GetString(constants.ContextKeyRateLimitTier)
	}
	r := newRateLimitEngine(t, clock, nil, setIdentity)

	w := serve(r, fromAddr("/test", "10.0.0.1:1"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1000", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "999", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "admin", tier)
}

func TestIdentityResolver_Resolve(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "10.1.1.1:999"
	c.Request.Header.Set("X-Forwarded-For", "1.1.1.1")
	c.Request.Header.Set("X-Token", "abc")
	c.Set(constants.ContextKeyUserID, uint(17))

	trusting := NewIdentityResolver("X-Token", true).Resolve(c)
	assert.Equal(t, ratelimit.Identity{
		PrincipalID:    "17",
		APIKey:         "abc",
		SourceAddress:  "10.1.1.1:999",
		ForwardedChain: "1.1.1.1",
	}, trusting)

	distrusting := NewIdentityResolver("", false).Resolve(c)
	assert.Empty(t, distrusting.ForwardedChain)
	assert.Empty(t, distrusting.APIKey)
}
