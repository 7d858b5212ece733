package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shieldgate/internal/shared/config"
)

// SetCSRFCookie sets token as a non-HttpOnly cookie so that frontend
// JavaScript can echo it in the CSRF header (double-submit cookie).
func SetCSRFCookie(c *gin.Context, name string, cookieConfig config.CookieConfig, token string) {
	c.SetSameSite(parseSameSite(cookieConfig.SameSite))
	c.SetCookie(
		name,
		token,
		cookieConfig.MaxAge,
		cookieConfig.Path,
		cookieConfig.Domain,
		cookieConfig.Secure,
		false, // HttpOnly=false so frontend JS can read it
	)
}

// ClearCSRFCookie removes the CSRF token cookie.
func ClearCSRFCookie(c *gin.Context, name string, cookieConfig config.CookieConfig) {
	c.SetSameSite(parseSameSite(cookieConfig.SameSite))
	c.SetCookie(
		name,
		"",
		-1,
		cookieConfig.Path,
		cookieConfig.Domain,
		cookieConfig.Secure,
		false,
	)
}

// parseSameSite converts string to http.SameSite
func parseSameSite(sameSite string) http.SameSite {
	switch sameSite {
	case "Strict":
		return http.SameSiteStrictMode
	case "Lax":
		return http.SameSiteLaxMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
