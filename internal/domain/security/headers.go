package security

import (
	"net/http"
	"strings"

	"shieldgate/internal/shared/constants"
)

const HeaderStrictTransportSecurity = "Strict-Transport-Security"

// DefaultHSTS is used when no HSTS value is configured.
const DefaultHSTS = "max-age=31536000; includeSubDomains; preload"

// DefaultSecurityHeaders is set on every response unless overridden.
var DefaultSecurityHeaders = map[string]string{
	"X-Frame-Options":        "DENY",
	"X-Content-Type-Options": "nosniff",
	"X-XSS-Protection":       "1; mode=block",
	"Referrer-Policy":        "strict-origin-when-cross-origin",
	"Permissions-Policy": "geolocation=(), microphone=(), camera=(), payment=(), " +
		"usb=(), magnetometer=(), gyroscope=(), accelerometer=()",
	"Content-Security-Policy": "default-src 'self'; " +
		"script-src 'self' 'unsafe-inline' 'unsafe-eval' https://js.stripe.com; " +
		"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com; " +
		"font-src 'self' https://fonts.gstatic.com; " +
		"img-src 'self' data: https:; " +
		"connect-src 'self' https://api.stripe.com https://*.supabase.co; " +
		"frame-src 'self' https://js.stripe.com; " +
		"object-src 'none'; " +
		"base-uri 'self'; " +
		"form-action 'self'; " +
		"frame-ancestors 'none'; " +
		"upgrade-insecure-requests;",
}

// HeaderPolicy is the resolved security header set of a deployment.
type HeaderPolicy struct {
	headers    http.Header
	hsts       string
	production bool
}

// NewHeaderPolicy merges overrides into the defaults. Keys are matched in
// canonical form; an override with an empty value removes the header.
func NewHeaderPolicy(overrides map[string]string, hsts string, production bool) *HeaderPolicy {
	h := make(http.Header, len(DefaultSecurityHeaders))
	for k, v := range DefaultSecurityHeaders {
		h.Set(k, v)
	}
	for k, v := range overrides {
		if v == "" {
			h.Del(k)
			continue
		}
		h.Set(k, v)
	}
	if hsts == "" {
		hsts = DefaultHSTS
	}
	return &HeaderPolicy{
		headers:    h,
		hsts:       hsts,
		production: production,
	}
}

// Apply writes the header set into dst. HSTS is added only for secure
// requests of a production deployment.
func (p *HeaderPolicy) Apply(dst http.Header, secure bool) {
	for k, v := range p.headers {
		dst[k] = append([]string(nil), v...)
	}
	if p.production && secure {
		dst.Set(HeaderStrictTransportSecurity, p.hsts)
	}
}

// Headers returns a copy of the always-set headers.
func (p *HeaderPolicy) Headers() http.Header {
	return p.headers.Clone()
}

// IsSecureRequest trusts X-Forwarded-Proto when present and falls back to the
// connection's TLS state.
func IsSecureRequest(r *http.Request) bool {
	if proto := r.Header.Get(constants.HeaderXForwardedProto); proto != "" {
		first, _, _ := strings.Cut(proto, ",")
		return strings.EqualFold(strings.TrimSpace(first), "https")
	}
	return r.TLS != nil
}
