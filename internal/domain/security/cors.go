// Package security holds the request-protection policies that sit in front of
// the API: CORS origin negotiation, double-submit CSRF validation and the
// response security header set.
package security

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"shieldgate/internal/shared/constants"
	"shieldgate/internal/shared/errors"
)

// WildcardOrigin matches every origin.
const WildcardOrigin = "*"

// OriginRejectedMessage is the body of a refused preflight.
const OriginRejectedMessage = "Origin not allowed"

// CORSPolicy decides which cross-origin callers may use the API.
type CORSPolicy struct {
	allowedOrigins   []string
	allowAll         bool
	allowedMethods   string
	allowedHeaders   string
	exposeHeaders    string
	allowCredentials bool
	maxAge           int
}

// CORSPolicyConfig is the input of NewCORSPolicy.
type CORSPolicyConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           int
}

func NewCORSPolicy(cfg CORSPolicyConfig) *CORSPolicy {
	p := &CORSPolicy{
		allowedOrigins:   append([]string(nil), cfg.AllowedOrigins...),
		allowedMethods:   strings.Join(cfg.AllowedMethods, ", "),
		allowedHeaders:   strings.Join(cfg.AllowedHeaders, ", "),
		exposeHeaders:    strings.Join(cfg.ExposeHeaders, ", "),
		allowCredentials: cfg.AllowCredentials,
		maxAge:           cfg.MaxAge,
	}
	for _, o := range cfg.AllowedOrigins {
		if o == WildcardOrigin {
			p.allowAll = true
		}
	}
	return p
}

// IsOriginAllowed matches origin against the allowed list. Entries are either
// an exact origin, "*", or "*.domain". A "*.domain" entry matches any origin
// whose hostname ends in ".domain"; the bare domain itself does not match.
// Comparison is case-sensitive.
func (p *CORSPolicy) IsOriginAllowed(origin string) bool {
	if origin == "" {
		return false
	}
	if p.allowAll {
		return true
	}

	host := originHostname(origin)
	for _, allowed := range p.allowedOrigins {
		if allowed == origin {
			return true
		}
		domain, ok := strings.CutPrefix(allowed, "*.")
		if ok && host != "" && strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// CheckPreflight returns an origin-rejected error when origin may not make
// cross-origin requests.
func (p *CORSPolicy) CheckPreflight(origin string) error {
	if !p.IsOriginAllowed(origin) {
		return errors.NewOriginRejectedError(OriginRejectedMessage, origin)
	}
	return nil
}

func originHostname(origin string) string {
	u, err := url.Parse(origin)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// PreflightHeaders returns the headers of a successful preflight response for
// origin.
func (p *CORSPolicy) PreflightHeaders(origin string) http.Header {
	h := http.Header{}
	h.Set(constants.HeaderAllowOrigin, origin)
	h.Set(constants.HeaderAllowMethods, p.allowedMethods)
	h.Set(constants.HeaderAllowHeaders, p.allowedHeaders)
	h.Set(constants.HeaderMaxAge, strconv.Itoa(p.maxAge))
	h.Set(constants.HeaderAllowCredentials, strconv.FormatBool(p.allowCredentials))
	h.Set(constants.HeaderVary, constants.HeaderOrigin)
	return h
}

// ResponseHeaders returns the headers added to a normal response for an
// allowed origin. The origin is always echoed, never "*".
func (p *CORSPolicy) ResponseHeaders(origin string) http.Header {
	h := http.Header{}
	h.Set(constants.HeaderAllowOrigin, origin)
	h.Set(constants.HeaderAllowCredentials, strconv.FormatBool(p.allowCredentials))
	h.Set(constants.HeaderExposeHeaders, p.exposeHeaders)
	h.Set(constants.HeaderVary, constants.HeaderOrigin)
	return h
}
