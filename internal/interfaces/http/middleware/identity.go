package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"shieldgate/internal/domain/ratelimit"
	"shieldgate/internal/shared/constants"
)

// IdentityResolver builds the rate limit identity of a request from the
// connection, its headers and whatever the auth layer put on the context.
type IdentityResolver struct {
	apiKeyHeader      string
	trustForwardedFor bool
}

func NewIdentityResolver(apiKeyHeader string, trustForwardedFor bool) *IdentityResolver {
	if apiKeyHeader == "" {
		apiKeyHeader = "X-API-Key"
	}
	return &IdentityResolver{
		apiKeyHeader:      apiKeyHeader,
		trustForwardedFor: trustForwardedFor,
	}
}

func (r *IdentityResolver) Resolve(c *gin.Context) ratelimit.Identity {
	id := ratelimit.Identity{
		PrincipalID:      contextString(c, constants.ContextKeyUserID),
		APIKey:           c.GetHeader(r.apiKeyHeader),
		SourceAddress:    c.Request.RemoteAddr,
		Role:             contextString(c, constants.ContextKeyUserRole),
		SubscriptionTier: contextString(c, constants.ContextKeySubscriptionTier),
	}
	if r.trustForwardedFor {
		id.ForwardedChain = c.GetHeader(constants.HeaderXForwardedFor)
	}
	return id
}

// contextString reads a context value set by the auth layer, which may store
// ids as strings or as integers.
func contextString(c *gin.Context, key string) string {
	v, ok := c.Get(key)
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
