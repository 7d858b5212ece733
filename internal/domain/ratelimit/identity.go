package ratelimit

import (
	"net"
	"strings"
)

// UnknownAddress is used when no client address can be determined.
const UnknownAddress = "unknown"

// Identity is the caller context handed over by the identity layer. All
// fields except SourceAddress are optional.
type Identity struct {
	PrincipalID      string
	APIKey           string
	SourceAddress    string
	ForwardedChain   string
	Role             string
	SubscriptionTier string
}

// ClientKey derives the counter key of the identity. Precedence: principal,
// API key, first forwarded-for hop, connection address, "unknown".
func (id Identity) ClientKey() string {
	if id.PrincipalID != "" {
		return "user:" + id.PrincipalID
	}
	if id.APIKey != "" {
		return "api:" + id.APIKey
	}
	if id.ForwardedChain != "" {
		first, _, _ := strings.Cut(id.ForwardedChain, ",")
		if first = strings.TrimSpace(first); first != "" {
			return "ip:" + first
		}
	}
	if addr := hostOnly(id.SourceAddress); addr != "" {
		return "ip:" + addr
	}
	return "ip:" + UnknownAddress
}

// IsClientKey reports whether key has the shape produced by ClientKey.
func IsClientKey(key string) bool {
	kind, rest, ok := strings.Cut(key, ":")
	if !ok || rest == "" {
		return false
	}
	switch kind {
	case "user", "api", "ip":
		return true
	default:
		return false
	}
}

func hostOnly(addr string) string {
	addr = strings.TrimSpace(addr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
