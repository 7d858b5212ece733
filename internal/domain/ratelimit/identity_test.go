package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity_ClientKey(t *testing.T) {
	tests := []struct {
		name     string
		identity Identity
		want     string
	}{
		{
			name: "principal wins over everything",
			identity: Identity{
				PrincipalID:    "42",
				APIKey:         "k1",
				ForwardedChain: "1.2.3.4",
				SourceAddress:  "10.0.0.1:1234",
			},
			want: "user:42",
		},
		{
			name:     "api key wins over addresses",
			identity: Identity{APIKey: "k1", ForwardedChain: "1.2.3.4", SourceAddress: "10.0.0.1:1234"},
			want:     "api:k1",
		},
		{
			name:     "first forwarded hop",
			identity: Identity{ForwardedChain: " 1.2.3.4 , 5.6.7.8", SourceAddress: "10.0.0.1:1234"},
			want:     "ip:1.2.3.4",
		},
		{
			name:     "empty first hop falls through to connection",
			identity: Identity{ForwardedChain: " , 5.6.7.8", SourceAddress: "10.0.0.1:1234"},
			want:     "ip:10.0.0.1",
		},
		{
			name:     "connection address without port",
			identity: Identity{SourceAddress: "10.0.0.9"},
			want:     "ip:10.0.0.9",
		},
		{
			name:     "ipv6 connection address",
			identity: Identity{SourceAddress: "[::1]:443"},
			want:     "ip:::1",
		},
		{
			name:     "nothing known",
			identity: Identity{},
			want:     "ip:unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.identity.ClientKey())
		})
	}
}

func TestIsClientKey(t *testing.T) {
	assert.True(t, IsClientKey("user:42"))
	assert.True(t, IsClientKey("api:abc"))
	assert.True(t, IsClientKey("ip:::1"))
	assert.True(t, IsClientKey(Identity{}.ClientKey()))

	assert.False(t, IsClientKey("user:"))
	assert.False(t, IsClientKey("42"))
	assert.False(t, IsClientKey("host:example.com"))
}
