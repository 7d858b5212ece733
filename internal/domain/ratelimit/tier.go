package ratelimit

import (
	"strings"

	"golang.org/x/text/cases"
)

// Tier is a named service level.
type Tier string

const (
	TierFree       Tier = "free"
	TierBasic      Tier = "basic"
	TierPremium    Tier = "premium"
	TierEnterprise Tier = "enterprise"
	TierAdmin      Tier = "admin"
)

// RoleAdmin is the identity role that always maps to TierAdmin.
const RoleAdmin = "admin"

// Tiers lists every tier in ascending order of generosity.
var Tiers = []Tier{TierFree, TierBasic, TierPremium, TierEnterprise, TierAdmin}

// DefaultTierLimits is the built-in quota table.
var DefaultTierLimits = map[Tier]Limits{
	TierFree:       {PerMinute: 30, PerHour: 500},
	TierBasic:      {PerMinute: 60, PerHour: 1000},
	TierPremium:    {PerMinute: 120, PerHour: 5000},
	TierEnterprise: {PerMinute: 300, PerHour: 20000},
	TierAdmin:      {PerMinute: 1000, PerHour: 100000},
}

func (t Tier) String() string {
	return string(t)
}

// IsValid checks if the tier is one of the known tiers
func (t Tier) IsValid() bool {
	switch t {
	case TierFree, TierBasic, TierPremium, TierEnterprise, TierAdmin:
		return true
	default:
		return false
	}
}

// ParseTier maps a tier name to a Tier, ignoring case. Unknown names report
// ok=false and return TierFree, so callers fail closed.
func ParseTier(name string) (Tier, bool) {
	t := Tier(cases.Fold().String(strings.TrimSpace(name)))
	if t.IsValid() {
		return t, true
	}
	return TierFree, false
}

// ResolveTier picks the tier of an identity. An admin role wins over any
// subscription; a missing or unknown subscription yields TierFree.
// recognized is false only when a subscription value was present but unknown.
func ResolveTier(id Identity) (tier Tier, recognized bool) {
	if id.Role == RoleAdmin {
		return TierAdmin, true
	}
	if id.SubscriptionTier == "" {
		return TierFree, true
	}
	return ParseTier(id.SubscriptionTier)
}
