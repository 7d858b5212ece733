// Package version reports the build version of the binary.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Version is overridden at build time:
//
//	go build -ldflags "-X shieldgate/internal/shared/version.Version=1.2.3"
var Version = "dev"

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	if version == "" {
		return ""
	}
	version = strings.TrimSpace(version)
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// String returns the normalized build version, or "dev" for builds without a
// valid semantic version.
func String() string {
	v := Normalize(Version)
	if !semver.IsValid(v) {
		return "dev"
	}
	return semver.Canonical(v)
}

// IsRelease reports whether the binary carries a release (non-prerelease)
// version.
func IsRelease() bool {
	v := Normalize(Version)
	return semver.IsValid(v) && semver.Prerelease(v) == ""
}
