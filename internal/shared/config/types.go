package config

import (
	"fmt"
	"strings"
	"time"
)

type ServerConfig struct {
	Host        string `mapstructure:"host" validate:"required"`
	Port        int    `mapstructure:"port" validate:"gte=1,lte=65535"`
	Mode        string `mapstructure:"mode" validate:"oneof=debug release test"`
	Environment string `mapstructure:"environment"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsProduction reports whether the deployment is flagged as production.
func (s *ServerConfig) IsProduction() bool {
	switch strings.ToLower(s.Environment) {
	case "production", "prod":
		return true
	default:
		return false
	}
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret    string        `mapstructure:"secret"`
	AccessTTL time.Duration `mapstructure:"access_ttl" validate:"gt=0"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}

// TierLimitConfig is the quota pair for one tier.
type TierLimitConfig struct {
	PerMinute int `mapstructure:"per_minute" validate:"gte=1"`
	PerHour   int `mapstructure:"per_hour" validate:"gte=1"`
}

type RateLimitConfig struct {
	Enabled           bool                       `mapstructure:"enabled"`
	Backend           string                     `mapstructure:"backend" validate:"oneof=memory redis"`
	KeyPrefix         string                     `mapstructure:"key_prefix"`
	APIKeyHeader      string                     `mapstructure:"api_key_header"`
	TrustForwardedFor bool                       `mapstructure:"trust_forwarded_for"`
	ExcludedPaths     []string                   `mapstructure:"excluded_paths"`
	SweepInterval     time.Duration              `mapstructure:"sweep_interval" validate:"gt=0"`
	StaleAfter        time.Duration              `mapstructure:"stale_after" validate:"gte=0"`
	Tiers             map[string]TierLimitConfig `mapstructure:"tiers" validate:"dive"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins" validate:"dive,origin_pattern"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposeHeaders    []string `mapstructure:"expose_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age" validate:"gte=0"`
}

type CookieConfig struct {
	Domain   string `mapstructure:"domain"`
	Path     string `mapstructure:"path"`
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"same_site" validate:"omitempty,oneof=Strict Lax None"`
	MaxAge   int    `mapstructure:"max_age"`
}

type CSRFConfig struct {
	Enabled        bool         `mapstructure:"enabled"`
	HeaderName     string       `mapstructure:"header_name" validate:"required"`
	CookieName     string       `mapstructure:"cookie_name" validate:"required"`
	ExemptPaths    []string     `mapstructure:"exempt_paths"`
	ExemptPrefixes []string     `mapstructure:"exempt_prefixes"`
	Cookie         CookieConfig `mapstructure:"cookie"`
}

type SecurityHeadersConfig struct {
	// Overrides replace default headers by key. An empty value drops the header.
	Overrides map[string]string `mapstructure:"overrides"`
	HSTS      string            `mapstructure:"hsts"`
}
