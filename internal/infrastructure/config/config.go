package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	sharedConfig "shieldgate/internal/shared/config"
	"shieldgate/internal/shared/utils"
)

// DefaultJWTSecret is the shipped placeholder secret. Production refuses it.
const DefaultJWTSecret = "change-me-in-production"

type Config struct {
	Server          sharedConfig.ServerConfig          `mapstructure:"server"`
	Logger          sharedConfig.LoggerConfig          `mapstructure:"logger"`
	Redis           sharedConfig.RedisConfig           `mapstructure:"redis"`
	Auth            sharedConfig.AuthConfig            `mapstructure:"auth"`
	RateLimit       sharedConfig.RateLimitConfig       `mapstructure:"rate_limit"`
	CORS            sharedConfig.CORSConfig            `mapstructure:"cors"`
	CSRF            sharedConfig.CSRFConfig            `mapstructure:"csrf"`
	SecurityHeaders sharedConfig.SecurityHeadersConfig `mapstructure:"security_headers"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from an optional config file and environment variables.
// A missing config file is not an error; defaults and env vars still apply.
func Load(env string, paths ...string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./configs", "../configs", "../../configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("SHIELDGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.environment", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := utils.ValidateStruct(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := validateProduction(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// validateProduction rejects settings that are only acceptable in development.
func validateProduction(cfg *Config) error {
	if !cfg.Server.IsProduction() {
		return nil
	}
	if secret := cfg.Auth.JWT.Secret; secret == "" || secret == DefaultJWTSecret {
		return errors.New("auth.jwt.secret must be set to a non-default value in production")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.environment", "development")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt.secret", DefaultJWTSecret)
	v.SetDefault("auth.jwt.access_ttl", 15*time.Minute)

	// Rate limit defaults
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.backend", "memory")
	v.SetDefault("rate_limit.key_prefix", "ratelimit")
	v.SetDefault("rate_limit.api_key_header", "X-API-Key")
	v.SetDefault("rate_limit.trust_forwarded_for", true)
	v.SetDefault("rate_limit.excluded_paths", []string{
		"/api/v1/health",
		"/docs",
		"/redoc",
		"/openapi.json",
	})
	v.SetDefault("rate_limit.sweep_interval", time.Hour)
	v.SetDefault("rate_limit.stale_after", time.Hour)
	for name, limits := range map[string][2]int{
		"free":       {30, 500},
		"basic":      {60, 1000},
		"premium":    {120, 5000},
		"enterprise": {300, 20000},
		"admin":      {1000, 100000},
	} {
		v.SetDefault("rate_limit.tiers."+name+".per_minute", limits[0])
		v.SetDefault("rate_limit.tiers."+name+".per_hour", limits[1])
	}

	// CORS defaults
	v.SetDefault("cors.allowed_origins", []string{})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "PATCH"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type", "Authorization", "X-API-Key", "X-Request-ID", "X-CSRF-Token"})
	v.SetDefault("cors.expose_headers", []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "X-Request-ID"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)

	// CSRF defaults
	v.SetDefault("csrf.enabled", true)
	v.SetDefault("csrf.header_name", "X-CSRF-Token")
	v.SetDefault("csrf.cookie_name", "csrf_token")
	v.SetDefault("csrf.exempt_paths", []string{
		"/api/v1/auth/login",
		"/api/v1/auth/register",
		"/api/v1/health",
		"/docs",
		"/redoc",
		"/openapi.json",
	})
	v.SetDefault("csrf.exempt_prefixes", []string{})
	v.SetDefault("csrf.cookie.path", "/")
	v.SetDefault("csrf.cookie.domain", "")
	v.SetDefault("csrf.cookie.secure", false)
	v.SetDefault("csrf.cookie.same_site", "Lax")
	v.SetDefault("csrf.cookie.max_age", 86400)

	v.SetDefault("security_headers.hsts", "max-age=31536000; includeSubDomains; preload")
}
