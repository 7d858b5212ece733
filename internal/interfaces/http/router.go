package http

import (
	"github.com/gin-gonic/gin"

	"shieldgate/internal/domain/security"
	"shieldgate/internal/infrastructure/config"
	"shieldgate/internal/interfaces/http/handlers"
	"shieldgate/internal/interfaces/http/middleware"
	"shieldgate/internal/interfaces/http/routes"
	"shieldgate/internal/shared/constants"
	"shieldgate/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	engine *gin.Engine
	cfg    *config.Config
	log    logger.Interface

	headerPolicy   *security.HeaderPolicy
	corsPolicy     *security.CORSPolicy
	csrfValidator  *security.CSRFValidator
	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter
	permission     *middleware.PermissionMiddleware

	healthHandler *handlers.HealthHandler
	csrfHandler   *handlers.CSRFHandler
	echoHandler   *handlers.EchoHandler
	adminHandler  *handlers.RateLimitAdminHandler
}

// RouterDeps are the collaborators the router mounts.
type RouterDeps struct {
	TokenVerifier middleware.TokenVerifier
	TierLimiter   middleware.TierLimiter
	HealthHandler *handlers.HealthHandler
	Permissions   middleware.PermissionChecker
	// RateLimitAdmin enables the operator routes when set.
	RateLimitAdmin handlers.RateLimitAdmin
}

// NewRouter builds the protection policies from cfg.
func NewRouter(cfg *config.Config, deps RouterDeps, log logger.Interface) *Router {
	return &Router{
		engine: gin.New(),
		cfg:    cfg,
		log:    log,

		headerPolicy: security.NewHeaderPolicy(
			cfg.SecurityHeaders.Overrides,
			cfg.SecurityHeaders.HSTS,
			cfg.Server.IsProduction(),
		),
		corsPolicy: security.NewCORSPolicy(security.CORSPolicyConfig{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   cfg.CORS.AllowedMethods,
			AllowedHeaders:   cfg.CORS.AllowedHeaders,
			ExposeHeaders:    cfg.CORS.ExposeHeaders,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		}),
		csrfValidator:  security.NewCSRFValidator(cfg.CSRF.ExemptPaths, cfg.CSRF.ExemptPrefixes),
		authMiddleware: middleware.NewAuthMiddleware(deps.TokenVerifier, log.Named("auth")),
		rateLimiter: middleware.NewRateLimiter(
			deps.TierLimiter,
			middleware.NewIdentityResolver(cfg.RateLimit.APIKeyHeader, cfg.RateLimit.TrustForwardedFor),
			cfg.RateLimit.ExcludedPaths,
			log.Named("ratelimit"),
		),

		permission: middleware.NewPermissionMiddleware(deps.Permissions, log.Named("permission")),

		healthHandler: deps.HealthHandler,
		csrfHandler:   handlers.NewCSRFHandler(cfg.CSRF, log),
		echoHandler:   handlers.NewEchoHandler(log),
		adminHandler:  newAdminHandler(deps.RateLimitAdmin, log),
	}
}

func newAdminHandler(admin handlers.RateLimitAdmin, log logger.Interface) *handlers.RateLimitAdminHandler {
	if admin == nil {
		return nil
	}
	return handlers.NewRateLimitAdminHandler(admin, log.Named("admin"))
}

// SetupRoutes installs the protection pipeline and the API routes.
//
// Order, outermost first: security headers, recovery, request id, request
// log, CORS, CSRF, identity, rate limit, error rendering, handler.
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.SecurityHeaders(r.headerPolicy))
	r.engine.Use(middleware.Recovery(r.log))
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.RequestLogger(r.log))
	r.engine.Use(middleware.CORS(r.corsPolicy, r.log.Named("cors")))
	if r.cfg.CSRF.Enabled {
		r.engine.Use(middleware.CSRF(r.csrfValidator, r.cfg.CSRF.HeaderName, r.cfg.CSRF.CookieName, r.log.Named("csrf")))
	}
	r.engine.Use(r.authMiddleware.OptionalAuth())
	if r.cfg.RateLimit.Enabled {
		r.engine.Use(r.rateLimiter.Limit())
	}
	r.engine.Use(middleware.ErrorHandler(r.log))

	routes.SetupDocsRoutes(r.engine)

	v1 := r.engine.Group(constants.APIVersionPrefix)

	routes.SetupHealthRoutes(v1, &routes.HealthRouteConfig{
		HealthHandler: r.healthHandler,
	})

	routes.SetupCSRFRoutes(v1, &routes.CSRFRouteConfig{
		CSRFHandler: r.csrfHandler,
	})

	routes.SetupEchoRoutes(v1, &routes.EchoRouteConfig{
		EchoHandler: r.echoHandler,
	})

	if r.adminHandler != nil {
		routes.SetupAdminRoutes(v1, &routes.AdminRouteConfig{
			RateLimitAdminHandler: r.adminHandler,
			PermissionMiddleware:  r.permission,
		})
	}
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
