package constants

const (
	// HTTP Headers
	HeaderAuthorization   = "Authorization"
	HeaderOrigin          = "Origin"
	HeaderVary            = "Vary"
	HeaderXRequestID      = "X-Request-ID"
	HeaderXForwardedFor   = "X-Forwarded-For"
	HeaderXForwardedProto = "X-Forwarded-Proto"
	HeaderRetryAfter      = "Retry-After"

	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"

	HeaderAllowOrigin      = "Access-Control-Allow-Origin"
	HeaderAllowMethods     = "Access-Control-Allow-Methods"
	HeaderAllowHeaders     = "Access-Control-Allow-Headers"
	HeaderAllowCredentials = "Access-Control-Allow-Credentials"
	HeaderExposeHeaders    = "Access-Control-Expose-Headers"
	HeaderMaxAge           = "Access-Control-Max-Age"

	// API version prefix
	APIVersionPrefix = "/api/v1"

	// Context keys populated by the identity layer
	ContextKeyUserID           = "user_id"
	ContextKeyUserRole         = "user_role"
	ContextKeySubscriptionTier = "subscription_tier"
	ContextKeyRequestID        = "request_id"
	ContextKeyRateLimitTier    = "rate_limit_tier"
)
