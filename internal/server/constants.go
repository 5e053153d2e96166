package server

import "time"

// HTTP error messages for middleware responses
const (
	ErrMsgUnauthorized    = "Unauthorized"
	ErrMsgTooManyRequests = "Too Many Requests"
)

// Security alert messages
const (
	SecurityAlertFailedAuth = "Security alert: repeated API key failures"
	SecurityAlertHighRate   = "Security alert: client over request budget"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
	LogMsgAuthFailed       = "Authentication failed"
	LogMsgRateLimited      = "Rate limit exceeded"
	LogMsgBadTrustedProxy  = "Ignoring unparsable trusted proxy"
)

// HTTP header names
const (
	HeaderAPIKey                = "X-API-Key"
	HeaderAuthorization         = "Authorization"
	HeaderForwardedFor          = "X-Forwarded-For"
	HeaderRetryAfter            = "Retry-After"
	HeaderContentTypeOptions    = "X-Content-Type-Options"
	HeaderFrameOptions          = "X-Frame-Options"
	HeaderReferrerPolicy        = "Referrer-Policy"
	HeaderContentSecurityPolicy = "Content-Security-Policy"
)

// Security header values. Inline styles are allowed for the token SVG.
const (
	HeaderValueNoSniff              = "nosniff"
	HeaderValueDeny                 = "DENY"
	HeaderValueReferrerStrictOrigin = "strict-origin-when-cross-origin"
	HeaderValueCSP                  = "default-src 'none'; style-src 'unsafe-inline'; img-src data:; frame-ancestors 'none'"
)

// Per-client budgets, counted over one window per client IP
const (
	GuardWindow              = 5 * time.Minute
	GuardPruneThreshold      = 10000
	FailedAuthAlertThreshold = 5
	MaxRequestsPerWindow     = 1000
	MaxWritesPerWindow       = 100
	HighRateLogEvery         = 50
	RetryAfterSeconds        = "300"
)

// SwaggerPathPrefix serves the docs UI, which needs scripts and so skips the content policy
const SwaggerPathPrefix = "/swagger/"

// Server limits
const (
	MaxRequestBodyBytes = 1 << 20
	ReadHeaderTimeout   = 5 * time.Second
)

// PublicPaths are path prefixes that bypass authentication
var PublicPaths = []string{
	SwaggerPathPrefix,
	"/healthz",
	"/readyz",
	"/metrics",
	"/version",
}

// Header redaction marker
const (
	RedactedValue = "[REDACTED]"
)
