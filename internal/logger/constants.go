package logger

// Accepted level and format names, matched case-insensitively
const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"

	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Fallback identity for binaries that do not configure one
const (
	DefaultServiceName = "monsters"
	DefaultVersion     = "dev"
	DefaultEnvironment = "dev"
)

// Attribute keys stamped on records
const (
	AttrKeyService     = "service"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyRequestID   = "request_id"
	AttrKeyCaller      = "caller"
)
