package bootstrap

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileName is the active log file inside the log directory; rotated files sit beside it
	LogFileName = "monsters.log"

	// LogFileMaxSizeMB is the size at which the active log file is rotated
	LogFileMaxSizeMB = 50

	// LogFileRetentionCount is the number of rotated log files to keep
	LogFileRetentionCount = 9

	// LogFileMaxAgeDays removes rotated files older than this many days
	LogFileMaxAgeDays = 28
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingMonsters    = "Starting Monsters"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgFailedCreateLogsDir = "failed to create logs directory"
)

// =============================================================================
// Store Configuration
// =============================================================================

// Log and error messages for store initialization
const (
	LogMsgStoreOpened       = "Monster store opened"
	LogMsgStateRestored     = "Registry state restored"
	LogMsgOracleDialed      = "Loot oracle connected to Ethereum node"
	ErrMsgFailedOpenStore   = "failed to open monster store"
	ErrMsgFailedLoadState   = "failed to load registry state"
	ErrMsgAdminMismatch     = "configured administrator does not match the deployed registry"
	ErrMsgFailedBuildOracle = "failed to build loot oracle"
)

// =============================================================================
// Event System Configuration
// =============================================================================

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	LogMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	LogMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
)

// Log messages for event handler registration
const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgDiscordNotifierRegistered  = "Discord notifier registered"
	LogMsgDiscordNotifierDisabled    = "Discord notifier disabled, no token or channel configured"
	ErrMsgFailedOpenDiscord          = "failed to open Discord session"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgMonsterServiceFailed       = "Monster service shutdown failed"
	LogMsgStoreCloseFailed           = "Monster store close failed"
)
