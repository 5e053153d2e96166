package database

import "time"

// Pool sizing and session defaults
const (
	DefaultMinConnections   = 2
	DefaultMaxConnections   = 10
	DefaultMaxConnIdleTime  = 5 * time.Minute
	DefaultMaxConnLifetime  = time.Hour
	DefaultApplicationName  = "monsters"
	DefaultStatementTimeout = 15 * time.Second
)

// Errors shared by the postgres and sqlite stores
const (
	ErrMsgFailedToParseConnString  = "failed to parse connection string"
	ErrMsgFailedToCreatePool       = "failed to create connection pool"
	ErrMsgFailedToPingDatabase     = "failed to ping database"
	ErrMsgFailedToBeginTransaction = "failed to begin transaction"
	ErrMsgFailedToCommit           = "failed to commit transaction"
)

const (
	LogMsgConnected                   = "Connected to database"
	LogMsgFailedToRollbackTransaction = "Failed to rollback transaction"
)
