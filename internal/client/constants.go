package client

import "time"

// Defaults for NewAPIClient
const (
	DefaultTimeout    = 10 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = 500 * time.Millisecond
)

// HeaderAPIKey carries the shared API key
const HeaderAPIKey = "X-API-Key"

// Log messages
const (
	LogMsgRetrying      = "Retrying API request"
	LogMsgRequestFailed = "API request failed"
	LogMsgServerError   = "Server error, will retry"
)
