package sse

import "time"

// ClientEventBuffer is the buffer size for each client's event channel
const ClientEventBuffer = 64

// KeepaliveInterval is how often idle streams get a keepalive event
const KeepaliveInterval = 30 * time.Second

// Stream-level event types. Registry events keep their bus type names.
const (
	EventTypeConnected = "connected"
	EventTypeKeepalive = "keepalive"
)

// Log messages
const (
	LogMsgClientConnected      = "SSE client connected"
	LogMsgClientDisconnected   = "SSE client disconnected"
	LogMsgEventBroadcast       = "Broadcasting SSE event"
	LogMsgSubscriberRegistered = "SSE subscriber registered"
	LogMsgWriteError           = "Failed to write SSE event"
	LogMsgFlushError           = "Failed to flush SSE response"
)
