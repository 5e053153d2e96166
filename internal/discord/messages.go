package discord

import "time"

// Friendly message constants for Discord responses
const (
	MsgNotFound     = "❓ **Not Found**\nThat monster or Loot bag does not exist."
	MsgInvalidInput = "⚠️ **Invalid Input**\nMonster IDs run 1-10000 and Loot IDs 1-8000."
	MsgUnauthorized = "🔒 **Unauthorized**\nThe bot's API key was rejected."
	MsgTimeout      = "⏳ **Timed Out**\nThe registry took too long to answer."
	MsgGenericError = "❌ Something went wrong."
)

// Embed colors
const (
	ColorAlive     = 0x2ECC71
	ColorSlain     = 0x992D22
	ColorUnclaimed = 0x95A5A6
	ColorInfo      = 0x3498DB
)

// CommandTimeout bounds each command's API calls
const CommandTimeout = 10 * time.Second

// LogMsgBotRunning is logged once the gateway connection is open
const LogMsgBotRunning = "Discord bot is now running"
