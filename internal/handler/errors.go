package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInvalidTokenID        = "Invalid monster id"
	ErrMsgInvalidLootID         = "Invalid loot id"
	ErrMsgInvalidAddress        = "Invalid address"
	ErrMsgMissingCaller         = "Missing or invalid X-Caller-Address header"
	ErrMsgGenericServerError    = "Something went wrong"
	ErrMsgNotDeployedError      = "Registry is not deployed yet"
)

// Success messages for API responses
const (
	MsgMonsterMinted      = "Monster minted"
	MsgMonsterRenamed     = "Monster renamed"
	MsgMonsterSlain       = "Monster slain"
	MsgMonsterTransferred = "Monster transferred"
	MsgCustodyWithdrawn   = "Custody withdrawn"
)

// HeaderCallerAddress carries the authenticated account set by the trusted gateway
const HeaderCallerAddress = "X-Caller-Address"
