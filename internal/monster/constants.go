package monster

import "time"

// Metadata cache defaults
const (
	DefaultCacheSize = 2048
	DefaultCacheTTL  = 10 * time.Minute

	// CacheSchemaVersion invalidates cached metadata when the rendering changes
	CacheSchemaVersion = "1.0"
)

// Operation names used in logs and rejection metrics
const (
	OpMint         = "mint"
	OpReservedMint = "reserved_mint"
	OpMintWithLoot = "mint_with_loot"
	OpSetName      = "set_name"
	OpSlay         = "slay"
	OpTransfer     = "transfer"
	OpWithdraw     = "withdraw"
)

// Log messages
const (
	LogMsgOperationRejected = "Registry operation rejected"
	LogMsgOperationFailed   = "Registry operation failed"
	LogMsgMonsterMinted     = "Monster minted"
	LogMsgMonsterRenamed    = "Monster renamed"
	LogMsgMonsterSlain      = "Monster slain"
	LogMsgMonsterTransfer   = "Monster transferred"
	LogMsgCustodyWithdrawn  = "Custody withdrawn"
)
