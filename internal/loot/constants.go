package loot

import "time"

// Oracle backends
const (
	BackendStatic = "static"
	BackendRPC    = "rpc"
)

// Ethereum node
const (
	MethodOwnerOf     = "ownerOf"
	DefaultRPCTimeout = 10 * time.Second

	// RevertErrorCode is the JSON-RPC error code nodes use for a reverted eth_call
	RevertErrorCode     = 3
	RevertMessagePrefix = "execution reverted"
)

// Error messages
const (
	ErrMsgABIParseFailed    = "failed to parse loot abi"
	ErrMsgRPCDialFailed     = "failed to dial loot rpc endpoint"
	ErrMsgRPCRequestFailed  = "loot rpc request failed"
	ErrMsgRPCDecodeFailed   = "failed to decode loot rpc response"
	ErrMsgRPCResultCount    = "loot rpc returned %d values, want 1"
	ErrMsgRPCResultType     = "loot rpc returned %T, want address"
	ErrMsgFixtureReadFailed = "failed to read loot owners file"
)
