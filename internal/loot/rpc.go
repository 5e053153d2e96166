package loot

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/osse101/Monsters_Go/internal/domain"
	"github.com/osse101/Monsters_Go/internal/logger"
)

// lootABIJSON is the subset of the Loot ERC-721 ABI the oracle calls.
const lootABIJSON = `[
	{
		"inputs": [{"name": "tokenId", "type": "uint256"}],
		"name": "ownerOf",
		"outputs": [{"name": "", "type": "address"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

var lootABI = mustParseABI(lootABIJSON)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(fmt.Sprintf("%s: %v", ErrMsgABIParseFailed, err))
	}
	return parsed
}

// RPCOracle reads Loot ownership from an Ethereum node with eth_call.
type RPCOracle struct {
	caller   ethereum.ContractCaller
	contract common.Address
	close    func()
}

// NewRPCOracle creates an oracle that calls ownerOf on the Loot contract through caller.
func NewRPCOracle(caller ethereum.ContractCaller, contract domain.Address) *RPCOracle {
	return &RPCOracle{caller: caller, contract: contract.Common(), close: func() {}}
}

// DialRPCOracle connects to the node at endpoint. A zero timeout uses DefaultRPCTimeout.
func DialRPCOracle(ctx context.Context, endpoint string, contract domain.Address, timeout time.Duration) (*RPCOracle, error) {
	if timeout <= 0 {
		timeout = DefaultRPCTimeout
	}
	rc, err := rpc.DialOptions(ctx, endpoint, rpc.WithHTTPClient(&http.Client{Timeout: timeout}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgRPCDialFailed, err)
	}
	client := ethclient.NewClient(rc)
	o := NewRPCOracle(client, contract)
	o.close = client.Close
	return o, nil
}

// Close releases the node connection.
func (o *RPCOracle) Close() {
	o.close()
}

// OwnerOf calls ownerOf(id). A reverted call (nonexistent bag) reports the zero address;
// any other node failure is returned as an error.
func (o *RPCOracle) OwnerOf(ctx context.Context, id domain.LootID) (domain.Address, error) {
	log := logger.FromContext(ctx)

	data, err := lootABI.Pack(MethodOwnerOf, big.NewInt(int64(id)))
	if err != nil {
		return domain.ZeroAddress, fmt.Errorf("%s: %w", ErrMsgRPCRequestFailed, err)
	}

	out, err := o.caller.CallContract(ctx, ethereum.CallMsg{To: &o.contract, Data: data}, nil)
	if err != nil {
		if isRevert(err) {
			log.Debug("Loot ownerOf reverted", "loot_id", id, "error", err)
			return domain.ZeroAddress, nil
		}
		log.Error("Loot ownerOf call failed", "loot_id", id, "error", err)
		return domain.ZeroAddress, fmt.Errorf("%s: %w", ErrMsgRPCRequestFailed, err)
	}

	values, err := lootABI.Unpack(MethodOwnerOf, out)
	if err != nil {
		return domain.ZeroAddress, fmt.Errorf("%s: %w", ErrMsgRPCDecodeFailed, err)
	}
	if len(values) != 1 {
		return domain.ZeroAddress, fmt.Errorf(ErrMsgRPCResultCount, len(values))
	}
	owner, ok := values[0].(common.Address)
	if !ok {
		return domain.ZeroAddress, fmt.Errorf(ErrMsgRPCResultType, values[0])
	}
	return domain.Address(owner), nil
}

// isRevert reports whether err is the node refusing the call, as ownerOf does for bags
// that were never minted.
func isRevert(err error) bool {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == RevertErrorCode {
		return true
	}
	return strings.HasPrefix(err.Error(), RevertMessagePrefix)
}
