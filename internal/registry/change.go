package registry

import (
	"context"
	"math/big"

	"github.com/osse101/Monsters_Go/internal/domain"
)

// ChangeKind names a committed state transition
type ChangeKind string

// Change kinds
const (
	KindMint     ChangeKind = "mint"
	KindRename   ChangeKind = "rename"
	KindSlay     ChangeKind = "slay"
	KindTransfer ChangeKind = "transfer"
	KindWithdraw ChangeKind = "withdraw"
)

// MintMethod says how a monster came into existence
type MintMethod string

// Mint methods
const (
	MethodPublic   MintMethod = "public"
	MethodReserved MintMethod = "reserved"
	MethodLoot     MintMethod = "loot"
)

// Change is a validated transition. Monster holds the token's state after the change;
// it is empty for withdrawals. Amount is the payment retained by a mint or the sum paid
// out by a withdrawal.
type Change struct {
	Kind    ChangeKind
	Caller  domain.Address
	Monster domain.Monster
	From    domain.Address // previous owner, transfers only
	Method  MintMethod     // mints only
	Amount  *big.Int
}

// Journal durably records changes before the registry applies them. A Record error
// aborts the operation and leaves the registry untouched.
type Journal interface {
	Record(ctx context.Context, change Change) error
}

// JournalFunc adapts a function to the Journal interface.
type JournalFunc func(ctx context.Context, change Change) error

// Record calls f.
func (f JournalFunc) Record(ctx context.Context, change Change) error {
	return f(ctx, change)
}
