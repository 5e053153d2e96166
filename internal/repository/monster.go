package repository

import (
	"context"
	"fmt"
	"math/big"

	"github.com/osse101/Monsters_Go/internal/domain"
	"github.com/osse101/Monsters_Go/internal/registry"
)

// MonsterStore persists the registry. Record is the registry's journal: it runs before
// the in-memory transition and must be all-or-nothing.
type MonsterStore interface {
	registry.Journal

	// Deploy records the administrator once. Repeating it with the same address is a no-op.
	Deploy(ctx context.Context, admin domain.Address) error

	// Load returns the persisted state, or domain.ErrNotDeployed before Deploy.
	Load(ctx context.Context) (registry.State, error)

	Ping(ctx context.Context) error
	Close() error
}

// LedgerRow is the audit trail entry written alongside every recorded change
type LedgerRow struct {
	Kind         string
	Caller       []byte
	TokenID      *int
	Counterparty []byte
	LootID       *int
	AmountWei    *string
}

// NewLedgerRow flattens a change into its ledger columns.
func NewLedgerRow(c registry.Change) LedgerRow {
	row := LedgerRow{
		Kind:   string(c.Kind),
		Caller: AddressBytes(c.Caller),
	}
	if c.Kind != registry.KindWithdraw {
		id := int(c.Monster.ID)
		row.TokenID = &id
	}
	switch c.Kind {
	case registry.KindTransfer:
		row.Counterparty = AddressBytes(c.Monster.Owner)
	case registry.KindSlay:
		if s, ok := c.Monster.Slain(); ok {
			lootID := int(s.LootID)
			row.LootID = &lootID
		}
	case registry.KindMint:
		if c.Method == registry.MethodLoot {
			lootID := int(c.Monster.ID)
			row.LootID = &lootID
		}
	}
	if c.Amount != nil {
		wei := c.Amount.String()
		row.AmountWei = &wei
	}
	return row
}

// SlainColumns returns the nullable slayer and loot columns of a monster row.
func SlainColumns(m domain.Monster) ([]byte, *int) {
	s, ok := m.Slain()
	if !ok {
		return nil, nil
	}
	lootID := int(s.LootID)
	return AddressBytes(s.Slayer), &lootID
}

// ScanMonster rebuilds a monster from its stored columns.
func ScanMonster(id int, owner []byte, name string, slayer []byte, slainWith *int) (domain.Monster, error) {
	ownerAddr, err := BytesAddress(owner)
	if err != nil {
		return domain.Monster{}, err
	}
	m := domain.Monster{ID: domain.TokenID(id), Owner: ownerAddr, Name: name, Status: domain.Alive{}}
	if slayer != nil {
		if slainWith == nil {
			return domain.Monster{}, fmt.Errorf("%w: monster %d has a slayer but no loot", domain.ErrInvalidState, id)
		}
		slayerAddr, err := BytesAddress(slayer)
		if err != nil {
			return domain.Monster{}, err
		}
		m.Status = domain.Slain{Slayer: slayerAddr, LootID: domain.LootID(*slainWith)}
	}
	return m, nil
}

// AddressBytes is the stored form of an address
func AddressBytes(a domain.Address) []byte {
	b := make([]byte, domain.AddressLength)
	copy(b, a[:])
	return b
}

// BytesAddress rejects columns that are not exactly one address long.
func BytesAddress(b []byte) (domain.Address, error) {
	if len(b) != domain.AddressLength {
		return domain.Address{}, fmt.Errorf("%w: stored address has %d bytes", domain.ErrInvalidState, len(b))
	}
	return domain.AddressFromBytes(b), nil
}

// ParseWei reads a decimal wei column.
func ParseWei(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("%w: stored amount %q", domain.ErrInvalidState, s)
	}
	return v, nil
}
