// Package loot reads the external Loot registry. Loot bags are never mutated here:
// ownership is looked up through an Oracle and weapons are derived from the bag ID.
package loot

import (
	"context"
	"fmt"

	"github.com/osse101/Monsters_Go/internal/domain"
)

// Oracle answers who owns a Loot bag.
type Oracle interface {
	OwnerOf(ctx context.Context, id domain.LootID) (domain.Address, error)
}

// Adapter wraps an Oracle with the Loot ID rules. It does not cache.
type Adapter struct {
	oracle Oracle
}

// NewAdapter creates a new Adapter
func NewAdapter(oracle Oracle) *Adapter {
	return &Adapter{oracle: oracle}
}

// OwnerOf returns the current owner of a Loot bag, or ErrNotFound if the bag does not exist.
func (a *Adapter) OwnerOf(ctx context.Context, id domain.LootID) (domain.Address, error) {
	if !id.Valid() {
		return domain.ZeroAddress, fmt.Errorf("%w: %s: %d", domain.ErrNotFound, domain.ErrMsgLootNotFound, id)
	}
	owner, err := a.oracle.OwnerOf(ctx, id)
	if err != nil {
		return domain.ZeroAddress, err
	}
	if owner.IsZero() {
		return domain.ZeroAddress, fmt.Errorf("%w: %s: %d", domain.ErrNotFound, domain.ErrMsgLootNotFound, id)
	}
	return owner, nil
}

// WeaponOf returns the weapon carried by a Loot bag.
func (a *Adapter) WeaponOf(id domain.LootID) (domain.Weapon, error) {
	return WeaponOf(id)
}

// WeaponOf derives the weapon of a Loot bag. It is pure and needs no oracle.
func WeaponOf(id domain.LootID) (domain.Weapon, error) {
	if !id.Valid() {
		return domain.Weapon{}, fmt.Errorf("%w: %s: %d", domain.ErrNotFound, domain.ErrMsgLootNotFound, id)
	}
	return domain.WeaponForLoot(id), nil
}
