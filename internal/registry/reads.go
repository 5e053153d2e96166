package registry

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"github.com/osse101/Monsters_Go/internal/domain"
)

// Monster returns the state of a minted monster.
func (r *Registry) Monster(id domain.TokenID) (domain.Monster, bool) {
	m, ok := r.tokens[id]
	return m, ok
}

func (r *Registry) minted(id domain.TokenID) (domain.Monster, error) {
	m, ok := r.tokens[id]
	if !ok {
		return domain.Monster{}, fmt.Errorf("%w: %s: %d", domain.ErrNotFound, domain.ErrMsgTokenNotMinted, id)
	}
	return m, nil
}

// OwnerOf returns the owner of a minted monster.
func (r *Registry) OwnerOf(id domain.TokenID) (domain.Address, error) {
	m, err := r.minted(id)
	if err != nil {
		return domain.ZeroAddress, err
	}
	return m.Owner, nil
}

// GetName returns the current name of a minted monster.
func (r *Registry) GetName(id domain.TokenID) (string, error) {
	m, err := r.minted(id)
	if err != nil {
		return "", err
	}
	return m.Name, nil
}

func (r *Registry) slaying(id domain.TokenID) (domain.Slain, error) {
	m, err := r.minted(id)
	if err != nil {
		return domain.Slain{}, err
	}
	s, ok := m.Slain()
	if !ok {
		return domain.Slain{}, fmt.Errorf("%w: %s: %d", domain.ErrInvalidState, domain.ErrMsgNotSlain, id)
	}
	return s, nil
}

// SlayerOf returns who slew the monster.
func (r *Registry) SlayerOf(id domain.TokenID) (domain.Address, error) {
	s, err := r.slaying(id)
	if err != nil {
		return domain.ZeroAddress, err
	}
	return s.Slayer, nil
}

// SlainWith returns the Loot bag used to slay the monster.
func (r *Registry) SlainWith(id domain.TokenID) (domain.LootID, error) {
	s, err := r.slaying(id)
	if err != nil {
		return 0, err
	}
	return s.LootID, nil
}

// LootOwnerOf delegates to the Loot registry.
func (r *Registry) LootOwnerOf(ctx context.Context, lootID domain.LootID) (domain.Address, error) {
	return r.loot.OwnerOf(ctx, lootID)
}

// BalanceOf counts the monsters owned by owner.
func (r *Registry) BalanceOf(owner domain.Address) int {
	return r.owned[owner]
}

// TotalSupply counts minted monsters.
func (r *Registry) TotalSupply() int {
	return len(r.tokens)
}

// Custody returns a copy of the withdrawable balance in wei.
func (r *Registry) Custody() *big.Int {
	return new(big.Int).Set(r.custody)
}

// State is a full copy of the registry's mutable state, as persisted by a store.
type State struct {
	Administrator domain.Address
	Custody       *big.Int
	Monsters      []domain.Monster
}

// Snapshot copies the current state. Monsters are ordered by ID.
func (r *Registry) Snapshot() State {
	s := State{
		Administrator: r.admin,
		Custody:       r.Custody(),
		Monsters:      make([]domain.Monster, 0, len(r.tokens)),
	}
	for _, m := range r.tokens {
		s.Monsters = append(s.Monsters, m)
	}
	sort.Slice(s.Monsters, func(i, j int) bool { return s.Monsters[i].ID < s.Monsters[j].ID })
	return s
}

// Restore replaces the registry's contents with a previously persisted state. The
// state must carry this registry's administrator and satisfy every token invariant.
func (r *Registry) Restore(s State) error {
	if s.Administrator != r.admin {
		return fmt.Errorf("%w: stored administrator %s does not match %s", domain.ErrInvalidState, s.Administrator, r.admin)
	}
	if s.Custody != nil && s.Custody.Sign() < 0 {
		return fmt.Errorf("%w: negative custody balance", domain.ErrInvalidState)
	}

	tokens := make(map[domain.TokenID]domain.Monster, len(s.Monsters))
	owned := make(map[domain.Address]int)
	for _, m := range s.Monsters {
		if !m.ID.Valid() {
			return fmt.Errorf("%w: stored token %d outside universe", domain.ErrInvalidState, m.ID)
		}
		if _, dup := tokens[m.ID]; dup {
			return fmt.Errorf("%w: stored token %d appears twice", domain.ErrInvalidState, m.ID)
		}
		if m.Owner.IsZero() {
			return fmt.Errorf("%w: stored token %d has no owner", domain.ErrInvalidState, m.ID)
		}
		if !domain.ValidName(m.Name) {
			return fmt.Errorf("%w: stored token %d has an invalid name", domain.ErrInvalidState, m.ID)
		}
		if m.Status == nil {
			m.Status = domain.Alive{}
		}
		if slain, ok := m.Slain(); ok {
			if slain.Slayer.IsZero() {
				return fmt.Errorf("%w: stored token %d is slain with no slayer", domain.ErrInvalidState, m.ID)
			}
			if !slain.LootID.Valid() {
				return fmt.Errorf("%w: stored token %d is slain with loot %d outside the bag range", domain.ErrInvalidState, m.ID, slain.LootID)
			}
		}
		tokens[m.ID] = m
		owned[m.Owner]++
	}

	r.tokens = tokens
	r.owned = owned
	r.custody = new(big.Int)
	if s.Custody != nil {
		r.custody.Set(s.Custody)
	}
	return nil
}
