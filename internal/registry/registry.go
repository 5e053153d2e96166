// Package registry is the monster state machine: ownership, names and the one-way
// Alive to Slain transition. Every operation validates all preconditions before it
// writes anything, so a failed call leaves no trace.
//
// A Registry is not safe for concurrent use. Callers serialize operations.
package registry

import (
	"context"
	"fmt"
	"math/big"

	"github.com/osse101/Monsters_Go/internal/domain"
)

// LootSource is the read-only view of the external Loot registry.
type LootSource interface {
	OwnerOf(ctx context.Context, id domain.LootID) (domain.Address, error)
	WeaponOf(id domain.LootID) (domain.Weapon, error)
}

// WeaknessTable answers whether a weapon can slay a monster.
type WeaknessTable interface {
	IsWeakTo(id domain.TokenID, w domain.Weapon) bool
}

// Registry owns all mutable monster state.
type Registry struct {
	admin   domain.Address
	loot    LootSource
	table   WeaknessTable
	journal Journal

	tokens  map[domain.TokenID]domain.Monster
	owned   map[domain.Address]int
	custody *big.Int
}

// Option configures a Registry
type Option func(*Registry)

// WithJournal records every change in j before applying it.
func WithJournal(j Journal) Option {
	return func(r *Registry) {
		r.journal = j
	}
}

// New constructs an empty registry administered by admin.
func New(admin domain.Address, loot LootSource, table WeaknessTable, opts ...Option) (*Registry, error) {
	if admin.IsZero() {
		return nil, fmt.Errorf("%w: administrator is the %s", domain.ErrInvalidInput, domain.ErrMsgZeroAddress)
	}
	r := &Registry{
		admin:   admin,
		loot:    loot,
		table:   table,
		tokens:  make(map[domain.TokenID]domain.Monster),
		owned:   make(map[domain.Address]int),
		custody: new(big.Int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Administrator returns the address allowed to reserve-mint and withdraw.
func (r *Registry) Administrator() domain.Address {
	return r.admin
}

func (r *Registry) commit(ctx context.Context, c Change) error {
	if r.journal != nil {
		if err := r.journal.Record(ctx, c); err != nil {
			return fmt.Errorf("failed to record %s: %w", c.Kind, err)
		}
	}
	r.apply(c)
	return nil
}

func (r *Registry) apply(c Change) {
	switch c.Kind {
	case KindMint:
		r.tokens[c.Monster.ID] = c.Monster
		r.owned[c.Monster.Owner]++
		r.custody.Add(r.custody, c.Amount)
	case KindTransfer:
		r.owned[c.From]--
		if r.owned[c.From] == 0 {
			delete(r.owned, c.From)
		}
		r.owned[c.Monster.Owner]++
		r.tokens[c.Monster.ID] = c.Monster
	case KindRename, KindSlay:
		r.tokens[c.Monster.ID] = c.Monster
	case KindWithdraw:
		r.custody.Sub(r.custody, c.Amount)
	}
}

func (r *Registry) requireAdmin(caller domain.Address) error {
	if caller != r.admin {
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, domain.ErrMsgNotAdministrator)
	}
	return nil
}

func (r *Registry) requireUnminted(id domain.TokenID) error {
	if _, exists := r.tokens[id]; exists {
		return fmt.Errorf("%w: %s: %d", domain.ErrAlreadyExists, domain.ErrMsgAlreadyMinted, id)
	}
	return nil
}

func (r *Registry) requireOwned(id domain.TokenID, caller domain.Address) (domain.Monster, error) {
	m, exists := r.tokens[id]
	if !exists {
		return domain.Monster{}, fmt.Errorf("%w: %s: %d", domain.ErrNotFound, domain.ErrMsgTokenNotMinted, id)
	}
	if m.Owner != caller {
		return domain.Monster{}, fmt.Errorf("%w: %s", domain.ErrUnauthorized, domain.ErrMsgNotMonsterOwner)
	}
	return m, nil
}

// LootClaim is one answer from the Loot registry. Resolving it is the only step
// of a write that leaves the process, so callers resolve before they serialize
// and pass the claim in. A failed lookup is kept and reported at the point the
// ownership check runs.
type LootClaim struct {
	LootID domain.LootID
	Owner  domain.Address
	err    error
}

// ResolveLoot looks up who owns lootID. It touches no registry state.
func (r *Registry) ResolveLoot(ctx context.Context, lootID domain.LootID) LootClaim {
	owner, err := r.loot.OwnerOf(ctx, lootID)
	return LootClaim{LootID: lootID, Owner: owner, err: err}
}

func (c LootClaim) requireOwner(caller domain.Address) error {
	if c.err != nil {
		return c.err
	}
	if c.Owner != caller {
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, domain.ErrMsgNotLootOwner)
	}
	return nil
}

func validateName(name string) error {
	if len(name) > domain.MaxNameLength {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, domain.ErrMsgNameTooLong)
	}
	if !domain.ValidName(name) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, domain.ErrMsgNameNotUTF8)
	}
	return nil
}

func (r *Registry) mintTo(ctx context.Context, caller domain.Address, id domain.TokenID, method MintMethod, paid *big.Int) (domain.Monster, error) {
	if caller.IsZero() {
		return domain.Monster{}, fmt.Errorf("%w: minter is the %s", domain.ErrInvalidInput, domain.ErrMsgZeroAddress)
	}
	m := domain.NewMonster(id, caller)
	if err := r.commit(ctx, Change{Kind: KindMint, Caller: caller, Monster: m, Method: method, Amount: new(big.Int).Set(paid)}); err != nil {
		return domain.Monster{}, err
	}
	return m, nil
}

// Mint creates monster id for caller in exchange for payment (wei). Only the public
// range can be minted this way and the payment stays in custody.
func (r *Registry) Mint(ctx context.Context, caller domain.Address, id domain.TokenID, payment *big.Int) (domain.Monster, error) {
	if !id.IsPublic() {
		return domain.Monster{}, fmt.Errorf("%w: %s: %d", domain.ErrInvalidInput, domain.ErrMsgTokenIDInvalid, id)
	}
	if payment == nil || payment.Cmp(domain.MinPrice()) < 0 {
		return domain.Monster{}, fmt.Errorf("%w: %s", domain.ErrInsufficientPayment, domain.ErrMsgInsufficientEther)
	}
	if err := r.requireUnminted(id); err != nil {
		return domain.Monster{}, err
	}
	return r.mintTo(ctx, caller, id, MethodPublic, payment)
}

// ReservedMint lets the administrator mint from the reserved range for free.
func (r *Registry) ReservedMint(ctx context.Context, caller domain.Address, id domain.TokenID) (domain.Monster, error) {
	if err := r.requireAdmin(caller); err != nil {
		return domain.Monster{}, err
	}
	if !id.IsReserved() {
		return domain.Monster{}, fmt.Errorf("%w: %s: %d", domain.ErrInvalidInput, domain.ErrMsgTokenIDInvalid, id)
	}
	if err := r.requireUnminted(id); err != nil {
		return domain.Monster{}, err
	}
	return r.mintTo(ctx, caller, id, MethodReserved, new(big.Int))
}

// MintWithLoot lets the owner of Loot bag N claim monster N for free.
func (r *Registry) MintWithLoot(ctx context.Context, caller domain.Address, lootID domain.LootID) (domain.Monster, error) {
	return r.MintWithClaim(ctx, caller, r.ResolveLoot(ctx, lootID))
}

// MintWithClaim is MintWithLoot with the ownership lookup already done.
func (r *Registry) MintWithClaim(ctx context.Context, caller domain.Address, claim LootClaim) (domain.Monster, error) {
	if err := claim.requireOwner(caller); err != nil {
		return domain.Monster{}, err
	}
	id := domain.TokenID(claim.LootID)
	if !id.IsPublic() {
		return domain.Monster{}, fmt.Errorf("%w: %s: %d", domain.ErrInvalidInput, domain.ErrMsgTokenIDInvalid, id)
	}
	if err := r.requireUnminted(id); err != nil {
		return domain.Monster{}, err
	}
	return r.mintTo(ctx, caller, id, MethodLoot, new(big.Int))
}

// SetName renames a living monster owned by caller.
func (r *Registry) SetName(ctx context.Context, caller domain.Address, id domain.TokenID, name string) (domain.Monster, error) {
	m, err := r.requireOwned(id, caller)
	if err != nil {
		return domain.Monster{}, err
	}
	if !m.IsAlive() {
		return domain.Monster{}, fmt.Errorf("%w: %s", domain.ErrInvalidState, domain.ErrMsgAlreadySlain)
	}
	if err := validateName(name); err != nil {
		return domain.Monster{}, err
	}
	m.Name = name
	if err := r.commit(ctx, Change{Kind: KindRename, Caller: caller, Monster: m}); err != nil {
		return domain.Monster{}, err
	}
	return m, nil
}

// CanSlay reports whether the weapon in Loot bag lootID matches a weakness of monster id.
// It reads nothing but the static tables.
func (r *Registry) CanSlay(id domain.TokenID, lootID domain.LootID) bool {
	w, err := r.loot.WeaponOf(lootID)
	if err != nil {
		return false
	}
	return r.table.IsWeakTo(id, w)
}

// Slay irreversibly kills monster id with the weapon from Loot bag lootID and gives it
// its final name. Caller must own both the monster and the bag.
func (r *Registry) Slay(ctx context.Context, caller domain.Address, id domain.TokenID, lootID domain.LootID, name string) (domain.Monster, error) {
	return r.SlayWithClaim(ctx, caller, id, r.ResolveLoot(ctx, lootID), name)
}

// SlayWithClaim is Slay with the ownership lookup already done.
func (r *Registry) SlayWithClaim(ctx context.Context, caller domain.Address, id domain.TokenID, claim LootClaim, name string) (domain.Monster, error) {
	m, err := r.requireOwned(id, caller)
	if err != nil {
		return domain.Monster{}, err
	}
	if err := claim.requireOwner(caller); err != nil {
		return domain.Monster{}, err
	}
	if !r.CanSlay(id, claim.LootID) {
		return domain.Monster{}, fmt.Errorf("%w: %s", domain.ErrIneligibleTarget, domain.ErrMsgImmune)
	}
	if !m.IsAlive() {
		return domain.Monster{}, fmt.Errorf("%w: %s", domain.ErrInvalidState, domain.ErrMsgAlreadySlain)
	}
	if err := validateName(name); err != nil {
		return domain.Monster{}, err
	}
	m.Name = name
	m.Status = domain.Slain{Slayer: caller, LootID: claim.LootID}
	if err := r.commit(ctx, Change{Kind: KindSlay, Caller: caller, Monster: m}); err != nil {
		return domain.Monster{}, err
	}
	return m, nil
}

// Transfer hands monster id from caller to another address. Name and status travel with it.
func (r *Registry) Transfer(ctx context.Context, caller, to domain.Address, id domain.TokenID) (domain.Monster, error) {
	m, err := r.requireOwned(id, caller)
	if err != nil {
		return domain.Monster{}, err
	}
	if to.IsZero() {
		return domain.Monster{}, fmt.Errorf("%w: transfer to the %s", domain.ErrInvalidInput, domain.ErrMsgZeroAddress)
	}
	m.Owner = to
	if err := r.commit(ctx, Change{Kind: KindTransfer, Caller: caller, From: caller, Monster: m}); err != nil {
		return domain.Monster{}, err
	}
	return m, nil
}

// Withdraw pays the whole custody balance out to the administrator and returns it.
// Withdrawing an empty balance succeeds with zero.
func (r *Registry) Withdraw(ctx context.Context, caller domain.Address) (*big.Int, error) {
	if err := r.requireAdmin(caller); err != nil {
		return nil, err
	}
	amount := new(big.Int).Set(r.custody)
	if err := r.commit(ctx, Change{Kind: KindWithdraw, Caller: caller, Amount: amount}); err != nil {
		return nil, err
	}
	return new(big.Int).Set(amount), nil
}
