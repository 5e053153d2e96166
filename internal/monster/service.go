// Package monster is the service layer over the registry. It serializes every
// registry call, publishes events for committed changes and caches rendered metadata.
package monster

import (
	"context"
	"math/big"
	"sync"

	"github.com/osse101/Monsters_Go/internal/domain"
	"github.com/osse101/Monsters_Go/internal/event"
	"github.com/osse101/Monsters_Go/internal/logger"
	"github.com/osse101/Monsters_Go/internal/loot"
	"github.com/osse101/Monsters_Go/internal/metrics"
	"github.com/osse101/Monsters_Go/internal/registry"
	"github.com/osse101/Monsters_Go/internal/render"
	"github.com/osse101/Monsters_Go/internal/weakness"
)

// Service defines the monster registry operations
type Service interface {
	Mint(ctx context.Context, caller domain.Address, id domain.TokenID, payment *big.Int) (domain.Monster, error)
	ReservedMint(ctx context.Context, caller domain.Address, id domain.TokenID) (domain.Monster, error)
	MintWithLoot(ctx context.Context, caller domain.Address, lootID domain.LootID) (domain.Monster, error)
	SetName(ctx context.Context, caller domain.Address, id domain.TokenID, name string) (domain.Monster, error)
	Slay(ctx context.Context, caller domain.Address, id domain.TokenID, lootID domain.LootID, name string) (domain.Monster, error)
	Transfer(ctx context.Context, caller, to domain.Address, id domain.TokenID) (domain.Monster, error)
	Withdraw(ctx context.Context, caller domain.Address) (*big.Int, error)

	GetMonster(ctx context.Context, id domain.TokenID) (*View, error)
	OwnerOf(ctx context.Context, id domain.TokenID) (domain.Address, error)
	GetName(ctx context.Context, id domain.TokenID) (string, error)
	SlayerOf(ctx context.Context, id domain.TokenID) (domain.Address, error)
	SlainWith(ctx context.Context, id domain.TokenID) (domain.LootID, error)
	CanSlay(ctx context.Context, id domain.TokenID, lootID domain.LootID) (*SlayCheck, error)
	LootOwnerOf(ctx context.Context, lootID domain.LootID) (domain.Address, error)
	GetLoot(ctx context.Context, lootID domain.LootID) (*LootView, error)
	BalanceOf(ctx context.Context, owner domain.Address) int
	GetCollection(ctx context.Context) *Collection
	TokenMetadata(ctx context.Context, id domain.TokenID) (render.Metadata, error)

	GetCacheStats() CacheStats
	Shutdown(ctx context.Context) error
}

type service struct {
	mu        sync.RWMutex
	reg       *registry.Registry
	table     *weakness.Table
	publisher *event.ResilientPublisher
	cache     *metadataCache
}

// NewService creates a new monster service. publisher may be nil.
func NewService(reg *registry.Registry, table *weakness.Table, publisher *event.ResilientPublisher, cacheCfg CacheConfig) Service {
	s := &service{
		reg:       reg,
		table:     table,
		publisher: publisher,
		cache:     newMetadataCache(cacheCfg),
	}
	s.updateGauges()
	return s
}

func (s *service) updateGauges() {
	metrics.TotalSupply.Set(float64(s.reg.TotalSupply()))
	metrics.CustodyEther.Set(domain.EtherFloat(s.reg.Custody()))
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher == nil {
		return
	}
	if id := logger.GetRequestID(ctx); id != "" {
		evt.Metadata = map[string]interface{}{event.MetadataKeyRequestID: id}
	}
	s.publisher.PublishWithRetry(ctx, evt)
}

// reject logs and counts a failed operation. Precondition failures are expected
// traffic; anything else is a storage or oracle failure.
func (s *service) reject(ctx context.Context, op string, err error, args ...any) error {
	kind := domain.ErrorKind(err)
	metrics.OperationRejections.WithLabelValues(op, kind).Inc()

	args = append(args, "operation", op, "kind", kind, "error", err)
	log := logger.FromContext(ctx)
	if kind == domain.ErrMsgInternal {
		log.Error(LogMsgOperationFailed, args...)
	} else {
		log.Info(LogMsgOperationRejected, args...)
	}
	return err
}

// mutate runs fn under the write lock and invalidates the cached metadata of id.
// fn must not call out of the process: Loot ownership is resolved before mutate.
func (s *service) mutate(id domain.TokenID, fn func() (domain.Monster, error)) (domain.Monster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := fn()
	if err != nil {
		return domain.Monster{}, err
	}
	s.cache.Invalidate(id)
	s.updateGauges()
	return m, nil
}

func (s *service) mintCompleted(ctx context.Context, m domain.Monster, method registry.MintMethod, paid *big.Int) {
	logger.FromContext(ctx).Info(LogMsgMonsterMinted,
		"token_id", m.ID, "owner", m.Owner.Hex(), "method", method, "paid_wei", paid.String())
	s.publish(ctx, event.NewMintedEvent(m.Owner, m.ID, string(method), paid.String()))
}

// Mint implements the public paid mint
func (s *service) Mint(ctx context.Context, caller domain.Address, id domain.TokenID, payment *big.Int) (domain.Monster, error) {
	m, err := s.mutate(id, func() (domain.Monster, error) {
		return s.reg.Mint(ctx, caller, id, payment)
	})
	if err != nil {
		return domain.Monster{}, s.reject(ctx, OpMint, err, "token_id", id, "caller", caller.Hex())
	}
	s.mintCompleted(ctx, m, registry.MethodPublic, payment)
	return m, nil
}

// ReservedMint implements the administrator's free mint
func (s *service) ReservedMint(ctx context.Context, caller domain.Address, id domain.TokenID) (domain.Monster, error) {
	m, err := s.mutate(id, func() (domain.Monster, error) {
		return s.reg.ReservedMint(ctx, caller, id)
	})
	if err != nil {
		return domain.Monster{}, s.reject(ctx, OpReservedMint, err, "token_id", id, "caller", caller.Hex())
	}
	s.mintCompleted(ctx, m, registry.MethodReserved, new(big.Int))
	return m, nil
}

// MintWithLoot implements the Loot holder's free claim
func (s *service) MintWithLoot(ctx context.Context, caller domain.Address, lootID domain.LootID) (domain.Monster, error) {
	claim := s.reg.ResolveLoot(ctx, lootID)
	m, err := s.mutate(domain.TokenID(lootID), func() (domain.Monster, error) {
		return s.reg.MintWithClaim(ctx, caller, claim)
	})
	if err != nil {
		return domain.Monster{}, s.reject(ctx, OpMintWithLoot, err, "loot_id", lootID, "caller", caller.Hex())
	}
	s.mintCompleted(ctx, m, registry.MethodLoot, new(big.Int))
	return m, nil
}

// SetName renames a living monster
func (s *service) SetName(ctx context.Context, caller domain.Address, id domain.TokenID, name string) (domain.Monster, error) {
	m, err := s.mutate(id, func() (domain.Monster, error) {
		return s.reg.SetName(ctx, caller, id, name)
	})
	if err != nil {
		return domain.Monster{}, s.reject(ctx, OpSetName, err, "token_id", id, "caller", caller.Hex())
	}
	logger.FromContext(ctx).Info(LogMsgMonsterRenamed, "token_id", id, "name", name)
	s.publish(ctx, event.NewRenamedEvent(m.Owner, id, name))
	return m, nil
}

// Slay kills a monster with a Loot weapon. The Slain event is published exactly once,
// after the transition has been committed.
func (s *service) Slay(ctx context.Context, caller domain.Address, id domain.TokenID, lootID domain.LootID, name string) (domain.Monster, error) {
	claim := s.reg.ResolveLoot(ctx, lootID)
	m, err := s.mutate(id, func() (domain.Monster, error) {
		return s.reg.SlayWithClaim(ctx, caller, id, claim, name)
	})
	if err != nil {
		return domain.Monster{}, s.reject(ctx, OpSlay, err, "token_id", id, "loot_id", lootID, "caller", caller.Hex())
	}

	weapon, _ := loot.WeaponOf(lootID)
	logger.FromContext(ctx).Info(LogMsgMonsterSlain,
		"token_id", id, "loot_id", lootID, "weapon", weapon.Name, "slayer", caller.Hex(), "name", name)
	s.publish(ctx, event.NewSlainEvent(caller, id, lootID, name, weapon.Name))
	return m, nil
}

// Transfer moves a monster to a new owner
func (s *service) Transfer(ctx context.Context, caller, to domain.Address, id domain.TokenID) (domain.Monster, error) {
	m, err := s.mutate(id, func() (domain.Monster, error) {
		return s.reg.Transfer(ctx, caller, to, id)
	})
	if err != nil {
		return domain.Monster{}, s.reject(ctx, OpTransfer, err, "token_id", id, "caller", caller.Hex())
	}
	logger.FromContext(ctx).Info(LogMsgMonsterTransfer, "token_id", id, "from", caller.Hex(), "to", to.Hex())
	s.publish(ctx, event.NewTransferredEvent(caller, to, id))
	return m, nil
}

// Withdraw pays the custody balance out to the administrator
func (s *service) Withdraw(ctx context.Context, caller domain.Address) (*big.Int, error) {
	s.mu.Lock()
	amount, err := s.reg.Withdraw(ctx, caller)
	if err == nil {
		s.updateGauges()
	}
	s.mu.Unlock()

	if err != nil {
		return nil, s.reject(ctx, OpWithdraw, err, "caller", caller.Hex())
	}
	metrics.WithdrawnEther.Add(domain.EtherFloat(amount))
	logger.FromContext(ctx).Info(LogMsgCustodyWithdrawn, "amount_wei", amount.String(), "amount_ether", domain.FormatEther(amount))
	s.publish(ctx, event.NewWithdrawnEvent(caller, amount.String()))
	return amount, nil
}

// GetMonster returns the read model of any ID in the universe
func (s *service) GetMonster(ctx context.Context, id domain.TokenID) (*View, error) {
	archetype, ok := s.table.ArchetypeOf(id)
	if !ok {
		return nil, tokenIDInvalid(id)
	}

	s.mu.RLock()
	m, minted := s.reg.Monster(id)
	s.mu.RUnlock()

	v := &View{
		ID:         id,
		Minted:     minted,
		Status:     domain.StatusUnclaimed,
		Archetype:  archetype.Name,
		Weaknesses: weaponNames(archetype.Weaknesses),
	}
	if !minted {
		return v, nil
	}
	owner := m.Owner
	v.Owner = &owner
	v.Name = m.Name
	v.Status = m.Status.String()
	if slain, ok := m.Slain(); ok {
		v.Slayer = &slain.Slayer
		v.SlainWith = &slain.LootID
	}
	return v, nil
}

// OwnerOf returns the owner of a minted monster
func (s *service) OwnerOf(ctx context.Context, id domain.TokenID) (domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.OwnerOf(id)
}

// GetName returns the name of a minted monster
func (s *service) GetName(ctx context.Context, id domain.TokenID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.GetName(id)
}

// SlayerOf returns who slew a monster
func (s *service) SlayerOf(ctx context.Context, id domain.TokenID) (domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.SlayerOf(id)
}

// SlainWith returns the Loot bag a monster was slain with
func (s *service) SlainWith(ctx context.Context, id domain.TokenID) (domain.LootID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.SlainWith(id)
}

// CanSlay explains whether a Loot bag's weapon can slay a monster
func (s *service) CanSlay(ctx context.Context, id domain.TokenID, lootID domain.LootID) (*SlayCheck, error) {
	archetype, ok := s.table.ArchetypeOf(id)
	if !ok {
		return nil, tokenIDInvalid(id)
	}
	weapon, err := loot.WeaponOf(lootID)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	can := s.reg.CanSlay(id, lootID)
	s.mu.RUnlock()

	return &SlayCheck{
		TokenID:   id,
		LootID:    lootID,
		CanSlay:   can,
		Weapon:    weapon.Name,
		Archetype: archetype.Name,
	}, nil
}

// LootOwnerOf asks the Loot registry who owns a bag
func (s *service) LootOwnerOf(ctx context.Context, lootID domain.LootID) (domain.Address, error) {
	return s.reg.LootOwnerOf(ctx, lootID)
}

// GetLoot returns a bag's owner and weapon
func (s *service) GetLoot(ctx context.Context, lootID domain.LootID) (*LootView, error) {
	weapon, err := loot.WeaponOf(lootID)
	if err != nil {
		return nil, err
	}
	owner, err := s.reg.LootOwnerOf(ctx, lootID)
	if err != nil {
		return nil, err
	}
	return &LootView{ID: lootID, Owner: owner, Weapon: weapon.Name, Class: string(weapon.Class)}, nil
}

// BalanceOf counts the monsters an address owns
func (s *service) BalanceOf(ctx context.Context, owner domain.Address) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.BalanceOf(owner)
}

// GetCollection summarizes the registry
func (s *service) GetCollection(ctx context.Context) *Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	custody := s.reg.Custody()
	return &Collection{
		Name:          domain.CollectionName,
		Symbol:        domain.CollectionSymbol,
		TotalSupply:   s.reg.TotalSupply(),
		MaxSupply:     int(domain.MaxTokenID),
		Administrator: s.reg.Administrator(),
		CustodyWei:    custody.String(),
		CustodyEther:  domain.FormatEther(custody),
		MintPriceWei:  domain.MinPrice().String(),
	}
}

// TokenMetadata renders, or serves from cache, the metadata data URI of a token.
// The read lock is held across render and cache fill so a concurrent mutation can
// never leave stale metadata behind.
func (s *service) TokenMetadata(ctx context.Context, id domain.TokenID) (render.Metadata, error) {
	if md, ok := s.cache.Get(id); ok {
		return md, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, err := s.snapshot(id)
	if err != nil {
		return render.Metadata{}, err
	}
	md, err := render.Render(snap)
	if err != nil {
		return render.Metadata{}, err
	}
	s.cache.Set(id, md)
	return md, nil
}

// snapshot copies everything the renderer needs. Caller holds s.mu.
func (s *service) snapshot(id domain.TokenID) (render.Snapshot, error) {
	archetype, ok := s.table.ArchetypeOf(id)
	if !ok {
		return render.Snapshot{}, tokenIDInvalid(id)
	}
	snap := render.Snapshot{
		ID:         id,
		Archetype:  archetype.Name,
		Weaknesses: weaponNames(archetype.Weaknesses),
	}

	m, minted := s.reg.Monster(id)
	if !minted {
		return snap, nil
	}
	snap.Minted = true
	snap.Name = m.Name
	if slain, ok := m.Slain(); ok {
		weapon, err := loot.WeaponOf(slain.LootID)
		if err != nil {
			return render.Snapshot{}, err
		}
		snap.Slain = &render.Slaying{Slayer: slain.Slayer, LootID: slain.LootID, Weapon: weapon.Name}
	}
	return snap, nil
}

// GetCacheStats reports metadata cache effectiveness
func (s *service) GetCacheStats() CacheStats {
	return s.cache.Stats()
}

// Shutdown flushes pending event retries
func (s *service) Shutdown(ctx context.Context) error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.Shutdown(ctx)
}
