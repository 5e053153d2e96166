package monster

import (
	"context"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Monsters_Go/internal/domain"
	"github.com/osse101/Monsters_Go/internal/event"
	"github.com/osse101/Monsters_Go/internal/loot"
	"github.com/osse101/Monsters_Go/internal/registry"
	"github.com/osse101/Monsters_Go/internal/render"
	"github.com/osse101/Monsters_Go/internal/weakness"
)

var (
	admin  = domain.MustParseAddress("0x00000000000000000000000000000000000000ad")
	holder = domain.MustParseAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	other  = domain.MustParseAddress("0x0000000000000000000000000000000000000b0b")
)

type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) handle(ctx context.Context, evt event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *recorder) ofType(t event.Type) []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func newTestService(t testing.TB) (Service, *recorder) {
	t.Helper()
	oracle := loot.NewStaticOracle(map[domain.LootID]domain.Address{528: holder, 5: holder})
	reg, err := registry.New(admin, loot.NewAdapter(oracle), weakness.Default())
	require.NoError(t, err)

	bus := event.NewMemoryBus()
	rec := &recorder{}
	for _, typ := range []event.Type{event.MonsterMinted, event.MonsterRenamed, event.MonsterSlain, event.MonsterTransferred, event.CustodyWithdrawn} {
		bus.Subscribe(typ, rec.handle)
	}
	pub, err := event.NewResilientPublisher(bus, 1, 10*time.Millisecond, t.TempDir()+"/deadletter.jsonl")
	require.NoError(t, err)

	svc := NewService(reg, weakness.Default(), pub, CacheConfig{Size: 16, TTL: time.Minute})
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })
	return svc, rec
}

func TestSlay_EmitsSlainOnce(t *testing.T) {
	ctx := context.Background()
	svc, rec := newTestService(t)

	_, err := svc.Mint(ctx, holder, 1, domain.MinPrice())
	require.NoError(t, err)
	_, err = svc.Slay(ctx, holder, 1, 528, "NewName")
	require.NoError(t, err)
	_, err = svc.Slay(ctx, holder, 1, 528, "Again")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = svc.SetName(ctx, holder, 1, "x")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	slain := rec.ofType(event.MonsterSlain)
	require.Len(t, slain, 1)
	payload := slain[0].Payload.(event.SlainPayloadV1)
	assert.Equal(t, holder.Hex(), payload.Slayer)
	assert.Equal(t, 1, payload.TokenID)
	assert.Equal(t, 528, payload.LootID)
	assert.Equal(t, "NewName", payload.Name)
	assert.Equal(t, "Long Sword", payload.Weapon)
	assert.Empty(t, rec.ofType(event.MonsterRenamed))
}

func TestRejectedOperationsPublishNothing(t *testing.T) {
	ctx := context.Background()
	svc, rec := newTestService(t)

	_, err := svc.Mint(ctx, holder, 8001, mustEther(t, "0.049"))
	assert.ErrorIs(t, err, domain.ErrInsufficientPayment)
	_, err = svc.ReservedMint(ctx, holder, 9900)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.Withdraw(ctx, holder)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.Empty(t, rec.ofType(event.MonsterMinted))
	assert.Empty(t, rec.ofType(event.CustodyWithdrawn))
}

func TestTokenMetadata_CacheAndInvalidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Mint(ctx, holder, 1, domain.MinPrice())
	require.NoError(t, err)

	first, err := svc.TokenMetadata(ctx, 1)
	require.NoError(t, err)
	second, err := svc.TokenMetadata(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first.DataURI, second.DataURI)

	stats := svc.GetCacheStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)

	_, err = svc.Slay(ctx, holder, 1, 528, "NewName")
	require.NoError(t, err)

	after, err := svc.TokenMetadata(ctx, 1)
	require.NoError(t, err)
	assert.NotEqual(t, first.DataURI, after.DataURI)

	doc, err := render.Decode(after.DataURI)
	require.NoError(t, err)
	assert.Equal(t, "Monsters #1: NewName", doc.Name)
	assert.Contains(t, after.SVG, render.LabelSlain)
}

func TestTokenMetadata_UnclaimedAndOutOfRange(t *testing.T) {
	svc, _ := newTestService(t)

	md, err := svc.TokenMetadata(context.Background(), 9999)
	require.NoError(t, err)
	assert.Contains(t, md.SVG, render.LabelUnclaimed)

	_, err = svc.TokenMetadata(context.Background(), 10001)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetMonster(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	v, err := svc.GetMonster(ctx, 1)
	require.NoError(t, err)
	assert.False(t, v.Minted)
	assert.Equal(t, domain.StatusUnclaimed, v.Status)
	assert.Equal(t, "werewolf", v.Archetype)
	assert.Contains(t, v.Weaknesses, "Long Sword")
	assert.Nil(t, v.Owner)

	_, err = svc.Mint(ctx, holder, 1, domain.MinPrice())
	require.NoError(t, err)
	_, err = svc.Slay(ctx, holder, 1, 528, "Done")
	require.NoError(t, err)

	v, err = svc.GetMonster(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSlain, v.Status)
	require.NotNil(t, v.Slayer)
	assert.Equal(t, holder, *v.Slayer)
	require.NotNil(t, v.SlainWith)
	assert.Equal(t, domain.LootID(528), *v.SlainWith)

	_, err = svc.GetMonster(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCanSlay(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	check, err := svc.CanSlay(ctx, 1, 528)
	require.NoError(t, err)
	assert.True(t, check.CanSlay)
	assert.Equal(t, "Long Sword", check.Weapon)

	check, err = svc.CanSlay(ctx, 2, 528)
	require.NoError(t, err)
	assert.False(t, check.CanSlay)
	assert.Equal(t, "mimic", check.Archetype)

	_, err = svc.CanSlay(ctx, 2, 9000)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetLoot(t *testing.T) {
	svc, _ := newTestService(t)

	v, err := svc.GetLoot(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, holder, v.Owner)
	assert.Equal(t, "Maul", v.Weapon)
	assert.Equal(t, string(domain.ClassBludgeon), v.Class)

	_, err = svc.GetLoot(context.Background(), 6)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCollectionAndWithdraw(t *testing.T) {
	ctx := context.Background()
	svc, rec := newTestService(t)

	_, err := svc.Mint(ctx, holder, 1, domain.MinPrice())
	require.NoError(t, err)
	_, err = svc.ReservedMint(ctx, admin, 9801)
	require.NoError(t, err)
	_, err = svc.MintWithLoot(ctx, holder, 528)
	require.NoError(t, err)

	c := svc.GetCollection(ctx)
	assert.Equal(t, "Monsters", c.Name)
	assert.Equal(t, "MNST", c.Symbol)
	assert.Equal(t, 3, c.TotalSupply)
	assert.Equal(t, "0.1", c.CustodyEther)
	assert.Equal(t, 2, svc.BalanceOf(ctx, holder))

	amount, err := svc.Withdraw(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, domain.MinPriceWei, amount.String())
	assert.Equal(t, "0", svc.GetCollection(ctx).CustodyWei)

	minted := rec.ofType(event.MonsterMinted)
	require.Len(t, minted, 3)
	assert.Equal(t, string(registry.MethodLoot), minted[2].Payload.(event.MintedPayloadV1).Method)
	require.Len(t, rec.ofType(event.CustodyWithdrawn), 1)
}

func TestTransfer_InvalidatesMetadataAndEmits(t *testing.T) {
	ctx := context.Background()
	svc, rec := newTestService(t)

	_, err := svc.Mint(ctx, holder, 3, domain.MinPrice())
	require.NoError(t, err)
	_, err = svc.Transfer(ctx, holder, other, 3)
	require.NoError(t, err)

	owner, err := svc.OwnerOf(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, other, owner)
	require.Len(t, rec.ofType(event.MonsterTransferred), 1)
}

func TestConcurrentMints_ExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	svc, rec := newTestService(t)

	var wins, dupes atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Mint(ctx, holder, 77, domain.MinPrice())
			switch {
			case err == nil:
				wins.Add(1)
			case assert.ErrorIs(t, err, domain.ErrAlreadyExists):
				dupes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(19), dupes.Load())
	assert.Len(t, rec.ofType(event.MonsterMinted), 1)
	assert.Equal(t, domain.MinPriceWei, svc.GetCollection(ctx).CustodyWei)
}

func mustEther(t *testing.T, s string) *big.Int {
	t.Helper()
	v, err := domain.ParseEther(s)
	require.NoError(t, err)
	return v
}

// gatedOracle parks every lookup until release is closed
type gatedOracle struct {
	owner   domain.Address
	entered chan struct{}
	release chan struct{}
}

func (o *gatedOracle) OwnerOf(ctx context.Context, _ domain.LootID) (domain.Address, error) {
	o.entered <- struct{}{}
	select {
	case <-o.release:
		return o.owner, nil
	case <-ctx.Done():
		return domain.ZeroAddress, ctx.Err()
	}
}

func TestLootLookupDoesNotBlockReads(t *testing.T) {
	oracle := &gatedOracle{owner: holder, entered: make(chan struct{}, 1), release: make(chan struct{})}
	reg, err := registry.New(admin, loot.NewAdapter(oracle), weakness.Default())
	require.NoError(t, err)
	pub, err := event.NewResilientPublisher(event.NewMemoryBus(), 1, 10*time.Millisecond, t.TempDir()+"/deadletter.jsonl")
	require.NoError(t, err)
	svc := NewService(reg, weakness.Default(), pub, CacheConfig{Size: 16, TTL: time.Minute})
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })

	ctx := context.Background()
	_, err = svc.Mint(ctx, holder, 1, domain.MinPrice())
	require.NoError(t, err)
	_, err = svc.SetName(ctx, holder, 1, "Grendel")
	require.NoError(t, err)

	claimed := make(chan error, 1)
	go func() {
		_, err := svc.MintWithLoot(ctx, holder, 528)
		claimed <- err
	}()
	<-oracle.entered

	read := make(chan string, 1)
	go func() {
		name, _ := svc.GetName(ctx, 1)
		read <- name
	}()
	select {
	case name := <-read:
		assert.Equal(t, "Grendel", name)
	case <-time.After(time.Second):
		t.Fatal("read waited for a loot lookup")
	}
	_, err = svc.TokenMetadata(ctx, 1)
	assert.NoError(t, err)

	close(oracle.release)
	require.NoError(t, <-claimed)
	owner, err := svc.OwnerOf(ctx, 528)
	require.NoError(t, err)
	assert.Equal(t, holder, owner)
}
