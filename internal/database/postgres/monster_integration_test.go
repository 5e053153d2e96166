package postgres

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Monsters_Go/internal/domain"
	"github.com/osse101/Monsters_Go/internal/loot"
	"github.com/osse101/Monsters_Go/internal/registry"
	"github.com/osse101/Monsters_Go/internal/weakness"
)

var (
	admin = domain.MustParseAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	alice = domain.MustParseAddress("0x00000000000000000000000000000000000a11ce")
	bob   = domain.MustParseAddress("0x0000000000000000000000000000000000000b0b")
)

func newRegistry(t *testing.T, store registry.Journal) *registry.Registry {
	t.Helper()
	oracle := loot.NewStaticOracle(map[domain.LootID]domain.Address{528: alice, 5: alice, 3: bob})
	reg, err := registry.New(admin, loot.NewAdapter(oracle), weakness.Default(), registry.WithJournal(store))
	require.NoError(t, err)
	return reg
}

func TestMonsterStore_Integration(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	store := NewMonsterStore(pool)

	t.Run("load before deploy", func(t *testing.T) {
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrNotDeployed)
	})

	require.NoError(t, store.Deploy(ctx, admin))

	t.Run("deploy is idempotent for the same administrator", func(t *testing.T) {
		assert.NoError(t, store.Deploy(ctx, admin))
		assert.ErrorIs(t, store.Deploy(ctx, alice), domain.ErrAlreadyExists)
	})

	reg := newRegistry(t, store)
	price := new(big.Int).Mul(domain.MinPrice(), big.NewInt(2))

	_, err := reg.Mint(ctx, alice, 1, price)
	require.NoError(t, err)
	_, err = reg.ReservedMint(ctx, admin, 9801)
	require.NoError(t, err)
	_, err = reg.MintWithLoot(ctx, bob, 3)
	require.NoError(t, err)
	_, err = reg.SetName(ctx, alice, 1, "Grendel")
	require.NoError(t, err)
	_, err = reg.Slay(ctx, alice, 1, 528, "Fallen")
	require.NoError(t, err)
	_, err = reg.Transfer(ctx, bob, alice, 3)
	require.NoError(t, err)
	paid, err := reg.Withdraw(ctx, admin)
	require.NoError(t, err)
	assert.Zero(t, price.Cmp(paid))

	t.Run("load restores the same state", func(t *testing.T) {
		state, err := store.Load(ctx)
		require.NoError(t, err)
		want := reg.Snapshot()
		assert.Equal(t, want.Administrator, state.Administrator)
		assert.Zero(t, want.Custody.Cmp(state.Custody))
		assert.Equal(t, want.Monsters, state.Monsters)

		restored := newRegistry(t, store)
		require.NoError(t, restored.Restore(state))
		assert.Equal(t, want.Monsters, restored.Snapshot().Monsters)
		assert.Equal(t, 2, restored.BalanceOf(alice))
	})

	t.Run("ledger has one row per change", func(t *testing.T) {
		var n int
		require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM ledger`).Scan(&n))
		assert.Equal(t, 7, n)

		var lootID int
		require.NoError(t, pool.QueryRow(ctx, `SELECT loot_id FROM ledger WHERE kind = 'slay'`).Scan(&lootID))
		assert.Equal(t, 528, lootID)
	})

	t.Run("failed record leaves registry untouched", func(t *testing.T) {
		before := reg.Snapshot()
		// a second slay of the same token is refused by the store even if the registry allowed it
		err := store.Record(ctx, registry.Change{
			Kind:    registry.KindSlay,
			Caller:  bob,
			Monster: domain.Monster{ID: 1, Owner: alice, Status: domain.Slain{Slayer: bob, LootID: 3}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		assert.Equal(t, before, reg.Snapshot())
	})

	t.Run("withdraw with nothing in custody records zero", func(t *testing.T) {
		paid, err := reg.Withdraw(ctx, admin)
		require.NoError(t, err)
		assert.Zero(t, paid.Sign())

		state, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Zero(t, state.Custody.Sign())
	})
}
