package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/Monsters_Go/internal/config"
	"github.com/osse101/Monsters_Go/internal/database"
	"github.com/osse101/Monsters_Go/internal/database/postgres"
	"github.com/osse101/Monsters_Go/internal/database/sqlite"
	"github.com/osse101/Monsters_Go/internal/domain"
	"github.com/osse101/Monsters_Go/internal/loot"
	"github.com/osse101/Monsters_Go/internal/registry"
	"github.com/osse101/Monsters_Go/internal/repository"
	"github.com/osse101/Monsters_Go/internal/weakness"
)

// OpenStore connects to the configured store driver. Postgres schemas are migrated
// by cmd/setup; SQLite files migrate themselves on open.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.MonsterStore, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenStore, err)
		}
		slog.Info(LogMsgStoreOpened, "driver", cfg.StoreDriver, "path", cfg.SQLitePath)
		return store, nil
	default:
		pool, err := database.NewPool(ctx, cfg.GetDBConnString(), database.DefaultPoolConfig())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenStore, err)
		}
		slog.Info(LogMsgStoreOpened, "driver", cfg.StoreDriver, "host", cfg.DBHost, "db", cfg.DBName)
		return postgres.NewMonsterStore(pool), nil
	}
}

// NewLootOracle builds the configured Loot ownership backend.
func NewLootOracle(ctx context.Context, cfg *config.Config) (loot.Oracle, error) {
	if cfg.LootBackend == config.LootBackendRPC {
		contract, err := cfg.LootContractAddress()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedBuildOracle, err)
		}
		oracle, err := loot.DialRPCOracle(ctx, cfg.EthRPCURL, contract, cfg.EthRPCTimeout)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedBuildOracle, err)
		}
		slog.Info(LogMsgOracleDialed, "endpoint", cfg.EthRPCURL, "contract", contract.Hex())
		return oracle, nil
	}

	oracle, err := loot.LoadStaticOracle(cfg.LootFixture)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedBuildOracle, err)
	}
	return oracle, nil
}

// RestoreRegistry rebuilds the in-memory registry from the store. The store must have
// been deployed by cmd/setup for the same administrator the service is configured with.
func RestoreRegistry(ctx context.Context, cfg *config.Config, store repository.MonsterStore, oracle loot.Oracle, table *weakness.Table) (*registry.Registry, error) {
	admin, err := cfg.AdministratorAddress()
	if err != nil {
		return nil, err
	}

	state, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadState, err)
	}
	if state.Administrator != admin {
		return nil, fmt.Errorf("%w: %s: deployed %s, configured %s",
			domain.ErrInvalidState, ErrMsgAdminMismatch, state.Administrator.Hex(), admin.Hex())
	}

	reg, err := registry.New(admin, loot.NewAdapter(oracle), table, registry.WithJournal(store))
	if err != nil {
		return nil, err
	}
	if err := reg.Restore(state); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadState, err)
	}

	slog.Info(LogMsgStateRestored,
		"administrator", admin.Hex(),
		"monsters", len(state.Monsters),
		"custody_wei", state.Custody.String())
	return reg, nil
}
