package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/osse101/Monsters_Go/internal/config"
	"github.com/osse101/Monsters_Go/internal/database"
	"github.com/osse101/Monsters_Go/internal/database/sqlite"
)

// WaitForDBCommand blocks until the configured store accepts connections
type WaitForDBCommand struct{}

func (c *WaitForDBCommand) Name() string {
	return "wait-for-db"
}

func (c *WaitForDBCommand) Description() string {
	return "Wait for the configured store to accept connections"
}

func (c *WaitForDBCommand) Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	attempts := fs.Int("attempts", 30, "connection attempts")
	interval := fs.Duration("interval", 2*time.Second, "delay between attempts")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	PrintHeader(fmt.Sprintf("Waiting for %s store...", cfg.StoreDriver))
	for i := 1; i <= *attempts; i++ {
		if err = pingStore(ctx, cfg); err == nil {
			PrintSuccess("Store is ready")
			return nil
		}
		PrintInfo("Store not ready (%d/%d): %v", i, *attempts, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(*interval):
		}
	}
	return fmt.Errorf("store failed to become ready after %d attempts: %w", *attempts, err)
}

func pingStore(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if cfg.StoreDriver == config.StoreDriverSQLite {
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return err
		}
		return store.Close()
	}

	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), database.DefaultPoolConfig())
	if err != nil {
		return err
	}
	pool.Close()
	return nil
}
