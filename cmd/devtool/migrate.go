package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/osse101/Monsters_Go/internal/config"
	"github.com/osse101/Monsters_Go/internal/database"
	"github.com/osse101/Monsters_Go/internal/database/migrate"
	"github.com/osse101/Monsters_Go/internal/database/postgres"
)

// MigrateCommand applies or reports PostgreSQL schema migrations
type MigrateCommand struct{}

func (c *MigrateCommand) Name() string {
	return "migrate"
}

func (c *MigrateCommand) Description() string {
	return "Apply or inspect PostgreSQL schema migrations (up, status)"
}

func (c *MigrateCommand) Run(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: migrate needs a subcommand: up, status", errUsage)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.StoreDriver == config.StoreDriverSQLite {
		PrintInfo("SQLite stores migrate themselves when opened")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), database.DefaultPoolConfig())
	if err != nil {
		return err
	}
	defer pool.Close()

	switch args[0] {
	case "up":
		PrintHeader("Applying migrations")
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			PrintSuccess("Schema already up to date")
			return nil
		}
		PrintSuccess("Applied versions %v", applied)
	case "status":
		version, err := migrate.Version(ctx, stdlib.OpenDBFromPool(pool), goose.DialectPostgres)
		if err != nil {
			return err
		}
		PrintInfo("Schema version %d", version)
	default:
		return fmt.Errorf("%w: unknown migrate subcommand %q, want up or status", errUsage, args[0])
	}
	return nil
}
