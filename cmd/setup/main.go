package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/Monsters_Go/internal/config"
	"github.com/osse101/Monsters_Go/internal/database"
	"github.com/osse101/Monsters_Go/internal/database/postgres"
	"github.com/osse101/Monsters_Go/internal/database/sqlite"
	"github.com/osse101/Monsters_Go/internal/domain"
	"github.com/osse101/Monsters_Go/internal/repository"
)

const setupTimeout = 2 * time.Minute

func main() {
	reset := flag.Bool("reset", false, "drop and recreate the PostgreSQL database first (destroys all monsters)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	admin, err := cfg.AdministratorAddress()
	if err != nil {
		log.Fatalf("Invalid administrator: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	var store repository.MonsterStore
	switch cfg.StoreDriver {
	case config.StoreDriverSQLite:
		if *reset {
			log.Fatalf("-reset only applies to PostgreSQL; delete %s instead", cfg.SQLitePath)
		}
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to open %s: %v", cfg.SQLitePath, err)
		}
		log.Printf("SQLite store ready at %s", cfg.SQLitePath)
		store = s
	default:
		store, err = setupPostgres(ctx, cfg, *reset)
		if err != nil {
			log.Fatalf("PostgreSQL setup failed: %v", err)
		}
	}
	defer store.Close()

	err = store.Deploy(ctx, admin)
	switch {
	case errors.Is(err, domain.ErrAlreadyExists):
		log.Fatalf("Registry already deployed with a different administrator: %v", err)
	case err != nil:
		log.Fatalf("Failed to deploy registry: %v", err)
	}

	log.Printf("✅ Registry deployed, administrator %s", admin.Hex())
}

// setupPostgres creates the database if needed, applies migrations and returns the store.
func setupPostgres(ctx context.Context, cfg *config.Config, reset bool) (repository.MonsterStore, error) {
	if err := ensureDatabase(ctx, cfg, reset); err != nil {
		return nil, err
	}

	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), database.DefaultPoolConfig())
	if err != nil {
		return nil, err
	}

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	log.Printf("Applied %d migration(s)", len(applied))

	return postgres.NewMonsterStore(pool), nil
}

// ensureDatabase connects to the server's maintenance database and creates cfg.DBName.
// With reset, open connections are terminated and the database is dropped first.
func ensureDatabase(ctx context.Context, cfg *config.Config, reset bool) error {
	serverConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=%s",
		url.QueryEscape(cfg.DBUser), url.QueryEscape(cfg.DBPassword), cfg.DBHost, cfg.DBPort, cfg.DBSSLMode)

	conn, err := pgx.Connect(ctx, serverConnString)
	if err != nil {
		return fmt.Errorf("unable to connect to postgres database: %w", err)
	}
	defer conn.Close(ctx)

	ident := pgx.Identifier{cfg.DBName}.Sanitize()

	if reset {
		log.Printf("Terminating existing connections to database %s...", cfg.DBName)
		if _, err := conn.Exec(ctx, `
			SELECT pg_terminate_backend(pid)
			FROM pg_stat_activity
			WHERE datname = $1 AND pid <> pg_backend_pid()`, cfg.DBName); err != nil {
			log.Printf("Warning: failed to terminate connections: %v", err)
		}
		if _, err := conn.Exec(ctx, "DROP DATABASE IF EXISTS "+ident); err != nil {
			return fmt.Errorf("failed to drop database: %w", err)
		}
		log.Printf("Database %s dropped", cfg.DBName)
	}

	var exists bool
	if err := conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBName).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check if database exists: %w", err)
	}

	if exists {
		log.Printf("Database %s already exists", cfg.DBName)
		return nil
	}

	if _, err := conn.Exec(ctx, "CREATE DATABASE "+ident); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	log.Printf("Database %s created", cfg.DBName)
	return nil
}
