// Package migrate applies the embedded goose migrations for each supported store.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/osse101/Monsters_Go/internal/logger"
)

//go:embed postgres/*.sql sqlite/*.sql
var migrations embed.FS

var dialectDirs = map[goose.Dialect]string{
	goose.DialectPostgres: "postgres",
	goose.DialectSQLite3:  "sqlite",
}

func provider(db *sql.DB, dialect goose.Dialect) (*goose.Provider, error) {
	dir, ok := dialectDirs[dialect]
	if !ok {
		return nil, fmt.Errorf("no migrations for dialect %q", dialect)
	}
	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		return nil, fmt.Errorf("open %s migrations: %w", dir, err)
	}
	p, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("create migration provider: %w", err)
	}
	return p, nil
}

// Up applies every pending migration and returns the versions it applied.
func Up(ctx context.Context, db *sql.DB, dialect goose.Dialect) ([]int64, error) {
	p, err := provider(db, dialect)
	if err != nil {
		return nil, err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	log := logger.FromContext(ctx)
	applied := make([]int64, 0, len(results))
	for _, r := range results {
		applied = append(applied, r.Source.Version)
		log.Info(LogMsgMigrationApplied, "dialect", string(dialect), "version", r.Source.Version, "duration", r.Duration)
	}
	return applied, nil
}

// Version reports the highest applied migration.
func Version(ctx context.Context, db *sql.DB, dialect goose.Dialect) (int64, error) {
	p, err := provider(db, dialect)
	if err != nil {
		return 0, err
	}
	return p.GetDBVersion(ctx)
}

// LogMsgMigrationApplied is logged once per applied migration
const LogMsgMigrationApplied = "Applied migration"
