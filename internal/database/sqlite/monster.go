// Package sqlite stores the registry in a single SQLite file for small deployments.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/osse101/Monsters_Go/internal/database"
	"github.com/osse101/Monsters_Go/internal/database/migrate"
	"github.com/osse101/Monsters_Go/internal/domain"
	"github.com/osse101/Monsters_Go/internal/logger"
	"github.com/osse101/Monsters_Go/internal/registry"
	"github.com/osse101/Monsters_Go/internal/repository"
)

const pragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_txlock=immediate"

// MonsterStore persists the registry in SQLite
type MonsterStore struct {
	db *sql.DB
}

var _ repository.MonsterStore = (*MonsterStore)(nil)

// Open opens (creating if needed) the database file and applies embedded migrations.
func Open(ctx context.Context, path string) (*MonsterStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: sqlite path is required", domain.ErrInvalidInput)
	}
	clean := filepath.Clean(path)
	if dir := filepath.Dir(clean); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", clean+pragmas)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := migrate.Up(ctx, db, goose.DialectSQLite3); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.FromContext(ctx).Info(database.LogMsgConnected, "path", clean)
	return &MonsterStore{db: db}, nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func (s *MonsterStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *MonsterStore) Close() error {
	return s.db.Close()
}

// Deploy records the administrator
func (s *MonsterStore) Deploy(ctx context.Context, admin domain.Address) error {
	if admin.IsZero() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, domain.ErrMsgZeroAddress)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO registry (id, administrator, custody_wei, deployed_at) VALUES (1, ?, '0', ?)`,
		repository.AddressBytes(admin), toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("failed to record administrator: %w", err)
	}

	var stored []byte
	if err := s.db.QueryRowContext(ctx, `SELECT administrator FROM registry WHERE id = 1`).Scan(&stored); err != nil {
		return fmt.Errorf("failed to read administrator: %w", err)
	}
	got, err := repository.BytesAddress(stored)
	if err != nil {
		return err
	}
	if got != admin {
		return fmt.Errorf("%w: registry already deployed by %s", domain.ErrAlreadyExists, got)
	}
	return nil
}

// Load reads the registry row and every minted monster
func (s *MonsterStore) Load(ctx context.Context) (registry.State, error) {
	var (
		adminBytes []byte
		custody    string
	)
	err := s.db.QueryRowContext(ctx, `SELECT administrator, custody_wei FROM registry WHERE id = 1`).Scan(&adminBytes, &custody)
	if errors.Is(err, sql.ErrNoRows) {
		return registry.State{}, domain.ErrNotDeployed
	}
	if err != nil {
		return registry.State{}, fmt.Errorf("failed to load registry: %w", err)
	}

	state := registry.State{}
	if state.Administrator, err = repository.BytesAddress(adminBytes); err != nil {
		return registry.State{}, err
	}
	if state.Custody, err = repository.ParseWei(custody); err != nil {
		return registry.State{}, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT token_id, owner, name, slayer, slain_with FROM monsters ORDER BY token_id`)
	if err != nil {
		return registry.State{}, fmt.Errorf("failed to load monsters: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id        int
			owner     []byte
			name      string
			slayer    []byte
			slainWith sql.NullInt64
		)
		if err := rows.Scan(&id, &owner, &name, &slayer, &slainWith); err != nil {
			return registry.State{}, fmt.Errorf("failed to scan monster: %w", err)
		}
		var lootID *int
		if slainWith.Valid {
			v := int(slainWith.Int64)
			lootID = &v
		}
		m, err := repository.ScanMonster(id, owner, name, slayer, lootID)
		if err != nil {
			return registry.State{}, err
		}
		state.Monsters = append(state.Monsters, m)
	}
	if err := rows.Err(); err != nil {
		return registry.State{}, fmt.Errorf("failed to load monsters: %w", err)
	}
	return state, nil
}

// Record applies a change and its ledger row in one transaction
func (s *MonsterStore) Record(ctx context.Context, c registry.Change) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", database.ErrMsgFailedToBeginTransaction, err)
	}
	defer safeRollback(ctx, tx)

	now := toMillis(time.Now())
	if err := recordChange(ctx, tx, c, now); err != nil {
		return err
	}
	if err := insertLedger(ctx, tx, repository.NewLedgerRow(c), now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", database.ErrMsgFailedToCommit, err)
	}
	return nil
}

func recordChange(ctx context.Context, tx *sql.Tx, c registry.Change, now int64) error {
	m := c.Monster
	switch c.Kind {
	case registry.KindMint:
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM monsters WHERE token_id = ?`, int(m.ID)).Scan(&exists)
		if err == nil {
			return fmt.Errorf("%w: %s: %d", domain.ErrAlreadyExists, domain.ErrMsgAlreadyMinted, m.ID)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check monster %d: %w", m.ID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO monsters (token_id, owner, name, mint_method, minted_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			int(m.ID), repository.AddressBytes(m.Owner), m.Name, string(c.Method), now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert monster %d: %w", m.ID, err)
		}
		return adjustCustody(ctx, tx, c.Amount, 1)

	case registry.KindRename:
		return updateMonster(ctx, tx, m.ID,
			`UPDATE monsters SET name = ?, updated_at = ? WHERE token_id = ?`,
			m.Name, now, int(m.ID))

	case registry.KindSlay:
		slayer, lootID := repository.SlainColumns(m)
		return updateMonster(ctx, tx, m.ID,
			`UPDATE monsters SET name = ?, slayer = ?, slain_with = ?, slain_at = ?, updated_at = ? WHERE token_id = ? AND slayer IS NULL`,
			m.Name, nullBytes(slayer), lootID, now, now, int(m.ID))

	case registry.KindTransfer:
		return updateMonster(ctx, tx, m.ID,
			`UPDATE monsters SET owner = ?, updated_at = ? WHERE token_id = ?`,
			repository.AddressBytes(m.Owner), now, int(m.ID))

	case registry.KindWithdraw:
		return adjustCustody(ctx, tx, c.Amount, -1)
	}
	return fmt.Errorf("%w: unknown change kind %q", domain.ErrInvalidInput, c.Kind)
}

func updateMonster(ctx context.Context, tx *sql.Tx, id domain.TokenID, query string, args ...any) error {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update monster %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update monster %d: %w", id, err)
	}
	if n != 1 {
		return fmt.Errorf("%w: stored monster %d does not accept this change", domain.ErrInvalidState, id)
	}
	return nil
}

// adjustCustody adds sign*amount to the custody balance. SQLite has no exact
// 256-bit arithmetic so the sum is computed here, inside the write transaction.
func adjustCustody(ctx context.Context, tx *sql.Tx, amount *big.Int, sign int) error {
	var stored string
	err := tx.QueryRowContext(ctx, `SELECT custody_wei FROM registry WHERE id = 1`).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotDeployed
	}
	if err != nil {
		return fmt.Errorf("failed to read custody: %w", err)
	}
	custody, err := repository.ParseWei(stored)
	if err != nil {
		return err
	}
	if amount != nil {
		delta := new(big.Int).Set(amount)
		if sign < 0 {
			delta.Neg(delta)
		}
		custody.Add(custody, delta)
	}
	if custody.Sign() < 0 {
		return fmt.Errorf("%w: custody would go negative", domain.ErrInvalidState)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE registry SET custody_wei = ? WHERE id = 1`, custody.String()); err != nil {
		return fmt.Errorf("failed to update custody: %w", err)
	}
	return nil
}

func insertLedger(ctx context.Context, tx *sql.Tx, row repository.LedgerRow, now int64) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO ledger (kind, caller, token_id, counterparty, loot_id, amount_wei, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		row.Kind, row.Caller, row.TokenID, nullBytes(row.Counterparty), row.LootID, row.AmountWei, now,
	)
	if err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	return nil
}

// nullBytes binds a nil slice as NULL rather than an empty blob
func nullBytes(b []byte) any {
	if b == nil {
		return nil
	}
	return b
}

func safeRollback(ctx context.Context, tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logger.FromContext(ctx).Error(database.LogMsgFailedToRollbackTransaction, "error", err)
	}
}
