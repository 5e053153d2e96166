package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/osse101/Monsters_Go/internal/database"
	"github.com/osse101/Monsters_Go/internal/database/migrate"
	"github.com/osse101/Monsters_Go/internal/domain"
	"github.com/osse101/Monsters_Go/internal/registry"
	"github.com/osse101/Monsters_Go/internal/repository"
)

type monsterStore struct {
	db *pgxpool.Pool
}

// NewMonsterStore creates a PostgreSQL-backed registry store
func NewMonsterStore(db *pgxpool.Pool) repository.MonsterStore {
	return &monsterStore{db: db}
}

// Migrate applies the embedded schema migrations through the pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool) ([]int64, error) {
	return migrate.Up(ctx, stdlib.OpenDBFromPool(pool), goose.DialectPostgres)
}

func (s *monsterStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *monsterStore) Close() error {
	s.db.Close()
	return nil
}

// Deploy records the administrator
func (s *monsterStore) Deploy(ctx context.Context, admin domain.Address) error {
	if admin.IsZero() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, domain.ErrMsgZeroAddress)
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO registry (id, administrator) VALUES (1, $1)
		ON CONFLICT (id) DO NOTHING
	`, repository.AddressBytes(admin))
	if err != nil {
		return fmt.Errorf("failed to record administrator: %w", err)
	}

	var stored []byte
	if err := s.db.QueryRow(ctx, `SELECT administrator FROM registry WHERE id = 1`).Scan(&stored); err != nil {
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
func (s *monsterStore) Load(ctx context.Context) (registry.State, error) {
	var (
		adminBytes []byte
		custody    string
	)
	err := s.db.QueryRow(ctx, `SELECT administrator, custody_wei::text FROM registry WHERE id = 1`).Scan(&adminBytes, &custody)
	if errors.Is(err, pgx.ErrNoRows) {
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

	rows, err := s.db.Query(ctx, `
		SELECT token_id, owner, name, slayer, slain_with
		FROM monsters
		ORDER BY token_id
	`)
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
			slainWith *int
		)
		if err := rows.Scan(&id, &owner, &name, &slayer, &slainWith); err != nil {
			return registry.State{}, fmt.Errorf("failed to scan monster: %w", err)
		}
		m, err := repository.ScanMonster(id, owner, name, slayer, slainWith)
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
func (s *monsterStore) Record(ctx context.Context, c registry.Change) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", database.ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	if err := recordChange(ctx, tx, c); err != nil {
		return err
	}
	if err := insertLedger(ctx, tx, repository.NewLedgerRow(c)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", database.ErrMsgFailedToCommit, err)
	}
	return nil
}

func recordChange(ctx context.Context, tx pgx.Tx, c registry.Change) error {
	m := c.Monster
	switch c.Kind {
	case registry.KindMint:
		_, err := tx.Exec(ctx, `
			INSERT INTO monsters (token_id, owner, name, mint_method)
			VALUES ($1, $2, $3, $4)
		`, int(m.ID), repository.AddressBytes(m.Owner), m.Name, string(c.Method))
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s: %d", domain.ErrAlreadyExists, domain.ErrMsgAlreadyMinted, m.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to insert monster %d: %w", m.ID, err)
		}
		return adjustCustody(ctx, tx, `custody_wei + $1::numeric`, c)

	case registry.KindRename:
		return updateMonster(ctx, tx, m.ID, `UPDATE monsters SET name = $2, updated_at = NOW() WHERE token_id = $1`, int(m.ID), m.Name)

	case registry.KindSlay:
		slayer, lootID := repository.SlainColumns(m)
		return updateMonster(ctx, tx, m.ID, `
			UPDATE monsters
			SET name = $2, slayer = $3, slain_with = $4, slain_at = NOW(), updated_at = NOW()
			WHERE token_id = $1 AND slayer IS NULL
		`, int(m.ID), m.Name, slayer, lootID)

	case registry.KindTransfer:
		return updateMonster(ctx, tx, m.ID, `UPDATE monsters SET owner = $2, updated_at = NOW() WHERE token_id = $1`, int(m.ID), repository.AddressBytes(m.Owner))

	case registry.KindWithdraw:
		return adjustCustody(ctx, tx, `custody_wei - $1::numeric`, c)
	}
	return fmt.Errorf("%w: unknown change kind %q", domain.ErrInvalidInput, c.Kind)
}

func updateMonster(ctx context.Context, tx pgx.Tx, id domain.TokenID, query string, args ...any) error {
	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update monster %d: %w", id, err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("%w: stored monster %d does not accept this change", domain.ErrInvalidState, id)
	}
	return nil
}

func adjustCustody(ctx context.Context, tx pgx.Tx, expr string, c registry.Change) error {
	amount := "0"
	if c.Amount != nil {
		amount = c.Amount.String()
	}
	tag, err := tx.Exec(ctx, `UPDATE registry SET custody_wei = `+expr+` WHERE id = 1`, amount)
	if err != nil {
		return fmt.Errorf("failed to update custody: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return domain.ErrNotDeployed
	}
	return nil
}

func insertLedger(ctx context.Context, tx pgx.Tx, row repository.LedgerRow) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO ledger (kind, caller, token_id, counterparty, loot_id, amount_wei)
		VALUES ($1, $2, $3, $4, $5, $6::numeric)
	`, row.Kind, row.Caller, row.TokenID, row.Counterparty, row.LootID, row.AmountWei)
	if err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == PgErrorCodeUniqueViolation
}
