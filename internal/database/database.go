package database

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/Monsters_Go/internal/logger"
)

// PoolConfig bounds the PostgreSQL connection pool
type PoolConfig struct {
	MaxConns         int
	MaxConnIdleTime  time.Duration
	MaxConnLifetime  time.Duration
	ApplicationName  string
	StatementTimeout time.Duration
}

// DefaultPoolConfig sizes the pool for one writer and a handful of concurrent readers.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxConns:         DefaultMaxConnections,
		MaxConnIdleTime:  DefaultMaxConnIdleTime,
		MaxConnLifetime:  DefaultMaxConnLifetime,
		ApplicationName:  DefaultApplicationName,
		StatementTimeout: DefaultStatementTimeout,
	}
}

func clampConns(n int) int32 {
	switch {
	case n < DefaultMinConnections:
		return DefaultMinConnections
	case n > math.MaxInt32:
		return math.MaxInt32
	default:
		return int32(n)
	}
}

// apply copies the limits onto a parsed pgx config. Session parameters go in
// RuntimeParams so every pooled connection starts with them.
func (c PoolConfig) apply(pc *pgxpool.Config) {
	pc.MaxConns = clampConns(c.MaxConns)
	pc.MinConns = DefaultMinConnections
	pc.MaxConnLifetime = c.MaxConnLifetime
	pc.MaxConnIdleTime = c.MaxConnIdleTime

	params := pc.ConnConfig.RuntimeParams
	if c.ApplicationName != "" {
		params["application_name"] = c.ApplicationName
	}
	if c.StatementTimeout > 0 {
		params["statement_timeout"] = strconv.FormatInt(c.StatementTimeout.Milliseconds(), 10)
	}
}

// NewPool connects to PostgreSQL and verifies the server answers before returning.
func NewPool(ctx context.Context, connString string, cfg PoolConfig) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToParseConnString, err)
	}
	cfg.apply(pc)

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreatePool, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToPingDatabase, err)
	}

	logger.FromContext(ctx).Info(LogMsgConnected,
		"host", pc.ConnConfig.Host,
		"database", pc.ConnConfig.Database,
		"max_conns", pc.MaxConns)
	return pool, nil
}
