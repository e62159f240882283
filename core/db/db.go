package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"querydesk.app/engine/core/db/sqlc"
)

const (
	serializationFailure = "40001"
	deadlockDetected     = "40P01"

	defaultTxAttempts = 3
)

type DB struct {
	pool       *pgxpool.Pool
	txAttempts int
}

type Config struct {
	DSN      string
	MaxConns int32
	MinConns int32

	// AppName shows up in pg_stat_activity so server, worker and CLI sessions
	// can be told apart.
	AppName string

	// StatementTimeout is enforced by postgres per statement. Zero leaves the
	// server default in place.
	StatementTimeout time.Duration

	// TxAttempts bounds how often WithTxRetry reruns a transaction that
	// postgres aborted with a serialization failure or deadlock.
	TxAttempts int
}

func New(ctx context.Context, cfg Config) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	poolCfg.MaxConns = 10
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MinConns = 2
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}

	if cfg.AppName != "" {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	if cfg.StatementTimeout > 0 {
		poolCfg.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{pool: pool, txAttempts: cfg.TxAttempts}, nil
}

// FromPool wraps a pool owned by the caller. Store integration tests use it.
func FromPool(pool *pgxpool.Pool) *DB {
	return &DB{pool: pool}
}

func (db *DB) Close() {
	db.pool.Close()
}

func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Queries returns queries bound to the pool, outside any transaction.
func (db *DB) Queries() *sqlc.Queries {
	return sqlc.New(db.pool)
}

// WithTx runs fn inside a single read-committed transaction. Any error from
// fn rolls it back.
func (db *DB) WithTx(ctx context.Context, fn func(q *sqlc.Queries) error) error {
	return db.runTx(ctx, fn)
}

// WithTxRetry is WithTx for idempotent work: when postgres aborts the
// transaction with a serialization failure or deadlock, fn runs again on a
// fresh transaction, up to the configured number of attempts.
func (db *DB) WithTxRetry(ctx context.Context, fn func(q *sqlc.Queries) error) error {
	attempts := db.txAttempts
	if attempts <= 0 {
		attempts = defaultTxAttempts
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = db.runTx(ctx, fn)
		if err == nil || !IsRetryable(err) || ctx.Err() != nil {
			return err
		}
		slog.WarnContext(ctx, "transaction aborted by conflict, retrying",
			"attempt", attempt,
			"error", err)
	}
	return err
}

func (db *DB) runTx(ctx context.Context, fn func(q *sqlc.Queries) error) error {
	tx, err := db.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(sqlc.New(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// IsRetryable reports whether postgres rejected the work with a conflict that
// a fresh transaction may not hit.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == serializationFailure || pgErr.Code == deadlockDetected
}
