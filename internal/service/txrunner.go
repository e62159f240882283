package service

import (
	"context"

	"querydesk.app/engine/core/db"
	"querydesk.app/engine/core/db/sqlc"
	"querydesk.app/engine/internal/store"
)

// StoreProvider hands out stores bound to one transaction. Item transitions,
// ledger appends and report counts written through it commit together.
type StoreProvider interface {
	QueryGroups() store.QueryGroupStore
	QueryItems() store.QueryItemStore
	Threads() store.ThreadStore
	Reports() store.ReportStore
}

// TxRunner runs fn atomically.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

type pgTxRunner struct {
	db    *db.DB
	retry bool
}

// NewTxRunner runs each transaction exactly once. Submissions use it: a lost
// race must surface as a conflict to the caller, never be replayed here.
func NewTxRunner(database *db.DB) TxRunner {
	return pgTxRunner{db: database}
}

// NewRetryingTxRunner reruns transactions aborted by a database conflict. Only
// idempotent work such as report aggregation may use it, since fn can run more
// than once.
func NewRetryingTxRunner(database *db.DB) TxRunner {
	return pgTxRunner{db: database, retry: true}
}

func (r pgTxRunner) WithTx(ctx context.Context, fn func(stores StoreProvider) error) error {
	run := r.db.WithTx
	if r.retry {
		run = r.db.WithTxRetry
	}
	return run(ctx, func(q *sqlc.Queries) error {
		return fn(store.NewStores(q))
	})
}
