package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies every pending migration embedded in the binary.
// It returns the schema version after the run.
func (db *DB) Migrate(ctx context.Context) (int64, error) {
	provider, closeFn, err := db.migrationProvider()
	if err != nil {
		return 0, err
	}
	defer closeFn()

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("applying migrations: %w", err)
	}

	for _, r := range results {
		slog.InfoContext(ctx, "migration applied",
			"version", r.Source.Version,
			"path", r.Source.Path,
			"duration_ms", r.Duration.Milliseconds())
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// SchemaVersion returns the currently applied migration version.
func (db *DB) SchemaVersion(ctx context.Context) (int64, error) {
	provider, closeFn, err := db.migrationProvider()
	if err != nil {
		return 0, err
	}
	defer closeFn()

	return provider.GetDBVersion(ctx)
}

func (db *DB) migrationProvider() (*goose.Provider, func(), error) {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, nil, fmt.Errorf("opening embedded migrations: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(db.pool)
	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, sub)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("creating migration provider: %w", err)
	}

	return provider, func() { _ = sqlDB.Close() }, nil
}
