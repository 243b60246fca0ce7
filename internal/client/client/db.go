package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"binderkeeper/internal/client/migrations"
	"binderkeeper/internal/client/repositories/metadata"
	"binderkeeper/internal/client/repositories/snapshots"
	"binderkeeper/internal/logging"
)

// Repositories bundles the local-store repositories the client services use.
type Repositories struct {
	Snapshots snapshots.Repository
	Metadata  metadata.Repository
	DB        *sql.DB
}

// RunMigrations applies the embedded goose migrations to the local database.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the local SQLite database at dsn, migrates it, and
// returns the repositories bound to it.
func InitDatabase(ctx context.Context, dsn string, log logging.Logger) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open local db: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to migrate local db: %w", err)
	}

	return &Repositories{
		Snapshots: snapshots.NewSQLiteRepository(db, log),
		Metadata:  metadata.NewSQLiteRepository(db),
		DB:        db,
	}, nil
}
