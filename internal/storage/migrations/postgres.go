package migrations

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresDB is the subset of a pgx pool the runner needs.
type PostgresDB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// pgLockKey serializes runners started by several instances at once.
const pgLockKey int64 = 0x6a6f75726e616c

const pgVersionTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version     INTEGER PRIMARY KEY,
    name        TEXT NOT NULL,
    applied_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// RunPostgresMigrations applies every embedded migration not yet recorded
// in schema_migrations. Each file runs in its own transaction together with
// its version row, so a failed file leaves no trace and is retried on the
// next start.
func RunPostgresMigrations(ctx context.Context, db PostgresDB) error {
	if _, err := db.Exec(ctx, pgVersionTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	ms, err := load(PostgresFS, "postgres")
	if err != nil {
		return err
	}
	for _, m := range ms {
		if err := applyPostgres(ctx, db, m); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.Name, err)
		}
	}
	return nil
}

func applyPostgres(ctx context.Context, db PostgresDB, m migration) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", pgLockKey); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}

	var applied bool
	err = tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)", m.Version).Scan(&applied)
	if err != nil {
		return fmt.Errorf("check version: %w", err)
	}
	if applied {
		return nil
	}

	// No arguments: pgx uses the simple protocol, which accepts several statements.
	if _, err := tx.Exec(ctx, m.SQL); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", m.Version, m.Name); err != nil {
		return fmt.Errorf("record version: %w", err)
	}
	return tx.Commit(ctx)
}
