package migrations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// ClickhouseDB is the subset of a ClickHouse connection the runner needs.
type ClickhouseDB interface {
	Exec(ctx context.Context, query string, args ...any) error
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
}

const chVersionTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version     UInt32,
    name        String,
    applied_at  DateTime64(3, 'UTC')
) ENGINE = ReplacingMergeTree()
ORDER BY version`

// RunClickhouseMigrations applies every embedded migration not yet recorded
// in schema_migrations, against the database conn is bound to.
// ClickHouse has no transactions: a file that fails halfway is re-run in
// full next time, so its statements must be idempotent.
func RunClickhouseMigrations(ctx context.Context, conn ClickhouseDB) error {
	if err := conn.Exec(ctx, chVersionTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := appliedClickhouseVersions(ctx, conn)
	if err != nil {
		return err
	}

	ms, err := load(ClickhouseFS, "clickhouse")
	if err != nil {
		return err
	}
	for _, m := range ms {
		if applied[m.Version] {
			continue
		}
		stmts, err := splitStatements(m.SQL)
		if err != nil {
			return fmt.Errorf("parse migration %s: %w", m.Name, err)
		}
		// The driver rejects multi-statement Exec.
		for _, stmt := range stmts {
			if err := conn.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("apply migration %s: %w", m.Name, err)
			}
		}
		err = conn.Exec(ctx, "INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
			uint32(m.Version), m.Name, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("record migration %s: %w", m.Name, err)
		}
	}
	return nil
}

func appliedClickhouseVersions(ctx context.Context, conn ClickhouseDB) (map[int]bool, error) {
	rows, err := conn.Query(ctx, "SELECT version FROM schema_migrations FINAL")
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v uint32
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		applied[int(v)] = true
	}
	return applied, rows.Err()
}

var errUnterminatedString = errors.New("unterminated string literal")

// splitStatements splits a script on top-level semicolons. It skips
// '--' line comments and keeps semicolons inside single-quoted literals,
// where '' and \' are escapes.
func splitStatements(script string) ([]string, error) {
	var (
		stmts   []string
		cur     strings.Builder
		inQuote bool
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			stmts = append(stmts, s)
		}
		cur.Reset()
	}

	for i := 0; i < len(script); i++ {
		ch := script[i]
		switch {
		case inQuote:
			cur.WriteByte(ch)
			switch {
			case ch == '\\' && i+1 < len(script):
				i++
				cur.WriteByte(script[i])
			case ch == '\'' && i+1 < len(script) && script[i+1] == '\'':
				i++
				cur.WriteByte(script[i])
			case ch == '\'':
				inQuote = false
			}
		case ch == '\'':
			inQuote = true
			cur.WriteByte(ch)
		case ch == '-' && i+1 < len(script) && script[i+1] == '-':
			for i < len(script) && script[i] != '\n' {
				i++
			}
			cur.WriteByte('\n')
		case ch == ';':
			flush()
		default:
			cur.WriteByte(ch)
		}
	}

	if inQuote {
		return nil, errUnterminatedString
	}
	flush()
	return stmts, nil
}
