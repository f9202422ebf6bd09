package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"trade-journal/internal/storage/migrations"
)

// setupTestDB starts PostgreSQL, connects and applies the embedded
// migrations. Everything is torn down when the test ends.
func setupTestDB(t *testing.T) *Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("journal"),
		tcpostgres.WithUsername("journal"),
		tcpostgres.WithPassword("journal"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migrations.RunPostgresMigrations(ctx, pool))
	return pool
}

func ptr[T any](v T) *T {
	return &v
}

func TestIsConstraintViolation(t *testing.T) {
	assert.True(t, isConstraintViolation(&pgconn.PgError{Code: pgErrCheckViolation}))
	assert.True(t, isConstraintViolation(&pgconn.PgError{Code: pgErrNotNullViolation}))
	assert.False(t, isConstraintViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isConstraintViolation(context.Canceled))
}

func TestNewPool_SetsApplicationName(t *testing.T) {
	pool := setupTestDB(t)

	var name string
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT current_setting('application_name')`).Scan(&name))
	assert.Equal(t, applicationName, name)
}
