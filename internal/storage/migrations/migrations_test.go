package migrations

import (
	"context"
	"fmt"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	chstore "trade-journal/internal/storage/clickhouse"
	"trade-journal/internal/storage/postgres"
)

func TestLoad_Embedded(t *testing.T) {
	pg, err := load(PostgresFS, "postgres")
	require.NoError(t, err)
	require.Len(t, pg, 3)
	for i, m := range pg {
		assert.Equal(t, i+1, m.Version, m.Name)
	}

	ch, err := load(ClickhouseFS, "clickhouse")
	require.NoError(t, err)
	require.NotEmpty(t, ch)
	for _, m := range ch {
		_, err := splitStatements(m.SQL)
		assert.NoError(t, err, m.Name)
	}
}

func TestLoad_OrdersByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"m/10_late.sql": {Data: []byte("SELECT 10;")},
		"m/2_early.sql": {Data: []byte("SELECT 2;")},
		"m/3_empty.sql": {Data: []byte("  \n")},
		"m/README.md":   {Data: []byte("not sql")},
		"m/1_first.sql": {Data: []byte("SELECT 1;")},
	}

	ms, err := load(fsys, "m")
	require.NoError(t, err)

	var names []string
	for _, m := range ms {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"1_first.sql", "2_early.sql", "10_late.sql"}, names)
}

func TestLoad_RejectsBadNames(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{"no separator", fstest.MapFS{"m/init.sql": {Data: []byte("SELECT 1;")}}},
		{"non numeric", fstest.MapFS{"m/abc_init.sql": {Data: []byte("SELECT 1;")}}},
		{"zero version", fstest.MapFS{"m/0_init.sql": {Data: []byte("SELECT 1;")}}},
		{"duplicate version", fstest.MapFS{
			"m/001_a.sql": {Data: []byte("SELECT 1;")},
			"m/1_b.sql":   {Data: []byte("SELECT 1;")},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(tt.fsys, "m")
			assert.Error(t, err)
		})
	}
}

func TestSplitStatements(t *testing.T) {
	input := `
-- comment; with semicolon
CREATE TABLE a (x UInt8) ENGINE = Memory;

INSERT INTO a VALUES ('semi;colon'), ('it''s'), ('back\'slash;'); -- trailing; comment
CREATE TABLE b (y String) ENGINE = Memory`

	stmts, err := splitStatements(input)
	require.NoError(t, err)

	require.Len(t, stmts, 3)
	assert.Equal(t, "CREATE TABLE a (x UInt8) ENGINE = Memory", stmts[0])
	assert.Equal(t, `INSERT INTO a VALUES ('semi;colon'), ('it''s'), ('back\'slash;')`, stmts[1])
	assert.Equal(t, "CREATE TABLE b (y String) ENGINE = Memory", stmts[2])
}

func TestSplitStatements_UnterminatedString(t *testing.T) {
	_, err := splitStatements(`SELECT 'open;`)
	assert.ErrorIs(t, err, errUnterminatedString)
}

func TestRunPostgresMigrations_Idempotent(t *testing.T) {
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
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, RunPostgresMigrations(ctx, pool))
	require.NoError(t, RunPostgresMigrations(ctx, pool), "second run must be a no-op")

	var tables int
	err = pool.QueryRow(ctx, `
		SELECT count(*) FROM information_schema.tables
		WHERE table_name IN ('trades', 'user_profiles', 'user_metrics', 'user_achievements')
	`).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 4, tables)

	var versions int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM schema_migrations`).Scan(&versions))
	assert.Equal(t, 3, versions)
}

func TestRunClickhouseMigrations_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "clickhouse/clickhouse-server:24.1-alpine",
			ExposedPorts: []string{"9000/tcp"},
			WaitingFor:   wait.ForListeningPort("9000/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)
	dsn := fmt.Sprintf("clickhouse://%s:%s/journal_migrations", host, port.Port())

	require.NoError(t, chstore.EnsureDatabase(ctx, dsn))
	conn, err := chstore.NewConn(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, RunClickhouseMigrations(ctx, conn))
	require.NoError(t, RunClickhouseMigrations(ctx, conn), "second run must be a no-op")

	var versions uint64
	require.NoError(t, conn.QueryRow(ctx, `SELECT count() FROM schema_migrations FINAL`).Scan(&versions))
	assert.EqualValues(t, 1, versions)

	var tables uint64
	require.NoError(t, conn.QueryRow(ctx,
		`SELECT count() FROM system.tables WHERE database = 'journal_migrations' AND name = 'metrics_history'`).Scan(&tables))
	assert.EqualValues(t, 1, tables)
}
