package postgres_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/workspaced"
	"github.com/sagarc03/workspaced/database/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	testPool     *pgxpool.Pool
	testPoolOnce sync.Once
)

// getSharedTestDatabase returns a shared database pool for all tests.
// Each test isolates itself with a unique table name.
func getSharedTestDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	testPoolOnce.Do(func() {
		ctx := context.Background()

		pgContainer, err := pgcontainer.Run(ctx,
			"postgres:18-alpine",
			pgcontainer.WithDatabase("testdb"),
			pgcontainer.WithUsername("testuser"),
			pgcontainer.WithPassword("testpass"),
			pgcontainer.BasicWaitStrategies(),
		)
		if err != nil {
			t.Fatalf("failed to start postgres container: %v", err)
		}

		connectionStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			_ = testcontainers.TerminateContainer(pgContainer)
			t.Fatalf("failed to get connection string: %v", err)
		}

		pool, err := pgxpool.New(ctx, connectionStr)
		if err != nil {
			_ = testcontainers.TerminateContainer(pgContainer)
			t.Fatalf("could not connect to database: %v", err)
		}

		testPool = pool
	})

	if testPool == nil {
		t.Fatal("shared postgres pool unavailable")
	}

	return testPool
}

// getRandomString generates a random string for unique test identifiers.
func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	assert.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

// dropTable drops the specified table for test cleanup.
func dropTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	quotedTable := pgx.Identifier{tableName}.Sanitize()
	_, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", quotedTable))
	return err
}

// newTestTables returns a unique table set and drops it when the test ends.
func newTestTables(t *testing.T, pool *pgxpool.Pool) workspaced.Tables {
	t.Helper()
	tables := workspaced.Tables{Workspaces: fmt.Sprintf("workspaces_%s", getRandomString(t))}
	t.Cleanup(func() {
		_ = dropTable(context.Background(), pool, tables.Workspaces)
	})
	return tables
}

// setupTestRepo creates a migrated repo with a unique table name for test isolation.
func setupTestRepo(t *testing.T) *postgres.Repo {
	t.Helper()

	pool := getSharedTestDatabase(t)
	ctx := context.Background()
	tables := newTestTables(t, pool)

	require.NoError(t, postgres.Migrate(ctx, pool, tables), "failed to migrate")

	repo, err := postgres.NewRepo(pool, tables)
	require.NoError(t, err, "failed to create repo")

	return repo
}
