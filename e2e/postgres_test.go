package e2e_test

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	testDSNOnce sync.Once
	testDSN     string
	testDSNErr  error
	testCleanup func()
)

// getSharedPostgresDatabase starts one PostgreSQL container for the whole run
// and returns its DSN. TestMain terminates the container.
func getSharedPostgresDatabase(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	testDSNOnce.Do(func() {
		ctx := context.Background()

		pgContainer, err := pgcontainer.Run(ctx,
			"postgres:18-alpine",
			pgcontainer.WithDatabase("testdb"),
			pgcontainer.WithUsername("testuser"),
			pgcontainer.WithPassword("testpass"),
			pgcontainer.BasicWaitStrategies(),
		)
		if err != nil {
			testDSNErr = err
			return
		}

		testCleanup = func() {
			_ = testcontainers.TerminateContainer(pgContainer)
		}

		connectionStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			testDSNErr = err
			return
		}

		// The server connects on its own; this only proves the database accepts connections.
		pool, err := pgxpool.New(ctx, connectionStr)
		if err != nil {
			testDSNErr = err
			return
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			testDSNErr = err
			return
		}

		testDSN = connectionStr
	})

	if testDSNErr != nil {
		t.Fatalf("failed to start postgres container: %v", testDSNErr)
	}

	return testDSN
}
