package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/sagarc03/workspaced"
	"github.com/sagarc03/workspaced/database/sqlite"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite" // SQLite driver
)

var testTables = workspaced.Tables{Workspaces: "workspaces"}

// openTestDB opens a file-backed database in a temp dir so every test is isolated.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "workspaced.db"))
	require.NoError(t, err, "failed to open")
	db.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// setupTestRepo creates a migrated repo on a fresh database.
func setupTestRepo(t *testing.T) *sqlite.Repo {
	t.Helper()

	db := openTestDB(t)
	require.NoError(t, sqlite.Migrate(context.Background(), db, testTables), "failed to migrate")

	repo, err := sqlite.NewRepo(db, testTables)
	require.NoError(t, err, "failed to create repo")

	return repo
}
