// Package database provides a unified interface for connecting to workspace
// storage databases.
//
// The package supports multiple database backends (PostgreSQL and SQLite) and handles
// connection management, migrations, and schema validation automatically.
//
// # Supported Backends
//
//   - PostgreSQL: Production-ready backend using pgx connection pool
//   - SQLite: Lightweight backend suitable for development and single-node deployments
//
// # Usage
//
//	cfg := database.Config{
//	    Type:   "sqlite",
//	    DSN:    "workspaced.db",
//	    Tables: workspaced.Tables{Workspaces: "workspaces"},
//	}
//
//	store, cleanup, err := database.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cleanup()
//
// The Connect function automatically:
//   - Opens the database connection
//   - Runs schema migrations
//   - Validates the schema
//   - Returns a ready-to-use workspaced.WorkspaceStore
//
// # Schema
//
// One table holds every workspace: id, api_key, api_secret, document,
// created_at and updated_at. Credentials and document are nullable so a
// document can exist for a workspace authenticated by static credentials.
//
// # Subpackages
//
//   - database/postgres: PostgreSQL implementation using pgx
//   - database/sqlite: SQLite implementation using modernc.org/sqlite
package database
