package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sagarc03/workspaced"
	"github.com/sagarc03/workspaced/database/internal/schema"
)

var workspacesTable = schema.Table{
	"id":         {Type: "integer"},
	"api_key":    {Type: "text", Nullable: true},
	"api_secret": {Type: "text", Nullable: true},
	"document":   {Type: "text", Nullable: true},
	"created_at": {Type: "text"},
	"updated_at": {Type: "text"},
}

// ValidateSchema checks that the workspaces table exists with the expected columns.
func ValidateSchema(ctx context.Context, db *sql.DB, tables workspaced.Tables) error {
	if err := tables.Validate(); err != nil {
		return fmt.Errorf("validate schema: %w", err)
	}

	got, err := readColumns(ctx, db, tables.Workspaces)
	if err != nil {
		return fmt.Errorf("validate schema: %w", err)
	}
	if got == nil {
		return fmt.Errorf("validate schema: %w", schema.Missing(tables.Workspaces))
	}

	if err := schema.Compare(tables.Workspaces, workspacesTable, got); err != nil {
		return fmt.Errorf("validate schema: %w", err)
	}
	return nil
}

// readColumns returns nil when the table does not exist.
func readColumns(ctx context.Context, db *sql.DB, table string) (schema.Table, error) {
	var name string
	err := db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("check table exists: %w", err)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdentifier(table)))
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols := schema.Table{}
	for rows.Next() {
		var (
			cid, notNull, pk int
			colName, typ     string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &colName, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		cols[colName] = schema.Column{Type: typ, Nullable: notNull == 0}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	return cols, nil
}
