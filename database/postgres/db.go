package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/workspaced"
	"github.com/sagarc03/workspaced/database/internal/schema"
)

var workspacesTable = schema.Table{
	"id":         {Type: "bigint"},
	"api_key":    {Type: "text", Nullable: true},
	"api_secret": {Type: "text", Nullable: true},
	"document":   {Type: "text", Nullable: true},
	"created_at": {Type: "timestamp with time zone"},
	"updated_at": {Type: "timestamp with time zone"},
}

// ValidateSchema checks that the workspaces table exists in the public schema
// with the expected columns.
func ValidateSchema(ctx context.Context, pool *pgxpool.Pool, tables workspaced.Tables) error {
	if err := tables.Validate(); err != nil {
		return fmt.Errorf("validate schema: %w", err)
	}

	rows, err := pool.Query(ctx, `
		SELECT column_name, data_type, is_nullable = 'YES'
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1`, tables.Workspaces)
	if err != nil {
		return fmt.Errorf("validate schema: query columns: %w", err)
	}
	defer rows.Close()

	got := schema.Table{}
	for rows.Next() {
		var name string
		var col schema.Column
		if err := rows.Scan(&name, &col.Type, &col.Nullable); err != nil {
			return fmt.Errorf("validate schema: scan column: %w", err)
		}
		got[name] = col
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("validate schema: read columns: %w", err)
	}

	// information_schema lists no columns for a table that does not exist.
	if len(got) == 0 {
		return fmt.Errorf("validate schema: %w", schema.Missing(tables.Workspaces))
	}

	if err := schema.Compare(tables.Workspaces, workspacesTable, got); err != nil {
		return fmt.Errorf("validate schema: %w", err)
	}
	return nil
}
