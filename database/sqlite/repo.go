// Package sqlite implements workspaced.WorkspaceStore using SQLite
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sagarc03/workspaced"
)

type Repo struct {
	db        *sql.DB
	tableName string
}

// NewRepo creates a repo over an open database. Tables are validated here;
// run Migrate first so the table exists.
func NewRepo(db *sql.DB, tables workspaced.Tables) (*Repo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &Repo{db: db, tableName: quoteIdentifier(tables.Workspaces)}, nil
}

// Ping verifies database connectivity
func (r *Repo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repo) APIKey(ctx context.Context, id int64) (string, error) {
	return r.credential(ctx, id, "api_key", "API key")
}

func (r *Repo) APISecret(ctx context.Context, id int64) (string, error) {
	return r.credential(ctx, id, "api_secret", "API secret")
}

func (r *Repo) credential(ctx context.Context, id int64, column, credential string) (string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, column, r.tableName) //nolint:gosec // G201: column and table name are not user input

	var value sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !value.Valid) {
		return "", workspaced.CredentialNotFound(id, credential)
	}
	if err != nil {
		return "", workspaced.NewError(err, "Could not find %s for workspace %d", credential, id)
	}

	return value.String, nil
}

func (r *Repo) GetWorkspace(ctx context.Context, id int64) (string, error) {
	query := fmt.Sprintf(`SELECT document FROM %s WHERE id = ?`, r.tableName) //nolint:gosec // G201: table name is validated

	var doc sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !doc.Valid) {
		return "", fmt.Errorf("get workspace %d: %w", id, workspaced.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get workspace %d: %w", id, err)
	}

	return doc.String, nil
}

func (r *Repo) PutWorkspace(ctx context.Context, id int64, json string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (id, document, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET document = excluded.document, updated_at = excluded.updated_at`, r.tableName)

	if _, err := r.db.ExecContext(ctx, query, id, json, now, now); err != nil {
		return fmt.Errorf("put workspace %d: %w", id, err)
	}

	return nil
}

// CreateWorkspace sets the credentials of a workspace that has none yet.
// The conditional upsert makes the check and the write a single statement.
func (r *Repo) CreateWorkspace(ctx context.Context, id int64, apiKey, apiSecret string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (id, api_key, api_secret, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET api_key = excluded.api_key, api_secret = excluded.api_secret, updated_at = excluded.updated_at
		WHERE api_key IS NULL`, r.tableName)

	res, err := r.db.ExecContext(ctx, query, id, apiKey, apiSecret, now, now)
	if err != nil {
		return fmt.Errorf("create workspace %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create workspace %d: rows affected: %w", id, err)
	}

	if affected == 0 {
		return fmt.Errorf("create workspace %d: %w", id, workspaced.ErrAlreadyExists)
	}

	return nil
}

func (r *Repo) ListWorkspaces(ctx context.Context) ([]workspaced.WorkspaceSummary, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT id, api_key IS NOT NULL, api_secret IS NOT NULL, document IS NOT NULL, updated_at
		FROM %s
		ORDER BY id`, r.tableName)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summaries := []workspaced.WorkspaceSummary{}
	for rows.Next() {
		var s workspaced.WorkspaceSummary
		var updatedAt string
		if err := rows.Scan(&s.ID, &s.HasKey, &s.HasSecret, &s.HasData, &updatedAt); err != nil {
			return nil, fmt.Errorf("list workspaces: scan: %w", err)
		}

		s.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("list workspaces: parse updated_at: %w", err)
		}

		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list workspaces: rows error: %w", err)
	}

	return summaries, nil
}
