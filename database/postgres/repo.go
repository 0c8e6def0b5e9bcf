// Package postgres implements workspaced.WorkspaceStore using PostgreSQL
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/workspaced"
)

type Repo struct {
	pool      *pgxpool.Pool
	tableName string
}

func NewRepo(pool *pgxpool.Pool, tables workspaced.Tables) (*Repo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &Repo{pool: pool, tableName: pgx.Identifier{tables.Workspaces}.Sanitize()}, nil
}

// Ping verifies database connectivity
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repo) APIKey(ctx context.Context, id int64) (string, error) {
	return r.credential(ctx, id, "api_key", "API key")
}

func (r *Repo) APISecret(ctx context.Context, id int64) (string, error) {
	return r.credential(ctx, id, "api_secret", "API secret")
}

func (r *Repo) credential(ctx context.Context, id int64, column, credential string) (string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, column, r.tableName)

	var value *string
	err := r.pool.QueryRow(ctx, query, id).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && value == nil) {
		return "", workspaced.CredentialNotFound(id, credential)
	}
	if err != nil {
		return "", workspaced.NewError(err, "Could not find %s for workspace %d", credential, id)
	}

	return *value, nil
}

func (r *Repo) GetWorkspace(ctx context.Context, id int64) (string, error) {
	query := fmt.Sprintf(`SELECT document FROM %s WHERE id = $1`, r.tableName)

	var doc *string
	err := r.pool.QueryRow(ctx, query, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && doc == nil) {
		return "", fmt.Errorf("get workspace %d: %w", id, workspaced.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get workspace %d: %w", id, err)
	}

	return *doc, nil
}

func (r *Repo) PutWorkspace(ctx context.Context, id int64, json string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, document)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE
		SET document = EXCLUDED.document, updated_at = NOW()
	`, r.tableName)

	if _, err := r.pool.Exec(ctx, query, id, json); err != nil {
		return fmt.Errorf("put workspace %d: %w", id, err)
	}

	return nil
}

// CreateWorkspace sets the credentials of a workspace that has none yet.
func (r *Repo) CreateWorkspace(ctx context.Context, id int64, apiKey, apiSecret string) error {
	query := fmt.Sprintf(`
		INSERT INTO %[1]s (id, api_key, api_secret)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET api_key = EXCLUDED.api_key, api_secret = EXCLUDED.api_secret, updated_at = NOW()
		WHERE %[1]s.api_key IS NULL
	`, r.tableName)

	tag, err := r.pool.Exec(ctx, query, id, apiKey, apiSecret)
	if err != nil {
		return fmt.Errorf("create workspace %d: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("create workspace %d: %w", id, workspaced.ErrAlreadyExists)
	}

	return nil
}

func (r *Repo) ListWorkspaces(ctx context.Context) ([]workspaced.WorkspaceSummary, error) {
	query := fmt.Sprintf(`
		SELECT id, api_key IS NOT NULL, api_secret IS NOT NULL, document IS NOT NULL, updated_at
		FROM %s
		ORDER BY id
	`, r.tableName)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer rows.Close()

	summaries := []workspaced.WorkspaceSummary{}
	for rows.Next() {
		var s workspaced.WorkspaceSummary
		if err := rows.Scan(&s.ID, &s.HasKey, &s.HasSecret, &s.HasData, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list workspaces: scan: %w", err)
		}
		s.UpdatedAt = s.UpdatedAt.UTC()
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list workspaces: rows error: %w", err)
	}

	return summaries, nil
}
