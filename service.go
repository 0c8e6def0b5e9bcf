package workspaced

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// WorkspaceService implements workspace operations over a WorkspaceStore and
// an optional ImageStore. Authentication happens before these calls; the
// service only validates input and translates store errors.
type WorkspaceService struct {
	store  WorkspaceStore
	images ImageStore
}

// NewWorkspaceService creates a service. images may be nil, in which case
// every image lookup reports ErrNotFound.
func NewWorkspaceService(store WorkspaceStore, images ImageStore) (*WorkspaceService, error) {
	if store == nil {
		return nil, fmt.Errorf("new workspace service: %w: store cannot be nil", ErrInvalidInput)
	}
	return &WorkspaceService{store: store, images: images}, nil
}

// Credentials exposes the underlying store for authentication.
func (s *WorkspaceService) Credentials() CredentialStore {
	return s.store
}

// GetWorkspace returns the workspace document, or EmptyWorkspace when none has
// been stored yet.
func (s *WorkspaceService) GetWorkspace(ctx context.Context, id int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("get workspace: %w", err)
	}

	doc, err := s.store.GetWorkspace(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return EmptyWorkspace, nil
	}
	if err != nil {
		return "", fmt.Errorf("get workspace %d: %w", id, NewError(err, "Could not get workspace %d", id))
	}

	return doc, nil
}

// PutWorkspace replaces the workspace document with json, stored verbatim.
func (s *WorkspaceService) PutWorkspace(ctx context.Context, id int64, json string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("put workspace: %w", err)
	}

	if err := s.store.PutWorkspace(ctx, id, json); err != nil {
		return fmt.Errorf("put workspace %d: %w", id, NewError(err, "Could not put workspace %d", id))
	}

	return nil
}

// CreateWorkspace provisions a workspace with the given API key and secret.
// Both must be 36 character UUIDs.
//
// Error types returned:
//   - ErrInvalidInput: key or secret is not a UUID
//   - ErrAlreadyExists: the workspace already has credentials
func (s *WorkspaceService) CreateWorkspace(ctx context.Context, id int64, apiKey, apiSecret string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}

	if !IsUUID(apiKey) {
		return NewError(ErrInvalidInput, "A 36 character API key (UUID) must be specified using the parameter name 'key'")
	}

	if !IsUUID(apiSecret) {
		return NewError(ErrInvalidInput, "A 36 character API secret (UUID) must be specified using the parameter name 'secret'")
	}

	err := s.store.CreateWorkspace(ctx, id, apiKey, apiSecret)
	if errors.Is(err, ErrAlreadyExists) {
		return NewError(err, "Workspace %d already exists", id)
	}
	if err != nil {
		return fmt.Errorf("create workspace %d: %w", id, err)
	}

	return nil
}

func (s *WorkspaceService) ListWorkspaces(ctx context.Context) ([]WorkspaceSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}

	summaries, err := s.store.ListWorkspaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}

	return summaries, nil
}

// GetImage opens an image resource of a workspace. Names that are not images
// or not a single safe path segment are reported as ErrNotFound.
func (s *WorkspaceService) GetImage(ctx context.Context, id int64, name string) (io.ReadSeekCloser, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", fmt.Errorf("get image: %w", err)
	}

	contentType, ok := ImageContentType(name)
	if !ok || !IsValidResourceName(name) {
		return nil, "", fmt.Errorf("get image %q: %w", name, ErrNotFound)
	}

	if s.images == nil {
		return nil, "", fmt.Errorf("get image %q: %w", name, ErrNotFound)
	}

	rc, err := s.images.GetImage(ctx, id, name)
	if err != nil {
		return nil, "", fmt.Errorf("get image %q: %w", name, err)
	}

	return rc, contentType, nil
}
