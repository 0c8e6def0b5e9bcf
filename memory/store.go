// Package memory provides an in-process WorkspaceStore and ImageStore.
// It backs tests and throwaway development servers; nothing is persisted.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/sagarc03/workspaced"
)

type workspace struct {
	apiKey    string
	apiSecret string
	document  *string
	images    map[string][]byte
	updatedAt time.Time
}

// Store keeps workspaces in a map guarded by a RWMutex.
type Store struct {
	mu         sync.RWMutex
	workspaces map[int64]*workspace
	now        func() time.Time
}

func NewStore() *Store {
	return &Store{
		workspaces: make(map[int64]*workspace),
		now:        time.Now,
	}
}

func (s *Store) APIKey(ctx context.Context, id int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.workspaces[id]
	if !ok || w.apiKey == "" {
		return "", workspaced.CredentialNotFound(id, "API key")
	}
	return w.apiKey, nil
}

func (s *Store) APISecret(ctx context.Context, id int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.workspaces[id]
	if !ok || w.apiSecret == "" {
		return "", workspaced.CredentialNotFound(id, "API secret")
	}
	return w.apiSecret, nil
}

func (s *Store) GetWorkspace(ctx context.Context, id int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.workspaces[id]
	if !ok || w.document == nil {
		return "", fmt.Errorf("get workspace %d: %w", id, workspaced.ErrNotFound)
	}
	return *w.document, nil
}

func (s *Store) PutWorkspace(ctx context.Context, id int64, json string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.getOrCreate(id)
	w.document = &json
	w.updatedAt = s.now()
	return nil
}

func (s *Store) CreateWorkspace(ctx context.Context, id int64, apiKey, apiSecret string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if w, ok := s.workspaces[id]; ok && w.apiKey != "" {
		return fmt.Errorf("create workspace %d: %w", id, workspaced.ErrAlreadyExists)
	}

	w := s.getOrCreate(id)
	w.apiKey = apiKey
	w.apiSecret = apiSecret
	return nil
}

func (s *Store) ListWorkspaces(ctx context.Context) ([]workspaced.WorkspaceSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]workspaced.WorkspaceSummary, 0, len(s.workspaces))
	for id, w := range s.workspaces {
		summaries = append(summaries, workspaced.WorkspaceSummary{
			ID:        id,
			HasKey:    w.apiKey != "",
			HasSecret: w.apiSecret != "",
			HasData:   w.document != nil,
			UpdatedAt: w.updatedAt,
		})
	}

	slices.SortFunc(summaries, func(a, b workspaced.WorkspaceSummary) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})

	return summaries, nil
}

// PutImage stores an image resource, replacing any previous content.
func (s *Store) PutImage(id int64, name string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.getOrCreate(id)
	w.images[name] = bytes.Clone(content)
}

type readSeekNopCloser struct {
	*bytes.Reader
}

func (readSeekNopCloser) Close() error { return nil }

func (s *Store) GetImage(ctx context.Context, id int64, name string) (io.ReadSeekCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.workspaces[id]
	if !ok {
		return nil, workspaced.ErrNotFound
	}
	data, ok := w.images[name]
	if !ok {
		return nil, workspaced.ErrNotFound
	}
	return readSeekNopCloser{bytes.NewReader(data)}, nil
}

// getOrCreate must be called with mu held for writing.
func (s *Store) getOrCreate(id int64) *workspace {
	w, ok := s.workspaces[id]
	if !ok {
		w = &workspace{images: make(map[string][]byte)}
		s.workspaces[id] = w
	}
	return w
}
