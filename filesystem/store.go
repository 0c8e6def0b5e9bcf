// Package filesystem provides a file system storage backend for workspaced.
// Each workspace is a directory named after its id holding workspace.json,
// key.txt, secret.txt and any image resources. Writes are atomic using temp
// files and rename.
package filesystem

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sagarc03/workspaced"
)

const (
	WorkspaceFile = "workspace.json"
	KeyFile       = "key.txt"
	SecretFile    = "secret.txt"
)

// Store provides workspace storage on a local directory tree.
type Store struct {
	root *os.Root
	// createMu serialises CreateWorkspace so two callers cannot both provision an id.
	createMu sync.Mutex
}

// NewStore creates a new Store with the given root directory.
// The root provides sandboxed file operations preventing path traversal.
func NewStore(root *os.Root) *Store {
	return &Store{root: root}
}

func workspaceDir(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (s *Store) APIKey(ctx context.Context, id int64) (string, error) {
	return s.readCredential(ctx, id, KeyFile, "API key")
}

func (s *Store) APISecret(ctx context.Context, id int64) (string, error) {
	return s.readCredential(ctx, id, SecretFile, "API secret")
}

func (s *Store) readCredential(ctx context.Context, id int64, file, credential string) (string, error) {
	data, err := s.readFile(ctx, path.Join(workspaceDir(id), file))
	if errors.Is(err, workspaced.ErrNotFound) {
		return "", workspaced.CredentialNotFound(id, credential)
	}
	if err != nil {
		return "", workspaced.NewError(err, "Could not find %s for workspace %d", credential, id)
	}
	return strings.TrimSpace(string(data)), nil
}

// GetWorkspace returns workspace.json. Returns workspaced.ErrNotFound if it does not exist.
func (s *Store) GetWorkspace(ctx context.Context, id int64) (string, error) {
	data, err := s.readFile(ctx, path.Join(workspaceDir(id), WorkspaceFile))
	if err != nil {
		return "", fmt.Errorf("get workspace %d: %w", id, err)
	}
	return string(data), nil
}

// PutWorkspace atomically replaces workspace.json, creating the workspace directory as needed.
func (s *Store) PutWorkspace(ctx context.Context, id int64, json string) error {
	if err := s.write(ctx, path.Join(workspaceDir(id), WorkspaceFile), strings.NewReader(json)); err != nil {
		return fmt.Errorf("put workspace %d: %w", id, err)
	}
	return nil
}

// CreateWorkspace writes key.txt and secret.txt. Returns workspaced.ErrAlreadyExists
// if the workspace already has an API key.
func (s *Store) CreateWorkspace(ctx context.Context, id int64, apiKey, apiSecret string) error {
	s.createMu.Lock()
	defer s.createMu.Unlock()

	keyPath := path.Join(workspaceDir(id), KeyFile)
	if _, err := s.root.Stat(keyPath); err == nil {
		return fmt.Errorf("create workspace %d: %w", id, workspaced.ErrAlreadyExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("create workspace %d: %w", id, err)
	}

	if err := s.write(ctx, path.Join(workspaceDir(id), SecretFile), strings.NewReader(apiSecret)); err != nil {
		return fmt.Errorf("create workspace %d: %w", id, err)
	}

	// key.txt goes last: its presence marks the workspace as provisioned.
	if err := s.write(ctx, keyPath, strings.NewReader(apiKey)); err != nil {
		return fmt.Errorf("create workspace %d: %w", id, err)
	}

	return nil
}

// ListWorkspaces returns one summary per numeric directory under the root.
func (s *Store) ListWorkspaces(ctx context.Context) ([]workspaced.WorkspaceSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(s.root.FS(), ".")
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}

	summaries := make([]workspaced.WorkspaceSummary, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !entry.IsDir() {
			continue
		}

		id, err := workspaced.ParseWorkspaceID(entry.Name())
		if err != nil {
			continue
		}

		summary := workspaced.WorkspaceSummary{ID: id}
		summary.HasKey = s.exists(path.Join(entry.Name(), KeyFile))
		summary.HasSecret = s.exists(path.Join(entry.Name(), SecretFile))
		if info, statErr := s.root.Stat(path.Join(entry.Name(), WorkspaceFile)); statErr == nil {
			summary.HasData = true
			summary.UpdatedAt = info.ModTime().UTC()
		}

		summaries = append(summaries, summary)
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

// GetImage opens an image stored in the workspace directory.
// Returns workspaced.ErrNotFound if the file does not exist.
func (s *Store) GetImage(ctx context.Context, id int64, name string) (io.ReadSeekCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !workspaced.IsValidResourceName(name) {
		return nil, fmt.Errorf("get image %q: %w", name, workspaced.ErrInvalidInput)
	}

	f, err := s.root.Open(path.Join(workspaceDir(id), name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, workspaced.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	return f, nil
}

func (s *Store) exists(name string) bool {
	_, err := s.root.Stat(name)
	return err == nil
}

func (s *Store) readFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.root.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, workspaced.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close file", "path", name, "err", closeErr)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, &ctxReader{ctx: ctx, r: f}); err != nil {
		return nil, fmt.Errorf("could not read file: %w", err)
	}

	return buf.Bytes(), nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (n int, err error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// write atomically writes content to name using a temp file and rename.
// It creates the parent directory as needed and respects context cancellation.
func (s *Store) write(ctx context.Context, name string, content io.Reader) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	tmpFile := tmpFileName()
	t, createErr := s.root.Create(tmpFile)
	if createErr != nil {
		return fmt.Errorf("could not open temp file: %w", createErr)
	}

	success := false
	defer func() {
		if closeErr := t.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
			slog.Warn("failed to close tmp file", "err", closeErr)
		}
		if !success {
			if rmErr := s.root.Remove(tmpFile); rmErr != nil {
				slog.Warn("failed to remove tmp file", "err", rmErr)
			}
		}
	}()

	if _, err := io.Copy(t, &ctxReader{ctx: ctx, r: content}); err != nil {
		return fmt.Errorf("could not copy file contents: %w", err)
	}

	if err := t.Sync(); err != nil {
		return fmt.Errorf("could not sync written file: %w", err)
	}

	destDir := path.Dir(name)
	if destDir != "." {
		if err := s.root.MkdirAll(destDir, 0o755); err != nil {
			return fmt.Errorf("could not create workspace directory: %w", err)
		}
	}

	if renameErr := s.root.Rename(tmpFile, name); renameErr != nil {
		return fmt.Errorf("failed to rename file: %w", renameErr)
	}

	success = true
	return nil
}

func tmpFileName() string {
	return fmt.Sprintf(".t%s", uuid.New().String())
}
