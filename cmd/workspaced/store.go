package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/sagarc03/workspaced"
	"github.com/sagarc03/workspaced/config"
	"github.com/sagarc03/workspaced/database"
	"github.com/sagarc03/workspaced/filesystem"
	"github.com/sagarc03/workspaced/memory"
)

// stores bundles the backends selected by storage.backend.
type stores struct {
	workspaces workspaced.WorkspaceStore
	images     workspaced.ImageStore
	close      func()
}

func openRoot(path string) (*os.Root, error) {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	root, err := os.OpenRoot(path)
	if err != nil {
		return nil, fmt.Errorf("open storage root: %w", err)
	}
	return root, nil
}

// openStores opens the configured workspace backend. The database backend
// serves images from storage.path when one is set.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Storage.Backend {
	case config.BackendFilesystem:
		root, err := openRoot(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		fs := filesystem.NewStore(root)
		slog.Info("using filesystem storage", "path", cfg.Storage.Path)
		return &stores{workspaces: fs, images: fs, close: func() { _ = root.Close() }}, nil

	case config.BackendDatabase:
		db, closeDB, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		slog.Info("connected to database", "type", cfg.Database.Type)

		s := &stores{workspaces: db, close: closeDB}
		if cfg.Storage.Path != "" {
			root, err := openRoot(cfg.Storage.Path)
			if err != nil {
				closeDB()
				return nil, err
			}
			s.images = filesystem.NewStore(root)
			s.close = func() {
				_ = root.Close()
				closeDB()
			}
		}
		return s, nil

	case config.BackendMemory:
		slog.Warn("using in-memory storage, workspaces are lost on exit")
		m := memory.NewStore()
		return &stores{workspaces: m, images: m, close: func() {}}, nil

	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}
}
