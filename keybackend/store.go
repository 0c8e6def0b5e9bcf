package keybackend

import (
	"context"
	"errors"

	"github.com/sagarc03/workspaced"
)

// CredentialsConfig holds configuration for static workspace credentials.
type CredentialsConfig struct {
	Inline []Credential `mapstructure:"inline"` // Inline credentials from config
	File   string       `mapstructure:"file"`   // Path to JSON file containing credentials
}

// NewCredentialStore builds the CredentialStore used for authentication.
// Static credentials from inline config and file (file wins on duplicates)
// are consulted first; workspaces they do not mention are looked up in
// fallback. With no static credentials the fallback is returned as is.
func NewCredentialStore(cfg CredentialsConfig, fallback workspaced.CredentialStore) (workspaced.CredentialStore, error) {
	creds := make(map[int64]Credential)

	for _, c := range cfg.Inline {
		if c.valid() {
			creds[c.WorkspaceID] = c
		}
	}

	if cfg.File != "" {
		fileCreds, err := LoadCredentialsFromFile(cfg.File)
		if err != nil {
			return nil, err
		}
		for id, c := range fileCreds {
			creds[id] = c
		}
	}

	static := NewMapCredentialStore(creds)

	switch {
	case static.Len() == 0 && fallback == nil:
		return nil, ErrNoCredentials
	case static.Len() == 0:
		return fallback, nil
	case fallback == nil:
		return static, nil
	default:
		return &LayeredCredentialStore{primary: static, fallback: fallback}, nil
	}
}

// LayeredCredentialStore consults primary and falls back to fallback when the
// workspace is not found there.
type LayeredCredentialStore struct {
	primary  workspaced.CredentialStore
	fallback workspaced.CredentialStore
}

func NewLayeredCredentialStore(primary, fallback workspaced.CredentialStore) *LayeredCredentialStore {
	return &LayeredCredentialStore{primary: primary, fallback: fallback}
}

func (s *LayeredCredentialStore) APIKey(ctx context.Context, id int64) (string, error) {
	key, err := s.primary.APIKey(ctx, id)
	if errors.Is(err, workspaced.ErrNotFound) {
		return s.fallback.APIKey(ctx, id)
	}
	return key, err
}

func (s *LayeredCredentialStore) APISecret(ctx context.Context, id int64) (string, error) {
	secret, err := s.primary.APISecret(ctx, id)
	if errors.Is(err, workspaced.ErrNotFound) {
		return s.fallback.APISecret(ctx, id)
	}
	return secret, err
}
