// Package keybackend provides CredentialStore implementations backed by static
// configuration rather than the workspace store.
package keybackend

import (
	"context"

	"github.com/sagarc03/workspaced"
)

// MapCredentialStore retrieves credentials from an in-memory map.
// Suitable for configuration file-based credentials.
type MapCredentialStore struct {
	creds map[int64]Credential
}

// NewMapCredentialStore creates a map-based store keyed by workspace id.
func NewMapCredentialStore(creds map[int64]Credential) *MapCredentialStore {
	return &MapCredentialStore{creds: creds}
}

func (s *MapCredentialStore) APIKey(_ context.Context, id int64) (string, error) {
	c, found := s.creds[id]
	if !found {
		return "", workspaced.CredentialNotFound(id, "API key")
	}
	return c.APIKey, nil
}

func (s *MapCredentialStore) APISecret(_ context.Context, id int64) (string, error) {
	c, found := s.creds[id]
	if !found {
		return "", workspaced.CredentialNotFound(id, "API secret")
	}
	return c.APISecret, nil
}

// Len returns the number of workspaces with static credentials.
func (s *MapCredentialStore) Len() int {
	return len(s.creds)
}
