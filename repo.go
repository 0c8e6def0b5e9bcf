package workspaced

import (
	"context"
	"io"
)

// CredentialStore resolves the API key and secret of a workspace.
// It is the only capability the Authenticator depends on.
//
// Implementations return an error wrapping ErrNotFound (ideally as an *Error
// carrying a client message) when the workspace has no such credential.
type CredentialStore interface {
	APIKey(ctx context.Context, id int64) (string, error)
	APISecret(ctx context.Context, id int64) (string, error)
}

// WorkspaceStore persists workspace documents and their credentials.
// Implementations must be safe for concurrent use.
type WorkspaceStore interface {
	CredentialStore

	// GetWorkspace returns the stored JSON document.
	//
	// Returns:
	//   - string: The document exactly as last written
	//   - error: ErrNotFound if no document has been stored for the workspace
	GetWorkspace(ctx context.Context, id int64) (string, error)

	// PutWorkspace replaces the stored JSON document. The document is stored
	// verbatim; callers are responsible for any validation.
	PutWorkspace(ctx context.Context, id int64, json string) error

	// CreateWorkspace provisions the API key and secret of a workspace.
	//
	// Returns:
	//   - error: ErrAlreadyExists if the workspace already has credentials
	CreateWorkspace(ctx context.Context, id int64, apiKey, apiSecret string) error

	// ListWorkspaces returns a summary of every known workspace ordered by id.
	// It returns an empty slice, not nil, when there are none.
	ListWorkspaces(ctx context.Context) ([]WorkspaceSummary, error)
}

// ImageStore serves binary resources stored alongside a workspace.
type ImageStore interface {
	// GetImage opens the named resource of a workspace.
	//
	// Returns:
	//   - io.ReadSeekCloser: Content reader, closed by the caller
	//   - error: ErrNotFound if the resource does not exist
	GetImage(ctx context.Context, id int64, name string) (io.ReadSeekCloser, error)
}
