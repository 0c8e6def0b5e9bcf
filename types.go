package workspaced

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// EmptyWorkspace is served for provisioned workspaces that have no document yet.
const EmptyWorkspace = "{}"

// WorkspaceSummary describes what a workspace has provisioned.
type WorkspaceSummary struct {
	ID        int64     `json:"id"`
	HasKey    bool      `json:"has_key"`
	HasSecret bool      `json:"has_secret"`
	HasData   bool      `json:"has_data"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Address identifies the target of a request below /workspace/.
type Address struct {
	WorkspaceID int64
	// Resource is the optional sub-resource name, empty for the workspace document.
	Resource string
}

// Mode selects how much of the signature a request must carry.
type Mode int

const (
	// RequireSignature demands Nonce, Content-MD5 and a matching HMAC.
	RequireSignature Mode = iota
	// AllowKeyOnly accepts a request once the API key in the Authorization header matches.
	AllowKeyOnly
)

func (m Mode) String() string {
	switch m {
	case RequireSignature:
		return "signature"
	case AllowKeyOnly:
		return "key_only"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// AuthMethod records which check admitted a request.
type AuthMethod string

const (
	MethodNone      AuthMethod = ""
	MethodQuery     AuthMethod = "query"
	MethodKeyOnly   AuthMethod = "key"
	MethodSignature AuthMethod = "signature"
)

// Tables holds configurable table names for workspace storage.
// This allows several deployments to share one database.
type Tables struct {
	Workspaces string `mapstructure:"workspaces"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set and valid.
func (t Tables) Validate() error {
	if t.Workspaces == "" {
		return errors.New("validate tables: workspaces table name cannot be empty")
	}

	if !IsValidTableName(t.Workspaces) {
		return fmt.Errorf("validate tables: invalid workspaces table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", t.Workspaces)
	}

	return nil
}
