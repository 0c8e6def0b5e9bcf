package keybackend

import (
	"encoding/json"
	"fmt"
	"os"
)

// Credential is the API key and secret of one workspace.
type Credential struct {
	WorkspaceID int64  `json:"workspace_id" mapstructure:"workspace_id"`
	APIKey      string `json:"api_key" mapstructure:"api_key"`
	APISecret   string `json:"api_secret" mapstructure:"api_secret"`
}

func (c Credential) valid() bool {
	return c.WorkspaceID > 0 && c.APIKey != "" && c.APISecret != ""
}

// LoadCredentialsFromFile loads workspace credentials from a JSON file.
// The file should contain an array of credentials:
//
//	[
//	  {"workspace_id": 1, "api_key": "8c3e7b0a-...", "api_secret": "1f2d3c4b-..."},
//	  {"workspace_id": 2, "api_key": "...", "api_secret": "..."}
//	]
//
// Entries without a positive id, key or secret are skipped. Returns a map of
// workspace id to credential.
func LoadCredentialsFromFile(path string) (map[int64]Credential, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is from trusted config file
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	var creds []Credential
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse credentials file: %w", err)
	}

	out := make(map[int64]Credential, len(creds))
	for _, c := range creds {
		if c.valid() {
			out[c.WorkspaceID] = c
		}
	}

	return out, nil
}
