package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/workspaced"
)

var (
	createKey    string
	createSecret string
)

var createCmd = &cobra.Command{
	Use:   "create <workspace-id>",
	Short: "Provision credentials for a workspace on the server",
	Long: `Ask the server to create an API key and secret for a workspace.

Both values are generated as UUIDs unless given. The server refuses
workspaces that already have credentials, and servers started with
server.allow_create=false do not accept the request at all.

Examples:
  workspace-cli create 7
  workspace-cli create 7 --key 8c3e7b0a-6a55-4e4f-9d0e-0b7d0c7f6e21 --secret 1f2d3c4b-5a69-4788-97a6-b5c4d3e2f101`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createKey, "key", "", "API key (default: generated UUID)")
	createCmd.Flags().StringVar(&createSecret, "secret", "", "API secret (default: generated UUID)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	id, err := parseWorkspaceID(args[0])
	if err != nil {
		return err
	}

	key := createKey
	if key == "" {
		key = workspaced.NewCredential()
	}
	secret := createSecret
	if secret == "" {
		secret = workspaced.NewCredential()
	}

	c, err := getClient()
	if err != nil {
		return err
	}

	if _, err := c.CreateWorkspace(cmd.Context(), id, key, secret); err != nil {
		return handleError(os.Stderr, err)
	}

	fmt.Printf("Workspace %d\n", id)
	fmt.Printf("API Key:    %s\n", key)
	fmt.Printf("API Secret: %s\n", secret)
	return nil
}
