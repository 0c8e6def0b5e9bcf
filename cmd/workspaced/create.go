package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sagarc03/workspaced"
	"github.com/sagarc03/workspaced/config"
)

var createCmd = &cobra.Command{
	Use:   "create [flags] <workspace-id>",
	Short: "Provision credentials for a workspace",
	Long: `Create the API key and secret of a workspace directly in storage.

Both values are generated as UUIDs unless --key or --secret is given; given
values must be UUIDs too. The
generated credentials are printed once; store them somewhere safe.

Examples:
  workspaced create 1
  workspaced create --storage-backend database 42`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

var (
	createKey    string
	createSecret string
)

func init() {
	createCmd.Flags().StringVar(&createKey, "key", "", "API key (default: generated UUID)")
	createCmd.Flags().StringVar(&createSecret, "secret", "", "API secret (default: generated UUID)")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	id, err := workspaced.ParseWorkspaceID(args[0])
	if err != nil {
		return err
	}

	key, secret := createKey, createSecret
	if key == "" {
		key = workspaced.NewCredential()
	}
	if secret == "" {
		secret = workspaced.NewCredential()
	}

	st, err := openStores(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer st.close()

	service, err := workspaced.NewWorkspaceService(st.workspaces, st.images)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	if err := service.CreateWorkspace(cmd.Context(), id, key, secret); err != nil {
		return err
	}

	slog.Info("workspace created", "id", id)
	fmt.Printf("API Key:    %s\n", key)
	fmt.Printf("API Secret: %s\n", secret)
	return nil
}
