package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sagarc03/workspaced/config"
	"github.com/sagarc03/workspaced/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the workspace tables",
	Long: `Create the workspace table in the configured SQLite or PostgreSQL
database. Existing tables are left untouched, so the command is safe to rerun.

The server runs the same migration on startup when storage.backend is
database; this command lets operators prepare the schema ahead of time.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	if err := database.Migrate(cmd.Context(), cfg.Database); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	slog.Info("database migration complete", "type", cfg.Database.Type, "table", cfg.Database.Tables.Workspaces)
	return nil
}
