package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/sagarc03/workspaced/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "workspaced",
	Short:   "Workspace storage server with HMAC request authentication",
	Long: `workspaced stores workspace documents per numeric workspace ID and
serves them over HTTP. Every request is authenticated with the workspace's
API key and an HMAC-SHA256 signature made with its API secret.

Workspaces live on the local filesystem, in SQLite or PostgreSQL, or in
memory for testing.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		configFiles, _ := cmd.Flags().GetStringSlice("config")

		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return err
		}

		setupLogging(cfg)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("config", nil, "config file paths, later files override earlier ones (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("storage-backend", "", "storage backend: filesystem, database, memory (default: filesystem, env: WORKSPACED_STORAGE_BACKEND)")
	rootCmd.PersistentFlags().String("storage-path", "", "workspace directory path (default: ./data, env: WORKSPACED_STORAGE_PATH)")
	rootCmd.PersistentFlags().String("db-type", "", "database type: sqlite, postgres (default: sqlite, env: WORKSPACED_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "database connection string (default: workspaced.db, env: WORKSPACED_DATABASE_DSN)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: WORKSPACED_LOG_LEVEL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
