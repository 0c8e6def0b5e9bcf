// Package config provides configuration loading and validation for workspaced.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (WORKSPACED_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with WORKSPACED_ prefix:
//   - server.port → WORKSPACED_SERVER_PORT
//   - storage.backend → WORKSPACED_STORAGE_BACKEND
//   - auth.key_only_reads → WORKSPACED_AUTH_KEY_ONLY_READS
//
// # Configuration Structure
//
// The Config struct contains:
//   - Env: dev (coloured text logs) or prod (JSON logs)
//   - Server: port, base_path, max_upload_size and allow_create
//   - Storage: backend (filesystem, database, memory) and path
//   - Database: type, DSN, and table names for the database backend
//   - Auth: key-only reads, query credentials, static credentials
//   - CORS: cross-origin resource sharing settings
//   - Metrics: Prometheus endpoint
//   - Log: logging level
package config
