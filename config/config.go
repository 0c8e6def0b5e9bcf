package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/workspaced/database"
	workspacedhttp "github.com/sagarc03/workspaced/http"
	"github.com/sagarc03/workspaced/keybackend"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Storage backends.
const (
	BackendFilesystem = "filesystem"
	BackendDatabase   = "database"
	BackendMemory     = "memory"
)

// Config is the root configuration struct for workspaced.
type Config struct {
	Env      string                    `mapstructure:"env" validate:"required,oneof=dev prod"`
	Server   ServerConfig              `mapstructure:"server"`
	Storage  StorageConfig             `mapstructure:"storage"`
	Database database.Config           `mapstructure:"database"`
	Auth     AuthConfig                `mapstructure:"auth"`
	CORS     workspacedhttp.CORSConfig `mapstructure:"cors"`
	Metrics  MetricsConfig             `mapstructure:"metrics"`
	Log      LogConfig                 `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port          int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	BasePath      string `mapstructure:"base_path" validate:"required,startswith=/"`
	MaxUploadSize int64  `mapstructure:"max_upload_size" validate:"min=0"`
	AllowCreate   bool   `mapstructure:"allow_create"`
}

// StorageConfig selects where workspaces live. Path is the filesystem root for
// the filesystem backend, and the image directory for the database backend.
type StorageConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=filesystem database memory"`
	Path    string `mapstructure:"path" validate:"required_if=Backend filesystem"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	workspacedhttp.AuthConfig `mapstructure:",squash"`
	Credentials               keybackend.CredentialsConfig `mapstructure:"credentials"`
}

// MetricsConfig holds the Prometheus endpoint configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr" validate:"required_if=Enabled true"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// HandlerConfig converts the server settings into the HTTP handler's
// configuration.
func (c *Config) HandlerConfig(observer workspacedhttp.Observer) workspacedhttp.HandlerConfig {
	return workspacedhttp.HandlerConfig{
		BasePath:      c.Server.BasePath,
		MaxUploadSize: c.Server.MaxUploadSize,
		AllowCreate:   c.Server.AllowCreate,
		Auth:          c.Auth.AuthConfig,
		CORS:          c.CORS,
		Observer:      observer,
	}
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"db-type":         "database.type",
	"db-dsn":          "database.dsn",
	"storage-backend": "storage.backend",
	"storage-path":    "storage.path",
	"port":            "server.port",
	"base-path":       "server.base_path",
	"log-level":       "log.level",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_path", "/")
	v.SetDefault("server.max_upload_size", 0) // 0 means no limit
	v.SetDefault("server.allow_create", true)

	v.SetDefault("storage.backend", BackendFilesystem)
	v.SetDefault("storage.path", "./data")

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "workspaced.db")
	v.SetDefault("database.tables.workspaces", "workspaces")

	v.SetDefault("auth.key_only_reads", true)
	v.SetDefault("auth.query_credentials", true)
	v.SetDefault("auth.query_credentials_for_writes", false)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9090")

	v.SetDefault("log.level", "info")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("WORKSPACED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if cfg.Storage.Backend == BackendDatabase {
		if err := cfg.Database.Tables.Validate(); err != nil {
			return nil, fmt.Errorf("validate config: %w", err)
		}
	}

	return &cfg, nil
}
