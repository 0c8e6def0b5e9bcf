package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/workspaced"
	"github.com/sagarc03/workspaced/config"
	workspacedhttp "github.com/sagarc03/workspaced/http"
	"github.com/sagarc03/workspaced/keybackend"
	"github.com/sagarc03/workspaced/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the workspaced HTTP server.

Routes, relative to server.base_path:
  GET     /workspace/{id}           workspace document
  PUT     /workspace/{id}           replace the workspace document
  POST    /workspace/{id}?key=&secret=
                                    provision credentials (server.allow_create)
  GET     /workspace/{id}/{image}   workspace image`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "HTTP server port (env: WORKSPACED_SERVER_PORT)")
	serveCmd.Flags().String("base-path", "", "path prefix the routes are served under (default: /, env: WORKSPACED_SERVER_BASE_PATH)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	credentials, err := keybackend.NewCredentialStore(cfg.Auth.Credentials, st.workspaces)
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}

	service, err := workspaced.NewWorkspaceService(st.workspaces, st.images)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	var observer workspacedhttp.Observer
	if cfg.Metrics.Enabled {
		observer = metrics.Recorder{}
		metrics.ServeMetrics(ctx, cfg.Metrics.Addr, version)
	}

	handlerConfig := cfg.HandlerConfig(observer)
	handler := workspacedhttp.NewHandler(&handlerConfig, service, workspaced.NewAuthenticator(credentials))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server",
		"addr", addr,
		"base_path", cfg.Server.BasePath,
		"backend", cfg.Storage.Backend,
		"allow_create", cfg.Server.AllowCreate,
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
