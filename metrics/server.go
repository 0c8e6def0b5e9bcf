package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	endpointMetrics = "/metrics"
	endpointHealth  = "/healthz"

	shutdownTimeout = 5 * time.Second
)

// HealthResponse represents the JSON response for the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
}

// Handler serves /metrics and /healthz.
func Handler(version string) http.Handler {
	mux := http.NewServeMux()

	mux.Handle(endpointMetrics, promhttp.Handler())

	mux.HandleFunc(endpointHealth, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		response := HealthResponse{
			Status:  "healthy",
			Service: workspacedProcess,
			Version: version,
		}

		if err := json.NewEncoder(w).Encode(response); err != nil {
			slog.Error("failed to encode health response", "error", err)
		}
	})

	return mux
}

// ServeMetrics starts the metrics server on addr in the background. It is shut
// down when ctx is cancelled.
func ServeMetrics(ctx context.Context, addr, version string) {
	server := &http.Server{
		Addr:              addr,
		Handler:           Handler(version),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("starting metrics server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", "error", err)
		}
	}()
}
