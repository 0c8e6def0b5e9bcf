package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sagarc03/workspaced"
)

const (
	opGetWorkspace    = "get_workspace"
	opPutWorkspace    = "put_workspace"
	opCreateWorkspace = "create_workspace"
	opGetImage        = "get_image"
)

type Service interface {
	GetWorkspace(ctx context.Context, id int64) (string, error)
	PutWorkspace(ctx context.Context, id int64, json string) error
	CreateWorkspace(ctx context.Context, id int64, apiKey, apiSecret string) error
	GetImage(ctx context.Context, id int64, name string) (io.ReadSeekCloser, string, error)
}

type Authenticator interface {
	Authenticate(ctx context.Context, req workspaced.AuthRequest) (workspaced.Decision, error)
}

// Observer is notified of authentication decisions and store failures.
type Observer interface {
	ObserveAuth(operation string, decision workspaced.Decision, err error, elapsed time.Duration)
	ObserveStoreError(operation string)
}

type nopObserver struct{}

func (nopObserver) ObserveAuth(string, workspaced.Decision, error, time.Duration) {}
func (nopObserver) ObserveStoreError(string)                                      {}

// CORSConfig replaces the fixed cross-origin headers with go-chi/cors when
// Enabled is set.
type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type AuthConfig struct {
	// KeyOnlyReads lets GET /workspace/{id} through on the API key alone.
	KeyOnlyReads bool `mapstructure:"key_only_reads"`
	// QueryCredentials enables ?key=&secret= for reads.
	QueryCredentials bool `mapstructure:"query_credentials"`
	// QueryCredentialsForWrites extends QueryCredentials to PUT.
	QueryCredentialsForWrites bool `mapstructure:"query_credentials_for_writes"`
}

type HandlerConfig struct {
	// BasePath prefixes every route and every canonical path, e.g. "/api".
	BasePath string
	// MaxUploadSize limits PUT bodies in bytes; zero means no limit.
	MaxUploadSize int64
	// AllowCreate registers POST /workspace/{id}.
	AllowCreate bool
	Auth        AuthConfig
	CORS        CORSConfig
	Observer    Observer
}

// Handler provides HTTP handlers for workspace operations.
type Handler struct {
	config  HandlerConfig
	service Service
	auth    Authenticator
}

// NewHandler creates a new Handler with the given configuration, service and
// authenticator.
func NewHandler(config *HandlerConfig, service Service, auth Authenticator) *Handler {
	h := &Handler{
		config:  *config,
		service: service,
		auth:    auth,
	}
	if h.config.Observer == nil {
		h.config.Observer = nopObserver{}
	}
	return h
}

// Router returns an http.Handler serving the workspace API under BasePath.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	} else {
		r.Use(DefaultCORS)
	}

	pattern := strings.TrimSuffix(workspaced.NormalizeBasePath(h.config.BasePath), "/") + "/workspace/*"

	r.Get(pattern, h.handleGet)
	r.Put(pattern, h.handlePut)
	if h.config.AllowCreate {
		r.Post(pattern, h.handlePost)
	}
	// DefaultCORS answers every OPTIONS request before routing. go-chi/cors
	// only short-circuits preflights, so plain OPTIONS needs a route.
	if h.config.CORS.Enabled {
		r.Options(pattern, handleOptions)
	}
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeNotFound(w)
	})

	return r
}

func handleOptions(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	addr, err := workspaced.ResolveAddress(chi.URLParam(r, "*"))
	if err != nil {
		HandleError(w, err)
		return
	}

	if addr.Resource != "" {
		h.handleImage(w, r, addr)
		return
	}

	mode := workspaced.RequireSignature
	if h.config.Auth.KeyOnlyReads {
		mode = workspaced.AllowKeyOnly
	}
	if !h.authenticate(w, r, opGetWorkspace, addr, nil, mode, h.config.Auth.QueryCredentials) {
		return
	}

	document, err := h.service.GetWorkspace(r.Context(), addr.WorkspaceID)
	if err != nil {
		h.storeError(w, opGetWorkspace, err)
		return
	}

	WriteDocument(w, document)
}

func (h *Handler) handleImage(w http.ResponseWriter, r *http.Request, addr workspaced.Address) {
	if _, ok := workspaced.ImageContentType(addr.Resource); !ok {
		writeNotFound(w)
		return
	}

	if !h.authenticate(w, r, opGetImage, addr, nil, workspaced.RequireSignature, h.config.Auth.QueryCredentials) {
		return
	}

	content, contentType, err := h.service.GetImage(r.Context(), addr.WorkspaceID, addr.Resource)
	if err != nil {
		if errors.Is(err, workspaced.ErrNotFound) {
			writeNotFound(w)
		} else {
			h.storeError(w, opGetImage, err)
		}
		return
	}
	defer func() { _ = content.Close() }()

	w.Header().Set("Content-Type", contentType)
	http.ServeContent(w, r, addr.Resource, time.Time{}, content)
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	addr, err := workspaced.ResolveAddress(chi.URLParam(r, "*"))
	if err != nil {
		HandleError(w, err)
		return
	}

	if addr.Resource != "" {
		writeNotFound(w)
		return
	}

	body, err := h.readBody(w, r)
	if err != nil {
		HandleError(w, err)
		return
	}

	allowQuery := h.config.Auth.QueryCredentials && h.config.Auth.QueryCredentialsForWrites
	if !h.authenticate(w, r, opPutWorkspace, addr, body, workspaced.RequireSignature, allowQuery) {
		return
	}

	if err := h.service.PutWorkspace(r.Context(), addr.WorkspaceID, string(body)); err != nil {
		h.storeError(w, opPutWorkspace, err)
		return
	}

	WriteOK(w)
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	addr, err := workspaced.ResolveAddress(chi.URLParam(r, "*"))
	if err != nil {
		HandleError(w, err)
		return
	}

	if addr.Resource != "" {
		writeNotFound(w)
		return
	}

	query := r.URL.Query()
	err = h.service.CreateWorkspace(r.Context(), addr.WorkspaceID, query.Get("key"), query.Get("secret"))
	if err != nil {
		if !errors.Is(err, workspaced.ErrInvalidInput) && !errors.Is(err, workspaced.ErrAlreadyExists) {
			h.config.Observer.ObserveStoreError(opCreateWorkspace)
		}
		HandleError(w, err)
		return
	}

	slog.Info("workspace created", "workspace_id", addr.WorkspaceID)
	WriteOK(w)
}

// authenticate writes the denial response and returns false when the request
// may not proceed.
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request, operation string, addr workspaced.Address, body []byte, mode workspaced.Mode, allowQuery bool) bool {
	start := time.Now()
	decision, err := h.auth.Authenticate(r.Context(), workspaced.AuthRequest{
		WorkspaceID:           addr.WorkspaceID,
		Method:                r.Method,
		Path:                  workspaced.CanonicalPath(h.config.BasePath, addr.WorkspaceID, addr.Resource),
		Body:                  body,
		Header:                r.Header,
		Query:                 r.URL.Query(),
		Mode:                  mode,
		AllowQueryCredentials: allowQuery,
	})
	h.config.Observer.ObserveAuth(operation, decision, err, time.Since(start))

	if err != nil {
		HandleError(w, err)
		return false
	}

	if !decision.Allowed() {
		slog.Info("request denied",
			"workspace_id", addr.WorkspaceID,
			"operation", operation,
			"reason", decision.String(),
		)
		WriteMessage(w, decision.StatusCode(), decision.Message())
		return false
	}

	slog.Debug("request authenticated",
		"workspace_id", addr.WorkspaceID,
		"operation", operation,
		"method", string(decision.Method),
	)
	return true
}

func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	reader := r.Body
	if h.config.MaxUploadSize > 0 {
		reader = http.MaxBytesReader(w, r.Body, h.config.MaxUploadSize)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, ErrRequestTooLarge
		}
		return nil, err
	}
	return body, nil
}

func (h *Handler) storeError(w http.ResponseWriter, operation string, err error) {
	h.config.Observer.ObserveStoreError(operation)
	HandleError(w, err)
}
