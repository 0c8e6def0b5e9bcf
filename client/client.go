package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sagarc03/workspaced"
)

const (
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second

	contentTypeJSON = "application/json; charset=UTF-8"
)

// Client performs signed requests against a workspaced server.
type Client struct {
	config     *Config
	endpoint   *url.URL
	httpClient *http.Client
	signer     *workspaced.Signer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithSigner replaces the request signer, e.g. to pin nonces in tests.
func WithSigner(signer *workspaced.Signer) Option {
	return func(c *Client) {
		c.signer = signer
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	cfg = cfg.WithDefaults()

	endpoint, err := url.Parse(strings.TrimSuffix(cfg.Endpoint, "/"))
	if err != nil || endpoint.Scheme == "" || endpoint.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEndpoint, cfg.Endpoint)
	}

	c := &Client{
		config:     cfg,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		signer:     workspaced.NewSigner(cfg.APIKey, cfg.APISecret),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// CanonicalPath is the path the server signs for the workspace, including the
// endpoint's base path.
func (c *Client) CanonicalPath(id int64, resource string) string {
	return workspaced.CanonicalPath(c.endpoint.Path, id, resource)
}

func (c *Client) url(id int64, resource string, query url.Values) string {
	u := *c.endpoint
	u.Path = c.CanonicalPath(id, resource)
	u.RawQuery = query.Encode()
	return u.String()
}

// GetWorkspace fetches the workspace document.
func (c *Client) GetWorkspace(ctx context.Context, id int64) ([]byte, error) {
	if err := c.checkSigned(id); err != nil {
		return nil, fmt.Errorf("get workspace: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(id, "", nil), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.signer.Sign(req, c.CanonicalPath(id, ""), nil)

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("get workspace %d: %w", id, err)
	}
	return body, nil
}

// PutWorkspace replaces the workspace document with document.
func (c *Client) PutWorkspace(ctx context.Context, id int64, document []byte) (string, error) {
	if err := c.checkSigned(id); err != nil {
		return "", fmt.Errorf("put workspace: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.url(id, "", nil), bytes.NewReader(document))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(workspaced.HeaderContentType, contentTypeJSON)
	c.signer.Sign(req, c.CanonicalPath(id, ""), document)

	body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("put workspace %d: %w", id, err)
	}
	return parseMessage(body), nil
}

// GetImage fetches an image resource of a workspace.
func (c *Client) GetImage(ctx context.Context, id int64, name string) ([]byte, string, error) {
	if err := c.checkSigned(id); err != nil {
		return nil, "", fmt.Errorf("get image: %w", err)
	}
	if name == "" {
		return nil, "", fmt.Errorf("get image: %w", ErrEmptyPath)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(id, name, nil), http.NoBody)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	c.signer.Sign(req, c.CanonicalPath(id, name), nil)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("get image %q: %w", name, parseServerError(resp.StatusCode, body))
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// CreateWorkspace provisions credentials for a workspace. The request is not
// signed; the server only accepts it for workspaces without credentials.
func (c *Client) CreateWorkspace(ctx context.Context, id int64, apiKey, apiSecret string) (string, error) {
	if id < 1 {
		return "", fmt.Errorf("create workspace: %w", ErrInvalidWorkspaceID)
	}

	query := url.Values{}
	query.Set("key", apiKey)
	query.Set("secret", apiSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(id, "", query), http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("create workspace %d: %w", id, err)
	}
	return parseMessage(body), nil
}

// Get downloads a workspace to opts.LocalPath. When LocalPath is empty or "-"
// the document is written to w instead.
func (c *Client) Get(ctx context.Context, opts GetOptions, w io.Writer) (*TransferResult, error) {
	document, err := c.GetWorkspace(ctx, opts.WorkspaceID)
	if err != nil {
		return nil, err
	}

	result := &TransferResult{
		WorkspaceID: opts.WorkspaceID,
		LocalPath:   opts.LocalPath,
		Size:        int64(len(document)),
	}

	if opts.LocalPath == "" || opts.LocalPath == "-" {
		result.LocalPath = "-"
		if _, err := w.Write(document); err != nil {
			return nil, fmt.Errorf("write document: %w", err)
		}
		return result, nil
	}

	if err := os.WriteFile(opts.LocalPath, document, 0o600); err != nil {
		return nil, fmt.Errorf("write file: %w", err)
	}
	return result, nil
}

// Put uploads opts.LocalPath, or r when LocalPath is "-", as the workspace
// document.
func (c *Client) Put(ctx context.Context, opts PutOptions, r io.Reader) (*TransferResult, error) {
	if opts.LocalPath == "" {
		return nil, fmt.Errorf("put: %w", ErrEmptyPath)
	}

	var (
		document []byte
		err      error
	)
	if opts.LocalPath == "-" {
		document, err = io.ReadAll(r)
	} else {
		document, err = os.ReadFile(opts.LocalPath) //#nosec G304 -- LocalPath is user-provided input
	}
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	message, err := c.PutWorkspace(ctx, opts.WorkspaceID, document)
	if err != nil {
		return nil, err
	}

	return &TransferResult{
		WorkspaceID: opts.WorkspaceID,
		LocalPath:   opts.LocalPath,
		Size:        int64(len(document)),
		Message:     message,
	}, nil
}

func (c *Client) checkSigned(id int64) error {
	if id < 1 {
		return ErrInvalidWorkspaceID
	}
	return c.config.ValidateWithAuth()
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseServerError(resp.StatusCode, body)
	}
	return body, nil
}

func parseMessage(body []byte) string {
	var msg messageResponse
	if err := json.Unmarshal(body, &msg); err != nil {
		return ""
	}
	return msg.Message
}

// parseServerError extracts the server's message when the body carries one.
func parseServerError(statusCode int, body []byte) error {
	apiErr := &APIError{StatusCode: statusCode, Body: string(body)}

	var msg messageResponse
	if err := json.Unmarshal(body, &msg); err == nil {
		apiErr.Message = msg.Message
	}
	return apiErr
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	// Message is the server's {"message": ...} text, empty for HTML pages.
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Message
	}
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Body
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// IsNotFound returns true if the error is a 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrNotFound is returned when the requested resource does not exist (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrUnauthorized is returned when the server rejects the credentials or
	// signature (401).
	ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized}

	// ErrServer is returned for 500 responses, which also cover unknown
	// workspaces and malformed Authorization headers.
	ErrServer = &APIError{StatusCode: http.StatusInternalServerError}
)
