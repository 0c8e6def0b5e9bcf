package http_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/workspaced"
	workspacedhttp "github.com/sagarc03/workspaced/http"
	"github.com/sagarc03/workspaced/memory"
)

const (
	// Workspace 1 uses the credentials of the reference signing vectors.
	testKey         = "key"
	testSecret      = "secret"
	testSignedAuth  = "key:NWNkODEzYjVkZDE2ZGIzYmFlZDcxNjM5MjY3YjFhNGZiNDc5YjY1MzZiMzkwMjUyYzk3MGVhM2IyNmU4ZWI5OQ=="
	testContentMD5  = "NDY2ZGVlYzc2ZWNkZjVmY2E2ZDM4NTcxZjYzMjRkNTQ="
	testNonce       = "1234567890"
	testKeyOnlyAuth = "key:NzdiN2M0MjAyNjA3MmJhYWZkYzUzZTgwZWJhNzRmYzE1YmIyYjE4NjBhZTdmODYxMDJhZThlODRkZjM1MTExYw=="

	// Workspace 2 uses UUID credentials so the query bypass applies.
	uuidKey    = "8c3e7b0a-6a55-4e4f-9d0e-0b7d0c7f6e21"
	uuidSecret = "1f2d3c4b-5a69-4788-97a6-b5c4d3e2f101"
)

// MockService is a mock implementation of http.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) GetWorkspace(ctx context.Context, id int64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockService) PutWorkspace(ctx context.Context, id int64, json string) error {
	args := m.Called(ctx, id, json)
	return args.Error(0)
}

func (m *MockService) CreateWorkspace(ctx context.Context, id int64, apiKey, apiSecret string) error {
	args := m.Called(ctx, id, apiKey, apiSecret)
	return args.Error(0)
}

func (m *MockService) GetImage(ctx context.Context, id int64, name string) (io.ReadSeekCloser, string, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(io.ReadSeekCloser), args.String(1), args.Error(2)
}

// MockObserver is a mock implementation of http.Observer
type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) ObserveAuth(operation string, decision workspaced.Decision, err error, elapsed time.Duration) {
	m.Called(operation, decision, err, elapsed)
}

func (m *MockObserver) ObserveStoreError(operation string) {
	m.Called(operation)
}

func defaultConfig() workspacedhttp.HandlerConfig {
	return workspacedhttp.HandlerConfig{
		BasePath:    "/",
		AllowCreate: true,
		Auth: workspacedhttp.AuthConfig{
			KeyOnlyReads:     true,
			QueryCredentials: true,
		},
	}
}

func newTestStore(t *testing.T) *memory.Store {
	t.Helper()

	store := memory.NewStore()
	require.NoError(t, store.CreateWorkspace(context.Background(), 1, testKey, testSecret))
	require.NoError(t, store.CreateWorkspace(context.Background(), 2, uuidKey, uuidSecret))
	return store
}

func newTestRouter(t *testing.T, cfg workspacedhttp.HandlerConfig) (*memory.Store, http.Handler) {
	t.Helper()

	store := newTestStore(t)
	service, err := workspaced.NewWorkspaceService(store, store)
	require.NoError(t, err)

	handler := workspacedhttp.NewHandler(&cfg, service, workspaced.NewAuthenticator(store))
	return store, handler.Router()
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func putRequest(target, body, auth, contentMD5, nonce string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, target, strings.NewReader(body))
	if auth != "" {
		req.Header.Set(workspaced.HeaderAuthorization, auth)
	}
	if contentMD5 != "" {
		req.Header.Set(workspaced.HeaderContentMD5, contentMD5)
	}
	if nonce != "" {
		req.Header.Set(workspaced.HeaderNonce, nonce)
	}
	return req
}

func TestHandler_PutWorkspace_Signed(t *testing.T) {
	t.Parallel()

	store, router := newTestRouter(t, defaultConfig())

	rec := serve(router, putRequest("/workspace/1", "json", testSignedAuth, testContentMD5, testNonce))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"message":"OK"}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	doc, err := store.GetWorkspace(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "json", doc)
}

func TestHandler_PutWorkspace_Denied(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		auth       string
		contentMD5 string
		nonce      string
		wantCode   int
		wantBody   string
	}{
		{
			name:       "missing authorization",
			contentMD5: testContentMD5,
			nonce:      testNonce,
			wantCode:   http.StatusUnauthorized,
			wantBody:   `{"message":"Authorization header must be provided"}`,
		},
		{
			name:       "malformed authorization",
			auth:       "key",
			contentMD5: testContentMD5,
			nonce:      testNonce,
			wantCode:   http.StatusInternalServerError,
			wantBody:   `{"message":"Invalid authorization header"}`,
		},
		{
			name:       "incorrect key",
			auth:       "otherkey:NWNkODEzYjVkZDE2ZGIzYmFlZDcxNjM5MjY3YjFhNGZiNDc5YjY1MzZiMzkwMjUyYzk3MGVhM2IyNmU4ZWI5OQ==",
			contentMD5: testContentMD5,
			nonce:      testNonce,
			wantCode:   http.StatusUnauthorized,
			wantBody:   `{"message":"Incorrect API key"}`,
		},
		{
			name:       "missing nonce",
			auth:       testSignedAuth,
			contentMD5: testContentMD5,
			wantCode:   http.StatusUnauthorized,
			wantBody:   `{"message":"Request header missing: Nonce"}`,
		},
		{
			name:     "missing content md5",
			auth:     testSignedAuth,
			nonce:    testNonce,
			wantCode: http.StatusUnauthorized,
			wantBody: `{"message":"Request header missing: Content-MD5"}`,
		},
		{
			name:       "content md5 of a different body",
			auth:       testSignedAuth,
			contentMD5: "ZmM1ZTAzOGQzOGE1NzAzMjA4NTQ0MWU3ZmU3MDEwYjA=",
			nonce:      testNonce,
			wantCode:   http.StatusUnauthorized,
			wantBody:   `{"message":"MD5 hash doesn't match content"}`,
		},
		{
			name:       "signature over a different nonce",
			auth:       testSignedAuth,
			contentMD5: testContentMD5,
			nonce:      "1234567891",
			wantCode:   http.StatusUnauthorized,
			wantBody:   `{"message":"Authorization header doesn't match"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store, router := newTestRouter(t, defaultConfig())

			rec := serve(router, putRequest("/workspace/1", "json", tt.auth, tt.contentMD5, tt.nonce))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())

			_, err := store.GetWorkspace(context.Background(), 1)
			assert.ErrorIs(t, err, workspaced.ErrNotFound, "denied request must not write")
		})
	}
}

func TestHandler_InvalidWorkspaceID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		method   string
		target   string
		wantBody string
	}{
		{"get non numeric", http.MethodGet, "/workspace/abc", `{"message":"Workspace ID must be a number"}`},
		{"put non numeric", http.MethodPut, "/workspace/abc", `{"message":"Workspace ID must be a number"}`},
		{"get zero", http.MethodGet, "/workspace/0", `{"message":"Workspace ID must be greater than 1"}`},
		{"put negative", http.MethodPut, "/workspace/-4", `{"message":"Workspace ID must be greater than 1"}`},
		{"post empty", http.MethodPost, "/workspace/", `{"message":"Workspace ID must be a number"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, router := newTestRouter(t, defaultConfig())

			rec := serve(router, httptest.NewRequest(tt.method, tt.target, nil))

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestHandler_GetWorkspace_KeyOnly(t *testing.T) {
	t.Parallel()

	store, router := newTestRouter(t, defaultConfig())

	req := httptest.NewRequest(http.MethodGet, "/workspace/1", nil)
	req.Header.Set(workspaced.HeaderAuthorization, testKeyOnlyAuth)

	rec := serve(router, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "{}", rec.Body.String())

	document := `{"id":1,"name":"Big Bank plc"}`
	require.NoError(t, store.PutWorkspace(context.Background(), 1, document))

	rec = serve(router, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, document, rec.Body.String())
}

func TestHandler_GetWorkspace_SignatureRequired(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Auth.KeyOnlyReads = false
	_, router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/workspace/1", nil)
	req.Header.Set(workspaced.HeaderAuthorization, testKeyOnlyAuth)

	rec := serve(router, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, `{"message":"Request header missing: Nonce"}`, rec.Body.String())

	signed := httptest.NewRequest(http.MethodGet, "/workspace/1", nil)
	workspaced.NewSigner(testKey, testSecret).Sign(signed, "/workspace/1", nil)

	rec = serve(router, signed)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "{}", rec.Body.String())
}

func TestHandler_GetWorkspace_Denied(t *testing.T) {
	t.Parallel()

	_, router := newTestRouter(t, defaultConfig())

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/workspace/1", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, `{"message":"Authorization header must be provided"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/workspace/1", nil)
	req.Header.Set(workspaced.HeaderAuthorization, "wrong:"+strings.Split(testKeyOnlyAuth, ":")[1])
	rec = serve(router, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, `{"message":"Incorrect API key"}`, rec.Body.String())
}

func TestHandler_UnknownWorkspace(t *testing.T) {
	t.Parallel()

	_, router := newTestRouter(t, defaultConfig())

	req := httptest.NewRequest(http.MethodGet, "/workspace/9", nil)
	req.Header.Set(workspaced.HeaderAuthorization, testKeyOnlyAuth)

	rec := serve(router, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, `{"message":"Could not find API key for workspace 9"}`, rec.Body.String())
}

func TestHandler_QueryCredentials(t *testing.T) {
	t.Parallel()

	target := "/workspace/2?key=" + uuidKey + "&secret=" + uuidSecret

	t.Run("read allowed", func(t *testing.T) {
		t.Parallel()
		_, router := newTestRouter(t, defaultConfig())

		rec := serve(router, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "{}", rec.Body.String())
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()
		_, router := newTestRouter(t, defaultConfig())

		wrong := "/workspace/2?key=" + uuidKey + "&secret=" + uuidKey
		rec := serve(router, httptest.NewRequest(http.MethodGet, wrong, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("read disabled", func(t *testing.T) {
		t.Parallel()
		cfg := defaultConfig()
		cfg.Auth.QueryCredentials = false
		_, router := newTestRouter(t, cfg)

		rec := serve(router, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("write refused by default", func(t *testing.T) {
		t.Parallel()
		_, router := newTestRouter(t, defaultConfig())

		rec := serve(router, httptest.NewRequest(http.MethodPut, target, strings.NewReader(`{"a":1}`)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, `{"message":"Authorization header must be provided"}`, rec.Body.String())
	})

	t.Run("write allowed when enabled", func(t *testing.T) {
		t.Parallel()
		cfg := defaultConfig()
		cfg.Auth.QueryCredentialsForWrites = true
		store, router := newTestRouter(t, cfg)

		rec := serve(router, httptest.NewRequest(http.MethodPut, target, strings.NewReader(`{"a":1}`)))
		assert.Equal(t, http.StatusOK, rec.Code)

		doc, err := store.GetWorkspace(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, `{"a":1}`, doc)
	})
}

func TestHandler_SignedRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Auth.KeyOnlyReads = false
	_, router := newTestRouter(t, cfg)
	signer := workspaced.NewSigner(uuidKey, uuidSecret)

	body := []byte(`{"name":"Payments","views":{}}`)
	put := httptest.NewRequest(http.MethodPut, "/workspace/2", strings.NewReader(string(body)))
	put.Header.Set(workspaced.HeaderContentType, "application/json; charset=UTF-8")
	signer.Sign(put, "/workspace/2", body)

	rec := serve(router, put)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	get := httptest.NewRequest(http.MethodGet, "/workspace/2", nil)
	signer.Sign(get, "/workspace/2", nil)

	rec = serve(router, get)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(body), rec.Body.String())
}

func TestHandler_BasePath(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.BasePath = "/api"
	_, router := newTestRouter(t, cfg)
	signer := workspaced.NewSigner(testKey, testSecret)

	body := []byte(`{}`)
	req := httptest.NewRequest(http.MethodPut, "/api/workspace/1", strings.NewReader(string(body)))
	signer.Sign(req, workspaced.CanonicalPath("/api", 1, ""), body)

	rec := serve(router, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// A signature over the unprefixed path does not verify under a base path.
	req = httptest.NewRequest(http.MethodPut, "/api/workspace/1", strings.NewReader(string(body)))
	signer.Sign(req, "/workspace/1", body)

	rec = serve(router, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, `{"message":"Authorization header doesn't match"}`, rec.Body.String())

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/workspace/1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_UnknownRoutes(t *testing.T) {
	t.Parallel()

	_, router := newTestRouter(t, defaultConfig())

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/nope"},
		{http.MethodGet, "/workspace"},
		{http.MethodGet, "/api/workspace/1"},
		{http.MethodPut, "/nope"},
		{http.MethodPost, "/nope"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			t.Parallel()

			rec := serve(router, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
			assert.Contains(t, rec.Body.String(), "404")
		})
	}
}

func TestHandler_MaxUploadSize(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.MaxUploadSize = 8
	_, router := newTestRouter(t, cfg)

	rec := serve(router, putRequest("/workspace/1", strings.Repeat("x", 9), testSignedAuth, testContentMD5, testNonce))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, `{"message":"Request body too large"}`, rec.Body.String())
}

func TestHandler_CreateWorkspace(t *testing.T) {
	t.Parallel()

	newKey := "0b5e9a9c-8f6d-4b43-9a1f-2f43d6b7c8e9"
	newSecret := "5d7f3c1a-2b4e-4c6d-8e9f-0a1b2c3d4e5f"

	tests := []struct {
		name     string
		target   string
		wantCode int
		wantBody string
	}{
		{
			name:     "created",
			target:   "/workspace/3?key=" + newKey + "&secret=" + newSecret,
			wantCode: http.StatusOK,
			wantBody: `{"message":"OK"}`,
		},
		{
			name:     "already exists",
			target:   "/workspace/2?key=" + newKey + "&secret=" + newSecret,
			wantCode: http.StatusInternalServerError,
			wantBody: `{"message":"Workspace 2 already exists"}`,
		},
		{
			name:     "missing key",
			target:   "/workspace/3?secret=" + newSecret,
			wantCode: http.StatusInternalServerError,
			wantBody: `{"message":"A 36 character API key (UUID) must be specified using the parameter name 'key'"}`,
		},
		{
			name:     "secret not a uuid",
			target:   "/workspace/3?key=" + newKey + "&secret=secret",
			wantCode: http.StatusInternalServerError,
			wantBody: `{"message":"A 36 character API secret (UUID) must be specified using the parameter name 'secret'"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, router := newTestRouter(t, defaultConfig())

			rec := serve(router, httptest.NewRequest(http.MethodPost, tt.target, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestHandler_CreateWorkspace_Disabled(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.AllowCreate = false
	_, router := newTestRouter(t, cfg)

	rec := serve(router, httptest.NewRequest(http.MethodPost, "/workspace/3?key="+uuidKey+"&secret="+uuidSecret, nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandler_Images(t *testing.T) {
	t.Parallel()

	png := []byte("\x89PNG\r\n\x1a\nfake")
	creds := "?key=" + uuidKey + "&secret=" + uuidSecret

	tests := []struct {
		name     string
		target   string
		wantCode int
		wantType string
		wantBody string
	}{
		{"image with query credentials", "/workspace/2/diagram.png" + creds, http.StatusOK, "image/png", string(png)},
		{"uppercase extension", "/workspace/2/PHOTO.JPG" + creds, http.StatusOK, "image/jpeg", "jpeg"},
		{"missing image", "/workspace/2/missing.gif" + creds, http.StatusNotFound, "text/html; charset=utf-8", ""},
		{"not an image", "/workspace/2/notes.txt" + creds, http.StatusNotFound, "text/html; charset=utf-8", ""},
		{"no credentials", "/workspace/2/diagram.png", http.StatusUnauthorized, "application/json; charset=utf-8", `{"message":"Authorization header must be provided"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store, router := newTestRouter(t, defaultConfig())
			store.PutImage(2, "diagram.png", png)
			store.PutImage(2, "PHOTO.JPG", []byte("jpeg"))

			rec := serve(router, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantType, rec.Header().Get("Content-Type"))
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
			if tt.wantCode == http.StatusNotFound {
				assert.Contains(t, rec.Body.String(), "404 Not Found")
			}
		})
	}
}

func TestHandler_ImageWithSignature(t *testing.T) {
	t.Parallel()

	store, router := newTestRouter(t, defaultConfig())
	store.PutImage(1, "diagram.gif", []byte("GIF89a"))

	req := httptest.NewRequest(http.MethodGet, "/workspace/1/diagram.gif", nil)
	workspaced.NewSigner(testKey, testSecret).Sign(req, workspaced.CanonicalPath("/", 1, "diagram.gif"), nil)

	rec := serve(router, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/gif", rec.Header().Get("Content-Type"))
	assert.Equal(t, "GIF89a", rec.Body.String())
}

func TestHandler_StoreError(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	service := new(MockService)
	observer := new(MockObserver)

	cfg := defaultConfig()
	cfg.Observer = observer
	handler := workspacedhttp.NewHandler(&cfg, service, workspaced.NewAuthenticator(store))

	service.On("PutWorkspace", mock.Anything, int64(1), "json").
		Return(workspaced.NewError(errors.New("disk full"), "Could not put workspace 1"))
	observer.On("ObserveAuth", "put_workspace", workspaced.Allowed(workspaced.MethodSignature), nil, mock.Anything).Return()
	observer.On("ObserveStoreError", "put_workspace").Return()

	rec := serve(handler.Router(), putRequest("/workspace/1", "json", testSignedAuth, testContentMD5, testNonce))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, `{"message":"Could not put workspace 1"}`, rec.Body.String())
	service.AssertExpectations(t)
	observer.AssertExpectations(t)
}

func TestHandler_ObservesDenials(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	service := new(MockService)
	observer := new(MockObserver)

	cfg := defaultConfig()
	cfg.Observer = observer
	handler := workspacedhttp.NewHandler(&cfg, service, workspaced.NewAuthenticator(store))

	observer.On("ObserveAuth", "get_workspace", workspaced.DeniedMissingHeader(workspaced.HeaderAuthorization), nil, mock.Anything).Return()

	rec := serve(handler.Router(), httptest.NewRequest(http.MethodGet, "/workspace/1", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	service.AssertNotCalled(t, "GetWorkspace", mock.Anything, mock.Anything)
	observer.AssertExpectations(t)
}

func TestHandler_DefaultCORS(t *testing.T) {
	t.Parallel()

	_, router := newTestRouter(t, defaultConfig())

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodOptions, "/workspace/1", nil),
		httptest.NewRequest(http.MethodOptions, "/anything", nil),
		httptest.NewRequest(http.MethodGet, "/workspace/1", nil),
		httptest.NewRequest(http.MethodGet, "/nothing/here", nil),
	} {
		rec := serve(router, req)

		if req.Method == http.MethodOptions {
			assert.Equal(t, http.StatusOK, rec.Code)
		}
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "accept, origin, Content-Type, Content-MD5, Authorization, Nonce", rec.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "GET, PUT", rec.Header().Get("Access-Control-Allow-Methods"))
	}
}

func TestHandler_ConfiguredCORS(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.CORS = workspacedhttp.CORSConfig{
		Enabled:        true,
		AllowedOrigins: []string{"https://diagrams.example.com"},
		AllowedMethods: []string{"GET", "PUT"},
		AllowedHeaders: []string{"Authorization", "Content-MD5", "Nonce", "Content-Type"},
	}
	_, router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/workspace/1", nil)
	req.Header.Set("Origin", "https://diagrams.example.com")
	req.Header.Set("Access-Control-Request-Method", "PUT")

	rec := serve(router, req)
	assert.Equal(t, "https://diagrams.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/workspace/1", nil)
	req.Header.Set("Origin", "https://elsewhere.example.com")

	rec = serve(router, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serve(router, httptest.NewRequest(http.MethodOptions, "/workspace/1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
