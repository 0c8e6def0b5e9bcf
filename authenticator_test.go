package workspaced_test

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"testing"

	"github.com/sagarc03/workspaced"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testWorkspaceKey    = "key"
	testWorkspaceSecret = "secret"
	testSignedAuth      = "key:NWNkODEzYjVkZDE2ZGIzYmFlZDcxNjM5MjY3YjFhNGZiNDc5YjY1MzZiMzkwMjUyYzk3MGVhM2IyNmU4ZWI5OQ=="
	testJSONContentMD5  = "NDY2ZGVlYzc2ZWNkZjVmY2E2ZDM4NTcxZjYzMjRkNTQ="
	testNonce           = "1234567890"
)

type staticCredentials map[int64][2]string

func (s staticCredentials) APIKey(_ context.Context, id int64) (string, error) {
	c, ok := s[id]
	if !ok {
		return "", workspaced.CredentialNotFound(id, "API key")
	}
	return c[0], nil
}

func (s staticCredentials) APISecret(_ context.Context, id int64) (string, error) {
	c, ok := s[id]
	if !ok {
		return "", workspaced.CredentialNotFound(id, "API secret")
	}
	return c[1], nil
}

func signedHeader(auth, contentMD5, nonce string) http.Header {
	h := http.Header{}
	if auth != "" {
		h.Set(workspaced.HeaderAuthorization, auth)
	}
	if contentMD5 != "" {
		h.Set(workspaced.HeaderContentMD5, contentMD5)
	}
	if nonce != "" {
		h.Set(workspaced.HeaderNonce, nonce)
	}
	return h
}

func TestAuthenticator_Authenticate(t *testing.T) {
	t.Parallel()

	const (
		uuidKey    = "8c3e7b0a-6a55-4e4f-9d0e-0b7d0c7f6e21"
		uuidSecret = "1f2d3c4b-5a69-4788-97a6-b5c4d3e2f101"
	)

	store := staticCredentials{
		1: {testWorkspaceKey, testWorkspaceSecret},
		2: {uuidKey, uuidSecret},
	}
	auth := workspaced.NewAuthenticator(store)

	tests := []struct {
		name       string
		req        workspaced.AuthRequest
		wantReason workspaced.Reason
		wantMethod workspaced.AuthMethod
		wantHeader string
		wantStatus int
		wantMsg    string
	}{
		{
			name: "valid signature",
			req: workspaced.AuthRequest{
				WorkspaceID: 1, Method: "PUT", Path: "/workspace/1", Body: []byte("json"),
				Header: signedHeader(testSignedAuth, testJSONContentMD5, testNonce),
			},
			wantReason: workspaced.ReasonAllowed,
			wantMethod: workspaced.MethodSignature,
			wantStatus: http.StatusOK,
		},
		{
			name: "valid signature with trailing slash path",
			req: workspaced.AuthRequest{
				WorkspaceID: 1, Method: "PUT", Path: "/workspace/1/", Body: []byte("json"),
				Header: signedHeader(testSignedAuth, testJSONContentMD5, testNonce),
			},
			wantReason: workspaced.ReasonAllowed,
			wantMethod: workspaced.MethodSignature,
			wantStatus: http.StatusOK,
		},
		{
			name: "missing authorization header",
			req: workspaced.AuthRequest{
				WorkspaceID: 1, Method: "GET", Path: "/workspace/1", Header: http.Header{},
			},
			wantReason: workspaced.ReasonMissingHeader,
			wantHeader: "Authorization",
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Authorization header must be provided",
		},
		{
			name: "blank authorization header",
			req: workspaced.AuthRequest{
				WorkspaceID: 1, Method: "GET", Path: "/workspace/1", Header: signedHeader("   ", "", ""),
			},
			wantReason: workspaced.ReasonMissingHeader,
			wantHeader: "Authorization",
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Authorization header must be provided",
		},
		{
			name: "malformed authorization header",
			req: workspaced.AuthRequest{
				WorkspaceID: 1, Method: "GET", Path: "/workspace/1", Header: signedHeader("key", "", ""),
			},
			wantReason: workspaced.ReasonMalformedHeader,
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Invalid authorization header",
		},
		{
			name: "incorrect api key",
			req: workspaced.AuthRequest{
				WorkspaceID: 1, Method: "GET", Path: "/workspace/1", Header: signedHeader("otherKey:c2lnbmF0dXJl", "", ""),
			},
			wantReason: workspaced.ReasonKeyMismatch,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Incorrect API key",
		},
		{
			name: "key only mode accepts matching key",
			req: workspaced.AuthRequest{
				WorkspaceID: 1, Method: "GET", Path: "/workspace/1", Mode: workspaced.AllowKeyOnly,
				Header: signedHeader("key:NzdiN2M0MjAyNjA3MmJhYWZkYzUzZTgwZWJhNzRmYzE1YmIyYjE4NjBhZTdmODYxMDJhZThlODRkZjM1MTExYw==", "", ""),
			},
			wantReason: workspaced.ReasonAllowed,
			wantMethod: workspaced.MethodKeyOnly,
			wantStatus: http.StatusOK,
		},
		{
			name: "key only mode still rejects wrong key",
			req: workspaced.AuthRequest{
				WorkspaceID: 1, Method: "GET", Path: "/workspace/1", Mode: workspaced.AllowKeyOnly,
				Header: signedHeader("otherKey:c2lnbmF0dXJl", "", ""),
			},
			wantReason: workspaced.ReasonKeyMismatch,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Incorrect API key",
		},
		{
			name: "missing nonce reported before content md5",
			req: workspaced.AuthRequest{
				WorkspaceID: 1, Method: "PUT", Path: "/workspace/1", Body: []byte("json"),
				Header: signedHeader(testSignedAuth, "", ""),
			},
			wantReason: workspaced.ReasonMissingHeader,
			wantHeader: "Nonce",
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Request header missing: Nonce",
		},
		{
			name: "missing content md5",
			req: workspaced.AuthRequest{
				WorkspaceID: 1, Method: "PUT", Path: "/workspace/1", Body: []byte("json"),
				Header: signedHeader(testSignedAuth, "", testNonce),
			},
			wantReason: workspaced.ReasonMissingHeader,
			wantHeader: "Content-MD5",
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Request header missing: Content-MD5",
		},
		{
			name: "content md5 does not match body",
			req: workspaced.AuthRequest{
				WorkspaceID: 1, Method: "PUT", Path: "/workspace/1", Body: []byte("json"),
				Header: signedHeader(testSignedAuth, "ZmM1ZTAzOGQzOGE1NzAzMjA4NTQ0MWU3ZmU3MDEwYjA=", testNonce),
			},
			wantReason: workspaced.ReasonBodyTampered,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "MD5 hash doesn't match content",
		},
		{
			name: "content md5 not base64",
			req: workspaced.AuthRequest{
				WorkspaceID: 1, Method: "PUT", Path: "/workspace/1", Body: []byte("json"),
				Header: signedHeader(testSignedAuth, "%%%", testNonce),
			},
			wantReason: workspaced.ReasonBodyTampered,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "MD5 hash doesn't match content",
		},
		{
			name: "body changed after signing",
			req: workspaced.AuthRequest{
				WorkspaceID: 1, Method: "PUT", Path: "/workspace/1", Body: []byte("JSON"),
				Header: signedHeader(testSignedAuth, testJSONContentMD5, testNonce),
			},
			wantReason: workspaced.ReasonBodyTampered,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "MD5 hash doesn't match content",
		},
		{
			name: "nonce changed after signing",
			req: workspaced.AuthRequest{
				WorkspaceID: 1, Method: "PUT", Path: "/workspace/1", Body: []byte("json"),
				Header: signedHeader(testSignedAuth, testJSONContentMD5, "1234567891"),
			},
			wantReason: workspaced.ReasonMACMismatch,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Authorization header doesn't match",
		},
		{
			name: "path changed after signing",
			req: workspaced.AuthRequest{
				WorkspaceID: 1, Method: "PUT", Path: "/ctx/workspace/1", Body: []byte("json"),
				Header: signedHeader(testSignedAuth, testJSONContentMD5, testNonce),
			},
			wantReason: workspaced.ReasonMACMismatch,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Authorization header doesn't match",
		},
		{
			name: "query credentials bypass",
			req: workspaced.AuthRequest{
				WorkspaceID: 2, Method: "GET", Path: "/workspace/2", Header: http.Header{},
				Query:                 url.Values{"key": {uuidKey}, "secret": {uuidSecret}},
				AllowQueryCredentials: true,
			},
			wantReason: workspaced.ReasonAllowed,
			wantMethod: workspaced.MethodQuery,
			wantStatus: http.StatusOK,
		},
		{
			name: "query credentials ignored when not allowed",
			req: workspaced.AuthRequest{
				WorkspaceID: 2, Method: "PUT", Path: "/workspace/2", Header: http.Header{},
				Query: url.Values{"key": {uuidKey}, "secret": {uuidSecret}},
			},
			wantReason: workspaced.ReasonMissingHeader,
			wantHeader: "Authorization",
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Authorization header must be provided",
		},
		{
			name: "query credentials with wrong secret fall through",
			req: workspaced.AuthRequest{
				WorkspaceID: 2, Method: "GET", Path: "/workspace/2", Header: http.Header{},
				Query:                 url.Values{"key": {uuidKey}, "secret": {uuidKey}},
				AllowQueryCredentials: true,
			},
			wantReason: workspaced.ReasonMissingHeader,
			wantHeader: "Authorization",
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Authorization header must be provided",
		},
		{
			name: "query credentials that are not uuids fall through",
			req: workspaced.AuthRequest{
				WorkspaceID: 1, Method: "GET", Path: "/workspace/1", Header: http.Header{},
				Query:                 url.Values{"key": {"key"}, "secret": {"secret"}},
				AllowQueryCredentials: true,
			},
			wantReason: workspaced.ReasonMissingHeader,
			wantHeader: "Authorization",
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Authorization header must be provided",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := auth.Authenticate(context.Background(), tt.req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantReason, got.Reason, "reason: %s", got)
			assert.Equal(t, tt.wantMethod, got.Method)
			assert.Equal(t, tt.wantHeader, got.Header)
			assert.Equal(t, tt.wantStatus, got.StatusCode())
			assert.Equal(t, tt.wantReason == workspaced.ReasonAllowed, got.Allowed())
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, got.Message())
			}
		})
	}
}

func TestAuthenticator_LookupFailure(t *testing.T) {
	t.Parallel()

	auth := workspaced.NewAuthenticator(staticCredentials{})

	_, err := auth.Authenticate(context.Background(), workspaced.AuthRequest{
		WorkspaceID: 9,
		Method:      "GET",
		Path:        "/workspace/9",
		Header:      signedHeader(testSignedAuth, "", ""),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, workspaced.ErrNotFound)
	assert.Equal(t, "Could not find API key for workspace 9", workspaced.ErrorMessage(err))
}

func TestAuthenticator_MalformedHeaderBeforeLookup(t *testing.T) {
	t.Parallel()

	auth := workspaced.NewAuthenticator(staticCredentials{})

	got, err := auth.Authenticate(context.Background(), workspaced.AuthRequest{
		WorkspaceID: 9,
		Method:      "GET",
		Path:        "/workspace/9",
		Header:      signedHeader("no-colon", "", ""),
	})
	require.NoError(t, err)
	assert.Equal(t, workspaced.ReasonMalformedHeader, got.Reason)
}

type recordingDigester struct {
	mu    sync.Mutex
	calls int
}

func (d *recordingDigester) Digest(content []byte) string {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()
	return workspaced.MD5Digest{}.Digest(content)
}

func TestAuthenticator_WithDigester(t *testing.T) {
	t.Parallel()

	digester := &recordingDigester{}
	auth := workspaced.NewAuthenticator(
		staticCredentials{1: {testWorkspaceKey, testWorkspaceSecret}},
		workspaced.WithDigester(digester),
		workspaced.WithMACGenerator(workspaced.HMACSHA256{}),
	)

	got, err := auth.Authenticate(context.Background(), workspaced.AuthRequest{
		WorkspaceID: 1, Method: "PUT", Path: "/workspace/1", Body: []byte("json"),
		Header: signedHeader(testSignedAuth, testJSONContentMD5, testNonce),
	})
	require.NoError(t, err)
	assert.True(t, got.Allowed())
	assert.Equal(t, 1, digester.calls)
}

func TestAuthenticator_ConcurrentUse(t *testing.T) {
	t.Parallel()

	auth := workspaced.NewAuthenticator(staticCredentials{1: {testWorkspaceKey, testWorkspaceSecret}})

	var wg sync.WaitGroup
	results := make([]workspaced.Decision, 50)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := []byte("json")
			if i%2 == 1 {
				body = []byte("tampered")
			}
			d, err := auth.Authenticate(context.Background(), workspaced.AuthRequest{
				WorkspaceID: 1, Method: "PUT", Path: "/workspace/1", Body: body,
				Header: signedHeader(testSignedAuth, testJSONContentMD5, testNonce),
			})
			assert.NoError(t, err)
			results[i] = d
		}(i)
	}
	wg.Wait()

	for i, d := range results {
		if i%2 == 1 {
			assert.Equal(t, workspaced.ReasonBodyTampered, d.Reason)
		} else {
			assert.True(t, d.Allowed())
		}
	}
}

func TestSigner_SignIsAccepted(t *testing.T) {
	t.Parallel()

	store := staticCredentials{1: {testWorkspaceKey, testWorkspaceSecret}}
	auth := workspaced.NewAuthenticator(store)

	tests := []struct {
		name        string
		method      string
		body        []byte
		contentType string
	}{
		{name: "put with json", method: http.MethodPut, body: []byte(`{"id":1}`), contentType: "application/json; charset=UTF-8"},
		{name: "get without body", method: http.MethodGet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			signer := workspaced.NewSigner(testWorkspaceKey, testWorkspaceSecret)
			req, err := http.NewRequest(tt.method, "http://localhost/ctx/workspace/1", nil)
			require.NoError(t, err)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			signer.Sign(req, "/ctx/workspace/1", tt.body)

			got, err := auth.Authenticate(context.Background(), workspaced.AuthRequest{
				WorkspaceID: 1, Method: tt.method, Path: "/ctx/workspace/1", Body: tt.body, Header: req.Header,
			})
			require.NoError(t, err)
			assert.True(t, got.Allowed(), "decision: %s", got)
		})
	}
}

func TestAuthenticator_BlankNonceIsPresent(t *testing.T) {
	t.Parallel()

	store := staticCredentials{1: {testWorkspaceKey, testWorkspaceSecret}}
	auth := workspaced.NewAuthenticator(store)

	// Only an empty Nonce is missing; a whitespace nonce is signed like any other.
	signer := workspaced.NewSigner(testWorkspaceKey, testWorkspaceSecret, workspaced.WithNonce(func() string { return " " }))
	req, err := http.NewRequest(http.MethodPut, "http://localhost/workspace/1", nil)
	require.NoError(t, err)
	body := []byte("json")
	signer.Sign(req, "/workspace/1", body)

	got, err := auth.Authenticate(context.Background(), workspaced.AuthRequest{
		WorkspaceID: 1, Method: http.MethodPut, Path: "/workspace/1", Body: body, Header: req.Header,
	})
	require.NoError(t, err)
	assert.True(t, got.Allowed(), "decision: %s", got)

	req.Header.Set(workspaced.HeaderNonce, "")
	got, err = auth.Authenticate(context.Background(), workspaced.AuthRequest{
		WorkspaceID: 1, Method: http.MethodPut, Path: "/workspace/1", Body: body, Header: req.Header,
	})
	require.NoError(t, err)
	assert.Equal(t, "Request header missing: Nonce", got.Message())
}

func TestSigner_MatchesKnownVector(t *testing.T) {
	t.Parallel()

	signer := workspaced.NewSigner(testWorkspaceKey, testWorkspaceSecret, workspaced.WithNonce(func() string { return testNonce }))
	req, err := http.NewRequest(http.MethodPut, "http://localhost/workspace/1", nil)
	require.NoError(t, err)

	signer.Sign(req, "/workspace/1", []byte("json"))

	assert.Equal(t, testSignedAuth, req.Header.Get("Authorization"))
	assert.Equal(t, testJSONContentMD5, req.Header.Get("Content-MD5"))
	assert.Equal(t, testNonce, req.Header.Get("Nonce"))
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "missing_header(Nonce)", workspaced.DeniedMissingHeader("Nonce").String())
	assert.Equal(t, "mac_mismatch", workspaced.DeniedMACMismatch().String())
	assert.Equal(t, "allowed", workspaced.Allowed(workspaced.MethodQuery).String())
}
