package workspaced

import (
	"context"
	"crypto/hmac"
	"crypto/subtle"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// AuthRequest is the transport-independent view of a request to authenticate.
type AuthRequest struct {
	WorkspaceID int64
	Method      string
	// Path is the canonical path, see CanonicalPath.
	Path string
	// Body is the raw request body, nil when the request has none.
	Body   []byte
	Header http.Header
	Query  url.Values
	Mode   Mode
	// AllowQueryCredentials enables the ?key=&secret= bypass for this request.
	AllowQueryCredentials bool
}

// Authenticator decides whether a request may act on a workspace.
// It holds no per-request state and is safe for concurrent use.
type Authenticator struct {
	store    CredentialStore
	digester Digester
	mac      MACGenerator
}

// AuthenticatorOption configures an Authenticator.
type AuthenticatorOption func(*Authenticator)

// WithDigester replaces the default MD5 content digester.
func WithDigester(d Digester) AuthenticatorOption {
	return func(a *Authenticator) {
		a.digester = d
	}
}

// WithMACGenerator replaces the default HMAC-SHA256 generator.
func WithMACGenerator(m MACGenerator) AuthenticatorOption {
	return func(a *Authenticator) {
		a.mac = m
	}
}

func NewAuthenticator(store CredentialStore, opts ...AuthenticatorOption) *Authenticator {
	a := &Authenticator{
		store:    store,
		digester: MD5Digest{},
		mac:      HMACSHA256{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Authenticate runs the checks in order and returns the first failing one as a
// denied Decision:
//
//  1. query credentials (key and secret UUIDs equal to the stored pair), when allowed
//  2. Authorization header present
//  3. Authorization header well formed
//  4. API key matches the stored key
//  5. AllowKeyOnly mode stops here
//  6. Nonce and Content-MD5 headers present
//  7. Content-MD5 matches the body digest
//  8. MAC over the canonical request matches, compared in constant time
//
// A non-nil error means a credential lookup failed; the Decision is then zero
// and must not be used.
func (a *Authenticator) Authenticate(ctx context.Context, req AuthRequest) (Decision, error) {
	if req.AllowQueryCredentials {
		ok, err := a.queryCredentialsMatch(ctx, req)
		if err != nil {
			return Decision{}, err
		}
		if ok {
			return Allowed(MethodQuery), nil
		}
	}

	rawAuth := strings.TrimSpace(req.Header.Get(HeaderAuthorization))
	if rawAuth == "" {
		return DeniedMissingHeader(HeaderAuthorization), nil
	}

	authHeader, err := ParseAuthorizationHeader(rawAuth)
	if err != nil {
		return DeniedMalformedHeader(), nil
	}

	apiKey, err := a.store.APIKey(ctx, req.WorkspaceID)
	if err != nil {
		return Decision{}, fmt.Errorf("authenticate: %w", err)
	}

	if authHeader.APIKey != apiKey {
		return DeniedKeyMismatch(), nil
	}

	if req.Mode == AllowKeyOnly {
		return Allowed(MethodKeyOnly), nil
	}

	nonce := req.Header.Get(HeaderNonce)
	if nonce == "" {
		return DeniedMissingHeader(HeaderNonce), nil
	}

	contentMD5Header := req.Header.Get(HeaderContentMD5)
	if contentMD5Header == "" {
		return DeniedMissingHeader(HeaderContentMD5), nil
	}

	contentMD5, err := DecodeContentMD5(contentMD5Header)
	if err != nil {
		return DeniedBodyTampered(), nil
	}

	if contentMD5 != a.digester.Digest(req.Body) {
		return DeniedBodyTampered(), nil
	}

	apiSecret, err := a.store.APISecret(ctx, req.WorkspaceID)
	if err != nil {
		return Decision{}, fmt.Errorf("authenticate: %w", err)
	}

	canonical := NewCanonicalRequest(req.Method, req.Path, contentMD5, req.Header.Get(HeaderContentType), nonce)
	expected := a.mac.Generate(apiSecret, canonical.String())

	if !hmac.Equal([]byte(expected), []byte(authHeader.MAC)) {
		return DeniedMACMismatch(), nil
	}

	return Allowed(MethodSignature), nil
}

func (a *Authenticator) queryCredentialsMatch(ctx context.Context, req AuthRequest) (bool, error) {
	key := req.Query.Get("key")
	secret := req.Query.Get("secret")
	if !IsUUID(key) || !IsUUID(secret) {
		return false, nil
	}

	apiKey, err := a.store.APIKey(ctx, req.WorkspaceID)
	if err != nil {
		return false, fmt.Errorf("authenticate: %w", err)
	}

	apiSecret, err := a.store.APISecret(ctx, req.WorkspaceID)
	if err != nil {
		return false, fmt.Errorf("authenticate: %w", err)
	}

	keyMatch := subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1
	secretMatch := subtle.ConstantTimeCompare([]byte(secret), []byte(apiSecret)) == 1

	return keyMatch && secretMatch, nil
}
