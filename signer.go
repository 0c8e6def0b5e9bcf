package workspaced

import (
	"net/http"
	"strconv"
	"time"
)

// Signer adds the headers an Authenticator expects to outgoing requests.
type Signer struct {
	APIKey    string
	APISecret string

	digester Digester
	mac      MACGenerator
	nonce    func() string
}

// SignerOption configures a Signer.
type SignerOption func(*Signer)

// WithNonce overrides nonce generation, mostly for deterministic tests.
func WithNonce(fn func() string) SignerOption {
	return func(s *Signer) {
		s.nonce = fn
	}
}

func NewSigner(apiKey, apiSecret string, opts ...SignerOption) *Signer {
	s := &Signer{
		APIKey:    apiKey,
		APISecret: apiSecret,
		digester:  MD5Digest{},
		mac:       HMACSHA256{},
		nonce: func() string {
			return strconv.FormatInt(time.Now().UnixMilli(), 10)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sign sets Content-MD5, Nonce and Authorization on req for the given body.
// path must be the canonical path the server will compute for req.
func (s *Signer) Sign(req *http.Request, path string, body []byte) {
	contentMD5 := s.digester.Digest(body)
	nonce := s.nonce()

	canonical := NewCanonicalRequest(req.Method, path, contentMD5, req.Header.Get(HeaderContentType), nonce)
	auth := AuthorizationHeader{
		APIKey: s.APIKey,
		MAC:    s.mac.Generate(s.APISecret, canonical.String()),
	}

	req.Header.Set(HeaderContentMD5, EncodeContentMD5(contentMD5))
	req.Header.Set(HeaderNonce, nonce)
	req.Header.Set(HeaderAuthorization, auth.String())
}
