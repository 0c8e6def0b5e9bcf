package workspaced

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderContentMD5    = "Content-MD5"
	HeaderContentType   = "Content-Type"
	HeaderNonce         = "Nonce"
)

// Digester computes the content digest carried in the Content-MD5 header.
type Digester interface {
	Digest(content []byte) string
}

// MACGenerator computes the message authentication code over a canonical request.
type MACGenerator interface {
	Generate(secret, message string) string
}

// MD5Digest returns the lower-case hex MD5 of the content.
type MD5Digest struct{}

func (MD5Digest) Digest(content []byte) string {
	sum := md5.Sum(content)
	return hex.EncodeToString(sum[:])
}

// HMACSHA256 returns the lower-case hex HMAC-SHA256 of message keyed by secret.
type HMACSHA256 struct{}

func (HMACSHA256) Generate(secret, message string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// EncodeContentMD5 converts a hex digest into its Content-MD5 header form.
// The header carries base64 of the hex text, not of the raw digest bytes.
func EncodeContentMD5(hexDigest string) string {
	return base64.StdEncoding.EncodeToString([]byte(hexDigest))
}

// DecodeContentMD5 reverses EncodeContentMD5.
func DecodeContentMD5(header string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(header)
	if err != nil {
		return "", fmt.Errorf("decode content md5: %w", err)
	}
	return string(decoded), nil
}

// AuthorizationHeader is the parsed form of "<apiKey>:<base64(hexMAC)>".
type AuthorizationHeader struct {
	APIKey string
	// MAC is the hex MAC after base64 decoding.
	MAC string
}

// ParseAuthorizationHeader parses an Authorization header value. The value must
// contain exactly one ':' with a non-empty key and a non-empty base64 MAC.
func ParseAuthorizationHeader(raw string) (AuthorizationHeader, error) {
	if strings.Count(raw, ":") != 1 {
		return AuthorizationHeader{}, fmt.Errorf("parse authorization header: expected a single ':': %w", ErrMalformedHeader)
	}

	key, encodedMAC, _ := strings.Cut(raw, ":")
	if key == "" || encodedMAC == "" {
		return AuthorizationHeader{}, fmt.Errorf("parse authorization header: empty segment: %w", ErrMalformedHeader)
	}

	mac, err := base64.StdEncoding.DecodeString(encodedMAC)
	if err != nil {
		return AuthorizationHeader{}, fmt.Errorf("parse authorization header: invalid base64 mac: %w", ErrMalformedHeader)
	}

	return AuthorizationHeader{APIKey: key, MAC: string(mac)}, nil
}

func (h AuthorizationHeader) String() string {
	return h.APIKey + ":" + base64.StdEncoding.EncodeToString([]byte(h.MAC))
}

// CanonicalRequest is the message both sides feed to the MAC.
type CanonicalRequest struct {
	Method      string
	Path        string
	ContentMD5  string
	ContentType string
	Nonce       string
}

// NewCanonicalRequest builds a CanonicalRequest, dropping a trailing slash
// from path so /workspace/1 and /workspace/1/ sign identically.
func NewCanonicalRequest(method, path, contentMD5, contentType, nonce string) CanonicalRequest {
	return CanonicalRequest{
		Method:      method,
		Path:        NormalizePath(path),
		ContentMD5:  contentMD5,
		ContentType: contentType,
		Nonce:       nonce,
	}
}

// String renders each field followed by a newline, in fixed order.
func (c CanonicalRequest) String() string {
	var b strings.Builder
	for _, field := range []string{c.Method, c.Path, c.ContentMD5, c.ContentType, c.Nonce} {
		b.WriteString(field)
		b.WriteByte('\n')
	}
	return b.String()
}

// NormalizePath removes a single trailing slash, leaving "/" untouched.
func NormalizePath(p string) string {
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		return p[:len(p)-1]
	}
	return p
}

// NormalizeBasePath returns basePath with exactly one leading and one trailing slash.
func NormalizeBasePath(basePath string) string {
	trimmed := strings.Trim(basePath, "/")
	if trimmed == "" {
		return "/"
	}
	return "/" + trimmed + "/"
}

// CanonicalPath is the path signed for a workspace, or one of its resources
// when resource is non-empty: <basePath>workspace/<id>[/<resource>].
func CanonicalPath(basePath string, id int64, resource string) string {
	p := NormalizeBasePath(basePath) + "workspace/" + strconv.FormatInt(id, 10)
	if resource != "" {
		p += "/" + resource
	}
	return p
}
