// Package workspaced stores JSON workspace documents behind an HMAC
// request-signing scheme compatible with Structurizr clients.
//
// Each workspace is addressed by a positive integer id and owns an API key and
// API secret. Writes must carry a signed Authorization header; reads may be
// authorised with the API key alone.
//
// # Request Signing
//
// A signed request carries four headers:
//
//   - Content-MD5: base64 of the lower-case hex MD5 of the body
//   - Content-Type: optional, signed as the empty string when absent
//   - Nonce: any non-empty value, typically a millisecond timestamp
//   - Authorization: "<apiKey>:<base64(hexHMAC)>"
//
// The HMAC is HMAC-SHA256 keyed with the API secret over the canonical request:
//
//	METHOD\nPATH\nCONTENT_MD5_HEX\nCONTENT_TYPE\nNONCE\n
//
// # Key Components
//
//   - Authenticator: decides whether a request is allowed, returning a Decision
//   - Signer: the client half, producing headers the Authenticator accepts
//   - WorkspaceService: workspace reads, writes and provisioning over a WorkspaceStore
//   - ResolveAddress: maps a request path to a workspace id and optional resource
//
// # Example Usage
//
//	auth := workspaced.NewAuthenticator(store)
//	decision, err := auth.Authenticate(ctx, workspaced.AuthRequest{
//	    WorkspaceID: 1,
//	    Method:      http.MethodPut,
//	    Path:        workspaced.CanonicalPath("/", 1, ""),
//	    Body:        body,
//	    Header:      r.Header,
//	    Mode:        workspaced.RequireSignature,
//	})
//	if err != nil {
//	    // credential lookup failed
//	}
//	if !decision.Allowed() {
//	    http.Error(w, decision.Message(), decision.StatusCode())
//	}
//
// See the http package for the REST API and the filesystem and database
// packages for WorkspaceStore implementations.
package workspaced
