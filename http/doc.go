// Package http serves workspace documents over HTTP.
//
// Routes, relative to HandlerConfig.BasePath:
//
//	GET     /workspace/{id}              workspace document as JSON
//	GET     /workspace/{id}/{image}      workspace image (.png, .jpg, .jpeg, .gif)
//	PUT     /workspace/{id}              replace the workspace document
//	POST    /workspace/{id}?key=&secret= provision credentials (AllowCreate only)
//	OPTIONS /*                           CORS preflight
//
// # Authentication
//
// Every GET and PUT is checked by an Authenticator before the Service is
// called. Clients sign requests with an HMAC-SHA256 over
//
//	method \n path \n md5(body) \n content-type \n nonce \n
//
// and send the result as "Authorization: <key>:<base64(hex mac)>" together with
// the Content-MD5 and Nonce headers. workspaced.Signer produces these headers:
//
//	signer := workspaced.NewSigner(apiKey, apiSecret)
//	signer.Sign(req, workspaced.CanonicalPath("/", 1, ""), body)
//
// Reads may be admitted on the API key alone (AuthConfig.KeyOnlyReads), and
// matching ?key=&secret= query parameters bypass the header checks when
// AuthConfig.QueryCredentials is set.
//
// # Usage
//
//	handlerCfg := http.HandlerConfig{
//	    BasePath:      "/",
//	    MaxUploadSize: 10 << 20,
//	    Auth:          http.AuthConfig{KeyOnlyReads: true},
//	}
//	handler := http.NewHandler(&handlerCfg, service, workspaced.NewAuthenticator(store))
//	http.ListenAndServe(":8080", handler.Router())
//
// Responses other than documents and images are {"message": "..."} bodies.
// Authentication failures are 401, except a malformed Authorization header
// which is reported as 500 alongside every other server-side failure.
package http
