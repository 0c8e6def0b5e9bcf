package keybackend

import "errors"

// ErrNoCredentials is returned when no static credentials are configured and
// there is no store to fall back to.
var ErrNoCredentials = errors.New("no credentials configured")
