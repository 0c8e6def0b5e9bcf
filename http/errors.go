package http

import "errors"

// ErrRequestTooLarge is returned when a request body exceeds the configured limit.
var ErrRequestTooLarge = errors.New("request body too large")
