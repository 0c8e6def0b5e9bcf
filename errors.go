package workspaced

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a workspace, credential or resource is not found
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when creating a workspace that already has credentials
	ErrAlreadyExists = errors.New("already exists")
	// ErrInternal is returned when an internal error occurs
	ErrInternal = errors.New("internal error")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrMalformedHeader is returned when an Authorization header cannot be parsed
	ErrMalformedHeader = errors.New("malformed authorization header")
)

// Error pairs a message that is safe to show to API clients with the
// underlying cause. Transport layers use Message as the response body while
// errors.Is still matches the wrapped sentinel.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an *Error wrapping err with a formatted client message.
func NewError(err error, format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...), Err: err}
}

// ErrorMessage returns the client-facing message carried by err, falling
// back to err.Error() when err does not wrap an *Error.
func ErrorMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// CredentialNotFound is the error stores return when a workspace lacks the
// named credential ("API key" or "API secret").
func CredentialNotFound(id int64, credential string) error {
	return NewError(ErrNotFound, "Could not find %s for workspace %d", credential, id)
}
