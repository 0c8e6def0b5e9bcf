package workspaced

import "net/http"

// Reason classifies the outcome of an authentication attempt.
type Reason int

const (
	ReasonAllowed Reason = iota
	ReasonMissingHeader
	ReasonMalformedHeader
	ReasonKeyMismatch
	ReasonBodyTampered
	ReasonMACMismatch
)

func (r Reason) String() string {
	switch r {
	case ReasonAllowed:
		return "allowed"
	case ReasonMissingHeader:
		return "missing_header"
	case ReasonMalformedHeader:
		return "malformed_header"
	case ReasonKeyMismatch:
		return "key_mismatch"
	case ReasonBodyTampered:
		return "body_tampered"
	case ReasonMACMismatch:
		return "mac_mismatch"
	default:
		return "unknown"
	}
}

// Decision is the result of authenticating one request.
type Decision struct {
	Reason Reason
	// Header names the missing header for ReasonMissingHeader.
	Header string
	// Method records which check admitted the request when allowed.
	Method AuthMethod
}

func Allowed(method AuthMethod) Decision {
	return Decision{Reason: ReasonAllowed, Method: method}
}

func DeniedMissingHeader(name string) Decision {
	return Decision{Reason: ReasonMissingHeader, Header: name}
}

func DeniedMalformedHeader() Decision {
	return Decision{Reason: ReasonMalformedHeader}
}

func DeniedKeyMismatch() Decision {
	return Decision{Reason: ReasonKeyMismatch}
}

func DeniedBodyTampered() Decision {
	return Decision{Reason: ReasonBodyTampered}
}

func DeniedMACMismatch() Decision {
	return Decision{Reason: ReasonMACMismatch}
}

func (d Decision) Allowed() bool {
	return d.Reason == ReasonAllowed
}

// Message is the text returned to the client for a denial.
func (d Decision) Message() string {
	switch d.Reason {
	case ReasonAllowed:
		return "OK"
	case ReasonMissingHeader:
		if d.Header == HeaderAuthorization {
			return "Authorization header must be provided"
		}
		return "Request header missing: " + d.Header
	case ReasonMalformedHeader:
		return "Invalid authorization header"
	case ReasonKeyMismatch:
		return "Incorrect API key"
	case ReasonBodyTampered:
		return "MD5 hash doesn't match content"
	case ReasonMACMismatch:
		return "Authorization header doesn't match"
	default:
		return "Unauthorized"
	}
}

// StatusCode is the HTTP status for the decision. A malformed Authorization
// header is reported as 500 to stay compatible with existing clients.
func (d Decision) StatusCode() int {
	switch d.Reason {
	case ReasonAllowed:
		return http.StatusOK
	case ReasonMalformedHeader:
		return http.StatusInternalServerError
	default:
		return http.StatusUnauthorized
	}
}

func (d Decision) String() string {
	if d.Reason == ReasonMissingHeader {
		return d.Reason.String() + "(" + d.Header + ")"
	}
	return d.Reason.String()
}
