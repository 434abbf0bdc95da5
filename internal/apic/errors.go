package apic

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned when a query is issued on a session that
// never logged in or has already been closed.
var ErrNotAuthenticated = errors.New("session is not authenticated")

// NetworkError means the controller could not be reached at all: DNS, TCP,
// TLS handshake or a request timeout.
type NetworkError struct {
	Host string
	Op   string
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %s: unreachable: %v", e.Host, e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AuthError is a non-2xx answer to login or to any authenticated call,
// including an expired or invalid session.
type AuthError struct {
	Host       string
	Op         string
	StatusCode int
	Body       string // first 512 bytes, or the APIC error text when present
	Err        error
}

func (e *AuthError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s: %v", e.Host, e.Op, e.Err)
	}
	if e.Body == "" {
		return fmt.Sprintf("%s: %s: HTTP %d", e.Host, e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s: HTTP %d: %s", e.Host, e.Op, e.StatusCode, e.Body)
}

func (e *AuthError) Unwrap() error { return e.Err }

// QueryError is a 2xx answer whose body does not have the expected shape.
type QueryError struct {
	Host string
	Op   string
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s: unexpected response: %v", e.Host, e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
