package api

import (
	"errors"
	"fmt"
)

// Error taxonomy for facade failures. Every failure crossing the client
// boundary is one of these four kinds; callers dispatch with errors.As and
// never see a raw transport error.

// AuthError covers invalid credentials and expired or invalid tokens. During
// non-login operations it is fatal to the session.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "authentication failed"
}

// ValidationError is a server-rejected field. Client-side validation catches
// most of these before a request is ever issued; this covers the rest.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ConflictError is a server-side uniqueness or business-rule violation, e.g.
// a duplicate email. Its message is shown to the user verbatim.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// TransportError is a network, timeout, or unexpected-shape failure. Users
// see a generic message; the wrapped cause goes to the log.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// genericTransportMessage is what users see when the server gave us nothing
// quotable.
const genericTransportMessage = "Something went wrong. Please try again."

// UserMessage returns the human-readable text to surface for a facade error:
// the server's own message verbatim when present, a generic transport message
// otherwise.
func UserMessage(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Error()
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Message
	}
	var confErr *ConflictError
	if errors.As(err, &confErr) && confErr.Message != "" {
		return confErr.Message
	}
	return genericTransportMessage
}

// IsAuth reports whether err is an AuthError, the session-fatal kind.
func IsAuth(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}
