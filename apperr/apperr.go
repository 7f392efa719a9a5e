// Package apperr defines the error kinds surfaced by the forum services and
// their HTTP status mapping.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure for the API layer.
type Kind int

const (
	// Internal is an unexpected store or runtime failure.
	Internal Kind = iota
	// Validation is missing or invalid input.
	Validation
	// InvalidCredentials is a password mismatch on login.
	InvalidCredentials
	// Unauthorized means no bearer token was presented.
	Unauthorized
	// Forbidden means a bad token or a caller that does not own the resource.
	Forbidden
	// NotFound means the resource id does not resolve.
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case InvalidCredentials:
		return "invalid_credentials"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case Validation, InvalidCredentials:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a Kind, a client-facing message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error without a cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error around cause. An empty message falls back to the cause text.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// ValidationError is shorthand for New(Validation, msg).
func ValidationError(msg string) *Error { return New(Validation, msg) }

// NotFoundError is shorthand for New(NotFound, msg).
func NotFoundError(msg string) *Error { return New(NotFound, msg) }

// ForbiddenError is shorthand for New(Forbidden, msg).
func ForbiddenError(msg string) *Error { return New(Forbidden, msg) }

// InternalError wraps an unexpected failure, keeping its message verbatim.
func InternalError(cause error) *Error { return Wrap(Internal, "", cause) }

// KindOf reports the Kind of err. Errors that are not *Error are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}
