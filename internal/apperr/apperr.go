// Package apperr defines the error taxonomy shared by the store, chat
// service, and HTTP handlers. Errors carry a Kind so callers can branch
// without string matching; the HTTP layer maps kinds to status codes in
// exactly one place.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies an application error.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation covers malformed or missing required fields, including
	// references that do not resolve to known users.
	KindValidation
	// KindNotFound covers a referenced message or user that does not exist.
	KindNotFound
	// KindAuthorization covers an actor operating on a resource they do not
	// own, e.g. marking another user's received message read.
	KindAuthorization
	// KindConflict covers uniqueness violations on email or contact number.
	KindConflict
	// KindTransient covers store or transport timeouts; safe to retry.
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuthorization:
		return "authorization"
	case KindConflict:
		return "conflict"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Error is a classified application error.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a KindValidation error.
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// NotFound returns a KindNotFound error.
func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// Authorization returns a KindAuthorization error.
func Authorization(msg string) error {
	return &Error{Kind: KindAuthorization, Msg: msg}
}

// Conflict returns a KindConflict error.
func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Msg: msg}
}

// Transient wraps err as a retryable KindTransient error.
func Transient(msg string, err error) error {
	return &Error{Kind: KindTransient, Msg: msg, Err: err}
}

// KindOf extracts the Kind from err, unwrapping as needed.
// Unclassified errors report KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Message returns the human-readable message for classified errors, or a
// generic message otherwise so internals never leak to clients.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal server error"
}

// HTTPStatus maps an error to the status code the handlers respond with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	case KindAuthorization:
		return fiber.StatusForbidden
	case KindConflict:
		return fiber.StatusConflict
	case KindTransient:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
