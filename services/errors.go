package services

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Kind classifies a service failure
type Kind string

const (
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindForbidden          Kind = "FORBIDDEN"
	KindValidation         Kind = "VALIDATION_ERROR"
	KindNotFound           Kind = "NOT_FOUND"
	KindConflict           Kind = "CONFLICT"
	KindStorage            Kind = "STORAGE_ERROR"
	KindUnavailable        Kind = "SERVICE_UNAVAILABLE"
)

// Error is the typed error returned by every service.
// Message is safe to show to clients. Cause is for logs only.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "invalid email or password"}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "operation not permitted for this role"}
	ErrValidation         = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "resource not found"}
	ErrConflict           = &Error{Kind: KindConflict, Message: "resource already exists"}
	ErrStorage            = &Error{Kind: KindStorage, Message: "storage failure"}
)

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// HTTPStatus maps the kind onto a response status
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (e *Error) ErrorCode() string {
	return string(e.Kind)
}

// PublicMessage hides storage causes from clients
func (e *Error) PublicMessage() string {
	if e.Kind == KindStorage {
		return "Internal server error"
	}
	return e.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func notFound(message string) *Error {
	return newError(KindNotFound, message)
}

func validationError(message string) *Error {
	return newError(KindValidation, message)
}

func forbidden(op Operation) *Error {
	return newError(KindForbidden, "role may not "+string(op))
}

// storageError wraps an unexpected database error. Errors that are already
// typed pass through unchanged.
func storageError(message string, cause error) error {
	var typed *Error
	if errors.As(cause, &typed) {
		return typed
	}
	return &Error{Kind: KindStorage, Message: message, Cause: cause}
}

// lookupError turns gorm.ErrRecordNotFound into a NotFound and wraps anything else
func lookupError(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(what + " not found")
	}
	return storageError("failed to load "+what, err)
}
