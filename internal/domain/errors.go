package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error the core returns matches exactly one of these via
// errors.Is, which is what the API layer uses to pick a status code.
var (
	// ErrAuthentication is returned when credentials or a token are missing or invalid.
	ErrAuthentication = errors.New("authentication failed")

	// ErrAuthorization is returned when the caller is known but not allowed.
	ErrAuthorization = errors.New("not authorized")

	// ErrNotFound is returned when a referenced entity or file does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an operation would violate a uniqueness rule.
	ErrConflict = errors.New("conflict")

	// ErrValidation is returned when a domain entity or query fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInternal is returned for unexpected storage or filesystem failures.
	ErrInternal = errors.New("internal error")
)

// Error carries a kind, a message that is safe to show to clients and an
// optional underlying cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind and the cause, so errors.Is matches either.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// NewAuthenticationError builds an error of kind ErrAuthentication.
func NewAuthenticationError(message string) error {
	return newError(ErrAuthentication, message, nil)
}

// NewAuthorizationError builds an error of kind ErrAuthorization.
func NewAuthorizationError(message string) error {
	return newError(ErrAuthorization, message, nil)
}

// NewNotFoundError builds an error of kind ErrNotFound.
func NewNotFoundError(message string) error {
	return newError(ErrNotFound, message, nil)
}

// NewConflictError builds an error of kind ErrConflict.
func NewConflictError(message string) error {
	return newError(ErrConflict, message, nil)
}

// NewValidationError builds an error of kind ErrValidation.
func NewValidationError(message string) error {
	return newError(ErrValidation, message, nil)
}

// NewInternalError builds an error of kind ErrInternal wrapping cause.
func NewInternalError(message string, cause error) error {
	return newError(ErrInternal, message, cause)
}

// PublicMessage returns the client-facing message of err. Internal causes are
// never included.
func PublicMessage(err error) string {
	var de *Error
	if errors.As(err, &de) {
		if de.Message != "" {
			return de.Message
		}
		return de.Kind.Error()
	}
	return ErrInternal.Error()
}

// KindOf returns the kind sentinel err matches, or ErrInternal when it
// matches none.
func KindOf(err error) error {
	for _, kind := range []error{
		ErrAuthentication,
		ErrAuthorization,
		ErrNotFound,
		ErrConflict,
		ErrValidation,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrInternal
}
