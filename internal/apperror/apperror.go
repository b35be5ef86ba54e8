// Package apperror defines the application error taxonomy. Services return
// *Error values; the HTTP boundary maps the kind to a status code and a
// uniform response envelope. Match with errors.As.
package apperror

import (
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// KindInternal covers unexpected downstream failures.
	KindInternal Kind = iota
	// KindValidation covers missing or blank required input.
	KindValidation
	// KindConflict covers duplicate identity fields.
	KindConflict
	// KindUnauthorized covers bad credentials and invalid, expired or stale tokens.
	KindUnauthorized
	// KindNotFound covers lookups of unknown identities.
	KindNotFound
	// KindUpload covers failures of the external asset store.
	KindUpload
)

// HTTPStatus returns the response status code for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is the taxonomy error type. Message is safe to surface to clients;
// Err keeps the wrapped cause for logs only.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NewValidationError(message string, details ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func NewConflictError(message string, details ...string) *Error {
	return &Error{Kind: KindConflict, Message: message, Details: details}
}

func NewUnauthorizedError(message string, err error) *Error {
	return &Error{Kind: KindUnauthorized, Message: message, Err: err}
}

func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewUploadError(message string, err error) *Error {
	return &Error{Kind: KindUpload, Message: message, Err: err}
}

func NewInternalError(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}
