package types

import (
	"fmt"
	"net/http"
)

// Error types reported in CustomError.Type
const (
	TypeValidation      = "validation"
	TypeUnauthenticated = "unauthenticated"
	TypeForbidden       = "forbidden"
	TypeNotFound        = "not_found"
	TypeConflict        = "conflict"
	TypeInternal        = "internal"
)

// CustomError is a classified failure. Code is the HTTP status it maps to and
// Message is safe to show to the caller.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Err     error  `json:"-"`
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s [type: %s]: %v", e.Code, e.Message, e.Type, e.Err)
	}
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewValidationError reports malformed or out of range input
func NewValidationError(message string) *CustomError {
	return &CustomError{Code: http.StatusBadRequest, Message: message, Type: TypeValidation}
}

// NewUnauthenticatedError reports a missing or bad token, or bad credentials
func NewUnauthenticatedError(message string) *CustomError {
	return &CustomError{Code: http.StatusUnauthorized, Message: message, Type: TypeUnauthenticated}
}

// NewForbiddenError reports an authenticated caller that does not own the resource
func NewForbiddenError(message string) *CustomError {
	return &CustomError{Code: http.StatusForbidden, Message: message, Type: TypeForbidden}
}

// NewNotFoundError reports an absent entity
func NewNotFoundError(message string) *CustomError {
	return &CustomError{Code: http.StatusNotFound, Message: message, Type: TypeNotFound}
}

// NewConflictError reports a unique constraint violation
func NewConflictError(message string) *CustomError {
	return &CustomError{Code: http.StatusConflict, Message: message, Type: TypeConflict}
}

// NewInternalError wraps an unexpected failure. The cause is logged, never sent.
func NewInternalError(err error) *CustomError {
	return &CustomError{Code: http.StatusInternalServerError, Message: "Something went wrong!", Type: TypeInternal, Err: err}
}
