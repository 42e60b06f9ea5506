package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

// Error kinds
const (
	KindInternal Kind = iota
	// KindRoutingMismatch is a view that is not allowed by the feature flags.
	// Recovered by redirecting to the sign-in view.
	KindRoutingMismatch
	// KindValidation blocks a submission before any backend call.
	KindValidation
	// KindDelegatedFailure wraps an error returned by the auth backend.
	KindDelegatedFailure
	// KindConfiguration is a configuration problem that is logged and skipped.
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindRoutingMismatch:
		return "routing_mismatch"
	case KindValidation:
		return "validation"
	case KindDelegatedFailure:
		return "delegated_failure"
	case KindConfiguration:
		return "configuration"
	default:
		return "internal"
	}
}

// AppError represents an application error
type AppError struct {
	Kind    Kind   `json:"-"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the machine readable code.
func (e *AppError) ErrorCode() string {
	return e.Code
}

// ErrorMessage returns the message without the wrapped error.
func (e *AppError) ErrorMessage() string {
	return e.Message
}

// StatusCode maps the kind to the HTTP status used by JSON clients.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindRoutingMismatch:
		return http.StatusFound
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindDelegatedFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func RoutingMismatch(view string) *AppError {
	return &AppError{
		Kind:    KindRoutingMismatch,
		Code:    "ROUTING_MISMATCH",
		Message: fmt.Sprintf("view %q is not enabled", view),
	}
}

func Validation(field, message string) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Code:    "VALIDATION_ERROR",
		Message: message,
		Field:   field,
	}
}

// DelegatedFailure wraps a backend error keeping its machine readable code.
func DelegatedFailure(code, message string, err error) *AppError {
	return &AppError{
		Kind:    KindDelegatedFailure,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func Configuration(message string, err error) *AppError {
	return &AppError{
		Kind:    KindConfiguration,
		Code:    "CONFIGURATION_ERROR",
		Message: message,
		Err:     err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Kind:    KindInternal,
		Code:    "INTERNAL_ERROR",
		Message: "internal server error",
		Err:     err,
	}
}

// KindOf returns the kind of the first AppError in err's chain.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// As is errors.As re-exported so callers need a single errors import.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Is is errors.Is re-exported so callers need a single errors import.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// New is errors.New re-exported so callers need a single errors import.
func New(text string) error {
	return stderrors.New(text)
}
