package authclient

import (
	"errors"
	"fmt"
)

// Codes produced locally rather than by the backend.
const (
	CodeUnavailable = "SERVICE_UNAVAILABLE"
	CodeUnknown     = "UNKNOWN_ERROR"
)

// Error is a failed backend operation.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth backend: %s (%s): %v", e.Message, e.Code, e.Err)
	}
	return fmt.Sprintf("auth backend: %s (%s)", e.Message, e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode implements localization.Coder.
func (e *Error) ErrorCode() string {
	return e.Code
}

// ErrorMessage returns the backend's message without decoration.
func (e *Error) ErrorMessage() string {
	return e.Message
}

// Retryable reports whether the failure came from the transport or a 5xx.
func (e *Error) Retryable() bool {
	return e.Status == 0 || e.Status >= 500
}

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
