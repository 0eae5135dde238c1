package portfolio

import (
	"errors"
	"fmt"
)

// ErrorCode defines error classification codes for structured error handling.
type ErrorCode string

const (
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabase     ErrorCode = "DATABASE_ERROR"
	ErrCodeLookup       ErrorCode = "LOOKUP_ERROR"
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// ErrNoData indicates an external source returned no usable market data.
var ErrNoData = errors.New("no market data available")

// Error is a structured error with a classification code.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a classification code.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// IsErrorCode reports whether err carries the given classification code.
func IsErrorCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
