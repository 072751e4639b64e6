// Package errors defines structured error codes shared by the palette engine,
// the store and the command line.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode defines specific error types.
type ErrorCode string

const (
	// ErrUndefinedCellReference is returned when a cell reference does not resolve
	ErrUndefinedCellReference ErrorCode = "UNDEFINED_CELL_REFERENCE"
	// ErrUndefinedColor is returned when an expression cannot produce a color
	ErrUndefinedColor ErrorCode = "UNDEFINED_COLOR"
	// ErrGroupIndexOutOfBounds is returned when a group ordinal would leave a gap
	ErrGroupIndexOutOfBounds ErrorCode = "GROUP_INDEX_OUT_OF_BOUNDS"
	// ErrRangeMismatch is returned when range endpoints have incompatible kinds
	ErrRangeMismatch ErrorCode = "RANGE_MISMATCH"
	// ErrRangeOrder is returned when range endpoints are inverted
	ErrRangeOrder ErrorCode = "RANGE_ORDER"

	// ErrInvalidDocument is returned when a stored document fails validation
	ErrInvalidDocument ErrorCode = "INVALID_DOCUMENT"
	// ErrStorageError is returned when a storage operation fails
	ErrStorageError ErrorCode = "STORAGE_ERROR"
	// ErrInvalidFormat is returned when an input has an invalid format
	ErrInvalidFormat ErrorCode = "INVALID_FORMAT"
)

// Coded is an error that carries an error code and optional details.
type Coded interface {
	Error() string
	Code() ErrorCode
	Details() map[string]any
}

// CodedError is a concrete Coded error with optional details.
type CodedError struct {
	code       ErrorCode
	message    string
	details    map[string]any
	wrappedErr error
}

// New creates a new CodedError.
func New(code ErrorCode, message string) *CodedError {
	return &CodedError{code: code, message: message}
}

// Newf creates a new CodedError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *CodedError {
	return New(code, fmt.Sprintf(format, args...))
}

// WithDetail adds a single detail to the error.
func (e *CodedError) WithDetail(key string, value any) *CodedError {
	if e.details == nil {
		e.details = make(map[string]any)
	}
	e.details[key] = value
	return e
}

// Wrap wraps an underlying error.
func (e *CodedError) Wrap(err error) *CodedError {
	e.wrappedErr = err
	return e
}

// Error implements the error interface.
func (e *CodedError) Error() string {
	if e.wrappedErr != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrappedErr)
	}
	return e.message
}

// Code returns the error code.
func (e *CodedError) Code() ErrorCode {
	return e.code
}

// Details returns additional error details.
func (e *CodedError) Details() map[string]any {
	return e.details
}

// Unwrap returns the wrapped error if any.
func (e *CodedError) Unwrap() error {
	return e.wrappedErr
}

// CodeOf returns the code of the first Coded error in err's chain, or "" if
// there is none.
func CodeOf(err error) ErrorCode {
	var c Coded
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// Attrs flattens the code and details of err into slog-style key/value pairs.
func Attrs(err error) []any {
	var c Coded
	if !errors.As(err, &c) {
		return nil
	}
	out := []any{"code", string(c.Code())}
	for k, v := range c.Details() {
		out = append(out, k, v)
	}
	return out
}
