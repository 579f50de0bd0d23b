// Package errors provides structured error types for danmaku.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the library packages
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Geometry failures abort the construction of a single shape only:
//   - COORDINATE_OUT_OF_RANGE: a path coordinate does not fit the fixed-point budget
//   - DEGENERATE_CONTOUR: a contour with no segments, or a move with nothing after it
//   - INVALID_GEOMETRY: rounded-rectangle parameters violate their preconditions
//   - INVALID_DRAWING: malformed drawing words
//
// Input and configuration failures:
//   - INVALID_INPUT, INVALID_CONFIG, INEXACT_DECIMAL
//
// Layout overflow is not an error and has no code.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidGeometry, "radius %s exceeds half of %s", r, side)
//	if errors.Is(err, errors.ErrCodeInvalidGeometry) {
//	    // skip this shape
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidConfig, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Geometry errors
	ErrCodeCoordinateOutOfRange Code = "COORDINATE_OUT_OF_RANGE"
	ErrCodeDegenerateContour    Code = "DEGENERATE_CONTOUR"
	ErrCodeInvalidGeometry      Code = "INVALID_GEOMETRY"
	ErrCodeInvalidDrawing       Code = "INVALID_DRAWING"

	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInexactDecimal Code = "INEXACT_DECIMAL"
	ErrCodeUnsupported    Code = "UNSUPPORTED_COMMAND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsGeometry reports whether err aborted the construction of a single shape.
// Callers use it to decide between skipping the shape and aborting the pass.
func IsGeometry(err error) bool {
	switch GetCode(err) {
	case ErrCodeCoordinateOutOfRange, ErrCodeDegenerateContour,
		ErrCodeInvalidGeometry, ErrCodeInvalidDrawing:
		return true
	}
	return false
}
