// Package errors provides structured error types for modgraph.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the pipeline
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (bad modulus, unknown strategy)
//   - INTERNAL_*: Internal-consistency faults that indicate a defect
//   - CACHE_*, RENDER_*: Subsystem failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidModulus, "modulus must be > 1, got %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidModulus) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRender, origErr, "render %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors. All of these are configuration errors in the
	// sense of the error taxonomy: they are reported before any computation
	// starts and no partial results are produced.
	ErrCodeInvalidModulus  Code = "INVALID_MODULUS"
	ErrCodeInvalidStrategy Code = "INVALID_STRATEGY"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidScale    Code = "INVALID_SCALE"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Internal-consistency faults. These indicate a defect in modgraph
	// itself, not a data problem, and abort the run with a diagnostic.
	ErrCodeComponentConflict Code = "INTERNAL_COMPONENT_CONFLICT"
	ErrCodeInternal          Code = "INTERNAL_ERROR"

	// Subsystem failures.
	ErrCodeMinimize Code = "MINIMIZE_ERROR"
	ErrCodeRender   Code = "RENDER_ERROR"
	ErrCodeCache    Code = "CACHE_ERROR"
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

// IsConfiguration reports whether err is a configuration error, i.e. one of
// the INVALID_* codes that must be reported before any computation begins.
func IsConfiguration(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidModulus, ErrCodeInvalidStrategy, ErrCodeInvalidFormat,
		ErrCodeInvalidScale, ErrCodeInvalidConfig, ErrCodeInvalidPath:
		return true
	}
	return false
}
