// Package errors provides structured error types for harnesskit.
//
// Construction-time failures in the harness graph (identifier reuse, missing
// per-kind attributes, connections without a wire, labels without a target)
// are reported as *Error values carrying a machine-readable [Code]. The CLI,
// the HTTP API and the upload client share the same codes so callers can
// branch on them without string matching.
//
// # Error Codes
//
// Codes fall into a few groups:
//   - construction: DUPLICATE_IDENTIFIER, MISSING_FIELD, MISSING_WIRE, MISSING_TARGET
//   - lookup: LABEL_NOT_FOUND, NOT_FOUND
//   - input: INVALID_INPUT, INVALID_FORMAT, VALIDATION_FAILED
//   - remote: NETWORK_ERROR, UNAUTHORIZED
//   - internal: INTERNAL_ERROR, UNSUPPORTED
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingField, "connector requires positions")
//	if errors.Is(err, errors.ErrCodeMissingField) {
//	    // Handle construction error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "upload %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Harness construction errors
	ErrCodeDuplicateIdentifier Code = "DUPLICATE_IDENTIFIER"
	ErrCodeMissingField        Code = "MISSING_FIELD"
	ErrCodeMissingWire         Code = "MISSING_WIRE"
	ErrCodeMissingTarget       Code = "MISSING_TARGET"

	// Lookup errors
	ErrCodeLabelNotFound Code = "LABEL_NOT_FOUND"
	ErrCodeNotFound      Code = "NOT_FOUND"

	// Input errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeValidationFailed Code = "VALIDATION_FAILED"

	// Remote service errors
	ErrCodeNetwork      Code = "NETWORK_ERROR"
	ErrCodeUnauthorized Code = "UNAUTHORIZED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// RemoteError describes a non-success response from the remote harness service.
// The body is kept verbatim so the caller sees exactly what the service said.
type RemoteError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("remote returned status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("remote returned status %d", e.StatusCode)
}
