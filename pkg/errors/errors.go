// Package errors provides structured error types for memorytree.
//
// The pipeline distinguishes three failure classes:
//
//   - SOURCE_UNAVAILABLE: the static file or a remote listing could not be read
//   - CONTAINER_NOT_FOUND: a label search for the container returned nothing
//   - RELATION_FETCH_FAILED: the "is about" query for one entity failed
//
// The first two are fatal to a fetch and are turned into a placeholder tree by
// the pipeline. The last one only costs the affected entity its children.
//
// # Usage
//
//	err := errors.Wrap(errors.ErrCodeSourceUnavailable, cause, "read %s", path)
//	if errors.Is(err, errors.ErrCodeSourceUnavailable) {
//	    // render placeholder
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidGeometry Code = "INVALID_GEOMETRY"
	ErrCodeInvalidPalette  Code = "INVALID_PALETTE"
	ErrCodeInvalidSource   Code = "INVALID_SOURCE"
	ErrCodeInvalidTree     Code = "INVALID_TREE"

	// Data acquisition errors
	ErrCodeSourceUnavailable   Code = "SOURCE_UNAVAILABLE"
	ErrCodeContainerNotFound   Code = "CONTAINER_NOT_FOUND"
	ErrCodeRelationFetchFailed Code = "RELATION_FETCH_FAILED"

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

// IsFatalSource reports whether err aborts a whole fetch, i.e. the source or
// its container could not be obtained.
func IsFatalSource(err error) bool {
	switch GetCode(err) {
	case ErrCodeSourceUnavailable, ErrCodeContainerNotFound:
		return true
	}
	return false
}
