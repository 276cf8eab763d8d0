// Package errors provides structured error types for shadergraph.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP service
//   - Machine-readable error codes for programmatic handling
//   - Localizing a failure to the node or block that caused it
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow the failure taxonomy of the graph engine:
//   - Structural errors (UNKNOWN_NODE_TYPE, INVALID_SOCKET, TYPE_MISMATCH, WOULD_CREATE_CYCLE)
//     are returned synchronously by graph mutations and never leave a graph half-mutated.
//   - Traversal errors (CYCLE_DETECTED, NOT_EVALUABLE, UNBOUND_BLOCK, MISSING_OUTPUT_NODE)
//     abort a whole evaluate or compile pass.
//   - INVALID_*: input validation and malformed persisted graphs
//   - INTERNAL_*: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownNodeType, "unknown node type %q", name)
//	if errors.Is(err, errors.ErrCodeUnknownNodeType) {
//	    // Handle missing registration
//	}
//
//	// Attach the offending node
//	return errors.New(errors.ErrCodeCycleDetected, "cycle through node %d", id).WithNode(id)
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Graph structure errors
	ErrCodeUnknownNodeType  Code = "UNKNOWN_NODE_TYPE"
	ErrCodeNodeNotFound     Code = "NODE_NOT_FOUND"
	ErrCodeInvalidSocket    Code = "INVALID_SOCKET"
	ErrCodeInvalidParam     Code = "INVALID_PARAM"
	ErrCodeTypeMismatch     Code = "TYPE_MISMATCH"
	ErrCodeWouldCreateCycle Code = "WOULD_CREATE_CYCLE"

	// Traversal errors
	ErrCodeCycleDetected     Code = "CYCLE_DETECTED"
	ErrCodeNotEvaluable      Code = "NOT_EVALUABLE"
	ErrCodeUnboundBlock      Code = "UNBOUND_BLOCK"
	ErrCodeMissingOutputNode Code = "MISSING_OUTPUT_NODE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeShaderInvalid Code = "SHADER_INVALID"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
	Node    string // Offending node id (optional)
	Block   string // Offending code block (optional)
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

// WithNode records the offending node and returns e for chaining.
func (e *Error) WithNode(id fmt.Stringer) *Error {
	e.Node = id.String()
	return e
}

// WithBlock records the offending block name and returns e for chaining.
func (e *Error) WithBlock(name string) *Error {
	e.Block = name
	return e
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
// It walks the error chain and matches the first *Error with that code,
// so a traversal error wrapped by an outer stage is still recognized.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
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

// Context returns the node and block recorded on the outermost *Error
// in the chain that carries them.
func Context(err error) (node, block string) {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			break
		}
		if node == "" {
			node = e.Node
		}
		if block == "" {
			block = e.Block
		}
		err = e.Cause
	}
	return node, block
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
