// Package errors provides structured error handling for clearpool.
//
// Every error carries an ErrorType that tells callers how to react: pool
// access failures are ErrorTypeUnavailable and worth retrying, while
// validation and config errors are not. Errors built with New and Wrap
// record the call stack; Unavailable errors do not, since pools build them
// on hot paths and usually absorb them.
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInternal represents a broken internal guarantee
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeValidation represents invalid input or configuration values
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfig represents configuration files that cannot be parsed
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeTimeout represents timeout and cancellation errors
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeUnavailable represents a resource that cannot be accessed right
	// now, such as a pool's idle list that is already borrowed or poisoned
	ErrorTypeUnavailable ErrorType = "unavailable"
	// ErrorTypeCapability represents an unsupported algorithm or feature
	ErrorTypeCapability ErrorType = "capability"
	// ErrorTypeFile represents file operation errors
	ErrorTypeFile ErrorType = "file"
)

// Error is a typed error with optional cause, details and stack.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame is one caller in an Error's stack.
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error renders as "type: message" followed by ": cause" when there is one.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail and returns e. An Error is owned by
// whoever built it; add details before sharing it between goroutines.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func newError(errType ErrorType, message string, cause error, stack []StackFrame) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Stack:   stack,
	}
}

// New creates an error and records the caller's stack.
func New(errType ErrorType, message string) *Error {
	return newError(errType, message, nil, captureStack(3))
}

// Wrap gives err a type and message. The stack of the innermost Error in
// err's chain is kept; otherwise the caller's stack is recorded. Wrap
// returns nil for a nil err.
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	var inner *Error
	if errors.As(err, &inner) && inner.Stack != nil {
		return newError(errType, message, err, inner.Stack)
	}
	return newError(errType, message, err, captureStack(3))
}

// Unavailable wraps cause as a transient ErrorTypeUnavailable error without
// a stack. Each call returns a new Error.
func Unavailable(cause error, message string) *Error {
	return newError(ErrorTypeUnavailable, message, cause, nil)
}

// Sentinel creates a plain comparable error for use with Is.
func Sentinel(message string) error {
	return errors.New(message)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsRetryable reports whether the outermost Error in err's chain is
// unavailable or timed out.
func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == ErrorTypeUnavailable || e.Type == ErrorTypeTimeout
}

// IsType reports whether the outermost Error in err's chain has errType.
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// captureStack records up to 32 callers, skipping skip frames (runtime.Callers
// itself counts as one).
func captureStack(skip int) []StackFrame {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	stack := make([]StackFrame, 0, n)
	for {
		f, more := frames.Next()
		stack = append(stack, StackFrame{
			Function: f.Function,
			File:     f.File,
			Line:     f.Line,
		})
		if !more {
			break
		}
	}
	return stack
}
