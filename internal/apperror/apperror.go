// Package apperror classifies failures so that transport layers can map
// them onto status codes without inspecting error strings.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a structured error classification.
type Code string

const (
	// CodeNotFound indicates a requested resource was not found.
	CodeNotFound Code = "NOT_FOUND"
	// CodeValidation indicates malformed or out-of-bounds caller input.
	CodeValidation Code = "VALIDATION_FAILED"
	// CodeInvalidSearchCombination indicates mutually exclusive search filters were supplied together.
	CodeInvalidSearchCombination Code = "INVALID_SEARCH_COMBINATION"
	// CodeInternal indicates an internal system error.
	CodeInternal Code = "INTERNAL"
)

// Error carries a code, one or more human readable messages and an optional cause.
type Error struct {
	Code     Code
	Messages []string
	Cause    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := strings.Join(e.Messages, ", ")
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with the given code and messages.
func New(code Code, messages ...string) *Error {
	return &Error{Code: code, Messages: messages}
}

// Wrap wraps cause with a code and message.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Messages: []string{message}, Cause: cause}
}

// Validation creates a validation error reporting every violated constraint.
func Validation(messages ...string) *Error {
	return New(CodeValidation, messages...)
}

// NotFound creates a not-found error with a formatted message.
func NotFound(format string, args ...any) *Error {
	return New(CodeNotFound, fmt.Sprintf(format, args...))
}

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// MessagesOf returns the messages of the first *Error in err's chain.
// Errors without structure yield their Error() text.
func MessagesOf(err error) []string {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) && len(e.Messages) > 0 {
		return e.Messages
	}
	return []string{err.Error()}
}
