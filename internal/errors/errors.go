package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig       = "CONFIG"
	ErrSample       = "SAMPLE"         // host metrics unavailable
	ErrSpawn        = "SPAWN"          // binary missing or not executable
	ErrExit         = "EXIT"           // binary ran and exited non-zero
	ErrTimeout      = "TIMEOUT"        // binary exceeded its deadline and was killed
	ErrParse        = "PARSE"          // binary exited zero but output didn't parse
	ErrNoSuchEntity = "NO_SUCH_ENTITY" // selection went stale before the command was issued
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// The long form renders as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
//
// The dashboard status bar uses the one-line form from Short.
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrExit code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrExit,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// NewNoSuchEntity reports a command aimed at something that is no longer in the current list.
func NewNoSuchEntity(kind, id string) *Error {
	return &Error{
		Code:       ErrNoSuchEntity,
		Message:    fmt.Sprintf("%s %s no longer exists", kind, id),
		Suggestion: "The list changed since it was drawn; pick the entry again.",
	}
}

// Error implements the error interface with the multi-line format.
func (e *Error) Error() string {
	var b strings.Builder

	// First line: failure symbol + main message
	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	// Include cause if present (why it failed)
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	// Include suggestion if present (how to fix)
	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var sdErr *Error
	if errors.As(err, &sdErr) {
		return sdErr.Code == code
	}
	return false
}

// Code returns the code of a structured error, or "" for anything else.
func Code(err error) string {
	var sdErr *Error
	if errors.As(err, &sdErr) {
		return sdErr.Code
	}
	return ""
}

// Short renders an error on a single line for the status bar.
// Structured errors show their message plus the first line of the cause.
func Short(err error) string {
	if err == nil {
		return ""
	}
	var sdErr *Error
	if !errors.As(err, &sdErr) {
		return firstLine(err.Error())
	}
	if sdErr.Cause == nil {
		return sdErr.Message
	}
	cause := firstLine(Short(sdErr.Cause))
	if cause == "" {
		return sdErr.Message
	}
	return sdErr.Message + ": " + cause
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
