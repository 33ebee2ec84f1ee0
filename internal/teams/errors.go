package teams

import (
	"errors"
	"fmt"
)

// Code classifies extraction failures.
type Code string

const (
	CodeNotFound         Code = "NOT_FOUND"
	CodeInvalidStructure Code = "INVALID_STRUCTURE"
	CodeExtraction       Code = "EXTRACTION"
)

// Error is the typed failure returned by the extractor. Field-level parse
// problems never produce an Error; they fall back to documented defaults.
type Error struct {
	Code    Code
	Store   string // logical store involved, if any
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Store != "" {
		msg = fmt.Sprintf("%s (store %q)", msg, e.Store)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error with the same code, so callers can test against the
// sentinels below with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrNotFound         = &Error{Code: CodeNotFound, Message: "record store not found"}
	ErrInvalidStructure = &Error{Code: CodeInvalidStructure, Message: "record store has an unexpected structure"}
	ErrExtraction       = &Error{Code: CodeExtraction, Message: "extraction failed"}
)

// NotFound builds a not-found error.
func NotFound(msg string, cause error) error {
	return &Error{Code: CodeNotFound, Message: msg, Cause: cause}
}

func invalidStructure(store, msg string) error {
	return &Error{Code: CodeInvalidStructure, Store: store, Message: msg}
}

func extractionFailed(store, msg string, cause error) error {
	return &Error{Code: CodeExtraction, Store: store, Message: msg, Cause: cause}
}
