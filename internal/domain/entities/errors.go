package entities

import (
	"errors"
	"fmt"
)

// Sentinel errors for the four failure classes of a run. Every typed error
// below unwraps to one of these, so callers can use errors.Is.
var (
	ErrValidation  = errors.New("validation failed")
	ErrStoreAccess = errors.New("store access failed")
	ErrInputFormat = errors.New("invalid input format")
	ErrOutputWrite = errors.New("output write failed")
)

// ValidationError reports a constrained field holding a value outside its
// allowed set. It is raised when a Person is constructed.
type ValidationError struct {
	Line    int // Input line (1-indexed, 0 if unknown)
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// StoreAccessError reports a failed read against the acceptance store.
type StoreAccessError struct {
	Op  string
	Err error
}

func (e *StoreAccessError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns both ErrStoreAccess and the underlying cause.
func (e *StoreAccessError) Unwrap() []error {
	return []error{ErrStoreAccess, e.Err}
}

// InputFormatError reports a source file that does not have the expected shape.
type InputFormatError struct {
	Source  string
	Line    int
	Column  string
	Message string
}

func (e *InputFormatError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("%s: line %d: column %q: %s", e.Source, e.Line, e.Column, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("%s: line %d: %s", e.Source, e.Line, e.Message)
	case e.Column != "":
		return fmt.Sprintf("%s: column %q: %s", e.Source, e.Column, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Source, e.Message)
	}
}

// Unwrap returns ErrInputFormat.
func (e *InputFormatError) Unwrap() error {
	return ErrInputFormat
}

// OutputWriteError reports a report artifact that could not be written.
type OutputWriteError struct {
	Path string
	Err  error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

// Unwrap returns both ErrOutputWrite and the underlying cause.
func (e *OutputWriteError) Unwrap() []error {
	return []error{ErrOutputWrite, e.Err}
}
