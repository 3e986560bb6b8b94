package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failures that abort a comparison
type ErrorKind string

const (
	// KindInvalidArguments covers malformed invocations, bad patterns and bad configuration
	KindInvalidArguments ErrorKind = "invalid_arguments"
	// KindUnsupportedAlgorithm indicates an unknown digest algorithm name
	KindUnsupportedAlgorithm ErrorKind = "unsupported_algorithm"
	// KindIO indicates a file or directory could not be read during a scan
	KindIO ErrorKind = "io_error"
)

// ExitCode returns the process exit code for the error kind
func (k ErrorKind) ExitCode() int {
	switch k {
	case KindIO:
		return 2
	default:
		return 1
	}
}

// Error is a classified error carrying the offending path or value
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

// NewError creates a classified error
func NewError(kind ErrorKind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first classified error in err's chain.
// Validation errors count as invalid arguments; anything else yields "".
func KindOf(err error) ErrorKind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	var validation *ValidationError
	if errors.As(err, &validation) {
		return KindInvalidArguments
	}
	return ""
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
