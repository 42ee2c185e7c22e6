// Package errors provides sentinel errors and structured error types for devspell.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates invalid user input: a project config, a stack
	// file, or a CLI configuration that fails its schema.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a file, template, or record was not found.
	ErrNotFound = errors.New("not found")

	// ErrArchive indicates the archive writer failed.
	ErrArchive = errors.New("archive error")

	// ErrGeneration indicates a text-generation phase that the pipeline
	// cannot recover from (plan, epics, file plan).
	ErrGeneration = errors.New("generation error")

	// ErrPermission indicates insufficient filesystem permissions.
	ErrPermission = errors.New("permission denied")
)

// DetailError captures structured error information.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is the file path the error refers to (optional).
	Location string

	// Field is the offending field name (optional).
	Field string

	// Context contains additional key-value context (optional).
	Context map[string]string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString("Error: ")
	b.WriteString(e.Type)
	b.WriteString("\n")

	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}
	if e.Field != "" {
		b.WriteString("  Field: ")
		b.WriteString(e.Field)
		b.WriteString("\n")
	}

	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(e.Context[k])
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a validation error with details.
func NewValidationError(message, location, field, hint string) error {
	return &DetailError{
		Type:     "validation failed",
		Message:  message,
		Location: location,
		Field:    field,
		Hint:     hint,
		Cause:    ErrValidation,
	}
}

// NewNotFoundError creates a not found error with details.
func NewNotFoundError(message, location, hint string) error {
	return &DetailError{
		Type:     "not found",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrNotFound,
	}
}

// NewArchiveError creates an archive error wrapping the writer failure.
func NewArchiveError(entry string, cause error) error {
	ctx := map[string]string{}
	if entry != "" {
		ctx["Entry"] = entry
	}
	return &DetailError{
		Type:    "archive failed",
		Message: fmt.Sprintf("writing project archive: %v", cause),
		Context: ctx,
		Cause:   errors.Join(ErrArchive, cause),
	}
}

// NewGenerationError creates an error for a text-generation phase that failed.
func NewGenerationError(phase string, cause error) error {
	return &DetailError{
		Type:    "generation failed",
		Message: fmt.Sprintf("%s: %v", phase, cause),
		Context: map[string]string{"Phase": phase},
		Hint:    "Check the llm section of your configuration or retry with --verbose.",
		Cause:   errors.Join(ErrGeneration, cause),
	}
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}
