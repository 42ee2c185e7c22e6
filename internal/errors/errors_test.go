//nolint:revive // Package name matches the package it tests
package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	assert.NotEqual(t, ErrValidation, ErrNotFound)
	assert.NotEqual(t, ErrValidation, ErrArchive)
	assert.NotEqual(t, ErrArchive, ErrGeneration)
}

func TestDetailErrorError(t *testing.T) {
	detail := &DetailError{
		Type:     "validation failed",
		Message:  "missing required fields: name",
		Location: "stack.yaml",
		Field:    "name",
		Context:  map[string]string{"Frontend": "React", "Backend": "None"},
		Hint:     "Set name in the stack file",
	}

	out := detail.Error()

	assert.Contains(t, out, "Error: validation failed")
	assert.Contains(t, out, "Location: stack.yaml")
	assert.Contains(t, out, "Field: name")
	assert.Contains(t, out, "Frontend: React")
	assert.Contains(t, out, "missing required fields: name")
	assert.Contains(t, out, "Hint: Set name in the stack file")
	assert.Less(t, strings.Index(out, "Backend"), strings.Index(out, "Frontend"), "context keys are sorted")
}

func TestDetailErrorUnwrap(t *testing.T) {
	detail := &DetailError{Type: "test", Message: "test message", Cause: ErrValidation}

	assert.True(t, errors.Is(detail, ErrValidation))
	assert.Equal(t, ErrValidation, detail.Unwrap())
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("missing description", "", "description", "")

	require.NotNil(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var detail *DetailError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "validation failed", detail.Type)
	assert.Equal(t, "description", detail.Field)
}

func TestNewArchiveError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewArchiveError("demo/index.html", cause)

	assert.True(t, errors.Is(err, ErrArchive))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "Entry: demo/index.html")
}

func TestNewGenerationError(t *testing.T) {
	err := NewGenerationError("file plan", errors.New("bad json"))

	assert.True(t, errors.Is(err, ErrGeneration))
	assert.Contains(t, err.Error(), "file plan: bad json")
}

func TestWrap(t *testing.T) {
	wrapped := Wrap(ErrNotFound, "template missing")

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Contains(t, wrapped.Error(), "template missing")
}

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error returns success", nil, ExitSuccess},
		{"validation error", ErrValidation, ExitValidationError},
		{"not found error", ErrNotFound, ExitNotFound},
		{"archive error", NewArchiveError("", errors.New("x")), ExitArchiveError},
		{"generation error", NewGenerationError("plan", errors.New("x")), ExitGenerationError},
		{"permission error", ErrPermission, ExitPermissionDenied},
		{"wrapped validation error", fmt.Errorf("loading stack: %w", ErrValidation), ExitValidationError},
		{"explicit exit error", &ExitError{Err: errors.New("x"), Code: 42}, 42},
		{"unknown error returns general error", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExitCodeFromError(tt.err))
		})
	}
}

func TestExitCodeName(t *testing.T) {
	assert.Equal(t, "Archive Error", ExitCodeName(ExitArchiveError))
	assert.Equal(t, "Unknown", ExitCodeName(99))
}
