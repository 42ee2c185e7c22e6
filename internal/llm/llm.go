// Package llm is the text-generation boundary: a small Client interface,
// hosted implementations (Gemini, Groq), an offline fake, and composable
// middleware for retries, timeouts, rate limiting and logging.
package llm

import (
	"context"
	"errors"
	"strings"
)

// ErrInvalidResponse is returned when a model answers with no usable text.
var ErrInvalidResponse = errors.New("llm: invalid response from model")

// Request is one generation call.
type Request struct {
	// Kind names the instruction template, e.g. "plan" or "implement_file".
	// Clients may use it for logging; FakeClient answers by it.
	Kind string

	// Prompt is the fully rendered instruction.
	Prompt string

	// JSON asks the model for a JSON document.
	JSON bool
}

// Client generates text for a prompt.
type Client interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
	Close() error
}

// PermanentError marks a failure that retrying will not fix.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// NewPermanentError wraps err as permanent.
func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err, or anything it wraps, is permanent.
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}

// StripFences removes a surrounding markdown code fence, which models often
// add around JSON even when asked not to.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}
