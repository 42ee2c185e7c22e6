// Package synth implements dependency-ordered file synthesis: it orders a
// planned set of files by their declared dependencies and asks a generator
// for each file in turn, threading summaries of finished files into every
// request.
package synth

import (
	"context"
	"fmt"
	"strings"
)

// FileSpec declares one file to synthesize.
type FileSpec struct {
	// Path is the unique, forward-slash relative path of the file.
	Path string `json:"path"`

	Description string `json:"description,omitempty"`
	Purpose     string `json:"purpose,omitempty"`

	// Dependencies lists paths that must be synthesized first. References
	// to paths outside the plan are ignored.
	Dependencies []string `json:"dependencies,omitempty"`

	// Meta keeps every other planned attribute, such as components.
	Meta map[string]any `json:"meta,omitempty"`
}

// ImplementedFile is the synthesis result for one FileSpec.
type ImplementedFile struct {
	Content           string   `json:"content"`
	Imports           []string `json:"imports"`
	Dependencies      []string `json:"dependencies"`
	IntegrationPoints []string `json:"integration_points"`
	TestsRequired     []string `json:"tests_required"`

	// Placeholder is set when generation failed; Content then explains why.
	Placeholder bool   `json:"placeholder,omitempty"`
	Error       string `json:"error,omitempty"`
}

// placeholderPrefix starts the content of every placeholder file.
const placeholderPrefix = "// Error implementing file: "

func placeholder(reason string) ImplementedFile {
	return ImplementedFile{
		Content:           placeholderPrefix + reason,
		Imports:           []string{},
		Dependencies:      []string{},
		IntegrationPoints: []string{},
		TestsRequired:     []string{},
		Placeholder:       true,
		Error:             reason,
	}
}

// normalized returns f with nil lists replaced by empty ones.
func (f ImplementedFile) normalized() ImplementedFile {
	for _, l := range []*[]string{&f.Imports, &f.Dependencies, &f.IntegrationPoints, &f.TestsRequired} {
		if *l == nil {
			*l = []string{}
		}
	}
	return f
}

// Summary describes a finished file to later generator calls.
type Summary struct {
	Path              string
	Preview           string
	Imports           []string
	IntegrationPoints []string
}

// Context is what a generator knows about files finished before it.
type Context struct {
	// Previous holds one summary per finished file, in completion order.
	// Placeholder files are left out.
	Previous []Summary
}

// Has reports whether path is among the previous files.
func (c Context) Has(path string) bool {
	for _, s := range c.Previous {
		if s.Path == path {
			return true
		}
	}
	return false
}

// Generator produces the content of one file.
type Generator interface {
	Generate(ctx context.Context, spec FileSpec, prev Context) (ImplementedFile, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, spec FileSpec, prev Context) (ImplementedFile, error)

func (f GeneratorFunc) Generate(ctx context.Context, spec FileSpec, prev Context) (ImplementedFile, error) {
	return f(ctx, spec, prev)
}

// DiagnosticKind classifies non-fatal problems.
type DiagnosticKind string

const (
	// KindSynthesisFailure marks a file replaced by a placeholder.
	KindSynthesisFailure DiagnosticKind = "synthesis_failure"

	// KindCycleWarning marks a cyclic plan processed in declaration order.
	KindCycleWarning DiagnosticKind = "cycle_warning"
)

// Diagnostic is a non-fatal problem found during synthesis.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Path    string         `json:"path,omitempty"`
	Message string         `json:"message"`
	Cycle   []string       `json:"cycle,omitempty"`
}

func (d Diagnostic) String() string {
	if d.Path != "" {
		return fmt.Sprintf("%s: %s: %s", d.Kind, d.Path, d.Message)
	}
	if len(d.Cycle) > 0 {
		return fmt.Sprintf("%s: %s (%s)", d.Kind, d.Message, strings.Join(d.Cycle, " -> "))
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// EventKind distinguishes observer callbacks.
type EventKind string

const (
	EventStarted  EventKind = "started"
	EventFinished EventKind = "finished"
)

// Event reports progress to an observer.
type Event struct {
	Kind        EventKind
	Path        string
	Index       int
	Total       int
	Placeholder bool
}
