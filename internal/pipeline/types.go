// Package pipeline runs a project from configuration to archive:
// scaffold, plan, epics, file plan, synthesis, archive, export, save.
package pipeline

import (
	"context"
	"time"

	"github.com/devspell/cli/internal/archive"
	"github.com/devspell/cli/internal/filetree"
	"github.com/devspell/cli/internal/project"
	"github.com/devspell/cli/internal/synth"
)

// Pipeline generates projects.
type Pipeline interface {
	// Plan drafts the requirements plan for cfg.
	Plan(ctx context.Context, cfg *project.Config, userID string) (*PlanResult, error)

	// Scaffold renders the template tree of cfg and archives it. No model
	// call is made.
	Scaffold(ctx context.Context, cfg *project.Config, opts GenerateOptions) (*Result, error)

	// Generate runs every phase and returns a complete archive, possibly
	// containing placeholders, or one fatal error.
	Generate(ctx context.Context, cfg *project.Config, opts GenerateOptions) (*Result, error)
}

// GenerateOptions tunes one run.
type GenerateOptions struct {
	// UserID owns the saved records. Empty skips persistence.
	UserID string

	// Plan is an approved plan. When set the plan phase is skipped.
	Plan string

	// Observer receives per-file synthesis events.
	Observer func(synth.Event)

	// ModTime stamps archive entries. Zero keeps the archive deterministic.
	ModTime time.Time
}

// PlanResult is the output of the plan phase.
type PlanResult struct {
	Prompt string `json:"-"`
	Plan   string `json:"plan"`

	// MissingSections lists expected plan headings the model left out.
	MissingSections []string `json:"missingSections,omitempty"`

	// ChatID is the saved chat record, when a user was given.
	ChatID string `json:"chatId,omitempty"`
}

// Result is everything a run produced.
type Result struct {
	Config *project.Config

	Plan  string
	Epics string

	// Specs is the parsed file plan.
	Specs []synth.FileSpec

	// Synthesis is nil for scaffold-only runs.
	Synthesis *synth.Result

	Tree    *filetree.Tree
	Archive *archive.ProjectArchive

	// ArchiveName is the download file name, "<slug>.zip".
	ArchiveName string

	// Location is where the exporter stored the archive, if configured.
	Location string

	// ProjectID is the saved project record, if a user was given.
	ProjectID string
}

// Diagnostics returns the synthesis diagnostics, if any.
func (r *Result) Diagnostics() []synth.Diagnostic {
	if r.Synthesis == nil {
		return nil
	}
	return r.Synthesis.Diagnostics
}

// Placeholders returns the paths that failed to synthesize.
func (r *Result) Placeholders() []string {
	if r.Synthesis == nil {
		return nil
	}
	return r.Synthesis.Placeholders()
}
