package pipeline

import (
	"context"
	"fmt"

	"github.com/devspell/cli/internal/archive"
	oerrors "github.com/devspell/cli/internal/errors"
	"github.com/devspell/cli/internal/export"
	"github.com/devspell/cli/internal/filetree"
	"github.com/devspell/cli/internal/llm"
	"github.com/devspell/cli/internal/output"
	"github.com/devspell/cli/internal/project"
	"github.com/devspell/cli/internal/prompts"
	"github.com/devspell/cli/internal/scaffold"
	"github.com/devspell/cli/internal/store"
	"github.com/devspell/cli/internal/synth"
	"github.com/devspell/cli/internal/templates"
)

// pipeline implements the Pipeline interface.
type pipeline struct {
	client    llm.Client
	registry  *templates.Registry
	sink      store.Sink
	exporter  export.Exporter
	synthOpts []synth.Option
}

// Option configures a pipeline.
type Option func(*pipeline)

// WithRegistry replaces the built-in template registry.
func WithRegistry(reg *templates.Registry) Option {
	return func(p *pipeline) { p.registry = reg }
}

// WithSink persists chat and project records. Without it nothing is saved.
func WithSink(sink store.Sink) Option {
	return func(p *pipeline) { p.sink = sink }
}

// WithExporter hands every archive to e.
func WithExporter(e export.Exporter) Option {
	return func(p *pipeline) { p.exporter = e }
}

// WithSynthOptions tunes the file synthesizer.
func WithSynthOptions(opts ...synth.Option) Option {
	return func(p *pipeline) { p.synthOpts = append(p.synthOpts, opts...) }
}

// New returns a pipeline that asks client for every model-driven phase.
// client may be nil for scaffold-only use.
func New(client llm.Client, opts ...Option) Pipeline {
	p := &pipeline{
		client:   client,
		registry: templates.Default(),
		sink:     store.Discard{},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// prepare returns a validated copy of cfg.
func prepare(cfg *project.Config) (*project.Config, error) {
	if cfg == nil {
		return nil, oerrors.NewValidationError("project configuration is required", "", "", "")
	}
	out := cfg.Clone()
	out.ApplyDefaults()
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *pipeline) requireClient() error {
	if p.client == nil {
		return oerrors.NewValidationError("no text-generation provider configured", "", "llm.provider",
			"set llm.provider in the config file or DEVSPELL_LLM_PROVIDER")
	}
	return nil
}

// ask runs one model call and classifies its failure.
func (p *pipeline) ask(ctx context.Context, phase, kind, prompt string, asJSON bool) (string, error) {
	out, err := p.client.Generate(ctx, llm.Request{Kind: kind, Prompt: prompt, JSON: asJSON})
	if err != nil {
		return "", fatal(phase, err)
	}
	return out, nil
}

// Plan drafts the requirements plan. The chat is saved best effort.
func (p *pipeline) Plan(ctx context.Context, cfg *project.Config, userID string) (*PlanResult, error) {
	cfg, err := prepare(cfg)
	if err != nil {
		return nil, err
	}
	if err := p.requireClient(); err != nil {
		return nil, err
	}

	prompt, err := prompts.Plan(cfg)
	if err != nil {
		return nil, err
	}
	plan, err := p.ask(ctx, "plan", prompts.KindPlan, prompt, false)
	if err != nil {
		return nil, err
	}

	res := &PlanResult{Prompt: prompt, Plan: plan, MissingSections: prompts.MissingSections(plan)}
	if len(res.MissingSections) > 0 {
		output.Warn("plan is missing sections", "project", cfg.Slug(), "sections", res.MissingSections)
	}

	if userID != "" {
		id, err := p.sink.SaveChat(ctx, userID, store.ChatRecord{UserMessage: prompt, LLMResponse: plan})
		if err != nil {
			output.Warn("saving chat history failed", "err", err)
		}
		res.ChatID = id
	}
	return res, nil
}

// Scaffold renders templates only.
func (p *pipeline) Scaffold(ctx context.Context, cfg *project.Config, opts GenerateOptions) (*Result, error) {
	cfg, err := prepare(cfg)
	if err != nil {
		return nil, err
	}
	tree, err := scaffold.New(p.registry).Scaffold(cfg)
	if err != nil {
		return nil, err
	}
	res := &Result{Config: cfg, Tree: tree}
	if err := p.finish(ctx, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

// Generate runs the full pipeline.
//
// Phase sequence:
//  1. VALIDATE:   clone, defaults, required fields
//  2. SCAFFOLD:   templates -> tree
//  3. PLAN:       model drafts the plan (skipped when opts.Plan is set)
//  4. EPICS:      model splits the plan into epics
//  5. FILE PLAN:  model lists files with dependencies -> []FileSpec
//  6. SYNTHESIZE: one model call per file, in dependency order
//  7. MERGE:      synthesized files into the scaffold tree
//  8. ARCHIVE:    zip under <slug>/
//  9. EXPORT:     hand the archive to the exporter, if any
//  10. SAVE:      project record, best effort
//
// Failures in phases 3 to 5 are fatal generation errors. Per-file failures
// in phase 6 become placeholders. Cancellation is returned as is.
func (p *pipeline) Generate(ctx context.Context, cfg *project.Config, opts GenerateOptions) (*Result, error) {
	cfg, err := prepare(cfg)
	if err != nil {
		return nil, err
	}
	if err := p.requireClient(); err != nil {
		return nil, err
	}
	log := output.ProjectLogger(cfg.Slug())

	tree, err := scaffold.New(p.registry).Scaffold(cfg)
	if err != nil {
		return nil, err
	}
	res := &Result{Config: cfg, Tree: tree, Plan: opts.Plan}

	if res.Plan == "" {
		planned, err := p.Plan(ctx, cfg, opts.UserID)
		if err != nil {
			return nil, err
		}
		res.Plan = planned.Plan
	}

	prompt, err := prompts.Epics(cfg, res.Plan)
	if err != nil {
		return nil, err
	}
	if res.Epics, err = p.ask(ctx, "epics", prompts.KindEpics, prompt, false); err != nil {
		return nil, err
	}

	if prompt, err = prompts.FilePlan(cfg, res.Plan, res.Epics, tree.Paths()); err != nil {
		return nil, err
	}
	raw, err := p.ask(ctx, "file plan", prompts.KindFilePlan, prompt, true)
	if err != nil {
		return nil, err
	}
	if res.Specs, err = synth.ParseFileSpecs([]byte(llm.StripFences(raw))); err != nil {
		return nil, fatal("file plan", err)
	}
	log.Debug("file plan parsed", "files", len(res.Specs))

	synthOpts := p.synthOpts
	if opts.Observer != nil {
		synthOpts = append(append([]synth.Option{}, synthOpts...), synth.WithObserver(opts.Observer))
	}
	res.Synthesis, err = synth.New(synth.LLMGenerator(p.client), synthOpts...).Synthesize(ctx, res.Specs)
	if err != nil {
		return nil, err
	}
	mergeSynthesized(tree, res.Synthesis)
	log.Debug("synthesis merged",
		"files", len(res.Synthesis.Order),
		"placeholders", len(res.Synthesis.Placeholders()),
		"diagnostics", len(res.Synthesis.Diagnostics),
	)

	if err := p.finish(ctx, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

// mergeSynthesized adds synthesized files to tree. Generated content
// replaces a template file of the same path; a placeholder never does. A
// path the tree rejects is dropped with a diagnostic.
func mergeSynthesized(tree *filetree.Tree, r *synth.Result) {
	for _, path := range r.Order {
		f := r.Files[path]
		origin := filetree.OriginSynthesized
		if f.Placeholder {
			origin = filetree.OriginPlaceholder
			if tree.Has(path) {
				output.Debug("keeping template file over placeholder", "file", path)
				continue
			}
		}
		if err := tree.Put(path, []byte(f.Content), origin); err != nil {
			output.Warn("dropping synthesized file", "file", path, "err", err)
			r.Diagnostics = append(r.Diagnostics, synth.Diagnostic{
				Kind:    synth.KindSynthesisFailure,
				Path:    path,
				Message: err.Error(),
			})
		}
	}
}

// finish archives, exports and saves.
func (p *pipeline) finish(ctx context.Context, res *Result, opts GenerateOptions) error {
	slug := res.Config.Slug()
	archiveOpts := []archive.Option{archive.WithPrefix(slug)}
	if !opts.ModTime.IsZero() {
		archiveOpts = append(archiveOpts, archive.WithModTime(opts.ModTime))
	}

	pa, err := archive.Archive(res.Tree, archiveOpts...)
	if err != nil {
		return err
	}
	res.Archive = pa
	res.ArchiveName = slug + ".zip"

	if p.exporter != nil {
		loc, err := p.exporter.Export(ctx, res.ArchiveName, pa.Blob)
		if err != nil {
			return fmt.Errorf("exporting %s: %w", res.ArchiveName, err)
		}
		res.Location = loc
	}

	if opts.UserID != "" {
		rec := store.ProjectRecord{
			Name:         res.Config.Name,
			Slug:         slug,
			Config:       res.Config,
			Plan:         res.Plan,
			Files:        res.Tree.Paths(),
			Placeholders: res.Placeholders(),
			Location:     res.Location,
		}
		for _, d := range res.Diagnostics() {
			rec.Diagnostics = append(rec.Diagnostics, d.String())
		}
		id, err := p.sink.SaveProject(ctx, opts.UserID, rec)
		if err != nil {
			output.Warn("saving project failed", "project", slug, "err", err)
		}
		res.ProjectID = id
	}
	return nil
}
