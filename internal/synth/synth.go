package synth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devspell/cli/internal/filetree"
	"github.com/devspell/cli/internal/output"
)

// DefaultPreviewLength is the number of characters of a finished file shown
// to later generator calls.
const DefaultPreviewLength = 200

// ErrMalformed marks generator output that cannot be used.
var ErrMalformed = errors.New("malformed implementation")

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithTimeout bounds each generator call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Synthesizer) { s.timeout = d }
}

// WithPreviewLength sets the context preview length in characters.
func WithPreviewLength(n int) Option {
	return func(s *Synthesizer) {
		if n > 0 {
			s.preview = n
		}
	}
}

// WithObserver registers a progress callback. It runs on the synthesizing
// goroutine and must not block.
func WithObserver(fn func(Event)) Option {
	return func(s *Synthesizer) { s.observer = fn }
}

// Synthesizer runs a Generator over a file plan in dependency order.
type Synthesizer struct {
	gen      Generator
	timeout  time.Duration
	preview  int
	observer func(Event)
}

// New returns a synthesizer for gen.
func New(gen Generator, opts ...Option) *Synthesizer {
	s := &Synthesizer{gen: gen, preview: DefaultPreviewLength}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result holds every synthesized file.
type Result struct {
	// Files maps each normalized path to its result.
	Files map[string]ImplementedFile

	// Order is the completion order.
	Order []string

	Diagnostics []Diagnostic
}

// Placeholders returns the paths whose generation failed, in completion
// order.
func (r *Result) Placeholders() []string {
	var out []string
	for _, p := range r.Order {
		if r.Files[p].Placeholder {
			out = append(out, p)
		}
	}
	return out
}

// Tree converts the result into a file tree. Placeholder files are kept
// with OriginPlaceholder.
func (r *Result) Tree() (*filetree.Tree, error) {
	tree := filetree.New()
	for _, p := range r.Order {
		f := r.Files[p]
		origin := filetree.OriginSynthesized
		if f.Placeholder {
			origin = filetree.OriginPlaceholder
		}
		if err := tree.Put(p, []byte(f.Content), origin); err != nil {
			return nil, fmt.Errorf("synthesized file %s: %w", p, err)
		}
	}
	return tree, nil
}

// Synthesize produces one ImplementedFile per spec.
//
// Files run one at a time in dependency order; a cyclic plan falls back to
// declaration order with a cycle diagnostic. A failed, timed out or
// malformed generation becomes a placeholder and the batch continues. The
// only error is cancellation of ctx, which stops scheduling new files.
func (s *Synthesizer) Synthesize(ctx context.Context, specs []FileSpec) (*Result, error) {
	g := NewGraph(specs)
	res := &Result{Files: make(map[string]ImplementedFile, len(g.nodes))}

	for path, refs := range g.Unknown() {
		output.Debug("ignoring unknown dependencies", "file", path, "refs", refs)
	}

	order, err := g.Order()
	if err != nil {
		cycle := g.DetectCycle()
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Kind:    KindCycleWarning,
			Message: "circular dependencies detected, using declaration order",
			Cycle:   cycle,
		})
		output.Warn("circular file dependencies, using declaration order", "cycle", cycle)
		order = g.Nodes()
	}

	var prev Context
	for i, path := range order {
		if _, done := res.Files[path]; done {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s.notify(Event{Kind: EventStarted, Path: path, Index: i, Total: len(order)})
		spec, _ := g.Spec(path)

		file, genErr := s.generate(ctx, spec, prev)
		if genErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			file = placeholder(genErr.Error())
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:    KindSynthesisFailure,
				Path:    path,
				Message: genErr.Error(),
			})
			output.Warn("file synthesis failed", "file", path, "err", genErr)
		} else {
			prev.Previous = append(prev.Previous, s.summarize(path, file))
		}

		res.Files[path] = file
		res.Order = append(res.Order, path)
		s.notify(Event{Kind: EventFinished, Path: path, Index: i, Total: len(order), Placeholder: file.Placeholder})
	}

	return res, nil
}

// generate calls the generator under the per-file timeout. A generator that
// ignores its context is abandoned when the timeout expires.
func (s *Synthesizer) generate(ctx context.Context, spec FileSpec, prev Context) (ImplementedFile, error) {
	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	type outcome struct {
		file ImplementedFile
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		f, err := s.gen.Generate(callCtx, spec, prev)
		done <- outcome{f, err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-callCtx.Done():
		if ctx.Err() != nil {
			return ImplementedFile{}, ctx.Err()
		}
		return ImplementedFile{}, fmt.Errorf("timed out after %s", s.timeout)
	}

	if out.err != nil {
		if errors.Is(out.err, context.DeadlineExceeded) && ctx.Err() == nil {
			return ImplementedFile{}, fmt.Errorf("timed out after %s", s.timeout)
		}
		return ImplementedFile{}, out.err
	}
	if strings.TrimSpace(out.file.Content) == "" {
		return ImplementedFile{}, fmt.Errorf("%w: empty content", ErrMalformed)
	}
	out.file.Placeholder = false
	out.file.Error = ""
	return out.file.normalized(), nil
}

func (s *Synthesizer) summarize(path string, f ImplementedFile) Summary {
	return Summary{
		Path:              path,
		Preview:           truncate(f.Content, s.preview),
		Imports:           append([]string(nil), f.Imports...),
		IntegrationPoints: append([]string(nil), f.IntegrationPoints...),
	}
}

func (s *Synthesizer) notify(e Event) {
	if s.observer != nil {
		s.observer(e)
	}
}

// truncate returns at most n characters of s.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
