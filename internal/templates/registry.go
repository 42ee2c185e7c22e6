package templates

import (
	"fmt"
	"strings"
	"sync"

	"github.com/devspell/cli/internal/project"
)

// Registry is an explicit table of providers keyed by category and
// technology name. Build it once, then treat it as read-only; concurrent
// lookups are safe as long as no Register call runs at the same time.
type Registry struct {
	providers map[Category]map[string]Provider
	aliases   map[Category]map[string]string
	order     map[Category][]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[Category]map[string]Provider),
		aliases:   make(map[Category]map[string]string),
		order:     make(map[Category][]string),
	}
}

// Register adds a provider. Duplicate names within a category are rejected.
func (r *Registry) Register(p Provider, aliases ...string) error {
	name := strings.TrimSpace(p.Name())
	if name == "" || name == project.None {
		return fmt.Errorf("provider name %q is reserved", p.Name())
	}

	cat := p.Category()
	if r.providers[cat] == nil {
		r.providers[cat] = make(map[string]Provider)
		r.aliases[cat] = make(map[string]string)
	}
	if _, dup := r.providers[cat][name]; dup {
		return fmt.Errorf("%s provider %q already registered", cat, name)
	}

	r.providers[cat][name] = p
	r.order[cat] = append(r.order[cat], name)
	r.aliases[cat][strings.ToLower(name)] = name
	for _, a := range aliases {
		r.aliases[cat][strings.ToLower(strings.TrimSpace(a))] = name
	}
	return nil
}

// Lookup returns the provider for tech. Unknown names, "None" and free text
// yield false; they are valid input that simply adds no scaffolding.
func (r *Registry) Lookup(category Category, tech string) (Provider, bool) {
	tech = strings.TrimSpace(tech)
	if !project.Has(tech) {
		return nil, false
	}
	if p, ok := r.providers[category][tech]; ok {
		return p, true
	}
	name, ok := r.aliases[category][strings.ToLower(tech)]
	if !ok {
		return nil, false
	}
	p, ok := r.providers[category][name]
	return p, ok
}

// List returns the providers of a category in registration order.
func (r *Registry) List(category Category) []Provider {
	out := make([]Provider, 0, len(r.order[category]))
	for _, name := range r.order[category] {
		out = append(out, r.providers[category][name])
	}
	return out
}

// Names returns the technology names of a category in registration order.
func (r *Registry) Names(category Category) []string {
	return append([]string{}, r.order[category]...)
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry of built-in providers. It is
// built on first use and never modified afterwards.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg := NewRegistry()
		for _, sp := range builtinProviders() {
			if err := reg.Register(sp.provider(), sp.aliases...); err != nil {
				panic(err)
			}
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}
