// Package advisor asks the model for a technology stack and checks a chosen
// stack for known incompatibilities.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	oerrors "github.com/devspell/cli/internal/errors"
	"github.com/devspell/cli/internal/llm"
	"github.com/devspell/cli/internal/project"
	"github.com/devspell/cli/internal/prompts"
	"github.com/devspell/cli/internal/scaffold"
	"github.com/devspell/cli/internal/templates"
)

// AuthOptions are the authentication methods offered to the model and the
// wizard.
var AuthOptions = []string{"JWT", "OAuth", "Auth0", "Firebase Auth", "Local Auth", project.None}

// Recommendation is a suggested stack.
type Recommendation struct {
	Frontend           string   `json:"frontend"`
	UILibrary          string   `json:"uiLibrary"`
	Backend            string   `json:"backend"`
	Database           string   `json:"database"`
	Authentication     string   `json:"authentication"`
	Deployment         string   `json:"deployment"`
	AdditionalServices []string `json:"additionalServices"`
	Rationale          string   `json:"rationale,omitempty"`
}

// UnmarshalJSON accepts snake_case keys and a nested frontend object of the
// form {"framework": ..., "ui_library": ...}.
func (r *Recommendation) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	str := func(keys ...string) string {
		for _, k := range keys {
			v, ok := raw[k]
			if !ok {
				continue
			}
			var s string
			if json.Unmarshal(v, &s) == nil {
				return strings.TrimSpace(s)
			}
		}
		return ""
	}

	*r = Recommendation{
		Frontend:       str("frontend"),
		UILibrary:      str("uiLibrary", "ui_library"),
		Backend:        str("backend"),
		Database:       str("database"),
		Authentication: str("authentication", "auth"),
		Deployment:     str("deployment", "deploymentPlatform", "deployment_platform"),
		Rationale:      str("rationale", "justification"),
	}

	if fe, ok := raw["frontend"]; ok && bytes.HasPrefix(bytes.TrimSpace(fe), []byte("{")) {
		var nested struct {
			Framework   string `json:"framework"`
			UILibrary   string `json:"ui_library"`
			UILibraryCC string `json:"uiLibrary"`
		}
		if err := json.Unmarshal(fe, &nested); err != nil {
			return fmt.Errorf("frontend: %w", err)
		}
		r.Frontend = strings.TrimSpace(nested.Framework)
		if r.UILibrary == "" {
			r.UILibrary = strings.TrimSpace(nested.UILibrary + nested.UILibraryCC)
		}
	}

	for _, k := range []string{"additionalServices", "additional_services"} {
		if v, ok := raw[k]; ok {
			if err := json.Unmarshal(v, &r.AdditionalServices); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			break
		}
	}
	if r.AdditionalServices == nil {
		r.AdditionalServices = []string{}
	}
	return nil
}

// Compatibility is the verdict on a stack.
type Compatibility struct {
	Compatible      bool     `json:"compatible"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// Advisor talks to the model on behalf of the wizard's stack step.
type Advisor struct {
	client   llm.Client
	registry *templates.Registry
}

// New returns an advisor offering the technologies in reg.
func New(client llm.Client, reg *templates.Registry) *Advisor {
	if reg == nil {
		reg = templates.Default()
	}
	return &Advisor{client: client, registry: reg}
}

// Options lists what the model may choose from.
func (a *Advisor) Options() []prompts.OptionGroup {
	withNone := func(names []string) []string {
		return append(names, project.None)
	}
	return []prompts.OptionGroup{
		{Category: "Frontend", Names: a.registry.Names(templates.Frontend)},
		{Category: "Backend", Names: withNone(a.registry.Names(templates.Backend))},
		{Category: "Database", Names: withNone(a.registry.Names(templates.Database))},
		{Category: "Authentication", Names: AuthOptions},
		{Category: "Deployment", Names: scaffold.Platforms()},
	}
}

// Recommend asks for a stack suited to the requirements in cfg. Only the
// descriptive fields of cfg are read.
func (a *Advisor) Recommend(ctx context.Context, cfg *project.Config) (*Recommendation, error) {
	prompt, err := prompts.StackRecommendation(cfg, a.Options())
	if err != nil {
		return nil, err
	}
	out, err := a.client.Generate(ctx, llm.Request{Kind: prompts.KindRecommend, Prompt: prompt, JSON: true})
	if err != nil {
		return nil, oerrors.NewGenerationError("recommend", err)
	}

	var rec Recommendation
	if err := json.Unmarshal([]byte(llm.StripFences(out)), &rec); err != nil {
		return nil, oerrors.NewGenerationError("recommend",
			fmt.Errorf("%w: %v", llm.ErrInvalidResponse, err))
	}
	return &rec, nil
}

// CheckCompatibility combines the built-in rules with the model's opinion.
// A stack that breaks a built-in rule is never reported compatible. When the
// model call fails the built-in verdict is returned along with the error.
func (a *Advisor) CheckCompatibility(ctx context.Context, cfg *project.Config) (*Compatibility, error) {
	known := KnownIssues(cfg)
	result := &Compatibility{
		Compatible:      len(known) == 0,
		Issues:          append([]string{}, known...),
		Recommendations: []string{},
	}

	prompt, err := prompts.Compatibility(cfg)
	if err != nil {
		return result, err
	}
	out, err := a.client.Generate(ctx, llm.Request{Kind: prompts.KindCompatibility, Prompt: prompt, JSON: true})
	if err != nil {
		return result, oerrors.NewGenerationError("compatibility", err)
	}

	var verdict Compatibility
	if err := json.Unmarshal([]byte(llm.StripFences(out)), &verdict); err != nil {
		return result, oerrors.NewGenerationError("compatibility",
			fmt.Errorf("%w: %v", llm.ErrInvalidResponse, err))
	}

	result.Compatible = result.Compatible && verdict.Compatible
	result.Issues = appendUnique(result.Issues, verdict.Issues...)
	result.Recommendations = appendUnique(result.Recommendations, verdict.Recommendations...)
	return result, nil
}

// Apply returns a copy of cfg with every non-empty recommended choice set.
// cfg is not modified.
func Apply(cfg *project.Config, rec *Recommendation) *project.Config {
	out := cfg.Clone()
	if rec == nil {
		return out
	}
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&out.Frontend, rec.Frontend)
	set(&out.UILibrary, rec.UILibrary)
	set(&out.Backend, rec.Backend)
	set(&out.Database, rec.Database)
	set(&out.Authentication, rec.Authentication)
	set(&out.DeploymentPlatform, rec.Deployment)
	out.ApplyDefaults()
	return out
}

func appendUnique(dst []string, items ...string) []string {
	seen := make(map[string]bool, len(dst))
	for _, s := range dst {
		seen[s] = true
	}
	for _, s := range items {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		dst = append(dst, s)
	}
	return dst
}
