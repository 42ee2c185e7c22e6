package synth

import (
	"context"
	"encoding/json"

	"github.com/devspell/cli/internal/llm"
	"github.com/devspell/cli/internal/prompts"
)

// LLMGenerator implements files by asking client with the implement-file
// prompt and parsing its JSON answer.
func LLMGenerator(client llm.Client) Generator {
	return GeneratorFunc(func(ctx context.Context, spec FileSpec, prev Context) (ImplementedFile, error) {
		details, err := json.MarshalIndent(specDetails(spec), "", "  ")
		if err != nil {
			return ImplementedFile{}, err
		}

		previous := make([]prompts.FileContext, 0, len(prev.Previous))
		for _, s := range prev.Previous {
			previous = append(previous, prompts.FileContext{
				Path:              s.Path,
				Preview:           s.Preview,
				Imports:           s.Imports,
				IntegrationPoints: s.IntegrationPoints,
			})
		}

		prompt, err := prompts.ImplementFile(spec.Path, string(details), previous)
		if err != nil {
			return ImplementedFile{}, err
		}

		out, err := client.Generate(ctx, llm.Request{
			Kind:   prompts.KindImplementFile,
			Prompt: prompt,
			JSON:   true,
		})
		if err != nil {
			return ImplementedFile{}, err
		}
		return ParseImplementedFile([]byte(out))
	})
}

// specDetails flattens a spec back into the plan's details object.
func specDetails(spec FileSpec) map[string]any {
	out := make(map[string]any, len(spec.Meta)+3)
	for k, v := range spec.Meta {
		out[k] = v
	}
	if spec.Description != "" {
		out["description"] = spec.Description
	}
	if spec.Purpose != "" {
		out["purpose"] = spec.Purpose
	}
	deps := spec.Dependencies
	if deps == nil {
		deps = []string{}
	}
	out["dependencies"] = deps
	return out
}
