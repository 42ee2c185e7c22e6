// Package cmdutil provides shared command utilities for project subcommands.
// It centralizes flag group management, construction of the pipeline and its
// collaborators from configuration, and output formatting helpers.
package cmdutil

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	oerrors "github.com/devspell/cli/internal/errors"
	"github.com/devspell/cli/internal/project"
)

// StackFlags holds flags that describe a project stack
// (scaffold, plan, generate, recommend).
type StackFlags struct {
	File        string
	Name        string
	Description string
	Frontend    string
	UILibrary   string
	Backend     string
	Database    string
	Auth        string
	Deploy      string
	Features    []string
}

// AddTo registers the stack flags on the given cobra command.
func (f *StackFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.File, "stack", "s", "",
		"Stack file (YAML or JSON)")
	cmd.Flags().StringVar(&f.Name, "name", "",
		"Project name (overrides the stack file)")
	cmd.Flags().StringVar(&f.Description, "description", "",
		"Project description (overrides the stack file)")
	cmd.Flags().StringVar(&f.Frontend, "frontend", "",
		"Frontend technology, e.g. React")
	cmd.Flags().StringVar(&f.UILibrary, "ui-library", "",
		"UI library, e.g. Tailwind CSS")
	cmd.Flags().StringVar(&f.Backend, "backend", "",
		"Backend technology, e.g. FastAPI")
	cmd.Flags().StringVar(&f.Database, "database", "",
		"Database, e.g. PostgreSQL")
	cmd.Flags().StringVar(&f.Auth, "auth", "",
		"Authentication method, e.g. JWT")
	cmd.Flags().StringVar(&f.Deploy, "deploy", "",
		"Deployment platform: Docker, Vercel, Netlify, Kubernetes")
	cmd.Flags().StringArrayVar(&f.Features, "feature", nil,
		"Additional feature (can be repeated)")
}

// overrides returns the flag values that were set, keyed like form input.
func (f *StackFlags) overrides() map[string]any {
	out := map[string]any{}
	set := func(key, v string) {
		if strings.TrimSpace(v) != "" {
			out[key] = v
		}
	}
	set("name", f.Name)
	set("description", f.Description)
	set("frontend", f.Frontend)
	set("uiLibrary", f.UILibrary)
	set("backend", f.Backend)
	set("database", f.Database)
	set("authentication", f.Auth)
	set("deploymentPlatform", f.Deploy)
	if len(f.Features) > 0 {
		out["features"] = append([]string{}, f.Features...)
	}
	return out
}

// Load builds the project configuration from the stack file and flags.
// Flags win over file values. The result is defaulted and validated.
func (f *StackFlags) Load() (*project.Config, error) {
	values := map[string]any{}

	if f.File != "" {
		data, err := os.ReadFile(f.File)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, oerrors.NewNotFoundError("stack file not found", f.File,
					"Pass an existing YAML file with --stack")
			}
			return nil, fmt.Errorf("reading stack file: %w", err)
		}
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, oerrors.NewValidationError(fmt.Sprintf("decoding stack file: %v", err), f.File, "", "")
		}
		if values == nil {
			values = map[string]any{}
		}
	}

	// Form aliases may name the same field; drop them so the flag wins.
	over := f.overrides()
	for key := range values {
		if _, ok := over[project.CanonicalField(key)]; ok {
			delete(values, key)
		}
	}
	for k, v := range over {
		values[k] = v
	}

	cfg, err := project.FromForm(values)
	if err != nil {
		var detail *oerrors.DetailError
		if errors.As(err, &detail) && detail.Location == "" && f.File != "" {
			detail.Location = f.File
		}
		return nil, err
	}
	return cfg, nil
}

// OutputFlags holds flags that control where a generated project goes.
type OutputFlags struct {
	Out     string
	Extract bool
	Force   bool
}

// AddTo registers the output flags on the given cobra command.
func (f *OutputFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Out, "out", "o", "",
		"Output path (default: ./<slug>.zip, or ./<slug> with --extract)")
	cmd.Flags().BoolVarP(&f.Extract, "extract", "x", false,
		"Write the project tree to a directory instead of a zip archive")
	cmd.Flags().BoolVarP(&f.Force, "force", "f", false,
		"Overwrite existing files")
}
