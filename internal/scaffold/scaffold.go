// Package scaffold turns a project configuration into the static part of a
// project tree: common directories, technology templates, configuration
// files, deployment artifacts and documentation.
package scaffold

import (
	"fmt"

	"github.com/devspell/cli/internal/filetree"
	"github.com/devspell/cli/internal/output"
	"github.com/devspell/cli/internal/project"
	"github.com/devspell/cli/internal/templates"
)

// commonDirs are created for every project.
var commonDirs = []string{"docs", "tests", "scripts"}

// Scaffolder renders project trees from a template registry.
type Scaffolder struct {
	registry *templates.Registry
}

// New returns a scaffolder backed by reg.
func New(reg *templates.Registry) *Scaffolder {
	return &Scaffolder{registry: reg}
}

// Scaffold renders cfg with the built-in template registry.
func Scaffold(cfg *project.Config) (*filetree.Tree, error) {
	return New(templates.Default()).Scaffold(cfg)
}

// Scaffold builds the project tree for cfg. cfg is never modified.
//
// Steps run in a fixed order and later writes to the same path win:
// technology templates, then configuration files, then deployment, then
// documentation. Technologies without a provider add nothing.
func (s *Scaffolder) Scaffold(cfg *project.Config) (*filetree.Tree, error) {
	cfg = cfg.Clone()
	cfg.ApplyDefaults()

	data := templates.NewData(cfg)
	tree := filetree.New()
	logger := output.ProjectLogger(data.Slug)

	for _, d := range commonDirs {
		if err := tree.EnsureDir(d); err != nil {
			return nil, err
		}
	}

	selected := map[templates.Category]string{
		templates.Frontend: cfg.Frontend,
		templates.Backend:  cfg.Backend,
		templates.Database: cfg.Database,
	}

	var providers []templates.Provider
	for _, cat := range templates.Categories() {
		tech := selected[cat]
		if !project.Has(tech) {
			continue
		}
		p, ok := s.registry.Lookup(cat, tech)
		if !ok {
			logger.Debug("no template for technology", "category", cat, "tech", tech)
			continue
		}
		if err := addProvider(tree, p, data); err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}

	if err := addConfigFiles(tree, providers, data); err != nil {
		return nil, err
	}

	deployed, err := addDeployment(tree, data)
	if err != nil {
		return nil, err
	}
	if !deployed && project.Has(data.Deployment) {
		logger.Debug("no deployment artifacts for platform", "platform", data.Deployment)
	}

	if err := addDocs(tree, data); err != nil {
		return nil, err
	}

	logger.Debug("scaffolded project", "files", tree.Len(), "dirs", len(tree.Dirs()))
	return tree, nil
}

func addProvider(tree *filetree.Tree, p templates.Provider, data templates.Data) error {
	for _, d := range p.Directories(data) {
		if err := tree.EnsureDir(d); err != nil {
			return fmt.Errorf("%s: %w", p.Name(), err)
		}
	}

	files, err := p.Files(data)
	if err != nil {
		return err
	}
	return putFiles(tree, files)
}

func putFiles(tree *filetree.Tree, files []templates.File) error {
	for _, f := range files {
		if err := tree.PutString(f.Path, f.Content); err != nil {
			return fmt.Errorf("writing %s: %w", f.Path, err)
		}
	}
	return nil
}

// addConfigFiles writes .env.example, .gitignore and, when any selected
// provider contributes one, the merged package.json.
func addConfigFiles(tree *filetree.Tree, providers []templates.Provider, data templates.Data) error {
	for _, f := range []struct{ source, target string }{
		{"env.example", ".env.example"},
		{"gitignore", ".gitignore"},
	} {
		content, err := templates.RenderCommon(f.source, data)
		if err != nil {
			return err
		}
		if err := tree.PutString(f.target, content); err != nil {
			return err
		}
	}

	manifest, ok := mergedManifest(providers, data)
	if !ok {
		return nil
	}
	body, err := manifest.JSON()
	if err != nil {
		return err
	}
	return tree.PutString("package.json", body)
}

// mergedManifest folds the manifests of providers in scaffolding order; the
// first one keeps its scripts and metadata.
func mergedManifest(providers []templates.Provider, data templates.Data) (templates.PackageManifest, bool) {
	var (
		merged templates.PackageManifest
		found  bool
	)
	for _, p := range providers {
		mp, ok := p.(templates.ManifestProvider)
		if !ok {
			continue
		}
		if !found {
			merged = mp.Manifest(data)
			found = true
			continue
		}
		merged.Merge(mp.Manifest(data))
	}
	return merged, found
}

// addDocs writes README.md and, for projects with a backend, docs/api.md.
func addDocs(tree *filetree.Tree, data templates.Data) error {
	readme, err := templates.RenderCommon("README.md", data)
	if err != nil {
		return err
	}
	if err := tree.PutString("README.md", readme); err != nil {
		return err
	}

	if !data.HasBackend {
		return nil
	}
	api, err := templates.RenderCommon("api.md", data)
	if err != nil {
		return err
	}
	return tree.PutString("docs/api.md", api)
}
