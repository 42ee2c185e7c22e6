// Package templates provides the technology template registry used by the
// scaffolder: one Provider per supported frontend, backend and database,
// backed by embedded text/template sources.
package templates

import (
	"strings"

	"github.com/devspell/cli/internal/project"
)

// Category groups providers by the config field that selects them.
type Category string

const (
	Frontend Category = "frontend"
	Backend  Category = "backend"
	Database Category = "database"
)

// Categories returns every category in scaffolding order.
func Categories() []Category {
	return []Category{Frontend, Backend, Database}
}

// Provider renders the scaffolding for one technology. Implementations must
// be deterministic and perform no I/O beyond reading embedded sources.
type Provider interface {
	// Name is the technology name users select, e.g. "React".
	Name() string

	// Category is the config field this provider serves.
	Category() Category

	// Directories lists relative directories to create.
	Directories(data Data) []string

	// Files renders every file of the technology.
	Files(data Data) ([]File, error)
}

// ManifestProvider is implemented by providers that contribute to the
// project's package.json.
type ManifestProvider interface {
	Manifest(data Data) PackageManifest
}

// File is one rendered template output.
type File struct {
	// Path is relative and forward-slash separated.
	Path string

	// Content is the rendered file body.
	Content string
}

// Data is the view of a project configuration exposed to templates.
type Data struct {
	Name        string
	Slug        string
	Description string

	Frontend       string
	UILibrary      string
	Backend        string
	Database       string
	Authentication string
	Deployment     string

	Features []string

	// Stack lists the selected technologies as label/value pairs, in
	// display order, skipping "None".
	Stack []StackItem

	// Tailwind is set when Tailwind CSS appears in the UI library or CSS
	// technology lists.
	Tailwind bool

	HasBackend  bool
	HasDatabase bool
	HasAuth     bool

	// PythonBackend is set for Django and FastAPI.
	PythonBackend bool
}

// NewData derives template data from a project configuration.
func NewData(cfg *project.Config) Data {
	var stack []StackItem
	for _, row := range cfg.Summary() {
		stack = append(stack, StackItem{Label: row[0], Value: row[1]})
	}
	return Data{
		Name:           cfg.Name,
		Slug:           cfg.Slug(),
		Description:    cfg.Description,
		Frontend:       cfg.Frontend,
		UILibrary:      cfg.UILibrary,
		Backend:        cfg.Backend,
		Database:       cfg.Database,
		Authentication: cfg.Authentication,
		Deployment:     cfg.DeploymentPlatform,
		Features:       append([]string{}, cfg.Features...),
		Stack:          stack,
		Tailwind:       cfg.UsesTechnology("tailwind"),
		HasBackend:     project.Has(cfg.Backend),
		HasDatabase:    project.Has(cfg.Database),
		HasAuth:        project.Has(cfg.Authentication),
		PythonBackend:  cfg.Backend == "Django" || cfg.Backend == "FastAPI",
	}
}

// StackItem is one row of the README stack summary.
type StackItem struct {
	Label string
	Value string
}

// AppPort returns the port the generated server listens on.
func (d Data) AppPort() int {
	if d.PythonBackend {
		return 8000
	}
	return 3000
}

// DatabasePort returns the conventional port for the selected database.
func (d Data) DatabasePort() int {
	switch strings.ToLower(d.Database) {
	case "mongodb":
		return 27017
	case "mysql":
		return 3306
	default:
		return 5432
	}
}
