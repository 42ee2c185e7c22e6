// Package prompts renders the fixed instruction templates sent to the
// text-generation client. Each function fills one template with named
// fields; none of them talk to a model.
package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/devspell/cli/internal/project"
)

// Request kinds, one per template.
const (
	KindPlan          = "plan"
	KindEpics         = "epics"
	KindFilePlan      = "file_plan"
	KindImplementFile = "implement_file"
	KindRecommend     = "recommend"
	KindCompatibility = "compatibility"
)

// PlanSections are the headings a plan is asked to cover.
var PlanSections = []string{
	"Project Overview and Goals",
	"Detailed Technical Requirements",
	"Core Features and Functionality",
	"Project Structure Overview",
	"Development Guidelines",
}

//go:embed templates/*.tmpl
var templateFS embed.FS

var tmpl = template.Must(template.New("prompts").Funcs(template.FuncMap{
	"join": strings.Join,
	"inc":  func(i int) int { return i + 1 },
}).ParseFS(templateFS, "templates/*.tmpl"))

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name+".tmpl", data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", name, err)
	}
	return strings.TrimSpace(buf.String()) + "\n", nil
}

// stack is the flattened view of a config used by every template.
type stack struct {
	Name               string
	ProjectType        string
	Description        string
	Scale              string
	Frontend           string
	UILibrary          string
	Backend            string
	Database           string
	Authentication     string
	DeploymentPlatform string
	Features           string
	Requirements       string
}

func newStack(cfg *project.Config) stack {
	return stack{
		Name:               cfg.Name,
		ProjectType:        orNone(cfg.ProjectType),
		Description:        cfg.Description,
		Scale:              orNone(cfg.Scale),
		Frontend:           cfg.Frontend,
		UILibrary:          cfg.UILibrary,
		Backend:            cfg.Backend,
		Database:           cfg.Database,
		Authentication:     cfg.Authentication,
		DeploymentPlatform: cfg.DeploymentPlatform,
		Features:           joinOrNone(cfg.Features),
		Requirements:       joinOrNone(cfg.Requirements),
	}
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return project.None
	}
	return s
}

func joinOrNone(list []string) string {
	if len(list) == 0 {
		return project.None
	}
	return strings.Join(list, ", ")
}

// Plan renders the requirements-plan prompt.
func Plan(cfg *project.Config) (string, error) {
	return render(KindPlan, struct {
		stack
		Sections []string
	}{newStack(cfg), PlanSections})
}

// Epics renders the epic breakdown prompt for an approved plan.
func Epics(cfg *project.Config, plan string) (string, error) {
	return render(KindEpics, struct {
		stack
		Plan string
	}{newStack(cfg), plan})
}

// FilePlan renders the file-structure prompt. existing lists paths already
// produced by the scaffolder.
func FilePlan(cfg *project.Config, plan, epics string, existing []string) (string, error) {
	return render(KindFilePlan, struct {
		stack
		Plan     string
		Epics    string
		Existing []string
	}{newStack(cfg), plan, epics, existing})
}

// FileContext summarizes one previously implemented file.
type FileContext struct {
	Path              string
	Preview           string
	Imports           []string
	IntegrationPoints []string
}

// ImplementFile renders the single-file implementation prompt. details is
// the file's plan entry, usually indented JSON.
func ImplementFile(path, details string, previous []FileContext) (string, error) {
	return render(KindImplementFile, struct {
		Path     string
		Details  string
		Previous []FileContext
	}{path, details, previous})
}

// OptionGroup lists the technologies available for one category.
type OptionGroup struct {
	Category string
	Names    []string
}

// StackRecommendation renders the stack recommendation prompt.
func StackRecommendation(cfg *project.Config, options []OptionGroup) (string, error) {
	return render(KindRecommend, struct {
		stack
		Options []OptionGroup
	}{newStack(cfg), options})
}

// Compatibility renders the compatibility check prompt.
func Compatibility(cfg *project.Config) (string, error) {
	return render(KindCompatibility, newStack(cfg))
}

// MissingSections returns the plan sections whose heading does not appear
// in plan, ignoring case.
func MissingSections(plan string) []string {
	lower := strings.ToLower(plan)
	var missing []string
	for _, s := range PlanSections {
		if !strings.Contains(lower, strings.ToLower(s)) {
			missing = append(missing, s)
		}
	}
	return missing
}
