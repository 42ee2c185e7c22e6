// Package wizard is the four-step new-project flow as an explicit state
// value. Every transition is a pure function from a State and its input to
// a new State; nothing is kept between calls, so the HTTP layer can hand
// the state to the client and back.
package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devspell/cli/internal/advisor"
	oerrors "github.com/devspell/cli/internal/errors"
	"github.com/devspell/cli/internal/project"
)

// ErrInvalidTransition is returned when an action is not allowed in the
// current step.
var ErrInvalidTransition = errors.New("invalid wizard transition")

// Step is a wizard position.
type Step int

const (
	StepRequirements Step = iota + 1
	StepStack
	StepReview
	StepGenerate
)

func (s Step) String() string {
	switch s {
	case StepRequirements:
		return "requirements"
	case StepStack:
		return "stack"
	case StepReview:
		return "review"
	case StepGenerate:
		return "generate"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Progress is the completion percentage shown for the step.
func (s Step) Progress() int {
	if s < StepRequirements || s > StepGenerate {
		return 0
	}
	return int(s) * 25
}

// State is everything the wizard has collected.
type State struct {
	Step           Step                    `json:"step"`
	Config         *project.Config         `json:"config,omitempty"`
	Draft          string                  `json:"draft,omitempty"`
	Approved       string                  `json:"approved,omitempty"`
	Recommendation *advisor.Recommendation `json:"recommendation,omitempty"`
}

// New returns the initial state.
func New() State {
	return State{Step: StepRequirements}
}

// Requirements is the input of the first step.
type Requirements struct {
	Name         string   `json:"name"`
	ProjectType  string   `json:"projectType"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	Scale        string   `json:"scale"`
}

// Stack is the input of the second step.
type Stack struct {
	Frontend           string   `json:"frontend"`
	UILibrary          string   `json:"uiLibrary"`
	Backend            string   `json:"backend"`
	Database           string   `json:"database"`
	Authentication     string   `json:"authentication"`
	DeploymentPlatform string   `json:"deploymentPlatform"`
	Features           []string `json:"features"`
}

func invalid(s State, action string) (State, error) {
	return s, fmt.Errorf("%w: %s during %s step", ErrInvalidTransition, action, s.Step)
}

// clone copies the pointer fields so callers never share a config.
func (s State) clone() State {
	if s.Config != nil {
		s.Config = s.Config.Clone()
	}
	if s.Recommendation != nil {
		r := *s.Recommendation
		r.AdditionalServices = append([]string{}, r.AdditionalServices...)
		s.Recommendation = &r
	}
	return s
}

// SubmitRequirements records the project description and moves to the
// stack step.
func SubmitRequirements(s State, req Requirements) (State, error) {
	if s.Step != StepRequirements {
		return invalid(s, "submit requirements")
	}

	var missing []string
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(req.Description) == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return s, oerrors.NewValidationError(
			"missing required fields: "+strings.Join(missing, ", "), "", missing[0],
			"name and description must be non-empty")
	}

	next := s.clone()
	cfg := &project.Config{
		Name:         req.Name,
		ProjectType:  req.ProjectType,
		Description:  req.Description,
		Scale:        req.Scale,
		Requirements: req.Requirements,
	}
	cfg.ApplyDefaults()
	next.Config = cfg
	next.Step = StepStack
	return next, nil
}

// Recommend attaches a stack recommendation during the stack step.
func Recommend(s State, rec *advisor.Recommendation) (State, error) {
	if s.Step != StepStack || rec == nil {
		return invalid(s, "recommend")
	}
	next := s.clone()
	r := *rec
	next.Recommendation = &r
	return next, nil
}

// SelectStack fixes the technology choices and moves to review. Choices
// left empty fall back to the recommendation, then to None.
func SelectStack(s State, st Stack) (State, error) {
	if s.Step != StepStack || s.Config == nil {
		return invalid(s, "select stack")
	}

	cfg := advisor.Apply(s.Config, s.Recommendation)
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&cfg.Frontend, st.Frontend)
	set(&cfg.UILibrary, st.UILibrary)
	set(&cfg.Backend, st.Backend)
	set(&cfg.Database, st.Database)
	set(&cfg.Authentication, st.Authentication)
	set(&cfg.DeploymentPlatform, st.DeploymentPlatform)
	if st.Features != nil {
		cfg.Features = append([]string{}, st.Features...)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return s, err
	}

	next := s.clone()
	next.Config = cfg
	next.Draft = ""
	next.Approved = ""
	next.Step = StepReview
	return next, nil
}

// SetDraft stores a freshly generated plan draft.
func SetDraft(s State, draft string) (State, error) {
	if s.Step != StepReview {
		return invalid(s, "set draft")
	}
	if strings.TrimSpace(draft) == "" {
		return s, oerrors.NewValidationError("draft is empty", "", "draft", "")
	}
	next := s.clone()
	next.Draft = draft
	return next, nil
}

// EditDraft replaces an existing draft with the user's edit.
func EditDraft(s State, draft string) (State, error) {
	if s.Step != StepReview || s.Draft == "" {
		return invalid(s, "edit draft")
	}
	return SetDraft(s, draft)
}

// RegenerateDraft discards the draft so a new one can be generated.
func RegenerateDraft(s State) (State, error) {
	if s.Step != StepReview {
		return invalid(s, "regenerate draft")
	}
	next := s.clone()
	next.Draft = ""
	return next, nil
}

// ApproveDraft approves text, or the current draft when text is empty, and
// moves to generation.
func ApproveDraft(s State, text string) (State, error) {
	if s.Step != StepReview {
		return invalid(s, "approve draft")
	}
	if strings.TrimSpace(text) == "" {
		text = s.Draft
	}
	if strings.TrimSpace(text) == "" {
		return invalid(s, "approve draft without a draft")
	}
	next := s.clone()
	next.Draft = text
	next.Approved = text
	next.Step = StepGenerate
	return next, nil
}

// Back returns to the previous step. Leaving generation drops the approval;
// leaving review drops the draft.
func Back(s State) (State, error) {
	next := s.clone()
	switch s.Step {
	case StepGenerate:
		next.Approved = ""
		next.Step = StepReview
	case StepReview:
		next.Draft = ""
		next.Step = StepStack
	case StepStack:
		next.Step = StepRequirements
	default:
		return invalid(s, "back")
	}
	return next, nil
}

// Reset discards everything.
func Reset(State) State {
	return New()
}
