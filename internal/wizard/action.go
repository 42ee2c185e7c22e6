package wizard

import (
	"fmt"

	"github.com/devspell/cli/internal/advisor"
)

// ActionType names a transition.
type ActionType string

const (
	ActionSubmitRequirements ActionType = "submit_requirements"
	ActionRecommend          ActionType = "recommend"
	ActionSelectStack        ActionType = "select_stack"
	ActionSetDraft           ActionType = "set_draft"
	ActionEditDraft          ActionType = "edit_draft"
	ActionRegenerateDraft    ActionType = "regenerate_draft"
	ActionApproveDraft       ActionType = "approve_draft"
	ActionBack               ActionType = "back"
	ActionReset              ActionType = "reset"
)

// Action is a transition plus its input, as sent by a client.
type Action struct {
	Type           ActionType              `json:"type"`
	Requirements   *Requirements           `json:"requirements,omitempty"`
	Stack          *Stack                  `json:"stack,omitempty"`
	Draft          string                  `json:"draft,omitempty"`
	Recommendation *advisor.Recommendation `json:"recommendation,omitempty"`
}

// Apply dispatches a to its transition. A missing input for an action that
// needs one is an invalid transition.
func Apply(s State, a Action) (State, error) {
	switch a.Type {
	case ActionSubmitRequirements:
		if a.Requirements == nil {
			return invalid(s, "submit requirements without input")
		}
		return SubmitRequirements(s, *a.Requirements)
	case ActionRecommend:
		return Recommend(s, a.Recommendation)
	case ActionSelectStack:
		st := Stack{}
		if a.Stack != nil {
			st = *a.Stack
		}
		return SelectStack(s, st)
	case ActionSetDraft:
		return SetDraft(s, a.Draft)
	case ActionEditDraft:
		return EditDraft(s, a.Draft)
	case ActionRegenerateDraft:
		return RegenerateDraft(s)
	case ActionApproveDraft:
		return ApproveDraft(s, a.Draft)
	case ActionBack:
		return Back(s)
	case ActionReset:
		return Reset(s), nil
	}
	return s, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, a.Type)
}
