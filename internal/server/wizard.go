package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devspell/cli/internal/wizard"
)

type wizardReq struct {
	// State is the state returned by the previous call. Omit it to start.
	State  *wizard.State `json:"state"`
	Action wizard.Action `json:"action"`
}

type wizardResp struct {
	OK       bool         `json:"ok"`
	State    wizard.State `json:"state"`
	Step     string       `json:"step"`
	Progress int          `json:"progress"`
}

// wizard applies one transition. The model-backed steps run here so the
// transitions themselves stay pure: a recommend action without a payload
// asks the advisor, and entering review without a draft asks for a plan.
func (h *Handler) wizard(c *gin.Context) {
	var req wizardReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	state := wizard.New()
	if req.State != nil {
		state = *req.State
	}
	ctx := c.Request.Context()

	if req.Action.Type == wizard.ActionRecommend && req.Action.Recommendation == nil && h.advisor != nil && state.Config != nil {
		rec, err := h.advisor.Recommend(ctx, state.Config)
		if err != nil {
			fail(c, err)
			return
		}
		req.Action.Recommendation = rec
	}

	next, err := wizard.Apply(state, req.Action)
	if err != nil {
		fail(c, err)
		return
	}

	if next, err = h.draft(ctx, c, next); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, wizardResp{
		OK:       true,
		State:    next,
		Step:     next.Step.String(),
		Progress: next.Step.Progress(),
	})
}

// draft fills an empty review draft from the plan phase.
func (h *Handler) draft(ctx context.Context, c *gin.Context, s wizard.State) (wizard.State, error) {
	if s.Step != wizard.StepReview || s.Draft != "" || h.pipeline == nil {
		return s, nil
	}
	res, err := h.pipeline.Plan(ctx, s.Config, userID(c))
	if err != nil {
		return s, err
	}
	return wizard.SetDraft(s, res.Plan)
}
