package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/devspell/cli/internal/advisor"
	oerrors "github.com/devspell/cli/internal/errors"
	"github.com/devspell/cli/internal/output"
	"github.com/devspell/cli/internal/pipeline"
	"github.com/devspell/cli/internal/project"
	"github.com/devspell/cli/internal/scaffold"
	"github.com/devspell/cli/internal/store"
	"github.com/devspell/cli/internal/templates"
	"github.com/devspell/cli/internal/wizard"
)

// Handler serves the /api/v1 routes.
type Handler struct {
	pipeline pipeline.Pipeline
	advisor  *advisor.Advisor
	registry *templates.Registry
	sink     store.Sink
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/templates", h.templates)

	projects := rg.Group("/projects")
	projects.GET("", h.listProjects)
	projects.POST("/scaffold", h.scaffold)
	projects.POST("/plan", h.plan)
	projects.POST("/generate", h.generate)
	projects.POST("/recommend", h.recommend)
	projects.POST("/compatibility", h.compatibility)

	rg.POST("/wizard", h.wizard)
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, oerrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, wizard.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, oerrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, oerrors.ErrGeneration):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		output.Error("request failed", "id", GetRequestID(c.Request.Context()), "path", c.Request.URL.Path, "err", err)
	}
	c.JSON(status, gin.H{"ok": false, "error": err.Error()})
}

func badBody(c *gin.Context, err error) {
	fail(c, oerrors.NewValidationError(fmt.Sprintf("invalid body: %v", err), "", "", ""))
}

// projectReq is the body of the project routes.
type projectReq struct {
	// Config accepts the camelCase API keys and the snake_case form keys.
	Config map[string]any `json:"config"`

	// Plan is an approved plan for generate.
	Plan string `json:"plan"`
}

func (h *Handler) bindProject(c *gin.Context) (*project.Config, projectReq, bool) {
	var req projectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return nil, req, false
	}
	if req.Config == nil {
		badBody(c, errors.New("config is required"))
		return nil, req, false
	}
	cfg, err := project.FromForm(req.Config)
	if err != nil {
		fail(c, err)
		return nil, req, false
	}
	return cfg, req, true
}

func userID(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(HeaderUserID))
}

func (h *Handler) templates(c *gin.Context) {
	out := gin.H{}
	for _, cat := range templates.Categories() {
		out[string(cat)] = h.registry.Names(cat)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "templates": out, "deployments": scaffold.Platforms()})
}

func (h *Handler) listProjects(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fail(c, oerrors.NewValidationError("limit must be a non-negative integer", "", "limit", ""))
			return
		}
		limit = n
	}
	items, err := h.sink.ListProjects(c.Request.Context(), userID(c), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

// sendArchive writes a zip download.
func sendArchive(c *gin.Context, res *pipeline.Result) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.ArchiveName))
	c.Header(HeaderDiagnostics, strconv.Itoa(len(res.Diagnostics())))
	c.Header(HeaderPlaceholders, strconv.Itoa(len(res.Placeholders())))
	c.Data(http.StatusOK, "application/zip", res.Archive.Blob)
}

func (h *Handler) scaffold(c *gin.Context) {
	cfg, _, ok := h.bindProject(c)
	if !ok {
		return
	}
	res, err := h.pipeline.Scaffold(c.Request.Context(), cfg, pipeline.GenerateOptions{UserID: userID(c)})
	if err != nil {
		fail(c, err)
		return
	}
	sendArchive(c, res)
}

func (h *Handler) plan(c *gin.Context) {
	cfg, _, ok := h.bindProject(c)
	if !ok {
		return
	}
	res, err := h.pipeline.Plan(c.Request.Context(), cfg, userID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "plan": res.Plan, "missingSections": res.MissingSections})
}

func (h *Handler) generate(c *gin.Context) {
	cfg, req, ok := h.bindProject(c)
	if !ok {
		return
	}
	res, err := h.pipeline.Generate(c.Request.Context(), cfg, pipeline.GenerateOptions{
		UserID: userID(c),
		Plan:   req.Plan,
	})
	if err != nil {
		fail(c, err)
		return
	}
	for _, d := range res.Diagnostics() {
		output.Warn("generation diagnostic", "id", GetRequestID(c.Request.Context()), "diagnostic", d.String())
	}
	sendArchive(c, res)
}

func (h *Handler) recommend(c *gin.Context) {
	if h.advisor == nil {
		fail(c, oerrors.NewValidationError("no text-generation provider configured", "", "llm.provider", ""))
		return
	}
	var req wizard.Requirements
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	cfg := &project.Config{
		Name:         req.Name,
		ProjectType:  req.ProjectType,
		Description:  req.Description,
		Scale:        req.Scale,
		Requirements: req.Requirements,
	}
	cfg.ApplyDefaults()

	rec, err := h.advisor.Recommend(c.Request.Context(), cfg)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "recommendation": rec})
}

func (h *Handler) compatibility(c *gin.Context) {
	cfg, _, ok := h.bindProject(c)
	if !ok {
		return
	}
	if h.advisor == nil {
		c.JSON(http.StatusOK, gin.H{"ok": true, "compatibility": advisor.Compatibility{
			Compatible: len(advisor.KnownIssues(cfg)) == 0,
			Issues:     advisor.KnownIssues(cfg),
		}})
		return
	}
	res, err := h.advisor.CheckCompatibility(c.Request.Context(), cfg)
	if err != nil {
		output.Warn("compatibility check incomplete", "err", err)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "compatibility": res})
}
