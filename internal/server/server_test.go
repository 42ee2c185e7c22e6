package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devspell/cli/internal/advisor"
	"github.com/devspell/cli/internal/archive"
	"github.com/devspell/cli/internal/llm"
	"github.com/devspell/cli/internal/pipeline"
	"github.com/devspell/cli/internal/prompts"
	"github.com/devspell/cli/internal/store"
	"github.com/devspell/cli/internal/wizard"
)

type fixture struct {
	router *gin.Engine
	fake   *llm.FakeClient
	sink   *store.MemorySink
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake := llm.NewFakeClient()
	sink := store.NewMemorySink()
	return &fixture{
		router: BuildRouter(RouterDeps{
			ServiceName: "devspell",
			Version:     "test",
			Pipeline:    pipeline.New(fake, pipeline.WithSink(sink)),
			Advisor:     advisor.New(fake, nil),
			Sink:        sink,
			CORSOrigins: []string{"*"},
		}),
		fake: fake,
		sink: sink,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func staticConfig() map[string]any {
	return map[string]any{
		"config": map[string]any{
			"project_name":        "My App",
			"project_description": "A landing page",
			"frontend":            "HTML/CSS/JS(Vanilla)",
		},
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "test", resp.Version)
	assert.NotEmpty(t, rr.Header().Get(HeaderRequestID))
}

func TestRequestIDIsEchoed(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodGet, "/healthz", nil, map[string]string{HeaderRequestID: "abc"})
	assert.Equal(t, "abc", rr.Header().Get(HeaderRequestID))
}

func TestTemplates(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodGet, "/api/v1/templates", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Templates   map[string][]string `json:"templates"`
		Deployments []string            `json:"deployments"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp.Templates["frontend"], "React")
	assert.Contains(t, resp.Templates["database"], "MongoDB")
	assert.Contains(t, resp.Deployments, "Docker")
}

func TestScaffold_ReturnsZip(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, http.MethodPost, "/api/v1/projects/scaffold", staticConfig(), nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	assert.Equal(t, "application/zip", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="my_app.zip"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "0", rr.Header().Get(HeaderDiagnostics))

	entries, err := archive.Read(rr.Body.Bytes())
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
	assert.Empty(t, f.fake.Calls())
}

func TestGenerate_ReturnsZipAndSaves(t *testing.T) {
	f := newFixture(t)
	f.fake.Errors = map[string]error{prompts.KindImplementFile: errors.New("overloaded")}

	rr := f.do(t, http.MethodPost, "/api/v1/projects/generate", staticConfig(), map[string]string{HeaderUserID: "u1"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "3", rr.Header().Get(HeaderDiagnostics))
	assert.Equal(t, "3", rr.Header().Get(HeaderPlaceholders))

	list := f.do(t, http.MethodGet, "/api/v1/projects?limit=5", nil, map[string]string{HeaderUserID: "u1"})
	require.Equal(t, http.StatusOK, list.Code)
	var resp struct {
		Projects []store.ProjectRecord `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &resp))
	require.Len(t, resp.Projects, 1)
	assert.Equal(t, "my_app", resp.Projects[0].Slug)
	assert.Len(t, resp.Projects[0].Placeholders, 3)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   any
		header map[string]string
		setup  func(*fixture)
		status int
	}{
		{"missing config", http.MethodPost, "/api/v1/projects/generate", map[string]any{}, nil, nil, http.StatusBadRequest},
		{"missing frontend", http.MethodPost, "/api/v1/projects/scaffold",
			map[string]any{"config": map[string]any{"name": "x", "description": "y"}}, nil, nil, http.StatusBadRequest},
		{"list without user", http.MethodGet, "/api/v1/projects", nil, nil, nil, http.StatusBadRequest},
		{"bad limit", http.MethodGet, "/api/v1/projects?limit=-1", nil, map[string]string{HeaderUserID: "u"}, nil, http.StatusBadRequest},
		{"plan fails", http.MethodPost, "/api/v1/projects/plan", staticConfig(), nil,
			func(f *fixture) { f.fake.Errors = map[string]error{prompts.KindPlan: errors.New("quota")} }, http.StatusBadGateway},
		{"wizard out of order", http.MethodPost, "/api/v1/wizard",
			map[string]any{"action": map[string]any{"type": "approve_draft"}}, nil, nil, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}
			rr := f.do(t, tt.method, tt.path, tt.body, tt.header)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, false, resp["ok"])
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestPlanAndRecommend(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodPost, "/api/v1/projects/plan", staticConfig(), map[string]string{HeaderUserID: "u1"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "Project Overview")
	assert.Len(t, f.sink.Chats("u1"), 1)

	rr = f.do(t, http.MethodPost, "/api/v1/projects/recommend",
		wizard.Requirements{Name: "Shop", Description: "An online shop"}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp struct {
		Recommendation advisor.Recommendation `json:"recommendation"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "React", resp.Recommendation.Frontend)

	rr = f.do(t, http.MethodPost, "/api/v1/projects/compatibility", map[string]any{
		"config": map[string]any{"name": "x", "description": "y", "frontend": "React", "database": "MySQL"},
	}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"compatible":false`)
}

func TestWizardFlow(t *testing.T) {
	f := newFixture(t)

	step := func(state *wizard.State, action wizard.Action) wizardResp {
		t.Helper()
		rr := f.do(t, http.MethodPost, "/api/v1/wizard", wizardReq{State: state, Action: action}, nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var resp wizardResp
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		return resp
	}

	resp := step(nil, wizard.Action{
		Type:         wizard.ActionSubmitRequirements,
		Requirements: &wizard.Requirements{Name: "Shop", Description: "An online shop"},
	})
	assert.Equal(t, "stack", resp.Step)
	assert.Equal(t, 50, resp.Progress)

	resp = step(&resp.State, wizard.Action{Type: wizard.ActionRecommend})
	require.NotNil(t, resp.State.Recommendation)
	assert.Equal(t, "React", resp.State.Recommendation.Frontend)

	resp = step(&resp.State, wizard.Action{Type: wizard.ActionSelectStack, Stack: &wizard.Stack{Database: "MongoDB"}})
	assert.Equal(t, "review", resp.Step)
	assert.Equal(t, "MongoDB", resp.State.Config.Database)
	assert.Contains(t, resp.State.Draft, "Project Overview", "entering review drafts a plan")

	resp = step(&resp.State, wizard.Action{Type: wizard.ActionApproveDraft})
	assert.Equal(t, "generate", resp.Step)
	assert.Equal(t, resp.State.Draft, resp.State.Approved)
}
