package pipeline

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devspell/cli/internal/archive"
	oerrors "github.com/devspell/cli/internal/errors"
	"github.com/devspell/cli/internal/export"
	"github.com/devspell/cli/internal/filetree"
	"github.com/devspell/cli/internal/llm"
	"github.com/devspell/cli/internal/project"
	"github.com/devspell/cli/internal/prompts"
	"github.com/devspell/cli/internal/store"
	"github.com/devspell/cli/internal/synth"
)

func staticSite(t *testing.T) *project.Config {
	t.Helper()
	cfg, err := project.FromForm(map[string]any{
		"name":        "My App",
		"description": "A static landing page",
		"frontend":    "HTML/CSS/JS(Vanilla)",
	})
	require.NoError(t, err)
	return cfg
}

func entries(t *testing.T, res *Result) map[string]string {
	t.Helper()
	got, err := archive.Read(res.Archive.Blob)
	require.NoError(t, err)
	out := make(map[string]string, len(got))
	for _, e := range got {
		out[e.Path] = e.Content
	}
	return out
}

func kinds(calls []llm.Request) []string {
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.Kind)
	}
	return out
}

func TestGenerate_EndToEnd(t *testing.T) {
	fake := llm.NewFakeClient()
	sink := store.NewMemorySink()
	p := New(fake, WithSink(sink))

	var events []synth.Event
	res, err := p.Generate(context.Background(), staticSite(t), GenerateOptions{
		UserID:   "u1",
		Observer: func(e synth.Event) { events = append(events, e) },
	})
	require.NoError(t, err)

	assert.Equal(t, "my_app.zip", res.ArchiveName)
	assert.Equal(t, []string{"src/services/api.js", "src/services/auth.js", "tests/api.test.js"}, res.Synthesis.Order)
	assert.Empty(t, res.Placeholders())
	assert.Len(t, events, 6)

	files := entries(t, res)
	assert.Equal(t, "// src/services/auth.js\n", files["my_app/src/services/auth.js"])
	assert.Contains(t, files["my_app/README.md"], "# My App")
	assert.NotContains(t, files, "my_app/docs/api.md")

	f, ok := res.Tree.Get("src/services/api.js")
	require.True(t, ok)
	assert.Equal(t, filetree.OriginSynthesized, f.Origin)

	assert.Equal(t,
		[]string{prompts.KindPlan, prompts.KindEpics, prompts.KindFilePlan,
			prompts.KindImplementFile, prompts.KindImplementFile, prompts.KindImplementFile},
		kinds(fake.Calls()))

	chats := sink.Chats("u1")
	require.Len(t, chats, 1)
	assert.Equal(t, res.Plan, chats[0].LLMResponse)

	saved, err := sink.ListProjects(context.Background(), "u1", 0)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, res.ProjectID, saved[0].ID)
	assert.Equal(t, "my_app", saved[0].Slug)
	assert.Contains(t, saved[0].Files, "src/services/api.js")
}

func TestGenerate_LaterFilesSeeEarlierOnes(t *testing.T) {
	fake := llm.NewFakeClient()
	_, err := New(fake).Generate(context.Background(), staticSite(t), GenerateOptions{})
	require.NoError(t, err)

	calls := fake.Calls()
	last := calls[len(calls)-1]
	assert.Contains(t, last.Prompt, "Path: tests/api.test.js")
	assert.Contains(t, last.Prompt, "exports src/services/api.js")
	assert.Contains(t, last.Prompt, "exports src/services/auth.js")
}

func TestGenerate_FileFailuresBecomePlaceholders(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Errors = map[string]error{prompts.KindImplementFile: llm.NewPermanentError(errors.New("model overloaded"))}

	res, err := New(fake).Generate(context.Background(), staticSite(t), GenerateOptions{})
	require.NoError(t, err)

	assert.Len(t, res.Placeholders(), 3)
	assert.Len(t, res.Diagnostics(), 3)
	files := entries(t, res)
	assert.Contains(t, files["my_app/src/services/api.js"], "// Error implementing file:")
}

func TestGenerate_PlaceholderKeepsTemplateFile(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Responses = map[string]string{
		prompts.KindFilePlan: `{"README.md": {"description": "readme"}, "src/new.js": {"description": "new"}}`,
	}
	fake.Errors = map[string]error{prompts.KindImplementFile: errors.New("boom")}

	res, err := New(fake).Generate(context.Background(), staticSite(t), GenerateOptions{})
	require.NoError(t, err)

	readme, ok := res.Tree.Get("README.md")
	require.True(t, ok)
	assert.Equal(t, filetree.OriginTemplate, readme.Origin)

	added, ok := res.Tree.Get("src/new.js")
	require.True(t, ok)
	assert.Equal(t, filetree.OriginPlaceholder, added.Origin)
}

func TestGenerate_FileUnderTemplateFileIsDropped(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Responses = map[string]string{
		prompts.KindFilePlan: `{"index.html/app.js": {"description": "bad nesting"}, "src/main.js": {"description": "entry"}}`,
	}

	res, err := New(fake).Generate(context.Background(), staticSite(t), GenerateOptions{})
	require.NoError(t, err)

	files := entries(t, res)
	assert.Contains(t, files, "my_app/index.html")
	assert.Contains(t, files, "my_app/src/main.js")
	assert.NotContains(t, files, "my_app/index.html/app.js")

	var dropped []string
	for _, d := range res.Diagnostics() {
		if d.Kind == synth.KindSynthesisFailure {
			dropped = append(dropped, d.Path)
		}
	}
	assert.Equal(t, []string{"index.html/app.js"}, dropped)
}

func TestGenerate_ApprovedPlanSkipsPlanning(t *testing.T) {
	fake := llm.NewFakeClient()
	res, err := New(fake).Generate(context.Background(), staticSite(t), GenerateOptions{Plan: "approved plan"})
	require.NoError(t, err)

	assert.Equal(t, "approved plan", res.Plan)
	assert.NotContains(t, kinds(fake.Calls()), prompts.KindPlan)
}

func TestGenerate_FatalPhases(t *testing.T) {
	tests := []struct {
		name      string
		errors    map[string]error
		responses map[string]string
	}{
		{name: "plan", errors: map[string]error{prompts.KindPlan: errors.New("quota")}},
		{name: "epics", errors: map[string]error{prompts.KindEpics: errors.New("quota")}},
		{name: "file plan", errors: map[string]error{prompts.KindFilePlan: errors.New("quota")}},
		{name: "unparseable file plan", responses: map[string]string{prompts.KindFilePlan: "here are some files"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := llm.NewFakeClient()
			fake.Errors = tt.errors
			fake.Responses = tt.responses

			res, err := New(fake).Generate(context.Background(), staticSite(t), GenerateOptions{})
			assert.Nil(t, res)
			assert.ErrorIs(t, err, oerrors.ErrGeneration)
		})
	}
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(llm.NewFakeClient()).Generate(ctx, staticSite(t), GenerateOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, oerrors.ErrGeneration)
}

func TestGenerate_Validation(t *testing.T) {
	_, err := New(llm.NewFakeClient()).Generate(context.Background(), &project.Config{Name: "x"}, GenerateOptions{})
	assert.ErrorIs(t, err, oerrors.ErrValidation)

	_, err = New(nil).Generate(context.Background(), staticSite(t), GenerateOptions{})
	assert.ErrorIs(t, err, oerrors.ErrValidation)

	_, err = New(nil).Generate(context.Background(), nil, GenerateOptions{})
	assert.ErrorIs(t, err, oerrors.ErrValidation)
}

func TestPlan(t *testing.T) {
	fake := llm.NewFakeClient()
	sink := store.NewMemorySink()

	res, err := New(fake, WithSink(sink)).Plan(context.Background(), staticSite(t), "u1")
	require.NoError(t, err)
	assert.Empty(t, res.MissingSections)
	assert.NotEmpty(t, res.ChatID)
	assert.Contains(t, res.Prompt, "My App")

	fake.Responses = map[string]string{prompts.KindPlan: "Just build it."}
	res, err = New(fake).Plan(context.Background(), staticSite(t), "")
	require.NoError(t, err)
	assert.Equal(t, prompts.PlanSections, res.MissingSections)
	assert.Empty(t, res.ChatID)
}

func TestScaffold_NoModelAndExport(t *testing.T) {
	dir := t.TempDir()
	cfg := staticSite(t)
	before := cfg.Clone()

	res, err := New(nil, WithExporter(export.NewFileExporter(dir))).Scaffold(context.Background(), cfg, GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, before, cfg)
	assert.Nil(t, res.Synthesis)
	assert.Empty(t, res.Diagnostics())

	blob, err := os.ReadFile(res.Location)
	require.NoError(t, err)
	assert.Equal(t, res.Archive.Blob, blob)

	dirs, err := archive.Dirs(blob)
	require.NoError(t, err)
	assert.Contains(t, dirs, "my_app/docs/")
}
