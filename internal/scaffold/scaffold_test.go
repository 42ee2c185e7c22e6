package scaffold

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devspell/cli/internal/filetree"
	"github.com/devspell/cli/internal/project"
)

func newConfig(t *testing.T, values map[string]any) *project.Config {
	t.Helper()
	base := map[string]any{
		"name":        "My App",
		"description": "Test project",
		"frontend":    "HTML/CSS/JS(Vanilla)",
	}
	for k, v := range values {
		base[k] = v
	}
	cfg, err := project.FromForm(base)
	require.NoError(t, err)
	return cfg
}

func content(t *testing.T, tree *filetree.Tree, path string) string {
	t.Helper()
	f, ok := tree.Get(path)
	require.True(t, ok, "missing %s", path)
	return string(f.Content)
}

func TestScaffold_StaticSite(t *testing.T) {
	tree, err := Scaffold(newConfig(t, nil))
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"public", "assets", "css", "js", "images", "docs", "tests", "scripts"},
		tree.Dirs())
	assert.Contains(t, content(t, tree, "index.html"), "My App")
	assert.False(t, tree.Has("docs/api.md"))
	assert.False(t, tree.Has("package.json"))

	env := content(t, tree, ".env.example")
	assert.NotContains(t, env, "DB_HOST")
	assert.NotContains(t, env, "JWT_SECRET")

	assert.True(t, tree.Has("README.md"))
	assert.True(t, tree.Has(".gitignore"))
}

func TestScaffold_DoesNotMutateInput(t *testing.T) {
	configs := []map[string]any{
		nil,
		{"frontend": "React", "backend": "Node.js/Express", "database": "PostgreSQL", "authentication": "JWT"},
		{"frontend": "Vue.js", "backend": "Django", "deployment": "Docker", "features": "Search, Chat"},
		{"frontend": "Next.js", "backend": "FastAPI", "database": "MongoDB", "deployment": "Kubernetes"},
	}

	for _, values := range configs {
		cfg := newConfig(t, values)
		before := cfg.Clone()

		_, err := Scaffold(cfg)
		require.NoError(t, err)
		assert.Equal(t, before, cfg)
	}
}

func TestScaffold_APIDocsOnlyWithBackend(t *testing.T) {
	tests := []struct {
		backend string
		want    bool
	}{
		{project.None, false},
		{"Node.js/Express", true},
		{"Django", true},
		{"Rails", true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			tree, err := Scaffold(newConfig(t, map[string]any{"backend": tt.backend}))
			require.NoError(t, err)
			assert.Equal(t, tt.want, tree.Has("docs/api.md"))
		})
	}
}

func TestScaffold_EnvAuthBlock(t *testing.T) {
	for _, auth := range []string{"JWT", "OAuth", "Firebase Auth", "Something Custom"} {
		tree, err := Scaffold(newConfig(t, map[string]any{"authentication": auth}))
		require.NoError(t, err)
		env := content(t, tree, ".env.example")
		assert.Contains(t, env, "JWT_SECRET=", auth)
		assert.Contains(t, env, "JWT_EXPIRATION=24h", auth)
	}

	tree, err := Scaffold(newConfig(t, map[string]any{"authentication": project.None}))
	require.NoError(t, err)
	assert.NotContains(t, content(t, tree, ".env.example"), "JWT_SECRET")
}

func TestScaffold_EnvDatabaseBlock(t *testing.T) {
	tree, err := Scaffold(newConfig(t, map[string]any{"database": "MongoDB"}))
	require.NoError(t, err)

	env := content(t, tree, ".env.example")
	assert.Contains(t, env, "DB_HOST=localhost")
	assert.Contains(t, env, "DB_PORT=27017")
	assert.Contains(t, env, "DB_NAME=my_app")
}

func TestScaffold_EnvPortFollowsBackend(t *testing.T) {
	tests := []struct {
		backend string
		want    string
	}{
		{backend: "Node.js/Express", want: "3000"},
		{backend: "FastAPI", want: "8000"},
		{backend: "Django", want: "8000"},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			tree, err := Scaffold(newConfig(t, map[string]any{"backend": tt.backend}))
			require.NoError(t, err)

			assert.Contains(t, content(t, tree, ".env.example"), "PORT="+tt.want+"\n")
			assert.Contains(t, content(t, tree, "docs/api.md"), "http://localhost:"+tt.want+"/api")
		})
	}
}

func TestScaffold_UnknownTechnologiesAddNothing(t *testing.T) {
	bare, err := Scaffold(newConfig(t, nil))
	require.NoError(t, err)

	tree, err := Scaffold(newConfig(t, map[string]any{
		"backend":    "Phoenix",
		"database":   "CockroachDB",
		"deployment": "Heroku",
	}))
	require.NoError(t, err)

	for _, p := range bare.Paths() {
		assert.True(t, tree.Has(p), p)
	}
	assert.False(t, tree.Has("Dockerfile"))
	assert.False(t, tree.Has("vercel.json"))
	assert.False(t, tree.Has("netlify.toml"))
	assert.True(t, tree.Has("docs/api.md"), "an unknown backend is still a backend")
}

func TestScaffold_MergedPackageManifest(t *testing.T) {
	tree, err := Scaffold(newConfig(t, map[string]any{
		"frontend": "React",
		"backend":  "Node.js/Express",
		"database": "MySQL",
	}))
	require.NoError(t, err)

	manifest := content(t, tree, "package.json")
	assert.Contains(t, manifest, `"react"`)
	assert.Contains(t, manifest, `"express"`)
	assert.Contains(t, manifest, `"mysql2"`)
	assert.Contains(t, manifest, `"server:dev"`)
	assert.Contains(t, manifest, `"name": "my_app"`)
}

func TestScaffold_PythonBackendHasNoManifest(t *testing.T) {
	tree, err := Scaffold(newConfig(t, map[string]any{"backend": "FastAPI", "database": "PostgreSQL"}))
	require.NoError(t, err)

	assert.False(t, tree.Has("package.json"))
	assert.True(t, tree.Has("app/main.py"))
	assert.True(t, tree.Has("app/core/database.py"))
	assert.False(t, tree.Has("src/config/database.js"))
}

func TestScaffold_Deterministic(t *testing.T) {
	values := map[string]any{
		"frontend":       "Vue.js",
		"backend":        "Node.js/Express",
		"database":       "PostgreSQL",
		"authentication": "JWT",
		"deployment":     "Kubernetes",
		"features":       []string{"Search", "Chat"},
	}

	first, err := Scaffold(newConfig(t, values))
	require.NoError(t, err)
	second, err := Scaffold(newConfig(t, values))
	require.NoError(t, err)

	require.Equal(t, first.Paths(), second.Paths())
	for _, p := range first.Paths() {
		assert.Equal(t, content(t, first, p), content(t, second, p), p)
	}
	assert.Equal(t, first.Dirs(), second.Dirs())
}

func TestScaffold_READMEListsFeatures(t *testing.T) {
	tree, err := Scaffold(newConfig(t, map[string]any{"features": "Dark mode, Search"}))
	require.NoError(t, err)

	readme := content(t, tree, "README.md")
	assert.True(t, strings.Index(readme, "- Dark mode") < strings.Index(readme, "- Search"))
	assert.Contains(t, readme, "- **Frontend**: HTML/CSS/JS(Vanilla)")
}
