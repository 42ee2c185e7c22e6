package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devspell/cli/internal/archive"
	"github.com/devspell/cli/internal/cmdtypes"
	"github.com/devspell/cli/internal/config"
	oerrors "github.com/devspell/cli/internal/errors"
)

func fakeGlobals() *cmdtypes.GlobalConfig {
	cfg := config.DefaultConfig()
	cfg.LLM.Provider = "fake"
	cfg.Store.Kind = config.KindMemory
	return &cmdtypes.GlobalConfig{Config: cfg}
}

func execute(t *testing.T, c *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&bytes.Buffer{})
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), err
}

func writeStack(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "stack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`name: Site
description: A static site
frontend: HTML/CSS/JS(Vanilla)
`), 0o644))
	return path
}

func TestNewProjectCmd(t *testing.T) {
	cmd := NewProjectCmd(&cmdtypes.GlobalConfig{})

	assert.Equal(t, "project", cmd.Use)
	names := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"scaffold", "plan", "generate", "recommend", "inspect", "list"}, names)
}

func TestNewProjectCmd_NoLocalVerboseFlag(t *testing.T) {
	for _, c := range NewProjectCmd(&cmdtypes.GlobalConfig{}).Commands() {
		assert.Nil(t, c.Flags().Lookup("verbose"), "%s should use the root --verbose flag", c.Name())
	}
}

func TestScaffold_WritesArchive(t *testing.T) {
	dir := t.TempDir()
	stack := writeStack(t, dir)

	_, err := execute(t, NewProjectCmd(fakeGlobals()), "scaffold", "-s", stack, "-o", dir)
	require.NoError(t, err)

	blob, err := os.ReadFile(filepath.Join(dir, "site.zip"))
	require.NoError(t, err)
	entries, err := archive.Read(blob)
	require.NoError(t, err)

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	assert.Contains(t, paths, "index.html")
	assert.Contains(t, paths, "README.md")
}

func TestScaffold_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	stack := writeStack(t, dir)
	out := filepath.Join(dir, "tree")

	_, err := execute(t, NewProjectCmd(fakeGlobals()), "scaffold", "-s", stack,
		"--name", "Other", "--extract", "-o", out)
	require.NoError(t, err)

	readme, err := os.ReadFile(filepath.Join(out, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "Other")
}

func TestScaffold_MissingStackFile(t *testing.T) {
	_, err := execute(t, NewProjectCmd(fakeGlobals()), "scaffold", "-s", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	var exitErr *oerrors.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, oerrors.ExitNotFound, exitErr.Code)
}

func TestScaffold_InvalidStack(t *testing.T) {
	_, err := execute(t, NewProjectCmd(fakeGlobals()), "scaffold", "--name", "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrValidation))
}

func TestGenerate_WithFakeModel(t *testing.T) {
	dir := t.TempDir()
	stack := writeStack(t, dir)
	out := filepath.Join(dir, "site")

	_, err := execute(t, NewProjectCmd(fakeGlobals()), "generate", "-s", stack, "--extract", "-o", out, "--user", "u1")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(out, "index.html"))
	assert.FileExists(t, filepath.Join(out, "src", "services", "api.js"))
	assert.FileExists(t, filepath.Join(out, "tests", "api.test.js"))
}

func TestGenerate_ApprovedPlan(t *testing.T) {
	dir := t.TempDir()
	stack := writeStack(t, dir)
	plan := filepath.Join(dir, "PLAN.md")
	require.NoError(t, os.WriteFile(plan, []byte("# Project Overview and Goals\nShip it.\n"), 0o644))

	_, err := execute(t, NewProjectCmd(fakeGlobals()), "generate", "-s", stack, "--plan", plan, "-o", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "site.zip"))
}

func TestGenerate_ConfigLoadError(t *testing.T) {
	gc := fakeGlobals()
	gc.LoadErr = oerrors.NewValidationError("bad config", "", "llm.provider", "")

	_, err := execute(t, NewProjectCmd(gc), "generate", "-s", writeStack(t, t.TempDir()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrValidation))
}

func TestPlan_WritesFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "PLAN.md")

	_, err := execute(t, NewProjectCmd(fakeGlobals()), "plan", "-s", writeStack(t, dir), "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Project Overview and Goals")
}

func TestPlan_Stdout(t *testing.T) {
	stdout, err := execute(t, NewProjectCmd(fakeGlobals()), "plan", "-s", writeStack(t, t.TempDir()))
	require.NoError(t, err)
	assert.Contains(t, stdout, "# Development Guidelines")
}

func TestRecommend(t *testing.T) {
	stdout, err := execute(t, NewProjectCmd(fakeGlobals()), "recommend",
		"--name", "Shop", "--description", "Online store", "--check", "-o", "json")
	require.NoError(t, err)

	var res RecommendResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	require.NotNil(t, res.Recommendation)
	assert.NotEmpty(t, res.Recommendation.Frontend)
	assert.NotNil(t, res.Compatibility)
}

func TestRecommend_RequiresDescription(t *testing.T) {
	_, err := execute(t, NewProjectCmd(fakeGlobals()), "recommend", "--name", "Shop")
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrValidation))
}

func TestRecommend_UnknownFormat(t *testing.T) {
	_, err := execute(t, NewProjectCmd(fakeGlobals()), "recommend",
		"--name", "Shop", "--description", "Online store", "-o", "xml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrValidation))
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, NewProjectCmd(fakeGlobals()), "scaffold", "-s", writeStack(t, dir), "-o", dir)
	require.NoError(t, err)
	zip := filepath.Join(dir, "site.zip")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"tree", nil, "index.html"},
		{"table", []string{"--table"}, "BYTES"},
		{"cat", []string{"--cat", "README.md"}, "Site"},
		{"cat with root", []string{"--cat", "site/README.md"}, "Site"},
		{"table paths are relative", []string{"--table"}, "README.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"inspect", zip}, tt.args...)
			stdout, err := execute(t, NewProjectCmd(fakeGlobals()), args...)
			require.NoError(t, err)
			assert.Contains(t, stdout, tt.want)
		})
	}

	t.Run("missing file in archive", func(t *testing.T) {
		_, err := execute(t, NewProjectCmd(fakeGlobals()), "inspect", zip, "--cat", "nope.txt")
		require.Error(t, err)
		assert.True(t, errors.Is(err, oerrors.ErrNotFound))
	})

	t.Run("missing archive", func(t *testing.T) {
		_, err := execute(t, NewProjectCmd(fakeGlobals()), "inspect", filepath.Join(dir, "none.zip"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, oerrors.ErrNotFound))
	})
}

func TestList_RequiresUser(t *testing.T) {
	t.Setenv("DEVSPELL_USER", "")
	_, err := execute(t, NewProjectCmd(fakeGlobals()), "list", "--user", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrValidation))
}

func TestList_Empty(t *testing.T) {
	stdout, err := execute(t, NewProjectCmd(fakeGlobals()), "list", "--user", "u1", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", stdout)
}

func TestCommonRoot(t *testing.T) {
	tests := []struct {
		name    string
		entries []archive.Entry
		want    string
	}{
		{"empty", nil, ""},
		{"shared root", []archive.Entry{{Path: "site/README.md"}, {Path: "site/css/style.css"}}, "site/"},
		{"top-level file", []archive.Entry{{Path: "site/README.md"}, {Path: "index.html"}}, ""},
		{"different roots", []archive.Entry{{Path: "a/x"}, {Path: "b/y"}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, commonRoot(tt.entries))
		})
	}
}
