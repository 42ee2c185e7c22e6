package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devspell/cli/internal/cmdtypes"
	oerrors "github.com/devspell/cli/internal/errors"
)

func TestNewConfigCmd(t *testing.T) {
	cmd := NewConfigCmd(&cmdtypes.GlobalConfig{})

	assert.Equal(t, "config", cmd.Use)

	names := []string{}
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"init", "vet"}, names)
}

func TestConfigInit_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devspell", "config.yaml")

	require.NoError(t, runInit(path, false))
	assert.FileExists(t, path)
}

func TestConfigInit_SecurePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devspell", "config.yaml")
	require.NoError(t, runInit(path, false))

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())

	fileInfo, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fileInfo.Mode().Perm())
}

func TestConfigInit_ExistingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: fake\n"), 0o600))

	err := runInit(path, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrValidation))

	require.NoError(t, runInit(path, true))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "provider: gemini")
}

func TestConfigVet(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "generated template",
			content: "",
		},
		{
			name:    "unknown provider",
			content: "llm:\n  provider: openai\n",
			wantErr: oerrors.ErrValidation,
		},
		{
			name:    "malformed yaml",
			content: "llm: [\n",
			wantErr: oerrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if tt.content == "" {
				require.NoError(t, runInit(path, false))
			} else {
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			}

			err := runVet(path)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}
}

func TestConfigVet_MissingFile(t *testing.T) {
	err := runVet(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrNotFound))
}
