// Package cmdtypes provides shared types for the cmd package and its sub-packages.
// It is separate from internal/cmd to avoid import cycles between internal/cmd
// and its sub-packages (internal/cmd/project, internal/cmd/config, ...).
package cmdtypes

import (
	"github.com/devspell/cli/internal/config"
	oerrors "github.com/devspell/cli/internal/errors"
)

// GlobalConfig holds CLI-wide configuration resolved during PersistentPreRunE.
// It is populated once at startup and passed explicitly into every sub-command
// constructor.
type GlobalConfig struct {
	// Config is the loaded configuration. It is never nil after startup;
	// a missing file yields defaults.
	Config *config.Config

	ConfigPath string // resolved --config path
	Verbose    bool

	// LoadErr records a config load failure. Commands that need the LLM,
	// store or exporter report it; the rest run on defaults.
	LoadErr error
}

// Exit codes, aliased from internal/errors.
const (
	ExitSuccess         = oerrors.ExitSuccess
	ExitGeneralError    = oerrors.ExitGeneralError
	ExitValidationError = oerrors.ExitValidationError
	ExitNotFound        = oerrors.ExitNotFound
	ExitArchiveError    = oerrors.ExitArchiveError
	ExitGenerationError = oerrors.ExitGenerationError
)

// ExitError is a type alias to internal/errors.ExitError.
type ExitError = oerrors.ExitError

// Exit wraps err with the exit code derived from its sentinel.
func Exit(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: oerrors.ExitCodeFromError(err), Err: err}
}
