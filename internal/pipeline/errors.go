package pipeline

import (
	"context"
	"errors"

	oerrors "github.com/devspell/cli/internal/errors"
)

// fatal classifies a failure of a model-driven phase. Cancellation passes
// through unchanged so callers can tell it apart from a model failure.
func fatal(phase string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return oerrors.NewGenerationError(phase, err)
}
