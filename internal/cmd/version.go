package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devspell/cli/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show devspell version information.

Displays:
  - devspell version, commit, and build date
  - CUE and GenAI SDK versions linked into the binary`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			fmt.Fprintln(c.OutOrStdout(), version.Get().String())
			return nil
		},
	}
}
