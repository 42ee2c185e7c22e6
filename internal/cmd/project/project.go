// Package project provides the `devspell project` command group.
package project

import (
	"github.com/spf13/cobra"

	"github.com/devspell/cli/internal/cmdtypes"
)

// NewProjectCmd creates the project command group.
func NewProjectCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"p"},
		Short:   "Project operations",
		Long:    `Commands for scaffolding, planning and generating projects.`,
	}

	cmd.AddCommand(
		NewScaffoldCmd(gc),
		NewPlanCmd(gc),
		NewGenerateCmd(gc),
		NewRecommendCmd(gc),
		NewInspectCmd(),
		NewListCmd(gc),
	)

	return cmd
}
