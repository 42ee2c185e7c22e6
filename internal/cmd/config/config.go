// Package config provides the `devspell config` command group.
package config

import (
	"github.com/spf13/cobra"

	"github.com/devspell/cli/internal/cmdtypes"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  `Configuration management for the devspell CLI.`,
	}

	cmd.AddCommand(
		NewInitCmd(gc),
		NewVetCmd(gc),
	)

	return cmd
}
