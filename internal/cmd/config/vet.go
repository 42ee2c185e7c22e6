package config

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/devspell/cli/internal/cmdtypes"
	"github.com/devspell/cli/internal/config"
	oerrors "github.com/devspell/cli/internal/errors"
	"github.com/devspell/cli/internal/output"
)

// NewVetCmd creates the config vet command.
func NewVetCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the devspell CLI configuration file.

Checks performed:
  1. Config file exists at resolved path
  2. Config file is valid YAML
  3. Merged configuration (file, environment, defaults) satisfies the schema

The config path is resolved using precedence:
  --config flag > DEVSPELL_CONFIG env > ~/.devspell/config.yaml

Examples:
  # Validate default configuration
  devspell config vet

  # Validate custom config path
  devspell config vet --config /path/to/config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return cmdtypes.Exit(runVet(gc.ConfigPath))
		},
	}
}

func runVet(configPath string) error {
	expanded, err := config.ExpandPath(configPath)
	if err != nil {
		return err
	}

	output.Debug("validating config", "path", expanded)

	if _, err := os.Stat(expanded); os.IsNotExist(err) {
		return &oerrors.DetailError{
			Type:     "not found",
			Message:  "configuration file not found",
			Location: expanded,
			Hint:     "Run 'devspell config init' to create default configuration",
			Cause:    oerrors.ErrNotFound,
		}
	}

	v, err := config.NewValidator()
	if err != nil {
		return err
	}
	if err := v.ValidateFile(expanded); err != nil {
		return &oerrors.DetailError{
			Type:     "validation failed",
			Message:  err.Error(),
			Location: expanded,
			Cause:    oerrors.ErrValidation,
		}
	}

	output.Println("Configuration is valid: " + expanded)
	return nil
}
