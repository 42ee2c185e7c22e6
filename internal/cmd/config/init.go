package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/devspell/cli/internal/cmdtypes"
	"github.com/devspell/cli/internal/config"
	oerrors "github.com/devspell/cli/internal/errors"
	"github.com/devspell/cli/internal/output"
)

// NewInitCmd creates the config init command.
func NewInitCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration",
		Long: `Initialize the devspell CLI configuration.

Writes config.yaml to the resolved config path (default ~/.devspell/).

The configuration includes:
  - Language model provider, timeout, retries and rate limit
  - Where chat and project records are saved
  - Where archives are exported
  - HTTP server settings

Examples:
  # Initialize configuration
  devspell config init

  # Overwrite existing configuration
  devspell config init --force`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return cmdtypes.Exit(runInit(gc.ConfigPath, force))
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false,
		"Overwrite existing configuration")

	return cmd
}

func runInit(configPath string, force bool) error {
	if configPath == "" {
		p, err := config.GetConfigFile()
		if err != nil {
			return oerrors.Wrap(oerrors.ErrNotFound, "could not determine home directory")
		}
		configPath = p
	}
	configPath, err := config.ExpandPath(configPath)
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil && !force {
		return &oerrors.DetailError{
			Type:     "validation failed",
			Message:  "configuration already exists",
			Location: configPath,
			Hint:     "Use --force to overwrite existing configuration.",
			Cause:    oerrors.ErrValidation,
		}
	}

	// The file may hold API keys: directory 0700, file 0600.
	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return oerrors.Wrap(oerrors.ErrPermission, "could not create "+filepath.Dir(configPath))
	}
	if err := os.WriteFile(configPath, []byte(config.DefaultConfigTemplate), 0o600); err != nil {
		return oerrors.Wrap(oerrors.ErrPermission, "could not write "+configPath)
	}

	output.Println("Configuration initialized at " + configPath)
	output.Println("")
	output.Println("Next: set GEMINI_API_KEY (or switch llm.provider) and run 'devspell config vet'")

	return nil
}
