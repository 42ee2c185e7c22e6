// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/devspell/cli/internal/cmd/config"
	"github.com/devspell/cli/internal/cmd/project"
	"github.com/devspell/cli/internal/cmdtypes"
	cfgpkg "github.com/devspell/cli/internal/config"
	"github.com/devspell/cli/internal/output"
	"github.com/devspell/cli/internal/version"
)

// NewRootCmd creates the root command for the devspell CLI.
func NewRootCmd() *cobra.Command {
	var (
		configFlag     string
		verboseFlag    bool
		timestampsFlag bool
	)

	gc := &cmdtypes.GlobalConfig{}

	rootCmd := &cobra.Command{
		Use:   "devspell",
		Short: "Project scaffolder with model-driven file synthesis",
		Long: `devspell turns a tech stack description into a ready-to-run project.

It renders template files for the chosen frontend, backend, database and
deployment platform, asks a language model to plan the project and implement
its files in dependency order, and packages everything as a zip archive.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd, gc, configFlag, verboseFlag, timestampsFlag)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to config file (env: DEVSPELL_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(
		project.NewProjectCmd(gc),
		config.NewConfigCmd(gc),
		NewTemplatesCmd(),
		NewServeCmd(gc),
		NewVersionCmd(),
	)

	return rootCmd
}

// initializeGlobals sets up logging and loads configuration. A broken config
// file does not fail here; commands that need it report GlobalConfig.LoadErr.
func initializeGlobals(cmd *cobra.Command, gc *cmdtypes.GlobalConfig, configFlag string, verbose, timestamps bool) error {
	gc.Verbose = verbose

	pathResult, err := cfgpkg.ResolveConfigPath(cfgpkg.ResolveConfigPathOptions{FlagValue: configFlag})
	if err != nil {
		return err
	}
	gc.ConfigPath = pathResult.ConfigPath

	loaded, err := cfgpkg.NewLoader().Load(gc.ConfigPath)
	if err != nil {
		gc.LoadErr = err
		loaded = cfgpkg.DefaultConfig()
	} else if v, verr := cfgpkg.NewValidator(); verr != nil {
		gc.LoadErr = verr
	} else if verr := v.Validate(loaded); verr != nil {
		gc.LoadErr = verr
	}
	gc.Config = loaded

	// Timestamps: flag (if explicitly set) > config > default (nil = true)
	logCfg := output.LogConfig{Verbose: verbose}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(timestamps)
	} else if loaded.Log.Timestamps != nil {
		logCfg.Timestamps = loaded.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	if gc.LoadErr != nil {
		output.Debug("config load error", "path", gc.ConfigPath, "error", gc.LoadErr)
	}

	if verbose {
		info := version.Get()
		output.Debug("initializing CLI",
			"version", info.Version,
			"config", gc.ConfigPath,
			"config_source", pathResult.Source,
			"llm_provider", loaded.LLM.Provider,
			"store", loaded.Store.Kind,
			"export", loaded.Export.Kind,
		)
		cfgpkg.LogResolvedValues([]cfgpkg.ResolvedValue{{
			Key:      "config",
			Value:    pathResult.ConfigPath,
			Source:   pathResult.Source,
			Shadowed: pathResult.Shadowed,
		}})
	}

	return nil
}
