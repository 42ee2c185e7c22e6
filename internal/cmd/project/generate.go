package project

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/devspell/cli/internal/cmdtypes"
	"github.com/devspell/cli/internal/cmdutil"
	"github.com/devspell/cli/internal/output"
	"github.com/devspell/cli/internal/pipeline"
)

// NewGenerateCmd creates the project generate command.
func NewGenerateCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		sf       cmdutil.StackFlags
		of       cmdutil.OutputFlags
		planFile string
		user     string
		showTree bool
	)

	c := &cobra.Command{
		Use:   "generate",
		Short: "Generate a complete project",
		Long: `Generate a complete project: templates plus model-implemented files.

Phases:
  1. Render template files for the stack
  2. Draft the requirements plan (skipped with --plan)
  3. Break the plan into epics
  4. Plan the files to implement and their dependencies
  5. Implement each file after the files it depends on
  6. Package everything as <slug>.zip

A file the model fails to implement is replaced by a placeholder and the
run still succeeds. Dependency cycles are reported and the declared order
is used.

Examples:
  devspell project generate -s stack.yaml
  devspell project generate -s stack.yaml --plan PLAN.md --extract --out ./my_app`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return cmdtypes.Exit(runGenerate(c, gc, &sf, &of, planFile, user, showTree))
		},
	}

	sf.AddTo(c)
	of.AddTo(c)
	c.Flags().StringVar(&planFile, "plan", "", "Approved plan file; skips the plan phase")
	c.Flags().StringVar(&user, "user", os.Getenv("DEVSPELL_USER"), "User id for saved records (env: DEVSPELL_USER)")
	c.Flags().BoolVar(&showTree, "tree", false, "Print the project tree instead of per-file status")
	return c
}

func runGenerate(c *cobra.Command, gc *cmdtypes.GlobalConfig, sf *cmdutil.StackFlags, of *cmdutil.OutputFlags, planFile, user string, showTree bool) error {
	cfg, err := sf.Load()
	if err != nil {
		return err
	}

	opts := pipeline.GenerateOptions{
		UserID:   user,
		Observer: cmdutil.SynthesisObserver(cfg.Slug()),
	}
	if planFile != "" {
		data, err := os.ReadFile(planFile)
		if err != nil {
			return fmt.Errorf("reading plan: %w", err)
		}
		opts.Plan = string(data)
	}

	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := cmdutil.NewServices(ctx, gc, cmdutil.ServiceOptions{LLM: true, Persistence: true})
	if err != nil {
		return err
	}
	defer svc.Close()

	log := output.ProjectLogger(cfg.Slug())
	log.Info("generating", "llm", svc.Client.Name())

	res, err := svc.Pipeline.Generate(ctx, cfg, opts)
	if err != nil {
		return err
	}

	dest, err := cmdutil.WriteResult(res, *of)
	if err != nil {
		return err
	}

	cmdutil.PrintDiagnostics(cfg.Slug(), res.Diagnostics())
	if showTree {
		cmdutil.PrintTree(res)
	} else {
		cmdutil.PrintFiles(res.Tree)
	}
	cmdutil.PrintSummary(res, dest)
	return nil
}
