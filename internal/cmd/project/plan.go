package project

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devspell/cli/internal/cmdtypes"
	"github.com/devspell/cli/internal/cmdutil"
	"github.com/devspell/cli/internal/output"
	"github.com/devspell/cli/internal/pipeline"
)

// NewPlanCmd creates the project plan command.
func NewPlanCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		sf      cmdutil.StackFlags
		outFlag string
		user    string
	)

	c := &cobra.Command{
		Use:   "plan",
		Short: "Draft the requirements plan",
		Long: `Ask the language model for a requirements plan of the stack.

The plan can be edited and passed back to 'devspell project generate --plan'
so the plan phase is skipped.

Examples:
  devspell project plan -s stack.yaml
  devspell project plan -s stack.yaml --out PLAN.md`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return cmdtypes.Exit(runPlan(c, gc, &sf, outFlag, user))
		},
	}

	sf.AddTo(c)
	c.Flags().StringVarP(&outFlag, "out", "o", "", "Write the plan to a file instead of stdout")
	c.Flags().StringVar(&user, "user", os.Getenv("DEVSPELL_USER"), "User id for saved chat history (env: DEVSPELL_USER)")
	return c
}

func runPlan(c *cobra.Command, gc *cmdtypes.GlobalConfig, sf *cmdutil.StackFlags, outPath, user string) error {
	cfg, err := sf.Load()
	if err != nil {
		return err
	}

	svc, err := cmdutil.NewServices(c.Context(), gc, cmdutil.ServiceOptions{LLM: true, Persistence: true})
	if err != nil {
		return err
	}
	defer svc.Close()

	var res *pipeline.PlanResult
	err = output.RunWithSpinner(c.Context(), func() error {
		var perr error
		res, perr = svc.Pipeline.Plan(c.Context(), cfg, user)
		return perr
	}, output.WithTitle("Drafting plan for "+cfg.Name+"..."))
	if err != nil {
		return err
	}

	if len(res.MissingSections) > 0 {
		output.ProjectLogger(cfg.Slug()).Warn("plan is missing sections", "sections", strings.Join(res.MissingSections, ", "))
	}

	if outPath == "" {
		fmt.Fprintln(c.OutOrStdout(), res.Plan)
		return nil
	}
	if err := os.WriteFile(outPath, []byte(res.Plan+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	output.Println(output.FormatCheckmark("Plan written to " + output.StyleNoun.Render(outPath)))
	return nil
}
