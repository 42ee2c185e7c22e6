package project

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devspell/cli/internal/advisor"
	"github.com/devspell/cli/internal/cmdtypes"
	"github.com/devspell/cli/internal/cmdutil"
	oerrors "github.com/devspell/cli/internal/errors"
	"github.com/devspell/cli/internal/output"
	"github.com/devspell/cli/internal/wizard"
)

// RecommendResult is the structured form of `project recommend`.
type RecommendResult struct {
	Recommendation *advisor.Recommendation `json:"recommendation" yaml:"recommendation"`
	Compatibility  *advisor.Compatibility  `json:"compatibility,omitempty" yaml:"compatibility,omitempty"`
}

type recommendFlags struct {
	req    wizard.Requirements
	check  bool
	format string
}

// NewRecommendCmd creates the project recommend command.
func NewRecommendCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var rf recommendFlags

	c := &cobra.Command{
		Use:   "recommend",
		Short: "Ask the model for a stack recommendation",
		Long: `Describe a project and get a recommended stack.

With --check the recommended stack is also checked for compatibility.

Examples:
  devspell project recommend --name Shop --description "Online store" \
    --requirement payments --requirement "product search"
  devspell project recommend --name Shop --description "Online store" --check -o json`,
		Args: cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error {
			if !output.OutputFormat(strings.ToLower(rf.format)).IsValid() {
				return cmdtypes.Exit(oerrors.NewValidationError("unknown output format "+rf.format, "", "output",
					"Use one of: "+strings.Join(output.ValidFormats(), ", ")))
			}
			return nil
		},
		RunE: func(c *cobra.Command, _ []string) error {
			return cmdtypes.Exit(runRecommend(c, gc, &rf))
		},
	}

	f := c.Flags()
	f.StringVar(&rf.req.Name, "name", "", "Project name")
	f.StringVar(&rf.req.Description, "description", "", "Project description")
	f.StringVar(&rf.req.ProjectType, "type", "", "Project type, e.g. \"Web Application\"")
	f.StringVar(&rf.req.Scale, "scale", "", "Expected scale: Small, Medium or Large")
	f.StringArrayVar(&rf.req.Requirements, "requirement", nil, "Functional requirement (repeatable)")
	f.BoolVar(&rf.check, "check", false, "Also check the recommended stack for compatibility")
	f.StringVarP(&rf.format, "output", "o", "text", "Output format: "+strings.Join(output.ValidFormats(), ", "))
	return c
}

func runRecommend(c *cobra.Command, gc *cmdtypes.GlobalConfig, rf *recommendFlags) error {
	state, err := wizard.SubmitRequirements(wizard.New(), rf.req)
	if err != nil {
		return err
	}

	svc, err := cmdutil.NewServices(c.Context(), gc, cmdutil.ServiceOptions{LLM: true})
	if err != nil {
		return err
	}
	defer svc.Close()

	var res RecommendResult
	err = output.RunWithSpinner(c.Context(), func() error {
		rec, err := svc.Advisor.Recommend(c.Context(), state.Config)
		if err != nil {
			return err
		}
		if state, err = wizard.Recommend(state, rec); err != nil {
			return err
		}
		res.Recommendation = state.Recommendation

		if !rf.check {
			return nil
		}
		res.Compatibility, err = svc.Advisor.CheckCompatibility(c.Context(), advisor.Apply(state.Config, rec))
		return err
	}, output.WithTitle("Asking for a stack recommendation..."))
	if err != nil {
		return err
	}

	format := output.ParseOutputFormat(rf.format)
	if format != output.FormatText {
		return output.WriteStructured(c.OutOrStdout(), format, res)
	}
	printRecommendation(c.OutOrStdout(), &res)
	return nil
}

func printRecommendation(w io.Writer, res *RecommendResult) {
	rec := res.Recommendation
	tbl := output.NewTable("COMPONENT", "CHOICE")
	tbl.Row("Frontend", rec.Frontend)
	tbl.Row("UI library", rec.UILibrary)
	tbl.Row("Backend", rec.Backend)
	tbl.Row("Database", rec.Database)
	tbl.Row("Authentication", rec.Authentication)
	tbl.Row("Deployment", rec.Deployment)
	if len(rec.AdditionalServices) > 0 {
		tbl.Row("Services", strings.Join(rec.AdditionalServices, ", "))
	}
	fmt.Fprintln(w, tbl.String())

	if rec.Rationale != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, rec.Rationale)
	}

	if res.Compatibility == nil {
		return
	}
	fmt.Fprintln(w)
	if res.Compatibility.Compatible {
		fmt.Fprintln(w, output.FormatCheckmark("Stack is compatible"))
	} else {
		fmt.Fprintln(w, "Stack has compatibility issues:")
	}
	for _, issue := range res.Compatibility.Issues {
		fmt.Fprintln(w, "  - "+issue)
	}
	for _, r := range res.Compatibility.Recommendations {
		fmt.Fprintln(w, "  * "+r)
	}
}
