package project

import (
	"github.com/spf13/cobra"

	"github.com/devspell/cli/internal/cmdtypes"
	"github.com/devspell/cli/internal/cmdutil"
	"github.com/devspell/cli/internal/output"
	"github.com/devspell/cli/internal/pipeline"
)

// NewScaffoldCmd creates the project scaffold command.
func NewScaffoldCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		sf cmdutil.StackFlags
		of cmdutil.OutputFlags
	)

	c := &cobra.Command{
		Use:   "scaffold",
		Short: "Render template files only",
		Long: `Render the template files of a stack without calling a language model.

The result contains the common directories, the frontend, backend and
database templates, .env.example, .gitignore, package.json where relevant,
deployment files, README.md and docs/api.md.

Examples:
  # Scaffold from a stack file
  devspell project scaffold -s stack.yaml

  # Scaffold from flags and write the tree instead of a zip
  devspell project scaffold --name "My Site" --description "Landing page" \
    --frontend "HTML/CSS/JS(Vanilla)" --extract`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return cmdtypes.Exit(runScaffold(c, gc, &sf, &of))
		},
	}

	sf.AddTo(c)
	of.AddTo(c)
	return c
}

func runScaffold(c *cobra.Command, gc *cmdtypes.GlobalConfig, sf *cmdutil.StackFlags, of *cmdutil.OutputFlags) error {
	cfg, err := sf.Load()
	if err != nil {
		return err
	}

	svc, err := cmdutil.NewServices(c.Context(), gc, cmdutil.ServiceOptions{})
	if err != nil {
		return err
	}
	defer svc.Close()

	res, err := svc.Pipeline.Scaffold(c.Context(), cfg, pipeline.GenerateOptions{})
	if err != nil {
		return err
	}

	dest, err := cmdutil.WriteResult(res, *of)
	if err != nil {
		return err
	}

	output.ProjectLogger(cfg.Slug()).Info("scaffolded", "files", res.Tree.Len())
	cmdutil.PrintTree(res)
	cmdutil.PrintSummary(res, dest)
	return nil
}
