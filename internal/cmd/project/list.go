package project

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devspell/cli/internal/cmdtypes"
	"github.com/devspell/cli/internal/cmdutil"
	oerrors "github.com/devspell/cli/internal/errors"
	"github.com/devspell/cli/internal/output"
)

// NewListCmd creates the project list command.
func NewListCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		user   string
		limit  int
		format string
	)

	c := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved projects of a user",
		Long: `List the project records saved by the configured store.

Examples:
  devspell project list --user alice
  devspell project list --user alice --limit 5 -o json`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return cmdtypes.Exit(runList(c, gc, user, limit, format))
		},
	}

	c.Flags().StringVar(&user, "user", os.Getenv("DEVSPELL_USER"), "User id (env: DEVSPELL_USER)")
	c.Flags().IntVar(&limit, "limit", 20, "Maximum number of projects")
	c.Flags().StringVarP(&format, "output", "o", "text", "Output format: "+strings.Join(output.ValidFormats(), ", "))
	return c
}

func runList(c *cobra.Command, gc *cmdtypes.GlobalConfig, user string, limit int, format string) error {
	if strings.TrimSpace(user) == "" {
		return oerrors.NewValidationError("user id is required", "", "user", "Pass --user or set DEVSPELL_USER")
	}

	svc, err := cmdutil.NewServices(c.Context(), gc, cmdutil.ServiceOptions{Persistence: true})
	if err != nil {
		return err
	}
	defer svc.Close()

	records, err := svc.Sink.ListProjects(c.Context(), user, limit)
	if err != nil {
		return err
	}

	f := output.ParseOutputFormat(format)
	if f != output.FormatText {
		return output.WriteStructured(c.OutOrStdout(), f, records)
	}

	if len(records) == 0 {
		output.Println("No projects saved for " + output.StyleNoun.Render(user))
		return nil
	}
	tbl := output.NewTable("ID", "NAME", "FILES", "PLACEHOLDERS", "CREATED", "LOCATION")
	for _, r := range records {
		tbl.Row(r.ID, r.Name, fmt.Sprint(len(r.Files)), fmt.Sprint(len(r.Placeholders)),
			r.CreatedAt.Format("2006-01-02 15:04"), r.Location)
	}
	fmt.Fprintln(c.OutOrStdout(), tbl.String())
	return nil
}
