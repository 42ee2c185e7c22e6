package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/devspell/cli/internal/advisor"
	"github.com/devspell/cli/internal/cmdtypes"
	oerrors "github.com/devspell/cli/internal/errors"
	"github.com/devspell/cli/internal/output"
	"github.com/devspell/cli/internal/scaffold"
	"github.com/devspell/cli/internal/templates"
)

// TemplateListing is the structured form of `templates list`.
type TemplateListing struct {
	Frontend       []string `json:"frontend" yaml:"frontend"`
	Backend        []string `json:"backend" yaml:"backend"`
	Database       []string `json:"database" yaml:"database"`
	Authentication []string `json:"authentication" yaml:"authentication"`
	Deployment     []string `json:"deployment" yaml:"deployment"`
}

// listTemplates reads the registry. Authentication and deployment are not
// registry categories but are listed so users see every accepted choice.
func listTemplates(reg *templates.Registry) TemplateListing {
	return TemplateListing{
		Frontend:       reg.Names(templates.Frontend),
		Backend:        reg.Names(templates.Backend),
		Database:       reg.Names(templates.Database),
		Authentication: append([]string{}, advisor.AuthOptions...),
		Deployment:     scaffold.Platforms(),
	}
}

// NewTemplatesCmd creates the templates command group.
func NewTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect built-in technology templates",
	}

	var formatFlag string
	list := &cobra.Command{
		Use:   "list",
		Short: "List technologies with built-in templates",
		Long: `List every technology devspell can scaffold.

Unknown technologies are still accepted in stack files; they simply add no
template files.

Examples:
  devspell templates list
  devspell templates list -o json`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			listing := listTemplates(templates.Default())

			format := output.ParseOutputFormat(formatFlag)
			if format != output.FormatText {
				if err := output.WriteStructured(c.OutOrStdout(), format, listing); err != nil {
					return cmdtypes.Exit(err)
				}
				return nil
			}

			tbl := output.NewTable("CATEGORY", "TECHNOLOGIES")
			tbl.Row("Frontend", strings.Join(listing.Frontend, ", "))
			tbl.Row("Backend", strings.Join(listing.Backend, ", "))
			tbl.Row("Database", strings.Join(listing.Database, ", "))
			tbl.Row("Authentication", strings.Join(listing.Authentication, ", "))
			tbl.Row("Deployment", strings.Join(listing.Deployment, ", "))
			_, err := c.OutOrStdout().Write([]byte(tbl.String() + "\n"))
			return err
		},
	}
	list.Flags().StringVarP(&formatFlag, "output", "o", "text",
		"Output format: "+strings.Join(output.ValidFormats(), ", "))
	list.PreRunE = func(*cobra.Command, []string) error {
		if !output.OutputFormat(strings.ToLower(formatFlag)).IsValid() {
			return cmdtypes.Exit(oerrors.NewValidationError("unknown output format "+formatFlag, "", "output",
				"Use one of: "+strings.Join(output.ValidFormats(), ", ")))
		}
		return nil
	}

	cmd.AddCommand(list)
	return cmd
}
