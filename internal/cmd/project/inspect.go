package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devspell/cli/internal/archive"
	"github.com/devspell/cli/internal/cmdtypes"
	oerrors "github.com/devspell/cli/internal/errors"
	"github.com/devspell/cli/internal/output"
)

// NewInspectCmd creates the project inspect command.
func NewInspectCmd() *cobra.Command {
	var (
		showTable bool
		cat       string
	)

	c := &cobra.Command{
		Use:   "inspect <archive.zip>",
		Short: "Show the contents of a generated archive",
		Long: `Show the files and directories of a project archive.

Examples:
  devspell project inspect my_app.zip
  devspell project inspect my_app.zip --table
  devspell project inspect my_app.zip --cat README.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return cmdtypes.Exit(runInspect(c, args[0], showTable, cat))
		},
	}

	c.Flags().BoolVar(&showTable, "table", false, "List files with sizes instead of a tree")
	c.Flags().StringVar(&cat, "cat", "", "Print the content of one file")
	return c
}

func runInspect(c *cobra.Command, path string, showTable bool, cat string) error {
	blob, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return oerrors.NewNotFoundError("archive not found", path, "")
		}
		return fmt.Errorf("reading archive: %w", err)
	}

	entries, err := archive.Read(blob)
	if err != nil {
		return err
	}
	w := c.OutOrStdout()
	prefix := commonRoot(entries)

	if cat != "" {
		cat = strings.TrimPrefix(cat, "/")
		for _, e := range entries {
			if e.Path == cat || strings.TrimPrefix(e.Path, prefix) == cat {
				fmt.Fprint(w, e.Content)
				return nil
			}
		}
		return oerrors.NewNotFoundError("file "+cat+" not in archive", path, "Run without --cat to list files")
	}

	if showTable {
		tbl := output.NewTable("PATH", "BYTES")
		for _, e := range entries {
			tbl.Row(strings.TrimPrefix(e.Path, prefix), fmt.Sprint(len(e.Content)))
		}
		fmt.Fprintln(w, tbl.String())
		return nil
	}

	dirs, err := archive.Dirs(blob)
	if err != nil {
		return err
	}
	files := make(map[string]string, len(entries))
	for _, e := range entries {
		files[strings.TrimPrefix(e.Path, prefix)] = ""
	}
	var rel []string
	for _, d := range dirs {
		if d = strings.TrimSuffix(strings.TrimPrefix(d, prefix), "/"); d != "" {
			rel = append(rel, d)
		}
	}
	root := strings.TrimSuffix(prefix, "/")
	if root == "" {
		root = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	fmt.Fprint(w, output.RenderFileTree(root+"/", files, rel))
	fmt.Fprintln(w, output.FormatSummary(len(entries), 0))
	return nil
}

// commonRoot returns the "<dir>/" prefix shared by every entry, or "" when
// entries sit at the archive root.
func commonRoot(entries []archive.Entry) string {
	if len(entries) == 0 {
		return ""
	}
	first, _, ok := strings.Cut(entries[0].Path, "/")
	if !ok {
		return ""
	}
	prefix := first + "/"
	for _, e := range entries[1:] {
		if !strings.HasPrefix(e.Path, prefix) {
			return ""
		}
	}
	return prefix
}
