package cmdutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	oerrors "github.com/devspell/cli/internal/errors"
	"github.com/devspell/cli/internal/filetree"
	"github.com/devspell/cli/internal/output"
	"github.com/devspell/cli/internal/pipeline"
	"github.com/devspell/cli/internal/synth"
)

// statusFor maps a tree origin to the status word printed next to a file.
func statusFor(origin filetree.Origin) string {
	switch origin {
	case filetree.OriginSynthesized:
		return output.StatusSynthesized
	case filetree.OriginPlaceholder:
		return output.StatusPlaceholder
	default:
		return output.StatusTemplate
	}
}

// WriteResult stores the generated project locally: the zip archive by
// default, the expanded tree with --extract. It returns the written path.
func WriteResult(res *pipeline.Result, f OutputFlags) (string, error) {
	slug := res.Config.Slug()

	if f.Extract {
		dir := f.Out
		if dir == "" {
			dir = slug
		}
		if _, err := res.Tree.WriteTo(filetree.WriteOptions{TargetDir: dir, Force: f.Force}); err != nil {
			return "", err
		}
		return dir, nil
	}

	dest := f.Out
	if dest == "" {
		dest = res.ArchiveName
	}
	if info, err := os.Stat(dest); err == nil {
		if info.IsDir() {
			dest = filepath.Join(dest, res.ArchiveName)
		} else if !f.Force {
			return "", oerrors.NewValidationError("archive already exists", dest, "",
				"Use --force to overwrite or choose another --out path")
		}
	}
	if err := os.WriteFile(dest, res.Archive.Blob, 0o644); err != nil {
		if os.IsPermission(err) {
			return "", oerrors.Wrap(oerrors.ErrPermission, fmt.Sprintf("writing %s", dest))
		}
		return "", fmt.Errorf("writing %s: %w", dest, err)
	}
	return dest, nil
}

// PrintFiles prints one status line per file, sorted by path.
func PrintFiles(tree *filetree.Tree) {
	files := tree.Files()
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	for _, f := range files {
		output.Println(output.FormatFileLine(f.Path, statusFor(f.Origin)))
	}
}

// PrintTree renders the project tree rooted at the slug.
func PrintTree(res *pipeline.Result) {
	output.Print(output.RenderFileTree(res.Config.Slug()+"/", res.Tree.Annotations(), res.Tree.EmptyDirs()))
}

// PrintDiagnostics logs every synthesis diagnostic as a warning.
func PrintDiagnostics(slug string, diags []synth.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	log := output.ProjectLogger(slug)
	for _, d := range diags {
		switch d.Kind {
		case synth.KindCycleWarning:
			log.Warn("dependency cycle, using declaration order", "cycle", d.Cycle)
		default:
			log.Warn("file replaced by placeholder", "path", d.Path, "reason", d.Message)
		}
	}
}

// PrintSummary prints the completion line.
func PrintSummary(res *pipeline.Result, dest string) {
	output.Println("")
	output.Println(output.FormatSummary(res.Tree.Len(), len(res.Placeholders())))
	output.Println(output.FormatCheckmark("Project written to " + output.StyleNoun.Render(dest)))
	if res.Location != "" {
		output.Println(output.FormatCheckmark("Archive exported to " + output.StyleNoun.Render(res.Location)))
	}
}

// SynthesisObserver returns a pipeline observer that logs per-file progress
// under the project's logger.
func SynthesisObserver(slug string) func(synth.Event) {
	log := output.ProjectLogger(slug)
	return func(e synth.Event) {
		switch e.Kind {
		case synth.EventStarted:
			log.Info(fmt.Sprintf("[%d/%d] implementing", e.Index+1, e.Total), "path", e.Path)
		case synth.EventFinished:
			if e.Placeholder {
				log.Warn(fmt.Sprintf("[%d/%d] placeholder", e.Index+1, e.Total), "path", e.Path)
				return
			}
			log.Debug(fmt.Sprintf("[%d/%d] done", e.Index+1, e.Total), "path", e.Path)
		}
	}
}
