// Package export hands finished project archives to their destination.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	oerrors "github.com/devspell/cli/internal/errors"
)

// Exporter stores an archive and reports where it went.
type Exporter interface {
	Export(ctx context.Context, name string, blob []byte) (location string, err error)
}

// checkName rejects names that would escape the destination.
func checkName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", oerrors.NewValidationError(
			fmt.Sprintf("invalid archive name %q", name), "", "name",
			"use a plain file name such as my_app.zip")
	}
	return name, nil
}

// FileExporter writes archives into a local directory.
type FileExporter struct {
	Dir string
}

// NewFileExporter returns an exporter for dir. An empty dir means the
// working directory.
func NewFileExporter(dir string) *FileExporter {
	if dir == "" {
		dir = "."
	}
	return &FileExporter{Dir: dir}
}

// Export writes blob to Dir/name through a temporary file so a reader never
// sees a partial archive.
func (e *FileExporter) Export(ctx context.Context, name string, blob []byte) (string, error) {
	name, err := checkName(name)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", e.Dir, err)
	}

	tmp, err := os.CreateTemp(e.Dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after rename

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}

	dest := filepath.Join(e.Dir, name)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("moving archive into place: %w", err)
	}
	if err := os.Chmod(dest, 0o644); err != nil {
		return "", fmt.Errorf("chmod %s: %w", dest, err)
	}
	return dest, nil
}
