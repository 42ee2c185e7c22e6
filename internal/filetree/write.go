package filetree

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/devspell/cli/internal/output"
)

// WriteOptions configures WriteTo.
type WriteOptions struct {
	// TargetDir is the directory the tree is written into.
	TargetDir string

	// Force allows writing into a non-empty directory and overwriting files.
	Force bool
}

// WriteTo materializes the tree under opts.TargetDir and returns the written
// file paths (relative, forward-slash).
func (t *Tree) WriteTo(opts WriteOptions) ([]string, error) {
	if err := checkTargetDir(opts); err != nil {
		return nil, err
	}

	for _, d := range t.Dirs() {
		dir := filepath.Join(opts.TargetDir, filepath.FromSlash(d))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	written := make([]string, 0, t.Len())
	for _, f := range t.Files() {
		targetPath := filepath.Join(opts.TargetDir, filepath.FromSlash(f.Path))

		if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", filepath.Dir(targetPath), err)
		}

		if !opts.Force {
			if _, err := os.Stat(targetPath); err == nil {
				return nil, fmt.Errorf("file %s already exists; use --force to overwrite", targetPath)
			}
		}

		if err := os.WriteFile(targetPath, f.Content, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", targetPath, err)
		}

		output.Debug("created file", "path", f.Path, "origin", f.Origin)
		written = append(written, f.Path)
	}

	return written, nil
}

func checkTargetDir(opts WriteOptions) error {
	info, err := os.Stat(opts.TargetDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking target directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", opts.TargetDir)
	}

	entries, err := os.ReadDir(opts.TargetDir)
	if err != nil {
		return fmt.Errorf("reading target directory: %w", err)
	}

	if len(entries) > 0 && !opts.Force {
		return fmt.Errorf("directory %s is not empty; use --force to overwrite existing files", opts.TargetDir)
	}

	return nil
}
