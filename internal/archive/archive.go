// Package archive packages a project tree into a zip file and a manifest of
// its entries.
package archive

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/klauspost/compress/zip"

	oerrors "github.com/devspell/cli/internal/errors"
	"github.com/devspell/cli/internal/filetree"
)

// Entry is one file of the archive.
type Entry struct {
	// Path is the forward-slash entry name inside the archive.
	Path    string `json:"path"`
	Content string `json:"content"`
}

// ProjectArchive is the packaged project.
type ProjectArchive struct {
	// Manifest lists every file entry in archive order.
	Manifest []Entry
	Blob     []byte
}

// defaultModTime keeps archives of identical trees byte-identical.
var defaultModTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

type options struct {
	prefix  string
	modTime time.Time
}

// Option configures archiving.
type Option func(*options)

// WithPrefix places every entry under dir/.
func WithPrefix(dir string) Option {
	return func(o *options) { o.prefix = dir }
}

// WithModTime sets the modification time stored for every entry.
func WithModTime(t time.Time) Option {
	return func(o *options) { o.modTime = t }
}

// Archive packages tree into an in-memory zip.
func Archive(tree *filetree.Tree, opts ...Option) (*ProjectArchive, error) {
	var buf bytes.Buffer
	manifest, err := Write(&buf, tree, opts...)
	if err != nil {
		return nil, err
	}
	return &ProjectArchive{Manifest: manifest, Blob: buf.Bytes()}, nil
}

// Write streams the zip of tree to w and returns the manifest. Files are
// written in sorted path order, followed by entries for empty directories.
// Any writer failure is an archive error; nothing partial is returned.
func Write(w io.Writer, tree *filetree.Tree, opts ...Option) ([]Entry, error) {
	o := options{modTime: defaultModTime}
	for _, opt := range opts {
		opt(&o)
	}

	prefix := ""
	if o.prefix != "" {
		clean, err := filetree.Normalize(o.prefix)
		if err != nil {
			return nil, oerrors.NewArchiveError(o.prefix, err)
		}
		prefix = clean + "/"
	}

	zw := zip.NewWriter(w)
	manifest := make([]Entry, 0, tree.Len())

	for _, f := range tree.Files() {
		name := prefix + f.Path
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: o.modTime,
		})
		if err != nil {
			return nil, oerrors.NewArchiveError(name, err)
		}
		if _, err := fw.Write(f.Content); err != nil {
			return nil, oerrors.NewArchiveError(name, err)
		}
		manifest = append(manifest, Entry{Path: name, Content: string(f.Content)})
	}

	for _, d := range tree.EmptyDirs() {
		name := path.Clean(prefix+d) + "/"
		if _, err := zw.CreateHeader(&zip.FileHeader{Name: name, Modified: o.modTime}); err != nil {
			return nil, oerrors.NewArchiveError(name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, oerrors.NewArchiveError("", err)
	}
	return manifest, nil
}

// Read returns the file entries of a zip blob in archive order. Directory
// entries are skipped.
func Read(blob []byte) ([]Entry, error) {
	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	var out []Entry
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		out = append(out, Entry{Path: f.Name, Content: string(data)})
	}
	return out, nil
}

// Dirs returns the directory entries of a zip blob.
func Dirs(blob []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	var out []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			out = append(out, f.Name)
		}
	}
	return out, nil
}
