// Package filetree holds the in-memory project tree produced by scaffolding
// and synthesis, and writes it to disk.
package filetree

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Origin records which stage produced a file.
type Origin string

const (
	// OriginTemplate marks files rendered by the scaffolder.
	OriginTemplate Origin = "template"

	// OriginSynthesized marks files produced by the synthesizer.
	OriginSynthesized Origin = "synthesized"

	// OriginPlaceholder marks synthesized files whose generation failed.
	OriginPlaceholder Origin = "placeholder"
)

// File is one entry of the tree.
type File struct {
	Path    string
	Content []byte
	Origin  Origin
}

// Tree maps normalized relative paths to file content and tracks directories
// that must exist even when empty. Writing an existing path overwrites it.
// A Tree is owned by a single request and is not safe for concurrent use.
type Tree struct {
	files map[string]*File
	dirs  map[string]struct{}
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{
		files: make(map[string]*File),
		dirs:  make(map[string]struct{}),
	}
}

// Normalize converts p into a clean forward-slash relative path. It returns
// an error for empty paths and paths escaping the tree root.
func Normalize(p string) (string, error) {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	p = strings.TrimLeft(p, "/")
	if p == "" {
		return "", fmt.Errorf("empty path")
	}
	clean := path.Clean(p)
	if clean == "." {
		return "", fmt.Errorf("empty path")
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("path %q escapes the project root", p)
	}
	return clean, nil
}

// Put stores content at p with the given origin.
func (t *Tree) Put(p string, content []byte, origin Origin) error {
	clean, err := Normalize(p)
	if err != nil {
		return err
	}
	if _, isDir := t.dirs[clean]; isDir {
		return fmt.Errorf("path %q is a directory", clean)
	}
	if err := t.checkParents(clean); err != nil {
		return err
	}
	if t.hasFileUnder(clean) {
		return fmt.Errorf("path %q is a directory", clean)
	}
	t.files[clean] = &File{Path: clean, Content: content, Origin: origin}
	return nil
}

// PutString is Put for string content with OriginTemplate.
func (t *Tree) PutString(p, content string) error {
	return t.Put(p, []byte(content), OriginTemplate)
}

// EnsureDir records a directory that must exist.
func (t *Tree) EnsureDir(p string) error {
	clean, err := Normalize(p)
	if err != nil {
		return err
	}
	if _, isFile := t.files[clean]; isFile {
		return fmt.Errorf("path %q is a file", clean)
	}
	if err := t.checkParents(clean); err != nil {
		return err
	}
	t.dirs[clean] = struct{}{}
	return nil
}

// checkParents rejects clean when one of its ancestors is a file.
func (t *Tree) checkParents(clean string) error {
	for dir := path.Dir(clean); dir != "."; dir = path.Dir(dir) {
		if _, isFile := t.files[dir]; isFile {
			return fmt.Errorf("path %q is under file %q", clean, dir)
		}
	}
	return nil
}

// hasFileUnder reports whether some file lives below dir.
func (t *Tree) hasFileUnder(dir string) bool {
	prefix := dir + "/"
	for p := range t.files {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// Get returns the file at p.
func (t *Tree) Get(p string) (*File, bool) {
	clean, err := Normalize(p)
	if err != nil {
		return nil, false
	}
	f, ok := t.files[clean]
	return f, ok
}

// Has reports whether a file exists at p.
func (t *Tree) Has(p string) bool {
	_, ok := t.Get(p)
	return ok
}

// Len returns the number of files.
func (t *Tree) Len() int {
	return len(t.files)
}

// Paths returns all file paths in sorted order.
func (t *Tree) Paths() []string {
	out := make([]string, 0, len(t.files))
	for p := range t.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Files returns all files sorted by path.
func (t *Tree) Files() []*File {
	paths := t.Paths()
	out := make([]*File, 0, len(paths))
	for _, p := range paths {
		out = append(out, t.files[p])
	}
	return out
}

// Dirs returns the explicitly ensured directories in sorted order.
func (t *Tree) Dirs() []string {
	out := make([]string, 0, len(t.dirs))
	for d := range t.dirs {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// EmptyDirs returns ensured directories that contain no file.
func (t *Tree) EmptyDirs() []string {
	var out []string
	for _, d := range t.Dirs() {
		if !t.hasFileUnder(d) {
			out = append(out, d)
		}
	}
	return out
}

// Merge copies every file and directory of other into t. Files in other win.
func (t *Tree) Merge(other *Tree) {
	for d := range other.dirs {
		t.dirs[d] = struct{}{}
	}
	for p, f := range other.files {
		cp := *f
		t.files[p] = &cp
	}
}

// Annotations maps each path to its origin, for tree rendering.
func (t *Tree) Annotations() map[string]string {
	out := make(map[string]string, len(t.files))
	for p, f := range t.files {
		out[p] = string(f.Origin)
	}
	return out
}
