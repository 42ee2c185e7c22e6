package filetree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "src/app.js", want: "src/app.js"},
		{in: `src\config\db.js`, want: "src/config/db.js"},
		{in: "/abs/path.txt", want: "abs/path.txt"},
		{in: "./a/../b.txt", want: "b.txt"},
		{in: "a//b", want: "a/b"},
		{in: "", wantErr: true},
		{in: ".", wantErr: true},
		{in: "../outside", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTree_LaterWritesWin(t *testing.T) {
	tree := New()
	require.NoError(t, tree.PutString("Dockerfile", "first"))
	require.NoError(t, tree.PutString(`Dockerfile`, "second"))

	f, ok := tree.Get("Dockerfile")
	require.True(t, ok)
	assert.Equal(t, "second", string(f.Content))
	assert.Equal(t, 1, tree.Len())
}

func TestTree_DirsAndEmptyDirs(t *testing.T) {
	tree := New()
	require.NoError(t, tree.EnsureDir("css"))
	require.NoError(t, tree.EnsureDir("images"))
	require.NoError(t, tree.PutString("css/style.css", "body{}"))

	assert.Equal(t, []string{"css", "images"}, tree.Dirs())
	assert.Equal(t, []string{"images"}, tree.EmptyDirs())
	assert.Error(t, tree.PutString("images", "not a file"))
}

func TestTree_FileDirectoryConflicts(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Tree) error
		put   string
		dir   string
	}{
		{name: "file under file", setup: func(tr *Tree) error { return tr.PutString("index.html", "<html>") }, put: "index.html/app.js"},
		{name: "file under nested file", setup: func(tr *Tree) error { return tr.PutString("src/app.js", "x") }, put: "src/app.js/util/a.js"},
		{name: "file over directory of files", setup: func(tr *Tree) error { return tr.PutString("src/app.js", "x") }, put: "src"},
		{name: "dir under file", setup: func(tr *Tree) error { return tr.PutString("index.html", "<html>") }, dir: "index.html/assets"},
		{name: "dir over file", setup: func(tr *Tree) error { return tr.PutString("README.md", "#") }, dir: "README.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := New()
			require.NoError(t, tt.setup(tree))
			before := tree.Paths()

			if tt.put != "" {
				assert.Error(t, tree.PutString(tt.put, "content"))
			} else {
				assert.Error(t, tree.EnsureDir(tt.dir))
			}
			assert.Equal(t, before, tree.Paths())
		})
	}
}

func TestTree_SiblingPrefixesAreNotConflicts(t *testing.T) {
	tree := New()
	require.NoError(t, tree.PutString("app", "binary"))
	require.NoError(t, tree.PutString("app.js", "x"))
	require.NoError(t, tree.PutString("apps/main.js", "x"))
	require.NoError(t, tree.EnsureDir("application"))
	assert.Equal(t, 3, tree.Len())
}

func TestTree_Merge(t *testing.T) {
	base := New()
	require.NoError(t, base.PutString("a.txt", "base"))
	require.NoError(t, base.EnsureDir("docs"))

	other := New()
	require.NoError(t, other.Put("a.txt", []byte("other"), OriginSynthesized))
	require.NoError(t, other.Put("b.txt", []byte("b"), OriginPlaceholder))

	base.Merge(other)

	assert.Equal(t, []string{"a.txt", "b.txt"}, base.Paths())
	f, _ := base.Get("a.txt")
	assert.Equal(t, OriginSynthesized, f.Origin)
	assert.Equal(t, map[string]string{"a.txt": "synthesized", "b.txt": "placeholder"}, base.Annotations())
}

func TestTree_WriteTo(t *testing.T) {
	tree := New()
	require.NoError(t, tree.EnsureDir("images"))
	require.NoError(t, tree.PutString("src/index.js", "console.log(1)"))

	dir := filepath.Join(t.TempDir(), "out")
	written, err := tree.WriteTo(WriteOptions{TargetDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/index.js"}, written)

	data, err := os.ReadFile(filepath.Join(dir, "src", "index.js"))
	require.NoError(t, err)
	assert.Equal(t, "console.log(1)", string(data))
	assert.DirExists(t, filepath.Join(dir, "images"))

	_, err = tree.WriteTo(WriteOptions{TargetDir: dir})
	assert.ErrorContains(t, err, "not empty")

	_, err = tree.WriteTo(WriteOptions{TargetDir: dir, Force: true})
	assert.NoError(t, err)
}
