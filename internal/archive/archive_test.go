package archive

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/devspell/cli/internal/errors"
	"github.com/devspell/cli/internal/filetree"
)

func sampleTree(t *testing.T) *filetree.Tree {
	t.Helper()
	tree := filetree.New()
	require.NoError(t, tree.PutString("README.md", "# Demo\n"))
	require.NoError(t, tree.PutString(`src\app.js`, "console.log('hi');\n"))
	require.NoError(t, tree.Put("assets/logo.bin", []byte{0, 1, 2, 255}, filetree.OriginTemplate))
	require.NoError(t, tree.PutString("docs/api.md", ""))
	require.NoError(t, tree.EnsureDir("tests"))
	require.NoError(t, tree.EnsureDir("src"))
	return tree
}

func TestArchive_RoundTrip(t *testing.T) {
	arch, err := Archive(sampleTree(t))
	require.NoError(t, err)

	entries, err := Read(arch.Blob)
	require.NoError(t, err)
	assert.Equal(t, arch.Manifest, entries)

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.Path)
		assert.NotContains(t, e.Path, `\`)
	}
	assert.Equal(t, []string{"README.md", "assets/logo.bin", "docs/api.md", "src/app.js"}, paths)
	assert.Equal(t, string([]byte{0, 1, 2, 255}), entries[1].Content)

	dirs, err := Dirs(arch.Blob)
	require.NoError(t, err)
	assert.Equal(t, []string{"tests/"}, dirs)
}

func TestArchive_Prefix(t *testing.T) {
	arch, err := Archive(sampleTree(t), WithPrefix("my_app"))
	require.NoError(t, err)

	entries, err := Read(arch.Blob)
	require.NoError(t, err)
	for _, e := range entries {
		assert.Regexp(t, `^my_app/`, e.Path)
	}
	assert.Equal(t, "my_app/README.md", arch.Manifest[0].Path)

	dirs, err := Dirs(arch.Blob)
	require.NoError(t, err)
	assert.Equal(t, []string{"my_app/tests/"}, dirs)
}

func TestArchive_Deterministic(t *testing.T) {
	a, err := Archive(sampleTree(t), WithPrefix("x"))
	require.NoError(t, err)
	b, err := Archive(sampleTree(t), WithPrefix("x"))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a.Blob, b.Blob))
}

func TestArchive_EmptyTree(t *testing.T) {
	arch, err := Archive(filetree.New())
	require.NoError(t, err)
	assert.Empty(t, arch.Manifest)

	entries, err := Read(arch.Blob)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

type failingWriter struct {
	after int
	n     int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n+len(p) > w.after {
		return 0, errors.New("disk full")
	}
	w.n += len(p)
	return len(p), nil
}

func TestWrite_WriterFailure(t *testing.T) {
	for _, after := range []int{0, 10, 64} {
		manifest, err := Write(&failingWriter{after: after}, sampleTree(t))
		require.Error(t, err)
		assert.ErrorIs(t, err, oerrors.ErrArchive)
		assert.Contains(t, err.Error(), "disk full")
		assert.Nil(t, manifest)
	}
}

func TestRead_NotAZip(t *testing.T) {
	_, err := Read([]byte("plain text"))
	assert.Error(t, err)
}
