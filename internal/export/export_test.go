package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/devspell/cli/internal/errors"
)

func TestFileExporter_Export(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	e := NewFileExporter(dir)

	loc, err := e.Export(context.Background(), "my_app.zip", []byte("PK-data"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "my_app.zip"), loc)

	got, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "PK-data", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestFileExporter_Overwrites(t *testing.T) {
	e := NewFileExporter(t.TempDir())
	_, err := e.Export(context.Background(), "a.zip", []byte("first"))
	require.NoError(t, err)
	loc, err := e.Export(context.Background(), "a.zip", []byte("second"))
	require.NoError(t, err)

	got, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func TestFileExporter_RejectsBadNames(t *testing.T) {
	e := NewFileExporter(t.TempDir())
	for _, name := range []string{"", " ", "..", "../escape.zip", `dir\x.zip`, "a/b.zip"} {
		t.Run(name, func(t *testing.T) {
			_, err := e.Export(context.Background(), name, []byte("x"))
			assert.ErrorIs(t, err, oerrors.ErrValidation)
		})
	}
}

func TestFileExporter_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFileExporter(t.TempDir()).Export(ctx, "a.zip", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewS3Exporter_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  S3Config
		want string
	}{
		{"no endpoint", S3Config{AccessKey: "a", SecretKey: "s", Bucket: "b"}, "endpoint"},
		{"no keys", S3Config{Endpoint: "localhost:9000", Bucket: "b"}, "access key"},
		{"no bucket", S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}, "bucket"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3Exporter(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestS3Exporter_ObjectKey(t *testing.T) {
	e, err := NewS3Exporter(S3Config{
		Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s",
		Bucket: "archives", Prefix: "/projects/",
	})
	require.NoError(t, err)
	assert.Equal(t, "projects/app.zip", e.objectKey("app.zip"))

	e.prefix = ""
	assert.Equal(t, "app.zip", e.objectKey("app.zip"))
}
