package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatValid(t *testing.T) {
	tests := []struct {
		format OutputFormat
		valid  bool
	}{
		{FormatText, true},
		{FormatJSON, true},
		{FormatYAML, true},
		{OutputFormat("table"), false},
		{OutputFormat(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.format.IsValid())
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseOutputFormat("JSON"))
	assert.Equal(t, FormatYAML, ParseOutputFormat("yml"))
	assert.Equal(t, FormatText, ParseOutputFormat(""))
	assert.Equal(t, FormatText, ParseOutputFormat("nope"))
}

func TestWriteStructured(t *testing.T) {
	v := map[string]any{"name": "demo", "files": []string{"a", "b"}}

	var js bytes.Buffer
	require.NoError(t, WriteStructured(&js, FormatJSON, v))
	assert.JSONEq(t, `{"name":"demo","files":["a","b"]}`, js.String())

	var ym bytes.Buffer
	require.NoError(t, WriteStructured(&ym, FormatYAML, v))
	assert.YAMLEq(t, "name: demo\nfiles: [a, b]\n", ym.String())

	assert.Error(t, WriteStructured(&bytes.Buffer{}, FormatText, v))
}
