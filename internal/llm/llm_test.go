package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/devspell/cli/internal/errors"
)

func TestStripFences(t *testing.T) {
	tests := []struct{ in, want string }{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```\n", `{"a":1}`},
		{"  plain text  ", "plain text"},
		{"```{\"a\":1}```", `{"a":1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripFences(tt.in), "input %q", tt.in)
	}
}

func TestGroqClient(t *testing.T) {
	var got groqChatReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"ok\":true}"}}]}`))
	}))
	defer srv.Close()

	c := NewGroqClient("secret", "m", srv.URL)
	out, err := c.Generate(context.Background(), Request{Prompt: "hi", JSON: true})
	require.NoError(t, err)

	assert.Equal(t, `{"ok":true}`, out)
	assert.Equal(t, "m", got.Model)
	assert.Equal(t, "json_object", got.ResponseFormat["type"])
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hi", got.Messages[0].Content)
	assert.Equal(t, "groq:m", c.Name())
}

func TestGroqClient_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		permanent bool
	}{
		{"context length", http.StatusBadRequest, `{"error":{"code":"context_length_exceeded"}}`, true},
		{"unauthorized", http.StatusUnauthorized, `{}`, true},
		{"server error", http.StatusBadGateway, `oops`, false},
		{"empty choices", http.StatusOK, `{"choices":[]}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewGroqClient("k", "m", srv.URL).Generate(context.Background(), Request{Prompt: "x"})
			require.Error(t, err)
			assert.Equal(t, tt.permanent, IsPermanent(err))
		})
	}
}

func TestFakeClient(t *testing.T) {
	f := NewFakeClient()
	f.Responses = map[string]string{"plan": "custom plan"}
	f.Errors = map[string]error{"epics": errors.New("boom")}

	out, err := f.Generate(context.Background(), Request{Kind: "plan"})
	require.NoError(t, err)
	assert.Equal(t, "custom plan", out)

	_, err = f.Generate(context.Background(), Request{Kind: "epics"})
	assert.EqualError(t, err, "boom")

	out, err = f.Generate(context.Background(), Request{Kind: "implement_file", Prompt: "File to Implement:\nPath: src/a.js\n"})
	require.NoError(t, err)
	var impl map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &impl))
	assert.Equal(t, "// src/a.js\n", impl["content"])

	_, err = f.Generate(context.Background(), Request{Kind: "unknown"})
	assert.Error(t, err)

	assert.Len(t, f.Calls(), 4)
}

func TestNew(t *testing.T) {
	c, err := New(context.Background(), Options{Provider: "fake"})
	require.NoError(t, err)
	assert.Equal(t, "fake", c.Name())

	_, err = New(context.Background(), Options{Provider: "groq"})
	assert.ErrorIs(t, err, oerrors.ErrValidation)

	_, err = New(context.Background(), Options{Provider: "openai"})
	assert.ErrorIs(t, err, oerrors.ErrValidation)
}
