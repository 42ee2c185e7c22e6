package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// FakeClient answers offline with canned responses keyed by request kind.
// It is deterministic and safe for concurrent use. Kinds without a canned
// response or error get a built-in answer.
type FakeClient struct {
	// Responses overrides the answer for a kind.
	Responses map[string]string

	// Errors makes a kind fail.
	Errors map[string]error

	mu    sync.Mutex
	calls []Request
}

// NewFakeClient returns a fake with built-in answers only.
func NewFakeClient() *FakeClient {
	return &FakeClient{}
}

func (f *FakeClient) Name() string { return "fake" }
func (f *FakeClient) Close() error { return nil }

// Calls returns the requests seen so far.
func (f *FakeClient) Calls() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.calls...)
}

func (f *FakeClient) Generate(ctx context.Context, req Request) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err, ok := f.Errors[req.Kind]; ok {
		return "", err
	}
	if out, ok := f.Responses[req.Kind]; ok {
		return out, nil
	}
	return builtinAnswer(req)
}

// builtinAnswer produces a plausible response for each prompt kind.
func builtinAnswer(req Request) (string, error) {
	switch req.Kind {
	case "plan":
		return "# Project Overview and Goals\nBuild the described project.\n\n" +
			"# Detailed Technical Requirements\nUse the selected stack.\n\n" +
			"# Core Features and Functionality\nImplement the selected features.\n\n" +
			"# Project Structure Overview\nStandard layout.\n\n" +
			"# Development Guidelines\nKeep it tested.\n", nil
	case "epics":
		return "1. Foundation\n2. Core features\n3. Quality\n", nil
	case "file_plan":
		return `{
  "src/services/api.js": {"description": "HTTP client wrapper", "purpose": "talk to the backend", "dependencies": []},
  "src/services/auth.js": {"description": "session helpers", "purpose": "authentication", "dependencies": ["src/services/api.js"]},
  "tests/api.test.js": {"description": "api tests", "purpose": "testing", "dependencies": ["src/services/api.js", "src/services/auth.js"]}
}`, nil
	case "implement_file":
		path := promptField(req.Prompt, "Path:")
		out, err := json.Marshal(map[string]any{
			"content":            fmt.Sprintf("// %s\n", path),
			"imports":            []string{},
			"dependencies":       []string{},
			"integration_points": []string{"exports " + path},
			"tests_required":     []string{},
		})
		return string(out), err
	case "recommend":
		return `{"frontend": "React", "uiLibrary": "Tailwind CSS", "backend": "Node.js/Express", ` +
			`"database": "PostgreSQL", "authentication": "JWT", "deployment": "Docker", ` +
			`"additionalServices": [], "rationale": "A common, well supported stack."}`, nil
	case "compatibility":
		return `{"compatible": true, "issues": [], "recommendations": []}`, nil
	}
	return "", fmt.Errorf("fake: no answer for kind %q", req.Kind)
}

// promptField returns the trimmed text after the first line starting with
// label.
func promptField(prompt, label string) string {
	for _, line := range strings.Split(prompt, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, label) {
			return strings.TrimSpace(strings.TrimPrefix(line, label))
		}
	}
	return ""
}
