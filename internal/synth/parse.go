package synth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/devspell/cli/internal/llm"
	"github.com/devspell/cli/internal/output"
)

// wrapperKeys are accepted as a single top-level key around the plan.
var wrapperKeys = map[string]bool{"files": true, "file_structure": true, "fileStructure": true}

// ParseFileSpecs decodes a file plan. The plan is either a JSON object
// mapping paths to details, kept in document order, or an array of objects
// with a "path" field. Markdown fences are stripped. A details value may be
// an object, a plain description string or a bare dependency list;
// "dependencies" may be a list or a comma-separated string. Entries without
// a path or with any other value are dropped.
func ParseFileSpecs(data []byte) ([]FileSpec, error) {
	raw := bytes.TrimSpace([]byte(llm.StripFences(string(data))))
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty file plan", ErrMalformed)
	}

	var specs []FileSpec
	var err error
	switch raw[0] {
	case '{':
		specs, err = parseObjectPlan(raw)
	case '[':
		specs, err = parseArrayPlan(raw)
	default:
		return nil, fmt.Errorf("%w: file plan is not a JSON object", ErrMalformed)
	}
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: file plan lists no files", ErrMalformed)
	}
	return specs, nil
}

func parseObjectPlan(raw []byte) ([]FileSpec, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var specs []FileSpec
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		key, _ := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
		}

		if wrapperKeys[key] {
			inner := bytes.TrimSpace(value)
			if len(inner) > 0 && (inner[0] == '{' || inner[0] == '[') {
				return ParseFileSpecs(inner)
			}
		}

		spec, ok, err := specFromValue(key, value)
		if err != nil {
			return nil, err
		}
		if ok {
			specs = append(specs, spec)
		}
	}

	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return specs, nil
}

func parseArrayPlan(raw []byte) ([]FileSpec, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var specs []FileSpec
	for _, item := range items {
		spec, ok, err := specFromValue("", item)
		if err != nil {
			return nil, err
		}
		if ok {
			specs = append(specs, spec)
		}
	}
	return specs, nil
}

// specFromValue builds a spec from one plan value. path may be empty when
// the value carries its own "path" or "file_path".
func specFromValue(path string, value json.RawMessage) (FileSpec, bool, error) {
	var desc string
	if err := json.Unmarshal(value, &desc); err == nil {
		path = strings.TrimSpace(path)
		return FileSpec{Path: path, Description: desc, Dependencies: []string{}}, path != "", nil
	}

	var deps []any
	if trimmed := bytes.TrimSpace(value); len(trimmed) > 0 && trimmed[0] == '[' && json.Unmarshal(trimmed, &deps) == nil {
		path = strings.TrimSpace(path)
		return FileSpec{Path: path, Dependencies: stringList(deps)}, path != "", nil
	}

	var fields map[string]any
	if err := json.Unmarshal(value, &fields); err != nil || fields == nil {
		output.Debug("skipping file plan entry", "file", path, "value", string(value))
		return FileSpec{}, false, nil
	}

	if path == "" {
		path = firstString(fields, "path", "file_path", "filePath")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return FileSpec{}, false, nil
	}

	spec := FileSpec{
		Path:         path,
		Description:  firstString(fields, "description"),
		Purpose:      firstString(fields, "purpose"),
		Dependencies: stringList(fields["dependencies"]),
	}

	consumed := map[string]bool{
		"path": true, "file_path": true, "filePath": true,
		"description": true, "purpose": true, "dependencies": true,
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if !consumed[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		spec.Meta = make(map[string]any, len(keys))
		for _, k := range keys {
			spec.Meta[k] = fields[k]
		}
	}
	return spec, true, nil
}

func firstString(fields map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := fields[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// stringList accepts a JSON list of strings or a comma-separated string.
func stringList(v any) []string {
	var out []string
	switch t := v.(type) {
	case string:
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// ParseImplementedFile decodes a generator response. Both snake_case and
// camelCase keys are accepted; list fields may be strings. A response
// without content is malformed.
func ParseImplementedFile(data []byte) (ImplementedFile, error) {
	raw := llm.StripFences(string(data))

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return ImplementedFile{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	content, _ := fields["content"].(string)
	if strings.TrimSpace(content) == "" {
		return ImplementedFile{}, fmt.Errorf("%w: missing content", ErrMalformed)
	}

	pick := func(keys ...string) []string {
		for _, k := range keys {
			if v, ok := fields[k]; ok {
				return stringList(v)
			}
		}
		return []string{}
	}

	return ImplementedFile{
		Content:           content,
		Imports:           pick("imports"),
		Dependencies:      pick("dependencies"),
		IntegrationPoints: pick("integration_points", "integrationPoints"),
		TestsRequired:     pick("tests_required", "testsRequired"),
	}, nil
}
