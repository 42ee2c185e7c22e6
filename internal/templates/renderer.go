package templates

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"text/template"
)

// packageSegment in a template path is replaced by the project slug.
const packageSegment = "__package__"

var funcs = template.FuncMap{
	"lower": strings.ToLower,
	"upper": strings.ToUpper,
	"join":  strings.Join,
}

// Renderer renders embedded template sources against Data.
type Renderer struct {
	data Data
}

// NewRenderer creates a new renderer with the given template data.
func NewRenderer(data Data) *Renderer {
	return &Renderer{data: data}
}

// RenderString renders a template string and returns the result.
func (r *Renderer) RenderString(name, content string) (string, error) {
	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(content)
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r.data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}

	return buf.String(), nil
}

// RenderFile renders one embedded source file.
func (r *Renderer) RenderFile(sourcePath string) (string, error) {
	content, err := fs.ReadFile(TemplateFS, sourcePath)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", sourcePath, err)
	}
	return r.RenderString(sourcePath, string(content))
}

// RenderTree renders every .tmpl file below root. The root prefix and .tmpl
// suffix are stripped from target paths and __package__ segments become the
// project slug. Files that render to whitespace only are skipped, which is
// how templates express conditional files.
func (r *Renderer) RenderTree(root string) ([]File, error) {
	var files []File

	err := fs.WalkDir(TemplateFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".tmpl") {
			return nil
		}

		rendered, err := r.RenderFile(p)
		if err != nil {
			return err
		}
		if strings.TrimSpace(rendered) == "" {
			return nil
		}

		files = append(files, File{
			Path:    r.targetPath(root, p),
			Content: rendered,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking template %s: %w", root, err)
	}

	return files, nil
}

func (r *Renderer) targetPath(root, sourcePath string) string {
	rel := strings.TrimSuffix(strings.TrimPrefix(sourcePath, root+"/"), ".tmpl")
	return r.ExpandPath(rel)
}

// ExpandPath replaces __package__ segments of a relative path with the slug.
func (r *Renderer) ExpandPath(rel string) string {
	parts := strings.Split(rel, "/")
	for i, part := range parts {
		if part == packageSegment {
			parts[i] = r.data.Slug
		}
	}
	return path.Join(parts...)
}
