package templates

import (
	"embed"
)

// TemplateFS holds every technology and common template source.
// The all: prefix keeps files such as pages/_app.js and __init__.py.
//
//go:embed all:sources
var TemplateFS embed.FS

// sourceRoot returns the embedded directory of a technology.
func sourceRoot(category Category, dir string) string {
	return "sources/" + string(category) + "/" + dir
}

// CommonSource returns the embedded path of a shared template such as
// "README.md".
func CommonSource(name string) string {
	return "sources/common/" + name + ".tmpl"
}

// RenderCommon renders a shared template against data.
func RenderCommon(name string, data Data) (string, error) {
	return NewRenderer(data).RenderFile(CommonSource(name))
}

// RenderDeploy renders a deployment template such as "Dockerfile".
func RenderDeploy(name string, data Data) (string, error) {
	return NewRenderer(data).RenderFile("sources/deploy/" + name + ".tmpl")
}
