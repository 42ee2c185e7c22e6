package templates

import "fmt"

// Technology names with registered providers.
const (
	TechVanilla  = "HTML/CSS/JS(Vanilla)"
	TechReact    = "React"
	TechVue      = "Vue.js"
	TechNext     = "Next.js"
	TechExpress  = "Node.js/Express"
	TechDjango   = "Django"
	TechFastAPI  = "FastAPI"
	TechPostgres = "PostgreSQL"
	TechMongoDB  = "MongoDB"
	TechMySQL    = "MySQL"
)

// sourceProvider renders an embedded source directory.
type sourceProvider struct {
	name     string
	category Category
	dir      string
	dirs     []string
	aliases  []string
	manifest func(Data) PackageManifest
}

func (p *sourceProvider) Name() string       { return p.name }
func (p *sourceProvider) Category() Category { return p.category }

// Directories expands __package__ segments like file paths do.
func (p *sourceProvider) Directories(data Data) []string {
	r := NewRenderer(data)
	out := make([]string, 0, len(p.dirs))
	for _, d := range p.dirs {
		out = append(out, r.ExpandPath(d))
	}
	return out
}

// Files renders the embedded sources and, for providers with a manifest,
// adds package.json.
func (p *sourceProvider) Files(data Data) ([]File, error) {
	files, err := NewRenderer(data).RenderTree(sourceRoot(p.category, p.dir))
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", p.name, err)
	}

	if p.manifest != nil {
		body, err := p.manifest(data).JSON()
		if err != nil {
			return nil, err
		}
		files = append(files, File{Path: "package.json", Content: body})
	}
	return files, nil
}

// sourceManifestProvider exposes the manifest of a sourceProvider.
type sourceManifestProvider struct {
	*sourceProvider
}

func (p sourceManifestProvider) Manifest(data Data) PackageManifest {
	return p.manifest(data)
}

func (p *sourceProvider) provider() Provider {
	if p.manifest != nil {
		return sourceManifestProvider{p}
	}
	return p
}

// builtinProviders is the table of shipped technologies.
func builtinProviders() []*sourceProvider {
	return []*sourceProvider{
		{
			name:     TechVanilla,
			category: Frontend,
			dir:      "vanilla",
			dirs:     []string{"public", "assets", "css", "js", "images"},
			aliases:  []string{"Static Website", "HTML/CSS/JS", "Vanilla"},
		},
		{
			name:     TechReact,
			category: Frontend,
			dir:      "react",
			dirs: []string{
				"src/components", "src/pages", "src/hooks", "src/context",
				"src/assets", "src/styles", "src/utils", "src/services", "public",
			},
			manifest: reactManifest,
		},
		{
			name:     TechVue,
			category: Frontend,
			dir:      "vue",
			dirs: []string{
				"src/components", "src/views", "src/router", "src/store",
				"src/assets", "src/styles", "src/utils", "src/services", "public",
			},
			aliases:  []string{"Vue"},
			manifest: vueManifest,
		},
		{
			name:     TechNext,
			category: Frontend,
			dir:      "next",
			dirs: []string{
				"pages", "components", "styles", "public", "lib",
				"hooks", "context", "utils", "services",
			},
			aliases:  []string{"NextJS"},
			manifest: nextManifest,
		},
		{
			name:     TechExpress,
			category: Backend,
			dir:      "express",
			dirs: []string{
				"src/routes", "src/controllers", "src/models",
				"src/middleware", "src/services", "src/utils", "src/config",
			},
			aliases:  []string{"Express", "Node.js"},
			manifest: expressManifest,
		},
		{
			name:     TechDjango,
			category: Backend,
			dir:      "django",
			dirs: []string{
				packageSegment, packageSegment + "/apps", packageSegment + "/static",
				packageSegment + "/templates", packageSegment + "/media",
			},
		},
		{
			name:     TechFastAPI,
			category: Backend,
			dir:      "fastapi",
			dirs: []string{
				"app", "app/api", "app/core", "app/models",
				"app/schemas", "app/services", "app/tests",
			},
		},
		{name: TechPostgres, category: Database, dir: "postgresql", aliases: []string{"Postgres"}},
		{name: TechMongoDB, category: Database, dir: "mongodb", aliases: []string{"Mongo"}},
		{name: TechMySQL, category: Database, dir: "mysql"},
	}
}
