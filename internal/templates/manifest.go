package templates

import (
	"encoding/json"
	"fmt"
)

// PackageManifest is the structured form of package.json.
// Map fields marshal with sorted keys, so output is deterministic.
type PackageManifest struct {
	Name            string            `json:"name"`
	Private         bool              `json:"private,omitempty"`
	Version         string            `json:"version"`
	Description     string            `json:"description,omitempty"`
	Type            string            `json:"type,omitempty"`
	Main            string            `json:"main,omitempty"`
	Scripts         map[string]string `json:"scripts,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

// Merge folds other into m. Existing entries win; a conflicting script from
// other is kept under a "server:" prefix so both stacks stay runnable.
func (m *PackageManifest) Merge(other PackageManifest) {
	if m.Name == "" {
		m.Name = other.Name
	}
	if m.Version == "" {
		m.Version = other.Version
	}
	if m.Description == "" {
		m.Description = other.Description
	}
	if m.Main == "" {
		m.Main = other.Main
	}
	m.Private = m.Private || other.Private

	m.Scripts = mergeMap(m.Scripts, other.Scripts, "server:")
	m.Dependencies = mergeMap(m.Dependencies, other.Dependencies, "")
	m.DevDependencies = mergeMap(m.DevDependencies, other.DevDependencies, "")
}

func mergeMap(dst, src map[string]string, conflictPrefix string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		existing, ok := dst[k]
		switch {
		case !ok:
			dst[k] = v
		case existing != v && conflictPrefix != "":
			dst[conflictPrefix+k] = v
		}
	}
	return dst
}

// JSON renders the manifest with two-space indentation and a trailing newline.
func (m PackageManifest) JSON() (string, error) {
	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding package.json: %w", err)
	}
	return string(out) + "\n", nil
}

func reactManifest(d Data) PackageManifest {
	m := PackageManifest{
		Name:    d.Slug,
		Private: true,
		Version: "0.1.0",
		Type:    "module",
		Scripts: map[string]string{
			"dev":     "vite",
			"build":   "vite build",
			"preview": "vite preview",
		},
		Dependencies: map[string]string{
			"react":            "^18.2.0",
			"react-dom":        "^18.2.0",
			"react-router-dom": "^6.8.0",
		},
		DevDependencies: map[string]string{
			"@types/react":         "^18.0.27",
			"@types/react-dom":     "^18.0.10",
			"@vitejs/plugin-react": "^3.1.0",
			"vite":                 "^4.1.0",
		},
	}
	if d.Tailwind {
		m.DevDependencies["tailwindcss"] = "^3.3.0"
		m.DevDependencies["postcss"] = "^8.4.21"
		m.DevDependencies["autoprefixer"] = "^10.4.14"
	}
	return m
}

func vueManifest(d Data) PackageManifest {
	return PackageManifest{
		Name:        d.Slug,
		Version:     "1.0.0",
		Description: d.Name + " - Vue.js Project",
		Type:        "module",
		Scripts: map[string]string{
			"dev":   "vite",
			"build": "vite build",
			"serve": "vite preview",
		},
		Dependencies: map[string]string{
			"vue":        "^3.2.0",
			"vue-router": "^4.1.6",
			"pinia":      "^2.0.32",
		},
		DevDependencies: map[string]string{
			"@vitejs/plugin-vue": "^4.0.0",
			"vite":               "^4.0.0",
		},
	}
}

func nextManifest(d Data) PackageManifest {
	return PackageManifest{
		Name:    d.Slug,
		Private: true,
		Version: "0.1.0",
		Scripts: map[string]string{
			"dev":   "next dev",
			"build": "next build",
			"start": "next start",
			"lint":  "next lint",
		},
		Dependencies: map[string]string{
			"next":      "^13.2.0",
			"react":     "^18.2.0",
			"react-dom": "^18.2.0",
		},
	}
}

func expressManifest(d Data) PackageManifest {
	m := PackageManifest{
		Name:    d.Slug,
		Version: "1.0.0",
		Main:    "src/server.js",
		Scripts: map[string]string{
			"start": "node src/server.js",
			"dev":   "nodemon src/server.js",
			"test":  "jest",
		},
		Dependencies: map[string]string{
			"cors":    "^2.8.5",
			"dotenv":  "^16.0.3",
			"express": "^4.18.2",
			"helmet":  "^6.0.1",
			"morgan":  "^1.10.0",
		},
		DevDependencies: map[string]string{
			"jest":    "^29.4.3",
			"nodemon": "^2.0.20",
		},
	}
	switch d.Database {
	case "PostgreSQL":
		m.Dependencies["pg"] = "^8.9.0"
	case "MongoDB":
		m.Dependencies["mongoose"] = "^7.0.0"
	case "MySQL":
		m.Dependencies["mysql2"] = "^3.2.0"
	}
	if d.HasAuth {
		m.Dependencies["jsonwebtoken"] = "^9.0.0"
		m.Dependencies["bcryptjs"] = "^2.4.3"
	}
	return m
}
