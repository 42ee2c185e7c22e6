package scaffold

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/devspell/cli/internal/filetree"
	"github.com/devspell/cli/internal/templates"
)

// deployer renders the artifacts of one deployment platform.
type deployer func(data templates.Data) ([]templates.File, error)

// deployers is the one-of-N table keyed by lower-cased platform name.
var deployers = map[string]deployer{
	"docker":     dockerFiles,
	"vercel":     vercelFiles,
	"netlify":    netlifyFiles,
	"kubernetes": kubernetesFiles,
}

// Platforms lists the deployment platforms that produce artifacts.
func Platforms() []string {
	return []string{"Docker", "Vercel", "Netlify", "Kubernetes"}
}

// addDeployment writes the artifacts of data.Deployment. Unknown platforms
// write nothing and report false.
func addDeployment(tree *filetree.Tree, data templates.Data) (bool, error) {
	deploy, ok := deployers[strings.ToLower(strings.TrimSpace(data.Deployment))]
	if !ok {
		return false, nil
	}
	files, err := deploy(data)
	if err != nil {
		return false, fmt.Errorf("rendering %s deployment: %w", data.Deployment, err)
	}
	return true, putFiles(tree, files)
}

type composeFile struct {
	Services map[string]composeService `yaml:"services"`
	Volumes  map[string]struct{}       `yaml:"volumes,omitempty"`
}

type composeService struct {
	Build       string            `yaml:"build,omitempty"`
	Image       string            `yaml:"image,omitempty"`
	Ports       []string          `yaml:"ports,omitempty"`
	EnvFile     []string          `yaml:"env_file,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty"`
	DependsOn   []string          `yaml:"depends_on,omitempty"`
	Volumes     []string          `yaml:"volumes,omitempty"`
}

// databaseService describes the container of a supported database.
type databaseService struct {
	image   string
	dataDir string
	env     func(slug string) map[string]string
}

var databaseServices = map[string]databaseService{
	templates.TechPostgres: {
		image:   "postgres:15-alpine",
		dataDir: "/var/lib/postgresql/data",
		env: func(slug string) map[string]string {
			return map[string]string{
				"POSTGRES_DB":       slug,
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
			}
		},
	},
	templates.TechMySQL: {
		image:   "mysql:8",
		dataDir: "/var/lib/mysql",
		env: func(slug string) map[string]string {
			return map[string]string{
				"MYSQL_DATABASE":      slug,
				"MYSQL_ROOT_PASSWORD": "mysql",
			}
		},
	},
	templates.TechMongoDB: {
		image:   "mongo:6",
		dataDir: "/data/db",
		env: func(slug string) map[string]string {
			return map[string]string{"MONGO_INITDB_DATABASE": slug}
		},
	},
}

func dockerFiles(data templates.Data) ([]templates.File, error) {
	dockerfile, err := templates.RenderDeploy("Dockerfile", data)
	if err != nil {
		return nil, err
	}

	port := data.AppPort()
	app := composeService{
		Build:   ".",
		Ports:   []string{fmt.Sprintf("%d:%d", port, port)},
		EnvFile: []string{".env"},
	}
	compose := composeFile{Services: map[string]composeService{}}

	if db, ok := databaseServices[data.Database]; ok {
		app.DependsOn = []string{"db"}
		app.Environment = map[string]string{"DB_HOST": "db"}
		compose.Services["db"] = composeService{
			Image:       db.image,
			Ports:       []string{fmt.Sprintf("%d:%d", data.DatabasePort(), data.DatabasePort())},
			Environment: db.env(data.Slug),
			Volumes:     []string{"db_data:" + db.dataDir},
		}
		compose.Volumes = map[string]struct{}{"db_data": {}}
	}
	compose.Services["app"] = app

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(compose); err != nil {
		return nil, fmt.Errorf("encoding docker-compose.yml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return []templates.File{
		{Path: "Dockerfile", Content: dockerfile},
		{Path: "docker-compose.yml", Content: buf.String()},
	}, nil
}

type vercelConfig struct {
	Version int           `json:"version"`
	Builds  []vercelBuild `json:"builds"`
	Routes  []vercelRoute `json:"routes,omitempty"`
}

type vercelBuild struct {
	Src string `json:"src"`
	Use string `json:"use"`
}

type vercelRoute struct {
	Src  string `json:"src"`
	Dest string `json:"dest"`
}

func vercelFiles(data templates.Data) ([]templates.File, error) {
	cfg := vercelConfig{Version: 2}

	switch data.Frontend {
	case templates.TechVanilla:
		cfg.Builds = append(cfg.Builds, vercelBuild{Src: "**/*", Use: "@vercel/static"})
	case templates.TechNext:
		cfg.Builds = append(cfg.Builds, vercelBuild{Src: "package.json", Use: "@vercel/next"})
	default:
		cfg.Builds = append(cfg.Builds, vercelBuild{Src: "package.json", Use: "@vercel/static-build"})
	}

	switch data.Backend {
	case templates.TechExpress:
		cfg.Builds = append(cfg.Builds, vercelBuild{Src: "src/server.js", Use: "@vercel/node"})
		cfg.Routes = append(cfg.Routes, vercelRoute{Src: "/api/(.*)", Dest: "src/server.js"})
	case templates.TechFastAPI:
		cfg.Builds = append(cfg.Builds, vercelBuild{Src: "app/main.py", Use: "@vercel/python"})
		cfg.Routes = append(cfg.Routes, vercelRoute{Src: "/api/(.*)", Dest: "app/main.py"})
	}

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding vercel.json: %w", err)
	}
	return []templates.File{{Path: "vercel.json", Content: string(out) + "\n"}}, nil
}

type netlifyConfig struct {
	Build     netlifyBuild      `toml:"build"`
	Redirects []netlifyRedirect `toml:"redirects,omitempty"`
}

type netlifyBuild struct {
	Command string `toml:"command,omitempty"`
	Publish string `toml:"publish"`
}

type netlifyRedirect struct {
	From   string `toml:"from"`
	To     string `toml:"to"`
	Status int    `toml:"status"`
}

func netlifyFiles(data templates.Data) ([]templates.File, error) {
	var cfg netlifyConfig

	switch data.Frontend {
	case templates.TechReact, templates.TechVue:
		cfg.Build = netlifyBuild{Command: "npm run build", Publish: "dist"}
		cfg.Redirects = []netlifyRedirect{{From: "/*", To: "/index.html", Status: 200}}
	case templates.TechNext:
		cfg.Build = netlifyBuild{Command: "npm run build", Publish: ".next"}
	default:
		cfg.Build = netlifyBuild{Publish: "."}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("encoding netlify.toml: %w", err)
	}
	return []templates.File{{Path: "netlify.toml", Content: buf.String()}}, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
