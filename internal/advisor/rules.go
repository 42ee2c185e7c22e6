package advisor

import (
	"strings"

	"github.com/devspell/cli/internal/project"
)

// hostedAuth names authentication services that work without a backend.
var hostedAuth = map[string]bool{
	"auth0":         true,
	"firebase auth": true,
}

// rule reports an issue for cfg, or "".
type rule func(cfg *project.Config) string

var rules = []rule{
	func(cfg *project.Config) string {
		if project.Has(cfg.Database) && !project.Has(cfg.Backend) {
			return cfg.Database + " needs a backend; a browser frontend cannot connect to it directly"
		}
		return ""
	},
	func(cfg *project.Config) string {
		auth := strings.ToLower(cfg.Authentication)
		if project.Has(cfg.Authentication) && !project.Has(cfg.Backend) && !hostedAuth[auth] {
			return cfg.Authentication + " authentication needs a backend to issue and verify credentials"
		}
		return ""
	},
	func(cfg *project.Config) string {
		if strings.EqualFold(cfg.Backend, "Django") && strings.EqualFold(cfg.Database, "MongoDB") {
			return "Django's ORM does not support MongoDB"
		}
		return ""
	},
	func(cfg *project.Config) string {
		if strings.EqualFold(cfg.DeploymentPlatform, "Netlify") && project.Has(cfg.Backend) {
			return "Netlify hosts static sites only; " + cfg.Backend + " needs separate hosting"
		}
		return ""
	},
	func(cfg *project.Config) string {
		switch strings.ToLower(cfg.Backend) {
		case "django", "fastapi":
			if strings.EqualFold(cfg.DeploymentPlatform, "Vercel") {
				return "Vercel does not run long-lived " + cfg.Backend + " servers; use Docker or Kubernetes"
			}
		}
		return ""
	},
}

// KnownIssues applies the built-in compatibility rules to cfg.
func KnownIssues(cfg *project.Config) []string {
	issues := []string{}
	for _, r := range rules {
		if msg := r(cfg); msg != "" {
			issues = append(issues, msg)
		}
	}
	return issues
}
