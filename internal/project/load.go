package project

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	oerrors "github.com/devspell/cli/internal/errors"
)

// fieldAliases maps accepted input keys to canonical field names. Both the
// camelCase keys of the JSON API and the snake_case keys used by web forms
// are accepted.
var fieldAliases = map[string]string{
	"name":                  "name",
	"project_name":          "name",
	"projectName":           "name",
	"projectType":           "projectType",
	"project_type":          "projectType",
	"description":           "description",
	"project_description":   "description",
	"scale":                 "scale",
	"frontend":              "frontend",
	"uiLibrary":             "uiLibrary",
	"ui_library":            "uiLibrary",
	"backend":               "backend",
	"database":              "database",
	"authentication":        "authentication",
	"auth":                  "authentication",
	"deploymentPlatform":    "deploymentPlatform",
	"deployment_platform":   "deploymentPlatform",
	"deployment":            "deploymentPlatform",
	"staticSiteGenerator":   "staticSiteGenerator",
	"static_site_generator": "staticSiteGenerator",
	"cacheService":          "cacheService",
	"cache_service":         "cacheService",
	"cms":                   "cms",
	"htmlVersion":           "htmlVersion",
	"html_version":          "htmlVersion",
	"features":              "features",
	"additional_features":   "features",
	"additionalFeatures":    "features",
	"requirements":          "requirements",
	"cssTechnologies":       "cssTechnologies",
	"css_technologies":      "cssTechnologies",
	"jsTechnologies":        "jsTechnologies",
	"js_technologies":       "jsTechnologies",
}

// CanonicalField returns the field name an input key maps to, or "" for
// unknown keys.
func CanonicalField(key string) string {
	return fieldAliases[key]
}

// FromForm builds a Config from raw key-value input such as a decoded JSON
// body or form submission. Unknown keys are ignored. List fields accept a
// list of strings or a comma-separated string. When several aliases of one
// field are present the lexically last key wins.
func FromForm(values map[string]any) (*Config, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cfg := &Config{}
	for _, key := range keys {
		raw := values[key]
		field, ok := fieldAliases[key]
		if !ok {
			continue
		}
		if err := cfg.set(field, raw); err != nil {
			return nil, oerrors.NewValidationError(err.Error(), "", key, "")
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a YAML (or JSON) stack description.
func Parse(data []byte) (*Config, error) {
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, oerrors.NewValidationError(fmt.Sprintf("decoding stack file: %v", err), "", "", "")
	}
	if values == nil {
		values = map[string]any{}
	}
	return FromForm(values)
}

// Load reads and parses a stack file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oerrors.NewNotFoundError("stack file not found", path, "Pass an existing YAML file with --stack")
		}
		return nil, fmt.Errorf("reading stack file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		var detail *oerrors.DetailError
		if errors.As(err, &detail) && detail.Location == "" {
			detail.Location = path
		}
		return nil, err
	}
	return cfg, nil
}

func (c *Config) set(field string, raw any) error {
	switch field {
	case "features", "requirements", "cssTechnologies", "jsTechnologies":
		list, err := toList(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		switch field {
		case "features":
			c.Features = list
		case "requirements":
			c.Requirements = list
		case "cssTechnologies":
			c.CSSTechnologies = list
		case "jsTechnologies":
			c.JSTechnologies = list
		}
		return nil
	}

	s, err := toString(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	switch field {
	case "name":
		c.Name = s
	case "projectType":
		c.ProjectType = s
	case "description":
		c.Description = s
	case "scale":
		c.Scale = s
	case "frontend":
		c.Frontend = s
	case "uiLibrary":
		c.UILibrary = s
	case "backend":
		c.Backend = s
	case "database":
		c.Database = s
	case "authentication":
		c.Authentication = s
	case "deploymentPlatform":
		c.DeploymentPlatform = s
	case "staticSiteGenerator":
		c.StaticSiteGenerator = s
	case "cacheService":
		c.CacheService = s
	case "cms":
		c.CMS = s
	case "htmlVersion":
		c.HTMLVersion = s
	}
	return nil
}

func toString(raw any) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case int, int64, float64, bool:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("expected a string, got %T", raw)
	}
}

func toList(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return []string{}, nil
	case string:
		return strings.Split(v, ","), nil
	case []string:
		return append([]string{}, v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, err := toString(item)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list, got %T", raw)
	}
}
