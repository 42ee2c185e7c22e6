// Package project defines the validated project configuration that drives
// scaffolding and synthesis.
package project

import (
	"fmt"
	"strings"

	oerrors "github.com/devspell/cli/internal/errors"
)

// None is the sentinel for an unselected technology choice.
const None = "None"

// Config captures every technology choice and feature list for one project.
//
// Construct it with FromForm, Parse or Load; those apply defaults and
// validate. A Config built by hand should call ApplyDefaults and Validate.
type Config struct {
	Name        string `json:"name" yaml:"name"`
	ProjectType string `json:"projectType,omitempty" yaml:"projectType,omitempty"`
	Description string `json:"description" yaml:"description"`
	Scale       string `json:"scale,omitempty" yaml:"scale,omitempty"`

	Frontend            string `json:"frontend" yaml:"frontend"`
	UILibrary           string `json:"uiLibrary" yaml:"uiLibrary"`
	Backend             string `json:"backend" yaml:"backend"`
	Database            string `json:"database" yaml:"database"`
	Authentication      string `json:"authentication" yaml:"authentication"`
	DeploymentPlatform  string `json:"deploymentPlatform" yaml:"deploymentPlatform"`
	StaticSiteGenerator string `json:"staticSiteGenerator" yaml:"staticSiteGenerator"`
	CacheService        string `json:"cacheService" yaml:"cacheService"`
	CMS                 string `json:"cms" yaml:"cms"`
	HTMLVersion         string `json:"htmlVersion" yaml:"htmlVersion"`

	// Features keeps insertion order; README rendering depends on it.
	Features        []string `json:"features" yaml:"features"`
	Requirements    []string `json:"requirements" yaml:"requirements"`
	CSSTechnologies []string `json:"cssTechnologies" yaml:"cssTechnologies"`
	JSTechnologies  []string `json:"jsTechnologies" yaml:"jsTechnologies"`
}

// choices returns pointers to every sentinel-defaulted field.
func (c *Config) choices() []*string {
	return []*string{
		&c.Frontend, &c.UILibrary, &c.Backend, &c.Database, &c.Authentication,
		&c.DeploymentPlatform, &c.StaticSiteGenerator, &c.CacheService, &c.CMS,
		&c.HTMLVersion,
	}
}

// ApplyDefaults trims every string field, sets unselected choices to None
// and replaces nil lists with empty ones.
func (c *Config) ApplyDefaults() {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)
	c.ProjectType = strings.TrimSpace(c.ProjectType)
	c.Scale = strings.TrimSpace(c.Scale)

	for _, f := range c.choices() {
		*f = strings.TrimSpace(*f)
		if *f == "" {
			*f = None
		}
	}

	c.Features = cleanList(c.Features)
	c.Requirements = cleanList(c.Requirements)
	c.CSSTechnologies = cleanList(c.CSSTechnologies)
	c.JSTechnologies = cleanList(c.JSTechnologies)
}

// Validate reports every missing required field in one validation error.
// Frontend set to None counts as missing.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(c.Description) == "" {
		missing = append(missing, "description")
	}
	if fe := strings.TrimSpace(c.Frontend); fe == "" || fe == None {
		missing = append(missing, "frontend")
	}
	if len(missing) == 0 {
		return nil
	}

	return &oerrors.DetailError{
		Type:    "validation failed",
		Message: fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")),
		Field:   missing[0],
		Context: map[string]string{"Missing": strings.Join(missing, ",")},
		Hint:    "name, description and frontend must be non-empty",
		Cause:   oerrors.ErrValidation,
	}
}

// Slug returns the filesystem- and package-safe token for the project name.
// It is the only slug rule; directory roots, package names and archive
// prefixes all use it.
func (c *Config) Slug() string {
	return Slug(c.Name)
}

// Has reports whether a technology choice is set to something other than None.
func Has(choice string) bool {
	choice = strings.TrimSpace(choice)
	return choice != "" && choice != None
}

// HasFeature reports whether name is among the selected features, ignoring case.
func (c *Config) HasFeature(name string) bool {
	for _, f := range c.Features {
		if strings.EqualFold(f, name) {
			return true
		}
	}
	return false
}

// UsesTechnology reports whether a CSS or JS technology list mentions name.
func (c *Config) UsesTechnology(name string) bool {
	for _, list := range [][]string{c.CSSTechnologies, c.JSTechnologies} {
		for _, t := range list {
			if strings.Contains(strings.ToLower(t), strings.ToLower(name)) {
				return true
			}
		}
	}
	return strings.Contains(strings.ToLower(c.UILibrary), strings.ToLower(name))
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Features = append([]string{}, c.Features...)
	out.Requirements = append([]string{}, c.Requirements...)
	out.CSSTechnologies = append([]string{}, c.CSSTechnologies...)
	out.JSTechnologies = append([]string{}, c.JSTechnologies...)
	return &out
}

// Summary returns "label: value" pairs for every selected technology in a
// stable order. Used by README rendering and prompt construction.
func (c *Config) Summary() [][2]string {
	rows := [][2]string{
		{"Frontend", c.Frontend},
		{"UI Library", c.UILibrary},
		{"Backend", c.Backend},
		{"Database", c.Database},
		{"Authentication", c.Authentication},
		{"Deployment", c.DeploymentPlatform},
		{"Static Site Generator", c.StaticSiteGenerator},
		{"Cache", c.CacheService},
		{"CMS", c.CMS},
	}
	out := rows[:0]
	for _, r := range rows {
		if Has(r[1]) {
			out = append(out, r)
		}
	}
	return out
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
