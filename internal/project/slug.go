package project

import "strings"

// Slug converts a display name into a lowercase token made of [a-z0-9_].
// Runs of any other characters collapse to a single underscore, leading and
// trailing underscores are dropped, and a leading digit gets a "p_" prefix so
// the result is a valid package identifier. Slug is idempotent.
func Slug(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pending := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}

	s := b.String()
	if s == "" {
		return "project"
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "p_" + s
	}
	return s
}
