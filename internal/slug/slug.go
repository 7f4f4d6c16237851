// Package slug provides URL-friendly slug generation from movie titles.
package slug

import (
	"regexp"
	"strings"
)

var (
	// invalidChars matches anything that isn't a lowercase letter, digit,
	// or whitespace. Hyphens in the input are stripped too; the only
	// hyphens in a slug come from whitespace runs.
	invalidChars = regexp.MustCompile(`[^a-z0-9\s]`)
	// whitespaceRun matches one or more consecutive whitespace characters.
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Generate creates a URL-friendly slug from the given title.
// Example: "Cosmo Cat: Voyage!!" → "cosmo-cat-voyage"
func Generate(title string) string {
	s := strings.ToLower(title)
	s = invalidChars.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
