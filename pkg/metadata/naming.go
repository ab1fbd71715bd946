package metadata

import (
	"regexp"
	"strings"
)

var (
	acronymBoundary = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	camelBoundary   = regexp.MustCompile(`([a-z\d])([A-Z])`)
)

// EntitySlug converts an entity's display name to its snake_case identifier.
// Spaces are dropped and camel-case boundaries become underscores; acronym
// runs stay whole, so "HTTPEndpoint" becomes "http_endpoint" rather than
// one underscore per letter.
func EntitySlug(entity string) string {
	name := strings.ReplaceAll(strings.TrimSpace(entity), " ", "")
	name = acronymBoundary.ReplaceAllString(name, "${1}_${2}")
	name = camelBoundary.ReplaceAllString(name, "${1}_${2}")
	return strings.ToLower(name)
}
