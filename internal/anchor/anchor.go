// Package anchor resolves search results to deep links.
package anchor

import (
	"strings"

	"blogsearch/internal/domain"
)

// DefaultBasePath prefixes every post link
const DefaultBasePath = "/blog"

// Resolve returns the fragment ("#id") of the heading closest before the
// result's match, or "" when the post has no headings.
//
// A match before the first heading, or a result without an offset,
// resolves to the first heading.
func Resolve(result domain.SearchResult) string {
	heading, ok := Heading(result)
	if !ok || heading.ID == "" {
		return ""
	}
	return "#" + heading.ID
}

// Heading returns the heading Resolve links to
func Heading(result domain.SearchResult) (domain.HeadingEntry, bool) {
	if len(result.Headings) == 0 {
		return domain.HeadingEntry{}, false
	}

	offset, ok := result.Offset()
	if !ok {
		return result.Headings[0], true
	}

	best := -1
	for i, h := range result.Headings {
		if h.Offset > offset {
			continue
		}
		// Strict comparison keeps the first of equal offsets
		if best < 0 || h.Offset > result.Headings[best].Offset {
			best = i
		}
	}
	if best < 0 {
		return result.Headings[0], true
	}
	return result.Headings[best], true
}

// Target builds the navigation path {basePath}/{slug}{anchor}
func Target(basePath string, result domain.SearchResult) string {
	return PostPath(basePath, result.Slug) + Resolve(result)
}

// PostPath builds {basePath}/{slug}
func PostPath(basePath, slug string) string {
	if basePath == "" {
		basePath = DefaultBasePath
	}
	return strings.TrimRight(basePath, "/") + "/" + slug
}

// Split separates a target into its path and heading id
func Split(target string) (path, headingID string) {
	path, headingID, _ = strings.Cut(target, "#")
	return path, headingID
}
