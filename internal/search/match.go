// Package search implements the in-memory match engine over a post corpus.
//
// Matching is case-insensitive literal substring containment against a
// post's title and plain-text content. Results keep corpus order; there is
// no ranking.
package search

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"blogsearch/internal/domain"
)

// Search returns the posts of corpus whose title or content contains query.
// An empty or whitespace-only query returns nil. corpus is never modified.
func Search(query string, corpus []domain.PostRecord, opts Options) []domain.SearchResult {
	pattern := compile(query)
	if pattern == nil {
		return nil
	}

	var results []domain.SearchResult
	for _, post := range corpus {
		if result, ok := match(pattern, post, opts); ok {
			results = append(results, result)
		}
	}
	return results
}

// compile builds a case-insensitive pattern matching query literally
func compile(query string) *regexp.Regexp {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
}

func match(pattern *regexp.Regexp, post domain.PostRecord, opts Options) (domain.SearchResult, bool) {
	meta := post.Metadata
	result := domain.SearchResult{
		PostMetadata:     meta,
		HighlightedTitle: meta.Title,
		Headings:         slices.Clone(post.Headings),
	}
	matched := false

	if pattern.MatchString(meta.Title) {
		matched = true
		result.MatchedOffset = intPtr(0)
		result.HighlightedTitle = highlight(pattern, meta.Title, opts.wrap)
		result.Excerpt = meta.Description
		result.HighlightedExcerpt = highlight(pattern, meta.Description, opts.wrap)
	}

	// A content hit overrides the title's offset so deep links land on it
	if loc := pattern.FindStringIndex(post.PlainText); loc != nil {
		matched = true
		result.MatchedOffset = intPtr(loc[0])

		prefix, body, suffix := window(post.PlainText, loc[0], loc[1], opts)
		result.Excerpt = prefix + body + suffix
		result.HighlightedExcerpt = prefix + highlight(pattern, body, opts.wrap) + suffix
	}

	return result, matched
}

// Excerpt returns the window of text around the match [start, end), with
// ellipsis markers where the window was cut
func Excerpt(text string, start, end int, opts Options) string {
	prefix, body, suffix := window(text, start, end, opts)
	return prefix + body + suffix
}

// window extends [start, end) by ExcerptWidth/2 runes on each side.
// Offsets are byte offsets; the window never splits a UTF-8 sequence.
func window(text string, start, end int, opts Options) (prefix, body, suffix string) {
	half := opts.ExcerptWidth / 2

	from := start
	for i := 0; i < half && from > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:from])
		from -= size
	}
	to := end
	for i := 0; i < half && to < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[to:])
		to += size
	}

	if from > 0 {
		prefix = opts.Ellipsis
	}
	if to < len(text) {
		suffix = opts.Ellipsis
	}
	return prefix, text[from:to], suffix
}

// Highlight wraps every case-insensitive occurrence of query in s with wrap.
// Regex metacharacters in query are matched literally.
func Highlight(s, query string, wrap func(string) string) string {
	pattern := compile(query)
	if pattern == nil {
		return s
	}
	return highlight(pattern, s, wrap)
}

func highlight(pattern *regexp.Regexp, s string, wrap func(string) string) string {
	if s == "" {
		return s
	}
	return pattern.ReplaceAllStringFunc(s, wrap)
}

func intPtr(v int) *int {
	return &v
}
