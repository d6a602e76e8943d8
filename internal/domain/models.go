package domain

import "time"

// PostMetadata describes a blog post
type PostMetadata struct {
	Slug        string    `json:"slug"` // unique id, last segment of /blog/{slug}
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Author      string    `json:"author,omitempty"`
	Date        time.Time `json:"date"`
	Tags        []string  `json:"tags,omitempty"`
	Locale      string    `json:"locale,omitempty"`
	Draft       bool      `json:"draft,omitempty"`
}

// HeadingEntry is a heading inside a post.
// Offset is the byte index into PostRecord.PlainText where the heading's
// section begins.
type HeadingEntry struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Level  int    `json:"level"`
	Offset int    `json:"offset"`
}

// PostRecord is the searchable form of a post. Immutable once built.
type PostRecord struct {
	Metadata  PostMetadata
	PlainText string
	Headings  []HeadingEntry // ordered by Offset, non-decreasing
}

// SearchResult is a post annotated for a single query
type SearchResult struct {
	PostMetadata

	Excerpt            string
	HighlightedTitle   string
	HighlightedExcerpt string

	// MatchedOffset is 0 for a title-only match and the byte index of the
	// first content match otherwise. nil when no offset was recorded.
	MatchedOffset *int

	Headings []HeadingEntry
}

// Offset returns MatchedOffset and whether it was set
func (r SearchResult) Offset() (int, bool) {
	if r.MatchedOffset == nil {
		return 0, false
	}
	return *r.MatchedOffset, true
}
