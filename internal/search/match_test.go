package search

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogsearch/internal/domain"
)

func post(slug, title, description, text string, headings ...domain.HeadingEntry) domain.PostRecord {
	return domain.PostRecord{
		Metadata: domain.PostMetadata{
			Slug:        slug,
			Title:       title,
			Description: description,
		},
		PlainText: text,
		Headings:  headings,
	}
}

func TestEmptyQueryReturnsNothing(t *testing.T) {
	corpus := []domain.PostRecord{post("a", "Alpha", "", "alpha text")}

	for _, q := range []string{"", " ", "\t\n  "} {
		assert.Empty(t, Search(q, corpus, DefaultOptions()), "query %q", q)
	}
}

func TestTitleAndContentMatch(t *testing.T) {
	corpus := []domain.PostRecord{
		post("hello-world", "Hello World", "A greeting", "...introduction... Hello there friend...",
			domain.HeadingEntry{ID: "intro", Text: "Introduction", Level: 2, Offset: 0}),
	}

	results := Search("hello", corpus, DefaultOptions())
	require.Len(t, results, 1)

	r := results[0]
	off, ok := r.Offset()
	require.True(t, ok)
	assert.Equal(t, strings.Index(corpus[0].PlainText, "Hello"), off)
	assert.Greater(t, off, 0)
	assert.Equal(t, "<mark>Hello</mark> World", r.HighlightedTitle)
	assert.Equal(t, "...introduction... Hello there friend...", r.Excerpt)
	assert.Equal(t, "...introduction... <mark>Hello</mark> there friend...", r.HighlightedExcerpt)
	assert.Equal(t, corpus[0].Headings, r.Headings)
}

func TestTitleOnlyMatchFallsBackToDescription(t *testing.T) {
	corpus := []domain.PostRecord{post("go", "Learning Go", "Notes on learning go", "nothing relevant here")}

	results := Search("learning", corpus, DefaultOptions())
	require.Len(t, results, 1)

	off, ok := results[0].Offset()
	require.True(t, ok)
	assert.Equal(t, 0, off)
	assert.Equal(t, "Notes on learning go", results[0].Excerpt)
	assert.Equal(t, "Notes on <mark>learning</mark> go", results[0].HighlightedExcerpt)
	assert.Equal(t, "<mark>Learning</mark> Go", results[0].HighlightedTitle)
}

func TestContentOnlyMatchLeavesTitlePlain(t *testing.T) {
	corpus := []domain.PostRecord{post("p", "Plain Title", "desc", "the needle is here")}

	results := Search("NEEDLE", corpus, DefaultOptions())
	require.Len(t, results, 1)
	assert.Equal(t, "Plain Title", results[0].HighlightedTitle)
	off, _ := results[0].Offset()
	assert.Equal(t, 4, off)
}

func TestNoMatchExcludesRecord(t *testing.T) {
	corpus := []domain.PostRecord{
		post("a", "Alpha", "", "first"),
		post("b", "Beta", "", "second"),
	}
	assert.Empty(t, Search("gamma", corpus, DefaultOptions()))
}

func TestCorpusOrderPreserved(t *testing.T) {
	corpus := []domain.PostRecord{
		post("c", "Post C", "", "shared word"),
		post("a", "Post A", "", "no"),
		post("b", "Post B", "", "shared too"),
	}

	results := Search("shared", corpus, DefaultOptions())
	require.Len(t, results, 2)
	assert.Equal(t, "c", results[0].Slug)
	assert.Equal(t, "b", results[1].Slug)
}

func TestMetacharactersMatchLiterally(t *testing.T) {
	corpus := []domain.PostRecord{
		post("cpp", "C++ (beta)", "", "use a.b* carefully [x]"),
		post("other", "Cxx beta", "", "aXb carefully"),
	}

	for _, q := range []string{"(", "c++ (beta)", "a.b*", "[x]", `\`, "$^|?"} {
		assert.NotPanics(t, func() { Search(q, corpus, DefaultOptions()) }, q)
	}

	results := Search("c++ (", corpus, DefaultOptions())
	require.Len(t, results, 1)
	assert.Equal(t, "<mark>C++ (</mark>beta)", results[0].HighlightedTitle)

	results = Search("a.b", corpus, DefaultOptions())
	require.Len(t, results, 1)
	assert.Equal(t, "cpp", results[0].Slug)
}

func TestExcerptWindow(t *testing.T) {
	text := strings.Repeat("a", 100) + "QUERY" + strings.Repeat("b", 100)
	corpus := []domain.PostRecord{post("w", "Window", "", text)}

	results := Search("query", corpus, DefaultOptions())
	require.Len(t, results, 1)

	want := "..." + strings.Repeat("a", 40) + "QUERY" + strings.Repeat("b", 40) + "..."
	assert.Equal(t, want, results[0].Excerpt)
}

func TestExcerptAtEdgesHasNoEllipsis(t *testing.T) {
	corpus := []domain.PostRecord{post("s", "Short", "", "match at start and end")}

	results := Search("match", corpus, DefaultOptions())
	require.Len(t, results, 1)
	assert.Equal(t, "match at start and end", results[0].Excerpt)
}

func TestHighlightDoesNotTouchEllipsis(t *testing.T) {
	text := strings.Repeat("x", 60) + "." + strings.Repeat("y", 60)
	corpus := []domain.PostRecord{post("d", "Dots", "", text)}

	results := Search(".", corpus, DefaultOptions())
	require.Len(t, results, 1)
	assert.True(t, strings.HasPrefix(results[0].HighlightedExcerpt, "..."+strings.Repeat("x", 40)))
	assert.Equal(t, 1, strings.Count(results[0].HighlightedExcerpt, "<mark>"))
}

func TestExcerptKeepsRunesIntact(t *testing.T) {
	text := strings.Repeat("é", 50) + "match" + strings.Repeat("ö", 50)
	opts := DefaultOptions()
	opts.ExcerptWidth = 10

	results := Search("MATCH", []domain.PostRecord{post("u", "U", "", text)}, opts)
	require.Len(t, results, 1)

	assert.True(t, utf8.ValidString(results[0].Excerpt))
	assert.Equal(t, "...ééééématchööööö...", results[0].Excerpt)

	off, _ := results[0].Offset()
	assert.Equal(t, len(strings.Repeat("é", 50)), off)
}

func TestUnicodeCaseFolding(t *testing.T) {
	corpus := []domain.PostRecord{post("u", "Über Straße", "", "")}

	results := Search("über", corpus, DefaultOptions())
	require.Len(t, results, 1)
	assert.Equal(t, "<mark>Über</mark> Straße", results[0].HighlightedTitle)
}

func TestEmptyContentStillMatchesTitle(t *testing.T) {
	corpus := []domain.PostRecord{{Metadata: domain.PostMetadata{Slug: "t", Title: "Only Title"}}}

	results := Search("title", corpus, DefaultOptions())
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Headings)
	assert.Equal(t, "", results[0].Excerpt)
}

func TestSearchDoesNotMutateCorpus(t *testing.T) {
	headings := []domain.HeadingEntry{{ID: "a", Offset: 0}, {ID: "b", Offset: 10}}
	corpus := []domain.PostRecord{post("m", "Mutate", "", "mutate me please", headings...)}

	results := Search("mutate", corpus, DefaultOptions())
	require.Len(t, results, 1)
	results[0].Headings[0].ID = "changed"

	assert.Equal(t, "a", corpus[0].Headings[0].ID)
}

func TestCustomMarkers(t *testing.T) {
	opts := DefaultOptions()
	opts.MarkOpen, opts.MarkClose = "**", "**"

	results := Search("go", []domain.PostRecord{post("g", "Go go", "", "")}, opts)
	require.Len(t, results, 1)
	assert.Equal(t, "**Go** **go**", results[0].HighlightedTitle)
}

func TestHighlight(t *testing.T) {
	wrap := func(s string) string { return "[" + s + "]" }

	assert.Equal(t, "[Go] [go] [GO]", Highlight("Go go GO", "go", wrap))
	assert.Equal(t, "unchanged", Highlight("unchanged", "  ", wrap))
	assert.Equal(t, "f[(]x)", Highlight("f(x)", "(", wrap))
}

func TestExcerptHelper(t *testing.T) {
	opts := DefaultOptions()
	opts.ExcerptWidth = 4
	assert.Equal(t, "...cdEFgh...", Excerpt("abcdEFghij", 4, 6, opts))
}
