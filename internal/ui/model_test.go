package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogsearch/internal/config"
	"blogsearch/internal/domain"
	"blogsearch/internal/search"
)

type fakeCatalog struct {
	posts []domain.PostRecord
}

func (c *fakeCatalog) Search(_, q string) []domain.SearchResult {
	return search.Search(q, c.posts, search.DefaultOptions())
}
func (c *fakeCatalog) Posts(string) []domain.PostRecord { return c.posts }
func (c *fakeCatalog) BasePath() string                 { return "/blog" }

func testPosts() []domain.PostRecord {
	text := "Introduction\nHello there friend.\nDeep Dive\nThe later section about gophers."
	return []domain.PostRecord{
		{
			Metadata: domain.PostMetadata{
				Slug: "hello-world", Title: "Hello World", Description: "First post",
				Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Tags: []string{"intro"},
			},
			PlainText: text,
			Headings: []domain.HeadingEntry{
				{ID: "introduction", Text: "Introduction", Level: 2, Offset: 0},
				{ID: "deep-dive", Text: "Deep Dive", Level: 2, Offset: strings.Index(text, "Deep Dive")},
			},
		},
		{
			Metadata:  domain.PostMetadata{Slug: "go-tips", Title: "Go tips"},
			PlainText: "Some gophers tips.",
		},
	}
}

type pagerSpy struct {
	contents []string
	err      error
}

func (p *pagerSpy) show(content string) error {
	p.contents = append(p.contents, content)
	return p.err
}

func newTestModel(t *testing.T, mutate ...func(*config.Config)) (*Model, *pagerSpy) {
	t.Helper()
	cfg := config.DefaultConfig()
	for _, fn := range mutate {
		fn(cfg)
	}
	m := NewModel(&fakeCatalog{posts: testPosts()}, cfg, "en", nil)
	spy := &pagerSpy{}
	m.showFn = spy.show
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, spy
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(runes(string(r)))
	}
}

// run executes a command and feeds its message back, one level deep
func run(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		m.Update(msg)
	}
}

func TestViewBeforeSize(t *testing.T) {
	m := NewModel(&fakeCatalog{}, config.DefaultConfig(), "en", nil)
	assert.Equal(t, "Loading...", m.View())
}

func TestHomeListsPosts(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()

	assert.Contains(t, view, "Hello World")
	assert.Contains(t, view, "2024-01-02")
	assert.Contains(t, view, "#intro")
	assert.Contains(t, view, "Go tips")
	assert.Contains(t, view, "press / to search")
}

func TestOpenKeysOpenSearch(t *testing.T) {
	for _, k := range []tea.KeyMsg{runes("/"), {Type: tea.KeyCtrlK}} {
		m, _ := newTestModel(t)
		m.Update(k)
		assert.True(t, m.IsSearchOpen(), k.String())
		assert.True(t, m.input.Focused())
	}
}

func TestEmptyAndNoResultStatesDiffer(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(runes("/"))

	assert.Contains(t, m.View(), "Type to search")
	assert.NotContains(t, m.View(), "No results")

	typeText(m, "zzz")
	assert.Contains(t, m.View(), `No results for "zzz"`)
	assert.NotContains(t, m.View(), "Type to search")

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Contains(t, m.View(), "Type to search")
}

func TestTypingSearchesAndRendersResults(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(runes("/"))
	typeText(m, "gophers")

	st := m.ctrl.State()
	assert.Equal(t, "gophers", st.Query)
	require.Len(t, st.Results, 2)

	view := m.View()
	assert.Contains(t, view, "/blog/hello-world#deep-dive")
	assert.Contains(t, view, "/blog/go-tips")
	assert.Contains(t, view, "2 results")
	assert.NotContains(t, view, "<mark>")
}

func TestEnterOpensPagerAtSection(t *testing.T) {
	m, spy := newTestModel(t)
	m.Update(runes("/"))
	typeText(m, "later section")

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 0, m.ctrl.State().ActiveIndex)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, m.IsSearchOpen())
	assert.True(t, m.inPager)
	assert.Empty(t, m.View())

	run(m, cmd)
	require.Len(t, spy.contents, 1)
	page := spy.contents[0]
	assert.True(t, strings.HasPrefix(page, "/blog/hello-world#deep-dive\n"))
	assert.Contains(t, page, "Deep Dive\nThe later section about gophers.")
	assert.NotContains(t, page, "Hello there friend.")
	assert.False(t, m.inPager)
}

func TestEscapeClosesAndDiscardsQuery(t *testing.T) {
	m, spy := newTestModel(t)
	m.Update(runes("/"))
	typeText(m, "go")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, m.IsSearchOpen())
	assert.Empty(t, m.input.Value())
	assert.False(t, m.input.Focused())
	assert.Empty(t, spy.contents)

	m.Update(runes("/"))
	assert.Contains(t, m.View(), "Type to search")
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	// inside the modal q is part of the query
	m.Update(runes("/"))
	_, cmd = m.Update(runes("q"))
	assert.Equal(t, "q", m.input.Value())
	if cmd != nil {
		assert.NotEqual(t, tea.QuitMsg{}, cmd())
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHomeEnterReadsPost(t *testing.T) {
	m, spy := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursor)
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursor, "clamped at the last post")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	run(m, cmd)
	require.Len(t, spy.contents, 1)
	assert.True(t, strings.HasPrefix(spy.contents[0], "/blog/go-tips\n"))
}

func TestPagerErrorShowsStatus(t *testing.T) {
	m, spy := newTestModel(t)
	spy.err = errors.New("no tty")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	run(m, cmd)
	assert.Contains(t, m.View(), "no tty")

	m.Update(clearStatusMsg{})
	assert.NotContains(t, m.View(), "no tty")
}

func TestDebouncedQuery(t *testing.T) {
	m, _ := newTestModel(t, func(c *config.Config) { c.UISettings.DebounceMs = 50 })
	m.Update(runes("/"))

	_, first := m.Update(runes("g"))
	_, second := m.Update(runes("o"))
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Empty(t, m.ctrl.State().Query, "nothing runs before the delay")

	// a superseded tick is ignored
	m.Update(findDebounce(first))
	assert.Empty(t, m.ctrl.State().Query)

	m.Update(findDebounce(second))
	assert.Equal(t, "go", m.ctrl.State().Query)
	assert.NotEmpty(t, m.ctrl.State().Results)
}

func TestDebounceCancelledOnClose(t *testing.T) {
	m, _ := newTestModel(t, func(c *config.Config) { c.UISettings.DebounceMs = 50 })
	m.Update(runes("/"))
	_, cmd := m.Update(runes("g"))
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m.Update(runes("/"))

	m.Update(findDebounce(cmd))
	assert.Empty(t, m.ctrl.State().Query)
}

// findDebounce runs a (possibly batched) command and returns its debounce tick
func findDebounce(cmd tea.Cmd) tea.Msg {
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if d, ok := c().(debounceMsg); ok {
				return d
			}
		}
		return nil
	}
	return msg
}

func TestCorpusReloadRefreshesOpenSession(t *testing.T) {
	cat := &fakeCatalog{posts: testPosts()[:1]}
	m := NewModel(cat, config.DefaultConfig(), "en", nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Update(runes("/"))
	typeText(m, "tips")
	assert.Empty(t, m.ctrl.State().Results)

	cat.posts = testPosts()
	m.Update(EventMsg{Event: domain.CorpusReloadedEvent{Locale: "de", Posts: 2}})
	assert.Empty(t, m.ctrl.State().Results, "other locale")

	m.Update(EventMsg{Event: domain.CorpusReloadedEvent{Locale: "en", Posts: 2, Version: 2}})
	assert.Len(t, m.ctrl.State().Results, 1)
	assert.Contains(t, m.View(), "Content reloaded: 2 posts")
}

func TestResultWindowFollowsSelection(t *testing.T) {
	posts := make([]domain.PostRecord, 6)
	for i := range posts {
		posts[i] = domain.PostRecord{
			Metadata:  domain.PostMetadata{Slug: string(rune('a' + i)), Title: "Post"},
			PlainText: "match",
		}
	}
	cfg := config.DefaultConfig()
	cfg.UISettings.MaxRows = 2
	m := NewModel(&fakeCatalog{posts: posts}, cfg, "en", nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Update(runes("/"))
	typeText(m, "match")
	require.Len(t, m.ctrl.State().Results, 6)
	assert.Contains(t, m.View(), "1–2 of 6 results")

	for range 3 {
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 2, m.ctrl.State().ActiveIndex)
	assert.Equal(t, 1, m.surface.offset)
	assert.Contains(t, m.View(), "2–3 of 6 results")

	// wrap to the top pulls the window back
	for range 4 {
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 0, m.ctrl.State().ActiveIndex)
	assert.Equal(t, 0, m.surface.offset)
}

func TestRenderMarked(t *testing.T) {
	wrap := func(s string) string { return "[" + s + "]" }
	assert.Equal(t, "a [b] c [d]", renderMarked("a <mark>b</mark> c <mark>d</mark>", "<mark>", "</mark>", wrap))
	assert.Equal(t, "x <mark>y", renderMarked("x <mark>y", "<mark>", "</mark>", wrap))
	assert.Equal(t, "plain", renderMarked("plain", "", "", wrap))
}

func TestResolveTarget(t *testing.T) {
	posts := testPosts()

	req, err := resolveTarget(posts, "/blog/hello-world#deep-dive")
	require.NoError(t, err)
	assert.Equal(t, posts[0].Headings[1].Offset, req.offset)

	req, err = resolveTarget(posts, "/blog/go-tips")
	require.NoError(t, err)
	assert.Equal(t, 0, req.offset)

	_, err = resolveTarget(posts, "/blog/missing")
	assert.Error(t, err)
}

func TestHelpOpensInPager(t *testing.T) {
	m, spy := newTestModel(t)

	_, cmd := m.Update(runes("?"))
	require.NotNil(t, cmd)
	assert.Empty(t, m.View(), "the pager owns the screen")
	run(m, cmd)

	require.Len(t, spy.contents, 1)
	page := spy.contents[0]
	assert.Contains(t, page, "blogsearch help")
	assert.Contains(t, page, "Browsing")
	assert.Contains(t, page, "previous")
	assert.Contains(t, page, "/blog/{slug}#{section}")
	assert.False(t, m.IsSearchOpen())
	assert.NotEmpty(t, m.View())
}
