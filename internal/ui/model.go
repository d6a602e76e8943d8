package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"blogsearch/internal/anchor"
	"blogsearch/internal/config"
	"blogsearch/internal/domain"
	"blogsearch/internal/eventbus"
	"blogsearch/internal/logging"
	"blogsearch/internal/search"
	"blogsearch/internal/session"
)

// Catalog is the searchable blog the UI browses
type Catalog interface {
	Search(locale, query string) []domain.SearchResult
	Posts(locale string) []domain.PostRecord
	BasePath() string
}

// Model represents the UI state
type Model struct {
	catalog Catalog
	config  *config.Config
	locale  string
	styles  *Styles
	logger  *slog.Logger

	// search session
	keys     eventbus.EventBus // synchronous, feeds the controller
	ctrl     *session.Controller
	debounce *session.Debouncer
	input    textinput.Model
	surface  *modal
	pending  *pagerRequest // set by the navigator during a key press

	// home list
	cursor int
	home   viewport

	width      int
	height     int
	help       help.Model
	homeKeys   homeKeys
	searchKeys searchKeys
	status     string
	statusErr  bool

	inPager bool
	pager   *terminalPager
	showFn  func(content string) error
}

// NewModel creates a new UI model for one locale. events receives session
// events and may be nil.
func NewModel(catalog Catalog, cfg *config.Config, locale string, events eventbus.EventBus) *Model {
	styles := NewStyles()

	ti := textinput.New()
	ti.Placeholder = "Search posts"
	ti.Prompt = "› "
	ti.PromptStyle = styles.Prompt
	ti.CharLimit = 200

	m := &Model{
		catalog:    catalog,
		config:     cfg,
		locale:     locale,
		styles:     styles,
		logger:     logging.WithComponent("ui"),
		keys:       eventbus.NewSync(),
		debounce:   session.NewDebouncer(time.Duration(cfg.UISettings.DebounceMs) * time.Millisecond),
		input:      ti,
		help:       help.New(),
		homeKeys:   newHomeKeys(cfg.UISettings.OpenKeys),
		searchKeys: newSearchKeys(),
		pager:      &terminalPager{},
	}
	m.surface = &modal{input: &m.input}
	m.showFn = m.pager.show

	searcher := session.SearcherFunc(func(q string) []domain.SearchResult {
		return m.catalog.Search(m.locale, q)
	})
	opts := []session.Option{
		session.WithSurface(m.surface),
		session.WithBasePath(catalog.BasePath()),
	}
	if events != nil {
		opts = append(opts, session.WithEvents(events))
	}
	m.ctrl = session.NewController(searcher, session.NavigatorFunc(m.navigate), m.keys, opts...)
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.pager.program = p
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(10, msg.Width-16)
		m.surface.height = m.resultRows()
		m.home.height = m.homeRows()
		return m, nil

	case tea.KeyMsg:
		if m.inPager {
			return m, nil
		}
		if m.ctrl.IsOpen() {
			return m.updateSearch(msg)
		}
		return m.updateHome(msg)

	case debounceMsg:
		if m.debounce.Fire(msg.ticket) && m.ctrl.IsOpen() {
			m.setQuery(m.input.Value())
		}
		return m, nil

	case pagerDoneMsg:
		m.inPager = false
		if msg.err != nil {
			m.logger.Error("pager failed", "target", msg.target, "error", msg.err)
			return m, m.setStatus(fmt.Sprintf("Could not open %s: %v", msg.target, msg.err), true)
		}
		return m, nil

	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case clearStatusMsg:
		m.status = ""
		m.statusErr = false
		return m, nil
	}

	if m.ctrl.IsOpen() {
		// cursor blink
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	posts := m.catalog.Posts(m.locale)

	switch {
	case key.Matches(msg, m.homeKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.homeKeys.Open):
		m.surface.reset()
		m.ctrl.Open()
		return m, textinput.Blink

	case key.Matches(msg, m.homeKeys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.home.ScrollIntoView(m.cursor)
		}

	case key.Matches(msg, m.homeKeys.Down):
		if m.cursor < len(posts)-1 {
			m.cursor++
			m.home.ScrollIntoView(m.cursor)
		}

	case key.Matches(msg, m.homeKeys.Help):
		return m, m.runPager(helpTarget, helpContent(m.homeKeys, m.searchKeys, m.catalog.BasePath()))

	case key.Matches(msg, m.homeKeys.Read):
		if m.cursor < len(posts) {
			post := posts[m.cursor]
			return m, m.openPager(pagerRequest{
				target: anchor.PostPath(m.catalog.BasePath(), post.Metadata.Slug),
				post:   post,
			})
		}
	}
	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.searchKeys.Quit) {
		return m, tea.Quit
	}

	if k, ok := m.searchKeys.sessionKey(msg); ok {
		m.keys.Publish(domain.KeyPressedEvent{Key: k})
		return m, m.afterSessionKey()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		return m, tea.Batch(cmd, m.queryChanged(value))
	}
	return m, cmd
}

// afterSessionKey tears down the modal if the key closed the session and
// launches the pager if it navigated
func (m *Model) afterSessionKey() tea.Cmd {
	if m.ctrl.IsOpen() {
		return nil
	}
	m.input.Blur()
	m.surface.reset()
	m.debounce.Cancel()

	if m.pending == nil {
		return nil
	}
	req := *m.pending
	m.pending = nil
	return m.openPager(req)
}

func (m *Model) queryChanged(value string) tea.Cmd {
	if !m.debounce.Enabled() {
		m.setQuery(value)
		return nil
	}
	ticket := m.debounce.Schedule()
	return tea.Tick(m.debounce.Delay, func(time.Time) tea.Msg {
		return debounceMsg{ticket: ticket}
	})
}

func (m *Model) setQuery(value string) {
	m.surface.offset = 0
	m.ctrl.SetQuery(value)
}

// navigate is the session's navigator. It only records the request; the
// pager starts once the key press has been fully handled.
func (m *Model) navigate(target string) error {
	req, err := resolveTarget(m.catalog.Posts(m.locale), target)
	if err != nil {
		return err
	}
	m.pending = &req
	return nil
}

func (m *Model) openPager(req pagerRequest) tea.Cmd {
	return m.runPager(req.target, pagerContent(req))
}

func (m *Model) runPager(target, content string) tea.Cmd {
	m.inPager = true
	show := m.showFn
	return func() tea.Msg {
		return pagerDoneMsg{target: target, err: show(content)}
	}
}

func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case domain.CorpusReloadedEvent:
		if e.Locale != m.locale {
			return nil
		}
		if n := len(m.catalog.Posts(m.locale)); m.cursor >= n {
			m.cursor = max(0, n-1)
		}
		if m.ctrl.IsOpen() {
			m.surface.offset = 0
			m.ctrl.Refresh()
		}
		return m.setStatus(fmt.Sprintf("Content reloaded: %d posts", e.Posts), false)

	case domain.ErrorEvent:
		return m.setStatus(fmt.Sprintf("%s: %v", e.Message, e.Err), true)
	}
	return nil
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.status = text
	m.statusErr = isErr
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// resultRows is how many results fit in the modal, three lines each
func (m *Model) resultRows() int {
	rows := (m.height - 12) / 3
	if limit := m.config.UISettings.MaxRows; limit > 0 {
		rows = min(rows, limit)
	}
	return max(rows, 1)
}

func (m *Model) homeRows() int {
	return max(m.height-9, 1)
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.inPager {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("Blog · %s", m.locale)))
	b.WriteString("\n")

	if m.ctrl.IsOpen() {
		b.WriteString(m.viewSearch())
		b.WriteString("\n")
		b.WriteString(m.styles.Help.Render(m.help.View(m.searchKeys)))
	} else {
		b.WriteString(m.viewHome())
		b.WriteString("\n")
		b.WriteString(m.styles.Help.Render(m.help.View(m.homeKeys)))
	}

	if m.status != "" {
		style := m.styles.Status
		if m.statusErr {
			style = m.styles.StatusError
		}
		b.WriteString("\n")
		b.WriteString(style.Render(m.status))
	}

	return m.styles.Main.Render(b.String())
}

func (m *Model) viewHome() string {
	posts := m.catalog.Posts(m.locale)
	if len(posts) == 0 {
		return m.styles.Empty.Render("No posts yet.")
	}

	var lines []string
	start, end := m.home.visible(len(posts))
	for i := start; i < end; i++ {
		meta := posts[i].Metadata
		line := m.styles.ResultTitle.Render(meta.Title)
		if !meta.Date.IsZero() {
			line += "  " + m.styles.Date.Render(meta.Date.Format("2006-01-02"))
		}
		for _, tag := range meta.Tags {
			line += " " + m.styles.Tag.Render("#"+tag)
		}
		if i == m.cursor {
			line = m.styles.SelectionBg.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}

	hint := fmt.Sprintf("%d posts · press %s to search", len(posts), m.homeKeys.Open.Help().Key)
	lines = append(lines, "", m.styles.Dim.Render(hint))
	return strings.Join(lines, "\n")
}

func (m *Model) viewSearch() string {
	st := m.ctrl.State()

	var lines []string
	lines = append(lines, m.input.View(), "")

	switch {
	case strings.TrimSpace(st.Query) == "":
		lines = append(lines, m.styles.Empty.Render("Type to search"))

	case len(st.Results) == 0:
		lines = append(lines, m.styles.NoResults.Render(fmt.Sprintf("No results for %q", st.Query)))

	default:
		start, end := m.surface.visible(len(st.Results))
		for i := start; i < end; i++ {
			lines = append(lines, m.renderResult(st.Results[i], st.Query, i == st.ActiveIndex)...)
		}
		count := fmt.Sprintf("%d results", len(st.Results))
		if len(st.Results) == 1 {
			count = "1 result"
		}
		if end-start < len(st.Results) {
			count = fmt.Sprintf("%d–%d of %d results", start+1, end, len(st.Results))
		}
		lines = append(lines, m.styles.Scroll.Render(count))
	}

	return m.styles.Modal.Width(max(20, m.width-8)).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderResult(r domain.SearchResult, query string, selected bool) []string {
	mark := func(s string) string { return m.styles.Match.Render(s) }
	title := search.Highlight(r.Title, query, mark)
	excerpt := renderMarked(r.HighlightedExcerpt, m.config.Search.MarkOpen, m.config.Search.MarkClose, mark)
	link := m.styles.Link.Render(anchor.Target(m.catalog.BasePath(), r))

	marker := "  "
	if selected {
		marker = "▸ "
		title = m.styles.SelectionBg.Render(m.styles.ResultTitle.Render(title))
	} else {
		title = m.styles.ResultTitle.Render(title)
	}
	return []string{
		marker + title,
		"  " + lipgloss.NewStyle().MaxWidth(max(20, m.width-14)).Render(excerpt),
		"  " + link,
	}
}

// IsSearchOpen reports whether the search modal is showing
func (m *Model) IsSearchOpen() bool {
	return m.ctrl.IsOpen()
}
