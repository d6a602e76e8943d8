// Package session implements the interactive search session: query state,
// result selection, keyboard navigation and deep-link navigation.
//
// The controller is single-threaded. All methods must be called from the
// goroutine that owns the UI event loop.
package session

import (
	"log/slog"

	"blogsearch/internal/anchor"
	"blogsearch/internal/domain"
	"blogsearch/internal/eventbus"
)

// Controller owns one search surface's state
type Controller struct {
	searcher  Searcher
	navigator Navigator
	surface   Surface
	keys      eventbus.EventBus // global key presses, must dispatch synchronously
	events    eventbus.EventBus // optional outbound domain events
	basePath  string
	logger    *slog.Logger

	phase       Phase
	state       State
	generation  uint64
	unsubscribe []func()
}

// Option configures a Controller
type Option func(*Controller)

// WithEvents publishes session events on bus
func WithEvents(bus eventbus.EventBus) Option {
	return func(c *Controller) { c.events = bus }
}

// WithBasePath sets the prefix of navigation targets
func WithBasePath(basePath string) Option {
	return func(c *Controller) { c.basePath = basePath }
}

// WithSurface sets the surface receiving focus and scroll requests
func WithSurface(s Surface) Option {
	return func(c *Controller) { c.surface = s }
}

// NewController creates a closed session. keys delivers
// domain.KeyPressedEvent while the session is open.
func NewController(searcher Searcher, navigator Navigator, keys eventbus.EventBus, opts ...Option) *Controller {
	c := &Controller{
		searcher:  searcher,
		navigator: navigator,
		keys:      keys,
		basePath:  anchor.DefaultBasePath,
		logger:    slog.Default().With("component", "session"),
		state:     emptyState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open starts a fresh session. Opening an open session restarts it.
func (c *Controller) Open() {
	if c.phase == PhaseOpen {
		c.detach()
	}

	c.phase = PhaseOpen
	c.state = emptyState()
	c.generation++

	if c.keys != nil {
		c.unsubscribe = append(c.unsubscribe,
			c.keys.Subscribe(domain.EventKeyPressed, c.onKey))
	}
	if c.surface != nil {
		c.surface.Focus()
	}

	c.logger.Debug("search opened")
	c.publish(domain.SearchOpenedEvent{})
}

// Close ends the session, discarding all state and key listeners
func (c *Controller) Close() {
	c.close(false)
}

func (c *Controller) close(navigated bool) {
	if c.phase == PhaseClosed {
		return
	}
	c.detach()
	c.phase = PhaseClosed
	c.state = emptyState()
	c.generation++

	c.logger.Debug("search closed", "navigated", navigated)
	c.publish(domain.SearchClosedEvent{Navigated: navigated})
}

func (c *Controller) detach() {
	for _, unsub := range c.unsubscribe {
		unsub()
	}
	c.unsubscribe = nil
}

// SetQuery replaces the query and recomputes results. Ignored when closed.
func (c *Controller) SetQuery(query string) {
	if c.phase != PhaseOpen {
		return
	}
	c.generation++
	c.state.Query = query
	c.publish(domain.QueryChangedEvent{Query: query})
	c.recompute()
}

// Refresh recomputes results for the current query after the corpus changed
func (c *Controller) Refresh() {
	if c.phase != PhaseOpen {
		return
	}
	c.recompute()
}

func (c *Controller) recompute() {
	c.state.Results = c.searcher.Search(c.state.Query)
	c.setActive(-1)
	c.publish(domain.ResultsUpdatedEvent{Query: c.state.Query, Count: len(c.state.Results)})
}

// HandleKey applies a navigation key and reports whether it was consumed
func (c *Controller) HandleKey(key domain.Key) bool {
	if c.phase != PhaseOpen {
		return false
	}

	n := len(c.state.Results)
	switch key {
	case domain.KeyArrowDown:
		if n > 0 {
			c.setActive((c.state.ActiveIndex + 1) % n)
		}
	case domain.KeyArrowUp:
		if n > 0 {
			// from -1 or 0 wrap to the last result
			i := max(c.state.ActiveIndex, 0)
			c.setActive((i - 1 + n) % n)
		}
	case domain.KeyEnter:
		c.activate()
	case domain.KeyEscape:
		c.close(false)
	default:
		return false
	}
	return true
}

func (c *Controller) onKey(e eventbus.DomainEvent) {
	if ev, ok := e.(domain.KeyPressedEvent); ok {
		c.HandleKey(ev.Key)
	}
}

func (c *Controller) activate() {
	i := c.state.ActiveIndex
	if i < 0 || i >= len(c.state.Results) {
		return
	}

	target := anchor.Target(c.basePath, c.state.Results[i])
	c.publish(domain.NavigationRequestedEvent{Target: target})
	if c.navigator != nil {
		if err := c.navigator.Navigate(target); err != nil {
			c.logger.Warn("navigation failed", "target", target, "error", err)
		}
	}
	c.close(true)
}

func (c *Controller) setActive(index int) {
	old := c.state.ActiveIndex
	c.state.ActiveIndex = index
	if old == index {
		return
	}
	if index >= 0 && c.surface != nil {
		c.surface.ScrollIntoView(index)
	}
	c.publish(domain.SelectionChangedEvent{OldIndex: old, NewIndex: index})
}

// Phase returns whether the session is open
func (c *Controller) Phase() Phase {
	return c.phase
}

// IsOpen reports whether the session is open
func (c *Controller) IsOpen() bool {
	return c.phase == PhaseOpen
}

// State returns the current state. Results must not be modified.
func (c *Controller) State() State {
	return c.state
}

// Active returns the selected result, if any
func (c *Controller) Active() (domain.SearchResult, bool) {
	i := c.state.ActiveIndex
	if i < 0 || i >= len(c.state.Results) {
		return domain.SearchResult{}, false
	}
	return c.state.Results[i], true
}

// Generation changes on every open, close and query edit. A deferred
// recomputation scheduled at generation g is stale once Generation() != g.
func (c *Controller) Generation() uint64 {
	return c.generation
}

func (c *Controller) publish(e domain.DomainEvent) {
	if c.events != nil {
		c.events.Publish(e)
	}
}
