package session

import "blogsearch/internal/domain"

// Phase is the open/closed state of the search surface
type Phase int

const (
	PhaseClosed Phase = iota
	PhaseOpen
)

func (p Phase) String() string {
	if p == PhaseOpen {
		return "open"
	}
	return "closed"
}

// State holds the interactive search state of one session
type State struct {
	Query       string
	Results     []domain.SearchResult
	ActiveIndex int // -1 when nothing is selected
}

func emptyState() State {
	return State{ActiveIndex: -1}
}

// Searcher runs the match engine against the current corpus
type Searcher interface {
	Search(query string) []domain.SearchResult
}

// Navigator hands a target path such as /blog/{slug}#{heading} to the host
type Navigator interface {
	Navigate(target string) error
}

// Surface is the visual side of the session
type Surface interface {
	// Focus requests input focus for the query field
	Focus()
	// ScrollIntoView brings result row index into the list viewport,
	// moving the viewport by the smallest amount
	ScrollIntoView(index int)
}

// SearcherFunc adapts a function to Searcher
type SearcherFunc func(query string) []domain.SearchResult

func (f SearcherFunc) Search(query string) []domain.SearchResult { return f(query) }

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(target string) error

func (f NavigatorFunc) Navigate(target string) error { return f(target) }
