package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventCorpusLoaded        EventType = "CorpusLoaded"
	EventCorpusReloaded      EventType = "CorpusReloaded"
	EventError               EventType = "Error"
	EventKeyPressed          EventType = "KeyPressed"
	EventSearchOpened        EventType = "SearchOpened"
	EventSearchClosed        EventType = "SearchClosed"
	EventQueryChanged        EventType = "QueryChanged"
	EventResultsUpdated      EventType = "ResultsUpdated"
	EventSelectionChanged    EventType = "SelectionChanged"
	EventNavigationRequested EventType = "NavigationRequested"
	EventConfigLoaded        EventType = "ConfigLoaded"
	EventConfigSaved         EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// CorpusLoadedEvent is emitted after the initial content load
type CorpusLoadedEvent struct {
	Locales []string
	Posts   int
}

func (e CorpusLoadedEvent) Type() EventType { return EventCorpusLoaded }

// CorpusReloadedEvent is emitted when the watcher rebuilt a locale's corpus
type CorpusReloadedEvent struct {
	Locale  string
	Posts   int
	Version uint64
}

func (e CorpusReloadedEvent) Type() EventType { return EventCorpusReloaded }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// Key is a navigation key understood by the search session
type Key string

const (
	KeyArrowUp   Key = "ArrowUp"
	KeyArrowDown Key = "ArrowDown"
	KeyEnter     Key = "Enter"
	KeyEscape    Key = "Escape"
)

// KeyPressedEvent carries a global key press
type KeyPressedEvent struct {
	Key Key
}

func (e KeyPressedEvent) Type() EventType { return EventKeyPressed }

// SearchOpenedEvent is emitted when the search surface opens
type SearchOpenedEvent struct{}

func (e SearchOpenedEvent) Type() EventType { return EventSearchOpened }

// SearchClosedEvent is emitted when the search surface closes
type SearchClosedEvent struct {
	Navigated bool
}

func (e SearchClosedEvent) Type() EventType { return EventSearchClosed }

// QueryChangedEvent is emitted when the query text changes
type QueryChangedEvent struct {
	Query string
}

func (e QueryChangedEvent) Type() EventType { return EventQueryChanged }

// ResultsUpdatedEvent is emitted after results are recomputed
type ResultsUpdatedEvent struct {
	Query string
	Count int
}

func (e ResultsUpdatedEvent) Type() EventType { return EventResultsUpdated }

// SelectionChangedEvent is emitted when the active result changes
type SelectionChangedEvent struct {
	OldIndex int
	NewIndex int
}

func (e SelectionChangedEvent) Type() EventType { return EventSelectionChanged }

// NavigationRequestedEvent is emitted before the session navigates away
type NavigationRequestedEvent struct {
	Target string
}

func (e NavigationRequestedEvent) Type() EventType { return EventNavigationRequested }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
