package ui

import (
	"blogsearch/internal/eventbus"
	"blogsearch/internal/session"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// debounceMsg delivers a deferred query recomputation
type debounceMsg struct {
	ticket session.Ticket
}

// pagerDoneMsg is sent when the pager exits
type pagerDoneMsg struct {
	target string
	err    error
}

// clearStatusMsg clears the status line
type clearStatusMsg struct{}
