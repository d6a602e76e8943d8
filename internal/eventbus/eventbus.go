package eventbus

import (
	"log/slog"
	"runtime/debug"
	"sync"

	"blogsearch/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	sync      bool
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
	logger    *slog.Logger
}

// New creates an asynchronous event bus. Events are queued and delivered
// by a dispatcher goroutine, each handler in its own goroutine.
func New() EventBus {
	b := newBus(false)
	b.eventChan = make(chan DomainEvent, 1000)

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// NewSync creates a bus that calls handlers on the publisher's goroutine,
// in subscription order, before Publish returns.
func NewSync() EventBus {
	return newBus(true)
}

func newBus(syncDispatch bool) *bus {
	return &bus{
		handlers: make(map[EventType][]subscription),
		sync:     syncDispatch,
		quit:     make(chan struct{}),
		logger:   slog.Default().With("component", "eventbus"),
	}
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	// Key presses are too frequent to log
	if event.Type() != domain.EventKeyPressed {
		b.logger.Debug("publishing event", "type", event.Type())
	}

	if b.sync {
		for _, h := range b.snapshot(event.Type()) {
			b.call(h, event)
		}
		return
	}

	select {
	case <-b.quit:
		return
	default:
	}

	select {
	case b.eventChan <- event:
	default:
		b.logger.Warn("event bus channel full, dropping event", "type", event.Type())
	}
}

// Subscribe subscribes to events of a specific type.
// Returns an unsubscribe function; calling it more than once is a no-op.
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		if len(b.handlers[eventType]) == 0 {
			delete(b.handlers, eventType)
		}
	}
}

// Close stops the dispatcher. Queued events are discarded.
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
	})
	b.wg.Wait()
}

// SubscriberCount returns the number of handlers registered for an event type
func SubscriberCount(b EventBus, eventType EventType) int {
	impl, ok := b.(*bus)
	if !ok {
		return -1
	}
	impl.mu.RLock()
	defer impl.mu.RUnlock()
	return len(impl.handlers[eventType])
}

func (b *bus) snapshot(eventType EventType) []EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	subs := b.handlers[eventType]
	out := make([]EventHandler, len(subs))
	for i, s := range subs {
		out[i] = s.handler
	}
	return out
}

func (b *bus) call(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panic", "type", event.Type(), "panic", r, "stack", string(debug.Stack()))
		}
	}()
	h(event)
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			for _, handler := range b.snapshot(event.Type()) {
				// Call handler in a goroutine to avoid blocking
				go b.call(handler, event)
			}

		case <-b.quit:
			// Drain remaining events
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}
