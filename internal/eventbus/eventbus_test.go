package eventbus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogsearch/internal/domain"
)

func TestSyncBusDeliversInOrder(t *testing.T) {
	b := NewSync()
	defer b.Close()

	var got []string
	b.Subscribe(domain.EventKeyPressed, func(e DomainEvent) {
		got = append(got, "first:"+string(e.(domain.KeyPressedEvent).Key))
	})
	b.Subscribe(domain.EventKeyPressed, func(e DomainEvent) {
		got = append(got, "second:"+string(e.(domain.KeyPressedEvent).Key))
	})

	b.Publish(domain.KeyPressedEvent{Key: domain.KeyArrowDown})

	assert.Equal(t, []string{"first:ArrowDown", "second:ArrowDown"}, got)
}

func TestUnsubscribeRemovesOnlyThatHandler(t *testing.T) {
	b := NewSync()
	defer b.Close()

	var a, c int
	unsubA := b.Subscribe(domain.EventKeyPressed, func(DomainEvent) { a++ })
	b.Subscribe(domain.EventKeyPressed, func(DomainEvent) { c++ })
	require.Equal(t, 2, SubscriberCount(b, domain.EventKeyPressed))

	unsubA()
	unsubA()
	assert.Equal(t, 1, SubscriberCount(b, domain.EventKeyPressed))

	b.Publish(domain.KeyPressedEvent{Key: domain.KeyEnter})
	assert.Equal(t, 0, a)
	assert.Equal(t, 1, c)
}

func TestSyncBusRecoversPanics(t *testing.T) {
	b := NewSync()
	defer b.Close()

	called := false
	b.Subscribe(domain.EventError, func(DomainEvent) { panic("boom") })
	b.Subscribe(domain.EventError, func(DomainEvent) { called = true })

	assert.NotPanics(t, func() { b.Publish(domain.ErrorEvent{Message: "x"}) })
	assert.True(t, called)
}

func TestAsyncBusDelivers(t *testing.T) {
	b := New()
	defer b.Close()

	received := make(chan domain.CorpusReloadedEvent, 1)
	b.Subscribe(domain.EventCorpusReloaded, func(e DomainEvent) {
		received <- e.(domain.CorpusReloadedEvent)
	})

	b.Publish(domain.CorpusReloadedEvent{Locale: "en", Posts: 3, Version: 2})

	select {
	case e := <-received:
		assert.Equal(t, "en", e.Locale)
		assert.Equal(t, uint64(2), e.Version)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	b := New()
	b.Close()

	assert.NotPanics(t, func() { b.Publish(domain.SearchOpenedEvent{}) })
}
