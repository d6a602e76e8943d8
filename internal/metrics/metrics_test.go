package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogsearch/internal/domain"
	"blogsearch/internal/eventbus"
)

func TestObserveSearch(t *testing.T) {
	m := New()

	m.ObserveSearch(false, 3, time.Millisecond)
	m.ObserveSearch(true, 3, time.Microsecond)
	m.ObserveSearch(false, 0, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchQueriesTotal.WithLabelValues("zero_result")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.SearchLatency))
}

func TestCorpusEvents(t *testing.T) {
	m := New()
	bus := eventbus.NewSync()
	unsubscribe := m.Subscribe(bus)

	m.SetCorpusSize(map[string]int{"en": 4, "de": 1})
	bus.Publish(domain.CorpusReloadedEvent{Locale: "de", Posts: 2, Version: 2})

	assert.Equal(t, 4.0, testutil.ToFloat64(m.CorpusPosts.WithLabelValues("en")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CorpusPosts.WithLabelValues("de")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CorpusReloadsTotal.WithLabelValues("de")))

	unsubscribe()
	bus.Publish(domain.CorpusReloadedEvent{Locale: "de", Posts: 9, Version: 3})
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CorpusPosts.WithLabelValues("de")))
}

func TestInstancesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveSearch(false, 1, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "blogsearch_search_queries_total")
	assert.Contains(t, string(body), "go_goroutines")
}
