// Package metrics defines the Prometheus collectors for search, content
// reloads and the HTTP API, and exposes a handler for scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"blogsearch/internal/domain"
	"blogsearch/internal/eventbus"
)

const namespace = "blogsearch"

// Metrics holds every collector. Each instance owns its registry so tests
// and multiple servers do not collide on the default one.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	SearchQueriesTotal   *prometheus.CounterVec
	SearchLatency        *prometheus.HistogramVec
	SearchResultsCount   prometheus.Histogram
	CorpusPosts          *prometheus.GaugeVec
	CorpusReloadsTotal   *prometheus.CounterVec
}

// New creates and registers all collectors, plus the Go and process
// collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds.",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "HTTP requests currently being served.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_queries_total",
				Help:      "Search queries by result type (hit, miss, zero_result).",
			},
			[]string{"result_type"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_latency_seconds",
				Help:      "Search latency in seconds.",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"cache_status"},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_results_count",
				Help:      "Results returned per search.",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
			},
		),
		CorpusPosts: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "corpus_posts",
				Help:      "Posts in the corpus per locale.",
			},
			[]string{"locale"},
		),
		CorpusReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "corpus_reloads_total",
				Help:      "Content reloads by locale.",
			},
			[]string{"locale"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.CorpusPosts,
		m.CorpusReloadsTotal,
	)

	return m
}

// Registry backing this instance
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the scrape handler for this instance's registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveSearch records one engine search
func (m *Metrics) ObserveSearch(cacheHit bool, results int, elapsed time.Duration) {
	status := "miss"
	if cacheHit {
		status = "hit"
	}
	resultType := status
	if results == 0 {
		resultType = "zero_result"
	}
	m.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	m.SearchLatency.WithLabelValues(status).Observe(elapsed.Seconds())
	m.SearchResultsCount.Observe(float64(results))
}

// SetCorpusSize sets the post gauge for each locale
func (m *Metrics) SetCorpusSize(counts map[string]int) {
	for loc, n := range counts {
		m.CorpusPosts.WithLabelValues(loc).Set(float64(n))
	}
}

// Subscribe keeps the corpus collectors current from content events.
// The returned function detaches the subscription.
func (m *Metrics) Subscribe(bus eventbus.EventBus) func() {
	return bus.Subscribe(domain.EventCorpusReloaded, func(e eventbus.DomainEvent) {
		ev, ok := e.(domain.CorpusReloadedEvent)
		if !ok {
			return
		}
		m.CorpusReloadsTotal.WithLabelValues(ev.Locale).Inc()
		m.CorpusPosts.WithLabelValues(ev.Locale).Set(float64(ev.Posts))
	})
}
