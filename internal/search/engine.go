package search

import (
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"blogsearch/internal/domain"
)

// Corpus supplies the current posts and a version that changes whenever
// the posts change
type Corpus interface {
	Snapshot() ([]domain.PostRecord, uint64)
}

// Observer receives one call per Engine.Search
type Observer interface {
	ObserveSearch(cacheHit bool, results int, elapsed time.Duration)
}

type cacheKey struct {
	query   string
	version uint64
}

// Engine runs Search against a Corpus, memoizing results per
// (query, corpus version). Returned slices are shared between callers
// and must be treated as read-only.
type Engine struct {
	corpus   Corpus
	opts     Options
	cache    *lru.Cache[cacheKey, []domain.SearchResult]
	observer Observer

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewEngine creates an engine. cacheSize <= 0 disables memoization.
func NewEngine(corpus Corpus, opts Options, cacheSize int) *Engine {
	e := &Engine{corpus: corpus, opts: opts}
	if cacheSize > 0 {
		// lru.New only fails for a non-positive size
		e.cache, _ = lru.New[cacheKey, []domain.SearchResult](cacheSize)
	}
	return e
}

// SetObserver installs an observer, typically metrics
func (e *Engine) SetObserver(o Observer) {
	e.observer = o
}

// Options returns the engine's excerpt and highlight options
func (e *Engine) Options() Options {
	return e.opts
}

// Search matches query against the current corpus snapshot
func (e *Engine) Search(query string) []domain.SearchResult {
	start := time.Now()
	posts, version := e.corpus.Snapshot()

	if e.cache == nil {
		results := Search(query, posts, e.opts)
		e.observe(false, len(results), start)
		return results
	}

	key := cacheKey{query: query, version: version}
	if results, ok := e.cache.Get(key); ok {
		e.hits.Add(1)
		e.observe(true, len(results), start)
		return results
	}

	results := Search(query, posts, e.opts)
	e.cache.Add(key, results)
	e.misses.Add(1)
	e.observe(false, len(results), start)
	return results
}

// Stats returns cache hit and miss counts
func (e *Engine) Stats() (hits, misses uint64) {
	return e.hits.Load(), e.misses.Load()
}

// Purge drops all memoized results
func (e *Engine) Purge() {
	if e.cache != nil {
		e.cache.Purge()
	}
}

func (e *Engine) observe(hit bool, n int, start time.Time) {
	if e.observer != nil {
		e.observer.ObserveSearch(hit, n, time.Since(start))
	}
}

// StaticCorpus is a fixed corpus with version 0
type StaticCorpus []domain.PostRecord

// Snapshot implements Corpus
func (c StaticCorpus) Snapshot() ([]domain.PostRecord, uint64) {
	return c, 0
}
