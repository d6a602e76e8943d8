// Package catalog ties the content library to one search engine per locale.
package catalog

import (
	"context"
	"sync"

	"blogsearch/internal/config"
	"blogsearch/internal/content"
	"blogsearch/internal/domain"
	"blogsearch/internal/eventbus"
	"blogsearch/internal/search"
)

// Catalog is the searchable blog
type Catalog struct {
	lib       *content.Library
	opts      search.Options
	cacheSize int
	basePath  string
	observer  search.Observer

	mu      sync.Mutex
	engines map[string]*search.Engine
}

// New builds a catalog from configuration. bus receives content events
// and may be nil.
func New(cfg *config.Config, bus eventbus.EventBus) *Catalog {
	loader := &content.Loader{
		Dir:           cfg.ContentDir,
		DefaultLocale: cfg.DefaultLocale,
		Locales:       cfg.Locales,
		IncludeDrafts: cfg.IncludeDrafts,
	}
	return &Catalog{
		lib:       content.NewLibrary(loader, bus),
		opts:      search.OptionsFromConfig(cfg.Search),
		cacheSize: cfg.Search.CacheSize,
		basePath:  cfg.BasePath,
		engines:   make(map[string]*search.Engine),
	}
}

// SetObserver installs a search observer on current and future engines
func (c *Catalog) SetObserver(o search.Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = o
	for _, e := range c.engines {
		e.SetObserver(o)
	}
}

// Load reads or rereads the content tree
func (c *Catalog) Load(ctx context.Context) error {
	return c.lib.Load(ctx)
}

// Library backing the catalog
func (c *Catalog) Library() *content.Library { return c.lib }

// BasePath prefixes post links
func (c *Catalog) BasePath() string { return c.basePath }

// Locales available, default first
func (c *Catalog) Locales() []string { return c.lib.Locales() }

// DefaultLocale of the content
func (c *Catalog) DefaultLocale() string { return c.lib.DefaultLocale() }

// Engine returns the engine for locale, creating it on first use.
// Unknown locales share the default locale's engine.
func (c *Catalog) Engine(locale string) *search.Engine {
	corpus := c.lib.Corpus(locale)

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.engines[corpus.Locale()]; ok {
		return e
	}
	e := search.NewEngine(corpus, c.opts, c.cacheSize)
	if c.observer != nil {
		e.SetObserver(c.observer)
	}
	c.engines[corpus.Locale()] = e
	return e
}

// Search runs query against one locale
func (c *Catalog) Search(locale, query string) []domain.SearchResult {
	return c.Engine(locale).Search(query)
}

// Posts of one locale, newest first
func (c *Catalog) Posts(locale string) []domain.PostRecord {
	posts, _ := c.lib.Corpus(locale).Snapshot()
	return posts
}

// Counts returns the post count per locale
func (c *Catalog) Counts() map[string]int { return c.lib.Counts() }

// Problems from the last load
func (c *Catalog) Problems() []error { return c.lib.Problems() }
