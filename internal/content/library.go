package content

import (
	"context"
	"slices"
	"sort"
	"sync"
	"sync/atomic"

	"blogsearch/internal/domain"
	"blogsearch/internal/eventbus"
)

// Corpus holds one locale's posts. Readers get an immutable snapshot and
// the version it was stored under; Replace bumps the version.
type Corpus struct {
	locale  string
	posts   atomic.Pointer[[]domain.PostRecord]
	version atomic.Uint64
}

func newCorpus(locale string) *Corpus {
	c := &Corpus{locale: locale}
	empty := []domain.PostRecord{}
	c.posts.Store(&empty)
	return c
}

// Locale of the corpus
func (c *Corpus) Locale() string { return c.locale }

// Snapshot returns the current posts and their version
func (c *Corpus) Snapshot() ([]domain.PostRecord, uint64) {
	// version is loaded first so a concurrent Replace can only make the
	// pair look older than the posts, never newer
	v := c.version.Load()
	return *c.posts.Load(), v
}

// Len returns the number of posts
func (c *Corpus) Len() int { return len(*c.posts.Load()) }

// Replace swaps in a new post list
func (c *Corpus) Replace(posts []domain.PostRecord) uint64 {
	cp := slices.Clone(posts)
	if cp == nil {
		cp = []domain.PostRecord{}
	}
	c.posts.Store(&cp)
	return c.version.Add(1)
}

// Library owns the per-locale corpora for a content tree
type Library struct {
	loader *Loader
	bus    eventbus.EventBus

	mu       sync.RWMutex
	corpora  map[string]*Corpus
	problems []error
	loads    int
}

// NewLibrary creates a library for the loader's locales. bus may be nil.
func NewLibrary(loader *Loader, bus eventbus.EventBus) *Library {
	lib := &Library{
		loader:  loader,
		bus:     bus,
		corpora: make(map[string]*Corpus),
	}
	for _, loc := range loader.locales() {
		lib.corpora[loc] = newCorpus(loc)
	}
	return lib
}

// Load reads the content tree and replaces every corpus. The first call
// publishes CorpusLoaded, later calls publish CorpusReloaded per locale.
func (l *Library) Load(ctx context.Context) error {
	res, err := l.loader.Load(ctx)
	if err != nil {
		if l.bus != nil {
			l.bus.Publish(domain.ErrorEvent{Message: "load content", Err: err})
		}
		return err
	}

	l.mu.Lock()
	l.problems = res.Problems
	first := l.loads == 0
	l.loads++
	type reloaded struct {
		locale  string
		posts   int
		version uint64
	}
	var changes []reloaded
	total := 0
	for _, loc := range l.loader.locales() {
		c, ok := l.corpora[loc]
		if !ok {
			c = newCorpus(loc)
			l.corpora[loc] = c
		}
		posts := res.Posts[loc]
		changes = append(changes, reloaded{loc, len(posts), c.Replace(posts)})
		total += len(posts)
	}
	l.mu.Unlock()

	if l.bus == nil {
		return nil
	}
	if first {
		l.bus.Publish(domain.CorpusLoadedEvent{Locales: l.Locales(), Posts: total})
		return nil
	}
	for _, ch := range changes {
		l.bus.Publish(domain.CorpusReloadedEvent{Locale: ch.locale, Posts: ch.posts, Version: ch.version})
	}
	return nil
}

// Corpus returns the corpus for locale, falling back to the default locale
func (l *Library) Corpus(locale string) *Corpus {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if c, ok := l.corpora[locale]; ok {
		return c
	}
	return l.corpora[l.loader.DefaultLocale]
}

// DefaultLocale of the content tree
func (l *Library) DefaultLocale() string { return l.loader.DefaultLocale }

// Locales returns the configured locales, default first
func (l *Library) Locales() []string {
	return l.loader.locales()
}

// Counts returns the post count per locale
func (l *Library) Counts() map[string]int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]int, len(l.corpora))
	for loc, c := range l.corpora {
		out[loc] = c.Len()
	}
	return out
}

// Problems from the most recent load
func (l *Library) Problems() []error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.problems)
}

// Posts returns the posts of every locale, sorted by locale then date
func (l *Library) Posts() []domain.PostRecord {
	locales := l.Locales()
	sort.Strings(locales[1:])
	var out []domain.PostRecord
	for _, loc := range locales {
		posts, _ := l.Corpus(loc).Snapshot()
		out = append(out, posts...)
	}
	return out
}
