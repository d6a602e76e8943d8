package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"blogsearch/internal/domain"
)

// ErrNoContentDir is returned when the content directory cannot be read
var ErrNoContentDir = errors.New("content directory not readable")

// Loader reads post files from a content tree.
//
// Files directly under Dir, or under a directory that is not a configured
// locale, belong to DefaultLocale; files under Dir/<locale>/ belong to
// that locale.
type Loader struct {
	Dir           string
	DefaultLocale string
	Locales       []string
	IncludeDrafts bool
	Concurrency   int // parse workers, defaults to GOMAXPROCS
}

// LoadResult is the outcome of one load
type LoadResult struct {
	Posts    map[string][]domain.PostRecord // by locale, each sorted newest first
	Problems []error                        // per-file failures; those files are skipped
}

type postFile struct {
	path   string
	locale string
}

// Load parses every post under Dir
func (l *Loader) Load(ctx context.Context) (*LoadResult, error) {
	files, err := l.discover()
	if err != nil {
		return nil, err
	}

	records := make([]domain.PostRecord, len(files))
	errs := make([]error, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers())
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(f.path)
			if err != nil {
				errs[i] = fmt.Errorf("read %s: %w", f.path, err)
				return nil
			}
			records[i], errs[i] = ParsePost(f.path, data, f.locale)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &LoadResult{Posts: make(map[string][]domain.PostRecord)}
	for _, locale := range l.locales() {
		result.Posts[locale] = nil
	}

	seen := make(map[string]string)
	for i, rec := range records {
		if errs[i] != nil {
			result.Problems = append(result.Problems, errs[i])
			continue
		}
		if rec.Metadata.Draft && !l.IncludeDrafts {
			continue
		}
		key := rec.Metadata.Locale + "/" + rec.Metadata.Slug
		if first, dup := seen[key]; dup {
			result.Problems = append(result.Problems,
				fmt.Errorf("%s: duplicate slug %q (already defined by %s)", files[i].path, rec.Metadata.Slug, first))
			continue
		}
		seen[key] = files[i].path
		result.Posts[rec.Metadata.Locale] = append(result.Posts[rec.Metadata.Locale], rec)
	}

	for _, posts := range result.Posts {
		sortPosts(posts)
	}

	for _, p := range result.Problems {
		slog.Warn("skipping post", "error", p)
	}
	return result, nil
}

// discover lists post files in path order so duplicate detection is stable
func (l *Loader) discover() ([]postFile, error) {
	info, err := os.Stat(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoContentDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNoContentDir, l.Dir)
	}

	known := make(map[string]bool)
	for _, loc := range l.locales() {
		known[loc] = true
	}

	var files []postFile
	err = filepath.WalkDir(l.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != l.Dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsPostFile(path) || strings.HasPrefix(d.Name(), "_") {
			return nil
		}

		locale := l.DefaultLocale
		rel, err := filepath.Rel(l.Dir, path)
		if err != nil {
			return err
		}
		if first, _, nested := strings.Cut(filepath.ToSlash(rel), "/"); nested && known[first] {
			locale = first
		}
		files = append(files, postFile{path: path, locale: locale})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", l.Dir, err)
	}
	return files, nil
}

func (l *Loader) locales() []string {
	out := []string{l.DefaultLocale}
	for _, loc := range l.Locales {
		if loc != "" && loc != l.DefaultLocale {
			out = append(out, loc)
		}
	}
	return out
}

func (l *Loader) workers() int {
	if l.Concurrency > 0 {
		return l.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

// sortPosts orders newest first, then by slug
func sortPosts(posts []domain.PostRecord) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i].Metadata, posts[j].Metadata
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.Slug < b.Slug
	})
}
