package content

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"blogsearch/internal/logging"
)

// Reloader is what the watcher refreshes on change
type Reloader interface {
	Load(ctx context.Context) error
}

// Watcher reloads a Library when post files under its root change.
// Bursts of events collapse into a single reload after Delay.
type Watcher struct {
	root   string
	target Reloader
	delay  time.Duration
	fs     *fsnotify.Watcher
	logger *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher watches root and every directory below it
func NewWatcher(root string, target Reloader, delay time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		root:   root,
		target: target,
		delay:  delay,
		fs:     fw,
		logger: logging.WithComponent("watcher"),
	}
	if err := w.addRecursive(root); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Run processes events until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()
	w.logger.Info("watching content", "root", w.root, "delay", w.delay)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(ev.Name); err != nil {
				w.logger.Warn("watch new directory", "path", ev.Name, "error", err)
			}
			w.schedule(ctx)
			return
		}
	}
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return
	}
	if !IsPostFile(ev.Name) {
		return
	}
	w.logger.Debug("content changed", "path", ev.Name, "op", ev.Op.String())
	w.schedule(ctx)
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, func() {
		if ctx.Err() != nil {
			return
		}
		start := time.Now()
		if err := w.target.Load(ctx); err != nil {
			w.logger.Error("reload content", "error", err)
			return
		}
		w.logger.Info("content reloaded", "elapsed", time.Since(start))
	})
}

func (w *Watcher) stop() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	_ = w.fs.Close()
}
