// Package watch implements the filesystem observer driving hot-reload
// (spec 4.D "Watch-mode integration"): an OS-native recursive watch over
// every File/Dir pact source, debounced to a 1-second quiet window,
// triggering a caller-supplied reload function on settle.
package watch

import (
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
)

// debounceWindow is the quiet window spec 4.D requires before a batch of
// filesystem events triggers a reload.
const debounceWindow = 1 * time.Second

// ReloadFunc reruns source acquisition and installs the result. It is
// called on a dedicated goroutine, never concurrently with itself.
type ReloadFunc func()

// Watcher owns one fsnotify.Watcher and a dedicated event loop goroutine,
// matching the shape of a portable filesystem-watch library: it expects
// its own receiver goroutine rather than being driven inline by request
// handlers.
type Watcher struct {
	mu           sync.Mutex
	fsw          *fsnotify.Watcher
	logger       *zap.Logger
	reload       ReloadFunc
	lastEvent    time.Time
	pending      bool
	stopCh       chan struct{}
	doneCh       chan struct{}
	running      bool

	reloadCount int
	errorCount  int
}

// New builds a Watcher over the File/Dir sources in sources (URL/Broker
// sources are not watchable and are ignored, per spec 4.D). reload is
// invoked once per debounced batch of changes.
func New(logger *zap.Logger, sources []pact.Source, reload ReloadFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:    fsw,
		logger: logger,
		reload: reload,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	for _, path := range watchPaths(sources) {
		if err := fsw.Add(path); err != nil {
			logger.Warn("failed to watch path", zap.String("path", path), zap.Error(err))
			continue
		}
		logger.Info("watching for changes", zap.String("path", path))
	}

	return w, nil
}

// watchPaths extracts the watchable paths from a source list: each File
// path, and each Dir path together with every subdirectory below it
// (fsnotify watches are not recursive on their own). URL and Broker
// sources carry nothing to watch.
func watchPaths(sources []pact.Source) []string {
	var paths []string
	for _, s := range sources {
		switch s.Kind {
		case pact.SourceFile:
			paths = append(paths, s.Path)
		case pact.SourceDir:
			_ = filepath.WalkDir(s.Path, func(p string, d fs.DirEntry, err error) error {
				if err != nil || d.IsDir() {
					paths = append(paths, p)
				}
				return nil
			})
		}
	}
	return paths
}

// Start begins watching in a dedicated goroutine. Non-blocking.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.run()
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.fsw.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	_ = w.fsw.Close()
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", zap.Error(err))
			w.mu.Lock()
			w.errorCount++
			w.mu.Unlock()

		case <-ticker.C:
			w.flushDebounced()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	w.logger.Debug("filesystem event", zap.String("path", event.Name), zap.String("op", event.Op.String()))

	w.mu.Lock()
	w.lastEvent = time.Now()
	w.pending = true
	w.mu.Unlock()

	// fsnotify does not recurse into newly-created subdirectories on its
	// own; add them so future events inside are observed too.
	if event.Op&fsnotify.Create != 0 {
		if err := w.fsw.Add(event.Name); err == nil {
			w.logger.Debug("now watching new path", zap.String("path", filepath.Clean(event.Name)))
		}
	}
}

// flushDebounced collapses an entire burst of filesystem events into a
// single reload: it only fires once the whole burst has gone quiet for
// debounceWindow, not as soon as any one event ages out.
func (w *Watcher) flushDebounced() {
	w.mu.Lock()
	if !w.pending || time.Since(w.lastEvent) < debounceWindow {
		w.mu.Unlock()
		return
	}
	w.pending = false
	w.reloadCount++
	w.mu.Unlock()

	w.reload()
}

// Stats reports reload/error counters, useful for diagnostics and tests.
type Stats struct {
	ReloadCount int
	ErrorCount  int
}

// Stats returns a snapshot of the watcher's counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Stats{ReloadCount: w.reloadCount, ErrorCount: w.errorCount}
}
