package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 500 * time.Millisecond

// Watcher monitors configuration files and invokes a callback when one
// changes. Editors tend to fire bursts of events, so changes are debounced.
type Watcher struct {
	watcher  *fsnotify.Watcher
	paths    map[string]bool
	onChange func(path string)

	running bool
	stopCh  chan struct{}
	mu      sync.Mutex

	// Debouncing state
	pending   map[string]time.Time
	pendingMu sync.Mutex
}

// NewWatcher creates a watcher over the given file paths.
func NewWatcher(onChange func(path string), paths ...string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	targets := make(map[string]bool, len(paths))
	for _, p := range paths {
		targets[filepath.Clean(p)] = true
	}

	return &Watcher{
		watcher:  fsWatcher,
		paths:    targets,
		onChange: onChange,
		stopCh:   make(chan struct{}),
		pending:  make(map[string]time.Time),
	}, nil
}

// Start begins watching. Watches are placed on the parent directories so
// files created after startup are still seen.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dirs := make(map[string]bool)
	for p := range w.paths {
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	go w.processEvents()
	go w.processDebounced()

	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	w.running = false
	close(w.stopCh)

	return w.watcher.Close()
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.paths[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.pendingMu.Lock()
			w.pending[filepath.Clean(event.Name)] = time.Now()
			w.pendingMu.Unlock()
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) processDebounced() {
	ticker := time.NewTicker(watchDebounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			var ready []string
			now := time.Now()

			w.pendingMu.Lock()
			for path, last := range w.pending {
				if now.Sub(last) >= watchDebounce {
					ready = append(ready, path)
					delete(w.pending, path)
				}
			}
			w.pendingMu.Unlock()

			for _, path := range ready {
				w.onChange(path)
			}
		}
	}
}
