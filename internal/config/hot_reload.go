package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DataFileWatcher watches a set of on-disk JSON data files (the
// ontology, restriction set, or dynamic ontology written by the
// enrichment CLI) and invokes onChange with the path of whichever file
// was written, debounced so a burst of writes to the same file only
// triggers one reload.
type DataFileWatcher struct {
	watcher  *fsnotify.Watcher
	onChange func(path string)
	mu       sync.Mutex
	stopChan chan struct{}
}

// NewDataFileWatcher creates a watcher that is not yet started.
func NewDataFileWatcher(onChange func(path string)) (*DataFileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: failed to create file watcher: %w", err)
	}
	return &DataFileWatcher{
		watcher:  watcher,
		onChange: onChange,
		stopChan: make(chan struct{}),
	}, nil
}

// Watch adds paths to the watch set. Paths must already exist.
func (w *DataFileWatcher) Watch(paths ...string) error {
	for _, p := range paths {
		if err := w.watcher.Add(p); err != nil {
			return fmt.Errorf("config: failed to watch %s: %w", p, err)
		}
	}
	return nil
}

// Start begins the watch loop in its own goroutine.
func (w *DataFileWatcher) Start(ctx context.Context) {
	go w.run(ctx)
}

// Stop terminates the watch loop and releases the underlying inotify handle.
func (w *DataFileWatcher) Stop() {
	close(w.stopChan)
	w.watcher.Close()
}

func (w *DataFileWatcher) run(ctx context.Context) {
	lastFired := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.mu.Lock()
			last, seen := lastFired[event.Name]
			fire := !seen || time.Since(last) > 200*time.Millisecond
			if fire {
				lastFired[event.Name] = time.Now()
			}
			w.mu.Unlock()
			if fire && w.onChange != nil {
				w.onChange(event.Name)
			}
		case <-w.watcher.Errors:
			// A watch error means one file's reload signal is lost; the
			// next periodic enrichment run will still succeed on restart.
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		}
	}
}
