package watch

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of writes from editors that save in
// several steps (truncate, write, rename).
const DefaultDebounce = 100 * time.Millisecond

// Watcher calls OnChange with the watched path after it is written,
// created, or renamed into place.
type Watcher struct {
	Path     string
	Debounce time.Duration
	OnChange func(path string)
}

// Run blocks until ctx is cancelled. The parent directory is watched
// rather than the file itself so atomic-rename saves keep firing.
func (w *Watcher) Run(ctx context.Context) error {
	if w.OnChange == nil {
		return fmt.Errorf("watch %s: no change handler", w.Path)
	}

	abs, err := filepath.Abs(w.Path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", w.Path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	// Armed only by matching events.
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Printf("warning: watch %s: %v", w.Path, err)

		case <-timer.C:
			w.OnChange(w.Path)
		}
	}
}

// Watch is shorthand for a Watcher with the default debounce.
func Watch(ctx context.Context, path string, onChange func(string)) error {
	w := &Watcher{Path: path, OnChange: onChange}
	return w.Run(ctx)
}
