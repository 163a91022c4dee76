// Package watch triggers rebuilds when project files change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/SunDr17/stencil/internal/output"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 150 * time.Millisecond

// RebuildFunc is called once per settled batch of changes with the changed
// paths, sorted. It returns the paths to watch from then on; nil keeps the
// current set.
type RebuildFunc func(ctx context.Context, changed []string) []string

// Watcher watches a set of files through their parent directories, which
// survives editors that replace files on save.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	files    map[string]struct{}
	dirs     map[string]struct{}
}

// New creates a watcher for paths. debounce <= 0 selects DefaultDebounce.
func New(paths []string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
	}
	if err := w.setPaths(paths); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) setPaths(paths []string) error {
	files := make(map[string]struct{}, len(paths))
	dirs := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if _, ok := w.dirs[dir]; ok {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}
	for dir := range w.dirs {
		if _, ok := dirs[dir]; !ok {
			_ = w.fsw.Remove(dir)
		}
	}
	w.files, w.dirs = files, dirs
	return nil
}

// Files returns the watched files, sorted.
func (w *Watcher) Files() []string {
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Run delivers debounced changes to fn until ctx is done, then closes the
// watcher. fn runs on the calling goroutine; changes arriving meanwhile are
// batched into the next call.
func (w *Watcher) Run(ctx context.Context, fn RebuildFunc) error {
	defer w.fsw.Close()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev.Op) {
				continue
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if _, ok := w.files[name]; !ok {
				continue
			}
			output.Debug("change detected", "file", name, "op", ev.Op.String())
			pending[name] = struct{}{}
			timer.Reset(w.debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			output.Warn("watcher error", "err", err)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)

			if next := fn(ctx, changed); next != nil {
				if err := w.setPaths(next); err != nil {
					output.Warn("failed to update watched files", "err", err)
				}
			}
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename) || op.Has(fsnotify.Remove)
}
