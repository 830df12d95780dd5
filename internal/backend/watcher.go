package backend

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/atomicstack/reportlens/internal/document"
	"github.com/fsnotify/fsnotify"
)

// Kind identifies which input changed.
type Kind int

const (
	KindDocument Kind = iota
	KindDefinitions
)

func (k Kind) String() string {
	if k == KindDefinitions {
		return "definitions"
	}
	return "document"
}

// Event reports a changed file or a watcher error.
type Event struct {
	Kind Kind
	Path string
	Err  error
}

// Watcher follows the local report files and the definitions file and
// publishes an event when one of them is rewritten. Remote locations are
// skipped. Bursts of writes to the same file are coalesced over interval.
type Watcher struct {
	fs       *fsnotify.Watcher
	targets  map[string]Kind
	interval time.Duration
	throttle *throttle

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher starts watching the given documents and definitions file.
func NewWatcher(documents []string, definitions string, interval time.Duration) (*Watcher, error) {
	targets := make(map[string]Kind, len(documents)+1)
	for _, loc := range documents {
		if path, ok := watchPath(loc); ok {
			targets[path] = KindDocument
		}
	}
	if path, ok := watchPath(definitions); ok {
		targets[path] = KindDefinitions
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	// editors often replace files, so watch the parent directories
	dirs := make(map[string]struct{}, len(targets))
	for path := range targets {
		dirs[filepath.Dir(path)] = struct{}{}
	}
	for _, dir := range sortedKeys(dirs) {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		fs:       fsw,
		targets:  targets,
		interval: interval,
		throttle: newThrottle(interval),
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
	}

	w.wg.Add(1)
	go w.run()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w, nil
}

// Events returns a channel of change events. It is closed after Stop once
// the watcher goroutine has exited.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Targets returns the watched file paths.
func (w *Watcher) Targets() []string {
	set := make(map[string]struct{}, len(w.targets))
	for path := range w.targets {
		set[path] = struct{}{}
	}
	return sortedKeys(set)
}

// Stop cancels the watcher.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the watcher goroutine has exited and the events channel
// is closed. Call after Stop when a clean shutdown is required.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) run() {
	defer w.wg.Done()
	defer w.fs.Close()

	pending := make(map[string]Kind)
	var flush <-chan time.Time

	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			path := filepath.Clean(ev.Name)
			kind, ok := w.targets[path]
			if !ok {
				continue
			}
			pending[path] = kind
			if flush == nil {
				flush = time.After(w.interval)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if !w.emit(Event{Err: err}) {
				return
			}
		case <-flush:
			flush = nil
			if !w.throttle.wait(w.ctx) {
				return
			}
			for _, path := range sortedKeys(pending) {
				if !w.emit(Event{Kind: pending[path], Path: path}) {
					return
				}
			}
			pending = make(map[string]Kind)
		}
	}
}

func (w *Watcher) emit(evt Event) bool {
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}

// watchPath returns the cleaned absolute path of a local location.
func watchPath(location string) (string, bool) {
	if location == "" || document.IsRemote(location) {
		return "", false
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return "", false
	}
	return filepath.Clean(abs), true
}

// SamePath reports whether a location refers to the watched path.
func SamePath(location, path string) bool {
	resolved, ok := watchPath(location)
	return ok && resolved == filepath.Clean(path)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
