// Package watch runs a callback for source files as they change on disk.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"
)

// DefaultDebounce is the quiet period before a changed file is reported.
const DefaultDebounce = 200 * time.Millisecond

// Op describes what happened to a file.
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
)

// String returns a readable form of the operation set.
func (op Op) String() string {
	var parts []string
	if op&OpCreate != 0 {
		parts = append(parts, "create")
	}
	if op&OpWrite != 0 {
		parts = append(parts, "write")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Event is a debounced change to one file.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// Handler is called once per debounced event, serially, on the Run
// goroutine. An error is logged and does not stop the watcher.
type Handler func(ctx context.Context, ev Event) error

// Matcher selects files and prunes directories. Paths are slash-separated
// and relative to the watched root.
type Matcher interface {
	Included(rel string) bool
	Excluded(rel string) bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithMatcher filters directory contents. Files added explicitly are always
// reported.
func WithMatcher(m Matcher) Option {
	return func(w *Watcher) {
		w.matcher = m
	}
}

// WithLogger sets the logger.
func WithLogger(log logr.Logger) Option {
	return func(w *Watcher) {
		w.log = log
	}
}

// Watcher reports debounced file changes to a Handler.
type Watcher struct {
	fsw      *fsnotify.Watcher
	handler  Handler
	matcher  Matcher
	debounce time.Duration
	log      logr.Logger

	mu      sync.Mutex
	roots   []string
	files   map[string]bool
	pending map[string]*pendingEvent
	closed  bool

	fired   chan Event
	closeCh chan struct{}
}

type pendingEvent struct {
	event Event
	timer *time.Timer
}

// New creates a watcher that calls handler for each changed file.
func New(handler Handler, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		handler:  handler,
		debounce: DefaultDebounce,
		log:      logr.Discard(),
		files:    make(map[string]bool),
		pending:  make(map[string]*pendingEvent),
		fired:    make(chan Event, 64),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Add watches a file or, recursively, a directory.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrPathNotExist
		}
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}

	if !info.IsDir() {
		if err := w.fsw.Add(abs); err != nil {
			return err
		}
		w.files[abs] = true
		return nil
	}

	w.roots = append(w.roots, abs)
	return w.addTreeLocked(abs)
}

// addTreeLocked watches dir and every subdirectory the matcher keeps.
func (w *Watcher) addTreeLocked(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Skip unreadable entries.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if rel, ok := w.relLocked(p); ok && rel != "." && w.matcher != nil && w.matcher.Excluded(rel) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			return err
		}
		w.log.V(1).Info("watching", "dir", p)
		return nil
	})
}

// relLocked returns p relative to the innermost root containing it.
func (w *Watcher) relLocked(p string) (string, bool) {
	best, found := "", false
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, p)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if !found || len(rel) < len(best) {
			best, found = rel, true
		}
	}
	return filepath.ToSlash(best), found
}

// wants reports whether changes to the file at p are reported.
func (w *Watcher) wants(p string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.files[p] {
		return true
	}
	rel, ok := w.relLocked(p)
	if !ok {
		return false
	}
	return w.matcher == nil || w.matcher.Included(rel)
}

// Run delivers events to the handler until ctx is cancelled or the watcher
// is closed. The watcher is closed when Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-w.closeCh:
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleFSEvent(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Error(err, "watch error")

		case ev := <-w.fired:
			if err := w.handler(ctx, ev); err != nil {
				w.log.Error(err, "handler failed", "path", ev.Path)
			}
		}
	}
}

// handleFSEvent filters a raw event and schedules its delivery.
func (w *Watcher) handleFSEvent(ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)

	if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		w.cancel(path)
		return
	}

	var op Op
	if ev.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if ev.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if op == 0 {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.IsDir() {
		if op&OpCreate != 0 {
			w.mu.Lock()
			if !w.closed {
				if err := w.addTreeLocked(path); err != nil {
					w.log.Error(err, "watch new directory", "dir", path)
				}
			}
			w.mu.Unlock()
		}
		return
	}

	if !w.wants(path) {
		return
	}
	w.schedule(Event{Path: path, Op: op, Time: time.Now()})
}

// schedule delays ev until no further change to its path arrives within the
// debounce period. Operations on the same path are merged.
func (w *Watcher) schedule(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if p, ok := w.pending[ev.Path]; ok {
		p.event.Op |= ev.Op
		p.event.Time = ev.Time
		p.timer.Reset(w.debounce)
		return
	}

	p := &pendingEvent{event: ev}
	p.timer = time.AfterFunc(w.debounce, func() {
		w.fire(ev.Path)
	})
	w.pending[ev.Path] = p
}

// cancel drops a pending event for path.
func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if p, ok := w.pending[path]; ok {
		p.timer.Stop()
		delete(w.pending, path)
	}
}

// fire hands a pending event to the Run loop.
func (w *Watcher) fire(path string) {
	w.mu.Lock()
	p, ok := w.pending[path]
	if !ok {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	ev := p.event
	w.mu.Unlock()

	select {
	case w.fired <- ev:
	case <-w.closeCh:
	}
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	return w.fsw.Close()
}
