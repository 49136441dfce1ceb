// Package watch turns raw fsnotify events for a single folder into settled
// (path, kind) notifications: bursts are debounced per path, files can be
// required to hold a stable size before emission, and dotfiles plus the
// organizer's own managed subfolders are excluded at the source.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type EventKind string

const (
	KindCreated  EventKind = "created"
	KindModified EventKind = "modified"
)

type Event struct {
	Path string
	Kind EventKind
	Time time.Time
}

// ManagedFolders are subfolder names the organizer itself creates inside
// watched folders; changes under them never produce events.
var ManagedFolders = []string{"Originals", "Compressed", "Organized", "Archive"}

type Options struct {
	Directory     string        // absolute path to watch
	Debounce      time.Duration // collapse bursts within this window (0 = no debounce)
	Stabilization time.Duration // require stable file size for this duration before emitting
	PollInterval  time.Duration // interval used for stabilization checks
	Exclude       []string      // extra base names to ignore
}

// Watcher watches a single directory and emits files considered "ready".
type Watcher struct {
	opts Options

	mu      sync.Mutex
	w       *fsnotify.Watcher
	cancel  context.CancelFunc
	started bool
	closed  bool
}

func New(opts Options) (*Watcher, error) {
	if !filepath.IsAbs(opts.Directory) {
		return nil, errors.New("watch directory must be absolute")
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 200 * time.Millisecond
	}
	return &Watcher{opts: opts}, nil
}

// Start begins watching and returns a channel of settled events. Cancel the
// provided context to stop the watcher.
func (w *Watcher) Start(ctx context.Context) (<-chan Event, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return nil, errors.New("watcher already started")
	}
	if w.closed {
		return nil, errors.New("watcher closed")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := fsw.Add(w.opts.Directory); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("add watch: %w", err)
	}

	w.w = fsw
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.started = true

	out := make(chan Event, 128)
	go w.run(ctx, out)
	return out, nil
}

type pendingEvent struct {
	kind EventKind
	seen time.Time
}

func (w *Watcher) run(ctx context.Context, out chan<- Event) {
	defer func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		_ = w.w.Close()
		close(out)
		w.closed = true
	}()

	// pending holds the last-seen kind/time per path to support debounce.
	// A create followed by writes within the window stays "created".
	pending := make(map[string]pendingEvent)
	var mu sync.Mutex

	var debounceTicker *time.Ticker
	if w.opts.Debounce > 0 {
		debounceTicker = time.NewTicker(w.opts.Debounce)
		defer debounceTicker.Stop()
	}

	emitReady := func(p string, kind EventKind) {
		if w.opts.Stabilization <= 0 {
			out <- Event{Path: p, Kind: kind, Time: time.Now()}
			return
		}
		// Wait until the file size holds still across the window.
		lastSize := int64(-1)
		lastChange := time.Now()
		deadline := time.Now().Add(10 * time.Minute)

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			info, err := os.Lstat(p)
			if err != nil || !info.Mode().IsRegular() {
				// Moved or removed before settling; drop silently.
				return
			}
			now := time.Now()
			if sz := info.Size(); lastSize == -1 || sz != lastSize {
				lastSize = sz
				lastChange = now
			}
			if now.Sub(lastChange) >= w.opts.Stabilization || now.After(deadline) {
				out <- Event{Path: p, Kind: kind, Time: time.Now()}
				return
			}
			time.Sleep(w.opts.PollInterval)
		}
	}

	flush := func() {
		mu.Lock()
		type item struct {
			path string
			kind EventKind
		}
		items := make([]item, 0, len(pending))
		now := time.Now()
		for p, pe := range pending {
			if w.opts.Debounce == 0 || now.Sub(pe.seen) >= w.opts.Debounce {
				items = append(items, item{p, pe.kind})
				delete(pending, p)
			}
		}
		mu.Unlock()

		for _, it := range items {
			emitReady(it.path, it.kind)
		}
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return

		case ev, ok := <-w.w.Events:
			if !ok {
				flush()
				return
			}
			kind, relevant := classify(ev)
			if !relevant || w.excluded(ev.Name) {
				continue
			}
			if w.opts.Debounce > 0 {
				mu.Lock()
				if prev, ok := pending[ev.Name]; ok && prev.kind == KindCreated {
					kind = KindCreated
				}
				pending[ev.Name] = pendingEvent{kind: kind, seen: time.Now()}
				mu.Unlock()
			} else {
				emitReady(ev.Name, kind)
			}

		case _, ok := <-w.w.Errors:
			if !ok {
				continue
			}
			// Non-fatal; the dispatcher logs at a higher level.

		case <-func() <-chan time.Time {
			if debounceTicker != nil {
				return debounceTicker.C
			}
			return make(chan time.Time)
		}():
			flush()
		}
	}
}

func classify(ev fsnotify.Event) (EventKind, bool) {
	switch {
	case ev.Has(fsnotify.Create):
		return KindCreated, true
	// CloseWrite is not available on every platform; Write/Rename/Chmod
	// stand in for "content settled" and debounce collapses the burst.
	case ev.Has(fsnotify.Write), ev.Has(fsnotify.Rename), ev.Has(fsnotify.Chmod):
		return KindModified, true
	}
	return "", false
}

// excluded filters dotfiles, the organizer's managed subfolders, and any
// extra configured names.
func (w *Watcher) excluded(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	for _, name := range ManagedFolders {
		if base == name {
			return true
		}
	}
	for _, name := range w.opts.Exclude {
		if base == name {
			return true
		}
	}
	return false
}

// Close stops the watcher if running.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
	}
}
