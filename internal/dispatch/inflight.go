package dispatch

import (
	"path/filepath"
	"sync"
	"time"
)

// inflight guards duplicate event handling: at most one chain runs per
// normalized path. A path is claimed on event receipt and released only
// after a settling delay following completion, so rapid duplicate
// notifications (editors doing atomic saves) collapse into one execution.
type inflight struct {
	mu sync.Mutex
	m  map[string]struct{}
}

func newInflight() *inflight {
	return &inflight{m: map[string]struct{}{}}
}

// tryAcquire claims path, returning false when a handling is already in
// flight or still settling.
func (f *inflight) tryAcquire(path string) bool {
	key := filepath.Clean(path)
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.m[key]; busy {
		return false
	}
	f.m[key] = struct{}{}
	return true
}

// releaseAfter frees path once the settling delay has elapsed.
func (f *inflight) releaseAfter(path string, delay time.Duration) {
	key := filepath.Clean(path)
	time.AfterFunc(delay, func() {
		f.mu.Lock()
		delete(f.m, key)
		f.mu.Unlock()
	})
}

func (f *inflight) active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.m)
}
