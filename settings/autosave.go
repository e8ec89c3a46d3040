package settings

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet interval before a pending update is written.
const DefaultDebounce = 2 * time.Second

// AutoSaver coalesces rapid settings updates into a single debounced write.
// Each Update replaces the pending document and restarts the quiet timer;
// the document is written once the timer fires, on Flush, or on Close.
type AutoSaver struct {
	path  string
	delay time.Duration

	// saveFn is swappable for tests; defaults to Save.
	saveFn func(path string, doc *Document) error

	mu      sync.Mutex
	pending *Document
	timer   *time.Timer
	closed  bool
	lastErr error
}

// NewAutoSaver creates an auto-saver writing to path after delay of quiet.
// A non-positive delay uses DefaultDebounce.
func NewAutoSaver(path string, delay time.Duration) *AutoSaver {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &AutoSaver{
		path:   path,
		delay:  delay,
		saveFn: Save,
	}
}

// Update schedules doc for writing. The document is cloned so later caller
// mutations do not leak into the write.
func (a *AutoSaver) Update(doc *Document) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.pending = doc.Clone()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, a.fire)
}

// fire writes the pending document when the quiet timer expires.
func (a *AutoSaver) fire() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.flushLocked()
}

// Flush writes any pending document immediately and returns the write error.
func (a *AutoSaver) Flush() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.flushLocked()
	return a.lastErr
}

func (a *AutoSaver) flushLocked() {
	if a.pending == nil {
		return
	}
	a.lastErr = a.saveFn(a.path, a.pending)
	if a.lastErr == nil {
		a.pending = nil
	}
}

// Err returns the most recent write error, if any.
func (a *AutoSaver) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Close flushes any pending write and stops the timer.
// Further Updates are ignored.
func (a *AutoSaver) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return a.lastErr
	}
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.flushLocked()
	return a.lastErr
}
