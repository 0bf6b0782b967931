package coach

import (
	"sync"
	"time"
)

// DefaultIdleTimeout is how long the session must be quiet before the
// idle callback fires.
const DefaultIdleTimeout = 5 * time.Minute

// IdleWatcher is a resettable debounce timer: any tracked interaction
// pushes the deadline out, and the callback fires once per quiet
// period. The callback runs on the timer goroutine, so observers that
// touch the session must go back through its public entry points.
type IdleWatcher struct {
	mu      sync.Mutex
	timer   *time.Timer
	timeout time.Duration
	onIdle  func()
	stopped bool
}

// NewIdleWatcher starts a watcher. onIdle may be nil, making the
// watcher inert. timeout <= 0 falls back to DefaultIdleTimeout.
func NewIdleWatcher(timeout time.Duration, onIdle func()) *IdleWatcher {
	if timeout <= 0 {
		timeout = DefaultIdleTimeout
	}
	w := &IdleWatcher{timeout: timeout, onIdle: onIdle}
	if onIdle != nil {
		w.timer = time.AfterFunc(timeout, w.fire)
	}
	return w
}

// Touch resets the quiet-period deadline. Call on every tracked user
// interaction.
func (w *IdleWatcher) Touch() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer == nil || w.stopped {
		return
	}
	w.timer.Stop()
	w.timer.Reset(w.timeout)
}

// Stop cancels the watcher. Safe to call more than once.
func (w *IdleWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *IdleWatcher) fire() {
	w.mu.Lock()
	stopped := w.stopped
	cb := w.onIdle
	w.mu.Unlock()
	if stopped || cb == nil {
		return
	}
	cb()
}
