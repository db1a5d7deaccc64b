package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration collapses bursts of change events (editors often
// write a file several times in quick succession).
const DefaultDebounceDuration = 250 * time.Millisecond

// Debouncer coalesces rapid triggers into a single callback invocation.
type Debouncer struct {
	d     time.Duration
	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(d time.Duration) *Debouncer {
	if d <= 0 {
		d = DefaultDebounceDuration
	}
	return &Debouncer{d: d}
}

// Trigger schedules fn after the quiet period, resetting any pending timer.
func (db *Debouncer) Trigger(fn func()) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.timer != nil {
		db.timer.Stop()
	}
	db.timer = time.AfterFunc(db.d, fn)
}

// Cancel drops any pending invocation.
func (db *Debouncer) Cancel() {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.timer != nil {
		db.timer.Stop()
		db.timer = nil
	}
}
