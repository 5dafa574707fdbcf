// Package debounce provides a trailing debounce with a single active timer.
package debounce

import (
	"sync"
	"time"
)

// Timer is the handle of a scheduled call.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it through Real.
type AfterFunc func(d time.Duration, f func()) Timer

// Real schedules on the runtime timer.
func Real(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer runs the last function passed to Trigger once no further
// Trigger has happened for the configured wait.
type Debouncer struct {
	mu    sync.Mutex
	wait  time.Duration
	after AfterFunc
	timer Timer
	gen   uint64
}

// New returns a Debouncer; a nil after uses Real.
func New(wait time.Duration, after AfterFunc) *Debouncer {
	if after == nil {
		after = Real
	}
	return &Debouncer{wait: wait, after: after}
}

// Trigger replaces any pending call with f and restarts the wait.
func (d *Debouncer) Trigger(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.gen++
	gen := d.gen
	d.timer = d.after(d.wait, func() {
		d.mu.Lock()
		// A timer that fired while being replaced must not run.
		if gen != d.gen || d.timer == nil {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		f()
	})
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	d.stopLocked()
	d.gen++
	d.mu.Unlock()
}

// Pending reports whether a call is waiting to fire.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
