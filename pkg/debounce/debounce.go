// Package debounce runs a function once after a period of inactivity.
//
// Each Trigger (re)starts the delay. When the delay elapses without a new
// trigger, the function runs once on its own goroutine. A trigger that
// arrives while the function is running schedules exactly one more run
// after it returns.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the delay used when New is given a non-positive one.
const DefaultDelay = 100 * time.Millisecond

// Debouncer coalesces bursts of triggers into single calls of fn.
// A nil *Debouncer ignores every call.
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	running bool
	stopped bool
	idle    *sync.Cond
}

// New returns a Debouncer that calls fn delay after the last Trigger.
func New(delay time.Duration, fn func()) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	d := &Debouncer{delay: delay, fn: fn}
	d.idle = sync.NewCond(&d.mu)
	return d
}

// Delay returns the configured delay.
func (d *Debouncer) Delay() time.Duration { return d.delay }

// Trigger schedules a run, cancelling any run that has not started yet.
func (d *Debouncer) Trigger() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = true
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.onTimer)
		return
	}
	d.timer.Reset(d.delay)
}

// Pending reports whether a run is scheduled but has not started.
func (d *Debouncer) Pending() bool {
	if d == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Flush runs fn now if a run is pending and waits for it, and for any run
// already in flight, to finish.
func (d *Debouncer) Flush() {
	if d == nil {
		return
	}
	d.mu.Lock()
	for d.running {
		d.idle.Wait()
	}
	if !d.pending {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = false
	d.running = true
	d.mu.Unlock()

	d.run()
}

// Stop cancels a pending run and ignores further triggers. A run already
// in flight is waited for.
func (d *Debouncer) Stop() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
	for d.running {
		d.idle.Wait()
	}
}

func (d *Debouncer) onTimer() {
	d.mu.Lock()
	if d.running {
		// The in-flight run reschedules on completion.
		d.mu.Unlock()
		return
	}
	if !d.pending || d.stopped {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.running = true
	d.mu.Unlock()

	d.run()
}

func (d *Debouncer) run() {
	defer func() {
		d.mu.Lock()
		d.running = false
		if d.pending && !d.stopped && d.timer != nil {
			d.timer.Reset(d.delay)
		}
		d.idle.Broadcast()
		d.mu.Unlock()
	}()
	d.fn()
}
