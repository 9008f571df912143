// Package debounce provides a cancellable delayed task keyed by generation.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs at most one pending task. Every Schedule or Cancel starts a
// new generation; a timer whose generation is no longer current does nothing.
type Debouncer struct {
	mu         sync.Mutex
	delay      time.Duration
	timer      *time.Timer
	generation uint64
}

// New creates a debouncer with the given delay.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule replaces any pending task with fn, to run after the delay.
// It returns the generation assigned to fn, which fn also receives.
func (d *Debouncer) Schedule(fn func(generation uint64)) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.generation++
	gen := d.generation
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := d.generation == gen
		if current {
			d.timer = nil
		}
		d.mu.Unlock()
		if current {
			fn(gen)
		}
	})
	return gen
}

// Cancel drops the pending task, if any, and returns the new generation.
func (d *Debouncer) Cancel() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
	return d.generation
}

// Pending reports whether a task is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Generation returns the current generation.
func (d *Debouncer) Generation() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generation
}

// Delay returns the configured delay.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}
