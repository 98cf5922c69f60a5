package app

import (
	"time"
)

// DefaultDebounce is the quiet window for live search input.
const DefaultDebounce = 200 * time.Millisecond

// Timer is a cancellable pending call.
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d. Implementations decide which goroutine f runs on;
// the live channel posts it back into the connection's event loop.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, f func()) Timer

// AfterFunc implements Scheduler.
func (fn SchedulerFunc) AfterFunc(d time.Duration, f func()) Timer { return fn(d, f) }

// debouncer holds at most one pending call. Each schedule bumps a generation
// so a timer that fires after being superseded does nothing even if Stop lost
// the race.
type debouncer struct {
	sched   Scheduler
	wait    time.Duration
	pending Timer
	gen     uint64
}

func (d *debouncer) schedule(f func()) {
	d.cancel()
	gen := d.gen
	d.pending = d.sched.AfterFunc(d.wait, func() {
		if gen != d.gen {
			return
		}
		d.pending = nil
		f()
	})
}

func (d *debouncer) cancel() {
	d.gen++
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}

func (d *debouncer) active() bool { return d.pending != nil }
