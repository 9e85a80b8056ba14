package sched

import (
	"sync"
	"time"
)

// DefaultSearchDelay is the trailing delay applied to free-text search input.
const DefaultSearchDelay = 500 * time.Millisecond

// Timer is the controllable surface of a pending fire.
type Timer interface {
	Stop() bool
}

// TimerFactory schedules fn to run after d. Production code uses
// time.AfterFunc; tests substitute a manual implementation so debounce
// behavior is verified without wall-clock waits.
type TimerFactory func(d time.Duration, fn func()) Timer

type realTimer struct {
	t *time.Timer
}

func (r realTimer) Stop() bool {
	return r.t.Stop()
}

func stdTimerFactory(d time.Duration, fn func()) Timer {
	return realTimer{t: time.AfterFunc(d, fn)}
}

// Debouncer coalesces a burst of triggers into a single trailing call. Every
// Trigger cancels the pending fire and schedules a fresh one carrying the
// latest callback, so only the final call of a burst runs.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	factory TimerFactory
	pending Timer
	gen     uint64
	stopped bool
}

// Option configures optional debouncer behavior.
type Option func(*Debouncer)

// WithTimerFactory overrides the timer source, for tests.
func WithTimerFactory(factory TimerFactory) Option {
	return func(d *Debouncer) {
		if factory != nil {
			d.factory = factory
		}
	}
}

// NewDebouncer builds a debouncer with the given trailing delay.
func NewDebouncer(delay time.Duration, opts ...Option) *Debouncer {
	if delay <= 0 {
		delay = DefaultSearchDelay
	}
	d := &Debouncer{
		delay:   delay,
		factory: stdTimerFactory,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Trigger restarts the pending timer with fn as the new callback. fn runs
// outside the debouncer lock after the delay elapses with no further triggers.
func (d *Debouncer) Trigger(fn func()) {
	if fn == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.pending != nil {
		d.pending.Stop()
	}

	// Stop can miss a timer whose fire already started; the generation
	// check makes such a callback a no-op instead of letting it clear
	// the newer timer and run a superseded fn.
	d.gen++
	gen := d.gen
	var once sync.Once
	d.pending = d.factory(d.delay, func() {
		once.Do(func() {
			d.mu.Lock()
			if d.stopped || gen != d.gen {
				d.mu.Unlock()
				return
			}
			d.pending = nil
			d.mu.Unlock()
			fn()
		})
	})
}

// Stop cancels any pending fire and rejects further triggers. Safe to call
// multiple times; used when the owning component shuts down.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}
