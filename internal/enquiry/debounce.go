package enquiry

import (
	"sync"
	"time"
)

// DefaultSearchDelay is the quiet period after the last keystroke before a search fires.
const DefaultSearchDelay = 500 * time.Millisecond

type stopper interface {
	Stop() bool
}

// Debouncer coalesces search keystrokes into a single trailing-edge call.
//
// Every Input cancels the pending call and schedules a new one after the delay.
// Empty input is not debounced: it cancels the pending call and fires at once so the
// unfiltered list comes back immediately. After Stop no further calls are made,
// including timers that were already running when Stop was called.
type Debouncer struct {
	delay     time.Duration
	fire      func(text string)
	afterFunc func(time.Duration, func()) stopper

	mu      sync.Mutex
	pending stopper
	gen     uint64
	stopped bool
}

// NewDebouncer creates a Debouncer that calls fire with the settled text.
// fire runs on the timer goroutine (or the caller's, for empty input) and should not block.
func NewDebouncer(delay time.Duration, fire func(text string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultSearchDelay
	}
	return &Debouncer{
		delay: delay,
		fire:  fire,
		afterFunc: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
	}
}

// Input records a keystroke. text is the full current search text.
func (d *Debouncer) Input(text string) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.gen++
	gen := d.gen
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	if text == "" {
		d.mu.Unlock()
		d.fire("")
		return
	}
	d.pending = d.afterFunc(d.delay, func() { d.expire(gen, text) })
	d.mu.Unlock()
}

func (d *Debouncer) expire(gen uint64, text string) {
	d.mu.Lock()
	// superseded by a newer keystroke, or torn down
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.pending = nil
	d.mu.Unlock()
	d.fire(text)
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop cancels any scheduled call and disables the Debouncer. Safe to call twice.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}
