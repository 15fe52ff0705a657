package quiz

import (
	"sync"
	"time"
)

// ExamTimer drives the exam countdown. Expiry runs the supplied callback
// exactly once; Stop guarantees the callback cannot fire afterwards, so a
// torn-down timer can never force-finish a session that was already reset.
type ExamTimer struct {
	mu       sync.Mutex
	timer    *time.Timer
	deadline time.Time
	done     bool
}

// StartExamTimer arms a countdown for d and invokes expire when it elapses.
func StartExamTimer(d time.Duration, expire func()) *ExamTimer {
	t := &ExamTimer{deadline: time.Now().Add(d)}
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		if t.done {
			t.mu.Unlock()
			return
		}
		t.done = true
		t.mu.Unlock()
		expire()
	})
	return t
}

// Stop tears the countdown down. Safe to call more than once.
func (t *ExamTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done = true
	t.timer.Stop()
}

// Remaining reports the time left, floored at zero.
func (t *ExamTimer) Remaining() time.Duration {
	remaining := time.Until(t.deadline)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Debouncer coalesces bursts of triggers into one callback after a quiet
// period, restarting the wait on every Trigger. Used for the draft auto-save:
// each input change triggers, the save runs 3 seconds after the last one.
type Debouncer struct {
	mu      sync.Mutex
	quiet   time.Duration
	fn      func()
	timer   *time.Timer
	stopped bool
}

func NewDebouncer(quiet time.Duration, fn func()) *Debouncer {
	return &Debouncer{quiet: quiet, fn: fn}
}

// Trigger (re)starts the quiet-period wait.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, func() {
		d.mu.Lock()
		if d.stopped {
			d.mu.Unlock()
			return
		}
		d.mu.Unlock()
		d.fn()
	})
}

// Stop cancels any pending callback permanently.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
