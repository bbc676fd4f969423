// Package debounce runs a function once after a quiet period.
package debounce

import (
	"sync"
	"time"
)

// Task is a trailing-edge debouncer: every Trigger cancels the pending timer
// and starts a new one, so fn runs once, delay after the last Trigger.
type Task struct {
	mu    sync.Mutex
	delay time.Duration
	fn    func()
	timer *time.Timer
	gen   uint64
}

func New(delay time.Duration, fn func()) *Task {
	return &Task{delay: delay, fn: fn}
}

func (t *Task) Trigger() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.timer = time.AfterFunc(t.delay, func() { t.fire(gen) })
}

func (t *Task) fire(gen uint64) {
	t.mu.Lock()
	// A Trigger or Stop raced with this timer; the newer generation wins.
	if gen != t.gen || t.timer == nil {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.mu.Unlock()

	t.fn()
}

// Stop drops any pending run. It reports whether one was pending.
func (t *Task) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer == nil {
		return false
	}
	t.timer.Stop()
	t.timer = nil
	t.gen++
	return true
}

func (t *Task) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}
