// Package common provides the small timing and runtime-statistics helpers
// shared by batch processing and benchmarks.
package common

import (
	"fmt"
	"time"
)

// Timer measures one span of wall-clock time, optionally named for reporting.
type Timer struct {
	name    string
	start   time.Time
	stopped time.Duration
}

// NewTimer starts an unnamed timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// NewNamedTimer starts a timer labeled with name.
func NewNamedTimer(name string) *Timer {
	return &Timer{name: name, start: time.Now()}
}

// Elapsed returns the time since start without stopping the timer.
func (t *Timer) Elapsed() time.Duration {
	if t.stopped > 0 {
		return t.stopped
	}
	return time.Since(t.start)
}

// Stop freezes the timer and returns the measured duration. Further Stop
// calls return the first measurement.
func (t *Timer) Stop() time.Duration {
	if t.stopped == 0 {
		t.stopped = time.Since(t.start)
	}
	return t.stopped
}

// Duration returns the frozen measurement; zero before Stop.
func (t *Timer) Duration() time.Duration {
	return t.stopped
}

// Name returns the timer label, empty when unnamed.
func (t *Timer) Name() string {
	return t.name
}

// String formats the timer as "name: duration" or just the duration.
func (t *Timer) String() string {
	if t.name != "" {
		return fmt.Sprintf("%s: %v", t.name, t.Elapsed())
	}
	return fmt.Sprintf("%v", t.Elapsed())
}

// Track runs fn and returns how long it took.
func Track(fn func()) time.Duration {
	start := time.Now()
	fn()
	return time.Since(start)
}
