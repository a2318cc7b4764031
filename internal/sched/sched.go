// Package sched provides cancellable timers driven by a single event loop.
package sched

import "time"

// Token identifies a scheduled timer.
type Token uint64

// Scheduler schedules callbacks after a delay. Callbacks run on the goroutine
// that drives the scheduler, never concurrently.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Token
	Cancel(tok Token)
}

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

type timer struct {
	tok      Token
	deadline time.Time
	fn       func()
}

// Queue is a timer queue. It does not own a goroutine: the caller's event loop
// invokes RunDue and due callbacks run inline.
type Queue struct {
	clock   Clock
	next    Token
	pending []timer

	firing bool
	at     time.Time
}

// NewQueue returns an empty queue reading time from clock.
func NewQueue(clock Clock) *Queue {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Queue{clock: clock}
}

// Schedule implements Scheduler. Timers scheduled from inside a callback are
// relative to the deadline of the timer being fired.
func (q *Queue) Schedule(delay time.Duration, fn func()) Token {
	if delay < 0 {
		delay = 0
	}
	base := q.clock.Now()
	if q.firing {
		base = q.at
	}
	q.next++
	q.pending = append(q.pending, timer{tok: q.next, deadline: base.Add(delay), fn: fn})
	return q.next
}

// Cancel implements Scheduler. Unknown or already fired tokens are ignored.
func (q *Queue) Cancel(tok Token) {
	for i, t := range q.pending {
		if t.tok == tok {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// Len returns the number of pending timers.
func (q *Queue) Len() int {
	return len(q.pending)
}

// NextDeadline returns the earliest pending deadline.
func (q *Queue) NextDeadline() (time.Time, bool) {
	idx := q.earliest()
	if idx < 0 {
		return time.Time{}, false
	}
	return q.pending[idx].deadline, true
}

// RunDue fires every timer whose deadline is at or before now, in deadline
// order, and returns how many fired.
func (q *Queue) RunDue(now time.Time) int {
	fired := 0
	for {
		idx := q.earliest()
		if idx < 0 || q.pending[idx].deadline.After(now) {
			return fired
		}
		t := q.pending[idx]
		q.pending = append(q.pending[:idx], q.pending[idx+1:]...)
		q.firing = true
		q.at = t.deadline
		t.fn()
		q.firing = false
		fired++
	}
}

func (q *Queue) earliest() int {
	if len(q.pending) == 0 {
		return -1
	}
	idx := 0
	for i := range q.pending {
		p, c := q.pending[i], q.pending[idx]
		if p.deadline.Before(c.deadline) || (p.deadline.Equal(c.deadline) && p.tok < c.tok) {
			idx = i
		}
	}
	return idx
}

// ManualClock is a Clock that only moves when told to.
type ManualClock struct {
	t time.Time
}

// NewManualClock returns a clock stopped at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{t: start}
}

// Now implements Clock.
func (c *ManualClock) Now() time.Time { return c.t }

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

// Set moves the clock to t.
func (c *ManualClock) Set(t time.Time) {
	c.t = t
}
