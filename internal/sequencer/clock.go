package sequencer

import "sync/atomic"

// Clock implements CP-2: a monotonic logical clock for journal ordering.
//
// Every attempt and hook call is stamped with a strictly increasing seq.
// Wall-clock timestamps are never used for ordering, so the same scenario
// always journals in the same order.
//
// Thread-safety: safe for concurrent use (atomic operations), though the
// dispatcher's single-writer design means one goroutine typically calls
// Next().
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock starting at a specific sequence number.
// Used when appending to an existing journal.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
