package store

import "sync"

// Clock is a monotonic logical sequence for event ordering. Wall-clock
// timestamps are recorded for humans but never used for ordering.
type Clock struct {
	mu  sync.Mutex
	seq int64
}

// NewClockAt returns a clock whose next value is seq+1.
func NewClockAt(seq int64) *Clock {
	return &Clock{seq: seq}
}

// Next increments and returns the next sequence number.
func (c *Clock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the latest assigned sequence number.
func (c *Clock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}
