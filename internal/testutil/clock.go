package testutil

import "sync/atomic"

// DeterministicClock numbers cache rows in tests. It satisfies store.Clock.
//
// The first call to Next returns start+1. Safe for concurrent use.
type DeterministicClock struct {
	start int64
	seq   atomic.Int64
}

// NewDeterministicClock creates a clock whose first Next returns 1.
func NewDeterministicClock() *DeterministicClock {
	return NewClockAt(0)
}

// NewClockAt creates a clock whose first Next returns start+1.
func NewClockAt(start int64) *DeterministicClock {
	c := &DeterministicClock{start: start}
	c.seq.Store(start)
	return c
}

// Next advances the clock and returns the new value.
func (c *DeterministicClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last value handed out, or start if none was.
func (c *DeterministicClock) Current() int64 {
	return c.seq.Load()
}

// Reset rewinds the clock to its start so a scenario can run again with
// identical seq values.
func (c *DeterministicClock) Reset() {
	c.seq.Store(c.start)
}
