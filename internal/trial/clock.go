package trial

import "sync/atomic"

// FrameClock numbers presented frames across a session.
//
// Sequence numbers are strictly increasing and never reused, so a frame log
// can be ordered without wall-clock timestamps.
type FrameClock struct {
	seq atomic.Int64
}

// NewFrameClock creates a clock starting at 0.
func NewFrameClock() *FrameClock {
	return &FrameClock{}
}

// Next returns the next sequence number. The first call returns 1.
func (c *FrameClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number.
func (c *FrameClock) Current() int64 {
	return c.seq.Load()
}
