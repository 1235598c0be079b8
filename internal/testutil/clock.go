package testutil

import (
	"sync"
	"time"
)

// ManualClock is a trial.Clock that only moves when told to.
//
// FakeDisplay advances it by one refresh interval per frame, so onset
// instants and press offsets line up with frame counts.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

// Epoch is the start instant of every ManualClock.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// NewManualClock creates a clock at Epoch.
func NewManualClock() *ManualClock {
	return &ManualClock{now: Epoch}
}

// Now returns the current instant.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Sleep records the pause and advances the clock by d without blocking.
func (c *ManualClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

// Sleeps returns every recorded pause in order.
func (c *ManualClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}
