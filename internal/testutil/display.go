package testutil

import (
	"sync"
	"time"

	"github.com/roach88/maskprime/internal/trial"
)

// FakeDisplay records presented frames and simulates a perfect refresh.
type FakeDisplay struct {
	mu        sync.Mutex
	clock     *ManualClock
	interval  time.Duration
	frames    []trial.Visual
	pending   *trial.Visual
	refreshes int
	failAfter int
}

// NewFakeDisplay creates a display refreshing every interval.
// clock may be nil.
func NewFakeDisplay(clock *ManualClock, interval time.Duration) *FakeDisplay {
	return &FakeDisplay{clock: clock, interval: interval}
}

// FailAfter makes the nth WaitForRefresh (1-based) and every later one
// return trial.ErrSurfaceClosed.
func (d *FakeDisplay) FailAfter(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failAfter = n
}

// Present stages a frame; it is recorded on the next refresh.
func (d *FakeDisplay) Present(v trial.Visual) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = &v
	return nil
}

// WaitForRefresh commits the staged frame and advances the clock.
func (d *FakeDisplay) WaitForRefresh() (time.Duration, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.refreshes++
	if d.failAfter > 0 && d.refreshes >= d.failAfter {
		return 0, trial.ErrSurfaceClosed
	}

	if d.pending != nil {
		d.frames = append(d.frames, *d.pending)
		d.pending = nil
	}
	if d.clock != nil {
		d.clock.Advance(d.interval)
	}
	return d.interval, nil
}

// Frames returns every committed frame in order.
func (d *FakeDisplay) Frames() []trial.Visual {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]trial.Visual, len(d.frames))
	copy(out, d.frames)
	return out
}

// Count returns the number of committed frames of a kind.
func (d *FakeDisplay) Count(kind trial.VisualKind) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, f := range d.frames {
		if f.Kind == kind {
			n++
		}
	}
	return n
}

// Reset forgets committed frames.
func (d *FakeDisplay) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames = nil
	d.pending = nil
}
