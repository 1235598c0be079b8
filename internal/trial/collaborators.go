package trial

import (
	"context"
	"time"
)

// VisualKind identifies what a frame shows.
type VisualKind int

const (
	VisualBlank VisualKind = iota
	VisualFixation
	VisualStimulus
	VisualMask
	VisualText
)

func (k VisualKind) String() string {
	switch k {
	case VisualBlank:
		return "blank"
	case VisualFixation:
		return "fixation"
	case VisualStimulus:
		return "stimulus"
	case VisualMask:
		return "mask"
	case VisualText:
		return "text"
	default:
		return "unknown"
	}
}

// Visual is the content of one frame.
type Visual struct {
	Kind VisualKind

	// Image is set for VisualStimulus.
	Image string

	// Mask is set for VisualMask. The same pointer is presented for every
	// frame of one repetition.
	Mask *Mask

	// Text is set for VisualText.
	Text string
}

// Display is a refresh-synchronized presentation surface.
type Display interface {
	// Present draws content into the next frame buffer.
	Present(v Visual) error

	// WaitForRefresh blocks until the next refresh boundary and returns the
	// measured interval since the previous one.
	WaitForRefresh() (time.Duration, error)
}

// KeyPress is one buffered key event.
type KeyPress struct {
	Key string

	// Offset is the time of the press relative to the poll's since instant.
	Offset time.Duration
}

// Input is a buffered keyboard source.
type Input interface {
	// PollKeys returns presses of any of keys that happened at or after since,
	// ordered by occurrence.
	PollKeys(keys []string, since time.Time) ([]KeyPress, error)

	// ClearPending discards buffered events.
	ClearPending() error

	// WaitForAnyKey blocks until any key is pressed. Used for pacing only.
	WaitForAnyKey(ctx context.Context) (string, error)
}

// Clock supplies the onset instant and the feedback pause.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// FrameObserver receives one call per presented frame.
type FrameObserver interface {
	ObserveFrame(phase Phase, seq int64, interval time.Duration)
}
