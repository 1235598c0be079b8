package config

import (
	"fmt"
	"math"
	"time"
)

// BlankFrames is the length of the blank between stimulus and mask.
const BlankFrames = 1

// PhaseTimings holds every phase length of a trial in frames.
// It is computed once from Settings and never recomputed.
type PhaseTimings struct {
	// RefreshInterval is the nominal frame period.
	RefreshInterval time.Duration

	// FixationMin and FixationMax bound the per-trial fixation draw (inclusive).
	FixationMin int
	FixationMax int

	Stimulus  int
	Blank     int
	Mask      int
	MaskCount int
	Response  int

	// Feedback is a wall-clock pause, not a frame count.
	Feedback time.Duration
}

// Frames converts a duration in seconds to a whole number of frames.
// Exact half-frame durations round to the even count.
func Frames(seconds, interval float64) int {
	return int(math.RoundToEven(seconds / interval))
}

// NewPhaseTimings converts the timing settings into frame counts.
func NewPhaseTimings(s Settings) (PhaseTimings, error) {
	rate := s.Display.RefreshRate
	if rate <= 0 {
		return PhaseTimings{}, &ConfigError{
			Field:   "display.refresh_rate",
			Message: fmt.Sprintf("must be positive, got %v", rate),
		}
	}
	interval := 1 / rate
	t := s.Timing

	pt := PhaseTimings{
		RefreshInterval: time.Duration(float64(time.Second) / rate),
		FixationMin:     Frames(t.FixationMin, interval),
		FixationMax:     Frames(t.FixationMax, interval),
		Stimulus:        Frames(t.Stimulus, interval),
		Blank:           BlankFrames,
		Mask:            Frames(t.Mask, interval),
		MaskCount:       t.MaskCount,
		Response:        Frames(t.ResponseWindow, interval),
		Feedback:        time.Duration(t.Feedback * float64(time.Second)),
	}

	switch {
	case pt.FixationMin < 0:
		return PhaseTimings{}, frameError("timing.fixation_min", "fixation minimum is negative")
	case pt.FixationMax < pt.FixationMin:
		return PhaseTimings{}, frameError("timing.fixation_max",
			fmt.Sprintf("fixation range [%d, %d] frames is empty", pt.FixationMin, pt.FixationMax))
	case pt.Stimulus < 1:
		return PhaseTimings{}, frameError("timing.stimulus",
			fmt.Sprintf("%vs is shorter than half a frame at %v Hz", t.Stimulus, rate))
	case pt.MaskCount > 0 && pt.Mask < 1:
		return PhaseTimings{}, frameError("timing.mask",
			fmt.Sprintf("%vs is shorter than half a frame at %v Hz", t.Mask, rate))
	case pt.MaskCount < 0:
		return PhaseTimings{}, frameError("timing.mask_count", "must not be negative")
	case pt.Response < 1:
		return PhaseTimings{}, frameError("timing.response_window",
			fmt.Sprintf("%vs is shorter than half a frame at %v Hz", t.ResponseWindow, rate))
	case pt.Feedback < 0:
		return PhaseTimings{}, frameError("timing.feedback", "must not be negative")
	}

	return pt, nil
}

func frameError(field, msg string) *ConfigError {
	return &ConfigError{Field: field, Message: msg}
}

// MaskFrames is the total length of the mask phase.
func (pt PhaseTimings) MaskFrames() int {
	return pt.MaskCount * pt.Mask
}

// TrialFrames is the number of frames presented in one trial given its
// fixation draw: FIXATION + STIMULUS + BLANK + MASK + RESPONSE.
func (pt PhaseTimings) TrialFrames(fixation int) int {
	return fixation + pt.Stimulus + pt.Blank + pt.MaskFrames() + pt.Response
}
