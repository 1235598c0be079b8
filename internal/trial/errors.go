package trial

import (
	"errors"
	"fmt"
)

// ErrSurfaceClosed is returned by displays whose surface has gone away,
// typically because the subject closed the window.
var ErrSurfaceClosed = errors.New("presentation surface closed")

// ErrorCode categorizes presentation failures.
type ErrorCode string

const (
	// ErrCodePresentFailed indicates the display rejected a frame.
	ErrCodePresentFailed ErrorCode = "PRESENT_FAILED"

	// ErrCodeRefreshFailed indicates no refresh boundary was delivered.
	ErrCodeRefreshFailed ErrorCode = "REFRESH_FAILED"

	// ErrCodeInputFailed indicates the input source could not be read or cleared.
	ErrCodeInputFailed ErrorCode = "INPUT_FAILED"
)

// PresentationError aborts a trial. It is fatal to the session.
type PresentationError struct {
	Code ErrorCode

	// Phase is where the trial stopped.
	Phase Phase

	// Frame is the zero-based frame within the phase, or -1 outside frame loops.
	Frame int

	// StimulusID identifies the aborted trial. Empty for PhaseScreen.
	StimulusID string

	Err error
}

func (e *PresentationError) Error() string {
	where := e.Phase.String()
	if e.Frame >= 0 {
		where += fmt.Sprintf(" frame %d", e.Frame)
	}
	if e.StimulusID != "" {
		where += " of " + e.StimulusID
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, where, e.Err)
}

func (e *PresentationError) Unwrap() error {
	return e.Err
}

// IsPresentationError reports whether err is (or wraps) a PresentationError.
func IsPresentationError(err error) bool {
	var pe *PresentationError
	return errors.As(err, &pe)
}
