package harness

import (
	"time"

	"github.com/roach88/maskprime/internal/design"
	"github.com/roach88/maskprime/internal/trial"
)

// FrameEvent is one presented frame as seen by the frame observer.
type FrameEvent struct {
	Seq   int64  `json:"seq"`
	Phase string `json:"phase"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expect clauses match.
	Pass bool `json:"pass"`

	// Rows are the persisted results in presentation order.
	Rows []trial.Result `json:"rows"`

	// Frames lists every trial frame in presentation order.
	// Instruction and pacing screens are not trial frames.
	Frames []FrameEvent `json:"frames"`

	// Keys is the key assignment the session ran with.
	Keys design.KeyAssignment `json:"keys"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Rows:   []trial.Result{},
		Frames: []FrameEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// PhaseCounts returns the number of frames presented in each phase.
func (r *Result) PhaseCounts() map[string]int {
	counts := make(map[string]int)
	for _, f := range r.Frames {
		counts[f.Phase]++
	}
	return counts
}

// frameLog is a trial.FrameObserver appending to a Result.
type frameLog struct {
	result *Result
}

func (l frameLog) ObserveFrame(phase trial.Phase, seq int64, _ time.Duration) {
	l.result.Frames = append(l.result.Frames, FrameEvent{Seq: seq, Phase: phase.String()})
}
