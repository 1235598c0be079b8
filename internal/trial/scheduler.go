package trial

import (
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/roach88/maskprime/internal/config"
	"github.com/roach88/maskprime/internal/design"
)

// FeedbackText is shown after a trial without a qualifying response.
const FeedbackText = "Please respond more quickly."

// Scheduler runs single trials against a display and an input source.
//
// INVARIANTS:
//   - Every frame is exactly one Present followed by one WaitForRefresh.
//   - Phase lengths come from the session's PhaseTimings and nothing else.
//   - Identity fields of the TrialSpec are copied into the Result unchanged.
type Scheduler struct {
	session  config.Session
	display  Display
	input    Input
	rng      *rand.Rand
	clock    Clock
	frames   *FrameClock
	observer FrameObserver
	logger   *slog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock (tests use a manual clock).
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// WithFrameClock shares a frame sequence across schedulers.
func WithFrameClock(fc *FrameClock) Option {
	return func(s *Scheduler) {
		s.frames = fc
	}
}

// WithObserver attaches a per-frame diagnostics hook.
func WithObserver(o FrameObserver) Option {
	return func(s *Scheduler) {
		s.observer = o
	}
}

// WithLogger sets the scheduler's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// NewScheduler creates a scheduler for one session.
// rng drives the fixation jitter and mask noise.
func NewScheduler(session config.Session, display Display, input Input, rng *rand.Rand, opts ...Option) *Scheduler {
	s := &Scheduler{
		session: session,
		display: display,
		input:   input,
		rng:     rng,
		clock:   SystemClock{},
		frames:  NewFrameClock(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Frames returns the scheduler's frame clock.
func (s *Scheduler) Frames() *FrameClock {
	return s.frames
}

// Run executes one trial and returns its result.
func (s *Scheduler) Run(spec design.TrialSpec) (Result, error) {
	t := s.session.Timings
	run := trialRun{Scheduler: s, spec: spec}

	fixation := s.drawFixation()
	s.logger.Debug("trial starting",
		"trial", spec.Trial,
		"stimulus_id", spec.StimulusID,
		"fixation_frames", fixation,
	)

	if err := run.hold(PhaseFixation, fixation, Visual{Kind: VisualFixation}); err != nil {
		return Result{}, err
	}

	// Stray presses from the pacing screen must not count as responses.
	if err := s.input.ClearPending(); err != nil {
		return Result{}, run.fail(ErrCodeInputFailed, PhaseFixation, -1, err)
	}
	onset := s.clock.Now()

	if err := run.hold(PhaseStimulus, t.Stimulus, Visual{Kind: VisualStimulus, Image: spec.Image}); err != nil {
		return Result{}, err
	}
	if err := run.hold(PhaseBlank, t.Blank, Visual{Kind: VisualBlank}); err != nil {
		return Result{}, err
	}
	for m := 0; m < t.MaskCount; m++ {
		mask := NewMask(s.rng, s.session.MaskSize)
		if err := run.hold(PhaseMask, t.Mask, Visual{Kind: VisualMask, Mask: mask}); err != nil {
			return Result{}, err
		}
	}
	if err := run.hold(PhaseResponse, t.Response, Visual{Kind: VisualBlank}); err != nil {
		return Result{}, err
	}

	keys := s.session.Keys.Keys()
	presses, err := s.input.PollKeys(keys, onset)
	if err != nil {
		return Result{}, run.fail(ErrCodeInputFailed, PhaseCollect, -1, err)
	}

	res := Result{
		TrialSpec: spec,
		SubjectID: s.session.SubjectID,
	}
	if press, ok := firstPress(presses, keys); ok {
		res.Response = press.Key
		res.RT = Milliseconds(press.Offset)
		res.Responded = true
	} else if err := run.feedback(); err != nil {
		return Result{}, err
	}

	s.logger.Info("trial complete",
		"trial", spec.Trial,
		"stimulus_id", spec.StimulusID,
		"response", res.ResponseField(),
		"rt", res.RTField(),
	)
	return res, nil
}

// drawFixation picks the fixation length uniformly from the inclusive range.
func (s *Scheduler) drawFixation() int {
	t := s.session.Timings
	return t.FixationMin + s.rng.IntN(t.FixationMax-t.FixationMin+1)
}

// firstPress returns the earliest press of a candidate key.
// Presses with equal offsets keep their reported order.
func firstPress(presses []KeyPress, keys []string) (KeyPress, bool) {
	var best KeyPress
	found := false
	for _, p := range presses {
		if p.Offset < 0 || !slices.Contains(keys, p.Key) {
			continue
		}
		if !found || p.Offset < best.Offset {
			best = p
			found = true
		}
	}
	return best, found
}

// trialRun carries per-trial context for error reporting.
type trialRun struct {
	*Scheduler
	spec design.TrialSpec
}

// hold presents v for n consecutive frames.
func (r trialRun) hold(phase Phase, n int, v Visual) error {
	for i := 0; i < n; i++ {
		if _, err := r.frame(phase, i, v); err != nil {
			return err
		}
	}
	return nil
}

func (r trialRun) frame(phase Phase, i int, v Visual) (time.Duration, error) {
	if err := r.display.Present(v); err != nil {
		return 0, r.fail(ErrCodePresentFailed, phase, i, err)
	}
	interval, err := r.display.WaitForRefresh()
	if err != nil {
		return 0, r.fail(ErrCodeRefreshFailed, phase, i, err)
	}

	seq := r.frames.Next()
	if r.observer != nil {
		r.observer.ObserveFrame(phase, seq, interval)
	}
	return interval, nil
}

// feedback shows the prompt for one frame and then holds it for the
// configured wall-clock pause. Input is not read.
func (r trialRun) feedback() error {
	r.logger.Debug("no response, showing feedback", "trial", r.spec.Trial)
	if _, err := r.frame(PhaseFeedback, 0, Visual{Kind: VisualText, Text: FeedbackText}); err != nil {
		return err
	}
	r.clock.Sleep(r.session.Timings.Feedback)
	return nil
}

func (r trialRun) fail(code ErrorCode, phase Phase, frame int, err error) error {
	r.logger.Error("trial aborted",
		"trial", r.spec.Trial,
		"stimulus_id", r.spec.StimulusID,
		"phase", phase.String(),
		"frame", frame,
		"error", err,
	)
	return &PresentationError{
		Code:       code,
		Phase:      phase,
		Frame:      frame,
		StimulusID: r.spec.StimulusID,
		Err:        err,
	}
}
