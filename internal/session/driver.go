package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/maskprime/internal/config"
	"github.com/roach88/maskprime/internal/design"
	"github.com/roach88/maskprime/internal/trial"
)

// Recorder receives each result as soon as its trial ends.
// seq is the 1-based presentation position within the session.
type Recorder interface {
	Record(ctx context.Context, seq int, r trial.Result) error
}

// Driver runs the practice and main blocks through a Scheduler.
type Driver struct {
	session   config.Session
	display   trial.Display
	input     trial.Input
	scheduler *trial.Scheduler
	screens   Screens
	recorder  Recorder
	logger    *slog.Logger
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithRecorder streams results to r as they are produced.
func WithRecorder(r Recorder) DriverOption {
	return func(d *Driver) {
		d.recorder = r
	}
}

// WithLogger sets the driver's logger.
func WithLogger(l *slog.Logger) DriverOption {
	return func(d *Driver) {
		d.logger = l
	}
}

// NewDriver creates a driver. The scheduler must have been built for the
// same session and collaborators.
func NewDriver(
	sess config.Session,
	display trial.Display,
	input trial.Input,
	scheduler *trial.Scheduler,
	screens Screens,
	opts ...DriverOption,
) *Driver {
	d := &Driver{
		session:   sess,
		display:   display,
		input:     input,
		scheduler: scheduler,
		screens:   screens,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run executes the session and returns one result per spec, in
// presentation order. On error the results gathered so far are returned.
func (d *Driver) Run(ctx context.Context, practice, main []design.TrialSpec) ([]trial.Result, error) {
	d.logger.Info("session starting",
		"subject_id", d.session.SubjectID,
		"cat_key", d.session.Keys.Cat,
		"dog_key", d.session.Keys.Dog,
		"practice_trials", len(practice),
		"main_trials", len(main),
	)

	results := make([]trial.Result, 0, len(practice)+len(main))

	if err := d.show(ctx, d.screens.Instructions); err != nil {
		return results, err
	}
	if err := d.show(ctx, d.screens.KeyMapping); err != nil {
		return results, err
	}

	results, err := d.runBlock(ctx, "practice", practice, results)
	if err != nil {
		return results, err
	}

	if err := d.show(ctx, d.screens.PracticeOver); err != nil {
		return results, err
	}

	results, err = d.runBlock(ctx, "main", main, results)
	if err != nil {
		return results, err
	}

	d.logger.Info("session complete", "subject_id", d.session.SubjectID, "trials", len(results))
	return results, nil
}

func (d *Driver) runBlock(ctx context.Context, block string, specs []design.TrialSpec, results []trial.Result) ([]trial.Result, error) {
	for _, spec := range specs {
		if err := d.show(ctx, d.screens.NextTrial); err != nil {
			return results, err
		}

		res, err := d.scheduler.Run(spec)
		if err != nil {
			return results, fmt.Errorf("%s trial %d: %w", block, spec.Trial, err)
		}
		results = append(results, res)

		if d.recorder != nil {
			if err := d.recorder.Record(ctx, len(results), res); err != nil {
				return results, fmt.Errorf("record trial %d: %w", spec.Trial, err)
			}
		}
	}

	d.logger.Info("block complete", "block", block, "trials", len(specs))
	return results, nil
}

// show presents a text screen and blocks until any key is pressed.
// Display failures are reported like those inside a trial.
func (d *Driver) show(ctx context.Context, text string) error {
	if err := d.display.Present(trial.Visual{Kind: trial.VisualText, Text: text}); err != nil {
		return d.screenError(trial.ErrCodePresentFailed, err)
	}
	if _, err := d.display.WaitForRefresh(); err != nil {
		return d.screenError(trial.ErrCodeRefreshFailed, err)
	}
	if _, err := d.input.WaitForAnyKey(ctx); err != nil {
		return fmt.Errorf("wait for key: %w", err)
	}
	return nil
}

func (d *Driver) screenError(code trial.ErrorCode, err error) error {
	d.logger.Error("screen aborted", "error", err)
	return &trial.PresentationError{Code: code, Phase: trial.PhaseScreen, Frame: -1, Err: err}
}
