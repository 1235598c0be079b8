package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/maskprime/internal/config"
)

// PhaseRow is one phase of the timing report.
type PhaseRow struct {
	Phase  string  `json:"phase"`
	Frames int     `json:"frames"`
	MS     float64 `json:"ms"`
}

// TimingsReport lists the frame count of every phase.
type TimingsReport struct {
	RefreshRate float64    `json:"refresh_rate"`
	Phases      []PhaseRow `json:"phases"`
	MaskCount   int        `json:"mask_count"`
	MinFrames   int        `json:"min_trial_frames"`
	MaxFrames   int        `json:"max_trial_frames"`
	FeedbackMS  int64      `json:"feedback_ms"`
}

func (r TimingsReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Refresh rate: %g Hz\n\n", r.RefreshRate)

	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PHASE\tFRAMES\tMS")
	for _, p := range r.Phases {
		fmt.Fprintf(tw, "%s\t%d\t%.1f\n", p.Phase, p.Frames, p.MS)
	}
	tw.Flush()

	fmt.Fprintf(&b, "\nMasks per trial: %d\n", r.MaskCount)
	fmt.Fprintf(&b, "Trial length: %d-%d frames\n", r.MinFrames, r.MaxFrames)
	fmt.Fprintf(&b, "Feedback pause: %d ms\n", r.FeedbackMS)
	return b.String()
}

// NewTimingsCommand creates the timings command.
func NewTimingsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "timings",
		Short: "Show per-phase frame counts",
		Long: `Convert the configured phase durations into whole display frames.

Every phase is presented for round(seconds * refresh rate) frames, so the
actual durations can differ from the configured ones by up to half a frame.

Example:
  maskprime timings --config lab.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTimings(rootOpts, cmd)
		},
	}
}

func runTimings(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	settings, err := loadSettings(opts)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid settings", err)
	}
	t, err := config.NewPhaseTimings(settings)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid settings", err)
	}

	return formatter.Success(buildTimingsReport(settings.Display.RefreshRate, t))
}

func buildTimingsReport(rate float64, t config.PhaseTimings) TimingsReport {
	ms := func(frames int) float64 {
		return float64(time.Duration(frames)*t.RefreshInterval) / float64(time.Millisecond)
	}
	row := func(phase string, frames int) PhaseRow {
		return PhaseRow{Phase: phase, Frames: frames, MS: ms(frames)}
	}

	return TimingsReport{
		RefreshRate: rate,
		Phases: []PhaseRow{
			row("fixation (min)", t.FixationMin),
			row("fixation (max)", t.FixationMax),
			row("stimulus", t.Stimulus),
			row("blank", t.Blank),
			row("mask", t.Mask),
			row("response", t.Response),
		},
		MaskCount:  t.MaskCount,
		MinFrames:  t.TrialFrames(t.FixationMin),
		MaxFrames:  t.TrialFrames(t.FixationMax),
		FeedbackMS: t.Feedback.Milliseconds(),
	}
}
