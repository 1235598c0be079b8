package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/maskprime/internal/design"
	"github.com/roach88/maskprime/internal/diagnostics"
	"github.com/roach88/maskprime/internal/results"
	"github.com/roach88/maskprime/internal/session"
	"github.com/roach88/maskprime/internal/termio"
	"github.com/roach88/maskprime/internal/trial"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	Seed     uint64
	Metrics  bool

	// Subjects allows overriding the subject id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	Subjects session.SubjectIDGenerator
}

// SessionSummary is printed when a session ends.
type SessionSummary struct {
	SubjectID   string `json:"subject_id"`
	Trials      int    `json:"trials"`
	Missed      int    `json:"missed"`
	ResultFile  string `json:"result_file"`
	Database    string `json:"database"`
	MetricsFile string `json:"metrics_file,omitempty"`
	LogFile     string `json:"log_file"`
}

func (s SessionSummary) String() string {
	return fmt.Sprintf("Session %s complete: %d trials (%d missed)\nResults: %s\n",
		s.SubjectID, s.Trials, s.Missed, s.ResultFile)
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a session on the terminal",
		Long: `Run a full session (instructions, practice block, main block) on the
terminal backend.

Each trial is written to the SQLite database as soon as it ends. On
completion the result table is written to <data>/adv_ex_<subject>.csv and
frame timing metrics to <data>/adv_ex_<subject>.prom. While the terminal
shows the session, trial logs go to <data>/adv_ex_<subject>.log instead of
stderr.

The terminal backend paces frames with a timer and is meant for rehearsal;
its durations are not refresh-locked.

Example:
  maskprime run --config lab.yaml
  maskprime run --db /tmp/rehearsal.db --seed 7 --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default <data>/results.db)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (0 draws a fresh one)")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", true, "write a frame timing metrics file")

	return cmd
}

// recorders fans a result out to several recorders in order.
type recorders []session.Recorder

func (rs recorders) Record(ctx context.Context, seq int, r trial.Result) error {
	for _, rec := range rs {
		if err := rec.Record(ctx, seq, r); err != nil {
			return err
		}
	}
	return nil
}

// metricsRecorder counts trial outcomes.
type metricsRecorder struct {
	metrics *diagnostics.Metrics
}

func (m metricsRecorder) Record(_ context.Context, _ int, r trial.Result) error {
	m.metrics.ObserveTrial(r)
	return nil
}

// openSessionLog opens the log written while the terminal is in raw mode.
// Stderr would draw over the subject's display.
func openSessionLog(path string, verbose bool) (*slog.Logger, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return newLogger(f, verbose), f, nil
}

func runSession(opts *RunOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	settings, err := loadSettings(opts.RootOptions)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid settings", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	slog.Info("session seed", "seed", seed)

	subjects := opts.Subjects
	if subjects == nil {
		subjects = session.UUIDv7Generator{}
	}
	sess, err := session.NewSession(settings, subjects, rand.New(rand.NewPCG(seed, 1)))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid settings", err)
	}

	// Generate and verify the design before touching the terminal.
	root := settings.Paths.Stimuli
	pool := design.NewPool(root, os.DirFS(root))
	plan, err := generatePlan(settings, seed)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "failed to generate design", err)
	}
	if err := pool.Verify(append(append([]design.TrialSpec{}, plan.Practice...), plan.Main...)); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStimuli, "stimulus pool incomplete", err)
	}

	dataDir := settings.Paths.Data
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to create data directory", err)
	}
	dbPath := opts.Database
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, "results.db")
	}

	slog.Info("opening database", "path", dbPath)
	st, err := results.Open(dbPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := st.WriteSession(ctx, sess); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to record session", err)
	}

	logPath := filepath.Join(dataDir, "adv_ex_"+sess.SubjectID+".log")
	logger, logFile, err := openSessionLog(logPath, opts.Verbose)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to create session log", err)
	}
	defer logFile.Close()
	slog.Info("session log", "path", logPath)

	term, err := termio.Open(os.Stdin, os.Stdout, sess.Timings.RefreshInterval)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeTerminal, "failed to open terminal", err)
	}

	metrics := diagnostics.New(sess.Timings.RefreshInterval)
	scheduler := trial.NewScheduler(sess, term, term, rand.New(rand.NewPCG(seed, 2)),
		trial.WithObserver(metrics),
		trial.WithLogger(logger),
	)
	keys := [2]string{settings.Keys[0], settings.Keys[1]}
	driver := session.NewDriver(sess, term, term, scheduler, session.NewScreens(sess.Keys, keys),
		session.WithRecorder(recorders{st, metricsRecorder{metrics}}),
		session.WithLogger(logger),
	)

	rows, runErr := driver.Run(ctx, plan.Practice, plan.Main)
	if err := term.Close(); err != nil {
		slog.Error("error restoring terminal", "error", err)
	}

	summary := SessionSummary{SubjectID: sess.SubjectID, Trials: len(rows), Database: dbPath, LogFile: logPath}
	for _, r := range rows {
		if !r.Responded {
			summary.Missed++
		}
	}

	if opts.Metrics {
		summary.MetricsFile = filepath.Join(dataDir, "adv_ex_"+sess.SubjectID+".prom")
		if err := metrics.WriteTextfile(summary.MetricsFile); err != nil {
			slog.Error("error writing metrics", "path", summary.MetricsFile, "error", err)
			summary.MetricsFile = ""
		}
	}

	if runErr != nil {
		// Completed trials are already in the database; no partial table is written.
		slog.Error("session aborted", "subject_id", sess.SubjectID, "trials", len(rows), "error", runErr)
		if errors.Is(runErr, context.Canceled) || errors.Is(runErr, termio.ErrInterrupted) {
			return formatter.Fail(ExitFailure, ErrCodeSession, "session interrupted", runErr)
		}
		return formatter.Fail(ExitFailure, ErrCodeSession, "session aborted", runErr)
	}

	path, err := results.WriteFile(dataDir, sess.SubjectID, rows)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeStore, "failed to write result file", err)
	}
	summary.ResultFile = path

	return formatter.Success(summary)
}
