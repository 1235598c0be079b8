package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/roach88/maskprime/internal/design"
	"github.com/roach88/maskprime/internal/results"
	"github.com/roach88/maskprime/internal/session"
	"github.com/roach88/maskprime/internal/testutil"
	"github.com/roach88/maskprime/internal/trial"
)

// Random stream identifiers; each consumer draws from its own PCG stream so
// adding draws to one never shifts another.
const (
	streamSession uint64 = iota + 1
	streamDesign
	streamScheduler
)

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Derive the session (subject, keys, timings) from the scenario
// 2. Build the trial list, explicit or generated
// 3. Script one poll per trial from the responses
// 4. Run the session through the Driver with the store as recorder
// 5. Read the rows back and evaluate expect clauses
func Run(scenario *Scenario) (*Result, error) {
	st, err := results.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	sess, err := session.NewSession(
		scenario.Settings,
		testutil.NewFixedSubjectGenerator(scenario.SubjectID),
		rand.New(rand.NewPCG(scenario.Seed, streamSession)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if k := scenario.KeyAssignment; k != nil {
		sess.Keys = design.KeyAssignment{Cat: k.Cat, Dog: k.Dog}
	}

	practice, main, err := buildTrials(scenario, rand.New(rand.NewPCG(scenario.Seed, streamDesign)))
	if err != nil {
		return nil, err
	}

	input, err := scriptInput(scenario.Responses, sess.Keys, append(append([]design.TrialSpec{}, practice...), main...))
	if err != nil {
		return nil, err
	}

	if err := st.WriteSession(ctx, sess); err != nil {
		return nil, err
	}

	result := NewResult()
	result.Keys = sess.Keys

	clock := testutil.NewManualClock()
	display := testutil.NewFakeDisplay(clock, sess.Timings.RefreshInterval)
	scheduler := trial.NewScheduler(sess, display, input,
		rand.New(rand.NewPCG(scenario.Seed, streamScheduler)),
		trial.WithClock(clock),
		trial.WithObserver(frameLog{result: result}),
		trial.WithLogger(logger),
	)
	keys := [2]string{scenario.Settings.Keys[0], scenario.Settings.Keys[1]}
	driver := session.NewDriver(sess, display, input, scheduler, session.NewScreens(sess.Keys, keys),
		session.WithRecorder(st),
		session.WithLogger(logger),
	)

	if _, err := driver.Run(ctx, practice, main); err != nil {
		return nil, fmt.Errorf("failed to run session: %w", err)
	}

	rows, err := st.Results(ctx, sess.SubjectID)
	if err != nil {
		return nil, err
	}
	result.Rows = rows

	for _, msg := range EvaluateExpectations(result, scenario.Expect) {
		result.AddError(msg)
	}

	return result, nil
}

// buildTrials splits explicit trials into blocks or generates a design.
func buildTrials(s *Scenario, rng *rand.Rand) (practice, main []design.TrialSpec, err error) {
	if s.Design == nil {
		for _, step := range s.Trials {
			spec := step.Spec()
			if spec.IsPractice() {
				practice = append(practice, spec)
			} else {
				main = append(main, spec)
			}
		}
		return practice, main, nil
	}

	g := design.NewGenerator(design.NewPool(s.Settings.Paths.Stimuli, nil), rng)
	if practice, err = g.Practice(s.Design.Practice); err != nil {
		return nil, nil, fmt.Errorf("failed to generate practice block: %w", err)
	}
	if main, err = g.Main(s.Design.Main); err != nil {
		return nil, nil, fmt.Errorf("failed to generate main block: %w", err)
	}
	return practice, main, nil
}

// scriptInput maps each response to the poll of its trial. The scheduler
// polls exactly once per trial, so the poll index is the trial's position
// in presentation order.
func scriptInput(responses []ResponseStep, keys design.KeyAssignment, order []design.TrialSpec) (*testutil.ScriptedInput, error) {
	position := make(map[int]int, len(order))
	for i, spec := range order {
		position[spec.Trial] = i
	}

	presses := make(map[int][]trial.KeyPress)
	for i, r := range responses {
		poll, ok := position[r.Trial]
		if !ok {
			return nil, fmt.Errorf("responses[%d]: no trial numbered %d", i, r.Trial)
		}

		key := r.Key
		if r.Response != "" {
			var err error
			if key, err = keys.Key(category(r.Response)); err != nil {
				return nil, fmt.Errorf("responses[%d]: %w", i, err)
			}
		}

		offset := time.Duration(math.Round(r.Offset * float64(time.Second)))
		presses[poll] = append(presses[poll], trial.KeyPress{Key: key, Offset: offset})
	}

	input := testutil.NewScriptedInput()
	for poll, p := range presses {
		input.Script(poll, p...)
	}
	return input, nil
}
