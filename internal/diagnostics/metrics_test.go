package diagnostics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/maskprime/internal/design"
	"github.com/roach88/maskprime/internal/trial"
)

const nominal = time.Second / 60

func TestObserveFrame_CountsByPhase(t *testing.T) {
	m := New(nominal)

	for i := 0; i < 4; i++ {
		m.ObserveFrame(trial.PhaseStimulus, int64(i), nominal)
	}
	m.ObserveFrame(trial.PhaseBlank, 4, nominal)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.frames.WithLabelValues("stimulus")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.frames.WithLabelValues("blank")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.dropped.WithLabelValues("stimulus")))
}

func TestObserveFrame_Dropped(t *testing.T) {
	m := New(nominal)

	m.ObserveFrame(trial.PhaseMask, 0, nominal*3/2) // exactly at the threshold
	m.ObserveFrame(trial.PhaseMask, 1, 2*nominal)
	m.ObserveFrame(trial.PhaseMask, 2, nominal)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.dropped.WithLabelValues("mask")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.frames.WithLabelValues("mask")))
}

func TestObserveTrial(t *testing.T) {
	m := New(nominal)

	m.ObserveTrial(trial.Result{TrialSpec: design.TrialSpec{Trial: -1}})
	m.ObserveTrial(trial.Result{TrialSpec: design.TrialSpec{Trial: 1}, Responded: true})
	m.ObserveTrial(trial.Result{TrialSpec: design.TrialSpec{Trial: 2}, Responded: true})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.trials.WithLabelValues("practice", "missed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.trials.WithLabelValues("main", "responded")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.trials.WithLabelValues("main", "missed")))
}

func TestWriteTextfile(t *testing.T) {
	m := New(nominal)
	m.ObserveFrame(trial.PhaseFixation, 0, nominal)

	path := filepath.Join(t.TempDir(), "session.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `maskprime_display_frames_total{phase="fixation"} 1`)
}

func TestMetrics_Gather(t *testing.T) {
	m := New(nominal)
	m.ObserveFrame(trial.PhaseResponse, 0, nominal)

	n, err := testutil.GatherAndCount(m.Registry(), "maskprime_display_refresh_interval_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
