package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/maskprime/internal/trial"
)

func TestManualClock_AdvanceAndSleep(t *testing.T) {
	c := NewManualClock()
	assert.Equal(t, Epoch, c.Now())

	c.Advance(time.Second)
	c.Sleep(2 * time.Second)

	assert.Equal(t, Epoch.Add(3*time.Second), c.Now())
	assert.Equal(t, []time.Duration{2 * time.Second}, c.Sleeps())
}

func TestFakeDisplay_CommitsOnRefresh(t *testing.T) {
	clock := NewManualClock()
	d := NewFakeDisplay(clock, 10*time.Millisecond)

	require.NoError(t, d.Present(trial.Visual{Kind: trial.VisualFixation}))
	assert.Empty(t, d.Frames(), "frame is staged until refresh")

	interval, err := d.WaitForRefresh()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, interval)
	assert.Equal(t, 1, d.Count(trial.VisualFixation))
	assert.Equal(t, Epoch.Add(10*time.Millisecond), clock.Now())
}

func TestFakeDisplay_FailAfter(t *testing.T) {
	d := NewFakeDisplay(nil, time.Millisecond)
	d.FailAfter(2)

	_, err := d.WaitForRefresh()
	require.NoError(t, err)
	_, err = d.WaitForRefresh()
	assert.ErrorIs(t, err, trial.ErrSurfaceClosed)
}

func TestScriptedInput_PollsInOrder(t *testing.T) {
	in := NewScriptedInput().
		Script(1, trial.KeyPress{Key: "f", Offset: time.Second}, trial.KeyPress{Key: "q", Offset: 0})

	presses, err := in.PollKeys([]string{"f", "j"}, Epoch)
	require.NoError(t, err)
	assert.Empty(t, presses)

	presses, err = in.PollKeys([]string{"f", "j"}, Epoch)
	require.NoError(t, err)
	assert.Equal(t, []trial.KeyPress{{Key: "f", Offset: time.Second}}, presses, "non-candidate keys are filtered")
	assert.Equal(t, 2, in.Polls())
}

func TestScriptedInput_WaitHonoursContext(t *testing.T) {
	in := NewScriptedInput()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := in.WaitForAnyKey(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, in.Waits())
}

func TestFixedSubjectGenerator(t *testing.T) {
	assert.Equal(t, "s-1", NewFixedSubjectGenerator("s-1").Generate())
	assert.Equal(t, "test-subject", NewFixedSubjectGenerator("").Generate())
}
