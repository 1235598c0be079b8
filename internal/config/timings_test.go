package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrames(t *testing.T) {
	interval := 1.0 / 60

	assert.Equal(t, 30, Frames(0.500, interval))
	assert.Equal(t, 60, Frames(1.000, interval))
	assert.Equal(t, 4, Frames(0.063, interval), "3.78 frames rounds up")
	assert.Equal(t, 1, Frames(0.020, interval), "1.2 frames rounds down")
	assert.Equal(t, 132, Frames(2.200, interval))
	assert.Equal(t, 0, Frames(0, interval))
}

func TestFrames_HalfFrameTies(t *testing.T) {
	tests := []struct {
		name     string
		seconds  float64
		rate     float64
		expected int
	}{
		{"4.5 frames at 60 Hz", 0.075, 60, 4},
		{"1.5 frames at 60 Hz", 0.025, 60, 2},
		{"7.5 frames at 120 Hz", 0.0625, 120, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Frames(tt.seconds, 1.0/tt.rate))
		})
	}
}

func TestNewPhaseTimings_HalfFrameStimulus(t *testing.T) {
	s := Defaults()
	s.Timing.Stimulus = 0.075

	pt, err := NewPhaseTimings(s)
	require.NoError(t, err)
	assert.Equal(t, 4, pt.Stimulus)
}

func TestNewPhaseTimings_Defaults(t *testing.T) {
	pt, err := NewPhaseTimings(Defaults())
	require.NoError(t, err)

	assert.Equal(t, PhaseTimings{
		RefreshInterval: time.Second / 60,
		FixationMin:     30,
		FixationMax:     60,
		Stimulus:        4,
		Blank:           1,
		Mask:            1,
		MaskCount:       10,
		Response:        132,
		Feedback:        2 * time.Second,
	}, pt)
}

func TestNewPhaseTimings_HigherRefreshRate(t *testing.T) {
	s := Defaults()
	s.Display.RefreshRate = 120

	pt, err := NewPhaseTimings(s)
	require.NoError(t, err)

	assert.Equal(t, 60, pt.FixationMin)
	assert.Equal(t, 120, pt.FixationMax)
	assert.Equal(t, 8, pt.Stimulus, "7.56 frames rounds up")
	assert.Equal(t, 2, pt.Mask, "2.4 frames rounds down")
	assert.Equal(t, 264, pt.Response)
}

func TestPhaseTimings_TrialFrames(t *testing.T) {
	pt, err := NewPhaseTimings(Defaults())
	require.NoError(t, err)

	assert.Equal(t, 10, pt.MaskFrames())
	assert.Equal(t, 30+4+1+10+132, pt.TrialFrames(30))
	assert.Equal(t, 60+4+1+10+132, pt.TrialFrames(60))
}

func TestNewPhaseTimings_NoMasks(t *testing.T) {
	s := Defaults()
	s.Timing.MaskCount = 0
	s.Timing.Mask = 0.001 // would round to zero frames, irrelevant without masks

	pt, err := NewPhaseTimings(s)
	require.NoError(t, err)
	assert.Equal(t, 0, pt.MaskFrames())
}

func TestNewPhaseTimings_ResponseWindowTooShort(t *testing.T) {
	s := Defaults()
	s.Timing.ResponseWindow = 0.001

	_, err := NewPhaseTimings(s)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Contains(t, err.Error(), "timing.response_window")
}
