package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_Valid(t *testing.T) {
	require.NoError(t, Validate(Defaults()))
}

func TestParse_EmptyKeepsDefaults(t *testing.T) {
	s, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
}

func TestParse_PartialOverride(t *testing.T) {
	s, err := Parse([]byte(`
design:
  practice: 1
keys: [d, k]
`))
	require.NoError(t, err)

	assert.Equal(t, 1, s.Design.Practice)
	assert.Equal(t, 3, s.Design.Main, "unspecified fields keep defaults")
	assert.Equal(t, []string{"d", "k"}, s.Keys)
	assert.Equal(t, 0.063, s.Timing.Stimulus)
}

func TestParse_RejectsUnknownField(t *testing.T) {
	_, err := Parse([]byte(`
timing:
  stimulus_time: 0.05
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stimulus_time")
}

func TestParse_RejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("design: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display:\n  refresh_rate: 120\n"), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 120.0, s.Display.RefreshRate)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read settings file")
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		want   string
	}{
		{
			name:   "negative practice size",
			mutate: func(s *Settings) { s.Design.Practice = -1 },
			want:   "practice",
		},
		{
			name:   "negative main size",
			mutate: func(s *Settings) { s.Design.Main = -2 },
			want:   "main",
		},
		{
			name:   "fixation range inverted",
			mutate: func(s *Settings) { s.Timing.FixationMax = 0.2 },
			want:   "fixation_max",
		},
		{
			name:   "zero refresh rate",
			mutate: func(s *Settings) { s.Display.RefreshRate = 0 },
			want:   "refresh_rate",
		},
		{
			name:   "single key",
			mutate: func(s *Settings) { s.Keys = []string{"f"} },
			want:   "keys",
		},
		{
			name:   "duplicate keys",
			mutate: func(s *Settings) { s.Keys = []string{"f", "f"} },
			want:   "must differ",
		},
		{
			name:   "empty key",
			mutate: func(s *Settings) { s.Keys = []string{"f", ""} },
			want:   "keys",
		},
		{
			name:   "stimulus shorter than half a frame",
			mutate: func(s *Settings) { s.Timing.Stimulus = 0.005 },
			want:   "timing.stimulus",
		},
		{
			name:   "empty data path",
			mutate: func(s *Settings) { s.Paths.Data = "" },
			want:   "data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)

			err := Validate(s)
			require.Error(t, err)
			assert.True(t, IsConfigError(err), "expected ConfigError, got %T: %v", err, err)
			assert.ErrorIs(t, err, ErrInvalidSettings)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
