package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the session settings document.
//
// The json tags are the field names used by the CUE schema; the yaml tags are
// the names accepted in settings files. They are kept identical.
type Settings struct {
	Display DisplaySettings `json:"display" yaml:"display"`
	Timing  TimingSettings  `json:"timing" yaml:"timing"`
	Design  DesignSettings  `json:"design" yaml:"design"`

	// Keys holds the two physical response keys. Which one means "Cat" is
	// decided per session by the key assignment draw.
	Keys []string `json:"keys" yaml:"keys"`

	Paths PathSettings `json:"paths" yaml:"paths"`
}

// DisplaySettings describes the presentation surface.
type DisplaySettings struct {
	// RefreshRate is the nominal refresh rate in Hz.
	RefreshRate float64 `json:"refresh_rate" yaml:"refresh_rate"`

	// ImageSize is the stimulus edge length in pixels.
	ImageSize int `json:"image_size" yaml:"image_size"`

	// MaskSize is the number of noise cells along each mask edge.
	MaskSize int `json:"mask_size" yaml:"mask_size"`
}

// TimingSettings holds phase durations in seconds.
type TimingSettings struct {
	FixationMin    float64 `json:"fixation_min" yaml:"fixation_min"`
	FixationMax    float64 `json:"fixation_max" yaml:"fixation_max"`
	Stimulus       float64 `json:"stimulus" yaml:"stimulus"`
	Mask           float64 `json:"mask" yaml:"mask"`
	MaskCount      int     `json:"mask_count" yaml:"mask_count"`
	ResponseWindow float64 `json:"response_window" yaml:"response_window"`

	// Feedback is the real-time pause after a missed response.
	Feedback float64 `json:"feedback" yaml:"feedback"`
}

// DesignSettings sizes the practice and main trial lists.
type DesignSettings struct {
	// Practice is the number of practice indices; each yields a Cat and a Dog trial.
	Practice int `json:"practice" yaml:"practice"`

	// Main is the number of main indices; each yields a Cat, a Dog and a False trial.
	Main int `json:"main" yaml:"main"`
}

// PathSettings locates stimuli and output.
type PathSettings struct {
	Stimuli string `json:"stimuli" yaml:"stimuli"`
	Data    string `json:"data" yaml:"data"`
}

// Defaults returns the settings of the reference experiment.
func Defaults() Settings {
	return Settings{
		Display: DisplaySettings{
			RefreshRate: 60,
			ImageSize:   299,
			MaskSize:    256,
		},
		Timing: TimingSettings{
			FixationMin:    0.500,
			FixationMax:    1.000,
			Stimulus:       0.063,
			Mask:           0.020,
			MaskCount:      10,
			ResponseWindow: 2.200,
			Feedback:       2.0,
		},
		Design: DesignSettings{
			Practice: 3,
			Main:     3,
		},
		Keys: []string{"f", "j"},
		Paths: PathSettings{
			Stimuli: "stimuli",
			Data:    "data",
		},
	}
}

// Load reads a settings file and validates it.
// Fields absent from the file keep their default values.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes YAML settings over Defaults and validates the result.
// Unknown fields are rejected so that a misspelled key never silently
// falls back to a default duration.
func Parse(data []byte) (Settings, error) {
	s := Defaults()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := Validate(s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
