package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/maskprime/internal/config"
	"github.com/roach88/maskprime/internal/design"
)

// Scenario defines a scripted session.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// SubjectID is stamped on every row.
	// If empty, defaults to "test-subject".
	SubjectID string `yaml:"subject_id,omitempty"`

	// Seed derives every random stream of the run.
	Seed uint64 `yaml:"seed,omitempty"`

	// KeyAssignment pins the key mapping instead of drawing it.
	KeyAssignment *KeyAssignment `yaml:"key_assignment,omitempty"`

	// Settings overrides the defaults field by field.
	Settings config.Settings `yaml:"settings,omitempty"`

	// Trials lists an explicit design in presentation order.
	Trials []TrialStep `yaml:"trials,omitempty"`

	// Design generates the trial list from the seed instead.
	Design *DesignStep `yaml:"design,omitempty"`

	// Responses script the subject's key presses.
	Responses []ResponseStep `yaml:"responses,omitempty"`

	// Expect validates the recorded rows.
	Expect []ExpectClause `yaml:"expect,omitempty"`
}

// KeyAssignment names the physical key for each target category.
type KeyAssignment struct {
	Cat string `yaml:"cat"`
	Dog string `yaml:"dog"`
}

// TrialStep is one explicit trial.
type TrialStep struct {
	Image      string `yaml:"image"`
	Category   string `yaml:"category"`
	TrialType  string `yaml:"trial_type"`
	StimulusID string `yaml:"stimulus_id"`
	Trial      int    `yaml:"trial"`
}

// Spec converts the step to a TrialSpec.
func (s TrialStep) Spec() design.TrialSpec {
	return design.TrialSpec{
		Image:      s.Image,
		Category:   design.Category(s.Category),
		TrialType:  s.TrialType,
		StimulusID: s.StimulusID,
		Trial:      s.Trial,
	}
}

// DesignStep sizes a generated design.
type DesignStep struct {
	Practice int `yaml:"practice"`
	Main     int `yaml:"main"`
}

// ResponseStep scripts a key press during one trial.
type ResponseStep struct {
	// Trial is the trial number the press belongs to.
	Trial int `yaml:"trial"`

	// Response is a target category (Cat or Dog) resolved through the key
	// assignment. Exclusive with Key.
	Response string `yaml:"response,omitempty"`

	// Key is a physical key name. Exclusive with Response.
	Key string `yaml:"key,omitempty"`

	// Offset is seconds after stimulus onset. Negative offsets model
	// presses before onset and are never accepted as responses.
	Offset float64 `yaml:"offset"`
}

// ExpectClause specifies the expected row for one trial.
type ExpectClause struct {
	// Trial is the trial number of the row.
	Trial int `yaml:"trial"`

	// Missing expects no accepted response.
	Missing bool `yaml:"missing,omitempty"`

	// Key is the expected physical key.
	Key string `yaml:"key,omitempty"`

	// Response is the expected category of the pressed key.
	Response string `yaml:"response,omitempty"`

	// RT is the expected reaction time in milliseconds.
	RT *int `yaml:"rt,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML. Settings start from config.Defaults.
func ParseScenario(data []byte) (*Scenario, error) {
	scenario := Scenario{Settings: config.Defaults()}

	// Strict decoding catches typos like "respones:"
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if err := config.Validate(s.Settings); err != nil {
		return fmt.Errorf("settings: %w", err)
	}

	switch {
	case len(s.Trials) > 0 && s.Design != nil:
		return fmt.Errorf("trials and design are mutually exclusive")
	case len(s.Trials) == 0 && s.Design == nil:
		return fmt.Errorf("one of trials or design is required")
	}

	trials := make(map[int]bool)
	for i, step := range s.Trials {
		if step.Image == "" || step.StimulusID == "" {
			return fmt.Errorf("trials[%d]: image and stimulus_id are required", i)
		}
		if trials[step.Trial] {
			return fmt.Errorf("trials[%d]: duplicate trial number %d", i, step.Trial)
		}
		trials[step.Trial] = true
	}

	if s.Design != nil && (s.Design.Practice < 0 || s.Design.Main < 0) {
		return fmt.Errorf("design: block sizes must be non-negative")
	}

	if k := s.KeyAssignment; k != nil {
		if k.Cat == k.Dog {
			return fmt.Errorf("key_assignment: cat and dog keys must differ")
		}
		for _, key := range []string{k.Cat, k.Dog} {
			if key != s.Settings.Keys[0] && key != s.Settings.Keys[1] {
				return fmt.Errorf("key_assignment: %q is not a response key", key)
			}
		}
	}

	for i, r := range s.Responses {
		if (r.Response == "") == (r.Key == "") {
			return fmt.Errorf("responses[%d]: exactly one of response or key is required", i)
		}
		if r.Response != "" && !isTarget(r.Response) {
			return fmt.Errorf("responses[%d]: response must be Cat or Dog, got %q", i, r.Response)
		}
	}

	for i, e := range s.Expect {
		if e.Missing && (e.Key != "" || e.Response != "" || e.RT != nil) {
			return fmt.Errorf("expect[%d]: missing excludes key, response and rt", i)
		}
		if e.Response != "" && !isTarget(e.Response) {
			return fmt.Errorf("expect[%d]: response must be Cat or Dog, got %q", i, e.Response)
		}
	}

	return nil
}

func isTarget(s string) bool {
	return strings.EqualFold(s, string(design.CategoryCat)) || strings.EqualFold(s, string(design.CategoryDog))
}

// category parses a target category name case-insensitively.
func category(s string) design.Category {
	if strings.EqualFold(s, string(design.CategoryCat)) {
		return design.CategoryCat
	}
	return design.CategoryDog
}
