package session

import (
	"math/rand/v2"

	"github.com/roach88/maskprime/internal/config"
	"github.com/roach88/maskprime/internal/design"
)

// NewSession draws the subject id and key assignment once and derives the
// phase timings. settings must already be validated.
func NewSession(settings config.Settings, subjects SubjectIDGenerator, rng *rand.Rand) (config.Session, error) {
	timings, err := config.NewPhaseTimings(settings)
	if err != nil {
		return config.Session{}, err
	}

	keys := [2]string{settings.Keys[0], settings.Keys[1]}
	return config.Session{
		SubjectID: subjects.Generate(),
		Keys:      design.DrawKeyAssignment(rng, keys),
		Timings:   timings,
		MaskSize:  settings.Display.MaskSize,
		ImageSize: settings.Display.ImageSize,
		Practice:  settings.Design.Practice,
		Main:      settings.Design.Main,
	}, nil
}
