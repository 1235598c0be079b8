package config

import "github.com/roach88/maskprime/internal/design"

// Session holds everything fixed at session start.
type Session struct {
	SubjectID string
	Keys      design.KeyAssignment
	Timings   PhaseTimings

	MaskSize  int
	ImageSize int

	Practice int
	Main     int
}
