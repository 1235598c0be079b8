package trial

import (
	"math"
	"strconv"
	"time"

	"github.com/roach88/maskprime/internal/design"
)

// MissingValue marks an absent response or reaction time in output rows.
const MissingValue = "NA"

// Result is a TrialSpec with the observed response merged in.
type Result struct {
	design.TrialSpec

	SubjectID string `json:"subject_id"`

	// Response is the physical key pressed. Empty when Responded is false.
	Response string `json:"response,omitempty"`

	// RT is the reaction time from stimulus onset in whole milliseconds.
	// Meaningless when Responded is false.
	RT int `json:"rt,omitempty"`

	Responded bool `json:"responded"`
}

// ResponseField renders Response for a result table.
func (r Result) ResponseField() string {
	if !r.Responded {
		return MissingValue
	}
	return r.Response
}

// RTField renders RT for a result table.
func (r Result) RTField() string {
	if !r.Responded {
		return MissingValue
	}
	return strconv.Itoa(r.RT)
}

// Milliseconds rounds a duration to whole milliseconds.
func Milliseconds(d time.Duration) int {
	return int(math.Round(float64(d) / float64(time.Millisecond)))
}
