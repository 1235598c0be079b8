package trial

// Phase is a state of the trial state machine.
type Phase int

const (
	PhaseFixation Phase = iota
	PhaseStimulus
	PhaseBlank
	PhaseMask
	PhaseResponse
	PhaseCollect
	PhaseFeedback
	PhaseDone

	// PhaseScreen is an instruction or pacing screen between trials.
	PhaseScreen
)

// FramePhases are the phases that present frames, in order.
var FramePhases = []Phase{PhaseFixation, PhaseStimulus, PhaseBlank, PhaseMask, PhaseResponse}

func (p Phase) String() string {
	switch p {
	case PhaseFixation:
		return "fixation"
	case PhaseStimulus:
		return "stimulus"
	case PhaseBlank:
		return "blank"
	case PhaseMask:
		return "mask"
	case PhaseResponse:
		return "response"
	case PhaseCollect:
		return "collect"
	case PhaseFeedback:
		return "feedback"
	case PhaseDone:
		return "done"
	case PhaseScreen:
		return "screen"
	default:
		return "unknown"
	}
}
