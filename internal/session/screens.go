package session

import (
	"fmt"
	"strings"

	"github.com/roach88/maskprime/internal/design"
)

// Screens holds the instructional texts of a session.
// Every text that names a key is rendered from the session's KeyAssignment.
type Screens struct {
	Instructions string
	KeyMapping   string
	NextTrial    string
	PracticeOver string
}

const instructionsText = "On each trial of this experiment, you will see a + in the center of the screen. " +
	"Stare at the +. After a moment, an image will briefly appear and disappear, followed by " +
	"irrelevant scrambled images. Your job is to identify the image. You should try to make as " +
	"few mistakes as possible, but you should also always try to respond as fast as you can. " +
	"You will first do some practice trials.\n\nPress any key to continue."

const nextTrialText = "Press any key to start the next trial."

// NewScreens renders the screens for a key assignment.
// keys is the configured key order; the first key is described first.
func NewScreens(k design.KeyAssignment, keys [2]string) Screens {
	first, _ := k.Meaning(keys[0])
	second, _ := k.Meaning(keys[1])
	mapping := fmt.Sprintf("If the image is a %s press the %s key. If the image is a %s press the %s key.",
		first, strings.ToUpper(keys[0]), second, strings.ToUpper(keys[1]))

	return Screens{
		Instructions: instructionsText,
		KeyMapping: mapping + " Sometimes it may be hard to tell if the image is a cat or dog, " +
			"but you should go with your first impression.\nPress any key to continue.",
		NextTrial: nextTrialText,
		PracticeOver: "The practice is now over. Remember, " + strings.ToLower(mapping[:1]) + mapping[1:] +
			" You should try to make as few mistakes as possible, but you should also always try " +
			"to respond as fast as you can. Sometimes it may be hard to tell if the image is a cat " +
			"or dog, but you should go with your first impression.\n\nPress any key to start the experiment.",
	}
}
