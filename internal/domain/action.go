package domain

// Action is the closed set of inbound event kinds. Button actions double as
// their callback payloads.
type Action string

const (
	ActionStart  Action = "start"
	ActionCancel Action = "cancel"
	ActionLesson Action = "lesson"
	ActionText   Action = "text"

	ActionRetakeAssessment   Action = "retake_assessment"
	ActionContinueSetup      Action = "continue_setup"
	ActionFinishSetup        Action = "finish_setup"
	ActionCancelRegistration Action = "cancel_registration"

	ActionStartListening         Action = "start_listening"
	ActionStartReading           Action = "start_reading"
	ActionGenerateNewEssay       Action = "generate_new_essay"
	ActionStartWritingAssignment Action = "start_writing_assignment"
)

// TaskMenu is the set of learning tasks offered after setup.
var TaskMenu = []Action{
	ActionStartListening,
	ActionStartReading,
	ActionGenerateNewEssay,
	ActionStartWritingAssignment,
}

var callbackActions = map[Action]struct{}{
	ActionRetakeAssessment:       {},
	ActionContinueSetup:          {},
	ActionFinishSetup:            {},
	ActionCancelRegistration:     {},
	ActionStartListening:         {},
	ActionStartReading:           {},
	ActionGenerateNewEssay:       {},
	ActionStartWritingAssignment: {},
}

// ParseCallbackAction maps button payloads back to actions. Commands and free
// text are never accepted here.
func ParseCallbackAction(data string) (Action, bool) {
	a := Action(data)
	if _, ok := callbackActions[a]; ok {
		return a, true
	}
	return "", false
}

// Event is one inbound conversation event.
type Event struct {
	UserID int64
	ChatID int64
	Action Action
	Text   string
}
