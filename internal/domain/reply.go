package domain

// MessageKey names a localized message template.
type MessageKey string

const (
	MsgWelcome               MessageKey = "welcome"
	MsgInvalidLanguage       MessageKey = "invalid_language"
	MsgAlreadySetUp          MessageKey = "already_set_up"
	MsgSendParagraph         MessageKey = "send_paragraph"
	MsgAssessmentResults     MessageKey = "assessment_results"
	MsgChooseOption          MessageKey = "choose_option"
	MsgRetakeAssessment      MessageKey = "retake_assessment"
	MsgPersonalizedTopics    MessageKey = "personalized_topics"
	MsgIntroducePrompt       MessageKey = "introduce_prompt"
	MsgIntroductionRecorded  MessageKey = "introduction_recorded"
	MsgIntroductionError     MessageKey = "introduction_error"
	MsgProceedToLearning     MessageKey = "proceed_to_learning"
	MsgSetupComplete         MessageKey = "setup_complete"
	MsgTaskMenu              MessageKey = "task_menu"
	MsgRegistrationCancelled MessageKey = "registration_cancelled"
	MsgCancel                MessageKey = "cancel"
	MsgError                 MessageKey = "error"
	MsgStartHint             MessageKey = "start_hint"
	MsgLesson                MessageKey = "lesson"
	MsgEssayAssigned         MessageKey = "essay_assigned"
	MsgEssayResumed          MessageKey = "essay_resumed"
	MsgEssayFeedback         MessageKey = "essay_feedback"
	MsgEssayUnavailable      MessageKey = "essay_unavailable"
	MsgPointsAwarded         MessageKey = "points_awarded"
	MsgReminder              MessageKey = "reminder"
)

// Message is one outbound message, independent of any transport. Params fill
// template placeholders, Body is generated text shown verbatim.
type Message struct {
	Key            MessageKey
	Params         map[string]string
	Body           string
	Choices        []Action
	Languages      bool
	RemoveKeyboard bool
}

// Reply is everything the bot answers to one event.
type Reply struct {
	Language Language
	Messages []Message
}

func NewReply(lang Language, msgs ...Message) *Reply {
	return &Reply{Language: lang, Messages: msgs}
}
