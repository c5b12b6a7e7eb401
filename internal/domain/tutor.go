package domain

import "context"

// Assessment is a proficiency assessment of one paragraph.
type Assessment struct {
	Level       string
	Explanation string
}

// Introduction is the name and age extracted from a self-introduction.
type Introduction struct {
	Name string
	Age  string
}

// EssayEvaluation is the feedback on a submitted essay. Score is 0..10.
type EssayEvaluation struct {
	Feedback string
	Score    int
}

// LessonKind selects a generated lesson.
type LessonKind string

const (
	LessonListening LessonKind = "listening"
	LessonReading   LessonKind = "reading"
)

// Tutor is the language-model collaborator. Failures are DomainErrors with
// ErrLLMServiceError or ErrExtractionAmbiguity.
type Tutor interface {
	AssessProficiency(ctx context.Context, paragraph string, lang Language) (*Assessment, error)
	GenerateTopics(ctx context.Context, paragraph, level string, lang Language) (string, error)
	ExtractIntroduction(ctx context.Context, text string) (*Introduction, error)
	GenerateEssayTopic(ctx context.Context, level string, lang Language) (string, error)
	EvaluateEssay(ctx context.Context, topic, essay, level string, lang Language) (*EssayEvaluation, error)
	GenerateLesson(ctx context.Context, kind LessonKind, level string, lang Language) (string, error)
}

// Notifier delivers the daily reminder to one user.
type Notifier interface {
	Notify(ctx context.Context, user *UserRecord) error
}
