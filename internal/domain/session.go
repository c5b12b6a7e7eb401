package domain

import "context"

// Stage is the step of a conversation a user is in.
type Stage string

const (
	StageLanguageSelection Stage = "LANGUAGE_SELECTION"
	StageAssessment        Stage = "ASSESSMENT"
	StageIntroduction      Stage = "INTRODUCTION"
	StageLearningMode      Stage = "LEARNING_MODE"
	StageEssayEvaluation   Stage = "ESSAY_EVALUATION"
)

// Onboarding reports whether the stage belongs to the setup wizard, before a
// profile exists.
func (s Stage) Onboarding() bool {
	switch s {
	case StageLanguageSelection, StageAssessment, StageIntroduction:
		return true
	}
	return false
}

// Session is the ephemeral per-user conversation state. A user without a
// Session has no active conversation.
type Session struct {
	Stage Stage `json:"stage"`
	// Paragraph is the last assessment paragraph, kept for topic generation.
	Paragraph string `json:"paragraph,omitempty"`
	// Assessed is set once an assessment for Paragraph completed.
	Assessed bool  `json:"assessed,omitempty"`
	EssayID  int64 `json:"essay_id,omitempty"`
}

// SessionStore owns the sessions. Get returns (nil, nil) when there is none.
type SessionStore interface {
	Get(ctx context.Context, userID int64) (*Session, error)
	Save(ctx context.Context, userID int64, session *Session) error
	Clear(ctx context.Context, userID int64) error
}
