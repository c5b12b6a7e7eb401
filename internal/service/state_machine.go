package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"lingua-bot/internal/domain"

	"go.uber.org/zap"
)

// StateMachine drives the onboarding wizard and the learning tasks. It owns the
// sessions; the stores are shared with other conversations and the broadcast.
type StateMachine struct {
	users      domain.UserRecordStore
	plans      domain.PlanStore
	essays     domain.EssayTopicStore
	sessions   domain.SessionStore
	tutor      domain.Tutor
	llmTimeout time.Duration
	logger     *zap.Logger
}

func NewStateMachine(
	users domain.UserRecordStore,
	plans domain.PlanStore,
	essays domain.EssayTopicStore,
	sessions domain.SessionStore,
	tutor domain.Tutor,
	llmTimeout time.Duration,
	logger *zap.Logger,
) *StateMachine {
	return &StateMachine{
		users:      users,
		plans:      plans,
		essays:     essays,
		sessions:   sessions,
		tutor:      tutor,
		llmTimeout: llmTimeout,
		logger:     logger,
	}
}

// Handle processes one event for one user. Recoverable failures become
// localized replies; persistence failures are returned and nothing is
// reported as done.
func (m *StateMachine) Handle(ctx context.Context, ev domain.Event) (*domain.Reply, error) {
	sess, err := m.sessions.Get(ctx, ev.UserID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load session", err)
	}
	user, err := m.users.Get(ctx, ev.UserID)
	if err != nil {
		return nil, err
	}

	switch ev.Action {
	case domain.ActionStart:
		return m.start(ctx, ev.UserID, user)
	case domain.ActionCancel:
		if err := m.clearSession(ctx, ev.UserID); err != nil {
			return nil, err
		}
		return domain.NewReply(user.LanguageOrDefault(), domain.Message{Key: domain.MsgCancel, RemoveKeyboard: true}), nil
	case domain.ActionCancelRegistration:
		return m.cancelRegistration(ctx, ev.UserID, user)
	case domain.ActionLesson:
		return m.taskMenu(user, domain.MsgTaskMenu), nil
	case domain.ActionRetakeAssessment:
		return m.retake(ctx, ev.UserID, sess, user)
	case domain.ActionContinueSetup:
		return m.continueSetup(ctx, ev.UserID, sess, user)
	case domain.ActionFinishSetup:
		return m.finishSetup(ctx, ev.UserID, sess, user)
	case domain.ActionStartListening:
		return m.lesson(ctx, ev.UserID, sess, user, domain.LessonListening)
	case domain.ActionStartReading:
		return m.lesson(ctx, ev.UserID, sess, user, domain.LessonReading)
	case domain.ActionGenerateNewEssay:
		return m.newEssay(ctx, ev.UserID, sess, user)
	case domain.ActionStartWritingAssignment:
		return m.writingAssignment(ctx, ev.UserID, sess, user)
	case domain.ActionText:
		return m.text(ctx, ev, sess, user)
	default:
		return nil, domain.NewValidationError(fmt.Sprintf("unknown action %q", ev.Action))
	}
}

func (m *StateMachine) start(ctx context.Context, userID int64, user *domain.UserRecord) (*domain.Reply, error) {
	lang := user.LanguageOrDefault()
	if user.HasProfile() {
		return domain.NewReply(lang, domain.Message{Key: domain.MsgAlreadySetUp}), nil
	}
	if err := m.saveSession(ctx, userID, &domain.Session{Stage: domain.StageLanguageSelection}); err != nil {
		return nil, err
	}
	return domain.NewReply(lang, domain.Message{Key: domain.MsgWelcome, Languages: true}), nil
}

func (m *StateMachine) cancelRegistration(ctx context.Context, userID int64, user *domain.UserRecord) (*domain.Reply, error) {
	lang := user.LanguageOrDefault()
	if err := m.users.Delete(ctx, userID); err != nil {
		return nil, err
	}
	if err := m.saveSession(ctx, userID, &domain.Session{Stage: domain.StageLanguageSelection}); err != nil {
		return nil, err
	}
	m.logger.Info("Registration cancelled", zap.Int64("user_id", userID))
	return domain.NewReply(lang,
		domain.Message{Key: domain.MsgRegistrationCancelled},
		domain.Message{Key: domain.MsgWelcome, Languages: true},
	), nil
}

func (m *StateMachine) text(ctx context.Context, ev domain.Event, sess *domain.Session, user *domain.UserRecord) (*domain.Reply, error) {
	lang := user.LanguageOrDefault()
	if sess == nil {
		return domain.NewReply(lang, domain.Message{Key: domain.MsgStartHint}), nil
	}

	switch sess.Stage {
	case domain.StageLanguageSelection:
		return m.selectLanguage(ctx, ev.UserID, ev.Text)
	case domain.StageAssessment:
		return m.assess(ctx, ev.UserID, sess, lang, ev.Text)
	case domain.StageIntroduction:
		return m.introduce(ctx, ev.UserID, lang, ev.Text)
	case domain.StageLearningMode:
		return domain.NewReply(lang, proceedToLearning()), nil
	case domain.StageEssayEvaluation:
		return m.evaluateEssay(ctx, ev.UserID, sess, user, ev.Text)
	default:
		m.logger.Warn("Unknown session stage, clearing", zap.Int64("user_id", ev.UserID), zap.String("stage", string(sess.Stage)))
		if err := m.clearSession(ctx, ev.UserID); err != nil {
			return nil, err
		}
		return domain.NewReply(lang, domain.Message{Key: domain.MsgStartHint}), nil
	}
}

func (m *StateMachine) selectLanguage(ctx context.Context, userID int64, text string) (*domain.Reply, error) {
	lang, ok := domain.ParseLanguage(text)
	if !ok {
		return domain.NewReply(domain.DefaultLanguage, domain.Message{Key: domain.MsgInvalidLanguage, Languages: true}), nil
	}
	if _, err := m.users.Upsert(ctx, userID, domain.UserUpdate{Language: lang}); err != nil {
		return nil, err
	}
	if err := m.saveSession(ctx, userID, &domain.Session{Stage: domain.StageAssessment}); err != nil {
		return nil, err
	}
	return domain.NewReply(lang, domain.Message{Key: domain.MsgSendParagraph, RemoveKeyboard: true}), nil
}

func (m *StateMachine) assess(ctx context.Context, userID int64, sess *domain.Session, lang domain.Language, paragraph string) (*domain.Reply, error) {
	paragraph = strings.TrimSpace(paragraph)
	if paragraph == "" {
		return domain.NewReply(lang, domain.Message{Key: domain.MsgSendParagraph}), nil
	}

	next := &domain.Session{Stage: domain.StageAssessment, Paragraph: paragraph}
	if err := m.saveSession(ctx, userID, next); err != nil {
		return nil, err
	}

	llmCtx, cancel := context.WithTimeout(ctx, m.llmTimeout)
	assessment, err := m.tutor.AssessProficiency(llmCtx, paragraph, lang)
	cancel()
	if err != nil {
		return m.collaboratorFailure(userID, lang, "assess_proficiency", err), nil
	}

	if _, err := m.users.Upsert(ctx, userID, domain.UserUpdate{EnglishLevel: assessment.Level}); err != nil {
		return nil, err
	}
	next.Assessed = true
	if err := m.saveSession(ctx, userID, next); err != nil {
		return nil, err
	}

	return domain.NewReply(lang,
		domain.Message{
			Key:    domain.MsgAssessmentResults,
			Params: map[string]string{"level": assessment.Level},
			Body:   assessment.Explanation,
		},
		domain.Message{
			Key:     domain.MsgChooseOption,
			Choices: []domain.Action{domain.ActionRetakeAssessment, domain.ActionContinueSetup},
		},
	), nil
}

func (m *StateMachine) retake(ctx context.Context, userID int64, sess *domain.Session, user *domain.UserRecord) (*domain.Reply, error) {
	lang := user.LanguageOrDefault()
	if sess == nil || sess.Stage != domain.StageAssessment {
		return domain.NewReply(lang, domain.Message{Key: domain.MsgStartHint}), nil
	}
	if err := m.saveSession(ctx, userID, &domain.Session{Stage: domain.StageAssessment}); err != nil {
		return nil, err
	}
	return domain.NewReply(lang, domain.Message{Key: domain.MsgRetakeAssessment, RemoveKeyboard: true}), nil
}

func (m *StateMachine) continueSetup(ctx context.Context, userID int64, sess *domain.Session, user *domain.UserRecord) (*domain.Reply, error) {
	lang := user.LanguageOrDefault()
	if sess == nil || sess.Stage != domain.StageAssessment {
		return domain.NewReply(lang, domain.Message{Key: domain.MsgStartHint}), nil
	}
	if !sess.Assessed {
		return domain.NewReply(lang, domain.Message{Key: domain.MsgSendParagraph}), nil
	}

	llmCtx, cancel := context.WithTimeout(ctx, m.llmTimeout)
	topics, err := m.tutor.GenerateTopics(llmCtx, sess.Paragraph, user.LevelOrUnknown(), lang)
	cancel()
	if err != nil {
		return m.collaboratorFailure(userID, lang, "generate_topics", err), nil
	}

	if err := m.plans.Set(ctx, userID, topics); err != nil {
		return nil, err
	}
	if err := m.saveSession(ctx, userID, &domain.Session{Stage: domain.StageIntroduction}); err != nil {
		return nil, err
	}
	return domain.NewReply(lang,
		domain.Message{Key: domain.MsgPersonalizedTopics, Body: topics, RemoveKeyboard: true},
		domain.Message{Key: domain.MsgIntroducePrompt},
	), nil
}

func (m *StateMachine) introduce(ctx context.Context, userID int64, lang domain.Language, text string) (*domain.Reply, error) {
	if strings.TrimSpace(text) == "" {
		return domain.NewReply(lang, domain.Message{Key: domain.MsgIntroductionError}), nil
	}

	llmCtx, cancel := context.WithTimeout(ctx, m.llmTimeout)
	intro, err := m.tutor.ExtractIntroduction(llmCtx, text)
	cancel()
	if err != nil {
		if domain.CodeOf(err) == domain.ErrExtractionAmbiguity {
			return domain.NewReply(lang, domain.Message{Key: domain.MsgIntroductionError}), nil
		}
		return m.collaboratorFailure(userID, lang, "extract_introduction", err), nil
	}

	if _, err := m.users.Upsert(ctx, userID, domain.UserUpdate{Name: intro.Name, Age: intro.Age}); err != nil {
		return nil, err
	}
	if err := m.saveSession(ctx, userID, &domain.Session{Stage: domain.StageLearningMode}); err != nil {
		return nil, err
	}
	return domain.NewReply(lang,
		domain.Message{
			Key:    domain.MsgIntroductionRecorded,
			Params: map[string]string{"name": intro.Name, "age": intro.Age},
		},
		proceedToLearning(),
	), nil
}

func proceedToLearning() domain.Message {
	return domain.Message{Key: domain.MsgProceedToLearning, Choices: []domain.Action{domain.ActionFinishSetup}}
}

func (m *StateMachine) finishSetup(ctx context.Context, userID int64, sess *domain.Session, user *domain.UserRecord) (*domain.Reply, error) {
	if sess != nil && sess.Stage == domain.StageLearningMode {
		if err := m.clearSession(ctx, userID); err != nil {
			return nil, err
		}
		return m.taskMenu(user, domain.MsgSetupComplete), nil
	}
	return m.taskMenu(user, domain.MsgTaskMenu), nil
}

// taskMenu offers the learning tasks to users with a complete profile.
func (m *StateMachine) taskMenu(user *domain.UserRecord, key domain.MessageKey) *domain.Reply {
	lang := user.LanguageOrDefault()
	if !user.HasProfile() {
		return domain.NewReply(lang, domain.Message{Key: domain.MsgStartHint})
	}
	choices := make([]domain.Action, 0, len(domain.TaskMenu)+1)
	choices = append(choices, domain.TaskMenu...)
	choices = append(choices, domain.ActionCancelRegistration)
	return domain.NewReply(lang, domain.Message{Key: key, Choices: choices})
}

// taskBlocked returns the start hint while onboarding is unfinished. The wizard
// session is left as is.
func taskBlocked(sess *domain.Session, user *domain.UserRecord) *domain.Reply {
	if user.HasProfile() && (sess == nil || !sess.Stage.Onboarding()) {
		return nil
	}
	return domain.NewReply(user.LanguageOrDefault(), domain.Message{Key: domain.MsgStartHint})
}

func (m *StateMachine) lesson(ctx context.Context, userID int64, sess *domain.Session, user *domain.UserRecord, kind domain.LessonKind) (*domain.Reply, error) {
	if reply := taskBlocked(sess, user); reply != nil {
		return reply, nil
	}
	lang := user.LanguageOrDefault()

	llmCtx, cancel := context.WithTimeout(ctx, m.llmTimeout)
	content, err := m.tutor.GenerateLesson(llmCtx, kind, user.LevelOrUnknown(), lang)
	cancel()
	if err != nil {
		return m.collaboratorFailure(userID, lang, "generate_lesson", err), nil
	}

	score, err := m.users.AwardScore(ctx, userID, LessonPoints)
	if err != nil {
		return nil, err
	}
	return domain.NewReply(lang,
		domain.Message{Key: domain.MsgLesson, Body: content},
		pointsAwarded(LessonPoints, score),
	), nil
}

// LessonPoints is awarded for each generated listening or reading lesson.
const LessonPoints = 1

func pointsAwarded(points, total int) domain.Message {
	return domain.Message{
		Key:    domain.MsgPointsAwarded,
		Params: map[string]string{"points": strconv.Itoa(points), "score": strconv.Itoa(total)},
	}
}

func (m *StateMachine) writingAssignment(ctx context.Context, userID int64, sess *domain.Session, user *domain.UserRecord) (*domain.Reply, error) {
	if reply := taskBlocked(sess, user); reply != nil {
		return reply, nil
	}
	active, err := m.essays.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return m.newEssay(ctx, userID, sess, user)
	}

	latest := active[len(active)-1]
	if err := m.saveSession(ctx, userID, &domain.Session{Stage: domain.StageEssayEvaluation, EssayID: latest.EssayID}); err != nil {
		return nil, err
	}
	return domain.NewReply(user.LanguageOrDefault(), domain.Message{
		Key:    domain.MsgEssayResumed,
		Params: map[string]string{"topic": latest.Topic},
	}), nil
}

// newEssay generates a topic, expires earlier open assignments and waits for
// the essay text.
func (m *StateMachine) newEssay(ctx context.Context, userID int64, sess *domain.Session, user *domain.UserRecord) (*domain.Reply, error) {
	if reply := taskBlocked(sess, user); reply != nil {
		return reply, nil
	}
	lang := user.LanguageOrDefault()

	llmCtx, cancel := context.WithTimeout(ctx, m.llmTimeout)
	topic, err := m.tutor.GenerateEssayTopic(llmCtx, user.LevelOrUnknown(), lang)
	cancel()
	if err != nil {
		return m.collaboratorFailure(userID, lang, "generate_essay_topic", err), nil
	}

	active, err := m.essays.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, essay := range active {
		if err := m.essays.UpdateStatus(ctx, essay.EssayID, domain.EssayExpired); err != nil {
			return nil, err
		}
	}

	essay, err := m.essays.Add(ctx, userID, topic, domain.EssayAssigned)
	if err != nil {
		return nil, err
	}
	if err := m.saveSession(ctx, userID, &domain.Session{Stage: domain.StageEssayEvaluation, EssayID: essay.EssayID}); err != nil {
		return nil, err
	}
	m.logger.Info("Essay assigned", zap.Int64("user_id", userID), zap.Int64("essay_id", essay.EssayID))
	return domain.NewReply(lang, domain.Message{
		Key:    domain.MsgEssayAssigned,
		Params: map[string]string{"topic": essay.Topic},
	}), nil
}

func (m *StateMachine) evaluateEssay(ctx context.Context, userID int64, sess *domain.Session, user *domain.UserRecord, text string) (*domain.Reply, error) {
	lang := user.LanguageOrDefault()
	essay, err := m.essays.Get(ctx, sess.EssayID)
	if err != nil {
		return nil, err
	}
	if essay == nil || essay.UserID != userID || essay.Status != domain.EssayAssigned {
		if err := m.clearSession(ctx, userID); err != nil {
			return nil, err
		}
		return domain.NewReply(lang, domain.Message{Key: domain.MsgEssayUnavailable}), nil
	}
	if strings.TrimSpace(text) == "" {
		return domain.NewReply(lang, domain.Message{Key: domain.MsgEssayResumed, Params: map[string]string{"topic": essay.Topic}}), nil
	}

	llmCtx, cancel := context.WithTimeout(ctx, m.llmTimeout)
	eval, err := m.tutor.EvaluateEssay(llmCtx, essay.Topic, text, user.LevelOrUnknown(), lang)
	cancel()
	if err != nil {
		return m.collaboratorFailure(userID, lang, "evaluate_essay", err), nil
	}

	if err := m.essays.UpdateStatus(ctx, essay.EssayID, domain.EssayCompleted); err != nil {
		return nil, err
	}
	total := 0
	if user != nil {
		total = user.Score
	}
	if eval.Score > 0 {
		if total, err = m.users.AwardScore(ctx, userID, eval.Score); err != nil {
			return nil, err
		}
	}
	if err := m.clearSession(ctx, userID); err != nil {
		return nil, err
	}
	return domain.NewReply(lang,
		domain.Message{
			Key:    domain.MsgEssayFeedback,
			Params: map[string]string{"score": strconv.Itoa(eval.Score)},
			Body:   eval.Feedback,
		},
		pointsAwarded(eval.Score, total),
	), nil
}

// collaboratorFailure leaves the session untouched and shows the generic
// localized error.
func (m *StateMachine) collaboratorFailure(userID int64, lang domain.Language, operation string, err error) *domain.Reply {
	m.logger.Warn("Tutor call failed",
		zap.Int64("user_id", userID),
		zap.String("operation", operation),
		zap.String("code", string(domain.CodeOf(err))),
		zap.Error(err))
	return domain.NewReply(lang, domain.Message{Key: domain.MsgError})
}

func (m *StateMachine) saveSession(ctx context.Context, userID int64, sess *domain.Session) error {
	if err := m.sessions.Save(ctx, userID, sess); err != nil {
		return domain.NewInternalError("Failed to save session", err)
	}
	return nil
}

func (m *StateMachine) clearSession(ctx context.Context, userID int64) error {
	if err := m.sessions.Clear(ctx, userID); err != nil {
		return domain.NewInternalError("Failed to clear session", err)
	}
	return nil
}
