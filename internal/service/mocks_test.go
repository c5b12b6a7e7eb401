package service

import (
	"context"
	"time"

	"lingua-bot/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockUserRecordStore ---
type MockUserRecordStore struct {
	mock.Mock
}

func (m *MockUserRecordStore) LoadAll(ctx context.Context) (map[int64]*domain.UserRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]*domain.UserRecord), args.Error(1)
}

func (m *MockUserRecordStore) Get(ctx context.Context, userID int64) (*domain.UserRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserRecord), args.Error(1)
}

func (m *MockUserRecordStore) Upsert(ctx context.Context, userID int64, update domain.UserUpdate) (*domain.UserRecord, error) {
	args := m.Called(ctx, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserRecord), args.Error(1)
}

func (m *MockUserRecordStore) Delete(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRecordStore) AwardScore(ctx context.Context, userID int64, delta int) (int, error) {
	args := m.Called(ctx, userID, delta)
	return args.Int(0), args.Error(1)
}

// --- MockPlanStore ---
type MockPlanStore struct {
	mock.Mock
}

func (m *MockPlanStore) Set(ctx context.Context, userID int64, plan string) error {
	args := m.Called(ctx, userID, plan)
	return args.Error(0)
}

func (m *MockPlanStore) Get(ctx context.Context, userID int64) (string, bool, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Bool(1), args.Error(2)
}

// --- MockTutor ---
type MockTutor struct {
	mock.Mock
}

func (m *MockTutor) AssessProficiency(ctx context.Context, paragraph string, lang domain.Language) (*domain.Assessment, error) {
	args := m.Called(ctx, paragraph, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assessment), args.Error(1)
}

func (m *MockTutor) GenerateTopics(ctx context.Context, paragraph, level string, lang domain.Language) (string, error) {
	args := m.Called(ctx, paragraph, level, lang)
	return args.String(0), args.Error(1)
}

func (m *MockTutor) ExtractIntroduction(ctx context.Context, text string) (*domain.Introduction, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Introduction), args.Error(1)
}

func (m *MockTutor) GenerateEssayTopic(ctx context.Context, level string, lang domain.Language) (string, error) {
	args := m.Called(ctx, level, lang)
	return args.String(0), args.Error(1)
}

func (m *MockTutor) EvaluateEssay(ctx context.Context, topic, essay, level string, lang domain.Language) (*domain.EssayEvaluation, error) {
	args := m.Called(ctx, topic, essay, level, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EssayEvaluation), args.Error(1)
}

func (m *MockTutor) GenerateLesson(ctx context.Context, kind domain.LessonKind, level string, lang domain.Language) (string, error) {
	args := m.Called(ctx, kind, level, lang)
	return args.String(0), args.Error(1)
}

// --- MockNotifier ---
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, user *domain.UserRecord) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// --- MockLocker ---
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocker) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
