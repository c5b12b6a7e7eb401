package domain

import "context"

// UserRecordStore persists learner profiles. Every mutation is serialized
// per store.
type UserRecordStore interface {
	LoadAll(ctx context.Context) (map[int64]*UserRecord, error)
	// Get returns (nil, nil) when the user has no record.
	Get(ctx context.Context, userID int64) (*UserRecord, error)
	Upsert(ctx context.Context, userID int64, update UserUpdate) (*UserRecord, error)
	Delete(ctx context.Context, userID int64) error
	// AwardScore adds delta to the user's score in one critical section and
	// returns the new score.
	AwardScore(ctx context.Context, userID int64, delta int) (int, error)
}

// PlanStore keeps the latest generated study plan per user.
type PlanStore interface {
	Set(ctx context.Context, userID int64, plan string) error
	Get(ctx context.Context, userID int64) (plan string, found bool, err error)
}

// EssayTopicStore is the append-mostly log of essay assignments.
type EssayTopicStore interface {
	Add(ctx context.Context, userID int64, topic string, status EssayStatus) (*EssayTopic, error)
	Get(ctx context.Context, essayID int64) (*EssayTopic, error)
	ListActive(ctx context.Context, userID int64) ([]*EssayTopic, error)
	UpdateStatus(ctx context.Context, essayID int64, status EssayStatus) error
}
