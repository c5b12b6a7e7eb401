package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"lingua-bot/internal/domain"
	"lingua-bot/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

const essayTopicColumns = `essay_id, user_id, topic, status`

// EssayTopicRepository implements domain.EssayTopicStore. Records are never
// deleted, so essay ids are never reused.
type EssayTopicRepository struct {
	db  *sqlx.DB
	txm *TransactionManagerAdapter
	mu  sync.Mutex
}

func NewEssayTopicRepository(db *sqlx.DB) *EssayTopicRepository {
	return &EssayTopicRepository{db: db, txm: NewTransactionManagerAdapter(db)}
}

// Add allocates max(essay_id)+1 and appends the record as one serialized unit.
func (r *EssayTopicRepository) Add(ctx context.Context, userID int64, topic string, status domain.EssayStatus) (*domain.EssayTopic, error) {
	if _, ok := domain.ParseEssayStatus(string(status)); !ok {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid essay status: %q", status))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var created *domain.EssayTopic
	err := r.txm.WithTransaction(ctx, func(ctx context.Context) error {
		q := GetExecutor(ctx, r.db)

		var maxID int64
		if err := q.GetContext(ctx, &maxID, `SELECT COALESCE(MAX(essay_id), 0) FROM essay_topics`); err != nil {
			return fmt.Errorf("failed to read max essay id: %w", err)
		}

		row := &models.EssayTopic{EssayID: maxID + 1, UserID: userID, Topic: topic, Status: string(status)}
		query := `INSERT INTO essay_topics (` + essayTopicColumns + `) VALUES (:essay_id, :user_id, :topic, :status)`
		if _, err := q.NamedExecContext(ctx, query, row); err != nil {
			return fmt.Errorf("failed to insert essay topic: %w", err)
		}
		created = toDomainEssayTopic(row)
		return nil
	})
	if err != nil {
		return nil, domain.NewPersistenceError("add essay topic", err)
	}
	return created, nil
}

// Get returns (nil, nil) when no essay has the id.
func (r *EssayTopicRepository) Get(ctx context.Context, essayID int64) (*domain.EssayTopic, error) {
	var row models.EssayTopic
	query := `SELECT ` + essayTopicColumns + ` FROM essay_topics WHERE essay_id = ?`
	if err := r.db.GetContext(ctx, &row, query, essayID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewPersistenceError("get essay topic", err)
	}
	return toDomainEssayTopic(&row), nil
}

// ListActive returns the user's assigned essays in insertion order.
func (r *EssayTopicRepository) ListActive(ctx context.Context, userID int64) ([]*domain.EssayTopic, error) {
	var rows []models.EssayTopic
	query := `SELECT ` + essayTopicColumns + ` FROM essay_topics
	          WHERE user_id = ? AND status = ?
	          ORDER BY essay_id`
	if err := r.db.SelectContext(ctx, &rows, query, userID, string(domain.EssayAssigned)); err != nil {
		return nil, domain.NewPersistenceError("list active essays", err)
	}

	topics := make([]*domain.EssayTopic, 0, len(rows))
	for i := range rows {
		topics = append(topics, toDomainEssayTopic(&rows[i]))
	}
	return topics, nil
}

// UpdateStatus sets the status of the essay; an unknown id is a no-op.
func (r *EssayTopicRepository) UpdateStatus(ctx context.Context, essayID int64, status domain.EssayStatus) error {
	if _, ok := domain.ParseEssayStatus(string(status)); !ok {
		return domain.NewValidationError(fmt.Sprintf("invalid essay status: %q", status))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.db.ExecContext(ctx, `UPDATE essay_topics SET status = ? WHERE essay_id = ?`, string(status), essayID); err != nil {
		return domain.NewPersistenceError("update essay status", err)
	}
	return nil
}

func toDomainEssayTopic(m *models.EssayTopic) *domain.EssayTopic {
	if m == nil {
		return nil
	}
	return &domain.EssayTopic{
		EssayID: m.EssayID,
		UserID:  m.UserID,
		Topic:   m.Topic,
		Status:  domain.EssayStatus(m.Status),
	}
}
