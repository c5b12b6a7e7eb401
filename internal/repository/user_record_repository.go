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

const userRecordColumns = `user_id, language, english_level, name, age, score`

// UserRecordRepository implements domain.UserRecordStore on sqlx.
type UserRecordRepository struct {
	db  *sqlx.DB
	txm *TransactionManagerAdapter
	// mu is the store's single writer lock.
	mu sync.Mutex
}

func NewUserRecordRepository(db *sqlx.DB) *UserRecordRepository {
	return &UserRecordRepository{db: db, txm: NewTransactionManagerAdapter(db)}
}

// LoadAll returns every record keyed by user id.
func (r *UserRecordRepository) LoadAll(ctx context.Context) (map[int64]*domain.UserRecord, error) {
	var rows []models.UserRecord
	query := `SELECT ` + userRecordColumns + ` FROM users ORDER BY user_id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, domain.NewPersistenceError("load user records", err)
	}

	users := make(map[int64]*domain.UserRecord, len(rows))
	for i := range rows {
		users[rows[i].UserID] = toDomainUserRecord(&rows[i])
	}
	return users, nil
}

func (r *UserRecordRepository) Get(ctx context.Context, userID int64) (*domain.UserRecord, error) {
	row, err := getUserRecord(ctx, r.db, userID)
	if err != nil {
		return nil, domain.NewPersistenceError("get user record", err)
	}
	return toDomainUserRecord(row), nil
}

// Upsert merges the non-empty fields of update onto the stored record.
func (r *UserRecordRepository) Upsert(ctx context.Context, userID int64, update domain.UserUpdate) (*domain.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var merged *domain.UserRecord
	err := r.txm.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		merged, err = mergeUserRecord(ctx, GetExecutor(ctx, r.db), userID, update)
		return err
	})
	if err != nil {
		return nil, domain.NewPersistenceError("upsert user record", err)
	}
	return merged, nil
}

func (r *UserRecordRepository) Delete(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = ?`, userID); err != nil {
		return domain.NewPersistenceError("delete user record", err)
	}
	return nil
}

// AwardScore reads, adds and writes the score in one transaction under the
// writer lock. Unknown users get a fresh record.
func (r *UserRecordRepository) AwardScore(ctx context.Context, userID int64, delta int) (int, error) {
	if delta < 0 {
		return 0, domain.NewValidationError(fmt.Sprintf("score delta must not be negative, got %d", delta))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var newScore int
	err := r.txm.WithTransaction(ctx, func(ctx context.Context) error {
		q := GetExecutor(ctx, r.db)
		current, err := getUserRecord(ctx, q, userID)
		if err != nil {
			return err
		}
		newScore = delta
		if current != nil {
			newScore += current.Score
		}
		_, err = mergeUserRecord(ctx, q, userID, domain.UserUpdate{Score: &newScore})
		return err
	})
	if err != nil {
		return 0, domain.NewPersistenceError("award score", err)
	}
	return newScore, nil
}

func mergeUserRecord(ctx context.Context, q DBTX, userID int64, update domain.UserUpdate) (*domain.UserRecord, error) {
	current, err := getUserRecord(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	merged := toDomainUserRecord(current).Merge(userID, update)

	query := `INSERT INTO users (` + userRecordColumns + `)
	          VALUES (:user_id, :language, :english_level, :name, :age, :score)
	          ON CONFLICT(user_id) DO UPDATE SET
	              language = excluded.language,
	              english_level = excluded.english_level,
	              name = excluded.name,
	              age = excluded.age,
	              score = excluded.score`
	if _, err := q.NamedExecContext(ctx, query, fromDomainUserRecord(merged)); err != nil {
		return nil, fmt.Errorf("failed to write user record: %w", err)
	}
	return merged, nil
}

func getUserRecord(ctx context.Context, q DBTX, userID int64) (*models.UserRecord, error) {
	var row models.UserRecord
	query := `SELECT ` + userRecordColumns + ` FROM users WHERE user_id = ?`
	if err := q.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user record: %w", err)
	}
	return &row, nil
}

func toDomainUserRecord(m *models.UserRecord) *domain.UserRecord {
	if m == nil {
		return nil
	}
	return &domain.UserRecord{
		UserID:       m.UserID,
		Language:     domain.Language(m.Language),
		EnglishLevel: m.EnglishLevel,
		Name:         m.Name,
		Age:          m.Age,
		Score:        m.Score,
	}
}

func fromDomainUserRecord(u *domain.UserRecord) *models.UserRecord {
	if u == nil {
		return nil
	}
	return &models.UserRecord{
		UserID:       u.UserID,
		Language:     string(u.Language),
		EnglishLevel: u.EnglishLevel,
		Name:         u.Name,
		Age:          u.Age,
		Score:        u.Score,
	}
}
