package repository

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"lingua-bot/internal/domain"
	"lingua-bot/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// PlanRepository implements domain.PlanStore. Each Set overwrites the user's plan.
type PlanRepository struct {
	db *sqlx.DB
	mu sync.Mutex
}

func NewPlanRepository(db *sqlx.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Set(ctx context.Context, userID int64, plan string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `INSERT INTO plans (user_id, plan) VALUES (:user_id, :plan)
	          ON CONFLICT(user_id) DO UPDATE SET plan = excluded.plan`
	if _, err := r.db.NamedExecContext(ctx, query, &models.Plan{UserID: userID, Plan: plan}); err != nil {
		return domain.NewPersistenceError("save plan", err)
	}
	return nil
}

func (r *PlanRepository) Get(ctx context.Context, userID int64) (string, bool, error) {
	var row models.Plan
	err := r.db.GetContext(ctx, &row, `SELECT user_id, plan FROM plans WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, domain.NewPersistenceError("get plan", err)
	}
	return row.Plan, true, nil
}
