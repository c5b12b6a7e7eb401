package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionManager_CommitAndRollback(t *testing.T) {
	db := newTestDB(t)
	txm := NewTransactionManagerAdapter(db)
	ctx := context.Background()

	err := txm.WithTransaction(ctx, func(ctx context.Context) error {
		_, err := GetExecutor(ctx, db).ExecContext(ctx, `INSERT INTO plans (user_id, plan) VALUES (1, 'kept')`)
		return err
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = txm.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := GetExecutor(ctx, db).ExecContext(ctx, `INSERT INTO plans (user_id, plan) VALUES (2, 'dropped')`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM plans`))
	assert.Equal(t, 1, count)
}

func TestTransactionManager_NestedReusesTransaction(t *testing.T) {
	db := newTestDB(t)
	txm := NewTransactionManagerAdapter(db)

	err := txm.WithTransaction(context.Background(), func(outer context.Context) error {
		outerTx := GetExecutor(outer, db)
		_, isTx := outerTx.(*sqlx.Tx)
		assert.True(t, isTx)

		return txm.WithTransaction(outer, func(inner context.Context) error {
			assert.Same(t, outerTx, GetExecutor(inner, db))
			return nil
		})
	})
	require.NoError(t, err)

	assert.Same(t, db, GetExecutor(context.Background(), db))
}
