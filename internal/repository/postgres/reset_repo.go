package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	apperrors "hackcall-backend/pkg/errors"
	"hackcall-backend/pkg/logger"
)

// TxBeginner starts a transaction. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TableResult reports the rows removed from one table
type TableResult struct {
	Table       string `json:"table"`
	RowsDeleted int64  `json:"rows_deleted"`
}

// ResetRepository wipes the hackathon schema
type ResetRepository struct {
	db TxBeginner
}

// NewResetRepository creates a new ResetRepository
func NewResetRepository(db TxBeginner) *ResetRepository {
	return &ResetRepository{db: db}
}

// DeleteAll removes every row from tables, in the given order, inside one transaction.
// Callers pass child tables before their parents so foreign keys are never violated.
func (r *ResetRepository) DeleteAll(ctx context.Context, tables []string) ([]TableResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, apperrors.DatabaseError(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer func() {
		// No-op after a successful commit.
		_ = tx.Rollback(ctx)
	}()

	results := make([]TableResult, 0, len(tables))
	for _, table := range tables {
		query := "DELETE FROM " + pgx.Identifier{table}.Sanitize()
		tag, err := tx.Exec(ctx, query)
		if err != nil {
			return nil, apperrors.DatabaseError(fmt.Errorf("failed to delete from %s: %w", table, err))
		}

		results = append(results, TableResult{Table: table, RowsDeleted: tag.RowsAffected()})
		logger.Info("Table cleared", zap.String("table", table), zap.Int64("rows", tag.RowsAffected()))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.DatabaseError(fmt.Errorf("failed to commit reset: %w", err))
	}
	return results, nil
}
