package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hackcall-backend/pkg/constants"
	apperrors "hackcall-backend/pkg/errors"
)

// fakeTx records executed statements. Methods not overridden panic if called.
type fakeTx struct {
	pgx.Tx
	executed   []string
	failOn     string
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	failing := "DELETE FROM " + pgx.Identifier{f.failOn}.Sanitize()
	if f.failOn != "" && sql == failing {
		return pgconn.CommandTag{}, errors.New("violates foreign key constraint")
	}
	f.executed = append(f.executed, sql)
	return pgconn.NewCommandTag("DELETE 2"), nil
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	if !f.committed {
		f.rolledBack = true
	}
	return nil
}

type fakeBeginner struct {
	tx *fakeTx
}

func (f *fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	return f.tx, nil
}

func TestDeleteAllOrder(t *testing.T) {
	tx := &fakeTx{}
	repo := NewResetRepository(&fakeBeginner{tx: tx})

	results, err := repo.DeleteAll(context.Background(), constants.ResetTableOrder)
	require.NoError(t, err)

	assert.Equal(t, []string{
		`DELETE FROM "messages"`,
		`DELETE FROM "votes"`,
		`DELETE FROM "ideas"`,
		`DELETE FROM "memberships"`,
		`DELETE FROM "teams"`,
		`DELETE FROM "participants"`,
		`DELETE FROM "hackathons"`,
		`DELETE FROM "profiles"`,
	}, tx.executed)
	require.Len(t, results, len(constants.ResetTableOrder))
	assert.Equal(t, TableResult{Table: "messages", RowsDeleted: 2}, results[0])
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}

func TestDeleteAllRollsBackOnFailure(t *testing.T) {
	tx := &fakeTx{failOn: "teams"}
	repo := NewResetRepository(&fakeBeginner{tx: tx})

	_, err := repo.DeleteAll(context.Background(), constants.ResetTableOrder)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teams")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDatabase))

	assert.Len(t, tx.executed, 4)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}
