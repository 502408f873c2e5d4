package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hackcall-backend/internal/repository/repotest"
	"hackcall-backend/pkg/database"
)

func openStore(t *testing.T, path string) (*KVStore, *database.SQLiteDB) {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewSQLiteDB(ctx, path)
	require.NoError(t, err)

	store, err := NewKVStore(ctx, db.DB)
	require.NoError(t, err)
	return store, db
}

func TestKVStoreContract(t *testing.T) {
	store, db := openStore(t, filepath.Join(t.TempDir(), "calls.db"))
	defer db.Close()

	repotest.RunKeyValueStoreContract(t, store)
}

func TestKVStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "calls.db")
	ctx := context.Background()

	store, db := openStore(t, path)
	require.NoError(t, store.Set(ctx, "team_call_t1", []byte(`{"id":"call_t1_1"}`)))
	require.NoError(t, db.Close())

	reopened, db2 := openStore(t, path)
	defer db2.Close()

	got, err := reopened.Get(ctx, "team_call_t1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"call_t1_1"}`, string(got))
}

func TestKVStorePing(t *testing.T) {
	store, db := openStore(t, filepath.Join(t.TempDir(), "calls.db"))
	ctx := context.Background()

	assert.NoError(t, store.Ping(ctx))
	require.NoError(t, db.Close())
	assert.Error(t, store.Ping(ctx))
}
