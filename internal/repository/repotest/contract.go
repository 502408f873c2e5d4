// Package repotest holds the behavioural contract every KeyValueStore backend must satisfy.
package repotest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hackcall-backend/internal/repository"
)

// RunKeyValueStoreContract exercises store against the KeyValueStore contract
func RunKeyValueStoreContract(t *testing.T, store repository.KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "team_call_missing")
		assert.ErrorIs(t, err, repository.ErrKeyNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "team_call_a", []byte(`{"id":"a"}`)))

		got, err := store.Get(ctx, "team_call_a")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"a"}`, string(got))
	})

	t.Run("set overwrites whole record", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "team_call_b", []byte(`{"id":"first","extra":true}`)))
		require.NoError(t, store.Set(ctx, "team_call_b", []byte(`{"id":"second"}`)))

		got, err := store.Get(ctx, "team_call_b")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"second"}`, string(got))
	})

	t.Run("keys are independent", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "team_call_c", []byte(`{"id":"c"}`)))
		require.NoError(t, store.Set(ctx, "team_call_d", []byte(`{"id":"d"}`)))
		require.NoError(t, store.Delete(ctx, "team_call_c"))

		_, err := store.Get(ctx, "team_call_c")
		assert.ErrorIs(t, err, repository.ErrKeyNotFound)

		got, err := store.Get(ctx, "team_call_d")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"d"}`, string(got))
	})

	t.Run("delete missing key", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "team_call_never_written"))
	})
}
