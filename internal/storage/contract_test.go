package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// checkStoreContract runs the behavior every Store backend must share:
// absent keys report (nil, false, nil), a second write overwrites, and
// deleting a missing key is not an error.
func checkStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "user")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, "user", []byte(`{"name":"Ann"}`)))
	data, ok, err := store.Get(ctx, "user")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"name":"Ann"}`, string(data))

	require.NoError(t, store.Set(ctx, "user", []byte(`{"name":"Annie"}`)))
	data, ok, err = store.Get(ctx, "user")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"name":"Annie"}`, string(data))

	require.NoError(t, store.Delete(ctx, "user"))
	_, ok, err = store.Get(ctx, "user")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Delete(ctx, "user"))
}

func TestFileStoreContract(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	checkStoreContract(t, store)
}

func TestMemoryStoreContract(t *testing.T) {
	checkStoreContract(t, NewMemoryStore())
}
