package kvstore_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewdeskhq/crewdesk/internal/kvstore"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// openStores returns one instance of every KV implementation, each backed by
// fresh state.
func openStores(t *testing.T) map[string]kvstore.KV {
	t.Helper()

	sqlitePath := filepath.Join(t.TempDir(), "kv.db")
	sqliteKV, err := kvstore.NewSQLiteKV(sqlitePath, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteKV.Close() })

	return map[string]kvstore.KV{
		"memory": kvstore.NewMemoryKV(),
		"sqlite": sqliteKV,
	}
}

func TestKV_PutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, kv := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Put(ctx, "personas", []byte(`[{"id":"1"}]`)))

			got, err := kv.Get(ctx, "personas")
			require.NoError(t, err)
			assert.Equal(t, []byte(`[{"id":"1"}]`), got)
		})
	}
}

func TestKV_GetMissingKey(t *testing.T) {
	ctx := context.Background()
	for name, kv := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := kv.Get(ctx, "nope")
			assert.ErrorIs(t, err, kvstore.ErrNotFound)
		})
	}
}

func TestKV_PutReplacesValue(t *testing.T) {
	ctx := context.Background()
	for name, kv := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Put(ctx, "k", []byte("old")))
			require.NoError(t, kv.Put(ctx, "k", []byte("new")))

			got, err := kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("new"), got)
		})
	}
}

func TestKV_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	for name, kv := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Put(ctx, "k", []byte("v")))
			require.NoError(t, kv.Delete(ctx, "k"))

			_, err := kv.Get(ctx, "k")
			assert.ErrorIs(t, err, kvstore.ErrNotFound)

			// Deleting an already-absent key succeeds.
			assert.NoError(t, kv.Delete(ctx, "k"))
			assert.NoError(t, kv.Delete(ctx, "never-existed"))
		})
	}
}

func TestKV_KeysPrefixFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	for name, kv := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Put(ctx, "brain:bob", []byte("1")))
			require.NoError(t, kv.Put(ctx, "brain:alice", []byte("2")))
			require.NoError(t, kv.Put(ctx, "chat:persona-1", []byte("3")))
			require.NoError(t, kv.Put(ctx, "personas", []byte("4")))

			keys, err := kv.Keys(ctx, "brain:")
			require.NoError(t, err)
			assert.Equal(t, []string{"brain:alice", "brain:bob"}, keys)

			all, err := kv.Keys(ctx, "")
			require.NoError(t, err)
			assert.Len(t, all, 4)

			none, err := kv.Keys(ctx, "missing:")
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestMemoryKV_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryKV()
	require.NoError(t, kv.Put(ctx, "k", []byte("original")))

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	got[0] = 'X'

	again, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}

func TestSQLiteKV_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	kv, err := kvstore.NewSQLiteKV(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, kv.Put(ctx, "personas", []byte(`[]`)))
	require.NoError(t, kv.Close())

	reopened, err := kvstore.NewSQLiteKV(path, testLogger())
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Get(ctx, "personas")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)
}
