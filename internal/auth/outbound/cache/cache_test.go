package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/passgate/passgate/internal/pkg/goerror"
	"github.com/passgate/passgate/internal/pkg/instrument"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewStore(client, instrument.NewNoop()), mr
}

func TestPutGetDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.Put(ctx, "user@example.com", "hashed-code", 300*time.Second)
	require.NoError(t, err)

	val, err := store.GetDelete(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hashed-code", val)
}

func TestGetDeleteConsumes(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "user@example.com", "hashed-code", 300*time.Second))

	_, err := store.GetDelete(ctx, "user@example.com")
	require.NoError(t, err)

	_, err = store.GetDelete(ctx, "user@example.com")
	assert.ErrorIs(t, err, goerror.ErrNotFound)
}

func TestGetDeleteMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.GetDelete(context.Background(), "never@example.com")
	assert.ErrorIs(t, err, goerror.ErrNotFound)
}

func TestEntryExpires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "user@example.com", "hashed-code", 300*time.Second))

	mr.FastForward(301 * time.Second)

	_, err := store.GetDelete(ctx, "user@example.com")
	assert.ErrorIs(t, err, goerror.ErrNotFound)
}

func TestPutReplacesPendingEntry(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "user@example.com", "first", 300*time.Second))
	require.NoError(t, store.Put(ctx, "user@example.com", "second", 300*time.Second))

	val, err := store.GetDelete(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "second", val)
}

func TestDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "user@example.com", "hashed-code", 300*time.Second))
	require.NoError(t, store.Delete(ctx, "user@example.com"))

	_, err := store.GetDelete(ctx, "user@example.com")
	assert.ErrorIs(t, err, goerror.ErrNotFound)
}

func TestKeysAreNamespaced(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "user@example.com", "hashed-code", 300*time.Second))

	assert.True(t, mr.Exists("challenge:user@example.com"))
}
