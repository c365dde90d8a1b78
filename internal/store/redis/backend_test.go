package redis

import (
	"context"
	"sort"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/kdbplan/kdbplan/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T) (*Backend, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewBackend(client), mr
}

func TestBackendGetMissing(t *testing.T) {
	b, _ := newTestBackend(t)

	_, err := b.Get(context.Background(), store.BookmarksKey)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestBackendSetGetDelete(t *testing.T) {
	ctx := context.Background()
	b, mr := newTestBackend(t)

	require.NoError(t, b.Set(ctx, store.BookmarksKey, `{"version":2}`))

	raw, err := mr.Get("kdbplan:" + store.BookmarksKey)
	require.NoError(t, err)
	assert.Equal(t, `{"version":2}`, raw)
	assert.Zero(t, mr.TTL("kdbplan:"+store.BookmarksKey), "values must not expire")

	got, err := b.Get(ctx, store.BookmarksKey)
	require.NoError(t, err)
	assert.Equal(t, `{"version":2}`, got)

	require.NoError(t, b.Delete(ctx, store.BookmarksKey))
	assert.False(t, mr.Exists("kdbplan:"+store.BookmarksKey))
	require.NoError(t, b.Delete(ctx, store.BookmarksKey))
}

func TestBackendKeysAndPing(t *testing.T) {
	ctx := context.Background()
	b, mr := newTestBackend(t)

	require.NoError(t, b.Ping(ctx))
	require.NoError(t, b.Set(ctx, store.BookmarksKey, "a"))
	require.NoError(t, b.Set(ctx, store.ClassroomsKey, "b"))
	require.NoError(t, mr.Set("other:key", "c"))

	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{store.BookmarksKey, store.ClassroomsKey}, keys)
}

func TestBackendReportsConnectionErrors(t *testing.T) {
	b, mr := newTestBackend(t)
	mr.Close()

	_, err := b.Get(context.Background(), store.BookmarksKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotFound)
}

func TestStoreKey(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"kdbplan:kdb_bookmarks", "kdb_bookmarks", true},
		{"kdbplan:", "", false},
		{"other:bookmarks", "", false},
	}

	for _, tt := range tests {
		got, ok := StoreKey(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("StoreKey(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
