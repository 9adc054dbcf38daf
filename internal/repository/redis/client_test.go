package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomokuarena/backend/internal/domain"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewWithClient(client), mr
}

func TestCacheSessions(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.PutSession(ctx, "sess-1", 42, time.Hour))

	userID, err := cache.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)

	t.Run("missing session is a cache miss", func(t *testing.T) {
		_, err := cache.GetSession(ctx, "nope")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("expired session is a cache miss", func(t *testing.T) {
		mr.FastForward(2 * time.Hour)
		_, err := cache.GetSession(ctx, "sess-1")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("deleted session is a cache miss", func(t *testing.T) {
		require.NoError(t, cache.PutSession(ctx, "sess-2", 7, time.Hour))
		require.NoError(t, cache.DeleteSession(ctx, "sess-2"))
		_, err := cache.GetSession(ctx, "sess-2")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}

func TestCacheSnapshots(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	winner := int64(1)
	snap := domain.Snapshot{
		GameID:       "g1",
		BlackID:      1,
		WhiteID:      2,
		Status:       domain.StatusFinished,
		CurrentTurn:  domain.Black,
		NextPlayerID: 1,
		WinnerID:     &winner,
		MoveCount:    9,
		Board:        domain.NewBoard(15).Cells(),
	}

	require.NoError(t, cache.PutSnapshot(ctx, snap, time.Minute))

	got, err := cache.GetSnapshot(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	_, err = cache.GetSnapshot(ctx, "unknown")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
