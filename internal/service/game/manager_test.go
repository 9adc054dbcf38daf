package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomokuarena/backend/internal/domain"
)

func liveGame(t *testing.T, id string, black, white int64) *domain.Game {
	t.Helper()
	g, err := domain.NewGame(id, black, white, domain.StandardRules())
	require.NoError(t, err)
	return g
}

func TestSessionManagerPutGet(t *testing.T) {
	sm := NewSessionManager()
	g := liveGame(t, "g1", 1, 2)

	sess := sm.Put(g)

	got, ok := sm.Get("g1")
	require.True(t, ok)
	assert.Same(t, sess, got)

	t.Run("re-putting the same game keeps the original session", func(t *testing.T) {
		again := sm.Put(g)
		assert.Same(t, sess, again)
	})

	t.Run("indexes both participants", func(t *testing.T) {
		assert.Equal(t, []string{"g1"}, sm.GamesOf(1))
		assert.Equal(t, []string{"g1"}, sm.GamesOf(2))
	})
}

func TestSessionManagerRemove(t *testing.T) {
	sm := NewSessionManager()
	sm.Put(liveGame(t, "g1", 1, 2))
	sm.Put(liveGame(t, "g2", 1, 3))

	sm.Remove("g1")

	_, ok := sm.Get("g1")
	assert.False(t, ok)
	assert.Equal(t, []string{"g2"}, sm.GamesOf(1))
	assert.Empty(t, sm.GamesOf(2))
}

func TestSessionManagerCleanupStale(t *testing.T) {
	sm := NewSessionManager()

	fresh := liveGame(t, "fresh", 1, 2)
	sm.Put(fresh)

	abandoned := liveGame(t, "abandoned", 3, 4)
	abandoned.CreatedAt = time.Now().Add(-48 * time.Hour)
	sm.Put(abandoned)

	finished := liveGame(t, "finished", 5, 6)
	finishedAt := time.Now().Add(-2 * time.Hour)
	finished.Status = domain.StatusFinished
	finished.FinishedAt = &finishedAt
	sm.Put(finished)

	recent := liveGame(t, "recently-finished", 7, 8)
	recentAt := time.Now().Add(-5 * time.Minute)
	recent.Status = domain.StatusDraw
	recent.FinishedAt = &recentAt
	sm.Put(recent)

	count := sm.CleanupStale(time.Hour, 24*time.Hour)

	assert.Equal(t, 2, count)
	_, ok := sm.Get("fresh")
	assert.True(t, ok)
	_, ok = sm.Get("recently-finished")
	assert.True(t, ok)
	_, ok = sm.Get("abandoned")
	assert.False(t, ok)
	_, ok = sm.Get("finished")
	assert.False(t, ok)
}
