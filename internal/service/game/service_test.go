package game

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomokuarena/backend/internal/domain"
	"github.com/gomokuarena/backend/internal/notify"
)

type fakeRepo struct {
	mu        sync.Mutex
	games     map[string]*domain.Game
	moves     []domain.Move
	failMove  error
	loadCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{games: make(map[string]*domain.Game)}
}

func (r *fakeRepo) CreateGame(_ context.Context, g *domain.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[g.ID] = g
	return nil
}

func (r *fakeRepo) RecordMove(_ context.Context, move domain.Move, _ domain.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failMove != nil {
		return r.failMove
	}
	r.moves = append(r.moves, move)
	return nil
}

func (r *fakeRepo) GetGame(_ context.Context, gameID string) (*domain.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadCalls++
	g, ok := r.games[gameID]
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return g, nil
}

type fakeNotifier struct {
	mu         sync.Mutex
	updates    []notify.GameUpdatePayload
	challenges []notify.ChallengeNoticePayload
}

func (n *fakeNotifier) SendGameUpdate(snap domain.Snapshot, updatedBy int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updates = append(n.updates, notify.GameUpdatePayload{
		GameID:    snap.GameID,
		UpdatedBy: updatedBy,
		NextTurn:  snap.NextPlayerID,
	})
}

func (n *fakeNotifier) SendChallengeNotice(_ int64, payload notify.ChallengeNoticePayload) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.challenges = append(n.challenges, payload)
}

func newTestService() (*Service, *fakeRepo, *fakeNotifier) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	return NewService(NewSessionManager(), repo, notifier), repo, notifier
}

func TestServiceCreateGame(t *testing.T) {
	svc, repo, notifier := newTestService()

	snap, err := svc.CreateGame(context.Background(), 1, 2, domain.StandardRules())

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, snap.Status)
	assert.Contains(t, repo.games, snap.GameID)

	require.Len(t, notifier.challenges, 1)
	assert.Equal(t, snap.GameID, notifier.challenges[0].GameID)
	assert.Equal(t, int64(1), notifier.challenges[0].ChallengerID)

	t.Run("same player on both sides is rejected", func(t *testing.T) {
		_, err := svc.CreateGame(context.Background(), 1, 1, domain.StandardRules())
		assert.ErrorIs(t, err, domain.ErrSamePlayer)
	})
}

func TestServiceMakeMove(t *testing.T) {
	t.Run("accepted move persists and fans out exactly one update", func(t *testing.T) {
		svc, repo, notifier := newTestService()
		snap, err := svc.CreateGame(context.Background(), 1, 2, domain.StandardRules())
		require.NoError(t, err)

		move, after, err := svc.MakeMove(context.Background(), snap.GameID, 1, 7, 7)

		require.NoError(t, err)
		assert.Equal(t, 1, move.Sequence)
		assert.Equal(t, domain.StatusActive, after.Status)
		require.Len(t, repo.moves, 1)

		require.Len(t, notifier.updates, 1)
		assert.Equal(t, int64(1), notifier.updates[0].UpdatedBy)
		assert.Equal(t, int64(2), notifier.updates[0].NextTurn)
	})

	t.Run("rejected move persists and fans out nothing", func(t *testing.T) {
		svc, repo, notifier := newTestService()
		snap, err := svc.CreateGame(context.Background(), 1, 2, domain.StandardRules())
		require.NoError(t, err)

		_, _, err = svc.MakeMove(context.Background(), snap.GameID, 2, 7, 7)

		assert.ErrorIs(t, err, domain.ErrNotYourTurn)
		assert.Empty(t, repo.moves)
		assert.Empty(t, notifier.updates)
	})

	t.Run("unknown game", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, _, err := svc.MakeMove(context.Background(), "missing", 1, 7, 7)

		assert.ErrorIs(t, err, domain.ErrGameNotFound)
	})

	t.Run("store failure does not fail the move", func(t *testing.T) {
		svc, repo, notifier := newTestService()
		snap, err := svc.CreateGame(context.Background(), 1, 2, domain.StandardRules())
		require.NoError(t, err)
		repo.failMove = errors.New("db down")

		_, after, err := svc.MakeMove(context.Background(), snap.GameID, 1, 7, 7)

		require.NoError(t, err)
		assert.Equal(t, 1, after.MoveCount)
		assert.Len(t, notifier.updates, 1)
	})

	t.Run("cold cache reloads the game from the store", func(t *testing.T) {
		svc, repo, _ := newTestService()
		g, err := domain.NewGame("persisted", 1, 2, domain.StandardRules())
		require.NoError(t, err)
		repo.games[g.ID] = g

		snap, err := svc.Snapshot(context.Background(), "persisted")

		require.NoError(t, err)
		assert.Equal(t, "persisted", snap.GameID)
		assert.Equal(t, 1, repo.loadCalls)

		// second read hits the live session, not the store
		_, err = svc.Snapshot(context.Background(), "persisted")
		require.NoError(t, err)
		assert.Equal(t, 1, repo.loadCalls)
	})
}

func TestServiceMakeMoveConcurrency(t *testing.T) {
	// Two racing attempts on the same game: exactly one is accepted, the
	// loser observes a clean rejection and state stays consistent.
	svc, _, notifier := newTestService()
	snap, err := svc.CreateGame(context.Background(), 1, 2, domain.StandardRules())
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.MakeMove(context.Background(), snap.GameID, 1, 7, 7)
		}(i)
	}
	wg.Wait()

	accepted, rejected := 0, 0
	for _, err := range errs {
		if err == nil {
			accepted++
		} else {
			rejected++
			assert.True(t,
				errors.Is(err, domain.ErrNotYourTurn) || errors.Is(err, domain.ErrCellOccupied),
				"unexpected rejection: %v", err)
		}
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, 1, rejected)

	after, err := svc.Snapshot(context.Background(), snap.GameID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.MoveCount)
	assert.Len(t, notifier.updates, 1)
}

func TestServiceHelpers(t *testing.T) {
	svc, _, _ := newTestService()
	snap, err := svc.CreateGame(context.Background(), 1, 2, domain.StandardRules())
	require.NoError(t, err)

	opp, err := svc.Opponent(context.Background(), snap.GameID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), opp)

	_, err = svc.Opponent(context.Background(), snap.GameID, 3)
	assert.ErrorIs(t, err, domain.ErrNotAParticipant)

	myTurn, err := svc.IsPlayersTurn(context.Background(), snap.GameID, 1)
	require.NoError(t, err)
	assert.True(t, myTurn)

	assert.Equal(t, []string{snap.GameID}, svc.GamesOf(1))
	assert.Empty(t, svc.GamesOf(3))
}
