package game

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gomokuarena/backend/internal/domain"
	"github.com/gomokuarena/backend/internal/obslog"
)

// Session wraps one live game with its serialization lock. Every mutating
// access to the game goes through this mutex, so two near-simultaneous move
// attempts on the same game are ordered and the loser sees a clean rejection.
// Sessions of different games never share a lock.
type Session struct {
	mu   sync.Mutex
	Game *domain.Game
}

// SessionManager is the in-memory registry of live games:
// gameID -> session plus a per-player index of their games.
type SessionManager struct {
	mu       sync.RWMutex
	byGame   map[string]*Session
	byPlayer map[int64]map[string]struct{}
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		byGame:   make(map[string]*Session),
		byPlayer: make(map[int64]map[string]struct{}),
	}
}

// Put registers a game and returns its session. If the game is already
// registered the existing session wins, so concurrent loaders never end up
// with two locks for one game.
func (sm *SessionManager) Put(g *domain.Game) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if existing, ok := sm.byGame[g.ID]; ok {
		return existing
	}

	sess := &Session{Game: g}
	sm.byGame[g.ID] = sess
	sm.indexPlayerLocked(g.BlackID, g.ID)
	sm.indexPlayerLocked(g.WhiteID, g.ID)
	return sess
}

func (sm *SessionManager) indexPlayerLocked(playerID int64, gameID string) {
	games, ok := sm.byPlayer[playerID]
	if !ok {
		games = make(map[string]struct{})
		sm.byPlayer[playerID] = games
	}
	games[gameID] = struct{}{}
}

func (sm *SessionManager) Get(gameID string) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sess, ok := sm.byGame[gameID]
	return sess, ok
}

// GamesOf lists the live game ids a player participates in.
func (sm *SessionManager) GamesOf(playerID int64) []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ids := make([]string, 0, len(sm.byPlayer[playerID]))
	for id := range sm.byPlayer[playerID] {
		ids = append(ids, id)
	}
	return ids
}

func (sm *SessionManager) Remove(gameID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.removeLocked(gameID)
}

func (sm *SessionManager) removeLocked(gameID string) {
	sess, ok := sm.byGame[gameID]
	if !ok {
		return
	}
	delete(sm.byGame, gameID)
	sm.unindexPlayerLocked(sess.Game.BlackID, gameID)
	sm.unindexPlayerLocked(sess.Game.WhiteID, gameID)
}

func (sm *SessionManager) unindexPlayerLocked(playerID int64, gameID string) {
	if games, ok := sm.byPlayer[playerID]; ok {
		delete(games, gameID)
		if len(games) == 0 {
			delete(sm.byPlayer, playerID)
		}
	}
}

// CleanupStale evicts finished games older than finishedTTL and games that
// never finished within abandonedTTL of their creation. The durable store
// keeps the records; this only frees memory.
func (sm *SessionManager) CleanupStale(finishedTTL, abandonedTTL time.Duration) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := time.Now()
	count := 0
	for gameID, sess := range sm.byGame {
		g := sess.Game
		stale := false
		if g.IsFinished() {
			stale = g.FinishedAt != nil && now.Sub(*g.FinishedAt) > finishedTTL
		} else {
			stale = now.Sub(g.CreatedAt) > abandonedTTL
		}
		if stale {
			sm.removeLocked(gameID)
			count++
		}
	}

	if count > 0 {
		obslog.L().Info("evicted stale game sessions", zap.Int("count", count))
	}
	return count
}
