package game

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gomokuarena/backend/internal/domain"
	"github.com/gomokuarena/backend/internal/notify"
	"github.com/gomokuarena/backend/internal/obslog"
	"github.com/gomokuarena/backend/pkg/uid"
)

// Repository is the durable store the engine requires. RecordMove must write
// the move row and the updated game state in one unit of work.
type Repository interface {
	CreateGame(ctx context.Context, g *domain.Game) error
	RecordMove(ctx context.Context, move domain.Move, snap domain.Snapshot) error
	GetGame(ctx context.Context, gameID string) (*domain.Game, error)
}

// Notifier fans state changes out to the participants. Calls are best-effort
// and must never fail a move.
type Notifier interface {
	SendGameUpdate(snap domain.Snapshot, updatedBy int64)
	SendChallengeNotice(opponentID int64, payload notify.ChallengeNoticePayload)
}

// Service orchestrates the game lifecycle: create, move, read. Domain rules
// live in the domain package; this layer adds locking, persistence and
// fanout around them.
type Service struct {
	sessions *SessionManager
	repo     Repository
	notifier Notifier
}

func NewService(sessions *SessionManager, repo Repository, notifier Notifier) *Service {
	return &Service{sessions: sessions, repo: repo, notifier: notifier}
}

// CreateGame binds two players and a ruleset into a fresh pending game and
// tells the challenged player about it.
func (s *Service) CreateGame(ctx context.Context, blackID, whiteID int64, rules domain.RuleSet) (domain.Snapshot, error) {
	g, err := domain.NewGame(uid.NewGameID(), blackID, whiteID, rules)
	if err != nil {
		return domain.Snapshot{}, err
	}

	if err := s.repo.CreateGame(ctx, g); err != nil {
		return domain.Snapshot{}, fmt.Errorf("create game: %w", err)
	}
	s.sessions.Put(g)

	obslog.L().Info("game created",
		zap.String("game_id", g.ID),
		zap.Int64("black_id", blackID),
		zap.Int64("white_id", whiteID),
		zap.String("ruleset", rules.Name))

	s.notifier.SendChallengeNotice(whiteID, notify.ChallengeNoticePayload{
		GameID:       g.ID,
		ChallengerID: blackID,
		RuleSet:      rules.Name,
	})
	return g.Snapshot(), nil
}

// MakeMove runs the whole accepted-move path: serialize on the session,
// validate and apply through the domain, persist, fan out. Validation
// failures leave no trace anywhere.
func (s *Service) MakeMove(ctx context.Context, gameID string, playerID int64, row, col int) (domain.Move, domain.Snapshot, error) {
	sess, err := s.session(ctx, gameID)
	if err != nil {
		return domain.Move{}, domain.Snapshot{}, err
	}

	sess.mu.Lock()
	move, snap, err := sess.Game.MakeMove(playerID, row, col)
	if err != nil {
		sess.mu.Unlock()
		return domain.Move{}, domain.Snapshot{}, err
	}

	// The live session stays authoritative while the game runs, so a store
	// hiccup is logged rather than surfaced as a rejected move.
	if err := s.repo.RecordMove(ctx, move, snap); err != nil {
		obslog.L().Error("failed to persist move",
			zap.String("game_id", gameID),
			zap.Int("sequence", move.Sequence),
			zap.Error(err))
	}
	sess.mu.Unlock()

	s.notifier.SendGameUpdate(snap, playerID)
	return move, snap, nil
}

// Snapshot returns the current state for polling and rendering.
func (s *Service) Snapshot(ctx context.Context, gameID string) (domain.Snapshot, error) {
	sess, err := s.session(ctx, gameID)
	if err != nil {
		return domain.Snapshot{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.Game.Snapshot(), nil
}

// Opponent resolves the other participant of a game.
func (s *Service) Opponent(ctx context.Context, gameID string, playerID int64) (int64, error) {
	sess, err := s.session(ctx, gameID)
	if err != nil {
		return 0, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.Game.Opponent(playerID)
}

// IsPlayersTurn reports whether the player moves next in the given game.
func (s *Service) IsPlayersTurn(ctx context.Context, gameID string, playerID int64) (bool, error) {
	sess, err := s.session(ctx, gameID)
	if err != nil {
		return false, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.Game.IsPlayersTurn(playerID), nil
}

// GamesOf lists the live games of a player.
func (s *Service) GamesOf(playerID int64) []string {
	return s.sessions.GamesOf(playerID)
}

// session returns the live session, loading the game from the store on a
// cold cache (e.g. after a restart).
func (s *Service) session(ctx context.Context, gameID string) (*Session, error) {
	if sess, ok := s.sessions.Get(gameID); ok {
		return sess, nil
	}

	g, err := s.repo.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return s.sessions.Put(g), nil
}
