package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gomokuarena/backend/internal/domain"
)

// GameRepo persists games and their append-only move logs. The board itself
// is never stored; it is replayed from the move log on load.
type GameRepo struct {
	db *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{db: db}
}

// CreateGame inserts the initial pending game row.
func (r *GameRepo) CreateGame(ctx context.Context, g *domain.Game) error {
	const query = `
	INSERT INTO games (id, black_id, white_id, ruleset, status, current_turn, move_count, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, 0, $7);`

	_, err := r.db.ExecContext(ctx, query,
		g.ID, g.BlackID, g.WhiteID, g.Rules.Name, string(g.Status), int(g.CurrentTurn), g.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

// RecordMove appends the move and updates the game row in one transaction,
// so the stored move count and move log never drift apart. A terminal move
// also bumps both players' aggregate counters in the same unit of work.
func (r *GameRepo) RecordMove(ctx context.Context, move domain.Move, snap domain.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	const insertMove = `
	INSERT INTO moves (game_id, sequence, player_id, row_idx, col_idx, played_at)
	VALUES ($1, $2, $3, $4, $5, $6);`

	if _, err := tx.ExecContext(ctx, insertMove,
		move.GameID, move.Sequence, move.PlayerID, move.Row, move.Col, move.Timestamp); err != nil {
		return fmt.Errorf("insert move: %w", err)
	}

	const updateGame = `
	UPDATE games
	SET status = $2, current_turn = $3, winner_id = $4, move_count = $5,
	    finished_at = CASE WHEN $6 THEN now() ELSE finished_at END
	WHERE id = $1;`

	terminal := snap.Status == domain.StatusFinished || snap.Status == domain.StatusDraw
	var winnerID any
	if snap.WinnerID != nil {
		winnerID = *snap.WinnerID
	}
	if _, err := tx.ExecContext(ctx, updateGame,
		move.GameID, string(snap.Status), int(snap.CurrentTurn), winnerID, snap.MoveCount, terminal); err != nil {
		return fmt.Errorf("update game: %w", err)
	}

	if terminal {
		drawn := snap.Status == domain.StatusDraw
		for _, playerID := range []int64{snap.BlackID, snap.WhiteID} {
			won := snap.WinnerID != nil && *snap.WinnerID == playerID
			if err := r.recordResultTx(ctx, tx, playerID, won, drawn); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit move: %w", err)
	}
	return nil
}

func (r *GameRepo) recordResultTx(ctx context.Context, tx *sql.Tx, playerID int64, won, drawn bool) error {
	const query = `
	UPDATE players
	SET games_played = games_played + 1,
	    games_won    = games_won   + CASE WHEN $2 THEN 1 ELSE 0 END,
	    games_drawn  = games_drawn + CASE WHEN $3 THEN 1 ELSE 0 END
	WHERE id = $1;`

	if _, err := tx.ExecContext(ctx, query, playerID, won, drawn); err != nil {
		return fmt.Errorf("update player stats: %w", err)
	}
	return nil
}

// GetGame loads a game and rebuilds its board by replaying the move log.
func (r *GameRepo) GetGame(ctx context.Context, gameID string) (*domain.Game, error) {
	const query = `
	SELECT g.id, g.black_id, g.white_id, g.status, g.current_turn, g.winner_id,
	       g.created_at, g.finished_at,
	       r.name, r.board_size, r.win_length, r.allow_overlines, r.description
	FROM games g
	JOIN rulesets r ON r.name = g.ruleset
	WHERE g.id = $1;`

	var (
		g           domain.Game
		status      string
		currentTurn int
		winnerID    sql.NullInt64
		finishedAt  sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, gameID).Scan(
		&g.ID, &g.BlackID, &g.WhiteID, &status, &currentTurn, &winnerID,
		&g.CreatedAt, &finishedAt,
		&g.Rules.Name, &g.Rules.BoardSize, &g.Rules.WinLength, &g.Rules.AllowOverlines, &g.Rules.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}

	g.Status = domain.GameStatus(status)
	g.CurrentTurn = domain.Stone(currentTurn)
	if winnerID.Valid {
		id := winnerID.Int64
		g.WinnerID = &id
	}
	if finishedAt.Valid {
		t := finishedAt.Time
		g.FinishedAt = &t
	}

	moves, err := r.loadMoves(ctx, gameID)
	if err != nil {
		return nil, err
	}
	g.Moves = moves

	board := domain.NewBoard(g.Rules.BoardSize)
	for _, m := range moves {
		color, ok := g.ColorOf(m.PlayerID)
		if !ok {
			return nil, fmt.Errorf("move %d of game %s references unknown player %d", m.Sequence, gameID, m.PlayerID)
		}
		if err := board.Place(m.Row, m.Col, color); err != nil {
			return nil, fmt.Errorf("replay move %d of game %s: %w", m.Sequence, gameID, err)
		}
	}
	g.Board = board

	return &g, nil
}

func (r *GameRepo) loadMoves(ctx context.Context, gameID string) ([]domain.Move, error) {
	const query = `
	SELECT game_id, sequence, player_id, row_idx, col_idx, played_at
	FROM moves WHERE game_id = $1 ORDER BY sequence;`

	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("load moves: %w", err)
	}
	defer rows.Close()

	var moves []domain.Move
	for rows.Next() {
		var m domain.Move
		if err := rows.Scan(&m.GameID, &m.Sequence, &m.PlayerID, &m.Row, &m.Col, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}
