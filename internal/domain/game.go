package domain

import "time"

// Move is one accepted placement. Sequence numbers are 1-based and strictly
// increasing per game; the move log is append-only.
type Move struct {
	GameID    string    `json:"game_id"`
	PlayerID  int64     `json:"player_id"`
	Sequence  int       `json:"sequence"`
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	Timestamp time.Time `json:"timestamp"`
}

// Snapshot is the read-only view of a game returned to callers after a move
// or for polling. The board is a deep copy.
type Snapshot struct {
	GameID       string     `json:"game_id"`
	BlackID      int64      `json:"black_id"`
	WhiteID      int64      `json:"white_id"`
	Status       GameStatus `json:"status"`
	CurrentTurn  Stone      `json:"current_turn"`
	NextPlayerID int64      `json:"next_player_id"`
	WinnerID     *int64     `json:"winner_id,omitempty"`
	MoveCount    int        `json:"move_count"`
	Board        [][]Stone  `json:"board"`
}

// Game owns one game's lifecycle: board, turn order, status and the two
// participants. All mutation goes through MakeMove; once the status is
// finished or draw the game is immutable.
type Game struct {
	ID          string
	BlackID     int64
	WhiteID     int64
	Rules       RuleSet
	Status      GameStatus
	CurrentTurn Stone
	WinnerID    *int64
	Board       *Board
	Moves       []Move
	CreatedAt   time.Time
	FinishedAt  *time.Time
}

// NewGame binds two distinct players and a ruleset. Black always moves first.
func NewGame(id string, blackID, whiteID int64, rules RuleSet) (*Game, error) {
	if blackID == whiteID {
		return nil, ErrSamePlayer
	}
	return &Game{
		ID:          id,
		BlackID:     blackID,
		WhiteID:     whiteID,
		Rules:       rules,
		Status:      StatusPending,
		CurrentTurn: Black,
		Board:       NewBoard(rules.BoardSize),
		CreatedAt:   time.Now(),
	}, nil
}

func (g *Game) IsFinished() bool {
	return g.Status == StatusFinished || g.Status == StatusDraw
}

// ColorOf maps a participant to their stone color.
func (g *Game) ColorOf(playerID int64) (Stone, bool) {
	switch playerID {
	case g.BlackID:
		return Black, true
	case g.WhiteID:
		return White, true
	}
	return Empty, false
}

// PlayerOf maps a color back to the participant holding it.
func (g *Game) PlayerOf(color Stone) int64 {
	if color == White {
		return g.WhiteID
	}
	return g.BlackID
}

// Opponent returns the other bound participant.
func (g *Game) Opponent(playerID int64) (int64, error) {
	switch playerID {
	case g.BlackID:
		return g.WhiteID, nil
	case g.WhiteID:
		return g.BlackID, nil
	}
	return 0, ErrNotAParticipant
}

// IsPlayersTurn reports whether playerID moves next. Never errors: a
// non-participant or a finished game simply yields false.
func (g *Game) IsPlayersTurn(playerID int64) bool {
	if g.IsFinished() {
		return false
	}
	color, ok := g.ColorOf(playerID)
	return ok && color == g.CurrentTurn
}

// MakeMove validates and applies one move. Preconditions are checked in
// order, first failure wins: game not over, caller is a participant, it is
// their turn, the cell is in bounds and empty. Any rejection leaves the game
// completely untouched.
//
// On success the move is appended with the next sequence number, the board
// updated, and the terminal conditions evaluated. A non-terminal move flips
// the turn and promotes a pending game to active.
func (g *Game) MakeMove(playerID int64, row, col int) (Move, Snapshot, error) {
	if g.IsFinished() {
		return Move{}, Snapshot{}, ErrGameAlreadyOver
	}

	color, ok := g.ColorOf(playerID)
	if !ok {
		return Move{}, Snapshot{}, ErrNotAParticipant
	}
	if color != g.CurrentTurn {
		return Move{}, Snapshot{}, ErrNotYourTurn
	}

	// Place validates bounds and occupancy before touching the grid, so a
	// rejected placement leaves no trace either.
	if err := g.Board.Place(row, col, color); err != nil {
		return Move{}, Snapshot{}, err
	}

	move := Move{
		GameID:    g.ID,
		PlayerID:  playerID,
		Sequence:  len(g.Moves) + 1,
		Row:       row,
		Col:       col,
		Timestamp: time.Now(),
	}
	g.Moves = append(g.Moves, move)

	outcome := EvaluateWin(g.Board, row, col, color, g.Rules)
	switch outcome.Result {
	case ResultWin:
		now := time.Now()
		g.Status = StatusFinished
		g.WinnerID = &move.PlayerID
		g.FinishedAt = &now
	case ResultDraw:
		now := time.Now()
		g.Status = StatusDraw
		g.FinishedAt = &now
	default:
		g.CurrentTurn = color.Other()
		if g.Status == StatusPending {
			g.Status = StatusActive
		}
	}

	return move, g.Snapshot(), nil
}

// Snapshot captures the current state for callers outside the move path.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		GameID:       g.ID,
		BlackID:      g.BlackID,
		WhiteID:      g.WhiteID,
		Status:       g.Status,
		CurrentTurn:  g.CurrentTurn,
		NextPlayerID: g.PlayerOf(g.CurrentTurn),
		WinnerID:     g.WinnerID,
		MoveCount:    len(g.Moves),
		Board:        g.Board.Cells(),
	}
}
