package domain

// Stone is the content of a single board cell.
type Stone int8

const (
	Empty Stone = 0
	Black Stone = 1
	White Stone = 2
)

// Other returns the opposing color. Empty has no opponent and maps to itself.
func (s Stone) Other() Stone {
	switch s {
	case Black:
		return White
	case White:
		return Black
	}
	return s
}

func (s Stone) String() string {
	switch s {
	case Black:
		return "black"
	case White:
		return "white"
	}
	return "empty"
}

// to represent the game status
type GameStatus string

const (
	StatusPending  GameStatus = "pending"
	StatusActive   GameStatus = "active"
	StatusFinished GameStatus = "finished"
	StatusDraw     GameStatus = "draw"
)

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidRuleSet  Error = "invalid ruleset"
	ErrOutOfBounds     Error = "coordinates are out of bounds"
	ErrCellOccupied    Error = "cell is already occupied"
	ErrNotAParticipant Error = "player is not part of this game"
	ErrNotYourTurn     Error = "not your turn"
	ErrGameAlreadyOver Error = "game is already over"
	ErrSamePlayer      Error = "players must be distinct"
	ErrGameNotFound    Error = "game not found"
)
