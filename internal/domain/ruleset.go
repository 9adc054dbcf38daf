package domain

import "fmt"

const (
	MinBoardSize = 5
	MinWinLength = 3
)

// RuleSet describes one rule variant. Immutable once a game references it.
type RuleSet struct {
	Name           string `json:"name"`
	BoardSize      int    `json:"board_size"`
	WinLength      int    `json:"win_length"`
	AllowOverlines bool   `json:"allow_overlines"`
	Description    string `json:"description"`
}

// NewRuleSet validates the constraints once, at construction. A RuleSet that
// exists is always playable.
func NewRuleSet(name string, boardSize, winLength int, allowOverlines bool, description string) (RuleSet, error) {
	if name == "" {
		return RuleSet{}, fmt.Errorf("%w: name must not be empty", ErrInvalidRuleSet)
	}
	if boardSize < MinBoardSize {
		return RuleSet{}, fmt.Errorf("%w: board size %d is below the minimum of %d", ErrInvalidRuleSet, boardSize, MinBoardSize)
	}
	if winLength < MinWinLength {
		return RuleSet{}, fmt.Errorf("%w: win length %d is below the minimum of %d", ErrInvalidRuleSet, winLength, MinWinLength)
	}
	if winLength > boardSize {
		return RuleSet{}, fmt.Errorf("%w: win length %d exceeds board size %d", ErrInvalidRuleSet, winLength, boardSize)
	}
	return RuleSet{
		Name:           name,
		BoardSize:      boardSize,
		WinLength:      winLength,
		AllowOverlines: allowOverlines,
		Description:    description,
	}, nil
}

// StandardRules is the classic renju-flavored game: 15x15, exactly five in a
// row wins, overlines do not count.
func StandardRules() RuleSet {
	rs, _ := NewRuleSet("standard", 15, 5, false, "15x15 board, exactly five in a row wins")
	return rs
}

// FreestyleRules relaxes the overline restriction: five or more in a row wins.
func FreestyleRules() RuleSet {
	rs, _ := NewRuleSet("freestyle", 15, 5, true, "15x15 board, five or more in a row wins")
	return rs
}
