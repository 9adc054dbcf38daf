package domain

// Result classifies the state of a game after a move.
type Result int8

const (
	ResultOngoing Result = iota
	ResultWin
	ResultDraw
)

// Outcome is what evaluating a move yields. Winner is set only for ResultWin
// and is always the mover's color: a single move can only extend the mover's
// own lines, so no cross-player ambiguity exists.
type Outcome struct {
	Result Result
	Winner Stone
}

// EvaluateWin checks the terminal conditions after mover placed a stone at
// (row, col). Only the lines through that stone are examined.
//
// A run of exactly WinLength wins. A longer run (an overline) wins only when
// the ruleset allows it; otherwise the overlong direction is skipped, but an
// exact-length run in another direction through the same stone still wins.
// A full board with no qualifying run is a draw.
func EvaluateWin(b *Board, row, col int, mover Stone, rules RuleSet) Outcome {
	for _, run := range b.LineRuns(row, col) {
		if run == rules.WinLength {
			return Outcome{Result: ResultWin, Winner: mover}
		}
		if run > rules.WinLength && rules.AllowOverlines {
			return Outcome{Result: ResultWin, Winner: mover}
		}
	}

	if b.IsFull() {
		return Outcome{Result: ResultDraw}
	}

	return Outcome{Result: ResultOngoing}
}
