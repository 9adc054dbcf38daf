package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeAll(t *testing.T, b *Board, color Stone, coords [][2]int) {
	t.Helper()
	for _, rc := range coords {
		require.NoError(t, b.Place(rc[0], rc[1], color))
	}
}

func TestEvaluateWin(t *testing.T) {
	standard := StandardRules()
	freestyle := FreestyleRules()

	t.Run("exact five in a row wins", func(t *testing.T) {
		b := NewBoard(15)
		placeAll(t, b, Black, [][2]int{{7, 7}, {7, 8}, {7, 9}, {7, 10}, {7, 11}})

		out := EvaluateWin(b, 7, 11, Black, standard)

		assert.Equal(t, ResultWin, out.Result)
		assert.Equal(t, Black, out.Winner)
	})

	t.Run("vertical and diagonal runs win too", func(t *testing.T) {
		b := NewBoard(15)
		placeAll(t, b, White, [][2]int{{3, 3}, {4, 3}, {5, 3}, {6, 3}, {7, 3}})
		assert.Equal(t, ResultWin, EvaluateWin(b, 5, 3, White, standard).Result)

		b = NewBoard(15)
		placeAll(t, b, White, [][2]int{{2, 10}, {3, 9}, {4, 8}, {5, 7}, {6, 6}})
		assert.Equal(t, ResultWin, EvaluateWin(b, 6, 6, White, standard).Result)
	})

	t.Run("four in a row stays ongoing", func(t *testing.T) {
		b := NewBoard(15)
		placeAll(t, b, Black, [][2]int{{7, 7}, {7, 8}, {7, 9}, {7, 10}})

		out := EvaluateWin(b, 7, 10, Black, standard)

		assert.Equal(t, ResultOngoing, out.Result)
	})

	t.Run("overline wins when the ruleset allows it", func(t *testing.T) {
		b := NewBoard(15)
		placeAll(t, b, Black, [][2]int{{7, 6}, {7, 7}, {7, 8}, {7, 9}, {7, 10}, {7, 11}})

		out := EvaluateWin(b, 7, 11, Black, freestyle)

		assert.Equal(t, ResultWin, out.Result)
	})

	t.Run("overline does not win under the no-overline rule", func(t *testing.T) {
		b := NewBoard(15)
		placeAll(t, b, Black, [][2]int{{7, 6}, {7, 7}, {7, 8}, {7, 9}, {7, 10}, {7, 11}})

		out := EvaluateWin(b, 7, 11, Black, standard)

		assert.Equal(t, ResultOngoing, out.Result)
	})

	t.Run("exact run in another direction still wins despite an overline", func(t *testing.T) {
		b := NewBoard(15)
		// horizontal overline of six through (7,9)
		placeAll(t, b, Black, [][2]int{{7, 6}, {7, 7}, {7, 8}, {7, 10}, {7, 11}})
		// vertical exact five through (7,9)
		placeAll(t, b, Black, [][2]int{{3, 9}, {4, 9}, {5, 9}, {6, 9}})
		require.NoError(t, b.Place(7, 9, Black))

		out := EvaluateWin(b, 7, 9, Black, standard)

		assert.Equal(t, ResultWin, out.Result)
		assert.Equal(t, Black, out.Winner)
	})

	t.Run("full board with no qualifying run is a draw", func(t *testing.T) {
		rules, err := NewRuleSet("tiny", 5, 5, false, "")
		require.NoError(t, err)
		b := NewBoard(5)

		// Column pattern BBWWB repeated per row pair keeps every run short.
		pattern := [5][5]Stone{
			{Black, Black, White, White, Black},
			{White, White, Black, Black, White},
			{Black, Black, White, White, Black},
			{White, White, Black, Black, White},
			{Black, Black, White, White, Black},
		}
		var lastR, lastC int
		for r := 0; r < 5; r++ {
			for c := 0; c < 5; c++ {
				require.NoError(t, b.Place(r, c, pattern[r][c]))
				lastR, lastC = r, c
			}
		}

		out := EvaluateWin(b, lastR, lastC, pattern[lastR][lastC], rules)

		assert.Equal(t, ResultDraw, out.Result)
	})

	t.Run("win on the final cell beats the draw check", func(t *testing.T) {
		rules, err := NewRuleSet("tiny", 5, 3, true, "")
		require.NoError(t, err)
		b := NewBoard(5)
		for r := 0; r < 5; r++ {
			for c := 0; c < 5; c++ {
				if r == 4 && c == 4 {
					continue
				}
				// (2,2) and (3,3) come out Black, so the final stone
				// at (4,4) completes a diagonal three.
				color := Black
				if (r+c/3)%2 == 1 {
					color = White
				}
				require.NoError(t, b.Place(r, c, color))
			}
		}
		require.NoError(t, b.Place(4, 4, Black))

		out := EvaluateWin(b, 4, 4, Black, rules)

		assert.Equal(t, ResultWin, out.Result)
	})
}
