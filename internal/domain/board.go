package domain

// lineDirections are the four axes a winning run can lie on:
// horizontal, vertical and the two diagonals.
var lineDirections = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// Board is a square grid of stones plus the coordinate of the last applied
// move. Mutated only through Place, so occupied cells never change color.
type Board struct {
	size    int
	cells   [][]Stone
	stones  int
	lastRow int
	lastCol int
	hasLast bool
}

func NewBoard(size int) *Board {
	cells := make([][]Stone, size)
	for i := range cells {
		cells[i] = make([]Stone, size)
	}
	return &Board{size: size, cells: cells}
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.size && col >= 0 && col < b.size
}

// At returns the stone at (row, col), or Empty for out-of-range coordinates.
func (b *Board) At(row, col int) Stone {
	if !b.InBounds(row, col) {
		return Empty
	}
	return b.cells[row][col]
}

// Place puts a stone on an empty in-bounds cell and advances the last-move
// marker. Validation happens before any mutation.
func (b *Board) Place(row, col int, s Stone) error {
	if !b.InBounds(row, col) {
		return ErrOutOfBounds
	}
	if b.cells[row][col] != Empty {
		return ErrCellOccupied
	}
	b.cells[row][col] = s
	b.stones++
	b.lastRow, b.lastCol = row, col
	b.hasLast = true
	return nil
}

func (b *Board) IsFull() bool {
	return b.stones == b.size*b.size
}

func (b *Board) MoveCount() int {
	return b.stones
}

// LastMove returns the coordinate of the most recently placed stone.
// ok is false for an empty board.
func (b *Board) LastMove() (row, col int, ok bool) {
	return b.lastRow, b.lastCol, b.hasLast
}

// LineRuns measures, for each of the four directions, the maximal contiguous
// run of the color at (row, col) passing through that cell. Extends both ways
// until a differing cell or the board edge. An empty cell yields all zeros.
//
// Only the lines through the just-placed stone can have changed, so win
// detection stays O(board size) per move instead of rescanning the grid.
func (b *Board) LineRuns(row, col int) [4]int {
	var runs [4]int
	mark := b.At(row, col)
	if mark == Empty {
		return runs
	}

	for i, d := range lineDirections {
		count := 1

		r, c := row+d[0], col+d[1]
		for b.InBounds(r, c) && b.cells[r][c] == mark {
			count++
			r += d[0]
			c += d[1]
		}

		r, c = row-d[0], col-d[1]
		for b.InBounds(r, c) && b.cells[r][c] == mark {
			count++
			r -= d[0]
			c -= d[1]
		}

		runs[i] = count
	}
	return runs
}

// Cells returns a deep copy of the grid for snapshots and persistence.
func (b *Board) Cells() [][]Stone {
	out := make([][]Stone, b.size)
	for i := range b.cells {
		out[i] = make([]Stone, b.size)
		copy(out[i], b.cells[i])
	}
	return out
}

// RestoreBoard rebuilds a board from a stored grid and last-move marker.
// Used when loading a persisted game back into memory.
func RestoreBoard(cells [][]Stone, lastRow, lastCol int, hasLast bool) *Board {
	size := len(cells)
	b := NewBoard(size)
	for r := range cells {
		for c := range cells[r] {
			if cells[r][c] != Empty {
				b.cells[r][c] = cells[r][c]
				b.stones++
			}
		}
	}
	b.lastRow, b.lastCol, b.hasLast = lastRow, lastCol, hasLast
	return b
}
