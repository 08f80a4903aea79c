package gomoku

import (
	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

const EmptyCell = ""

// lineDirections are the four axes a run can form along: horizontal,
// vertical and both diagonals. The opposite sense of each axis is walked
// explicitly in CheckWin.
var lineDirections = [4][2]int{
	{1, 0},
	{0, 1},
	{1, 1},
	{1, -1},
}

// NewBoard allocates an empty size x size grid. Cells are addressed as
// board[y][x].
func NewBoard(size int) [][]string {
	board := make([][]string, size)
	for i := range board {
		board[i] = make([]string, size)
	}

	return board
}

// Place writes a seat mark into an empty cell. It re-validates bounds and
// occupancy so callers get a sentinel error instead of a corrupted grid.
func Place(board [][]string, x, y int, seat string) error {
	if !inBounds(board, x, y) {
		return apperror.ErrOutOfBounds
	}

	if board[y][x] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	board[y][x] = seat

	return nil
}

// CheckWin reports whether the mark at (x,y) completes a run of at least
// winCondition cells along any of the four directions. The run is counted in
// both senses from (x,y), counting the placed cell once, so runs longer than
// winCondition also win.
func CheckWin(board [][]string, x, y, winCondition int) bool {
	if !inBounds(board, x, y) {
		return false
	}

	mark := board[y][x]
	if mark == EmptyCell {
		return false
	}

	for _, dir := range lineDirections {
		count := 1

		fx, fy := x+dir[0], y+dir[1]
		for inBounds(board, fx, fy) && board[fy][fx] == mark {
			count++
			fx += dir[0]
			fy += dir[1]
		}

		bx, by := x-dir[0], y-dir[1]
		for inBounds(board, bx, by) && board[by][bx] == mark {
			count++
			bx -= dir[0]
			by -= dir[1]
		}

		if count >= winCondition {
			return true
		}
	}

	return false
}

// CheckDraw reports whether every cell is occupied. Callers must check for a
// win first: a board that fills up on the winning move is a win, not a draw.
func CheckDraw(board [][]string) bool {
	for _, row := range board {
		for _, cell := range row {
			if cell == EmptyCell {
				return false
			}
		}
	}

	return true
}

func inBounds(board [][]string, x, y int) bool {
	return x >= 0 && y >= 0 && y < len(board) && x < len(board)
}
