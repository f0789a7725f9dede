package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// Board owns the grid of a match. It is only mutated through Write and Reset.
type Board struct {
	grid Grid
}

func NewBoard() *Board {
	return &Board{}
}

func (that *Board) Reset() {
	that.grid = Grid{}
}

// Write places symbol at (row, col). Occupied cells are never overwritten.
func (that *Board) Write(row, col int, symbol Cell) error {
	coord := Coord{Row: row, Col: col}
	if !coord.Valid() {
		return fmt.Errorf("%w: %s", apperror.ErrInvalidCell, coord)
	}

	if err := ValidatePlayer(symbol); err != nil {
		return err
	}

	if that.grid[row][col] != Empty {
		return fmt.Errorf("%w: %s", apperror.ErrIllegalMove, coord)
	}

	that.grid[row][col] = symbol

	return nil
}

func (that *Board) Read(row, col int) (Cell, error) {
	coord := Coord{Row: row, Col: col}
	if !coord.Valid() {
		return Empty, fmt.Errorf("%w: %s", apperror.ErrInvalidCell, coord)
	}
	return that.grid[row][col], nil
}

// Grid returns a copy of the current cells.
func (that *Board) Grid() Grid {
	return that.grid
}

func (that *Board) IsFull() bool {
	return that.grid.IsFull()
}

func (that *Board) Count() int {
	return that.grid.Count()
}
