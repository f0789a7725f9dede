// Package bitboard packs a grid into one 9-bit occupancy mask per player.
// Bit i corresponds to cell (i/3, i%3).
package bitboard

import (
	"fmt"
	"math/bits"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type Bits uint16

const (
	Cells = entity.BoardSize * entity.BoardSize

	Full Bits = 1<<Cells - 1
)

// Lines are the eight winning masks in detection order: rows, columns, diagonals.
var Lines = [8]Bits{
	0b000000111,
	0b000111000,
	0b111000000,
	0b001001001,
	0b010010010,
	0b100100100,
	0b100010001,
	0b001010100,
}

func Index(row, col int) int {
	return row*entity.BoardSize + col
}

func CoordOf(index int) entity.Coord {
	return entity.Coord{Row: index / entity.BoardSize, Col: index % entity.BoardSize}
}

func Bit(index int) Bits {
	return 1 << index
}

func (that Bits) Has(index int) bool {
	return that&Bit(index) != 0
}

func (that Bits) Count() int {
	return bits.OnesCount16(uint16(that))
}

// Indexes lists the set bits in ascending (row-major) order.
func (that Bits) Indexes() []int {
	out := make([]int, 0, that.Count())
	for rest := that; rest != 0; rest &= rest - 1 {
		out = append(out, bits.TrailingZeros16(uint16(rest)))
	}
	return out
}

// Coords returns the coordinates of the set bits in row-major order.
func (that Bits) Coords() []entity.Coord {
	indexes := that.Indexes()
	out := make([]entity.Coord, len(indexes))
	for i, index := range indexes {
		out[i] = CoordOf(index)
	}
	return out
}

// EmptyCells returns the mask of cells owned by neither player.
func EmptyCells(x, o Bits) Bits {
	return Full &^ (x | o)
}

func Encode(grid entity.Grid) (Bits, Bits) {
	var x, o Bits
	for i := 0; i < Cells; i++ {
		coord := CoordOf(i)
		switch grid[coord.Row][coord.Col] {
		case entity.X:
			x |= Bit(i)
		case entity.O:
			o |= Bit(i)
		case entity.Empty:
		}
	}
	return x, o
}

func Decode(x, o Bits) (entity.Grid, error) {
	if err := Validate(x, o); err != nil {
		return entity.Grid{}, err
	}

	var grid entity.Grid
	for i := 0; i < Cells; i++ {
		coord := CoordOf(i)
		switch {
		case x.Has(i):
			grid[coord.Row][coord.Col] = entity.X
		case o.Has(i):
			grid[coord.Row][coord.Col] = entity.O
		}
	}

	return grid, nil
}

// Validate checks that no cell is owned twice and that no bit lies outside the board.
func Validate(x, o Bits) error {
	if overlap := x & o; overlap != 0 {
		return fmt.Errorf("%w: cells %v owned by both players", apperror.ErrInvalidBitboardState, overlap.Coords())
	}
	if (x|o)&^Full != 0 {
		return fmt.Errorf("%w: bits outside the board (x=%#x, o=%#x)", apperror.ErrInvalidBitboardState, uint16(x), uint16(o))
	}
	return nil
}

// Split returns the masks of symbol and its opponent, in that order.
func Split(x, o Bits, symbol entity.Cell) (Bits, Bits) {
	if symbol == entity.O {
		return o, x
	}
	return x, o
}
