package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const BoardSize = 3

// Cell is the content of one board square. X and O double as player symbols.
type Cell int8

const (
	Empty Cell = 0
	X     Cell = 1
	O     Cell = -1
)

func (that Cell) IsPlayer() bool {
	return that == X || that == O
}

// Opponent returns the other symbol. Empty has no opponent and stays Empty.
func (that Cell) Opponent() Cell {
	return -that
}

func (that Cell) String() string {
	switch that {
	case X:
		return "X"
	case O:
		return "O"
	case Empty:
		return ""
	default:
		return fmt.Sprintf("Cell(%d)", int8(that))
	}
}

func (that Cell) MarshalText() ([]byte, error) {
	if that != Empty && !that.IsPlayer() {
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidPlayer, int8(that))
	}
	return []byte(that.String()), nil
}

func (that *Cell) UnmarshalText(text []byte) error {
	cell, err := ParseCell(string(text))
	if err != nil {
		return err
	}
	*that = cell
	return nil
}

// ParseCell accepts "X", "O" and "" (empty).
func ParseCell(value string) (Cell, error) {
	switch value {
	case "X", "x":
		return X, nil
	case "O", "o":
		return O, nil
	case "":
		return Empty, nil
	default:
		return Empty, fmt.Errorf("%w: %q", apperror.ErrInvalidPlayer, value)
	}
}

// ValidatePlayer reports ErrInvalidPlayer unless symbol is X or O.
func ValidatePlayer(symbol Cell) error {
	if !symbol.IsPlayer() {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidPlayer, int8(symbol))
	}
	return nil
}

type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Coord) Valid() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}

// Index is the row-major position of the coordinate, 0..8.
func (that Coord) Index() int {
	return that.Row*BoardSize + that.Col
}

func (that Coord) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

// Grid is a row-major 3x3 board. It is a value type: assigning it copies it.
type Grid [BoardSize][BoardSize]Cell

func (that Grid) IsFull() bool {
	return that.Count() == BoardSize*BoardSize
}

// Count returns the number of non-empty cells.
func (that Grid) Count() int {
	count := 0
	for _, row := range that {
		for _, cell := range row {
			if cell != Empty {
				count++
			}
		}
	}
	return count
}
