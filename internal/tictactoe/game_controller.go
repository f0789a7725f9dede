package tictactoe

import (
	"github.com/rocketscienceinc/tictactoe-engine/internal/bitboard"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// WinCombos are the eight lines as coordinate triples, in the same order as bitboard.Lines.
var WinCombos = buildWinCombos()

func buildWinCombos() [len(bitboard.Lines)][3]entity.Coord {
	var combos [len(bitboard.Lines)][3]entity.Coord
	for i, mask := range bitboard.Lines {
		copy(combos[i][:], mask.Coords())
	}
	return combos
}

// Evaluate reports the first winning line in detection order, a tie when the grid is full,
// or an unresolved result otherwise.
func Evaluate(grid entity.Grid) entity.WinResult {
	for _, combo := range WinCombos {
		a := grid[combo[0].Row][combo[0].Col]
		b := grid[combo[1].Row][combo[1].Col]
		c := grid[combo[2].Row][combo[2].Col]
		if a != entity.Empty && a == b && b == c {
			return entity.WinResult{
				Resolved:    true,
				Winner:      a,
				WinningLine: []entity.Coord{combo[0], combo[1], combo[2]},
			}
		}
	}

	// the game continues until all the squares are full
	if !grid.IsFull() {
		return entity.WinResult{}
	}

	return entity.WinResult{Resolved: true, Winner: entity.Empty}
}

// EvaluateBits is Evaluate over a bitboard pair. On each line X is tested before O.
func EvaluateBits(x, o bitboard.Bits) entity.WinResult {
	for _, mask := range bitboard.Lines {
		switch {
		case x&mask == mask:
			return entity.WinResult{Resolved: true, Winner: entity.X, WinningLine: mask.Coords()}
		case o&mask == mask:
			return entity.WinResult{Resolved: true, Winner: entity.O, WinningLine: mask.Coords()}
		}
	}

	if x|o != bitboard.Full {
		return entity.WinResult{}
	}

	return entity.WinResult{Resolved: true, Winner: entity.Empty}
}

// HasWon reports whether own completes any line.
func HasWon(own bitboard.Bits) bool {
	for _, mask := range bitboard.Lines {
		if own&mask == mask {
			return true
		}
	}
	return false
}

// ImmediateWins returns the empty cells that would complete a line for own.
func ImmediateWins(own, opp bitboard.Bits) bitboard.Bits {
	empty := bitboard.EmptyCells(own, opp)

	var wins bitboard.Bits
	for _, mask := range bitboard.Lines {
		missing := mask &^ own
		if missing.Count() == 1 && missing&empty != 0 {
			wins |= missing
		}
	}

	return wins
}
