package service

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/bitboard"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

func (that *botService) uniformRandom(_ context.Context, own, opp bitboard.Bits) (int, error) {
	return that.pick(bitboard.EmptyCells(own, opp)), nil
}

// lossSeeking neither takes its own winning cells nor blocks the opponent's,
// unless every legal cell is one of those.
func (that *botService) lossSeeking(_ context.Context, own, opp bitboard.Bits) (int, error) {
	empty := bitboard.EmptyCells(own, opp)
	avoid := tictactoe.ImmediateWins(own, opp) | tictactoe.ImmediateWins(opp, own)

	if candidates := empty &^ avoid; candidates != 0 {
		return that.pick(candidates), nil
	}

	return that.pick(empty), nil
}

// heuristicSafe wins if it can, blocks if it must, otherwise moves randomly.
func (that *botService) heuristicSafe(_ context.Context, own, opp bitboard.Bits) (int, error) {
	if wins := tictactoe.ImmediateWins(own, opp); wins != 0 {
		return that.pick(wins), nil
	}

	if threats := tictactoe.ImmediateWins(opp, own); threats != 0 {
		return that.pick(threats), nil
	}

	return that.pick(bitboard.EmptyCells(own, opp)), nil
}

func (that *botService) optimal(ctx context.Context, own, opp bitboard.Bits) (int, error) {
	log := that.logger.With("method", "optimal")

	if that.moveTable != nil {
		index, ok, err := that.moveTable.Lookup(ctx, own, opp)
		switch {
		case err != nil:
			log.Warn("move table lookup failed, searching instead", "error", err)
		case ok && bitboard.EmptyCells(own, opp).Has(index):
			return index, nil
		case ok:
			log.Warn("move table returned an occupied cell, searching instead", "cell", index)
		}
	}

	index, _ := that.solver.bestMove(own, opp)

	if that.moveTable != nil {
		if err := that.moveTable.Store(ctx, own, opp, index); err != nil {
			log.Warn("could not store move in move table", "error", err)
		}
	}

	return index, nil
}

// solver is an exhaustive negamax over the empty cells. Scores are +1 (side to move wins),
// -1 (loses) or 0 (tie) with no depth discount. Scores are memoised by position for the
// lifetime of the solver.
type solver struct {
	mu     sync.Mutex
	scores map[uint32]int8
}

func newSolver() *solver {
	return &solver{scores: make(map[uint32]int8)}
}

func positionKey(own, opp bitboard.Bits) uint32 {
	return uint32(own)<<16 | uint32(opp)
}

// bestMove - returns the lowest row-major index among the moves with the best score.
func (that *solver) bestMove(own, opp bitboard.Bits) (int, int) {
	bestIndex, bestScore := -1, -2
	for _, index := range bitboard.EmptyCells(own, opp).Indexes() {
		score := -that.score(opp, own|bitboard.Bit(index))
		if score > bestScore {
			bestIndex, bestScore = index, score
		}
		if bestScore == 1 {
			break
		}
	}
	return bestIndex, bestScore
}

// score - own is the side to move, opp made the last move.
func (that *solver) score(own, opp bitboard.Bits) int {
	if tictactoe.HasWon(opp) {
		return -1
	}

	empty := bitboard.EmptyCells(own, opp)
	if empty == 0 {
		return 0
	}

	key := positionKey(own, opp)

	that.mu.Lock()
	cached, ok := that.scores[key]
	that.mu.Unlock()
	if ok {
		return int(cached)
	}

	best := -1
	for _, index := range empty.Indexes() {
		if score := -that.score(opp, own|bitboard.Bit(index)); score > best {
			best = score
			if best == 1 {
				break
			}
		}
	}

	that.mu.Lock()
	that.scores[key] = int8(best)
	that.mu.Unlock()

	return best
}
