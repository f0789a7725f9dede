package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/bitboard"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"golang.org/x/exp/rand"
)

type BotService interface {
	SelectMove(ctx context.Context, req MoveRequest) (entity.Coord, error)
	Supports(strategy entity.Strategy) bool
}

// MoveTable caches the chosen move of a position, keyed by the bits of the side to move
// and the bits of its opponent.
type MoveTable interface {
	Lookup(ctx context.Context, own, opp bitboard.Bits) (int, bool, error)
	Store(ctx context.Context, own, opp bitboard.Bits, index int) error
}

type controllerLookup interface {
	ControllerFor(symbol entity.Cell) (entity.Controller, error)
}

type MoveRequest struct {
	Mode     entity.GameMode
	Strategy entity.Strategy
	Players  controllerLookup
	Board    entity.Grid
	Symbol   entity.Cell
}

// strategyFunc returns the index of the chosen cell. own belongs to the side to move.
type strategyFunc func(ctx context.Context, own, opp bitboard.Bits) (int, error)

type botService struct {
	logger *slog.Logger

	randMu sync.Mutex
	rnd    *rand.Rand

	moveTable MoveTable
	solver    *solver

	strategies map[entity.Strategy]strategyFunc
}

// NewBotService - moveTable may be nil, in which case optimal moves are searched every time.
func NewBotService(logger *slog.Logger, moveTable MoveTable, rnd *rand.Rand) BotService {
	bot := &botService{
		logger:    logger.With("component", "bot"),
		rnd:       rnd,
		moveTable: moveTable,
		solver:    newSolver(),
	}

	bot.strategies = map[entity.Strategy]strategyFunc{
		entity.StrategyRandom:      bot.uniformRandom,
		entity.StrategyLossSeeking: bot.lossSeeking,
		entity.StrategyHeuristic:   bot.heuristicSafe,
		entity.StrategyOptimal:     bot.optimal,
	}

	return bot
}

func (that *botService) Supports(strategy entity.Strategy) bool {
	_, ok := that.strategies[strategy]
	return ok
}

func (that *botService) SelectMove(ctx context.Context, req MoveRequest) (entity.Coord, error) {
	if req.Mode != entity.ModeVsAI {
		return entity.Coord{}, fmt.Errorf("%w: automated moves need %s, got %s", apperror.ErrInvalidGameMode, entity.ModeVsAI, req.Mode)
	}

	if err := entity.ValidatePlayer(req.Symbol); err != nil {
		return entity.Coord{}, err
	}

	if req.Players == nil {
		return entity.Coord{}, fmt.Errorf("%w: no controllers assigned", apperror.ErrInvalidPlayerController)
	}

	controller, err := req.Players.ControllerFor(req.Symbol)
	if err != nil {
		return entity.Coord{}, err
	}

	if controller != entity.ControllerAutomated {
		return entity.Coord{}, fmt.Errorf("%w: %s is controlled by %s", apperror.ErrInvalidPlayerController, req.Symbol, controller)
	}

	if !req.Strategy.Valid() {
		return entity.Coord{}, fmt.Errorf("%w: %s", apperror.ErrInvalidAIStrategy, req.Strategy)
	}

	strategy, ok := that.strategies[req.Strategy]
	if !ok {
		return entity.Coord{}, fmt.Errorf("%w: strategy %s", apperror.ErrNotImplemented, req.Strategy)
	}

	x, o := bitboard.Encode(req.Board)
	if tictactoe.HasWon(x) || tictactoe.HasWon(o) {
		return entity.Coord{}, fmt.Errorf("%w: board is already decided", apperror.ErrInvalidGameState)
	}

	own, opp := bitboard.Split(x, o, req.Symbol)
	if bitboard.EmptyCells(own, opp) == 0 {
		return entity.Coord{}, apperror.ErrNoAvailableMoves
	}

	index, err := strategy(ctx, own, opp)
	if err != nil {
		return entity.Coord{}, fmt.Errorf("strategy %s failed: %w", req.Strategy, err)
	}

	move := bitboard.CoordOf(index)
	that.logger.Debug("bot selected move", "strategy", req.Strategy.String(), "symbol", req.Symbol.String(), "cell", move.String())

	return move, nil
}

// pick - returns a uniformly random index among the set bits of candidates.
func (that *botService) pick(candidates bitboard.Bits) int {
	indexes := candidates.Indexes()

	that.randMu.Lock()
	defer that.randMu.Unlock()

	return indexes[that.rnd.Intn(len(indexes))]
}
