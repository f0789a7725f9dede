package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"golang.org/x/exp/rand"
)

const DefaultAIDelay = 300 * time.Millisecond

type botService interface {
	SelectMove(ctx context.Context, req service.MoveRequest) (entity.Coord, error)
	Supports(strategy entity.Strategy) bool
}

// ResultHandler receives the snapshot of a resolved step.
type ResultHandler func(snapshot entity.Snapshot)

type Option func(*GameManager)

// WithAIDelay - sets the pause before an automated move is applied.
func WithAIDelay(delay time.Duration) Option {
	return func(that *GameManager) {
		if delay >= 0 {
			that.aiDelay = delay
		}
	}
}

// WithRand - sets the generator that picks the starting symbol.
func WithRand(rnd *rand.Rand) Option {
	return func(that *GameManager) {
		if rnd != nil {
			that.rnd = rnd
		}
	}
}

// WithID - overrides the generated match id.
func WithID(id string) Option {
	return func(that *GameManager) {
		if id != "" {
			that.id = id
		}
	}
}

// GameManager drives one match: it owns the board, the turn and the game state,
// and runs at most one automated step at a time.
type GameManager struct {
	logger  *slog.Logger
	bot     botService
	id      string
	aiDelay time.Duration
	rnd     *rand.Rand

	mu              sync.Mutex
	board           *entity.Board
	players         *service.PlayerRegistry
	mode            entity.GameMode
	strategy        entity.Strategy
	automatedSymbol entity.Cell
	state           entity.GameState
	turn            entity.Cell
	result          entity.WinResult
	inFlight        bool
}

// NewGameManager - returns a vs-human match in the initialized state.
func NewGameManager(logger *slog.Logger, bot botService, opts ...Option) *GameManager {
	manager := &GameManager{
		bot:     bot,
		id:      pkg.GenerateMatchID(),
		aiDelay: DefaultAIDelay,
		board:   entity.NewBoard(),
		players: service.NewPlayerRegistry(),
		mode:    entity.ModeVsHuman,
		state:   entity.StateInitialized,
	}

	for _, opt := range opts {
		opt(manager)
	}

	if manager.rnd == nil {
		manager.rnd = pkg.NewTimeSeededRand()
	}

	// both symbols human; cannot fail
	_ = manager.players.AssignForMode(entity.ModeVsHuman, entity.Empty)

	manager.logger = logger.With("component", "game-manager", "match", manager.id)

	return manager
}

// InitializeGame - (re)starts the match. strategy and automatedSymbol are ignored for vs-human.
func (that *GameManager) InitializeGame(mode entity.GameMode, strategy entity.Strategy, automatedSymbol entity.Cell) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %s", apperror.ErrInvalidGameMode, mode)
	}

	if mode == entity.ModeVsHuman {
		strategy, automatedSymbol = 0, entity.Empty
	} else {
		if err := entity.ValidatePlayer(automatedSymbol); err != nil {
			return fmt.Errorf("automated symbol: %w", err)
		}

		if !strategy.Valid() {
			return fmt.Errorf("%w: %s", apperror.ErrInvalidAIStrategy, strategy)
		}
	}

	players := service.NewPlayerRegistry()
	if err := players.AssignForMode(mode, automatedSymbol); err != nil {
		return fmt.Errorf("failed to assign controllers: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.inFlight {
		return apperror.ErrRequestInFlight
	}

	that.board.Reset()
	that.players = players
	that.mode = mode
	that.strategy = strategy
	that.automatedSymbol = automatedSymbol
	that.state = entity.StateInitialized
	that.turn = entity.Empty
	that.result = entity.WinResult{}

	that.logger.Info("game initialized", "mode", mode.String(), "strategy", strategyName(strategy), "automated", automatedSymbol.String())

	return nil
}

// NextTurn - advances the match by one step.
//
// Validation errors are returned directly and leave the match untouched. Human and
// initial steps resolve before NextTurn returns; an automated step resolves on its own
// goroutine after the configured delay. handler may be nil.
//
// The match stays in flight until handler has returned, so a NextTurn or InitializeGame
// issued from inside handler fails with ErrRequestInFlight. Follow-up calls are
// sequenced on the returned Step instead.
func (that *GameManager) NextTurn(ctx context.Context, handler ResultHandler, move *entity.Coord) (*Step, error) {
	log := that.logger.With("method", "NextTurn")

	that.mu.Lock()

	if that.inFlight {
		that.mu.Unlock()
		return nil, apperror.ErrRequestInFlight
	}

	switch that.state {
	case entity.StateInitialized:
		that.turn = entity.X
		if that.rnd.Intn(2) == 1 {
			that.turn = entity.O
		}

		if err := that.awaitTurn(); err != nil {
			that.turn = entity.Empty
			that.mu.Unlock()
			return nil, err
		}

		snapshot := that.snapshot()
		that.inFlight = true
		that.mu.Unlock()

		log.Debug("starting symbol chosen", "turn", snapshot.Turn.String(), "state", snapshot.GameState.String())

		return that.report(newStep(), handler, snapshot, nil), nil

	case entity.StateWaitingForHuman:
		if move == nil {
			err := fmt.Errorf("%w: a move is required from %s", apperror.ErrInvalidCell, that.turn)
			that.mu.Unlock()
			return nil, err
		}

		if err := that.apply(*move, that.turn); err != nil {
			that.mu.Unlock()
			return nil, err
		}

		snapshot := that.snapshot()
		that.inFlight = true
		that.mu.Unlock()

		log.Debug("human move applied", "cell", move.String(), "state", snapshot.GameState.String())

		return that.report(newStep(), handler, snapshot, nil), nil

	case entity.StateWaitingForAutomated:
		if move != nil {
			err := fmt.Errorf("%w: %s moves automatically", apperror.ErrInvalidGameState, that.turn)
			that.mu.Unlock()
			return nil, err
		}

		if !that.bot.Supports(that.strategy) {
			err := fmt.Errorf("%w: strategy %s", apperror.ErrNotImplemented, that.strategy)
			that.mu.Unlock()
			return nil, err
		}

		req := service.MoveRequest{
			Mode:     that.mode,
			Strategy: that.strategy,
			Players:  that.players,
			Board:    that.board.Grid(),
			Symbol:   that.turn,
		}
		that.inFlight = true
		that.mu.Unlock()

		step := newStep()
		go that.runAutomated(context.WithoutCancel(ctx), step, handler, req)

		return step, nil

	case entity.StateFinished:
		that.mu.Unlock()
		return nil, fmt.Errorf("%w: game is finished", apperror.ErrInvalidGameState)

	default:
		state := that.state
		that.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", apperror.ErrInvalidGameState, state)
	}
}

func (that *GameManager) runAutomated(ctx context.Context, step *Step, handler ResultHandler, req service.MoveRequest) {
	log := that.logger.With("method", "runAutomated")

	timer := time.NewTimer(that.aiDelay)
	<-timer.C

	move, err := that.bot.SelectMove(ctx, req)

	that.mu.Lock()
	if err == nil {
		err = that.apply(move, req.Symbol)
	}
	snapshot := that.snapshot()
	that.mu.Unlock()

	if err != nil {
		log.Error("automated move failed", "symbol", req.Symbol.String(), "error", err)
		that.report(step, handler, snapshot, fmt.Errorf("automated move: %w", err))
		return
	}

	log.Debug("automated move applied", "cell", move.String(), "state", snapshot.GameState.String())

	that.report(step, handler, snapshot, nil)
}

// report runs handler for a successful step, then leaves the in-flight state and
// resolves step under the lock. Callers have set inFlight.
func (that *GameManager) report(step *Step, handler ResultHandler, snapshot entity.Snapshot, err error) *Step {
	if err == nil && handler != nil {
		handler(snapshot)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.inFlight = false
	step.resolve(snapshot, err)

	return step
}

// apply writes symbol at move and moves the state machine on. Callers hold the lock.
func (that *GameManager) apply(move entity.Coord, symbol entity.Cell) error {
	if err := that.board.Write(move.Row, move.Col, symbol); err != nil {
		return err
	}

	result := tictactoe.Evaluate(that.board.Grid())
	if result.Resolved {
		that.result = result
		that.turn = entity.Empty
		that.state = entity.StateFinished

		that.logger.Info("game finished", "winner", result.Winner.String(), "tie", result.IsTie())

		return nil
	}

	that.turn = symbol.Opponent()

	return that.awaitTurn()
}

// awaitTurn sets the waiting state matching the controller of the current turn.
func (that *GameManager) awaitTurn() error {
	controller, err := that.players.ControllerFor(that.turn)
	if err != nil {
		return err
	}

	switch controller {
	case entity.ControllerHuman:
		that.state = entity.StateWaitingForHuman
	case entity.ControllerAutomated:
		that.state = entity.StateWaitingForAutomated
	default:
		return fmt.Errorf("%w: %s", apperror.ErrInvalidPlayerController, controller)
	}

	return nil
}

func (that *GameManager) snapshot() entity.Snapshot {
	return entity.Snapshot{
		GameState: that.state,
		Board:     that.board.Grid(),
		Turn:      that.turn,
		WinResult: that.result.Clone(),
	}
}

func (that *GameManager) ID() string {
	return that.id
}

func (that *GameManager) Mode() entity.GameMode {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.mode
}

func (that *GameManager) Strategy() entity.Strategy {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.strategy
}

func (that *GameManager) AutomatedSymbol() entity.Cell {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.automatedSymbol
}

func (that *GameManager) State() entity.GameState {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.state
}

func (that *GameManager) Board() entity.Grid {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.board.Grid()
}

func (that *GameManager) Turn() entity.Cell {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.turn
}

func (that *GameManager) Snapshot() entity.Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshot()
}

// Restart - re-initializes the match with its current mode, strategy and automated symbol.
func (that *GameManager) Restart() error {
	that.mu.Lock()
	mode, strategy, automatedSymbol := that.mode, that.strategy, that.automatedSymbol
	that.mu.Unlock()

	return that.InitializeGame(mode, strategy, automatedSymbol)
}

func strategyName(strategy entity.Strategy) string {
	if !strategy.Valid() {
		return ""
	}

	return strategy.String()
}
