package usecase

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// MatchRegistry keeps the live matches of the process by id.
type MatchRegistry struct {
	logger *slog.Logger
	bot    botService
	opts   []Option

	mu      sync.RWMutex
	matches map[string]*GameManager
}

// NewMatchRegistry - opts are applied to every match the registry creates.
func NewMatchRegistry(logger *slog.Logger, bot botService, opts ...Option) *MatchRegistry {
	return &MatchRegistry{
		logger:  logger,
		bot:     bot,
		opts:    opts,
		matches: make(map[string]*GameManager),
	}
}

func (that *MatchRegistry) Create(mode entity.GameMode, strategy entity.Strategy, automatedSymbol entity.Cell) (*GameManager, error) {
	match := NewGameManager(that.logger, that.bot, that.opts...)

	if err := match.InitializeGame(mode, strategy, automatedSymbol); err != nil {
		return nil, fmt.Errorf("failed to initialize match: %w", err)
	}

	that.mu.Lock()
	that.matches[match.ID()] = match
	that.mu.Unlock()

	return match, nil
}

func (that *MatchRegistry) Get(id string) (*GameManager, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	match, ok := that.matches[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrMatchNotFound, id)
	}

	return match, nil
}

func (that *MatchRegistry) Delete(id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.matches[id]; !ok {
		return fmt.Errorf("%w: %s", apperror.ErrMatchNotFound, id)
	}

	delete(that.matches, id)

	return nil
}

func (that *MatchRegistry) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.matches)
}
