package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-engine/internal/bitboard"
)

var ErrInvalidMoveIndex = errors.New("move index is outside the board")

type MoveTable interface {
	Lookup(ctx context.Context, own, opp bitboard.Bits) (int, bool, error)
	Store(ctx context.Context, own, opp bitboard.Bits, index int) error
}

type position struct {
	own, opp bitboard.Bits
}

type memoryMoveTable struct {
	mu    sync.RWMutex
	moves map[position]int
}

func NewMemoryMoveTable() MoveTable {
	return &memoryMoveTable{
		moves: make(map[position]int),
	}
}

func (that *memoryMoveTable) Lookup(_ context.Context, own, opp bitboard.Bits) (int, bool, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	index, ok := that.moves[position{own: own, opp: opp}]
	return index, ok, nil
}

func (that *memoryMoveTable) Store(_ context.Context, own, opp bitboard.Bits, index int) error {
	if index < 0 || index >= bitboard.Cells {
		return fmt.Errorf("%w: %d", ErrInvalidMoveIndex, index)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.moves[position{own: own, opp: opp}] = index

	return nil
}

type redisMoveTable struct {
	client *redis.Client
}

// NewRedisMoveTable - positions never change their best move, so keys are stored without expiry.
func NewRedisMoveTable(client *redis.Client) MoveTable {
	return &redisMoveTable{
		client: client,
	}
}

func moveKey(own, opp bitboard.Bits) string {
	return "movetable:" + strconv.Itoa(int(own)) + ":" + strconv.Itoa(int(opp))
}

func (that *redisMoveTable) Lookup(ctx context.Context, own, opp bitboard.Bits) (int, bool, error) {
	response, err := that.client.Get(ctx, moveKey(own, opp)).Result()

	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, fmt.Errorf("failed to get move: %w", err)
	}

	index, err := strconv.Atoi(response)
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse move %q: %w", response, err)
	}

	if index < 0 || index >= bitboard.Cells {
		return 0, false, fmt.Errorf("%w: %d", ErrInvalidMoveIndex, index)
	}

	return index, true, nil
}

func (that *redisMoveTable) Store(ctx context.Context, own, opp bitboard.Bits, index int) error {
	if index < 0 || index >= bitboard.Cells {
		return fmt.Errorf("%w: %d", ErrInvalidMoveIndex, index)
	}

	if err := that.client.Set(ctx, moveKey(own, opp), index, 0).Err(); err != nil {
		return fmt.Errorf("failed to set move: %w", err)
	}

	return nil
}
