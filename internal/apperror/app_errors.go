package apperror

import "errors"

var (
	ErrInvalidPlayer           = errors.New("invalid player")
	ErrInvalidGameMode         = errors.New("invalid game mode")
	ErrInvalidGameState        = errors.New("invalid game state")
	ErrInvalidPlayerController = errors.New("invalid player controller")
	ErrInvalidAIStrategy       = errors.New("invalid ai strategy")
	ErrIllegalMove             = errors.New("cell is already occupied")
	ErrInvalidBitboardState    = errors.New("invalid bitboard state")
	ErrNotImplemented          = errors.New("not implemented")

	ErrInvalidCell      = errors.New("invalid cell coordinates")
	ErrRequestInFlight  = errors.New("a turn is already in progress")
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrMatchNotFound    = errors.New("match not found")
)
