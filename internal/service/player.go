package service

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// PlayerRegistry maps each symbol to the controller that decides its moves.
type PlayerRegistry struct {
	x entity.Controller
	o entity.Controller
}

func NewPlayerRegistry() *PlayerRegistry {
	return &PlayerRegistry{}
}

func (that *PlayerRegistry) Assign(xController, oController entity.Controller) error {
	if !xController.Valid() {
		return fmt.Errorf("%w: X: %s", apperror.ErrInvalidPlayerController, xController)
	}

	if !oController.Valid() {
		return fmt.Errorf("%w: O: %s", apperror.ErrInvalidPlayerController, oController)
	}

	that.x = xController
	that.o = oController

	return nil
}

// AssignForMode derives the pairing for a match: both human against a human,
// automatedSymbol automated and the other symbol human against the computer.
func (that *PlayerRegistry) AssignForMode(mode entity.GameMode, automatedSymbol entity.Cell) error {
	switch mode {
	case entity.ModeVsHuman:
		return that.Assign(entity.ControllerHuman, entity.ControllerHuman)
	case entity.ModeVsAI:
		if err := entity.ValidatePlayer(automatedSymbol); err != nil {
			return fmt.Errorf("automated symbol: %w", err)
		}

		if automatedSymbol == entity.X {
			return that.Assign(entity.ControllerAutomated, entity.ControllerHuman)
		}

		return that.Assign(entity.ControllerHuman, entity.ControllerAutomated)
	default:
		return fmt.Errorf("%w: %s", apperror.ErrInvalidGameMode, mode)
	}
}

func (that *PlayerRegistry) ControllerFor(symbol entity.Cell) (entity.Controller, error) {
	switch symbol {
	case entity.X:
		return that.x, nil
	case entity.O:
		return that.o, nil
	case entity.Empty:
		return 0, fmt.Errorf("%w: empty cell", apperror.ErrInvalidPlayer)
	default:
		return 0, fmt.Errorf("%w: %d", apperror.ErrInvalidPlayer, int8(symbol))
	}
}
