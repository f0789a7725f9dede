package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

type GameMode uint8

const (
	ModeVsHuman GameMode = iota + 1
	ModeVsAI
)

func (that GameMode) Valid() bool {
	return that == ModeVsHuman || that == ModeVsAI
}

func (that GameMode) String() string {
	switch that {
	case ModeVsHuman:
		return "vs-human"
	case ModeVsAI:
		return "vs-ai"
	default:
		return fmt.Sprintf("GameMode(%d)", uint8(that))
	}
}

func (that GameMode) MarshalText() ([]byte, error) {
	if !that.Valid() {
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidGameMode, uint8(that))
	}
	return []byte(that.String()), nil
}

func (that *GameMode) UnmarshalText(text []byte) error {
	mode, err := ParseGameMode(string(text))
	if err != nil {
		return err
	}
	*that = mode
	return nil
}

func ParseGameMode(value string) (GameMode, error) {
	switch strings.ToLower(value) {
	case "vs-human", "vshuman", "human":
		return ModeVsHuman, nil
	case "vs-ai", "vsai", "ai":
		return ModeVsAI, nil
	default:
		return 0, fmt.Errorf("%w: %q", apperror.ErrInvalidGameMode, value)
	}
}

type GameState uint8

const (
	StateInitialized GameState = iota + 1
	StateWaitingForHuman
	StateWaitingForAutomated
	StateFinished
)

func (that GameState) String() string {
	switch that {
	case StateInitialized:
		return "initialized"
	case StateWaitingForHuman:
		return "waiting-for-human"
	case StateWaitingForAutomated:
		return "waiting-for-automated"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("GameState(%d)", uint8(that))
	}
}

func (that GameState) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *GameState) UnmarshalText(text []byte) error {
	for _, state := range []GameState{StateInitialized, StateWaitingForHuman, StateWaitingForAutomated, StateFinished} {
		if state.String() == string(text) {
			*that = state
			return nil
		}
	}
	return fmt.Errorf("%w: %q", apperror.ErrInvalidGameState, text)
}

// Controller is the decision source bound to a symbol for a match.
type Controller uint8

const (
	ControllerHuman Controller = iota + 1
	ControllerAutomated
)

func (that Controller) Valid() bool {
	return that == ControllerHuman || that == ControllerAutomated
}

func (that Controller) String() string {
	switch that {
	case ControllerHuman:
		return "human"
	case ControllerAutomated:
		return "automated"
	default:
		return fmt.Sprintf("Controller(%d)", uint8(that))
	}
}

// Strategy names the policy the automated controller uses to pick its move.
type Strategy uint8

const (
	StrategyRandom Strategy = iota + 1
	StrategyLossSeeking
	StrategyHeuristic
	StrategyOptimal
)

func (that Strategy) Valid() bool {
	switch that {
	case StrategyRandom, StrategyLossSeeking, StrategyHeuristic, StrategyOptimal:
		return true
	default:
		return false
	}
}

func (that Strategy) String() string {
	switch that {
	case StrategyRandom:
		return "uniform-random"
	case StrategyLossSeeking:
		return "loss-seeking"
	case StrategyHeuristic:
		return "heuristic-safe"
	case StrategyOptimal:
		return "optimal"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(that))
	}
}

func (that Strategy) MarshalText() ([]byte, error) {
	if !that.Valid() {
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidAIStrategy, uint8(that))
	}
	return []byte(that.String()), nil
}

func (that *Strategy) UnmarshalText(text []byte) error {
	strategy, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*that = strategy
	return nil
}

// ParseStrategy accepts the canonical names and the short names used by the web client
// (rando, dumbo, smarto, maestro).
func ParseStrategy(value string) (Strategy, error) {
	switch strings.ToLower(value) {
	case "uniform-random", "random", "rando":
		return StrategyRandom, nil
	case "loss-seeking", "dumbo":
		return StrategyLossSeeking, nil
	case "heuristic-safe", "heuristic", "smarto":
		return StrategyHeuristic, nil
	case "optimal", "maestro":
		return StrategyOptimal, nil
	default:
		return 0, fmt.Errorf("%w: %q", apperror.ErrInvalidAIStrategy, value)
	}
}

// WinResult describes the outcome of a board.
// Resolved=false means the game is ongoing; Resolved with an Empty winner is a tie.
type WinResult struct {
	Resolved    bool    `json:"resolved"`
	Winner      Cell    `json:"winner"`
	WinningLine []Coord `json:"winning_line"`
}

func (that WinResult) IsTie() bool {
	return that.Resolved && that.Winner == Empty
}

func (that WinResult) Clone() WinResult {
	if that.WinningLine != nil {
		that.WinningLine = append([]Coord(nil), that.WinningLine...)
	}
	return that
}

// Snapshot is the copy of a match reported to the caller after every resolved step.
type Snapshot struct {
	GameState GameState `json:"game_state"`
	Board     Grid      `json:"board"`
	Turn      Cell      `json:"turn"`
	WinResult WinResult `json:"win_result"`
}
