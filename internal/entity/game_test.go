package entity

import (
	"encoding/json"
	"testing"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGameMode(t *testing.T) {
	t.Run("Accepts the canonical and short names", func(t *testing.T) {
		for value, want := range map[string]GameMode{
			"vs-human": ModeVsHuman,
			"human":    ModeVsHuman,
			"VS-AI":    ModeVsAI,
			"ai":       ModeVsAI,
		} {
			mode, err := ParseGameMode(value)
			require.NoError(t, err, value)
			assert.Equal(t, want, mode, value)
		}
	})

	t.Run("Rejects anything else", func(t *testing.T) {
		_, err := ParseGameMode("solo")

		require.ErrorIs(t, err, apperror.ErrInvalidGameMode)
	})

	t.Run("Zero value is not a mode", func(t *testing.T) {
		var mode GameMode

		assert.False(t, mode.Valid())
		_, err := mode.MarshalText()
		require.ErrorIs(t, err, apperror.ErrInvalidGameMode)
	})
}

func TestParseStrategy(t *testing.T) {
	t.Run("Maps the web client names", func(t *testing.T) {
		// Given: the four names of the strategy picker
		names := map[string]Strategy{
			"rando":   StrategyRandom,
			"dumbo":   StrategyLossSeeking,
			"smarto":  StrategyHeuristic,
			"maestro": StrategyOptimal,
		}

		for name, want := range names {
			// When: parsing each name
			strategy, err := ParseStrategy(name)

			// Then: it maps to its strategy and prints the canonical name
			require.NoError(t, err)
			assert.Equal(t, want, strategy)

			again, err := ParseStrategy(strategy.String())
			require.NoError(t, err)
			assert.Equal(t, strategy, again)
		}
	})

	t.Run("Rejects unknown names", func(t *testing.T) {
		_, err := ParseStrategy("grandmaster")

		require.ErrorIs(t, err, apperror.ErrInvalidAIStrategy)
		assert.False(t, Strategy(0).Valid())
	})
}

func TestGameState_Text(t *testing.T) {
	t.Run("Round trips every state", func(t *testing.T) {
		for _, state := range []GameState{StateInitialized, StateWaitingForHuman, StateWaitingForAutomated, StateFinished} {
			text, err := state.MarshalText()
			require.NoError(t, err)

			var parsed GameState
			require.NoError(t, parsed.UnmarshalText(text))
			assert.Equal(t, state, parsed)
		}
	})

	t.Run("Rejects an unknown state", func(t *testing.T) {
		var state GameState

		err := state.UnmarshalText([]byte("paused"))

		require.ErrorIs(t, err, apperror.ErrInvalidGameState)
	})
}

func TestWinResult(t *testing.T) {
	t.Run("Tie is resolved without a winner", func(t *testing.T) {
		assert.True(t, WinResult{Resolved: true}.IsTie())
		assert.False(t, WinResult{}.IsTie())
		assert.False(t, WinResult{Resolved: true, Winner: X}.IsTie())
	})

	t.Run("Clone does not share the line", func(t *testing.T) {
		// Given: a win on the main diagonal
		result := WinResult{Resolved: true, Winner: O, WinningLine: []Coord{{0, 0}, {1, 1}, {2, 2}}}

		// When: cloning and changing the clone
		clone := result.Clone()
		clone.WinningLine[0] = Coord{Row: 2, Col: 0}

		// Then: the original keeps its line
		assert.Equal(t, Coord{Row: 0, Col: 0}, result.WinningLine[0])
	})
}

func TestSnapshot_JSON(t *testing.T) {
	// Given: a finished snapshot
	snapshot := Snapshot{
		GameState: StateFinished,
		Board:     Grid{{X, X, X}, {O, O, Empty}, {Empty, Empty, Empty}},
		Turn:      Empty,
		WinResult: WinResult{Resolved: true, Winner: X, WinningLine: []Coord{{0, 0}, {0, 1}, {0, 2}}},
	}

	// When: encoding it
	body, err := json.Marshal(snapshot)
	require.NoError(t, err)

	// Then: enums are written as text
	assert.JSONEq(t, `{
		"game_state": "finished",
		"board": [["X","X","X"],["O","O",""],["","",""]],
		"turn": "",
		"win_result": {"resolved": true, "winner": "X", "winning_line": [{"row":0,"col":0},{"row":0,"col":1},{"row":0,"col":2}]}
	}`, string(body))
}
