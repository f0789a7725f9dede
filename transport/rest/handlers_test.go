package rest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (http.Handler, *usecase.MatchRegistry) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bot := service.NewBotService(logger, repository.NewMemoryMoveTable(), pkg.NewRand(1))
	registry := usecase.NewMatchRegistry(logger, bot, usecase.WithAIDelay(time.Millisecond))

	return NewRouter(logger, registry, entity.StrategyHeuristic), registry
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, matchResponse) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var resp matchResponse
	if rr.Code < http.StatusBadRequest && rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	}

	return rr, resp
}

func TestPing(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", rr.Body.String())
}

func TestCreateMatch(t *testing.T) {
	t.Run("Empty body starts a single player game", func(t *testing.T) {
		h, registry := newTestRouter(t)

		rr, resp := do(t, h, http.MethodPost, "/matches", "")

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "vs-ai", resp.Mode)
		assert.Equal(t, "heuristic-safe", resp.Strategy)
		assert.Equal(t, "O", resp.AutomatedSymbol)
		assert.Equal(t, entity.StateInitialized, resp.GameState)
		assert.Equal(t, 1, registry.Len())
	})

	t.Run("Accepts the short strategy names", func(t *testing.T) {
		h, _ := newTestRouter(t)

		rr, resp := do(t, h, http.MethodPost, "/matches", `{"mode":"vs-ai","strategy":"maestro","automated_symbol":"X"}`)

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "optimal", resp.Strategy)
		assert.Equal(t, "X", resp.AutomatedSymbol)
	})

	t.Run("Vs human has no strategy", func(t *testing.T) {
		h, _ := newTestRouter(t)

		rr, resp := do(t, h, http.MethodPost, "/matches", `{"mode":"vs-human"}`)

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Empty(t, resp.Strategy)
		assert.Empty(t, resp.AutomatedSymbol)
	})

	t.Run("Bad input is a bad request", func(t *testing.T) {
		h, registry := newTestRouter(t)

		for _, body := range []string{
			`{"mode":"solo"}`,
			`{"strategy":"grandmaster"}`,
			`{"automated_symbol":"Z"}`,
			`{"colour":"red"}`,
			`not json`,
		} {
			rr, _ := do(t, h, http.MethodPost, "/matches", body)
			assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		}
		assert.Zero(t, registry.Len())
	})
}

func TestMatchTurns(t *testing.T) {
	t.Run("Unknown match is not found", func(t *testing.T) {
		h, _ := newTestRouter(t)

		get, _ := do(t, h, http.MethodGet, "/matches/nope", "")
		turn, _ := do(t, h, http.MethodPost, "/matches/nope/turn", "")
		restart, _ := do(t, h, http.MethodPost, "/matches/nope/restart", "")

		assert.Equal(t, http.StatusNotFound, get.Code)
		assert.Equal(t, http.StatusNotFound, turn.Code)
		assert.Equal(t, http.StatusNotFound, restart.Code)
	})

	t.Run("Human match plays to a win", func(t *testing.T) {
		// Given: a vs human match
		h, registry := newTestRouter(t)
		match, err := registry.Create(entity.ModeVsHuman, 0, entity.Empty)
		require.NoError(t, err)
		path := "/matches/" + match.ID()

		// When: the starter takes the top row while the other takes the middle row
		rr, resp := do(t, h, http.MethodPost, path+"/turn", "")
		require.Equal(t, http.StatusOK, rr.Code)
		starter := resp.Turn

		for _, move := range []string{`{"row":0,"col":0}`, `{"row":1,"col":0}`, `{"row":0,"col":1}`, `{"row":1,"col":1}`, `{"row":0,"col":2}`} {
			rr, resp = do(t, h, http.MethodPost, path+"/turn", move)
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		}

		// Then: the starter wins and further turns conflict
		assert.Equal(t, entity.StateFinished, resp.GameState)
		assert.Equal(t, starter, resp.WinResult.Winner)

		rr, _ = do(t, h, http.MethodPost, path+"/turn", `{"row":2,"col":2}`)
		assert.Equal(t, http.StatusConflict, rr.Code)

		_, view := do(t, h, http.MethodGet, path, "")
		assert.Equal(t, entity.StateFinished, view.GameState)
	})

	t.Run("Move errors map to status codes", func(t *testing.T) {
		h, registry := newTestRouter(t)
		match, err := registry.Create(entity.ModeVsHuman, 0, entity.Empty)
		require.NoError(t, err)
		path := "/matches/" + match.ID() + "/turn"

		do(t, h, http.MethodPost, path, "")
		do(t, h, http.MethodPost, path, `{"row":2,"col":2}`)

		occupied, _ := do(t, h, http.MethodPost, path, `{"row":2,"col":2}`)
		outside, _ := do(t, h, http.MethodPost, path, `{"row":5,"col":0}`)
		missing, _ := do(t, h, http.MethodPost, path, "")

		assert.Equal(t, http.StatusConflict, occupied.Code)
		assert.Equal(t, http.StatusBadRequest, outside.Code)
		assert.Equal(t, http.StatusBadRequest, missing.Code)
	})

	t.Run("Body without both coordinates is not a move", func(t *testing.T) {
		// Given: a human match waiting for a move
		h, registry := newTestRouter(t)
		match, err := registry.Create(entity.ModeVsHuman, 0, entity.Empty)
		require.NoError(t, err)
		path := "/matches/" + match.ID() + "/turn"
		do(t, h, http.MethodPost, path, "")

		// When: bodies that carry no complete move are sent
		for _, body := range []string{`{}`, `null`, `{"row":1}`, `{"col":0}`} {
			rr, _ := do(t, h, http.MethodPost, path, body)

			// Then: each is rejected and the board stays empty
			assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		}
		assert.Zero(t, match.Snapshot().Board.Count())
	})

	t.Run("Computer turn waits for the move", func(t *testing.T) {
		// Given: the computer plays X
		h, registry := newTestRouter(t)
		match, err := registry.Create(entity.ModeVsAI, entity.StrategyOptimal, entity.X)
		require.NoError(t, err)
		path := "/matches/" + match.ID()

		// When: the match starts and the computer is asked to move
		_, resp := do(t, h, http.MethodPost, path+"/turn", "")
		if resp.GameState == entity.StateWaitingForHuman {
			_, resp = do(t, h, http.MethodPost, path+"/turn", `{"row":1,"col":1}`)
		}
		require.Equal(t, entity.StateWaitingForAutomated, resp.GameState)
		before := resp.Board.Count()

		rr, resp := do(t, h, http.MethodPost, path+"/turn", "")

		// Then: the response carries the computer's move
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, before+1, resp.Board.Count())
		assert.Equal(t, entity.StateWaitingForHuman, resp.GameState)
		assert.Equal(t, entity.O, resp.Turn)
	})

	t.Run("Delete removes the match", func(t *testing.T) {
		// Given: an existing match
		h, registry := newTestRouter(t)
		match, err := registry.Create(entity.ModeVsHuman, 0, entity.Empty)
		require.NoError(t, err)
		path := "/matches/" + match.ID()

		// When: it is deleted twice
		first, _ := do(t, h, http.MethodDelete, path, "")
		second, _ := do(t, h, http.MethodDelete, path, "")

		// Then: the first succeeds and the match is gone
		assert.Equal(t, http.StatusNoContent, first.Code)
		assert.Equal(t, http.StatusNotFound, second.Code)
		assert.Zero(t, registry.Len())

		get, _ := do(t, h, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, get.Code)
	})

	t.Run("Restart keeps the settings", func(t *testing.T) {
		h, registry := newTestRouter(t)
		match, err := registry.Create(entity.ModeVsAI, entity.StrategyLossSeeking, entity.O)
		require.NoError(t, err)
		path := "/matches/" + match.ID()
		do(t, h, http.MethodPost, path+"/turn", "")

		rr, resp := do(t, h, http.MethodPost, path+"/restart", "")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, entity.StateInitialized, resp.GameState)
		assert.Equal(t, "loss-seeking", resp.Strategy)
		assert.Equal(t, "O", resp.AutomatedSymbol)
	})
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusOf(errBadRequest))
	assert.Equal(t, http.StatusInternalServerError, statusOf(io.ErrUnexpectedEOF))
}
