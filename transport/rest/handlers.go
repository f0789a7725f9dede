package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

const maxBodyBytes = 1 << 12

var errBadRequest = errors.New("malformed request body")

type matchRegistry interface {
	Create(mode entity.GameMode, strategy entity.Strategy, automatedSymbol entity.Cell) (*usecase.GameManager, error)
	Get(id string) (*usecase.GameManager, error)
	Delete(id string) error
}

type handlers struct {
	logger          *slog.Logger
	matches         matchRegistry
	defaultStrategy entity.Strategy
}

type createRequest struct {
	Mode            string `json:"mode"`
	Strategy        string `json:"strategy"`
	AutomatedSymbol string `json:"automated_symbol"`
}

// turnRequest carries a move. Both fields are required once a body is sent.
type turnRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type matchResponse struct {
	ID              string `json:"id"`
	Mode            string `json:"mode"`
	Strategy        string `json:"strategy,omitempty"`
	AutomatedSymbol string `json:"automated_symbol,omitempty"`
	entity.Snapshot
}

type errorResponse struct {
	Error string `json:"error"`
}

// create starts a match. Omitted fields fall back to a single player game
// against the default strategy, with the computer playing O.
func (that *handlers) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		that.writeError(w, err)
		return
	}

	mode := entity.ModeVsAI
	if req.Mode != "" {
		parsed, err := entity.ParseGameMode(req.Mode)
		if err != nil {
			that.writeError(w, err)
			return
		}
		mode = parsed
	}

	strategy := that.defaultStrategy
	automatedSymbol := entity.O
	if mode == entity.ModeVsAI {
		if req.Strategy != "" {
			parsed, err := entity.ParseStrategy(req.Strategy)
			if err != nil {
				that.writeError(w, err)
				return
			}
			strategy = parsed
		}

		if req.AutomatedSymbol != "" {
			parsed, err := entity.ParseCell(req.AutomatedSymbol)
			if err != nil {
				that.writeError(w, err)
				return
			}
			automatedSymbol = parsed
		}
	}

	match, err := that.matches.Create(mode, strategy, automatedSymbol)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.logger.Info("match created", "match", match.ID(), "mode", mode.String())

	writeJSON(w, http.StatusCreated, newMatchResponse(match, match.Snapshot()))
}

func (that *handlers) view(w http.ResponseWriter, r *http.Request) {
	match, err := that.matches.Get(chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newMatchResponse(match, match.Snapshot()))
}

// turn advances the match by one step and answers once the step resolved.
// An empty body asks for a step without a move.
func (that *handlers) turn(w http.ResponseWriter, r *http.Request) {
	match, err := that.matches.Get(chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	var move *entity.Coord
	var req turnRequest
	switch err = decodeBody(r, &req); {
	case errors.Is(err, io.EOF):
	case err != nil:
		that.writeError(w, err)
		return
	case req.Row == nil || req.Col == nil:
		that.writeError(w, fmt.Errorf("%w: move needs row and col", errBadRequest))
		return
	default:
		move = &entity.Coord{Row: *req.Row, Col: *req.Col}
	}

	step, err := match.NextTurn(r.Context(), nil, move)
	if err != nil {
		that.writeError(w, err)
		return
	}

	snapshot, err := step.Wait(r.Context())
	if err != nil {
		that.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newMatchResponse(match, snapshot))
}

func (that *handlers) restart(w http.ResponseWriter, r *http.Request) {
	match, err := that.matches.Get(chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	if err = match.Restart(); err != nil {
		that.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newMatchResponse(match, match.Snapshot()))
}

func (that *handlers) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := that.matches.Delete(id); err != nil {
		that.writeError(w, err)
		return
	}

	that.logger.Info("match deleted", "match", id)

	w.WriteHeader(http.StatusNoContent)
}

func newMatchResponse(match *usecase.GameManager, snapshot entity.Snapshot) matchResponse {
	resp := matchResponse{
		ID:       match.ID(),
		Mode:     match.Mode().String(),
		Snapshot: snapshot,
	}

	if strategy := match.Strategy(); strategy.Valid() {
		resp.Strategy = strategy.String()
		resp.AutomatedSymbol = match.AutomatedSymbol().String()
	}

	return resp
}

// decodeBody returns io.EOF for an empty body.
func decodeBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}

	return nil
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, apperror.ErrMatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrIllegalMove),
		errors.Is(err, apperror.ErrInvalidGameState),
		errors.Is(err, apperror.ErrRequestInFlight):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrNotImplemented):
		return http.StatusNotImplemented
	case errors.Is(err, errBadRequest),
		errors.Is(err, apperror.ErrInvalidCell),
		errors.Is(err, apperror.ErrInvalidPlayer),
		errors.Is(err, apperror.ErrInvalidGameMode),
		errors.Is(err, apperror.ErrInvalidAIStrategy),
		errors.Is(err, apperror.ErrInvalidPlayerController),
		errors.Is(err, apperror.ErrInvalidBitboardState):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (that *handlers) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
