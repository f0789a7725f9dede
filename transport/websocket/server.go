package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

var errUnknownAction = errors.New("unknown action")

type matchRegistry interface {
	Create(mode entity.GameMode, strategy entity.Strategy, automatedSymbol entity.Cell) (*usecase.GameManager, error)
	Get(id string) (*usecase.GameManager, error)
	Delete(id string) error
}

type handlerFunc func(ctx context.Context, sess *session, msg *Message) error

// Server speaks the match protocol over websocket. Every connection follows one match
// at a time, and automated moves are pushed to it as they resolve.
type Server struct {
	logger          *slog.Logger
	matches         matchRegistry
	defaultStrategy entity.Strategy

	handlers map[string]handlerFunc
}

// session is the state of one connection. Matches created on it are owned by it and
// removed from the registry when the connection ends.
type session struct {
	conn *websocket.Conn

	mu    sync.Mutex
	match *usecase.GameManager
	owned []string
}

func (that *session) current() *usecase.GameManager {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.match
}

func (that *session) follow(match *usecase.GameManager) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.match = match
}

func (that *session) own(match *usecase.GameManager) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.owned = append(that.owned, match.ID())
}

func (that *session) ownedMatches() []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]string(nil), that.owned...)
}

func New(logger *slog.Logger, matches matchRegistry, defaultStrategy entity.Strategy) *Server {
	server := &Server{
		logger:          logger.With("component", "websocket"),
		matches:         matches,
		defaultStrategy: defaultStrategy,
	}

	server.handlers = map[string]handlerFunc{
		actionNew:     server.handleNewMatch,
		actionJoin:    server.handleJoin,
		actionTurn:    server.handleTurn,
		actionRestart: server.handleRestart,
	}

	return server
}

// ServeHTTP - upgrades the request and serves messages until the client goes away.
func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error("failed to accept websocket", "error", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "connection closed")

	log.Info("websocket connection established", "remote", r.RemoteAddr)

	sess := &session{conn: conn}
	defer that.release(sess)

	err = that.handleMessages(r.Context(), sess)

	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		log.Info("websocket connection closed", "remote", r.RemoteAddr)
	default:
		log.Error("websocket connection failed", "error", err)
	}
}

// release drops the matches the session created.
func (that *Server) release(sess *session) {
	log := that.logger.With("method", "release")

	for _, id := range sess.ownedMatches() {
		if err := that.matches.Delete(id); err != nil && !errors.Is(err, apperror.ErrMatchNotFound) {
			log.Error("failed to delete match", "match", id, "error", err)
			continue
		}
		log.Debug("match released", "match", id)
	}
}

func (that *Server) handleMessages(ctx context.Context, sess *session) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := sess.conn.Read(ctx)
		if err != nil {
			return err
		}

		var msg Message
		if err = json.Unmarshal(data, &msg); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			if err = that.sendError(ctx, sess, "", fmt.Errorf("malformed message: %w", err)); err != nil {
				return err
			}
			continue
		}

		handler, ok := that.handlers[msg.Action]
		if !ok {
			if err := that.sendError(ctx, sess, msg.Action, fmt.Errorf("%w: %q", errUnknownAction, msg.Action)); err != nil {
				return err
			}
			continue
		}

		if err := handler(ctx, sess, &msg); err != nil {
			return fmt.Errorf("failed to handle %s: %w", msg.Action, err)
		}
	}
}

func (that *Server) send(ctx context.Context, sess *session, action string, payload ResponsePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = wsjson.Write(ctx, sess.conn, Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// sendError reports a failed request to the client. Only a failed write is returned.
func (that *Server) sendError(ctx context.Context, sess *session, action string, reqErr error) error {
	that.logger.Debug("request rejected", "action", action, "error", reqErr)

	return that.send(ctx, sess, action, ResponsePayload{Error: reqErr.Error()})
}

func (that *Server) sendSnapshot(ctx context.Context, sess *session, action string, match *usecase.GameManager, snapshot entity.Snapshot) error {
	return that.send(ctx, sess, action, ResponsePayload{
		MatchID:  match.ID(),
		Mode:     match.Mode().String(),
		Snapshot: &snapshot,
	})
}
