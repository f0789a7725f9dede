package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

var errNoMatch = errors.New("no match joined on this connection")

func decodePayload(msg *Message, dst any) error {
	if len(msg.Payload) == 0 {
		return nil
	}

	if err := json.Unmarshal(msg.Payload, dst); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return nil
}

func (that *Server) handleNewMatch(ctx context.Context, sess *session, msg *Message) error {
	var req NewMatchPayload
	if err := decodePayload(msg, &req); err != nil {
		return that.sendError(ctx, sess, msg.Action, err)
	}

	mode, strategy, automatedSymbol, err := that.parseSettings(req)
	if err != nil {
		return that.sendError(ctx, sess, msg.Action, err)
	}

	match, err := that.matches.Create(mode, strategy, automatedSymbol)
	if err != nil {
		return that.sendError(ctx, sess, msg.Action, err)
	}

	sess.follow(match)
	sess.own(match)

	return that.sendSnapshot(ctx, sess, msg.Action, match, match.Snapshot())
}

func (that *Server) handleJoin(ctx context.Context, sess *session, msg *Message) error {
	var req JoinPayload
	if err := decodePayload(msg, &req); err != nil {
		return that.sendError(ctx, sess, msg.Action, err)
	}

	match, err := that.matches.Get(req.MatchID)
	if err != nil {
		return that.sendError(ctx, sess, msg.Action, err)
	}

	sess.follow(match)

	snapshot := match.Snapshot()
	if err = that.sendSnapshot(ctx, sess, msg.Action, match, snapshot); err != nil {
		return err
	}

	if snapshot.GameState == entity.StateWaitingForAutomated {
		that.scheduleAutomated(ctx, sess, match)
	}

	return nil
}

// handleTurn applies the caller's step. When the computer moves next, its step is
// started right away and pushed as match:update once it resolves.
func (that *Server) handleTurn(ctx context.Context, sess *session, msg *Message) error {
	match := sess.current()
	if match == nil {
		return that.sendError(ctx, sess, msg.Action, errNoMatch)
	}

	var req TurnPayload
	if err := decodePayload(msg, &req); err != nil {
		return that.sendError(ctx, sess, msg.Action, err)
	}

	step, err := match.NextTurn(ctx, nil, req.Move)
	if err != nil {
		return that.sendError(ctx, sess, msg.Action, err)
	}

	snapshot, err := step.Wait(ctx)
	if err != nil {
		return that.sendError(ctx, sess, msg.Action, err)
	}

	if err = that.sendSnapshot(ctx, sess, msg.Action, match, snapshot); err != nil {
		return err
	}

	if snapshot.GameState == entity.StateWaitingForAutomated {
		that.scheduleAutomated(ctx, sess, match)
	}

	return nil
}

func (that *Server) handleRestart(ctx context.Context, sess *session, msg *Message) error {
	match := sess.current()
	if match == nil {
		return that.sendError(ctx, sess, msg.Action, errNoMatch)
	}

	if err := match.Restart(); err != nil {
		return that.sendError(ctx, sess, msg.Action, err)
	}

	return that.sendSnapshot(ctx, sess, msg.Action, match, match.Snapshot())
}

// scheduleAutomated starts the computer's step. Its result handler pushes the update,
// and a failed step is pushed as an error on the same action.
func (that *Server) scheduleAutomated(ctx context.Context, sess *session, match *usecase.GameManager) {
	log := that.logger.With("method", "scheduleAutomated", "match", match.ID())

	step, err := match.NextTurn(ctx, func(snapshot entity.Snapshot) {
		if sendErr := that.sendSnapshot(ctx, sess, actionUpdate, match, snapshot); sendErr != nil {
			log.Warn("failed to push automated move", "error", sendErr)
		}
	}, nil)
	if err != nil {
		log.Warn("automated step not started", "error", err)
		return
	}

	go func() {
		_, stepErr := step.Wait(ctx)
		if stepErr == nil || ctx.Err() != nil {
			return
		}

		log.Error("automated step failed", "error", stepErr)
		if sendErr := that.sendError(ctx, sess, actionUpdate, stepErr); sendErr != nil {
			log.Warn("failed to push automated error", "error", sendErr)
		}
	}()
}

func (that *Server) parseSettings(req NewMatchPayload) (entity.GameMode, entity.Strategy, entity.Cell, error) {
	mode := entity.ModeVsAI
	if req.Mode != "" {
		parsed, err := entity.ParseGameMode(req.Mode)
		if err != nil {
			return 0, 0, entity.Empty, err
		}
		mode = parsed
	}

	strategy := that.defaultStrategy
	if req.Strategy != "" {
		parsed, err := entity.ParseStrategy(req.Strategy)
		if err != nil {
			return 0, 0, entity.Empty, err
		}
		strategy = parsed
	}

	automatedSymbol := entity.O
	if req.AutomatedSymbol != "" {
		parsed, err := entity.ParseCell(req.AutomatedSymbol)
		if err != nil {
			return 0, 0, entity.Empty, err
		}
		automatedSymbol = parsed
	}

	return mode, strategy, automatedSymbol, nil
}
