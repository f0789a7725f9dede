package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	actionNew     = "match:new"
	actionJoin    = "match:join"
	actionTurn    = "match:turn"
	actionRestart = "match:restart"
	actionUpdate  = "match:update"
)

// Message is the envelope of every frame in both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type NewMatchPayload struct {
	Mode            string `json:"mode"`
	Strategy        string `json:"strategy"`
	AutomatedSymbol string `json:"automated_symbol"`
}

type JoinPayload struct {
	MatchID string `json:"match_id"`
}

type TurnPayload struct {
	Move *entity.Coord `json:"move,omitempty"`
}

type ResponsePayload struct {
	MatchID  string           `json:"match_id,omitempty"`
	Mode     string           `json:"mode,omitempty"`
	Snapshot *entity.Snapshot `json:"snapshot,omitempty"`
	Error    string           `json:"error,omitempty"`
}
