package websocket

import (
	"encoding/json"

	"chessroom/game/engine"
)

// Client-to-server events.
const (
	EventJoinGame = "joinGame"
	EventMove     = "move"
	EventNewGame  = "newGame"
)

// Server-to-client events.
const (
	EventAssignedColor        = "assignedColor"
	EventGameStateUpdate      = "gameStateUpdate"
	EventInvalidMove          = "invalidMove"
	EventRoomFull             = "roomFull"
	EventOpponentDisconnected = "opponentDisconnected"
)

// Message is the JSON envelope for both directions of the event channel.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// encodeMessage wraps a payload into a serialized envelope.
func encodeMessage(event string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Event: event, Data: data})
}

// joinPayload is the data of a joinGame action.
type joinPayload struct {
	RoomID string `json:"roomId"`
}

// movePayload is the data of a move action. Promotion defaults to queen.
type movePayload struct {
	RoomID    string `json:"roomId"`
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

// assignedColorPayload notifies the joining connection of its seat.
type assignedColorPayload struct {
	RoomID string      `json:"roomId"`
	Color  engine.Seat `json:"color"`
}

// invalidMovePayload carries a rejection reason to its originator.
type invalidMovePayload struct {
	Reason string `json:"reason"`
}

// roomFullPayload rejects a join for capacity.
type roomFullPayload struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

// opponentDisconnectedPayload notifies the remaining occupants.
type opponentDisconnectedPayload struct {
	Message string `json:"message"`
}
