package service

import (
	"time"

	"chessroom/game/engine"
)

// Result statuses carried in every snapshot. Exactly one applies, with
// precedence checkmate, stalemate, draw, ongoing.
const (
	StatusOngoing   = "ongoing"
	StatusCheckmate = "checkmate"
	StatusStalemate = "stalemate"
	StatusDraw      = "draw"
)

// Snapshot is the full state payload broadcast to a room. Field names
// match the wire format of the original server.
type Snapshot struct {
	FEN         string      `json:"fen"`
	Turn        engine.Seat `json:"turn"`
	InCheck     bool        `json:"in_check"`
	InCheckmate bool        `json:"in_checkmate"`
	InStalemate bool        `json:"in_stalemate"`
	InDraw      bool        `json:"in_draw"`
	CapturedBy  CapturedBy  `json:"capturedBy"`
	LastMove    *LastMove   `json:"lastMove"`
	Result      Result      `json:"result"`
}

// CapturedBy holds the ordered capture lists, keyed by capturing seat.
type CapturedBy struct {
	White []string `json:"w"`
	Black []string `json:"b"`
}

// LastMove describes the move that produced a snapshot.
type LastMove struct {
	From  string `json:"from"`
	To    string `json:"to"`
	SAN   string `json:"san"`
	Flags string `json:"flags"`
}

// Result is the derived game outcome summary.
type Result struct {
	Status string       `json:"status"`
	Winner *engine.Seat `json:"winner"`
}

// MoveRequest carries one move submission.
type MoveRequest struct {
	RoomID    string `json:"roomId"`
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

// JoinResult reports a successful join. Snapshot is set only when the
// join filled the second seat and the game can start.
type JoinResult struct {
	RoomID   string      `json:"roomId"`
	Seat     engine.Seat `json:"color"`
	Started  bool        `json:"-"`
	Snapshot *Snapshot   `json:"-"`
}

// DisconnectResult reports the effect of a connection loss.
type DisconnectResult struct {
	RoomID      string
	Vacated     bool
	RoomRemoved bool
}

// SeatOccupancy reports which seats are bound, keyed like CapturedBy.
type SeatOccupancy struct {
	White bool `json:"w"`
	Black bool `json:"b"`
}

// RoomInfo summarizes one live room for the inspection surfaces.
type RoomInfo struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Seats     SeatOccupancy `json:"seats"`
	Moves     int           `json:"moves"`
	Status    string        `json:"status"`
}
