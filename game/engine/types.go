package engine

import (
	"encoding/json"
	"fmt"

	"github.com/notnil/chess"
)

// Seat identifies one of the two sides of the board.
type Seat int

const (
	SeatWhite Seat = iota
	SeatBlack
)

// String returns the wire letter for the seat ("w" or "b").
func (s Seat) String() string {
	if s == SeatBlack {
		return "b"
	}
	return "w"
}

// Other returns the opposing seat.
func (s Seat) Other() Seat {
	if s == SeatWhite {
		return SeatBlack
	}
	return SeatWhite
}

// MarshalJSON encodes the seat as its wire letter.
func (s Seat) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a seat from its wire letter.
func (s *Seat) UnmarshalJSON(data []byte) error {
	var letter string
	if err := json.Unmarshal(data, &letter); err != nil {
		return err
	}
	switch letter {
	case "w":
		*s = SeatWhite
	case "b":
		*s = SeatBlack
	default:
		return fmt.Errorf("invalid seat %q", letter)
	}
	return nil
}

// seatOf converts a library color to a Seat.
func seatOf(c chess.Color) Seat {
	if c == chess.Black {
		return SeatBlack
	}
	return SeatWhite
}

// MoveResult describes one accepted move.
type MoveResult struct {
	Seat     Seat   `json:"seat"`
	From     string `json:"from"`
	To       string `json:"to"`
	SAN      string `json:"san"`
	Flags    string `json:"flags"`
	Captured string `json:"captured,omitempty"`
}

// parseSquare converts algebraic coordinates ("e2") to a board square.
func parseSquare(s string) (chess.Square, bool) {
	if len(s) != 2 {
		return chess.NoSquare, false
	}
	file := s[0] - 'a'
	rank := s[1] - '1'
	if file > 7 || rank > 7 {
		return chess.NoSquare, false
	}
	return chess.Square(int(rank)*8 + int(file)), true
}

// parsePromotion maps a promotion letter to a piece type. An empty string
// defaults to queen, matching the original server behavior.
func parsePromotion(s string) (chess.PieceType, bool) {
	switch s {
	case "", "q":
		return chess.Queen, true
	case "r":
		return chess.Rook, true
	case "b":
		return chess.Bishop, true
	case "n":
		return chess.Knight, true
	}
	return chess.NoPieceType, false
}

// pieceLetter returns the lowercase wire letter for a piece type.
func pieceLetter(pt chess.PieceType) string {
	switch pt {
	case chess.King:
		return "k"
	case chess.Queen:
		return "q"
	case chess.Rook:
		return "r"
	case chess.Bishop:
		return "b"
	case chess.Knight:
		return "n"
	case chess.Pawn:
		return "p"
	}
	return ""
}

// moveFlags builds the chess.js-compatible flags string for a move:
// k/q for castles, e for en passant, c for capture, b for a double pawn
// push, p for promotion, n for a plain move. Capture and promotion
// letters combine ("cp").
func moveFlags(m *chess.Move, moved chess.PieceType) string {
	if m.HasTag(chess.KingSideCastle) {
		return "k"
	}
	if m.HasTag(chess.QueenSideCastle) {
		return "q"
	}

	flags := "n"
	switch {
	case m.HasTag(chess.EnPassant):
		flags = "e"
	case m.HasTag(chess.Capture):
		flags = "c"
	case moved == chess.Pawn && rankDistance(m.S1(), m.S2()) == 2:
		flags = "b"
	}
	if m.Promo() != chess.NoPieceType {
		flags += "p"
	}
	return flags
}

func rankDistance(a, b chess.Square) int {
	d := int(a)/8 - int(b)/8
	if d < 0 {
		return -d
	}
	return d
}
