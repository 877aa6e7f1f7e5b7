package room

import (
	"errors"
	"sync"
	"time"

	"chessroom/game/engine"
)

var (
	// ErrRoomFull is returned by Bind when both seats are occupied.
	ErrRoomFull = errors.New("room is full")

	// ErrRoomClosed is returned by Bind when the room has been removed
	// from the registry; the caller should retry with a fresh room.
	ErrRoomClosed = errors.New("room is closed")
)

// Room is one game session: an engine instance, two seats bound to
// connection identifiers, and the capture history for the current game.
//
// Methods do not lock. Callers hold the embedded mutex around each
// complete action so per-room mutations are serialized.
type Room struct {
	sync.Mutex

	ID        string
	CreatedAt time.Time

	eng      *engine.Engine
	seats    [2]string
	captured [2][]string
	closed   bool
}

// newRoom creates a room with a fresh initial position and empty seats.
func newRoom(id string) *Room {
	return &Room{
		ID:        id,
		CreatedAt: time.Now(),
		eng:       engine.New(),
	}
}

// Engine returns the room's rules engine.
func (r *Room) Engine() *engine.Engine {
	return r.eng
}

// Bind seats the connection in the first empty seat, white preferred.
// A seat already bound to another connection is never rebound.
func (r *Room) Bind(connID string) (engine.Seat, error) {
	if r.closed {
		return 0, ErrRoomClosed
	}
	for _, seat := range []engine.Seat{engine.SeatWhite, engine.SeatBlack} {
		if r.seats[seat] == "" {
			r.seats[seat] = connID
			return seat, nil
		}
	}
	return 0, ErrRoomFull
}

// Vacate frees the seat occupied by the connection, if any, and reports
// whether a seat was actually freed.
func (r *Room) Vacate(connID string) bool {
	for i, occupant := range r.seats {
		if occupant != "" && occupant == connID {
			r.seats[i] = ""
			return true
		}
	}
	return false
}

// SeatOf returns the seat the connection occupies.
func (r *Room) SeatOf(connID string) (engine.Seat, bool) {
	for i, occupant := range r.seats {
		if occupant != "" && occupant == connID {
			return engine.Seat(i), true
		}
	}
	return 0, false
}

// Occupant returns the connection bound to the seat, or "" when vacant.
func (r *Room) Occupant(seat engine.Seat) string {
	return r.seats[seat]
}

// Occupied reports whether both seats are taken.
func (r *Room) Occupied() bool {
	return r.seats[engine.SeatWhite] != "" && r.seats[engine.SeatBlack] != ""
}

// Empty reports whether both seats are vacant.
func (r *Room) Empty() bool {
	return r.seats[engine.SeatWhite] == "" && r.seats[engine.SeatBlack] == ""
}

// Closed reports whether the registry has removed this room.
func (r *Room) Closed() bool {
	return r.closed
}

// AppendCapture records a captured piece for the capturing seat.
func (r *Room) AppendCapture(seat engine.Seat, piece string) {
	r.captured[seat] = append(r.captured[seat], piece)
}

// Captures returns a copy of the seat's capture list.
func (r *Room) Captures(seat engine.Seat) []string {
	out := make([]string, len(r.captured[seat]))
	copy(out, r.captured[seat])
	return out
}

// ResetGame replaces the position with a fresh one and clears both
// capture lists. Seat bindings are untouched.
func (r *Room) ResetGame() {
	r.eng.Reset()
	r.captured[engine.SeatWhite] = nil
	r.captured[engine.SeatBlack] = nil
}
