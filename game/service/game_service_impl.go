package service

import (
	"context"
	"errors"

	"chessroom/game/engine"
	"chessroom/game/room"
)

// gameServiceImpl implements the GameService interface on top of the
// room registry.
type gameServiceImpl struct {
	rooms *room.Registry
}

// NewGameService creates a new game service instance.
func NewGameService(rooms *room.Registry) GameService {
	return &gameServiceImpl{rooms: rooms}
}

// Join resolves or creates the room and binds the connection to the
// first empty seat, white preferred. A reconnecting client re-issuing a
// join is handled by the same path: seat availability is the only gate.
func (s *gameServiceImpl) Join(ctx context.Context, connID, roomID string) (*JoinResult, error) {
	if roomID == "" {
		return nil, ErrInvalidRoomID
	}

	for {
		r := s.rooms.GetOrCreate(roomID)
		r.Lock()

		seat, err := r.Bind(connID)
		if errors.Is(err, room.ErrRoomClosed) {
			// Lost a race with delete-on-empty; the registry no longer
			// holds this instance, so create a fresh one.
			r.Unlock()
			continue
		}
		if err != nil {
			r.Unlock()
			return nil, ErrRoomFull
		}

		result := &JoinResult{
			RoomID:  roomID,
			Seat:    seat,
			Started: r.Occupied(),
		}
		if result.Started {
			result.Snapshot = buildSnapshot(r, nil)
		}
		r.Unlock()
		return result, nil
	}
}

// Move validates a move submission in order: room id, room existence,
// turn ownership, then legality via the rules engine. On acceptance the
// capture list is updated and the returned snapshot carries the
// last-move descriptor.
func (s *gameServiceImpl) Move(ctx context.Context, connID string, req MoveRequest) (*Snapshot, error) {
	if req.RoomID == "" {
		return nil, ErrInvalidRoomID
	}

	r, ok := s.rooms.Get(req.RoomID)
	if !ok {
		return nil, ErrRoomNotFound
	}

	r.Lock()
	defer r.Unlock()
	if r.Closed() {
		return nil, ErrRoomNotFound
	}

	// Turn ownership also rejects the non-turn player and anyone not
	// seated in this room.
	if occupant := r.Occupant(r.Engine().Turn()); occupant == "" || occupant != connID {
		return nil, ErrNotYourTurn
	}

	res, err := r.Engine().Move(req.From, req.To, req.Promotion)
	if err != nil {
		return nil, ErrIllegalMove
	}

	if res.Captured != "" {
		r.AppendCapture(res.Seat, res.Captured)
	}

	return buildSnapshot(r, &LastMove{
		From:  res.From,
		To:    res.To,
		SAN:   res.SAN,
		Flags: res.Flags,
	}), nil
}

// NewGame resets the room's position and capture lists. Only a seated
// participant may reset; ErrNotSeated marks the silently-ignored case.
func (s *gameServiceImpl) NewGame(ctx context.Context, connID, roomID string) (*Snapshot, error) {
	if roomID == "" {
		return nil, ErrInvalidRoomID
	}

	r, ok := s.rooms.Get(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}

	r.Lock()
	defer r.Unlock()
	if r.Closed() {
		return nil, ErrRoomNotFound
	}

	if _, seated := r.SeatOf(connID); !seated {
		return nil, ErrNotSeated
	}

	r.ResetGame()
	return buildSnapshot(r, nil), nil
}

// Disconnect vacates the seat held by the connection, if any, and reaps
// the room once both seats are empty. A connection that never joined
// produces no observable effect.
func (s *gameServiceImpl) Disconnect(ctx context.Context, connID, roomID string) (*DisconnectResult, error) {
	result := &DisconnectResult{RoomID: roomID}
	if roomID == "" {
		return result, nil
	}

	r, ok := s.rooms.Get(roomID)
	if !ok {
		return result, nil
	}

	r.Lock()
	result.Vacated = r.Vacate(connID)
	r.Unlock()

	if result.Vacated {
		result.RoomRemoved = s.rooms.RemoveIfEmpty(roomID)
	}
	return result, nil
}

// RoomState returns a snapshot of the room's current position. The
// last-move descriptor is only carried on move broadcasts.
func (s *gameServiceImpl) RoomState(ctx context.Context, roomID string) (*Snapshot, error) {
	if roomID == "" {
		return nil, ErrInvalidRoomID
	}

	r, ok := s.rooms.Get(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}

	r.Lock()
	defer r.Unlock()
	if r.Closed() {
		return nil, ErrRoomNotFound
	}
	return buildSnapshot(r, nil), nil
}

// ListRooms summarizes every live room.
func (s *gameServiceImpl) ListRooms(ctx context.Context) ([]*RoomInfo, error) {
	rooms := s.rooms.List()
	out := make([]*RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		r.Lock()
		out = append(out, &RoomInfo{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			Seats: SeatOccupancy{
				White: r.Occupant(engine.SeatWhite) != "",
				Black: r.Occupant(engine.SeatBlack) != "",
			},
			Moves:  r.Engine().MoveCount(),
			Status: resultOf(r.Engine()).Status,
		})
		r.Unlock()
	}
	return out, nil
}

// buildSnapshot constructs the broadcast payload for a room. The caller
// holds the room lock.
func buildSnapshot(r *room.Room, last *LastMove) *Snapshot {
	eng := r.Engine()
	return &Snapshot{
		FEN:         eng.FEN(),
		Turn:        eng.Turn(),
		InCheck:     eng.InCheck(),
		InCheckmate: eng.InCheckmate(),
		InStalemate: eng.InStalemate(),
		InDraw:      eng.InDraw(),
		CapturedBy: CapturedBy{
			White: r.Captures(engine.SeatWhite),
			Black: r.Captures(engine.SeatBlack),
		},
		LastMove: last,
		Result:   resultOf(eng),
	}
}

// resultOf derives the outcome summary. On checkmate the winner is the
// side that is not to move.
func resultOf(eng *engine.Engine) Result {
	switch {
	case eng.InCheckmate():
		winner := eng.Turn().Other()
		return Result{Status: StatusCheckmate, Winner: &winner}
	case eng.InStalemate():
		return Result{Status: StatusStalemate}
	case eng.InDraw():
		return Result{Status: StatusDraw}
	default:
		return Result{Status: StatusOngoing}
	}
}
