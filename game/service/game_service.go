package service

import (
	"context"
	"errors"
)

// Rejection sentinels. Each maps to one reason in the wire protocol and
// none of them mutates room state.
var (
	ErrInvalidRoomID = errors.New("invalid room id")
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrIllegalMove   = errors.New("illegal move")
	ErrNotSeated     = errors.New("not a seated participant")
)

// GameService defines all room coordination operations. Connection
// identifiers are opaque strings owned by the transport layer.
type GameService interface {
	// Session actions
	Join(ctx context.Context, connID, roomID string) (*JoinResult, error)
	Move(ctx context.Context, connID string, req MoveRequest) (*Snapshot, error)
	NewGame(ctx context.Context, connID, roomID string) (*Snapshot, error)
	Disconnect(ctx context.Context, connID, roomID string) (*DisconnectResult, error)

	// Inspection
	RoomState(ctx context.Context, roomID string) (*Snapshot, error)
	ListRooms(ctx context.Context) ([]*RoomInfo, error)
}
