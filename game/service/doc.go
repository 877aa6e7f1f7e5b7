// Package service provides the coordination logic for game rooms.
//
// The service package implements:
//   - Join: seat assignment with create-on-first-join and capacity checks
//   - Move: turn-gated move submission through the rules engine
//   - NewGame: in-place game reset by a seated participant
//   - Disconnect: seat vacancy and delete-on-empty room teardown
//   - Read-only room inspection for the REST and MCP surfaces
//
// Architecture:
//
// The service layer sits between the transport layer (WebSocket, HTTP,
// MCP) and the room registry. Transports resolve connections to opaque
// connection identifiers; the service resolves identifiers to seats and
// serializes every action on a room under that room's lock, so two
// near-simultaneous actions can never both observe the same turn.
//
// Error Handling:
//
// Every rejection is a package sentinel (ErrInvalidRoomID, ErrRoomNotFound,
// ErrRoomFull, ErrNotYourTurn, ErrIllegalMove, ErrNotSeated). Rejections
// are local: they never mutate room state and the transport reports them
// only to the originating connection.
//
// Usage:
//
//	svc := service.NewGameService(room.NewRegistry())
//	res, err := svc.Join(ctx, connID, "r1")
//	if err != nil {
//		// errors.Is against the sentinels above
//	}
package service
