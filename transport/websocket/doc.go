// Package websocket provides the real-time transport for game rooms.
//
// The websocket package implements:
//   - Bidirectional JSON event channel per connection
//   - Room-scoped broadcasting of state snapshots
//   - Inbound action dispatch (joinGame, move, newGame)
//   - Connection lifecycle management and disconnect handling
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub tracks all
// connections and their room membership. Each connection is handled by a
// dedicated read/write goroutine pair. Unlike a transport where clients
// bind to a group at upgrade time, clients here connect unbound and are
// indexed into a room only when their joinGame action is accepted, so
// room membership is guarded by the hub's lock rather than a single
// event loop.
//
// Message Protocol:
//
// Messages are JSON envelopes {event, data}. Client-to-server events:
// joinGame, move, newGame. Server-to-client events: assignedColor (to
// the joining connection only), gameStateUpdate (to the whole room),
// invalidMove and roomFull (to the failing connection only), and
// opponentDisconnected (to the remaining occupants).
//
// Concurrency:
//
// Each connection's actions are serialized by its read goroutine, and
// the service serializes per room, so a disconnect can never vacate a
// seat in the middle of that connection's own move validation. Teardown
// runs only from the read goroutine: a broadcast that finds a client's
// buffer full closes the socket and lets readPump unregister, and a
// per-client lock keeps late broadcasts off the closed send channel.
//
// Usage:
//
//	hub := websocket.NewHub(gameService)
//	http.HandleFunc("/ws", hub.ServeWS)
package websocket
