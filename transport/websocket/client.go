package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"chessroom/game/engine"
	"chessroom/game/service"
)

// connSession is the per-connection binding set by a successful join and
// discarded with the connection. Only the connection's own read goroutine
// writes it. Unregister reads it, and unregister runs solely from
// readPump's teardown, after that goroutine has stopped.
type connSession struct {
	roomID string
	seat   engine.Seat
	seated bool
}

// Client represents one WebSocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	id   string

	// mu guards send against a concurrent shutdown: broadcasts snapshot
	// their targets outside the hub lock, so without it an enqueue could
	// hit a channel the hub had already closed.
	mu     sync.Mutex
	send   chan []byte
	closed bool

	session connSession
}

// enqueue hands a serialized message to the write goroutine. A client
// that cannot keep up has its socket closed instead of blocking the
// room; readPump then runs the usual teardown.
func (c *Client) enqueue(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		c.conn.Close()
	}
}

// shutdown closes the send channel exactly once. After it returns no
// enqueue can reach the channel.
func (c *Client) shutdown() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
}

// sendEvent marshals and enqueues a targeted event for this client only.
func (c *Client) sendEvent(event string, payload interface{}) {
	data, err := encodeMessage(event, payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}
	c.enqueue(data)
}

// sendInvalid reports a rejection to this client only.
func (c *Client) sendInvalid(reason string) {
	c.sendEvent(EventInvalidMove, invalidMovePayload{Reason: reason})
}

// handleMessage dispatches one inbound envelope. All client actions flow
// through here, so a connection's actions are processed in order.
func (c *Client) handleMessage(raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Printf("Client %s sent malformed message: %v", c.id, err)
		return
	}

	switch msg.Event {
	case EventJoinGame:
		c.handleJoin(msg.Data)
	case EventMove:
		c.handleMove(msg.Data)
	case EventNewGame:
		c.handleNewGame(msg.Data)
	default:
		log.Printf("Client %s sent unknown event %q", c.id, msg.Event)
	}
}

func (c *Client) handleJoin(data json.RawMessage) {
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.sendInvalid("Invalid room id.")
		return
	}

	res, err := c.hub.service.Join(context.Background(), c.id, p.RoomID)
	switch {
	case errors.Is(err, service.ErrInvalidRoomID):
		c.sendInvalid("Invalid room id.")
		return
	case errors.Is(err, service.ErrRoomFull):
		c.sendEvent(EventRoomFull, roomFullPayload{
			RoomID:  p.RoomID,
			Message: "This room already has two players.",
		})
		return
	case err != nil:
		c.sendInvalid("Join failed.")
		return
	}

	c.session = connSession{roomID: res.RoomID, seat: res.Seat, seated: true}
	c.hub.joinRoom(c, res.RoomID)

	c.sendEvent(EventAssignedColor, assignedColorPayload{
		RoomID: res.RoomID,
		Color:  res.Seat,
	})

	// A lone first participant sees no snapshot until an opponent
	// arrives.
	if res.Started {
		c.hub.BroadcastToRoom(res.RoomID, EventGameStateUpdate, res.Snapshot)
	}
}

func (c *Client) handleMove(data json.RawMessage) {
	var p movePayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.sendInvalid("Invalid move payload.")
		return
	}

	snap, err := c.hub.service.Move(context.Background(), c.id, service.MoveRequest{
		RoomID:    p.RoomID,
		From:      p.From,
		To:        p.To,
		Promotion: p.Promotion,
	})
	switch {
	case errors.Is(err, service.ErrInvalidRoomID):
		c.sendInvalid("Invalid room id.")
		return
	case errors.Is(err, service.ErrRoomNotFound):
		c.sendInvalid("No such game room.")
		return
	case errors.Is(err, service.ErrNotYourTurn):
		c.sendInvalid("Not your turn.")
		return
	case errors.Is(err, service.ErrIllegalMove):
		c.sendInvalid("Invalid move.")
		return
	case err != nil:
		c.sendInvalid("Move failed.")
		return
	}

	c.hub.BroadcastToRoom(p.RoomID, EventGameStateUpdate, snap)
}

func (c *Client) handleNewGame(data json.RawMessage) {
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}

	snap, err := c.hub.service.NewGame(context.Background(), c.id, p.RoomID)
	if err != nil {
		// A reset from a non-participant or for a dead room is silently
		// ignored.
		return
	}

	c.hub.BroadcastToRoom(p.RoomID, EventGameStateUpdate, snap)
}

// readPump pumps messages from the WebSocket connection into the action
// dispatcher. It runs one goroutine per connection and tears the
// connection down when the peer goes away.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		c.handleMessage(raw)
	}
}

// writePump pumps messages from the send channel to the WebSocket
// connection and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
