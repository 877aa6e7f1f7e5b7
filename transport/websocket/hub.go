package websocket

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"chessroom/game/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		return true
	},
}

// Hub maintains the set of active connections and their room membership,
// and fans snapshots out to every connection bound to a room.
type Hub struct {
	service service.GameService

	mu      sync.RWMutex
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool
}

// NewHub creates a hub dispatching into the given game service.
func NewHub(svc service.GameService) *Hub {
	return &Hub{
		service: svc,
		clients: make(map[*Client]bool),
		rooms:   make(map[string]map[*Client]bool),
	}
}

// ServeWS upgrades an HTTP request to a WebSocket connection and starts
// the connection's read and write goroutines.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
		id:   uuid.NewString(),
	}

	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()

	go client.writePump()
	go client.readPump()
}

// BroadcastToRoom sends an event to every connection bound to the room.
func (h *Hub) BroadcastToRoom(roomID, event string, payload interface{}) {
	data, err := encodeMessage(event, payload)
	if err != nil {
		log.Printf("Failed to marshal %s broadcast: %v", event, err)
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.rooms[roomID]))
	for client := range h.rooms[roomID] {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	for _, client := range targets {
		client.enqueue(data)
	}
}

// RoomClientCount reports how many connections are bound to the room.
func (h *Hub) RoomClientCount(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// joinRoom indexes the client under the room for broadcasts.
func (h *Hub) joinRoom(c *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][c] = true

	log.Printf("Client %s joined room %s (connections: %d)", c.id, roomID, len(h.rooms[roomID]))
}

// unregister removes the client from the hub and, when it was bound to a
// room, runs the disconnect flow: vacate the seat, notify the remaining
// occupants, and let the registry reap the room if it emptied.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if !h.clients[c] {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	if c.session.roomID != "" {
		if clients, ok := h.rooms[c.session.roomID]; ok {
			delete(clients, c)
			if len(clients) == 0 {
				delete(h.rooms, c.session.roomID)
			}
		}
	}
	c.shutdown()
	h.mu.Unlock()

	if c.session.roomID == "" {
		return
	}

	res, err := h.service.Disconnect(context.Background(), c.id, c.session.roomID)
	if err != nil {
		log.Printf("Disconnect handling for %s failed: %v", c.id, err)
		return
	}
	if res.Vacated {
		h.BroadcastToRoom(c.session.roomID, EventOpponentDisconnected, opponentDisconnectedPayload{
			Message: "Your opponent has disconnected.",
		})
	}
	if res.RoomRemoved {
		log.Printf("Room %s removed (both seats empty)", c.session.roomID)
	}
}
