package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"chessroom/game/room"
	"chessroom/game/service"
)

// newTestServer starts a hub-backed httptest server and returns it with
// the registry backing the service for lifecycle assertions.
func newTestServer(t *testing.T) (*httptest.Server, *Hub, *room.Registry) {
	t.Helper()
	registry := room.NewRegistry()
	hub := NewHub(service.NewGameService(registry))
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(server.Close)
	return server, hub, registry
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// sendAction writes a client action envelope.
func sendAction(t *testing.T, conn *websocket.Conn, event string, payload interface{}) {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to marshal payload: %v", err)
	}
	if err := conn.WriteJSON(Message{Event: event, Data: data}); err != nil {
		t.Fatalf("Failed to write %s: %v", event, err)
	}
}

// wsReader pumps a connection's messages through channels so helpers can
// wait with timeouts without setting read deadlines: gorilla/websocket
// treats a timed-out read as a permanent error, which would poison the
// connection for subsequent reads.
type wsReader struct {
	msgs chan Message
	errs chan error
}

var (
	readersMu sync.Mutex
	readers   = map[*websocket.Conn]*wsReader{}
)

func readerFor(conn *websocket.Conn) *wsReader {
	readersMu.Lock()
	defer readersMu.Unlock()
	r, ok := readers[conn]
	if !ok {
		r = &wsReader{msgs: make(chan Message, 32), errs: make(chan error, 1)}
		readers[conn] = r
		go func() {
			for {
				var msg Message
				if err := conn.ReadJSON(&msg); err != nil {
					r.errs <- err
					return
				}
				r.msgs <- msg
			}
		}()
	}
	return r
}

// readEvent reads the next server event within a timeout.
func readEvent(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	r := readerFor(conn)
	select {
	case msg := <-r.msgs:
		return msg
	case err := <-r.errs:
		t.Fatalf("Failed to read event: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatalf("Failed to read event: timeout")
	}
	return Message{}
}

// expectNoEvent asserts the connection stays quiet for a short window.
func expectNoEvent(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	r := readerFor(conn)
	select {
	case msg := <-r.msgs:
		t.Fatalf("Expected no event, got %s", msg.Event)
	case <-time.After(150 * time.Millisecond):
	}
}

func decode(t *testing.T, data json.RawMessage, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("Failed to decode payload: %v", err)
	}
}

func TestJoinAssignsColorAndDefersBroadcast(t *testing.T) {
	server, _, _ := newTestServer(t)

	connA := dial(t, server)
	sendAction(t, connA, EventJoinGame, joinPayload{RoomID: "r1"})

	msg := readEvent(t, connA)
	if msg.Event != EventAssignedColor {
		t.Fatalf("Expected assignedColor, got %s", msg.Event)
	}
	var assigned struct {
		RoomID string `json:"roomId"`
		Color  string `json:"color"`
	}
	decode(t, msg.Data, &assigned)
	if assigned.RoomID != "r1" || assigned.Color != "w" {
		t.Errorf("Expected roomId r1 color w, got %+v", assigned)
	}

	// No snapshot until an opponent arrives.
	expectNoEvent(t, connA)

	connB := dial(t, server)
	sendAction(t, connB, EventJoinGame, joinPayload{RoomID: "r1"})

	msg = readEvent(t, connB)
	if msg.Event != EventAssignedColor {
		t.Fatalf("Expected assignedColor for B, got %s", msg.Event)
	}
	decode(t, msg.Data, &assigned)
	if assigned.Color != "b" {
		t.Errorf("Expected color b for the second join, got %s", assigned.Color)
	}

	// Both participants now receive the starting snapshot.
	for _, conn := range []*websocket.Conn{connA, connB} {
		msg = readEvent(t, conn)
		if msg.Event != EventGameStateUpdate {
			t.Fatalf("Expected gameStateUpdate, got %s", msg.Event)
		}
		var snap service.Snapshot
		decode(t, msg.Data, &snap)
		if snap.Turn.String() != "w" {
			t.Errorf("Expected white to move, got %s", snap.Turn)
		}
		if snap.Result.Status != service.StatusOngoing {
			t.Errorf("Expected ongoing, got %s", snap.Result.Status)
		}
	}
}

func TestThirdJoinReceivesRoomFull(t *testing.T) {
	server, _, _ := newTestServer(t)

	connA := dial(t, server)
	connB := dial(t, server)
	sendAction(t, connA, EventJoinGame, joinPayload{RoomID: "r1"})
	readEvent(t, connA) // assignedColor
	sendAction(t, connB, EventJoinGame, joinPayload{RoomID: "r1"})
	readEvent(t, connB) // assignedColor
	readEvent(t, connA) // gameStateUpdate
	readEvent(t, connB) // gameStateUpdate

	connC := dial(t, server)
	sendAction(t, connC, EventJoinGame, joinPayload{RoomID: "r1"})

	msg := readEvent(t, connC)
	if msg.Event != EventRoomFull {
		t.Fatalf("Expected roomFull, got %s", msg.Event)
	}
	var full roomFullPayload
	decode(t, msg.Data, &full)
	if full.RoomID != "r1" {
		t.Errorf("Expected roomFull naming r1, got %s", full.RoomID)
	}

	// The seated players see nothing.
	expectNoEvent(t, connA)
	expectNoEvent(t, connB)
}

func TestJoinWithEmptyRoomIDRejected(t *testing.T) {
	server, _, _ := newTestServer(t)

	conn := dial(t, server)
	sendAction(t, conn, EventJoinGame, joinPayload{RoomID: ""})

	msg := readEvent(t, conn)
	if msg.Event != EventInvalidMove {
		t.Fatalf("Expected invalidMove, got %s", msg.Event)
	}
}

func TestMoveBroadcastsToRoom(t *testing.T) {
	server, _, _ := newTestServer(t)

	connA := dial(t, server)
	connB := dial(t, server)
	sendAction(t, connA, EventJoinGame, joinPayload{RoomID: "r1"})
	readEvent(t, connA)
	sendAction(t, connB, EventJoinGame, joinPayload{RoomID: "r1"})
	readEvent(t, connB)
	readEvent(t, connA)
	readEvent(t, connB)

	sendAction(t, connA, EventMove, movePayload{RoomID: "r1", From: "e2", To: "e4"})

	for _, conn := range []*websocket.Conn{connA, connB} {
		msg := readEvent(t, conn)
		if msg.Event != EventGameStateUpdate {
			t.Fatalf("Expected gameStateUpdate, got %s", msg.Event)
		}
		var snap service.Snapshot
		decode(t, msg.Data, &snap)
		if snap.Turn.String() != "b" {
			t.Errorf("Expected black to move after e4, got %s", snap.Turn)
		}
		if snap.LastMove == nil || snap.LastMove.From != "e2" || snap.LastMove.To != "e4" {
			t.Errorf("Expected lastMove e2-e4, got %+v", snap.LastMove)
		}
	}
}

func TestRejectionsAreTargeted(t *testing.T) {
	server, _, _ := newTestServer(t)

	connA := dial(t, server)
	connB := dial(t, server)
	sendAction(t, connA, EventJoinGame, joinPayload{RoomID: "r1"})
	readEvent(t, connA)
	sendAction(t, connB, EventJoinGame, joinPayload{RoomID: "r1"})
	readEvent(t, connB)
	readEvent(t, connA)
	readEvent(t, connB)

	// Black tries to move out of turn.
	sendAction(t, connB, EventMove, movePayload{RoomID: "r1", From: "e7", To: "e5"})

	msg := readEvent(t, connB)
	if msg.Event != EventInvalidMove {
		t.Fatalf("Expected invalidMove, got %s", msg.Event)
	}
	var rejection invalidMovePayload
	decode(t, msg.Data, &rejection)
	if rejection.Reason != "Not your turn." {
		t.Errorf("Expected turn rejection reason, got %q", rejection.Reason)
	}

	// The opponent is not notified of the rejection.
	expectNoEvent(t, connA)
}

func TestNewGameResetBroadcast(t *testing.T) {
	server, _, _ := newTestServer(t)

	connA := dial(t, server)
	connB := dial(t, server)
	sendAction(t, connA, EventJoinGame, joinPayload{RoomID: "r1"})
	readEvent(t, connA)
	sendAction(t, connB, EventJoinGame, joinPayload{RoomID: "r1"})
	readEvent(t, connB)
	readEvent(t, connA)
	readEvent(t, connB)

	sendAction(t, connA, EventMove, movePayload{RoomID: "r1", From: "e2", To: "e4"})
	readEvent(t, connA)
	readEvent(t, connB)

	sendAction(t, connB, EventNewGame, joinPayload{RoomID: "r1"})

	for _, conn := range []*websocket.Conn{connA, connB} {
		msg := readEvent(t, conn)
		if msg.Event != EventGameStateUpdate {
			t.Fatalf("Expected gameStateUpdate, got %s", msg.Event)
		}
		var snap service.Snapshot
		decode(t, msg.Data, &snap)
		if snap.LastMove != nil {
			t.Error("Reset snapshot should carry no last move")
		}
		if snap.Turn.String() != "w" {
			t.Errorf("Expected white to move after reset, got %s", snap.Turn)
		}
	}
}

func TestNewGameFromStrangerIsSilentlyIgnored(t *testing.T) {
	server, _, _ := newTestServer(t)

	connA := dial(t, server)
	connB := dial(t, server)
	sendAction(t, connA, EventJoinGame, joinPayload{RoomID: "r1"})
	readEvent(t, connA)
	sendAction(t, connB, EventJoinGame, joinPayload{RoomID: "r1"})
	readEvent(t, connB)
	readEvent(t, connA)
	readEvent(t, connB)

	stranger := dial(t, server)
	sendAction(t, stranger, EventNewGame, joinPayload{RoomID: "r1"})

	expectNoEvent(t, stranger)
	expectNoEvent(t, connA)
	expectNoEvent(t, connB)
}

func TestDisconnectNotifiesOpponentAndReapsRoom(t *testing.T) {
	server, hub, registry := newTestServer(t)

	connA := dial(t, server)
	connB := dial(t, server)
	sendAction(t, connA, EventJoinGame, joinPayload{RoomID: "r1"})
	readEvent(t, connA)
	sendAction(t, connB, EventJoinGame, joinPayload{RoomID: "r1"})
	readEvent(t, connB)
	readEvent(t, connA)
	readEvent(t, connB)

	connB.Close()

	msg := readEvent(t, connA)
	if msg.Event != EventOpponentDisconnected {
		t.Fatalf("Expected opponentDisconnected, got %s", msg.Event)
	}

	// The room persists while A is still seated.
	if registry.Count() != 1 {
		t.Errorf("Expected room to persist, registry has %d", registry.Count())
	}

	connA.Close()
	deadline := time.Now().Add(2 * time.Second)
	for registry.Count() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if registry.Count() != 0 {
		t.Error("Expected room removal once both seats are empty")
	}
	if hub.RoomClientCount("r1") != 0 {
		t.Error("Expected no connections bound to the removed room")
	}
}

func TestDisconnectWithoutJoinHasNoEffect(t *testing.T) {
	server, _, registry := newTestServer(t)

	conn := dial(t, server)
	conn.Close()

	time.Sleep(50 * time.Millisecond)
	if registry.Count() != 0 {
		t.Error("A connection that never joined must not create rooms")
	}
}

func TestRejoinAfterDisconnect(t *testing.T) {
	server, _, registry := newTestServer(t)

	connA := dial(t, server)
	connB := dial(t, server)
	sendAction(t, connA, EventJoinGame, joinPayload{RoomID: "r1"})
	readEvent(t, connA)
	sendAction(t, connB, EventJoinGame, joinPayload{RoomID: "r1"})
	readEvent(t, connB)
	readEvent(t, connA)
	readEvent(t, connB)

	connB.Close()
	readEvent(t, connA) // opponentDisconnected

	// The returning client re-issues the same join and finds its former
	// seat still vacant.
	connB2 := dial(t, server)
	sendAction(t, connB2, EventJoinGame, joinPayload{RoomID: "r1"})

	msg := readEvent(t, connB2)
	if msg.Event != EventAssignedColor {
		t.Fatalf("Expected assignedColor, got %s", msg.Event)
	}
	var assigned struct {
		Color string `json:"color"`
	}
	decode(t, msg.Data, &assigned)
	if assigned.Color != "b" {
		t.Errorf("Expected the vacated black seat, got %s", assigned.Color)
	}

	if registry.Count() != 1 {
		t.Errorf("Expected one live room, got %d", registry.Count())
	}
}

// upgradeRaw upgrades one connection and hands the server side back to
// the test without starting the pumps, so the send buffer can be filled
// deliberately.
func upgradeRaw(t *testing.T, hub *Hub) (*Client, *websocket.Conn) {
	t.Helper()
	serverConns := make(chan *websocket.Conn, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Upgrade failed: %v", err)
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(server.Close)

	peer := dial(t, server)
	client := &Client{
		hub:  hub,
		conn: <-serverConns,
		send: make(chan []byte, 1),
		id:   "slow-conn",
	}
	hub.mu.Lock()
	hub.clients[client] = true
	hub.mu.Unlock()
	return client, peer
}

func TestSlowClientOverflowClosesConnection(t *testing.T) {
	hub := NewHub(service.NewGameService(room.NewRegistry()))
	client, peer := upgradeRaw(t, hub)

	client.enqueue([]byte(`{"event":"gameStateUpdate"}`)) // fills the buffer
	client.enqueue([]byte(`{"event":"gameStateUpdate"}`)) // overflow closes the socket

	peer.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := peer.ReadMessage(); err == nil {
		t.Fatal("Expected the peer to observe the closed connection")
	}

	// readPump's teardown follows the close. A broadcast landing after
	// it must be dropped, not sent on the closed channel.
	hub.unregister(client)
	client.enqueue([]byte(`{"event":"gameStateUpdate"}`))

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	if hub.clients[client] {
		t.Error("Slow client should have been unregistered")
	}
}

func TestBroadcastDuringDisconnect(t *testing.T) {
	server, hub, _ := newTestServer(t)

	connA := dial(t, server)
	sendAction(t, connA, EventJoinGame, joinPayload{RoomID: "r1"})
	readEvent(t, connA)
	connB := dial(t, server)
	sendAction(t, connB, EventJoinGame, joinPayload{RoomID: "r1"})
	readEvent(t, connB)
	readEvent(t, connA)
	readEvent(t, connB)

	// Fan snapshots out while both peers tear down. Membership changes
	// under the connections' feet must never reach a closed channel.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			hub.BroadcastToRoom("r1", EventGameStateUpdate, service.Snapshot{FEN: "8/8/8/8/8/8/8/8 w - - 0 1"})
		}
	}()

	connA.Close()
	connB.Close()
	<-done

	deadline := time.Now().Add(2 * time.Second)
	for hub.RoomClientCount("r1") != 0 {
		if time.Now().After(deadline) {
			t.Fatal("Expected all connections to unregister")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
