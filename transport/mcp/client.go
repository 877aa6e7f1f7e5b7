package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"chessroom/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Chess Room Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Chess Room Server - MCP Interface

This is a thin client that proxies all requests to the REST API server.

The server hosts two-player chess rooms. Players join rooms and play over
a WebSocket connection; this interface observes the rooms but cannot move
pieces.

AVAILABLE TOOLS:
- server_status: Check that the server is up
- list_rooms: List all live game rooms
- room_state: Get a room's full game state (FEN, turn, captures, result)
- protocol_reference: Get the WebSocket protocol reference for connecting a player`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "server_status",
		Description: "Check that the chess server is up and reachable",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleServerStatus)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List all live game rooms with seat occupancy and status",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of rooms to return",
				},
			},
		},
	}, c.handleListRooms)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "room_state",
		Description: "Get the full game state of one room, including the FEN position, side to move, captures and result",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_id": map[string]interface{}{
					"type":        "string",
					"description": "Room ID to inspect",
				},
			},
			Required: []string{"room_id"},
		},
	}, c.handleRoomState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "protocol_reference",
		Description: "Get the WebSocket protocol reference for joining a room and playing moves",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleProtocolReference)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleServerStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var health struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}

	err := c.apiCall("GET", "/", nil, &health)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Status: %s\n%s", health.Status, health.Message)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := "/api/rooms"
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		if limit, ok := args["limit"].(float64); ok && limit > 0 {
			path += fmt.Sprintf("?limit=%d", int(limit))
		}
	}

	var response struct {
		Count int                `json:"count"`
		Rooms []service.RoomInfo `json:"rooms"`
	}

	err := c.apiCall("GET", path, nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Live Rooms (%d):\n\n", response.Count)
	for _, r := range response.Rooms {
		result += fmt.Sprintf("- %s (Seats: %s, Moves: %d, Status: %s, Created: %s)\n",
			r.ID, formatSeats(r.Seats), r.Moves, r.Status, r.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleRoomState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	roomID, _ := args["room_id"].(string)

	var snap service.Snapshot
	err := c.apiCall("GET", fmt.Sprintf("/api/rooms/%s/state", roomID), nil, &snap)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSnapshot(roomID, &snap)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleProtocolReference(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reference := `Chess Room Server - WebSocket Protocol Reference

Connect to /ws and exchange JSON envelopes of the form:

	{"event": "<name>", "data": {...}}

CLIENT ACTIONS:
- joinGame: {"roomId": "<id>"}
  Joining a missing room creates it. The first player takes white, the
  second takes black. A third join is rejected with roomFull.
- move: {"roomId": "<id>", "from": "e2", "to": "e4", "promotion": "q"}
  Squares use algebraic coordinates. The promotion piece (q, r, b, n)
  defaults to queen and is ignored for non-promotion moves.
- newGame: {"roomId": "<id>"}
  Resets the board. Only a seated player may reset.

SERVER EVENTS:
- assignedColor: {"roomId", "color"} - sent to the joiner only ("w" or "b")
- gameStateUpdate: full game snapshot, broadcast to the whole room
- invalidMove: {"reason"} - sent only to the offending connection
- roomFull: {"roomId", "message"} - join rejected for capacity
- opponentDisconnected: {"message"} - the other seat was vacated

SNAPSHOT FIELDS:
- fen: the position in Forsyth-Edwards Notation
- turn: side to move, "w" or "b"
- in_check, in_checkmate, in_stalemate, in_draw: booleans
- capturedBy: {"w": [...], "b": [...]} piece letters taken by each side
- lastMove: {"from", "to", "san", "flags"} or null
- result: {"status": "ongoing|checkmate|stalemate|draw", "winner": "w"|"b"|null}

LIFECYCLE NOTES:
- Rooms are created on first join and removed when both seats are empty.
- A disconnected player's seat reopens immediately; anyone may claim it
  by joining the room again.
- Moves are rejected unless the sender holds the seat whose turn it is.`

	return mcp.NewToolResultText(reference), nil
}

// Formatting helpers

func formatSeats(seats service.SeatOccupancy) string {
	mark := func(taken bool) string {
		if taken {
			return "taken"
		}
		return "open"
	}
	return fmt.Sprintf("w=%s b=%s", mark(seats.White), mark(seats.Black))
}

func formatSnapshot(roomID string, snap *service.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Room: %s\n", roomID)
	fmt.Fprintf(&b, "FEN: %s\n", snap.FEN)
	fmt.Fprintf(&b, "Turn: %s\n", snap.Turn)
	fmt.Fprintf(&b, "Status: %s\n", snap.Result.Status)

	if snap.Result.Winner != nil {
		fmt.Fprintf(&b, "Winner: %s\n", *snap.Result.Winner)
	}
	if snap.InCheck {
		b.WriteString("The side to move is in check.\n")
	}

	if snap.LastMove != nil {
		fmt.Fprintf(&b, "Last move: %s (%s-%s)\n",
			snap.LastMove.SAN, snap.LastMove.From, snap.LastMove.To)
	}

	fmt.Fprintf(&b, "Captured by white: %s\n", formatCaptures(snap.CapturedBy.White))
	fmt.Fprintf(&b, "Captured by black: %s\n", formatCaptures(snap.CapturedBy.Black))

	return b.String()
}

func formatCaptures(pieces []string) string {
	if len(pieces) == 0 {
		return "none"
	}
	return strings.Join(pieces, " ")
}
