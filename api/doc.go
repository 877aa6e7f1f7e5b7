// Package api provides HTTP REST API handlers for the chess room server.
//
// The api package implements:
//   - Read-only room inspection endpoints
//   - WebSocket upgrade handling for the realtime protocol
//   - A health check at the root path
//
// Endpoints:
//
// Room Inspection:
//   - GET /api/rooms - List live rooms (order, limit query parameters)
//   - GET /api/rooms/{id} - Get one room's summary
//   - GET /api/rooms/{id}/state - Get one room's full game snapshot
//
// Realtime:
//   - GET /ws - WebSocket upgrade; all gameplay flows over this socket
//
// Health:
//   - GET / - Liveness check
//
// Request/Response Format:
//
// All endpoints return JSON. Rooms are created and mutated exclusively
// through the WebSocket protocol; the REST surface only observes them.
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
package api
