// Package mcp provides Model Context Protocol server implementation for the chess room server.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Read-only tool definitions over the REST API
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - server_status: Check server liveness
//   - list_rooms: List live game rooms with seat occupancy
//   - room_state: Get one room's full game snapshot
//   - protocol_reference: The WebSocket protocol needed to actually play
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: HTTP endpoint for remote MCP integration
//
// Gameplay itself happens over the WebSocket protocol; the MCP surface is
// a thin observer that proxies every call to the REST API.
package mcp
