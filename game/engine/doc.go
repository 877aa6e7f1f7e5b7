// Package engine wraps the chess rules library behind the narrow contract
// the room layer needs: position encoding, side to move, terminal status
// flags, and move application.
//
// The engine package implements:
//   - Seat, the two-valued white/black enumeration used across the server
//   - Move validation and application with capture and promotion handling
//   - Standard algebraic notation and chess.js-compatible move flags
//   - Check, checkmate, stalemate, and draw detection
//
// Core Types:
//
// Engine owns a single game position. It is not safe for concurrent use;
// the room layer serializes access per room. MoveResult describes one
// accepted move: the mover's seat, origin and destination squares, SAN
// notation, flags, and the captured piece letter when the move captured.
//
// Usage:
//
//	eng := engine.New()
//	res, err := eng.Move("e2", "e4", "")
//	if err != nil {
//		// illegal move, position unchanged
//	}
//	fmt.Println(res.SAN, eng.FEN(), eng.Turn())
//
// Piece letters follow the original wire format: p, n, b, r, q, k.
package engine
