package engine

import (
	"errors"

	"github.com/notnil/chess"
)

// ErrIllegalMove is returned when a move attempt is rejected by the rules.
var ErrIllegalMove = errors.New("illegal move")

// Engine owns a single chess position and applies moves against it.
type Engine struct {
	game *chess.Game
}

// New creates an engine holding the standard initial position.
func New() *Engine {
	return &Engine{game: chess.NewGame()}
}

// NewFromFEN creates an engine from a position encoding. Check detection
// is derived from move history, so a position loaded mid-check reports
// InCheck only after the next move.
func NewFromFEN(fen string) (*Engine, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, err
	}
	return &Engine{game: chess.NewGame(opt)}, nil
}

// Reset replaces the position with a fresh initial one.
func (e *Engine) Reset() {
	e.game = chess.NewGame()
}

// FEN returns the current position encoding.
func (e *Engine) FEN() string {
	return e.game.Position().String()
}

// Turn returns the seat whose turn it is.
func (e *Engine) Turn() Seat {
	return seatOf(e.game.Position().Turn())
}

// MoveCount returns the number of half-moves played this game.
func (e *Engine) MoveCount() int {
	return len(e.game.Moves())
}

// InCheck reports whether the side to move is currently in check.
func (e *Engine) InCheck() bool {
	moves := e.game.Moves()
	if len(moves) > 0 && moves[len(moves)-1].HasTag(chess.Check) {
		return true
	}
	return e.game.Position().Status() == chess.Checkmate
}

// InCheckmate reports whether the side to move has been mated.
func (e *Engine) InCheckmate() bool {
	return e.game.Position().Status() == chess.Checkmate
}

// InStalemate reports whether the side to move is stalemated.
func (e *Engine) InStalemate() bool {
	return e.game.Position().Status() == chess.Stalemate
}

// InDraw reports whether the game has ended in a draw, including
// stalemate, insufficient material, and repetition rules.
func (e *Engine) InDraw() bool {
	return e.game.Outcome() == chess.Draw
}

// Move validates and applies a move given origin and destination squares
// in algebraic coordinates and an optional promotion letter (defaults to
// queen). It returns ErrIllegalMove and leaves the position unchanged when
// the rules reject the attempt.
func (e *Engine) Move(from, to, promotion string) (*MoveResult, error) {
	s1, ok := parseSquare(from)
	if !ok {
		return nil, ErrIllegalMove
	}
	s2, ok := parseSquare(to)
	if !ok {
		return nil, ErrIllegalMove
	}
	promo, ok := parsePromotion(promotion)
	if !ok {
		return nil, ErrIllegalMove
	}

	pos := e.game.Position()
	move := e.findMove(s1, s2, promo)
	if move == nil {
		return nil, ErrIllegalMove
	}

	// Notation and capture detection need the pre-move position.
	san := chess.AlgebraicNotation{}.Encode(pos, move)
	mover := seatOf(pos.Turn())
	moved := pos.Board().Piece(s1).Type()

	captured := ""
	if move.HasTag(chess.EnPassant) {
		captured = pieceLetter(chess.Pawn)
	} else if move.HasTag(chess.Capture) {
		captured = pieceLetter(pos.Board().Piece(s2).Type())
	}

	if err := e.game.Move(move); err != nil {
		return nil, ErrIllegalMove
	}

	return &MoveResult{
		Seat:     mover,
		From:     s1.String(),
		To:       s2.String(),
		SAN:      san,
		Flags:    moveFlags(move, moved),
		Captured: captured,
	}, nil
}

// findMove locates the valid move matching origin, destination, and
// promotion. Promotion only discriminates when the move actually promotes.
func (e *Engine) findMove(s1, s2 chess.Square, promo chess.PieceType) *chess.Move {
	for _, m := range e.game.ValidMoves() {
		if m.S1() != s1 || m.S2() != s2 {
			continue
		}
		if m.Promo() != chess.NoPieceType && m.Promo() != promo {
			continue
		}
		return m
	}
	return nil
}
