package engine

import (
	"errors"
	"testing"
)

const initialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// play applies a sequence of from/to pairs, failing the test on rejection.
func play(t *testing.T, e *Engine, moves ...[2]string) {
	t.Helper()
	for _, m := range moves {
		if _, err := e.Move(m[0], m[1], ""); err != nil {
			t.Fatalf("Move %s-%s failed: %v", m[0], m[1], err)
		}
	}
}

func TestNewEngineInitialState(t *testing.T) {
	e := New()

	if e.FEN() != initialFEN {
		t.Errorf("Expected initial FEN, got %s", e.FEN())
	}
	if e.Turn() != SeatWhite {
		t.Errorf("Expected white to move, got %v", e.Turn())
	}
	if e.InCheck() || e.InCheckmate() || e.InStalemate() || e.InDraw() {
		t.Error("Fresh position should have no terminal flags set")
	}
}

func TestMoveUpdatesTurnAndFEN(t *testing.T) {
	e := New()

	res, err := e.Move("e2", "e4", "")
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if res.Seat != SeatWhite {
		t.Errorf("Expected mover seat white, got %v", res.Seat)
	}
	if res.From != "e2" || res.To != "e4" {
		t.Errorf("Expected e2-e4, got %s-%s", res.From, res.To)
	}
	if res.SAN != "e4" {
		t.Errorf("Expected SAN e4, got %s", res.SAN)
	}
	if res.Flags != "b" {
		t.Errorf("Expected double-push flags 'b', got %q", res.Flags)
	}
	if res.Captured != "" {
		t.Errorf("Expected no capture, got %q", res.Captured)
	}
	if e.Turn() != SeatBlack {
		t.Errorf("Expected black to move after e4, got %v", e.Turn())
	}
	if e.FEN() == initialFEN {
		t.Error("FEN should change after a move")
	}
}

func TestIllegalMoveLeavesPositionUnchanged(t *testing.T) {
	e := New()

	tests := []struct {
		name     string
		from, to string
	}{
		{"pawn three squares", "e2", "e5"},
		{"empty origin", "e5", "e6"},
		{"malformed origin", "z9", "e4"},
		{"malformed destination", "e2", ""},
		{"opponent piece", "e7", "e5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Move(tt.from, tt.to, "")
			if !errors.Is(err, ErrIllegalMove) {
				t.Errorf("Expected ErrIllegalMove, got %v", err)
			}
			if e.FEN() != initialFEN {
				t.Errorf("Position changed after rejected move: %s", e.FEN())
			}
			if e.Turn() != SeatWhite {
				t.Error("Turn changed after rejected move")
			}
		})
	}
}

func TestCaptureReportsPieceLetter(t *testing.T) {
	e := New()
	play(t, e, [2]string{"e2", "e4"}, [2]string{"d7", "d5"})

	res, err := e.Move("e4", "d5", "")
	if err != nil {
		t.Fatalf("Capture move failed: %v", err)
	}

	if res.Captured != "p" {
		t.Errorf("Expected captured pawn 'p', got %q", res.Captured)
	}
	if res.Flags != "c" {
		t.Errorf("Expected capture flags 'c', got %q", res.Flags)
	}
	if res.SAN != "exd5" {
		t.Errorf("Expected SAN exd5, got %s", res.SAN)
	}
}

func TestEnPassantCapture(t *testing.T) {
	e := New()
	play(t, e,
		[2]string{"e2", "e4"}, [2]string{"a7", "a6"},
		[2]string{"e4", "e5"}, [2]string{"d7", "d5"},
	)

	res, err := e.Move("e5", "d6", "")
	if err != nil {
		t.Fatalf("En passant move failed: %v", err)
	}

	if res.Flags != "e" {
		t.Errorf("Expected en passant flags 'e', got %q", res.Flags)
	}
	if res.Captured != "p" {
		t.Errorf("Expected captured pawn, got %q", res.Captured)
	}
}

func TestKingsideCastle(t *testing.T) {
	e := New()
	play(t, e,
		[2]string{"e2", "e4"}, [2]string{"e7", "e5"},
		[2]string{"g1", "f3"}, [2]string{"b8", "c6"},
		[2]string{"f1", "c4"}, [2]string{"f8", "c5"},
	)

	res, err := e.Move("e1", "g1", "")
	if err != nil {
		t.Fatalf("Castle move failed: %v", err)
	}

	if res.Flags != "k" {
		t.Errorf("Expected castle flags 'k', got %q", res.Flags)
	}
	if res.SAN != "O-O" {
		t.Errorf("Expected SAN O-O, got %s", res.SAN)
	}
}

func TestPromotionDefaultsToQueen(t *testing.T) {
	e, err := NewFromFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1")
	if err != nil {
		t.Fatalf("NewFromFEN failed: %v", err)
	}

	res, err := e.Move("a7", "a8", "")
	if err != nil {
		t.Fatalf("Promotion move failed: %v", err)
	}

	if res.SAN != "a8=Q" {
		t.Errorf("Expected SAN a8=Q, got %s", res.SAN)
	}
	if res.Flags != "np" {
		t.Errorf("Expected promotion flags 'np', got %q", res.Flags)
	}
}

func TestPromotionToKnight(t *testing.T) {
	e, err := NewFromFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1")
	if err != nil {
		t.Fatalf("NewFromFEN failed: %v", err)
	}

	res, err := e.Move("a7", "a8", "n")
	if err != nil {
		t.Fatalf("Promotion move failed: %v", err)
	}

	if res.SAN != "a8=N" {
		t.Errorf("Expected SAN a8=N, got %s", res.SAN)
	}
}

func TestInvalidPromotionLetterRejected(t *testing.T) {
	e, err := NewFromFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1")
	if err != nil {
		t.Fatalf("NewFromFEN failed: %v", err)
	}

	if _, err := e.Move("a7", "a8", "x"); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("Expected ErrIllegalMove for bad promotion letter, got %v", err)
	}
}

func TestCheckDetection(t *testing.T) {
	e := New()
	// 1.e4 e5 2.Qh5 Nc6 3.Qxf7+ is not yet mate (king can take).
	play(t, e,
		[2]string{"e2", "e4"}, [2]string{"e7", "e5"},
		[2]string{"d1", "h5"}, [2]string{"b8", "c6"},
		[2]string{"h5", "f7"},
	)

	if !e.InCheck() {
		t.Error("Expected black to be in check after Qxf7+")
	}
	if e.InCheckmate() {
		t.Error("Qxf7+ without support is not mate")
	}
}

func TestScholarsMate(t *testing.T) {
	e := New()
	play(t, e,
		[2]string{"e2", "e4"}, [2]string{"e7", "e5"},
		[2]string{"f1", "c4"}, [2]string{"b8", "c6"},
		[2]string{"d1", "h5"}, [2]string{"g8", "f6"},
		[2]string{"h5", "f7"},
	)

	if !e.InCheckmate() {
		t.Fatal("Expected checkmate after Qxf7#")
	}
	if !e.InCheck() {
		t.Error("Mated side should also be in check")
	}
	if e.Turn() != SeatBlack {
		t.Errorf("Expected black (the mated side) to move, got %v", e.Turn())
	}
}

func TestStalemateAndDrawFlags(t *testing.T) {
	// Black to move with no legal moves and king not in check.
	e, err := NewFromFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatalf("NewFromFEN failed: %v", err)
	}

	if !e.InStalemate() {
		t.Error("Expected stalemate")
	}
	if !e.InDraw() {
		t.Error("Stalemate should also report a draw")
	}
	if e.InCheckmate() {
		t.Error("Stalemate is not checkmate")
	}
}

func TestInsufficientMaterialDraw(t *testing.T) {
	e, err := NewFromFEN("8/8/4k3/8/8/4K3/8/8 w - - 0 1")
	if err != nil {
		t.Fatalf("NewFromFEN failed: %v", err)
	}

	if !e.InDraw() {
		t.Error("King versus king should be a draw")
	}
	if e.InStalemate() {
		t.Error("King versus king is not stalemate")
	}
}

func TestResetRestoresInitialPosition(t *testing.T) {
	e := New()
	play(t, e, [2]string{"e2", "e4"}, [2]string{"e7", "e5"})

	e.Reset()

	if e.FEN() != initialFEN {
		t.Errorf("Expected initial FEN after reset, got %s", e.FEN())
	}
	if e.Turn() != SeatWhite {
		t.Error("Expected white to move after reset")
	}
	if e.InCheck() {
		t.Error("Reset position should not be in check")
	}
}

func TestMoveAfterCheckmateRejected(t *testing.T) {
	e := New()
	play(t, e,
		[2]string{"f2", "f3"}, [2]string{"e7", "e5"},
		[2]string{"g2", "g4"}, [2]string{"d8", "h4"},
	)

	if !e.InCheckmate() {
		t.Fatal("Expected fool's mate position")
	}
	if _, err := e.Move("a2", "a3", ""); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("Expected moves after mate to be rejected, got %v", err)
	}
}
