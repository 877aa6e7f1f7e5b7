// Command analyze prints quick, human-readable heuristics about chess
// positions given as FEN strings. It summarizes the side to move, game
// status, material balance, and a rendered board, which is handy when
// debugging positions reported by the room inspection API.
package main

import (
	"fmt"
	"os"
	"strings"

	"chessroom/game/engine"
)

// pieceValues weights material in standard pawn units.
var pieceValues = map[rune]int{
	'p': 1, 'n': 3, 'b': 3, 'r': 5, 'q': 9,
}

func main() {
	fens := os.Args[1:]
	if len(fens) == 0 {
		// Starting position for a no-arg smoke run.
		fens = []string{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"}
	}

	for i, fen := range fens {
		fmt.Printf("\n=== Position %d ===\n", i+1)
		analyzeFEN(fen)
	}
}

func analyzeFEN(fen string) {
	eng, err := engine.NewFromFEN(fen)
	if err != nil {
		fmt.Printf("Error parsing FEN: %v\n", err)
		return
	}

	fmt.Printf("FEN: %s\n", eng.FEN())
	fmt.Printf("Side to move: %s\n", sideName(eng.Turn()))

	switch {
	case eng.InCheckmate():
		fmt.Printf("Status: checkmate (%s wins)\n", sideName(eng.Turn().Other()))
	case eng.InStalemate():
		fmt.Println("Status: stalemate")
	case eng.InDraw():
		fmt.Println("Status: drawn")
	default:
		fmt.Println("Status: ongoing")
	}

	white, black := materialCount(fen)
	fmt.Printf("Material: white %d, black %d (balance %+d)\n", white, black, white-black)

	printBoard(fen)
}

func sideName(s engine.Seat) string {
	if s == engine.SeatWhite {
		return "white"
	}
	return "black"
}

// materialCount sums piece values per side from the FEN board field.
func materialCount(fen string) (white, black int) {
	board := strings.SplitN(fen, " ", 2)[0]
	for _, r := range board {
		if v, ok := pieceValues[r]; ok {
			black += v
			continue
		}
		if v, ok := pieceValues[r+('a'-'A')]; ok {
			white += v
		}
	}
	return white, black
}

// printBoard renders the FEN board field as an 8x8 grid, rank 8 first.
func printBoard(fen string) {
	board := strings.SplitN(fen, " ", 2)[0]
	ranks := strings.Split(board, "/")
	if len(ranks) != 8 {
		return
	}

	fmt.Println()
	for i, rank := range ranks {
		fmt.Printf("%d  ", 8-i)
		for _, r := range rank {
			if r >= '1' && r <= '8' {
				fmt.Print(strings.Repeat(". ", int(r-'0')))
			} else {
				fmt.Printf("%c ", r)
			}
		}
		fmt.Println()
	}
	fmt.Println("\n   a b c d e f g h")
}
