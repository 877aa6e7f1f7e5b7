// Command roomctl is a small operator CLI for a running chess room server.
// It checks server health and inspects live rooms through the REST API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"chessroom/game/service"
)

func main() {
	cmd := &cli.Command{
		Name:  "roomctl",
		Usage: "inspect a running chess room server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "server",
				Value: "http://localhost:8080",
				Usage: "base URL of the chess room server",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "check that the server is up",
				Action: runStatus,
			},
			{
				Name:  "rooms",
				Usage: "inspect live game rooms",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "list live rooms",
						Action: runRoomsList,
					},
					{
						Name:      "state",
						Usage:     "print one room's full game state",
						ArgsUsage: "<room-id>",
						Action:    runRoomState,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func apiGet(baseURL, path string, result interface{}) error {
	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Get(baseURL + path)
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

	return json.NewDecoder(resp.Body).Decode(result)
}

func runStatus(ctx context.Context, cmd *cli.Command) error {
	var health struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}

	if err := apiGet(cmd.String("server"), "/", &health); err != nil {
		return err
	}

	fmt.Printf("%s: %s\n", health.Status, health.Message)
	return nil
}

func runRoomsList(ctx context.Context, cmd *cli.Command) error {
	var response struct {
		Count int                `json:"count"`
		Rooms []service.RoomInfo `json:"rooms"`
	}

	if err := apiGet(cmd.String("server"), "/api/rooms", &response); err != nil {
		return err
	}

	if response.Count == 0 {
		fmt.Println("No live rooms.")
		return nil
	}

	fmt.Printf("%-20s %-12s %-6s %-10s %s\n", "ROOM", "SEATS", "MOVES", "STATUS", "CREATED")
	for _, r := range response.Rooms {
		fmt.Printf("%-20s %-12s %-6d %-10s %s\n",
			r.ID, seatSummary(r.Seats), r.Moves, r.Status, r.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

func runRoomState(ctx context.Context, cmd *cli.Command) error {
	roomID := cmd.Args().First()
	if roomID == "" {
		return fmt.Errorf("room id required")
	}

	var snap service.Snapshot
	if err := apiGet(cmd.String("server"), "/api/rooms/"+roomID+"/state", &snap); err != nil {
		return err
	}

	fmt.Printf("Room:   %s\n", roomID)
	fmt.Printf("FEN:    %s\n", snap.FEN)
	fmt.Printf("Turn:   %s\n", snap.Turn)
	fmt.Printf("Status: %s\n", snap.Result.Status)
	if snap.Result.Winner != nil {
		fmt.Printf("Winner: %s\n", *snap.Result.Winner)
	}
	if snap.LastMove != nil {
		fmt.Printf("Last:   %s (%s-%s)\n", snap.LastMove.SAN, snap.LastMove.From, snap.LastMove.To)
	}
	fmt.Printf("Taken by white: %v\n", snap.CapturedBy.White)
	fmt.Printf("Taken by black: %v\n", snap.CapturedBy.Black)
	return nil
}

func seatSummary(seats service.SeatOccupancy) string {
	n := 0
	if seats.White {
		n++
	}
	if seats.Black {
		n++
	}
	return fmt.Sprintf("%d/2", n)
}
