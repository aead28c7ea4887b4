package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// selfplay drives the backend API through full ai-vs-ai games and
// tallies outcomes. Useful for sanity-checking the engine end to end:
// on any square board small enough for exhaustive search both sides
// play perfectly, so every game must end in a draw.
type arena struct {
	client       *http.Client
	baseURL      string
	pollInterval time.Duration
	logger       *log.Logger

	rows  int
	cols  int
	games int
}

type statusResponse struct {
	GameID    string            `json:"game_id"`
	Status    string            `json:"status"`
	Winner    int               `json:"winner"`
	Rows      int               `json:"rows"`
	Cols      int               `json:"cols"`
	WinLength int               `json:"win_length"`
	History   []json.RawMessage `json:"history"`
}

type startRequest struct {
	Settings startSettings `json:"settings"`
}

type startSettings struct {
	Mode string `json:"mode"`
	Rows int    `json:"rows"`
	Cols int    `json:"cols"`
}

func main() {
	baseURL := flag.String("api", "http://localhost:8080", "backend base URL")
	games := flag.Int("games", 10, "number of games to play")
	rows := flag.Int("rows", 3, "board rows")
	cols := flag.Int("cols", 3, "board columns")
	poll := flag.Duration("poll", 250*time.Millisecond, "status poll interval")
	flag.Parse()

	logger := log.New(os.Stdout, "[selfplay] ", log.LstdFlags)
	a := &arena{
		client:       &http.Client{Timeout: 10 * time.Second},
		baseURL:      *baseURL,
		pollInterval: *poll,
		logger:       logger,
		rows:         *rows,
		cols:         *cols,
		games:        *games,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx); err != nil {
		logger.Fatalf("arena stopped: %v", err)
	}
}

func (a *arena) run(ctx context.Context) error {
	if err := a.ping(ctx); err != nil {
		return fmt.Errorf("backend not reachable at %s: %w", a.baseURL, err)
	}
	xWins, oWins, draws := 0, 0, 0
	start := time.Now()
	for i := 0; i < a.games; i++ {
		if ctx.Err() != nil {
			break
		}
		result, moves, err := a.playGame(ctx)
		if err != nil {
			return fmt.Errorf("game %d: %w", i+1, err)
		}
		switch result {
		case 1:
			xWins++
		case 2:
			oWins++
		default:
			draws++
		}
		a.logger.Printf("game %d/%d: %s in %d moves (x=%d o=%d draw=%d)",
			i+1, a.games, resultLabel(result), moves, xWins, oWins, draws)
	}
	a.logger.Printf("done: %d games on %dx%d in %s — X wins %d, O wins %d, draws %d",
		xWins+oWins+draws, a.rows, a.cols, time.Since(start).Round(time.Millisecond), xWins, oWins, draws)
	return nil
}

func (a *arena) ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/ping", nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// playGame starts one ai-vs-ai game and polls until it finishes.
// Returns the winner (1 = X, 2 = O, 0 = draw) and the move count.
func (a *arena) playGame(ctx context.Context) (int, int, error) {
	body, err := json.Marshal(startRequest{Settings: startSettings{Mode: "ai_vs_ai", Rows: a.rows, Cols: a.cols}})
	if err != nil {
		return 0, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/start", bytes.NewReader(body))
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.client.Do(req)
	if err != nil {
		return 0, 0, err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("start returned status %d", resp.StatusCode)
	}

	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return 0, 0, ctx.Err()
		case <-ticker.C:
			status, err := a.fetchStatus(ctx)
			if err != nil {
				return 0, 0, err
			}
			switch status.Status {
			case "x_won", "o_won", "draw":
				return status.Winner, len(status.History), nil
			}
		}
	}
}

func (a *arena) fetchStatus(ctx context.Context) (statusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/status", nil)
	if err != nil {
		return statusResponse{}, err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return statusResponse{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusResponse{}, fmt.Errorf("status returned %d", resp.StatusCode)
	}
	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return statusResponse{}, err
	}
	return status, nil
}

func resultLabel(winner int) string {
	switch winner {
	case 1:
		return "X wins"
	case 2:
		return "O wins"
	default:
		return "draw"
	}
}
