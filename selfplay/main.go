package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Self-play driver: starts AI-vs-AI games against a running backend and
// polls the status endpoint until each game finishes.

type statusResponse struct {
	NextPlayer int    `json:"next_player"`
	Winner     int    `json:"winner"`
	BoardSize  int    `json:"board_size"`
	WinLength  int    `json:"win_length"`
	Status     string `json:"status"`
	History    []struct {
		X      int `json:"x"`
		Y      int `json:"y"`
		Player int `json:"player"`
		Depth  int `json:"depth"`
	} `json:"history"`
}

type startRequest struct {
	Settings struct {
		Mode      string `json:"mode"`
		BoardSize int    `json:"board_size"`
		WinLength int    `json:"win_length"`
	} `json:"settings"`
}

func main() {
	addr := flag.String("addr", "http://localhost:8080", "backend base URL")
	games := flag.Int("games", 1, "number of games to play")
	boardSize := flag.Int("size", 9, "board size")
	winLength := flag.Int("k", 5, "stones in a row to win")
	pollMs := flag.Int("poll-ms", 250, "status poll interval")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}
	results := map[string]int{}
	for i := 0; i < *games; i++ {
		status, err := playOne(client, *addr, *boardSize, *winLength, time.Duration(*pollMs)*time.Millisecond)
		if err != nil {
			fmt.Fprintf(os.Stderr, "game %d failed: %v\n", i+1, err)
			os.Exit(1)
		}
		results[status.Status]++
		fmt.Printf("game %d: %s after %d moves\n", i+1, status.Status, len(status.History))
	}
	fmt.Printf("results: %v\n", results)
}

func playOne(client *http.Client, addr string, boardSize, winLength int, poll time.Duration) (statusResponse, error) {
	var req startRequest
	req.Settings.Mode = "ai_vs_ai"
	req.Settings.BoardSize = boardSize
	req.Settings.WinLength = winLength
	body, err := json.Marshal(req)
	if err != nil {
		return statusResponse{}, err
	}
	resp, err := client.Post(addr+"/api/start", "application/json", bytes.NewReader(body))
	if err != nil {
		return statusResponse{}, err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusResponse{}, fmt.Errorf("start returned %s", resp.Status)
	}

	for {
		time.Sleep(poll)
		status, err := fetchStatus(client, addr)
		if err != nil {
			return statusResponse{}, err
		}
		switch status.Status {
		case "black_won", "white_won", "draw":
			return status, nil
		}
	}
}

func fetchStatus(client *http.Client, addr string) (statusResponse, error) {
	resp, err := client.Get(addr + "/api/status")
	if err != nil {
		return statusResponse{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusResponse{}, fmt.Errorf("status returned %s", resp.Status)
	}
	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return statusResponse{}, err
	}
	return status, nil
}
