package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type StatusResponse struct {
	Settings        GameSettingsDTO   `json:"settings"`
	Config          Config            `json:"config"`
	NextPlayer      int               `json:"next_player"`
	Winner          int               `json:"winner"`
	BoardSize       int               `json:"board_size"`
	WinLength       int               `json:"win_length"`
	Board           [][]int           `json:"board"`
	Status          string            `json:"status"`
	History         []historyEntryDTO `json:"history"`
	WinningLine     []Move            `json:"winning_line"`
	AiThinking      bool              `json:"ai_thinking"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type GameSettingsDTO struct {
	Mode        string `json:"mode"`
	HumanPlayer int    `json:"human_player"`
	BoardSize   int    `json:"board_size"`
	WinLength   int    `json:"win_length"`
}

type apiMove struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Player int `json:"player"`
}

type historyEntryDTO struct {
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Player    int     `json:"player"`
	ElapsedMs float64 `json:"elapsed_ms"`
	IsAi      bool    `json:"is_ai"`
	Depth     int     `json:"depth"`
}

type historyPayload struct {
	History []historyEntryDTO `json:"history"`
}

type resetPayload struct {
	History         []historyEntryDTO `json:"history"`
	NextPlayer      int               `json:"next_player"`
	Winner          int               `json:"winner"`
	Status          string            `json:"status"`
	BoardSize       int               `json:"board_size"`
	WinLength       int               `json:"win_length"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type settingsPayload struct {
	Settings GameSettingsDTO `json:"settings"`
	Config   Config          `json:"config"`
}

type engineMoveRequest struct {
	Board     [][]int `json:"board"`
	Player    int     `json:"player"`
	WinLength int     `json:"win_length"`
	Depth     int     `json:"depth,omitempty"`
}

type ttCacheStatusResponse struct {
	Count    int     `json:"count"`
	Capacity int     `json:"capacity"`
	Usage    float64 `json:"usage"`
	Full     bool    `json:"full"`
}

type matchJoinRequest struct {
	PlayerID string `json:"player_id"`
}

type matchMoveRequest struct {
	PlayerID string `json:"player_id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

type matchJoinResponse struct {
	Seat  int       `json:"seat"`
	Match MatchView `json:"match"`
}

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	controller := NewGameController(DefaultGameSettings())
	matches := NewMatchService()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx.Done())
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if controller.Tick() && hub.HasClients() {
					if entry, ok := controller.LatestHistoryEntry(); ok {
						hub.broadcastHistory <- historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}}
					}
					hub.broadcastStatus <- controllerStatus(controller)
				}
			}
		}
	}()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/start", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Settings GameSettingsDTO `json:"settings"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		settings := settingsFromDTO(payload.Settings, DefaultGameSettings())
		controller.StartGame(settings)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
		hub.broadcastReset <- resetFromController(controller)
	})

	r.Post("/api/stop", func(w http.ResponseWriter, r *http.Request) {
		settings := controller.Settings()
		controller.Reset(settings)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
		hub.broadcastReset <- resetFromController(controller)
	})

	r.Post("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Settings *GameSettingsDTO `json:"settings"`
			Config   *Config          `json:"config"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		if payload.Config != nil {
			configStore.Update(*payload.Config)
			controller.ResetForConfigChange()
		}
		if payload.Settings != nil {
			settings := settingsFromDTO(*payload.Settings, controller.Settings())
			controller.UpdateSettings(settings, false)
		}
		hub.broadcastSettings <- settingsPayload{
			Settings: controllerSettingsDTO(controller.Settings()),
			Config:   GetConfig(),
		}
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/move", func(w http.ResponseWriter, r *http.Request) {
		var payload apiMove
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		applied, errMsg := controller.ApplyHumanMove(Move{X: payload.X, Y: payload.Y})
		if !applied {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMsg})
			return
		}
		if entry, ok := controller.LatestHistoryEntry(); ok {
			hub.broadcastHistory <- historyPayload{History: []historyEntryDTO{historyEntryToDTO(entry)}}
		}
		hub.broadcastStatus <- controllerStatus(controller)
		writeJSON(w, http.StatusOK, controllerStatus(controller))
	})

	r.Post("/api/engine/move", func(w http.ResponseWriter, r *http.Request) {
		var payload engineMoveRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		state, err := stateFromRequest(payload)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		config := GetConfig()
		if payload.Depth > 0 {
			config.AiDepthMode = "manual"
			config.AiManualDepth = payload.Depth
			config.AiTimeBudgetMs = 0
		}
		result, err := BestMove(state, config)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, ErrNoLegalMove) {
				status = http.StatusConflict
			}
			writeJSON(w, status, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	r.Get("/api/cache/tt", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ttCacheStatus())
	})
	r.Delete("/api/cache/tt", func(w http.ResponseWriter, r *http.Request) {
		FlushSearchCache()
		writeJSON(w, http.StatusOK, map[string]any{"cleared": true})
	})

	r.Post("/api/matches", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			BoardSize int `json:"board_size"`
			WinLength int `json:"win_length"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		settings := DefaultGameSettings()
		if payload.BoardSize > 0 {
			settings.BoardSize = payload.BoardSize
		}
		if payload.WinLength > 0 {
			settings.WinLength = payload.WinLength
		}
		writeJSON(w, http.StatusOK, matches.Create(settings))
	})
	r.Get("/api/matches/{id}", func(w http.ResponseWriter, r *http.Request) {
		view, err := matches.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, view)
	})
	r.Post("/api/matches/{id}/join", func(w http.ResponseWriter, r *http.Request) {
		var payload matchJoinRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.PlayerID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		seat, view, err := matches.Join(chi.URLParam(r, "id"), payload.PlayerID)
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, matchJoinResponse{Seat: seat, Match: view})
	})
	r.Post("/api/matches/{id}/move", func(w http.ResponseWriter, r *http.Request) {
		var payload matchMoveRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.PlayerID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		view, err := matches.Play(chi.URLParam(r, "id"), payload.PlayerID, Move{X: payload.X, Y: payload.Y})
		if err != nil {
			writeJSON(w, matchErrorStatus(err), map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, view)
	})

	r.Get("/ws/", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, controller, w, r)
	})

	server := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Info().Str("addr", server.Addr).Msg("backend listening")
	var runErr error
	select {
	case <-sigCtx.Done():
		log.Info().Msg("shutdown signal received")
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			log.Error().Err(err).Msg("server error")
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("graceful shutdown failed")
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.Error().Err(closeErr).Msg("forced close failed")
		}
	}

	cancel()
	if runErr != nil {
		log.Error().Err(runErr).Msg("exiting after server error")
	}
}

func serveWS(hub *Hub, controller *GameController, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{hub: hub, send: make(chan []byte, 16)}
	hub.Register(client)

	status := controllerStatus(controller)
	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(status)})

	go func() {
		defer conn.Close()
		for data := range client.send {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			status := controllerStatus(controller)
			client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(status)})
		}
	}
}

func matchErrorStatus(err error) int {
	switch {
	case errors.Is(err, ErrMatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotYourTurn), errors.Is(err, ErrNoLegalMove):
		return http.StatusConflict
	case errors.Is(err, ErrNotAPlayer):
		return http.StatusForbidden
	case errors.Is(err, ErrIllegalMove):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func stateFromRequest(req engineMoveRequest) (GameState, error) {
	size := len(req.Board)
	if size == 0 {
		return GameState{}, errors.New("empty board")
	}
	winLength := req.WinLength
	if winLength <= 0 {
		winLength = DefaultGameSettings().WinLength
	}
	state := GameState{}
	state.Board = NewBoard(size, winLength)
	for y, row := range req.Board {
		if len(row) != size {
			return GameState{}, errors.New("board must be square")
		}
		for x, value := range row {
			cell := intToCell(value)
			if cell != CellEmpty {
				state.Board.Set(x, y, cell)
			}
		}
	}
	state.ToMove = intToPlayer(req.Player)
	state.Status = StatusRunning
	state.recomputeHash()
	return state, nil
}

func controllerStatus(controller *GameController) StatusResponse {
	state := controller.State()
	settings := controller.Settings()
	return StatusResponse{
		Settings:        controllerSettingsDTO(settings),
		Config:          GetConfig(),
		NextPlayer:      playerToInt(state.ToMove),
		Winner:          winnerFromStatus(state.Status),
		BoardSize:       state.Board.Size(),
		WinLength:       state.Board.WinLength(),
		Board:           boardToInts(state.Board),
		Status:          statusToString(state.Status),
		History:         historyToDTO(controller.History()),
		WinningLine:     append([]Move(nil), state.WinningLine...),
		AiThinking:      controller.AiThinking(),
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
}

func settingsFromDTO(dto GameSettingsDTO, base GameSettings) GameSettings {
	settings := base
	switch dto.Mode {
	case "ai_vs_ai":
		settings.BlackType = PlayerAI
		settings.WhiteType = PlayerAI
	case "human_vs_human":
		settings.BlackType = PlayerHuman
		settings.WhiteType = PlayerHuman
	case "ai_vs_human":
		if dto.HumanPlayer == 2 {
			settings.BlackType = PlayerAI
			settings.WhiteType = PlayerHuman
		} else {
			settings.BlackType = PlayerHuman
			settings.WhiteType = PlayerAI
		}
	}
	if dto.BoardSize > 0 {
		settings.BoardSize = dto.BoardSize
	}
	if dto.WinLength > 0 {
		settings.WinLength = dto.WinLength
	}
	if settings.WinLength > settings.BoardSize {
		settings.WinLength = settings.BoardSize
	}
	return settings
}

func controllerSettingsDTO(settings GameSettings) GameSettingsDTO {
	mode := "ai_vs_human"
	if settings.BlackType == PlayerAI && settings.WhiteType == PlayerAI {
		mode = "ai_vs_ai"
	} else if settings.BlackType == PlayerHuman && settings.WhiteType == PlayerHuman {
		mode = "human_vs_human"
	}
	humanPlayer := 0
	if settings.BlackType == PlayerHuman && settings.WhiteType != PlayerHuman {
		humanPlayer = 1
	} else if settings.WhiteType == PlayerHuman && settings.BlackType != PlayerHuman {
		humanPlayer = 2
	} else if settings.BlackType == PlayerHuman && settings.WhiteType == PlayerHuman {
		humanPlayer = 1
	}
	return GameSettingsDTO{
		Mode:        mode,
		HumanPlayer: humanPlayer,
		BoardSize:   settings.BoardSize,
		WinLength:   settings.WinLength,
	}
}

func boardToInts(b Board) [][]int {
	size := b.Size()
	rows := make([][]int, size)
	for y := 0; y < size; y++ {
		row := make([]int, size)
		for x := 0; x < size; x++ {
			row[x] = cellToInt(b.At(x, y))
		}
		rows[y] = row
	}
	return rows
}

func cellToInt(cell Cell) int {
	switch cell {
	case CellBlack:
		return 1
	case CellWhite:
		return 2
	default:
		return 0
	}
}

func intToCell(value int) Cell {
	switch value {
	case 1:
		return CellBlack
	case 2:
		return CellWhite
	default:
		return CellEmpty
	}
}

func playerToInt(player PlayerColor) int {
	if player == PlayerBlack {
		return 1
	}
	return 2
}

func intToPlayer(value int) PlayerColor {
	if value == 2 {
		return PlayerWhite
	}
	return PlayerBlack
}

func winnerFromStatus(status GameStatus) int {
	switch status {
	case StatusBlackWon:
		return 1
	case StatusWhiteWon:
		return 2
	default:
		return 0
	}
}

func statusToString(status GameStatus) string {
	switch status {
	case StatusNotStarted:
		return "not_started"
	case StatusBlackWon:
		return "black_won"
	case StatusWhiteWon:
		return "white_won"
	case StatusDraw:
		return "draw"
	default:
		return "running"
	}
}

func historyToDTO(history MoveHistory) []historyEntryDTO {
	entries := history.All()
	result := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		result = append(result, historyEntryToDTO(entry))
	}
	return result
}

func historyEntryToDTO(entry HistoryEntry) historyEntryDTO {
	return historyEntryDTO{
		X:         entry.Move.X,
		Y:         entry.Move.Y,
		Player:    playerToInt(entry.Player),
		ElapsedMs: entry.ElapsedMs,
		IsAi:      entry.IsAi,
		Depth:     entry.Depth,
	}
}

func resetFromController(controller *GameController) resetPayload {
	state := controller.State()
	return resetPayload{
		History:         historyToDTO(controller.History()),
		NextPlayer:      playerToInt(state.ToMove),
		Winner:          winnerFromStatus(state.Status),
		Status:          statusToString(state.Status),
		BoardSize:       state.Board.Size(),
		WinLength:       state.Board.WinLength(),
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
}

func ttCacheStatus() ttCacheStatusResponse {
	tt := SharedSearchCache(GetConfig())
	count := tt.Count()
	capacity := tt.Capacity()
	usage := 0.0
	full := false
	if capacity > 0 {
		usage = float64(count) / float64(capacity)
		full = count >= capacity
	}
	return ttCacheStatusResponse{
		Count:    count,
		Capacity: capacity,
		Usage:    usage,
		Full:     full,
	}
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
