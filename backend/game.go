package main

import (
	"time"

	"github.com/rs/zerolog/log"
)

type Game struct {
	settings    GameSettings
	state       GameState
	history     MoveHistory
	blackPlayer IPlayer
	whitePlayer IPlayer
	turnStart   time.Time
}

func NewGame(settings GameSettings) Game {
	g := Game{}
	g.Reset(settings)
	return g
}

func (g *Game) Reset(settings GameSettings) {
	g.stopAIPlayers()
	g.settings = settings
	g.state.Reset(settings)
	g.history.Clear()
	g.createPlayers()
	g.turnStart = time.Now()
	g.logMatchup()
}

func (g *Game) Start() {
	if g.state.Status == StatusNotStarted {
		g.state.Status = StatusRunning
		g.turnStart = time.Now()
	}
}

func (g *Game) State() GameState {
	return g.state.Clone()
}

func (g *Game) History() MoveHistory {
	return g.history
}

func (g *Game) TurnStartedAtMs() int64 {
	if g.turnStart.IsZero() {
		return 0
	}
	return g.turnStart.UnixMilli()
}

func (g *Game) TryApplyMove(move Move) (bool, string) {
	if g.state.Status != StatusRunning {
		return false, "game not running"
	}
	player := g.currentPlayer()
	isAiMove := player != nil && !player.IsHuman()
	elapsedMs := float64(time.Since(g.turnStart).Milliseconds())
	mover := g.state.ToMove
	if err := advanceState(&g.state, move, mover); err != nil {
		g.state.LastMessage = "Illegal move: " + err.Error()
		return false, g.state.LastMessage
	}
	g.state.LastMessage = ""
	g.history.Push(HistoryEntry{
		Move:      move,
		Player:    mover,
		ElapsedMs: elapsedMs,
		IsAi:      isAiMove,
		Depth:     move.Depth,
	})
	g.logMovePlayed(move, mover, elapsedMs, isAiMove)
	if g.state.Status == StatusBlackWon || g.state.Status == StatusWhiteWon {
		g.logWin(mover)
	}
	g.turnStart = time.Now()
	return true, ""
}

// Tick advances the game one step: applies a pending human move, collects a
// finished AI search, or kicks one off. Returns true when a move was played.
func (g *Game) Tick() bool {
	if g.state.Status != StatusRunning {
		return false
	}
	player := g.currentPlayer()
	if player == nil {
		return false
	}
	if player.IsHuman() {
		human, ok := player.(*HumanPlayer)
		if ok && human.HasPendingMove() {
			move := human.TakePendingMove()
			applied, _ := g.TryApplyMove(move)
			return applied
		}
		return false
	}
	ai, ok := player.(*AIPlayer)
	if ok {
		if ai.HasMoveReady() {
			move := ai.TakeMove()
			if !move.IsValid(g.settings.BoardSize) {
				return false
			}
			applied, _ := g.TryApplyMove(move)
			return applied
		}
		if !ai.IsThinking() {
			ai.StartThinking(g.state.Clone())
		}
		return false
	}
	move := player.ChooseMove(g.state.Clone())
	applied, _ := g.TryApplyMove(move)
	return applied
}

func (g *Game) SubmitHumanMove(move Move) bool {
	player := g.currentPlayer()
	if player == nil || !player.IsHuman() {
		return false
	}
	human, ok := player.(*HumanPlayer)
	if !ok {
		return false
	}
	human.SetPendingMove(move)
	return true
}

func (g *Game) CurrentPlayerIsHuman() bool {
	player := g.currentPlayer()
	return player != nil && player.IsHuman()
}

func (g *Game) AiThinking() bool {
	ai, ok := g.currentPlayer().(*AIPlayer)
	return ok && ai.IsThinking()
}

func (g *Game) ResetForConfigChange() {
	if aiBlack, ok := g.blackPlayer.(*AIPlayer); ok {
		aiBlack.ResetForConfigChange()
	}
	if aiWhite, ok := g.whitePlayer.(*AIPlayer); ok {
		aiWhite.ResetForConfigChange()
	}
}

func (g *Game) currentPlayer() IPlayer {
	return g.playerForColor(g.state.ToMove)
}

func (g *Game) playerForColor(color PlayerColor) IPlayer {
	if color == PlayerBlack {
		return g.blackPlayer
	}
	return g.whitePlayer
}

func (g *Game) createPlayers() {
	if g.settings.BlackType == PlayerHuman {
		g.blackPlayer = NewHumanPlayer()
	} else {
		g.blackPlayer = NewAIPlayer()
	}
	if g.settings.WhiteType == PlayerHuman {
		g.whitePlayer = NewHumanPlayer()
	} else {
		g.whitePlayer = NewAIPlayer()
	}
}

func (g *Game) stopAIPlayers() {
	if aiBlack, ok := g.blackPlayer.(*AIPlayer); ok {
		aiBlack.StopThinking()
	}
	if aiWhite, ok := g.whitePlayer.(*AIPlayer); ok {
		aiWhite.StopThinking()
	}
}

func (g *Game) logMatchup() {
	label := func(t PlayerType) string {
		if t == PlayerAI {
			return "AI"
		}
		return "Human"
	}
	log.Info().
		Str("black", label(g.settings.BlackType)).
		Str("white", label(g.settings.WhiteType)).
		Int("board_size", g.settings.BoardSize).
		Int("win_length", g.settings.WinLength).
		Msg("new game")
}

func (g *Game) logMovePlayed(move Move, player PlayerColor, elapsedMs float64, isAiMove bool) {
	log.Debug().
		Int("x", move.X).
		Int("y", move.Y).
		Int("player", playerToInt(player)).
		Float64("elapsed_ms", elapsedMs).
		Bool("ai", isAiMove).
		Int("depth", move.Depth).
		Msg("move played")
}

func (g *Game) logWin(player PlayerColor) {
	log.Info().
		Int("player", playerToInt(player)).
		Int("moves", g.history.Size()).
		Msg("game won by alignment")
}
