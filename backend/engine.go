package main

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var ErrNoLegalMove = errors.New("no legal move available")

type EngineResult struct {
	Move      Move   `json:"move"`
	Score     int    `json:"score"`
	Depth     int    `json:"depth"`
	ElapsedMs int64  `json:"elapsed_ms"`
	Nodes     int64  `json:"nodes"`
	Reason    string `json:"reason"`
	Fallback  bool   `json:"fallback"`
}

// BestMove picks a move for state.ToMove. Cheap shortcuts run before any
// search: exact center on an empty board, then an immediate win, then an
// immediate block. Everything else goes through the parallel root search,
// iteratively deepened when a time budget is configured. On a non-terminal
// board a move is always returned.
func BestMove(state GameState, config Config) (EngineResult, error) {
	return bestMoveWithStop(state, config, nil)
}

// bestMoveWithStop is BestMove with an external stop signal, checked at the
// same node boundaries as the time budget.
func bestMoveWithStop(state GameState, config Config, shouldStop func() bool) (EngineResult, error) {
	start := time.Now()
	if state.Board.IsTerminal() {
		return EngineResult{}, fmt.Errorf("%w: board is terminal", ErrNoLegalMove)
	}
	legal := state.Board.LegalMoves()
	if len(legal) == 0 {
		return EngineResult{}, ErrNoLegalMove
	}
	player := state.ToMove

	if state.Board.MoveCount() == 0 {
		center := state.Board.Size() / 2
		return EngineResult{
			Move:      Move{X: center, Y: center},
			Score:     0,
			Reason:    "center",
			ElapsedMs: time.Since(start).Milliseconds(),
		}, nil
	}
	if move, ok := findImmediateWin(state.Board, player); ok {
		return EngineResult{
			Move:      move,
			Score:     winScore,
			Reason:    "win",
			ElapsedMs: time.Since(start).Milliseconds(),
		}, nil
	}
	if move, ok := findImmediateBlock(state.Board, player); ok {
		return EngineResult{
			Move:      move,
			Reason:    "block",
			ElapsedMs: time.Since(start).Milliseconds(),
		}, nil
	}

	if state.Hash == 0 {
		state.recomputeHash()
	}
	if state.Status == StatusNotStarted {
		state.Status = StatusRunning
	}
	tt := SharedSearchCache(config)
	tt.Clear()
	stats := &SearchStats{Start: start}
	settings := SearchSettings{
		BoardSize:  state.Board.Size(),
		Player:     player,
		Cache:      tt,
		Config:     config,
		Stats:      stats,
		ShouldStop: shouldStop,
	}

	var (
		move         Move
		score, depth int
		found        bool
	)
	if config.AiTimeBudgetMs > 0 {
		budget := time.Duration(config.AiTimeBudgetMs) * time.Millisecond
		grace := time.Duration(config.AiGraceMs) * time.Millisecond
		if grace <= 0 {
			grace = time.Second
		}
		move, score, depth, found = searchWithBudget(state, settings, budget, grace)
	} else {
		depth = effectiveDepth(config, state.Board.MoveCount())
		settings.Depth = depth
		move, score, found = searchRoot(state, settings, depth)
		if found {
			stats.CompletedDepths = depth
		}
	}

	result := EngineResult{
		Move:      move,
		Score:     score,
		Depth:     depth,
		Reason:    "search",
		ElapsedMs: time.Since(start).Milliseconds(),
		Nodes:     stats.Nodes.Load(),
	}
	if !found {
		// No depth completed inside budget+grace: any legal move beats
		// returning nothing.
		result.Move = legal[0]
		result.Score = 0
		result.Depth = 0
		result.Reason = "fallback"
		result.Fallback = true
		log.Warn().
			Int("board_size", state.Board.Size()).
			Int("move_count", state.Board.MoveCount()).
			Msg("search budget exhausted before depth 1, playing fallback move")
	}
	if config.AiLogSearchStats {
		logSearchStats("best_move", stats, settings)
	}
	return result, nil
}

// searchRoot evaluates every root candidate at the given depth on a bounded
// worker pool, one private state clone per task. The strict maximum wins;
// ties keep the earliest candidate in dispatch order. Returns false when the
// stop flag cut the iteration short.
func searchRoot(state GameState, settings SearchSettings, depth int) (Move, int, bool) {
	settings.Depth = depth
	ctx := newSearchContext(settings)
	moves := orderedCandidates(state, ctx, settings.Player, true)
	if len(moves) == 0 {
		return Move{}, 0, false
	}
	workers := settings.Config.AiWorkers
	if workers <= 0 {
		workers = runtime.NumCPU() - 1
	}
	if workers < 1 {
		workers = 1
	}

	scores := make([]int, len(moves))
	finished := make([]bool, len(moves))
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range moves {
		i := i
		move := moves[i]
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Interface("panic", r).
						Int("x", move.X).
						Int("y", move.Y).
						Msg("root worker panicked, scoring candidate as lost")
					scores[i] = -scoreInfinity
					finished[i] = true
				}
			}()
			if timedOut(ctx) {
				return nil
			}
			child := state.Clone()
			if err := advanceState(&child, move, settings.Player); err != nil {
				log.Error().Err(err).Msg("root candidate rejected")
				scores[i] = -scoreInfinity
				finished[i] = true
				return nil
			}
			scores[i] = minimax(child, ctx, depth-1, false, -scoreInfinity, scoreInfinity)
			finished[i] = !timedOut(ctx)
			return nil
		})
	}
	_ = g.Wait()

	best := -1
	for i := range moves {
		if !finished[i] {
			return Move{}, 0, false
		}
		if best == -1 || scores[i] > scores[best] {
			best = i
		}
	}
	return moves[best], scores[best], true
}

// findImmediateWin returns a move that wins the game on the spot, if any
// exists. Candidates are probed by apply/undo on a scratch board.
func findImmediateWin(b Board, player PlayerColor) (Move, bool) {
	return findCompletingMove(b, CellFromPlayer(player))
}

// findImmediateBlock returns a cell where the opponent would win next turn.
// Occupying it denies that win.
func findImmediateBlock(b Board, player PlayerColor) (Move, bool) {
	return findCompletingMove(b, CellFromPlayer(otherPlayer(player)))
}

func findCompletingMove(b Board, cell Cell) (Move, bool) {
	scratch := b.Clone()
	for _, move := range b.LegalMoves() {
		scratch.Set(move.X, move.Y, cell)
		wins := completesWin(scratch, move, cell)
		scratch.Undo(move)
		if wins {
			return move, true
		}
	}
	return Move{}, false
}
