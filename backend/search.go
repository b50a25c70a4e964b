package main

import (
	"math"
	"sort"
	"time"
)

const scoreInfinity = math.MaxInt32

type SearchSettings struct {
	Depth      int
	TimeoutMs  int
	BoardSize  int
	Player     PlayerColor
	Cache      *TranspositionTable
	Config     Config
	ShouldStop func() bool
	Stats      *SearchStats
}

type searchContext struct {
	settings    SearchSettings
	start       time.Time
	deadline    time.Time
	hasDeadline bool
}

func newSearchContext(settings SearchSettings) *searchContext {
	ctx := &searchContext{settings: settings, start: time.Now()}
	if settings.TimeoutMs > 0 {
		ctx.deadline = ctx.start.Add(time.Duration(settings.TimeoutMs) * time.Millisecond)
		ctx.hasDeadline = true
	}
	return ctx
}

func timedOut(ctx *searchContext) bool {
	if ctx.settings.ShouldStop != nil && ctx.settings.ShouldStop() {
		return true
	}
	if ctx.hasDeadline && time.Now().After(ctx.deadline) {
		return true
	}
	return false
}

// terminalScore folds the remaining depth into the terminal value so a win
// reached with more depth to spare (a faster win) outranks a slower one.
func terminalScore(state GameState, player PlayerColor, depth int) int {
	switch state.Status {
	case StatusBlackWon:
		if player == PlayerBlack {
			return winScore + depth
		}
		return -(winScore + depth)
	case StatusWhiteWon:
		if player == PlayerWhite {
			return winScore + depth
		}
		return -(winScore + depth)
	default:
		return 0
	}
}

// evaluateLeaf clamps the heuristic strictly inside the terminal band so a
// real win always outranks any static judgement.
func evaluateLeaf(state GameState, ctx *searchContext) int {
	score := EvaluateState(state, ctx.settings.Player, ctx.settings.Config.Heuristics)
	if score >= winScore {
		score = winScore - 1
	} else if score <= -winScore {
		score = -(winScore - 1)
	}
	return score
}

// minimax searches to the given remaining depth with alpha-beta pruning and
// the shared transposition table. Only exact values are cached: fail-high
// and fail-low results depend on the window they were searched with and are
// not reusable.
func minimax(state GameState, ctx *searchContext, depth int, maximizing bool, alpha, beta int) int {
	if ctx.settings.Stats != nil {
		ctx.settings.Stats.Nodes.Add(1)
	}
	if state.Status != StatusRunning {
		return terminalScore(state, ctx.settings.Player, depth)
	}
	if timedOut(ctx) {
		return evaluateLeaf(state, ctx)
	}
	key := searchKey{Hash: state.Hash, Depth: depth, Maximizing: maximizing}
	tt := ctx.settings.Cache
	if tt != nil {
		if ctx.settings.Stats != nil {
			ctx.settings.Stats.TTProbes.Add(1)
		}
		if score, ok := tt.Probe(key); ok {
			if ctx.settings.Stats != nil {
				ctx.settings.Stats.TTHits.Add(1)
			}
			return score
		}
	}
	if depth <= 0 {
		score := evaluateLeaf(state, ctx)
		if tt != nil {
			tt.Store(key, score)
			if ctx.settings.Stats != nil {
				ctx.settings.Stats.TTStores.Add(1)
			}
		}
		return score
	}

	currentPlayer := ctx.settings.Player
	if !maximizing {
		currentPlayer = otherPlayer(currentPlayer)
	}
	alphaOrig, betaOrig := alpha, beta
	moves := orderedCandidates(state, ctx, currentPlayer, maximizing)
	best := -scoreInfinity
	if !maximizing {
		best = scoreInfinity
	}
	completed := true
	for _, move := range moves {
		if timedOut(ctx) {
			completed = false
			break
		}
		child := state.Clone()
		if err := advanceState(&child, move, currentPlayer); err != nil {
			continue
		}
		value := minimax(child, ctx, depth-1, !maximizing, alpha, beta)
		if maximizing {
			if value > best {
				best = value
			}
			if best > alpha {
				alpha = best
			}
		} else {
			if value < best {
				best = value
			}
			if best < beta {
				beta = best
			}
		}
		if beta <= alpha {
			if ctx.settings.Stats != nil {
				ctx.settings.Stats.Cutoffs.Add(1)
			}
			break
		}
	}
	if completed && tt != nil && best > alphaOrig && best < betaOrig {
		tt.Store(key, best)
		if ctx.settings.Stats != nil {
			ctx.settings.Stats.TTStores.Add(1)
		}
	}
	return best
}

// orderedCandidates sorts the legal moves by a one-ply heuristic preview,
// best first for the side searching at this node. The preview reuses one
// scratch board via apply/undo instead of cloning per candidate.
func orderedCandidates(state GameState, ctx *searchContext, currentPlayer PlayerColor, maximizing bool) []Move {
	moves := state.Board.LegalMoves()
	if len(moves) < 2 {
		return moves
	}
	scratch := state.Board.Clone()
	cell := CellFromPlayer(currentPlayer)
	weights := ctx.settings.Config.Heuristics
	scores := make([]int, len(moves))
	for i, move := range moves {
		scratch.Set(move.X, move.Y, cell)
		scores[i] = previewScore(scratch, ctx.settings.Player, weights)
		scratch.Undo(move)
	}
	order := make([]int, len(moves))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if maximizing {
			return scores[order[a]] > scores[order[b]]
		}
		return scores[order[a]] < scores[order[b]]
	})
	sorted := make([]Move, len(moves))
	for i, idx := range order {
		sorted[i] = moves[idx]
	}
	return sorted
}
