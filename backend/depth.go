package main

import (
	"sync"
	"sync/atomic"
	"time"
)

type DepthMode int

const (
	DepthFixed DepthMode = iota
	DepthDynamic
	DepthManual
)

func depthModeFromString(mode string) DepthMode {
	switch mode {
	case "dynamic":
		return DepthDynamic
	case "manual":
		return DepthManual
	default:
		return DepthFixed
	}
}

// effectiveDepth resolves the configured depth policy against the current
// move count. The policy is read once per root computation; config changes
// mid-search do not leak in.
func effectiveDepth(config Config, moveCount int) int {
	depth := config.AiDepth
	if depth < 1 {
		depth = 1
	}
	switch depthModeFromString(config.AiDepthMode) {
	case DepthManual:
		if config.AiManualDepth > 0 {
			return config.AiManualDepth
		}
		return depth
	case DepthDynamic:
		if moveCount < config.AiDynamicEarlyMoves {
			if config.AiDynamicShallowDepth > 0 {
				return config.AiDynamicShallowDepth
			}
			return depth
		}
		if moveCount <= config.AiDynamicLateMoves {
			return depth
		}
		if config.AiDynamicDeepDepth > depth {
			return config.AiDynamicDeepDepth
		}
		return depth
	default:
		return depth
	}
}

// searchWithBudget runs iterative deepening in a background goroutine and
// keeps only the move of the last fully completed depth. When the budget
// elapses the stop flag is raised and the caller waits one grace period for
// the running iteration to notice; after that the best result so far is
// taken as-is.
func searchWithBudget(state GameState, settings SearchSettings, budget, grace time.Duration) (Move, int, int, bool) {
	var stop atomic.Bool
	parentStop := settings.ShouldStop
	settings.ShouldStop = func() bool {
		if stop.Load() {
			return true
		}
		return parentStop != nil && parentStop()
	}

	var mu sync.Mutex
	var bestMove Move
	var bestScore int
	bestDepth := 0
	found := false

	maxDepth := state.Board.CountEmpty()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for depth := 1; depth <= maxDepth; depth++ {
			iterStart := time.Now()
			move, score, completed := searchRoot(state, settings, depth)
			if !completed {
				return
			}
			mu.Lock()
			bestMove = move
			bestScore = score
			bestDepth = depth
			found = true
			mu.Unlock()
			if settings.Stats != nil {
				settings.Stats.DepthDurations = append(settings.Stats.DepthDurations, time.Since(iterStart))
				settings.Stats.CompletedDepths = depth
			}
			// A proven forced outcome cannot improve with more depth.
			if score >= winScore || score <= -winScore {
				return
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(budget):
		stop.Store(true)
		select {
		case <-done:
		case <-time.After(grace):
		}
	}

	mu.Lock()
	defer mu.Unlock()
	return bestMove, bestScore, bestDepth, found
}
