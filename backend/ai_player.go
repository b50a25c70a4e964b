package main

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// AIPlayer runs the engine on a background worker so the game loop never
// blocks on a search. StopThinking raises the stop signal that the search
// checks at node boundaries.
type AIPlayer struct {
	moveMutex  sync.Mutex
	workerDone chan struct{}
	thinking   atomic.Bool
	moveReady  atomic.Bool
	stopSignal atomic.Bool
	readyMove  Move
}

func NewAIPlayer() *AIPlayer {
	return &AIPlayer{}
}

func (a *AIPlayer) IsHuman() bool {
	return false
}

// ChooseMove computes a move synchronously. Used by tests and the match
// service; the game loop prefers StartThinking.
func (a *AIPlayer) ChooseMove(state GameState) Move {
	config := GetConfig()
	result, err := BestMove(state, config)
	if err != nil {
		log.Error().Err(err).Msg("ai choose move failed")
		return Move{X: -1, Y: -1}
	}
	move := result.Move
	move.Depth = result.Depth
	return move
}

func (a *AIPlayer) StartThinking(state GameState) {
	if a.thinking.Load() {
		return
	}
	if a.workerDone != nil {
		<-a.workerDone
	}
	a.thinking.Store(true)
	a.moveReady.Store(false)
	a.stopSignal.Store(false)

	stateCopy := state.Clone()
	done := make(chan struct{})
	a.workerDone = done
	config := GetConfig()
	go func() {
		defer close(done)
		result, err := bestMoveWithStop(stateCopy, config, a.stopSignal.Load)
		if a.stopSignal.Load() {
			a.moveReady.Store(false)
			a.thinking.Store(false)
			return
		}
		a.moveMutex.Lock()
		if err != nil {
			log.Error().Err(err).Msg("ai background search failed")
			a.readyMove = Move{X: -1, Y: -1}
		} else {
			move := result.Move
			move.Depth = result.Depth
			a.readyMove = move
		}
		a.moveMutex.Unlock()
		a.moveReady.Store(true)
		a.thinking.Store(false)
	}()
}

func (a *AIPlayer) StopThinking() {
	a.stopSignal.Store(true)
}

func (a *AIPlayer) IsThinking() bool {
	return a.thinking.Load()
}

func (a *AIPlayer) HasMoveReady() bool {
	return a.moveReady.Load()
}

func (a *AIPlayer) TakeMove() Move {
	a.moveMutex.Lock()
	defer a.moveMutex.Unlock()
	a.moveReady.Store(false)
	return a.readyMove
}

func (a *AIPlayer) CacheSize() int {
	return TranspositionSize()
}

func (a *AIPlayer) ResetForConfigChange() {
	a.stopSignal.Store(true)
	if a.workerDone != nil {
		select {
		case <-a.workerDone:
		case <-time.After(50 * time.Millisecond):
		}
	}
	a.moveReady.Store(false)
}
