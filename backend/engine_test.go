package main

import (
	"errors"
	"testing"
	"time"
)

func TestBestMoveOpensAtCenter(t *testing.T) {
	state := runningState(testSettings(9, 5))
	result, err := BestMove(state, fixedDepthConfig(2))
	if err != nil {
		t.Fatalf("best move failed: %v", err)
	}
	if !result.Move.Equals(Move{X: 4, Y: 4}) {
		t.Fatalf("expected center (4,4) on empty board, got %v", result.Move)
	}
	if result.Reason != "center" {
		t.Fatalf("expected center shortcut, got %q", result.Reason)
	}
	if result.Nodes != 0 {
		t.Fatalf("center opening must not search, visited %d nodes", result.Nodes)
	}
}

func TestBestMoveTakesImmediateWin(t *testing.T) {
	state := runningState(testSettings(5, 3))
	state.Board.Set(1, 1, CellBlack)
	state.Board.Set(2, 1, CellBlack)
	state.Board.Set(1, 3, CellWhite)
	state.Board.Set(2, 3, CellWhite)
	state.recomputeHash()
	result, err := BestMove(state, fixedDepthConfig(2))
	if err != nil {
		t.Fatalf("best move failed: %v", err)
	}
	if result.Reason != "win" {
		t.Fatalf("expected immediate win shortcut, got %q", result.Reason)
	}
	if !result.Move.Equals(Move{X: 0, Y: 1}) && !result.Move.Equals(Move{X: 3, Y: 1}) {
		t.Fatalf("expected a winning completion, got %v", result.Move)
	}
}

func TestBestMoveBlocksImmediateLoss(t *testing.T) {
	state := runningState(testSettings(5, 3))
	// White threatens (3,3)/(0,3) next turn; black has no win of its own.
	state.Board.Set(1, 3, CellWhite)
	state.Board.Set(2, 3, CellWhite)
	state.Board.Set(0, 0, CellBlack)
	state.recomputeHash()
	result, err := BestMove(state, fixedDepthConfig(2))
	if err != nil {
		t.Fatalf("best move failed: %v", err)
	}
	if result.Reason != "block" {
		t.Fatalf("expected block shortcut, got %q", result.Reason)
	}
	if !result.Move.Equals(Move{X: 0, Y: 3}) && !result.Move.Equals(Move{X: 3, Y: 3}) {
		t.Fatalf("expected a blocking cell, got %v", result.Move)
	}
}

func TestBestMoveErrorsOnTerminalBoard(t *testing.T) {
	state := runningState(testSettings(3, 3))
	state.Board.Set(0, 0, CellBlack)
	state.Board.Set(1, 0, CellBlack)
	state.Board.Set(2, 0, CellBlack)
	if _, err := BestMove(state, fixedDepthConfig(2)); !errors.Is(err, ErrNoLegalMove) {
		t.Fatalf("expected ErrNoLegalMove on terminal board, got %v", err)
	}
}

func TestPerfectSelfPlayOnSmallBoardDraws(t *testing.T) {
	if testing.Short() {
		t.Skip("full-depth self-play is slow")
	}
	cfg := fixedDepthConfig(9)
	state := runningState(testSettings(3, 3))
	for state.Status == StatusRunning {
		result, err := BestMove(state, cfg)
		if err != nil {
			t.Fatalf("best move failed mid-game: %v", err)
		}
		if err := advanceState(&state, result.Move, state.ToMove); err != nil {
			t.Fatalf("engine produced illegal move %v: %v", result.Move, err)
		}
	}
	if state.Status != StatusDraw {
		t.Fatalf("perfect 3x3 self-play must draw, ended %v", state.Status)
	}
}

func TestAnytimeSearchReturnsWithinBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AiTimeBudgetMs = 200
	cfg.AiGraceMs = 200
	cfg.AiWorkers = 2
	state := runningState(testSettings(11, 5))
	// Enough stones to bypass the shortcuts and force a real search.
	state.Board.Set(5, 5, CellBlack)
	state.Board.Set(4, 4, CellWhite)
	state.Board.Set(5, 4, CellBlack)
	state.Board.Set(6, 6, CellWhite)
	state.recomputeHash()

	start := time.Now()
	result, err := BestMove(state, cfg)
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("best move failed: %v", err)
	}
	budget := time.Duration(cfg.AiTimeBudgetMs+cfg.AiGraceMs) * time.Millisecond
	if elapsed > budget+500*time.Millisecond {
		t.Fatalf("search took %v, beyond budget+grace %v", elapsed, budget)
	}
	if !result.Move.IsValid(11) {
		t.Fatalf("expected a legal move, got %v", result.Move)
	}
	if !state.Board.IsEmpty(result.Move.X, result.Move.Y) {
		t.Fatalf("engine picked an occupied cell %v", result.Move)
	}
}

func TestAnytimeSearchKeepsLastCompletedDepth(t *testing.T) {
	cfg := fixedDepthConfig(2)
	// Small position so the deepening loop drains well inside the budget.
	state := runningState(testSettings(3, 3))
	for _, m := range []Move{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}} {
		if err := advanceState(&state, m, state.ToMove); err != nil {
			t.Fatalf("setup move rejected: %v", err)
		}
	}
	tt := SharedSearchCache(cfg)
	tt.Clear()
	stats := &SearchStats{Start: time.Now()}
	settings := SearchSettings{
		BoardSize: state.Board.Size(),
		Player:    state.ToMove,
		Cache:     tt,
		Config:    cfg,
		Stats:     stats,
	}
	move, _, depth, found := searchWithBudget(state, settings, 30*time.Second, time.Second)
	if !found {
		t.Fatalf("expected a completed depth on a tiny position")
	}
	if depth < 1 || depth > state.Board.CountEmpty() {
		t.Fatalf("completed depth %d out of range", depth)
	}
	if stats.CompletedDepths != depth {
		t.Fatalf("stats depth %d disagrees with result depth %d", stats.CompletedDepths, depth)
	}
	if len(stats.DepthDurations) != depth {
		t.Fatalf("expected one duration per completed depth, got %d for depth %d", len(stats.DepthDurations), depth)
	}
	if !state.Board.IsEmpty(move.X, move.Y) {
		t.Fatalf("scheduler picked an occupied cell %v", move)
	}
}
