package main

import (
	"errors"
	"math/rand"
	"testing"
)

func testSettings(size, winLength int) GameSettings {
	settings := DefaultGameSettings()
	settings.BoardSize = size
	settings.WinLength = winLength
	return settings
}

func TestApplyRejectsOccupiedAndOutOfBounds(t *testing.T) {
	b := NewBoard(5, 3)
	if err := b.Apply(Move{X: 2, Y: 2}, CellBlack); err != nil {
		t.Fatalf("unexpected error on legal move: %v", err)
	}
	if err := b.Apply(Move{X: 2, Y: 2}, CellWhite); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove on occupied cell, got %v", err)
	}
	if b.At(2, 2) != CellBlack {
		t.Fatalf("failed apply must leave the board unchanged")
	}
	if err := b.Apply(Move{X: 5, Y: 0}, CellBlack); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove out of bounds, got %v", err)
	}
	if b.MoveCount() != 1 {
		t.Fatalf("expected move count 1 after one stone, got %d", b.MoveCount())
	}
}

func TestUndoRestoresEmptyCellAndCounter(t *testing.T) {
	b := NewBoard(4, 3)
	move := Move{X: 1, Y: 3}
	if err := b.Apply(move, CellWhite); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	b.Undo(move)
	if b.At(1, 3) != CellEmpty {
		t.Fatalf("expected empty cell after undo")
	}
	if b.MoveCount() != 0 {
		t.Fatalf("expected move count 0 after undo, got %d", b.MoveCount())
	}
}

func TestLegalMovesRowMajorOrder(t *testing.T) {
	b := NewBoard(3, 3)
	b.Set(1, 0, CellBlack)
	moves := b.LegalMoves()
	if len(moves) != 8 {
		t.Fatalf("expected 8 legal moves, got %d", len(moves))
	}
	if !moves[0].Equals(Move{X: 0, Y: 0}) || !moves[1].Equals(Move{X: 2, Y: 0}) {
		t.Fatalf("expected row-major order skipping occupied cell, got %v %v", moves[0], moves[1])
	}
	last := moves[len(moves)-1]
	if !last.Equals(Move{X: 2, Y: 2}) {
		t.Fatalf("expected last legal move (2,2), got %v", last)
	}
}

func TestWinnerDetectsAllAxes(t *testing.T) {
	cases := []struct {
		name  string
		cells [][2]int
	}{
		{"horizontal", [][2]int{{1, 2}, {2, 2}, {3, 2}}},
		{"vertical", [][2]int{{4, 0}, {4, 1}, {4, 2}}},
		{"diagonal", [][2]int{{0, 0}, {1, 1}, {2, 2}}},
		{"anti-diagonal", [][2]int{{2, 2}, {3, 1}, {4, 0}}},
	}
	for _, tc := range cases {
		b := NewBoard(5, 3)
		for _, cell := range tc.cells {
			b.Set(cell[0], cell[1], CellWhite)
		}
		winner, ok := b.Winner()
		if !ok {
			t.Fatalf("%s: expected a winner", tc.name)
		}
		if winner != PlayerWhite {
			t.Fatalf("%s: expected white winner, got %v", tc.name, winner)
		}
	}
}

func TestWinnerExcludesOffBoardWindows(t *testing.T) {
	// Three stones hugging the corner along the anti-diagonal axis would
	// only line up if windows wrapped or clamped at the edge.
	b := NewBoard(3, 3)
	b.Set(0, 1, CellBlack)
	b.Set(1, 0, CellBlack)
	b.Set(0, 0, CellBlack)
	if _, ok := b.Winner(); ok {
		t.Fatalf("corner cluster must not count as a win")
	}
	// A full run that starts in bounds but would need a fourth cell off
	// the board for k=4.
	b4 := NewBoard(4, 4)
	b4.Set(1, 0, CellBlack)
	b4.Set(2, 1, CellBlack)
	b4.Set(3, 2, CellBlack)
	if _, ok := b4.Winner(); ok {
		t.Fatalf("three stones must not win with win length 4")
	}
}

func TestWinLengthOneAndFullRowWin(t *testing.T) {
	b := NewBoard(3, 1)
	b.Set(2, 2, CellWhite)
	winner, ok := b.Winner()
	if !ok || winner != PlayerWhite {
		t.Fatalf("single stone must win with win length 1")
	}

	b3 := NewBoard(3, 3)
	b3.Set(0, 1, CellBlack)
	b3.Set(1, 1, CellBlack)
	b3.Set(2, 1, CellBlack)
	winner, ok = b3.Winner()
	if !ok || winner != PlayerBlack {
		t.Fatalf("full row must win when win length equals board size")
	}
}

func TestRandomGamesHaveAtMostOneWinner(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for game := 0; game < 50; game++ {
		state := DefaultGameState(testSettings(5, 4))
		state.Status = StatusRunning
		stones := 0
		for state.Status == StatusRunning {
			moves := state.Board.LegalMoves()
			if len(moves) == 0 {
				t.Fatalf("ran out of moves while still running")
			}
			mover := state.ToMove
			move := moves[rng.Intn(len(moves))]
			if err := advanceState(&state, move, mover); err != nil {
				t.Fatalf("legal move rejected: %v", err)
			}
			stones++
			if state.Board.MoveCount() != stones {
				t.Fatalf("move counter drifted: %d stones, counter %d", stones, state.Board.MoveCount())
			}
			if winner, ok := state.Board.Winner(); ok {
				if winner != mover {
					t.Fatalf("winner %v is not the player who just moved (%v)", winner, mover)
				}
				if state.Status != winStatusFor(mover) {
					t.Fatalf("status %v does not match winner %v", state.Status, mover)
				}
			}
		}
	}
}

func TestWinnerTransposeSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for game := 0; game < 20; game++ {
		state := DefaultGameState(testSettings(5, 3))
		state.Status = StatusRunning
		for state.Status == StatusRunning {
			moves := state.Board.LegalMoves()
			if err := advanceState(&state, moves[rng.Intn(len(moves))], state.ToMove); err != nil {
				t.Fatalf("legal move rejected: %v", err)
			}
		}
		transposed := NewBoard(5, 3)
		for y := 0; y < 5; y++ {
			for x := 0; x < 5; x++ {
				transposed.Set(y, x, state.Board.At(x, y))
			}
		}
		winner, ok := state.Board.Winner()
		tWinner, tOK := transposed.Winner()
		if ok != tOK || (ok && winner != tWinner) {
			t.Fatalf("transposed board disagrees on the winner: %v/%v vs %v/%v", winner, ok, tWinner, tOK)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewBoard(4, 3)
	b.Set(1, 1, CellBlack)
	clone := b.Clone()
	clone.Set(2, 2, CellWhite)
	if b.At(2, 2) != CellEmpty {
		t.Fatalf("mutating a clone must not touch the original")
	}
	if clone.MoveCount() != 2 || b.MoveCount() != 1 {
		t.Fatalf("clone counters diverged wrong: clone=%d orig=%d", clone.MoveCount(), b.MoveCount())
	}
}
