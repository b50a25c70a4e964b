package main

import "testing"

func humanVsHumanSettings(size, winLength int) GameSettings {
	settings := testSettings(size, winLength)
	settings.BlackType = PlayerHuman
	settings.WhiteType = PlayerHuman
	return settings
}

func TestControllerRejectsMoveBeforeStart(t *testing.T) {
	gc := NewGameController(humanVsHumanSettings(5, 3))
	applied, reason := gc.ApplyHumanMove(Move{X: 0, Y: 0})
	if applied {
		t.Fatalf("moves must be rejected before the game starts")
	}
	if reason != "game not running" {
		t.Fatalf("unexpected rejection reason %q", reason)
	}
}

func TestControllerRejectsHumanMoveOnAiTurn(t *testing.T) {
	settings := humanVsHumanSettings(5, 3)
	settings.WhiteType = PlayerAI
	gc := NewGameController(settings)
	gc.StartGame(settings)

	if applied, reason := gc.ApplyHumanMove(Move{X: 1, Y: 1}); !applied {
		t.Fatalf("black human move rejected: %s", reason)
	}
	applied, reason := gc.ApplyHumanMove(Move{X: 2, Y: 2})
	if applied {
		t.Fatalf("white is an AI, human input must be rejected")
	}
	if reason != "not human turn" {
		t.Fatalf("unexpected rejection reason %q", reason)
	}
}

func TestControllerSubmitAndTickAppliesPendingMove(t *testing.T) {
	settings := humanVsHumanSettings(5, 3)
	gc := NewGameController(settings)
	gc.StartGame(settings)

	if gc.Tick() {
		t.Fatalf("tick without a pending move must not play")
	}
	if !gc.SubmitHumanMove(Move{X: 0, Y: 0}) {
		t.Fatalf("submit on a human turn must succeed")
	}
	if !gc.Tick() {
		t.Fatalf("tick must apply the pending move")
	}
	state := gc.State()
	if state.Board.At(0, 0) != CellBlack {
		t.Fatalf("expected a black stone at (0,0), got %v", state.Board.At(0, 0))
	}
	if state.ToMove != PlayerWhite {
		t.Fatalf("turn must pass to white, got %v", state.ToMove)
	}
	entry, ok := gc.LatestHistoryEntry()
	if !ok || !entry.Move.Equals(Move{X: 0, Y: 0}) || entry.Player != PlayerBlack {
		t.Fatalf("history must record the applied move, got %+v ok=%v", entry, ok)
	}
}

func TestControllerApplyRejectsOccupiedCell(t *testing.T) {
	settings := humanVsHumanSettings(5, 3)
	gc := NewGameController(settings)
	gc.StartGame(settings)

	if applied, reason := gc.ApplyHumanMove(Move{X: 2, Y: 2}); !applied {
		t.Fatalf("opening move rejected: %s", reason)
	}
	applied, reason := gc.ApplyHumanMove(Move{X: 2, Y: 2})
	if applied {
		t.Fatalf("occupied cell must be rejected")
	}
	if reason == "" {
		t.Fatalf("rejection must carry a reason")
	}
	if state := gc.State(); state.ToMove != PlayerWhite {
		t.Fatalf("failed move must not flip the turn, got %v", state.ToMove)
	}
}

func TestControllerUpdateSettingsWithReset(t *testing.T) {
	gc := NewGameController(humanVsHumanSettings(5, 3))
	gc.StartGame(gc.Settings())
	if applied, reason := gc.ApplyHumanMove(Move{X: 0, Y: 0}); !applied {
		t.Fatalf("move rejected: %s", reason)
	}

	updated := humanVsHumanSettings(7, 4)
	gc.UpdateSettings(updated, true)
	state := gc.State()
	if state.Board.Size() != 7 || state.Board.WinLength() != 4 {
		t.Fatalf("reset must adopt the new geometry, got %dx%d k=%d",
			state.Board.Size(), state.Board.Size(), state.Board.WinLength())
	}
	if state.Board.MoveCount() != 0 {
		t.Fatalf("reset must clear the board, %d stones left", state.Board.MoveCount())
	}
	if gc.History().Size() != 0 {
		t.Fatalf("reset must clear the history, got %d entries", gc.History().Size())
	}
}
