package main

type PlayerColor int

type GameStatus int

const (
	PlayerBlack PlayerColor = iota
	PlayerWhite
)

const (
	StatusNotStarted GameStatus = iota
	StatusRunning
	StatusBlackWon
	StatusWhiteWon
	StatusDraw
)

type GameState struct {
	Board       Board
	ToMove      PlayerColor
	Status      GameStatus
	HasLastMove bool
	LastMove    Move
	Hash        uint64
	LastMessage string
	WinningLine []Move
}

func DefaultGameState(settings GameSettings) GameState {
	state := GameState{}
	state.Reset(settings)
	return state
}

func (s *GameState) Reset(settings GameSettings) {
	s.Board = NewBoard(settings.BoardSize, settings.WinLength)
	if settings.BlackStarts {
		s.ToMove = PlayerBlack
	} else {
		s.ToMove = PlayerWhite
	}
	s.Status = StatusNotStarted
	s.HasLastMove = false
	s.LastMove = Move{X: -1, Y: -1}
	s.Hash = 0
	s.LastMessage = ""
	s.WinningLine = nil
	s.recomputeHash()
}

func (s GameState) Clone() GameState {
	clone := s
	clone.Board = s.Board.Clone()
	clone.WinningLine = append([]Move(nil), s.WinningLine...)
	return clone
}

func (s *GameState) recomputeHash() {
	s.Hash = ComputeHash(*s)
}

func otherPlayer(player PlayerColor) PlayerColor {
	if player == PlayerBlack {
		return PlayerWhite
	}
	return PlayerBlack
}

func winStatusFor(player PlayerColor) GameStatus {
	if player == PlayerBlack {
		return StatusBlackWon
	}
	return StatusWhiteWon
}

// advanceState places the stone, refreshes the status and flips the side to
// move, keeping the zobrist hash in sync incrementally. The move must target
// an empty in-bounds cell.
func advanceState(state *GameState, move Move, player PlayerColor) error {
	prevToMove := state.ToMove
	if err := state.Board.Apply(move, CellFromPlayer(player)); err != nil {
		return err
	}
	state.LastMove = move
	state.HasLastMove = true
	if winner, ok := state.Board.Winner(); ok {
		state.Status = winStatusFor(winner)
		if line, lineOK := state.Board.WinningLine(); lineOK {
			state.WinningLine = line
		}
	} else if state.Board.IsFull() {
		state.Status = StatusDraw
	} else {
		state.ToMove = otherPlayer(player)
	}
	UpdateHashAfterMove(state, move, player, prevToMove)
	return nil
}
