package main

import (
	"errors"
	"fmt"
)

type Cell int

const (
	CellEmpty Cell = iota
	CellBlack
	CellWhite
)

var ErrIllegalMove = errors.New("illegal move")

// winDirections covers the four scan axes; the reverse directions produce
// the same windows and are not listed.
var winDirections = [4][2]int{
	{1, 0},  // horizontal
	{0, 1},  // vertical
	{1, 1},  // diagonal
	{1, -1}, // anti-diagonal
}

type Board struct {
	size      int
	winLength int
	cells     []Cell
	stones    int
}

func NewBoard(boardSize, winLength int) Board {
	b := Board{}
	b.Reset(boardSize, winLength)
	return b
}

func (b *Board) Reset(boardSize, winLength int) {
	if winLength < 1 {
		winLength = 1
	}
	if winLength > boardSize {
		winLength = boardSize
	}
	b.size = boardSize
	b.winLength = winLength
	b.cells = make([]Cell, boardSize*boardSize)
	b.stones = 0
}

func (b Board) At(x, y int) Cell {
	return b.cells[b.index(x, y)]
}

// Set maintains the stone counter so MoveCount stays equal to the number of
// occupied cells no matter how the cell is written.
func (b *Board) Set(x, y int, value Cell) {
	idx := b.index(x, y)
	old := b.cells[idx]
	if old == CellEmpty && value != CellEmpty {
		b.stones++
	} else if old != CellEmpty && value == CellEmpty {
		b.stones--
	}
	b.cells[idx] = value
}

// Apply places a stone after validating the target cell. The board is left
// unchanged when an error is returned.
func (b *Board) Apply(move Move, value Cell) error {
	if value == CellEmpty {
		return fmt.Errorf("%w: cannot place an empty cell at (%d,%d)", ErrIllegalMove, move.X, move.Y)
	}
	if !b.InBounds(move.X, move.Y) {
		return fmt.Errorf("%w: (%d,%d) out of bounds for size %d", ErrIllegalMove, move.X, move.Y, b.size)
	}
	if b.At(move.X, move.Y) != CellEmpty {
		return fmt.Errorf("%w: (%d,%d) already occupied", ErrIllegalMove, move.X, move.Y)
	}
	b.Set(move.X, move.Y, value)
	return nil
}

// Undo reverts a previously applied move by clearing its cell.
func (b *Board) Undo(move Move) {
	b.Set(move.X, move.Y, CellEmpty)
}

func (b Board) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.size && y < b.size
}

func (b Board) IsEmpty(x, y int) bool {
	return b.InBounds(x, y) && b.At(x, y) == CellEmpty
}

// LegalMoves lists every empty cell in row-major order.
func (b Board) LegalMoves() []Move {
	moves := make([]Move, 0, len(b.cells)-b.stones)
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			if b.At(x, y) == CellEmpty {
				moves = append(moves, Move{X: x, Y: y})
			}
		}
	}
	return moves
}

// Winner rescans the whole board: every window of winLength cells along the
// four axes. Windows that would run off the board are excluded, not clamped.
func (b Board) Winner() (PlayerColor, bool) {
	if line, ok := b.winningWindow(); ok {
		player, _ := PlayerFromCell(b.At(line[0].X, line[0].Y))
		return player, true
	}
	return PlayerBlack, false
}

// WinningLine returns the cells of one winning window, for display purposes.
func (b Board) WinningLine() ([]Move, bool) {
	return b.winningWindow()
}

func (b Board) winningWindow() ([]Move, bool) {
	k := b.winLength
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			first := b.At(x, y)
			if first == CellEmpty {
				continue
			}
			for _, dir := range winDirections {
				endX := x + (k-1)*dir[0]
				endY := y + (k-1)*dir[1]
				if !b.InBounds(endX, endY) {
					continue
				}
				uniform := true
				for i := 1; i < k; i++ {
					if b.At(x+i*dir[0], y+i*dir[1]) != first {
						uniform = false
						break
					}
				}
				if !uniform {
					continue
				}
				line := make([]Move, 0, k)
				for i := 0; i < k; i++ {
					line = append(line, Move{X: x + i*dir[0], Y: y + i*dir[1]})
				}
				return line, true
			}
		}
	}
	return nil, false
}

func (b Board) IsFull() bool {
	return b.stones == len(b.cells)
}

func (b Board) IsTerminal() bool {
	if _, ok := b.Winner(); ok {
		return true
	}
	return b.IsFull()
}

func (b Board) MoveCount() int {
	return b.stones
}

func (b Board) CountEmpty() int {
	return len(b.cells) - b.stones
}

func (b Board) Size() int {
	return b.size
}

func (b Board) WinLength() int {
	return b.winLength
}

func (b Board) Clone() Board {
	clone := Board{size: b.size, winLength: b.winLength, stones: b.stones}
	clone.cells = make([]Cell, len(b.cells))
	copy(clone.cells, b.cells)
	return clone
}

func (b Board) index(x, y int) int {
	return y*b.size + x
}

func (c Cell) String() string {
	switch c {
	case CellBlack:
		return "Black"
	case CellWhite:
		return "White"
	default:
		return "Empty"
	}
}

func CellFromPlayer(player PlayerColor) Cell {
	if player == PlayerBlack {
		return CellBlack
	}
	return CellWhite
}

func PlayerFromCell(cell Cell) (PlayerColor, error) {
	switch cell {
	case CellBlack:
		return PlayerBlack, nil
	case CellWhite:
		return PlayerWhite, nil
	default:
		return PlayerBlack, fmt.Errorf("empty cell has no player")
	}
}
