package main

const winScore = 100000

// EvaluateState scores a position from the given player's perspective.
// Terminal positions collapse to +/-winScore (0 for a draw); everything else
// is the window heuristic of the player minus the opponent's, plus the fork
// terms. The fork weights are intentionally asymmetric: an opponent fork is
// worth three times an own fork.
func EvaluateState(state GameState, player PlayerColor, weights HeuristicConfig) int {
	switch state.Status {
	case StatusDraw:
		return 0
	case StatusBlackWon:
		if player == PlayerBlack {
			return winScore
		}
		return -winScore
	case StatusWhiteWon:
		if player == PlayerWhite {
			return winScore
		}
		return -winScore
	}
	opponent := otherPlayer(player)
	score := heuristicScore(state.Board, player, weights) - heuristicScore(state.Board, opponent, weights)
	score += countForkMoves(state.Board, player, weights.ForkThreshold) * weights.ForkBonus
	score -= countForkMoves(state.Board, opponent, weights.ForkThreshold) * weights.ForkPenalty
	return score
}

// previewScore is the cheap one-ply ordering heuristic: windows and
// positional bias only, no fork scan.
func previewScore(b Board, player PlayerColor, weights HeuristicConfig) int {
	return heuristicScore(b, player, weights) - heuristicScore(b, otherPlayer(player), weights)
}

// heuristicScore sums every k-window on the board plus the Manhattan
// positional bias of the player's stones.
func heuristicScore(b Board, player PlayerColor, weights HeuristicConfig) int {
	size := b.Size()
	k := b.WinLength()
	total := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			for _, dir := range winDirections {
				endX := x + (k-1)*dir[0]
				endY := y + (k-1)*dir[1]
				if !b.InBounds(endX, endY) {
					continue
				}
				total += windowScore(b, x, y, dir[0], dir[1], player, weights)
			}
		}
	}
	return total + positionalBias(b, player)
}

// windowScore rates one k-window. Mixed windows are dead and score zero.
// Player-only windows grow by powers of ten with the stone count, jumping to
// winScore/10 one stone short of a win. Opponent-only windows mirror that
// with a sharper penalty curve so blocking outranks extending.
func windowScore(b Board, x, y, dx, dy int, player PlayerColor, weights HeuristicConfig) int {
	k := b.WinLength()
	ownCell := CellFromPlayer(player)
	own, opp, empty := 0, 0, 0
	for i := 0; i < k; i++ {
		switch b.At(x+i*dx, y+i*dy) {
		case ownCell:
			own++
		case CellEmpty:
			empty++
		default:
			opp++
		}
	}
	if own > 0 && opp > 0 {
		return 0
	}
	if own == 0 && opp == 0 {
		return 0
	}
	var base int
	if opp == 0 {
		if own == k-1 && empty >= 1 {
			base = winScore / 10
		} else {
			base = pow10(own)
		}
	} else {
		switch {
		case opp == k-1 && empty >= 1:
			base = -(winScore / 5)
		case opp >= k-2 && opp+empty >= k:
			base = -pow10(opp + 1)
		default:
			base = -pow10(opp)
		}
	}
	openEnds := 0
	if b.IsEmpty(x-dx, y-dy) {
		openEnds++
	}
	if b.IsEmpty(x+k*dx, y+k*dy) {
		openEnds++
	}
	// Truncating cast: a half-open window multiplies by 1.5 and rounds
	// toward zero.
	return int(float64(base) * (1 + weights.OpenEndScale*float64(openEnds)))
}

// positionalBias rewards stones near the board center: each stone adds
// size minus its Manhattan distance to the center cell.
func positionalBias(b Board, player PlayerColor) int {
	size := b.Size()
	center := size / 2
	ownCell := CellFromPlayer(player)
	bias := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if b.At(x, y) != ownCell {
				continue
			}
			dist := absInt(x-center) + absInt(y-center)
			bias += size - dist
		}
	}
	return bias
}

// countForkMoves counts legal moves that would give the player at least
// threshold distinct immediate winning follow-ups.
func countForkMoves(b Board, player PlayerColor, threshold int) int {
	if threshold <= 0 {
		threshold = 2
	}
	cell := CellFromPlayer(player)
	scratch := b.Clone()
	forks := 0
	for _, move := range b.LegalMoves() {
		scratch.Set(move.X, move.Y, cell)
		wins := 0
		for _, followUp := range scratch.LegalMoves() {
			scratch.Set(followUp.X, followUp.Y, cell)
			if completesWin(scratch, followUp, cell) {
				wins++
			}
			scratch.Undo(followUp)
			if wins >= threshold {
				break
			}
		}
		if wins >= threshold {
			forks++
		}
		scratch.Undo(move)
	}
	return forks
}

// completesWin reports whether the just-placed stone sits on a full
// win-length run. Only lines through the move are checked, so it is much
// cheaper than a full Winner scan but agrees with it.
func completesWin(b Board, move Move, cell Cell) bool {
	k := b.WinLength()
	for _, dir := range winDirections {
		run := 1 + countRun(b, move, cell, dir[0], dir[1]) + countRun(b, move, cell, -dir[0], -dir[1])
		if run >= k {
			return true
		}
	}
	return false
}

func countRun(b Board, move Move, cell Cell, dx, dy int) int {
	count := 0
	x, y := move.X+dx, move.Y+dy
	for b.InBounds(x, y) && b.At(x, y) == cell {
		count++
		x += dx
		y += dy
	}
	return count
}

func pow10(exp int) int {
	result := 1
	for i := 0; i < exp; i++ {
		result *= 10
	}
	return result
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
