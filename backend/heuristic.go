package main

// evaluatePosition scores a non-terminal board from X's perspective.
// The result stays strictly inside (-winValue, winValue) so a real
// terminal value always dominates a heuristic guess. Only reachable
// when the search is in its depth-limited regime; on small boards the
// engine searches to terminal positions and never calls this.
func evaluatePosition(board Board) float64 {
	winLen := board.WinLength()
	bestX, threatsX := runProfile(board, CellX)
	bestO, threatsO := runProfile(board, CellO)
	score := 4.0 * float64(bestX*bestX-bestO*bestO) / float64(winLen*winLen)
	score += float64(threatsX - threatsO)
	limit := winValue - 1
	if score > limit {
		return limit
	}
	if score < -limit {
		return -limit
	}
	return score
}

// runProfile returns the longest run of target and the number of runs
// one short of winning with an open end. Runs are counted once, from
// their first cell in each direction.
func runProfile(board Board, target Cell) (longest, threats int) {
	winLen := board.WinLength()
	for y := 0; y < board.Rows(); y++ {
		for x := 0; x < board.Cols(); x++ {
			if board.At(x, y) != target {
				continue
			}
			for i := 0; i < 4; i++ {
				dx := scanDirections[i][0]
				dy := scanDirections[i][1]
				if board.InBounds(x-dx, y-dy) && board.At(x-dx, y-dy) == target {
					continue
				}
				length := runLengthFrom(board, x, y, dx, dy, winLen)
				if length > longest {
					longest = length
				}
				if length == winLen-1 && runHasOpenEnd(board, x, y, dx, dy, length) {
					threats++
				}
			}
		}
	}
	return longest, threats
}

func runHasOpenEnd(board Board, x, y, dx, dy, length int) bool {
	if board.IsEmpty(x-dx, y-dy) {
		return true
	}
	return board.IsEmpty(x+length*dx, y+length*dy)
}

// PriorityMove is the fast fixed-priority policy: complete a win, block
// the opponent's win, then prefer the center, the corners, and finally
// everything else in ascending index order. It is a materially weaker
// policy than the exhaustive search and is kept as a separate strategy,
// not merged into it.
func PriorityMove(state GameState, rules Rules) (Move, bool) {
	board := state.Board
	if !board.WellFormed() {
		return Move{}, false
	}
	if Detect(board).Kind != OutcomeInProgress {
		return Move{}, false
	}
	mover := CellFromPlayer(state.ToMove)
	opponent := CellFromPlayer(otherPlayer(state.ToMove))
	if move, ok := findCompletingMove(board, rules, mover); ok {
		return move, true
	}
	if move, ok := findCompletingMove(board, rules, opponent); ok {
		return move, true
	}
	for _, move := range priorityOrder(board.Rows(), board.Cols()) {
		if board.At(move.X, move.Y) == CellEmpty {
			return move, true
		}
	}
	return Move{}, false
}

// findCompletingMove scans empty cells in ascending index order for one
// that finishes a winning run for mark.
func findCompletingMove(board Board, rules Rules, mark Cell) (Move, bool) {
	cols := board.Cols()
	total := board.Rows() * cols
	for idx := 0; idx < total; idx++ {
		move := MoveFromIndex(idx, cols)
		if board.At(move.X, move.Y) != CellEmpty {
			continue
		}
		trial := board.Clone()
		trial.Set(move.X, move.Y, mark)
		if rules.IsWin(trial, move) {
			return move, true
		}
	}
	return Move{}, false
}

func priorityOrder(rows, cols int) []Move {
	order := make([]Move, 0, rows*cols)
	seen := make(map[int]bool, rows*cols)
	push := func(m Move) {
		idx := m.Index(cols)
		if !seen[idx] {
			seen[idx] = true
			order = append(order, m)
		}
	}
	push(Move{X: cols / 2, Y: rows / 2})
	corners := []Move{
		{X: 0, Y: 0},
		{X: cols - 1, Y: 0},
		{X: 0, Y: rows - 1},
		{X: cols - 1, Y: rows - 1},
	}
	for _, corner := range corners {
		push(corner)
	}
	for idx := 0; idx < rows*cols; idx++ {
		move := MoveFromIndex(idx, cols)
		if move.X == 0 || move.Y == 0 || move.X == cols-1 || move.Y == rows-1 {
			push(move)
		}
	}
	for idx := 0; idx < rows*cols; idx++ {
		push(MoveFromIndex(idx, cols))
	}
	return order
}
