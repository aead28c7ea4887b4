package main

import "fmt"

type OutcomeKind int

const (
	OutcomeInProgress OutcomeKind = iota
	OutcomeWin
	OutcomeDraw
)

// Outcome is the decided/undecided status of a board. Winner is only
// meaningful when Kind == OutcomeWin.
type Outcome struct {
	Kind   OutcomeKind
	Winner Cell
}

var scanDirections = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// Detect classifies a board as in-progress, won, or drawn. It is a pure
// function and fails closed: a board whose dimensions disagree with its
// backing storage reports in-progress instead of indexing out of bounds,
// so it stays safe to call from a UI that may be mid-resize.
//
// Scan order is rows top to bottom, columns left to right, directions
// right/down/down-right/up-right. A well-formed game has at most one
// winner, so the order only affects how soon the scan stops.
func Detect(board Board) Outcome {
	if !board.WellFormed() {
		return Outcome{Kind: OutcomeInProgress}
	}
	winLen := board.WinLength()
	hasEmpty := false
	for y := 0; y < board.Rows(); y++ {
		for x := 0; x < board.Cols(); x++ {
			cell := board.At(x, y)
			if cell == CellEmpty {
				hasEmpty = true
				continue
			}
			for i := 0; i < 4; i++ {
				if runLengthFrom(board, x, y, scanDirections[i][0], scanDirections[i][1], winLen) >= winLen {
					return Outcome{Kind: OutcomeWin, Winner: cell}
				}
			}
		}
	}
	if hasEmpty {
		return Outcome{Kind: OutcomeInProgress}
	}
	return Outcome{Kind: OutcomeDraw}
}

// runLengthFrom counts consecutive cells equal to (x,y) starting there and
// walking (dx,dy), stopping early on mismatch, out-of-bounds, or once the
// run is long enough to win.
func runLengthFrom(board Board, x, y, dx, dy, winLen int) int {
	target := board.At(x, y)
	count := 1
	cx := x + dx
	cy := y + dy
	for count < winLen && board.InBounds(cx, cy) && board.At(cx, cy) == target {
		count++
		cx += dx
		cy += dy
	}
	return count
}

type Rules struct {
	settings GameSettings
}

func NewRules(settings GameSettings) Rules {
	return Rules{settings: settings}
}

func (r Rules) IsLegal(state GameState, move Move, player Player) (bool, string) {
	if !move.IsValid(r.settings.Rows, r.settings.Cols) {
		return false, "out of bounds"
	}
	if player != state.ToMove {
		return false, "not this player's turn"
	}
	if !state.Board.IsEmpty(move.X, move.Y) {
		return false, "occupied"
	}
	return true, ""
}

func (r Rules) IsLegalDefault(state GameState, move Move) (bool, string) {
	return r.IsLegal(state, move, state.ToMove)
}

// IsWin checks only lines through lastMove. Equivalent to Detect on the
// winner question when lastMove is the most recent placement, but O(K)
// per direction instead of a full board scan.
func (r Rules) IsWin(board Board, lastMove Move) bool {
	if !lastMove.IsValid(board.Rows(), board.Cols()) {
		return false
	}
	if board.At(lastMove.X, lastMove.Y) == CellEmpty {
		return false
	}
	winLen := board.WinLength()
	for i := 0; i < 4; i++ {
		dx := scanDirections[i][0]
		dy := scanDirections[i][1]
		count := 1
		count += r.countDirection(board, lastMove, dx, dy)
		count += r.countDirection(board, lastMove, -dx, -dy)
		if count >= winLen {
			return true
		}
	}
	return false
}

func (r Rules) IsDraw(board Board) bool {
	return board.CountEmpty() == 0
}

// FindWinningLine returns the full run through lastMove when it wins.
func (r Rules) FindWinningLine(board Board, lastMove Move) ([]Move, bool) {
	if !lastMove.IsValid(board.Rows(), board.Cols()) {
		return nil, false
	}
	if board.At(lastMove.X, lastMove.Y) == CellEmpty {
		return nil, false
	}
	winLen := board.WinLength()
	for i := 0; i < 4; i++ {
		line := r.collectLine(board, lastMove, scanDirections[i][0], scanDirections[i][1])
		if len(line) >= winLen {
			return line, true
		}
	}
	return nil, false
}

func (r Rules) WinLength() int {
	if r.settings.Rows < r.settings.Cols {
		return r.settings.Rows
	}
	return r.settings.Cols
}

func (r Rules) countDirection(board Board, start Move, dx, dy int) int {
	target := board.At(start.X, start.Y)
	x := start.X + dx
	y := start.Y + dy
	count := 0
	for board.InBounds(x, y) && board.At(x, y) == target {
		count++
		x += dx
		y += dy
	}
	return count
}

func (r Rules) collectLine(board Board, start Move, dx, dy int) []Move {
	line := []Move{}
	target := board.At(start.X, start.Y)
	x := start.X
	y := start.Y
	for board.InBounds(x-dx, y-dy) && board.At(x-dx, y-dy) == target {
		x -= dx
		y -= dy
	}
	for board.InBounds(x, y) && board.At(x, y) == target {
		line = append(line, Move{X: x, Y: y})
		x += dx
		y += dy
	}
	return line
}

func (r Rules) String() string {
	return fmt.Sprintf("Rules{rows=%d, cols=%d, win=%d}", r.settings.Rows, r.settings.Cols, r.WinLength())
}
