package main

import "fmt"

type Cell int

const (
	CellEmpty Cell = iota
	CellX
	CellO
)

// Board is a rows x cols grid stored row-major. It has value semantics:
// anyone trying a hypothetical placement must Clone first.
type Board struct {
	rows  int
	cols  int
	cells []Cell
}

func NewBoard(rows, cols int) Board {
	b := Board{}
	b.Reset(rows, cols)
	return b
}

func (b *Board) Reset(rows, cols int) {
	b.rows = rows
	b.cols = cols
	b.cells = make([]Cell, rows*cols)
}

func (b Board) At(x, y int) Cell {
	return b.cells[b.index(x, y)]
}

func (b *Board) Set(x, y int, value Cell) {
	b.cells[b.index(x, y)] = value
}

func (b *Board) Remove(x, y int) {
	b.cells[b.index(x, y)] = CellEmpty
}

func (b Board) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.cols && y < b.rows
}

func (b Board) IsEmpty(x, y int) bool {
	return b.InBounds(x, y) && b.At(x, y) == CellEmpty
}

func (b Board) CountEmpty() int {
	count := 0
	for _, cell := range b.cells {
		if cell == CellEmpty {
			count++
		}
	}
	return count
}

func (b Board) Rows() int {
	return b.rows
}

func (b Board) Cols() int {
	return b.cols
}

// WinLength is the run length required to win, derived from the
// dimensions on every call and never stored separately.
func (b Board) WinLength() int {
	if b.rows < b.cols {
		return b.rows
	}
	return b.cols
}

// WellFormed reports whether the dimensions and backing slice agree.
// Detection fails closed when this is false.
func (b Board) WellFormed() bool {
	return b.rows >= 1 && b.cols >= 1 && len(b.cells) == b.rows*b.cols
}

func (b Board) Clone() Board {
	clone := Board{rows: b.rows, cols: b.cols}
	clone.cells = make([]Cell, len(b.cells))
	copy(clone.cells, b.cells)
	return clone
}

func (b Board) index(x, y int) int {
	return y*b.cols + x
}

func (c Cell) String() string {
	switch c {
	case CellX:
		return "X"
	case CellO:
		return "O"
	default:
		return "Empty"
	}
}

func CellFromPlayer(player Player) Cell {
	if player == PlayerX {
		return CellX
	}
	return CellO
}

func PlayerFromCell(cell Cell) (Player, error) {
	switch cell {
	case CellX:
		return PlayerX, nil
	case CellO:
		return PlayerO, nil
	default:
		return PlayerX, fmt.Errorf("empty cell has no player")
	}
}
