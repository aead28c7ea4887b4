package main

import "sync"

type ZobristTable struct {
	rows  int
	cols  int
	cells []uint64
	side  uint64
}

type zobristDims struct {
	rows int
	cols int
}

type zobristStore struct {
	mu     sync.Mutex
	tables map[zobristDims]*ZobristTable
}

var zobristTables = &zobristStore{tables: make(map[zobristDims]*ZobristTable)}

func GetZobrist(rows, cols int) *ZobristTable {
	zobristTables.mu.Lock()
	defer zobristTables.mu.Unlock()
	dims := zobristDims{rows: rows, cols: cols}
	if table, ok := zobristTables.tables[dims]; ok {
		return table
	}
	rng := splitmix64{state: uint64(0x9e3779b97f4a7c15) ^ uint64(rows)<<32 ^ uint64(cols)}
	table := &ZobristTable{rows: rows, cols: cols, cells: make([]uint64, rows*cols*2)}
	for i := range table.cells {
		table.cells[i] = rng.next()
	}
	table.side = rng.next()
	zobristTables.tables[dims] = table
	return table
}

func (z *ZobristTable) mark(x, y int, player Player) uint64 {
	idx := (y*z.cols + x) * 2
	if player == PlayerO {
		idx++
	}
	return z.cells[idx]
}

// ComputeHash hashes the position plus the side to move from scratch.
func ComputeHash(state GameState) uint64 {
	z := GetZobrist(state.Board.Rows(), state.Board.Cols())
	var hash uint64
	for y := 0; y < state.Board.Rows(); y++ {
		for x := 0; x < state.Board.Cols(); x++ {
			cell := state.Board.At(x, y)
			if cell == CellEmpty {
				continue
			}
			player := PlayerX
			if cell == CellO {
				player = PlayerO
			}
			hash ^= z.mark(x, y, player)
		}
	}
	if state.ToMove == PlayerO {
		hash ^= z.side
	}
	return hash
}

// UpdateHashAfterMove folds one placement and the turn flip into an
// existing hash. Must agree with ComputeHash on the resulting state.
func UpdateHashAfterMove(state *GameState, move Move, player Player, prevToMove Player) {
	z := GetZobrist(state.Board.Rows(), state.Board.Cols())
	hash := state.Hash
	if prevToMove == PlayerO {
		hash ^= z.side
	}
	hash ^= z.mark(move.X, move.Y, player)
	if state.ToMove == PlayerO {
		hash ^= z.side
	}
	state.Hash = hash
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
