package main

import "testing"

func TestPriorityMoveTakesOwnWin(t *testing.T) {
	state, rules := runningState(3, 3)
	state.Board.Set(0, 0, CellO)
	state.Board.Set(1, 0, CellO)
	state.Board.Set(0, 1, CellX)
	state.Board.Set(1, 1, CellX)
	state.ToMove = PlayerO
	move, ok := PriorityMove(state, rules)
	if !ok {
		t.Fatalf("expected a move")
	}
	if move.X != 2 || move.Y != 0 {
		t.Fatalf("expected win at (2,0), got (%d,%d)", move.X, move.Y)
	}
}

func TestPriorityMoveBlocksOpponentWin(t *testing.T) {
	state, rules := runningState(3, 3)
	state.Board.Set(0, 0, CellX)
	state.Board.Set(1, 0, CellX)
	state.Board.Set(1, 1, CellO)
	state.ToMove = PlayerO
	move, ok := PriorityMove(state, rules)
	if !ok {
		t.Fatalf("expected a move")
	}
	if move.X != 2 || move.Y != 0 {
		t.Fatalf("expected block at (2,0), got (%d,%d)", move.X, move.Y)
	}
}

func TestPriorityMoveCenterCornersEdges(t *testing.T) {
	state, rules := runningState(3, 3)
	move, ok := PriorityMove(state, rules)
	if !ok || move.X != 1 || move.Y != 1 {
		t.Fatalf("expected center first on empty board, got ok=%v (%d,%d)", ok, move.X, move.Y)
	}

	state.Board.Set(1, 1, CellX)
	state.ToMove = PlayerO
	move, ok = PriorityMove(state, rules)
	if !ok || move.X != 0 || move.Y != 0 {
		t.Fatalf("expected first corner after center, got ok=%v (%d,%d)", ok, move.X, move.Y)
	}

	// Center and corners taken, no win or block available: next is the
	// first edge cell in ascending index order. A 5-board keeps the
	// win/block branches quiet here.
	edge, edgeRules := runningState(5, 5)
	edge.Board.Set(2, 2, CellX)
	edge.Board.Set(0, 0, CellO)
	edge.Board.Set(4, 0, CellX)
	edge.Board.Set(0, 4, CellO)
	edge.Board.Set(4, 4, CellX)
	edge.ToMove = PlayerO
	move, ok = PriorityMove(edge, edgeRules)
	if !ok || move.X != 1 || move.Y != 0 {
		t.Fatalf("expected first edge cell (1,0), got ok=%v (%d,%d)", ok, move.X, move.Y)
	}
}

func TestPriorityMoveDoesNotMutateBoard(t *testing.T) {
	state, rules := runningState(3, 3)
	state.Board.Set(0, 0, CellX)
	state.Board.Set(1, 0, CellX)
	state.ToMove = PlayerO
	before := make([]Cell, len(state.Board.cells))
	copy(before, state.Board.cells)

	if _, ok := PriorityMove(state, rules); !ok {
		t.Fatalf("expected a move")
	}
	for i, cell := range before {
		if state.Board.cells[i] != cell {
			t.Fatalf("trial placements leaked into caller board at index %d", i)
		}
	}
}

func TestEvaluatePositionSignAndBounds(t *testing.T) {
	ahead := NewBoard(4, 4)
	ahead.Set(0, 0, CellX)
	ahead.Set(1, 0, CellX)
	ahead.Set(3, 3, CellO)
	score := evaluatePosition(ahead)
	if score <= 0 {
		t.Fatalf("expected positive score when X leads, got %f", score)
	}

	behind := NewBoard(4, 4)
	behind.Set(0, 0, CellO)
	behind.Set(1, 0, CellO)
	behind.Set(3, 3, CellX)
	if score := evaluatePosition(behind); score >= 0 {
		t.Fatalf("expected negative score when O leads, got %f", score)
	}

	// Open three-in-a-row on a 4-board is the loudest non-terminal
	// signal and must still stay inside the terminal values.
	loud := NewBoard(4, 4)
	loud.Set(1, 1, CellX)
	loud.Set(2, 1, CellX)
	loud.Set(3, 1, CellX)
	score = evaluatePosition(loud)
	if score <= 0 || score >= winValue {
		t.Fatalf("expected heuristic strictly inside (0, %f), got %f", winValue, score)
	}
	if score > winValue-1 {
		t.Fatalf("heuristic exceeded clamp: %f", score)
	}
}

func TestFindCompletingMovePicksLowestIndex(t *testing.T) {
	state, rules := runningState(3, 3)
	// X can complete either (2,0) on the top row or (0,1) on the
	// left column; the scan must return the lower index.
	state.Board.Set(0, 0, CellX)
	state.Board.Set(1, 0, CellX)
	state.Board.Set(0, 2, CellX)
	move, ok := findCompletingMove(state.Board, rules, CellX)
	if !ok {
		t.Fatalf("expected a completing move")
	}
	if move.X != 2 || move.Y != 0 {
		t.Fatalf("expected (2,0), got (%d,%d)", move.X, move.Y)
	}
}
