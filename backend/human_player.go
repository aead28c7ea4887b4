package main

// HumanPlayer buffers at most one submitted cell until the game loop
// consumes it on the next tick. A new submission replaces an
// unconsumed one, so mashing the same square twice is harmless.
type HumanPlayer struct {
	queued *Move
}

func NewHumanPlayer() *HumanPlayer {
	return &HumanPlayer{}
}

func (h *HumanPlayer) IsHuman() bool {
	return true
}

// ChooseMove drains the buffered submission. Without one there is
// nothing sensible to play and the zero move is returned; the game
// loop rejects it as illegal and keeps waiting.
func (h *HumanPlayer) ChooseMove(GameState, Rules) Move {
	move, _ := h.takeQueued()
	return move
}

func (h *HumanPlayer) SetPendingMove(move Move) {
	queued := move
	h.queued = &queued
}

func (h *HumanPlayer) HasPendingMove() bool {
	return h.queued != nil
}

func (h *HumanPlayer) TakePendingMove() Move {
	move, _ := h.takeQueued()
	return move
}

func (h *HumanPlayer) takeQueued() (Move, bool) {
	if h.queued == nil {
		return Move{}, false
	}
	move := *h.queued
	h.queued = nil
	return move, true
}
