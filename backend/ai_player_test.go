package main

import (
	"testing"
	"time"
)

func TestAIPlayerChooseMoveIsLegal(t *testing.T) {
	state, rules := runningState(3, 3)
	state.Board.Set(1, 1, CellO)
	state.ToMove = PlayerX
	ai := NewAIPlayer()
	move := ai.ChooseMove(state, rules)
	if ok, reason := rules.IsLegalDefault(state, move); !ok {
		t.Fatalf("engine chose illegal move (%d,%d): %s", move.X, move.Y, reason)
	}
}

func TestStartThinkingProducesMove(t *testing.T) {
	state, rules := runningState(3, 3)
	ai := NewAIPlayer()
	ai.StartThinking(state, rules)

	deadline := time.Now().Add(10 * time.Second)
	for !ai.HasMoveReady() {
		if time.Now().After(deadline) {
			t.Fatalf("worker did not finish in time")
		}
		time.Sleep(time.Millisecond)
	}
	if ai.IsThinking() {
		t.Fatalf("expected thinking flag cleared once the move is ready")
	}
	move := ai.TakeMove()
	if ok, reason := rules.IsLegalDefault(state, move); !ok {
		t.Fatalf("worker produced illegal move (%d,%d): %s", move.X, move.Y, reason)
	}
	if ai.HasMoveReady() {
		t.Fatalf("expected TakeMove to consume the ready flag")
	}
}

func TestStopThinkingDiscardsResult(t *testing.T) {
	state, rules := runningState(3, 3)
	ai := NewAIPlayer()
	ai.StartThinking(state, rules)
	ai.StopThinking()

	if ai.workerDone != nil {
		<-ai.workerDone
	}
	if ai.HasMoveReady() {
		t.Fatalf("expected stop to discard the search result")
	}
}

func TestResetForConfigChangeFlushesSharedCache(t *testing.T) {
	table := SharedSearchCache().Ensure(DefaultConfig())
	if table == nil {
		t.Fatalf("expected shared cache for default config")
	}
	table.Store(mixKey(123), 3, drawValue, TTExact, Move{X: 1, Y: 1})
	if SharedSearchCache().Size() == 0 {
		t.Fatalf("expected cache to hold the seeded entry")
	}
	ai := NewAIPlayer()
	ai.ResetForConfigChange()
	if got := SharedSearchCache().Size(); got != 0 {
		t.Fatalf("expected flushed cache, got %d entries", got)
	}
}
