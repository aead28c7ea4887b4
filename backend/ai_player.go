package main

import (
	"sync"
	"sync/atomic"
	"time"
)

// AIPlayer runs the search on a worker goroutine so the game loop never
// blocks on it. The search itself has no cancellation: once started it
// runs to completion, and a stop request only discards the result.
type AIPlayer struct {
	moveMutex  sync.Mutex
	workerDone chan struct{}
	thinking   atomic.Bool
	moveReady  atomic.Bool
	discard    atomic.Bool
	readyMove  Move
}

func NewAIPlayer() *AIPlayer {
	return &AIPlayer{}
}

func (a *AIPlayer) IsHuman() bool {
	return false
}

func (a *AIPlayer) ChooseMove(state GameState, rules Rules) Move {
	config := GetConfig()
	stats := &SearchStats{Start: time.Now()}
	settings := searchSettingsFromConfig(config, stats)
	move, ok := BestMove(state, rules, settings)
	if !ok {
		return Move{}
	}
	return move
}

func (a *AIPlayer) StartThinking(state GameState, rules Rules) {
	if a.thinking.Load() {
		return
	}
	if a.workerDone != nil {
		<-a.workerDone
	}
	a.thinking.Store(true)
	a.moveReady.Store(false)
	a.discard.Store(false)

	stateCopy := state.Clone()
	rulesCopy := rules
	done := make(chan struct{})
	a.workerDone = done
	config := GetConfig()
	go func() {
		defer close(done)
		stats := &SearchStats{Start: time.Now()}
		settings := searchSettingsFromConfig(config, stats)
		move, ok := BestMove(stateCopy, rulesCopy, settings)
		// Publish and discard contend on the same mutex so a stop
		// request can never lose to a finishing worker.
		a.moveMutex.Lock()
		if a.discard.Load() {
			a.moveReady.Store(false)
		} else {
			if ok {
				a.readyMove = move
			} else {
				a.readyMove = Move{}
			}
			a.moveReady.Store(true)
		}
		a.moveMutex.Unlock()
		a.thinking.Store(false)
	}()
}

func (a *AIPlayer) StopThinking() {
	a.moveMutex.Lock()
	a.discard.Store(true)
	a.moveReady.Store(false)
	a.moveMutex.Unlock()
}

func (a *AIPlayer) IsThinking() bool {
	return a.thinking.Load()
}

func (a *AIPlayer) HasMoveReady() bool {
	return a.moveReady.Load()
}

func (a *AIPlayer) TakeMove() Move {
	a.moveMutex.Lock()
	defer a.moveMutex.Unlock()
	a.moveReady.Store(false)
	return a.readyMove
}

func (a *AIPlayer) CacheSize() int {
	return SharedSearchCache().Size()
}

func (a *AIPlayer) ResetForConfigChange() {
	a.StopThinking()
	FlushGlobalCaches()
}
