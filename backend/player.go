package main

// IPlayer is one side of a running game. The game loop asks IsHuman to
// decide whether to wait for a submitted cell or to hand the position
// to the engine. ChooseMove answers synchronously; AIPlayer offers an
// asynchronous path on top of it for the ticker-driven loop.
type IPlayer interface {
	IsHuman() bool
	ChooseMove(state GameState, rules Rules) Move
}
