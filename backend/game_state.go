package main

type Player int

type GameStatus int

const (
	PlayerX Player = iota
	PlayerO
)

const (
	StatusNotStarted GameStatus = iota
	StatusRunning
	StatusXWon
	StatusOWon
	StatusDraw
)

type GameState struct {
	Board       Board
	ToMove      Player
	Status      GameStatus
	HasLastMove bool
	LastMove    Move
	Hash        uint64
	LastMessage string
	WinningLine []Move
}

func DefaultGameState(settings GameSettings) GameState {
	state := GameState{}
	state.Reset(settings)
	return state
}

func (s *GameState) Reset(settings GameSettings) {
	s.Board = NewBoard(settings.Rows, settings.Cols)
	if settings.OStarts {
		s.ToMove = PlayerO
	} else {
		s.ToMove = PlayerX
	}
	s.Status = StatusNotStarted
	s.HasLastMove = false
	s.LastMove = Move{X: -1, Y: -1}
	s.Hash = 0
	s.LastMessage = ""
	s.WinningLine = nil
	s.recomputeHash()
}

func (s GameState) Clone() GameState {
	clone := s
	clone.Board = s.Board.Clone()
	clone.WinningLine = append([]Move(nil), s.WinningLine...)
	return clone
}

func otherPlayer(player Player) Player {
	if player == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (s *GameState) recomputeHash() {
	s.Hash = ComputeHash(*s)
}

func statusForWinner(cell Cell) GameStatus {
	if cell == CellX {
		return StatusXWon
	}
	return StatusOWon
}
