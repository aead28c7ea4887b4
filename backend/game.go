package main

import (
	"fmt"
	"log"
	"time"
)

// Game holds the authoritative board and side to move. The engine never
// owns this state; it is handed a snapshot on every query.
type Game struct {
	settings  GameSettings
	rules     Rules
	state     GameState
	history   MoveHistory
	xPlayer   IPlayer
	oPlayer   IPlayer
	turnStart time.Time
}

func NewGame(settings GameSettings) Game {
	g := Game{}
	g.Reset(settings)
	return g
}

func (g *Game) Reset(settings GameSettings) {
	g.stopAIPlayers()
	g.settings = settings
	g.rules = NewRules(settings)
	g.state.Reset(settings)
	g.history.Clear()
	g.createPlayers()
	g.turnStart = time.Now()
	g.logMatchup()
}

func (g *Game) Start() {
	if g.state.Status == StatusNotStarted {
		g.state.Status = StatusRunning
		g.turnStart = time.Now()
	}
}

func (g *Game) State() GameState {
	return g.state.Clone()
}

func (g *Game) History() MoveHistory {
	return g.history
}

func (g *Game) TurnStartedAtMs() int64 {
	if g.turnStart.IsZero() {
		return 0
	}
	return g.turnStart.UnixMilli()
}

func (g *Game) TryApplyMove(move Move) (bool, string) {
	if g.state.Status != StatusRunning {
		return false, "game not running"
	}
	ok, reason := g.rules.IsLegalDefault(g.state, move)
	if !ok {
		g.state.LastMessage = "Illegal move: " + reason
		return false, g.state.LastMessage
	}
	g.state.LastMessage = ""
	player := g.currentPlayer()
	isAiMove := player != nil && !player.IsHuman()
	elapsedMs := float64(time.Since(g.turnStart).Milliseconds())
	mover := g.state.ToMove
	cell := CellFromPlayer(mover)
	g.state.Board.Set(move.X, move.Y, cell)
	g.state.LastMove = move
	g.state.HasLastMove = true
	g.state.WinningLine = nil
	g.history.Push(HistoryEntry{Move: move, Player: mover, ElapsedMs: elapsedMs, IsAi: isAiMove})

	if g.rules.IsWin(g.state.Board, move) {
		if line, ok := g.rules.FindWinningLine(g.state.Board, move); ok {
			g.state.WinningLine = line
		}
		g.state.Status = statusForWinner(cell)
		UpdateHashAfterMove(&g.state, move, mover, mover)
		g.logWin(mover)
		return true, ""
	}
	if g.rules.IsDraw(g.state.Board) {
		g.state.Status = StatusDraw
		UpdateHashAfterMove(&g.state, move, mover, mover)
		return true, ""
	}

	g.state.ToMove = otherPlayer(mover)
	UpdateHashAfterMove(&g.state, move, mover, mover)
	g.turnStart = time.Now()
	return true, ""
}

// Tick advances the game by at most one move. AI moves that are ready
// are held until the configured presentation delay has elapsed since
// the turn started, so the frontend sees the computer "think" even when
// the search finishes instantly.
func (g *Game) Tick() bool {
	if g.state.Status != StatusRunning {
		return false
	}
	player := g.currentPlayer()
	if player == nil {
		return false
	}
	if player.IsHuman() {
		human, ok := player.(*HumanPlayer)
		if ok && human.HasPendingMove() {
			move := human.TakePendingMove()
			applied, _ := g.TryApplyMove(move)
			return applied
		}
		return false
	}
	ai, ok := player.(*AIPlayer)
	if ok {
		if ai.HasMoveReady() {
			if !g.moveDelayElapsed() {
				return false
			}
			move := ai.TakeMove()
			applied, _ := g.TryApplyMove(move)
			return applied
		}
		if !ai.IsThinking() {
			ai.StartThinking(g.state.Clone(), g.rules)
		}
		return false
	}
	move := player.ChooseMove(g.state.Clone(), g.rules)
	applied, _ := g.TryApplyMove(move)
	return applied
}

func (g *Game) moveDelayElapsed() bool {
	delay := time.Duration(GetConfig().AiMoveDelayMs) * time.Millisecond
	if delay <= 0 {
		return true
	}
	return time.Since(g.turnStart) >= delay
}

// LoadPosition replaces the live game with an arbitrary position, the
// way a UI rewinding through its move history hands back an earlier
// board. Status is rederived from the detector, history is cleared.
func (g *Game) LoadPosition(board Board, toMove Player) error {
	if !board.WellFormed() {
		return fmt.Errorf("malformed board %dx%d", board.Rows(), board.Cols())
	}
	g.stopAIPlayers()
	g.settings.Rows = board.Rows()
	g.settings.Cols = board.Cols()
	g.rules = NewRules(g.settings)
	g.state.Reset(g.settings)
	g.state.Board = board.Clone()
	g.state.ToMove = toMove
	switch outcome := Detect(g.state.Board); outcome.Kind {
	case OutcomeWin:
		g.state.Status = statusForWinner(outcome.Winner)
	case OutcomeDraw:
		g.state.Status = StatusDraw
	default:
		g.state.Status = StatusRunning
	}
	g.state.recomputeHash()
	g.history.Clear()
	g.createPlayers()
	g.turnStart = time.Now()
	return nil
}

func (g *Game) SubmitHumanMove(move Move) bool {
	player := g.currentPlayer()
	if player == nil || !player.IsHuman() {
		return false
	}
	human, ok := player.(*HumanPlayer)
	if !ok {
		return false
	}
	human.SetPendingMove(move)
	return true
}

func (g *Game) CurrentPlayerIsHuman() bool {
	player := g.currentPlayer()
	return player != nil && player.IsHuman()
}

func (g *Game) AiThinking() bool {
	ai, ok := g.currentPlayer().(*AIPlayer)
	return ok && ai.IsThinking()
}

func (g *Game) ResetForConfigChange() {
	if aiX, ok := g.xPlayer.(*AIPlayer); ok {
		aiX.ResetForConfigChange()
	}
	if aiO, ok := g.oPlayer.(*AIPlayer); ok {
		aiO.ResetForConfigChange()
	}
}

func (g *Game) currentPlayer() IPlayer {
	return g.playerForMark(g.state.ToMove)
}

func (g *Game) playerForMark(player Player) IPlayer {
	if player == PlayerX {
		return g.xPlayer
	}
	return g.oPlayer
}

func (g *Game) createPlayers() {
	if g.settings.XType == PlayerHuman {
		g.xPlayer = NewHumanPlayer()
	} else {
		g.xPlayer = NewAIPlayer()
	}
	if g.settings.OType == PlayerHuman {
		g.oPlayer = NewHumanPlayer()
	} else {
		g.oPlayer = NewAIPlayer()
	}
}

func (g *Game) stopAIPlayers() {
	if aiX, ok := g.xPlayer.(*AIPlayer); ok {
		aiX.StopThinking()
	}
	if aiO, ok := g.oPlayer.(*AIPlayer); ok {
		aiO.StopThinking()
	}
}

func (g *Game) logMatchup() {
	label := func(t PlayerType) string {
		if t == PlayerAI {
			return "AI"
		}
		return "Human"
	}
	log.Printf("[game] %dx%d win=%d X (%s) vs O (%s)",
		g.settings.Rows, g.settings.Cols, g.rules.WinLength(),
		label(g.settings.XType), label(g.settings.OType))
}

func (g *Game) logWin(player Player) {
	name := "X"
	if player == PlayerO {
		name = "O"
	}
	log.Printf("[game] %s wins after %d moves", name, g.history.Size())
}
