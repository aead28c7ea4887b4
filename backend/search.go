package main

import (
	"fmt"
	"math"
	"sync"
	"time"
)

const (
	winValue  = 10.0
	drawValue = 0.0
)

type SearchStats struct {
	Nodes    int64
	TTProbes int64
	TTHits   int64
	TTStores int64
	Cutoffs  int64
	Start    time.Time
}

type SearchSettings struct {
	// ExhaustiveLimit is the largest empty-cell count for which the
	// engine searches every line to a terminal position. Zero or
	// negative means exhaustive always.
	ExhaustiveLimit int
	// MaxDepth bounds the search outside the exhaustive regime; leaves
	// at the cutoff are scored with the run-length heuristic.
	MaxDepth int
	Cache    *TranspositionTable
	Stats    *SearchStats
	Config   Config
}

func searchSettingsFromConfig(config Config, stats *SearchStats) SearchSettings {
	return SearchSettings{
		ExhaustiveLimit: config.AiExhaustiveLimit,
		MaxDepth:        config.AiMaxDepth,
		Cache:           SharedSearchCache().Ensure(config),
		Stats:           stats,
		Config:          config,
	}
}

type searchContext struct {
	rules    Rules
	settings SearchSettings
}

// BestMove runs the adversarial search for state.ToMove and returns the
// optimal empty cell. X always maximizes and O always minimizes,
// regardless of which side the engine is asked to move for. Among moves
// of equal value the first in ascending row-major index wins; alpha-beta
// only replaces on strict improvement, so pruning cannot change which
// equally-optimal move is reported.
//
// The input state is never mutated: every recursion works on its own
// board snapshot. Returns false only when no empty cell exists or the
// board is malformed or already decided.
func BestMove(state GameState, rules Rules, settings SearchSettings) (Move, bool) {
	board := state.Board
	if !board.WellFormed() {
		return Move{}, false
	}
	if Detect(board).Kind != OutcomeInProgress {
		return Move{}, false
	}
	if settings.Stats != nil && settings.Stats.Start.IsZero() {
		settings.Stats.Start = time.Now()
	}
	ctx := searchContext{rules: rules, settings: settings}
	mark := CellFromPlayer(state.ToMove)
	// An immediate winning placement is always optimal, so the first one
	// in ascending index order is played without building the tree.
	if move, ok := findCompletingMove(board, rules, mark); ok {
		move.Depth = 1
		return move, true
	}
	empties := board.CountEmpty()
	exhaustive := settings.ExhaustiveLimit <= 0 || empties <= settings.ExhaustiveLimit

	maximizing := state.ToMove == PlayerX
	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}
	alpha := math.Inf(-1)
	beta := math.Inf(1)
	bestMove := Move{}
	found := false
	cols := board.Cols()
	total := board.Rows() * cols
	for idx := 0; idx < total; idx++ {
		move := MoveFromIndex(idx, cols)
		if board.At(move.X, move.Y) != CellEmpty {
			continue
		}
		child := board.Clone()
		child.Set(move.X, move.Y, mark)
		depthLeft := empties - 1
		if !exhaustive {
			depthLeft = settings.MaxDepth - 1
		}
		value := ctx.search(child, otherPlayer(state.ToMove), alpha, beta, depthLeft)
		if !found {
			found = true
			best = value
			bestMove = move
		} else if maximizing && value > best {
			best = value
			bestMove = move
		} else if !maximizing && value < best {
			best = value
			bestMove = move
		}
		if maximizing {
			if best > alpha {
				alpha = best
			}
		} else {
			if best < beta {
				beta = best
			}
		}
	}
	if !found {
		return Move{}, false
	}
	bestMove.Depth = empties
	if !exhaustive {
		bestMove.Depth = settings.MaxDepth
	}
	if settings.Config.AiLogSearchStats {
		logSearchStats(state, settings, bestMove, best)
	}
	return bestMove, true
}

func (ctx searchContext) search(board Board, toMove Player, alpha, beta float64, depthLeft int) float64 {
	stats := ctx.settings.Stats
	if stats != nil {
		stats.Nodes++
	}
	outcome := Detect(board)
	switch outcome.Kind {
	case OutcomeWin:
		if outcome.Winner == CellX {
			return winValue
		}
		return -winValue
	case OutcomeDraw:
		return drawValue
	}
	if depthLeft <= 0 {
		return evaluatePosition(board)
	}
	mark := CellFromPlayer(toMove)
	if _, ok := findCompletingMove(board, ctx.rules, mark); ok {
		if toMove == PlayerX {
			return winValue
		}
		return -winValue
	}

	tt := ctx.settings.Cache
	var key uint64
	alphaOrig := alpha
	betaOrig := beta
	if tt != nil {
		key = positionHash(board, toMove)
		if stats != nil {
			stats.TTProbes++
		}
		if entry, ok := tt.Probe(key); ok && entry.Depth >= depthLeft {
			if stats != nil {
				stats.TTHits++
			}
			switch entry.Flag {
			case TTExact:
				return entry.Score
			case TTLower:
				if entry.Score > alpha {
					alpha = entry.Score
				}
			case TTUpper:
				if entry.Score < beta {
					beta = entry.Score
				}
			}
			if alpha >= beta {
				return entry.Score
			}
		}
	}

	maximizing := toMove == PlayerX
	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}
	bestMove := Move{}
	cols := board.Cols()
	total := board.Rows() * cols
	for idx := 0; idx < total; idx++ {
		move := MoveFromIndex(idx, cols)
		if board.At(move.X, move.Y) != CellEmpty {
			continue
		}
		child := board.Clone()
		child.Set(move.X, move.Y, mark)
		value := ctx.search(child, otherPlayer(toMove), alpha, beta, depthLeft-1)
		if maximizing {
			if value > best {
				best = value
				bestMove = move
			}
			if best > alpha {
				alpha = best
			}
		} else {
			if value < best {
				best = value
				bestMove = move
			}
			if best < beta {
				beta = best
			}
		}
		if beta <= alpha {
			if stats != nil {
				stats.Cutoffs++
			}
			break
		}
	}

	if tt != nil {
		flag := TTExact
		if best <= alphaOrig {
			flag = TTUpper
		} else if best >= betaOrig {
			flag = TTLower
		}
		tt.Store(key, depthLeft, best, flag, bestMove)
		if stats != nil {
			stats.TTStores++
		}
	}
	return best
}

func positionHash(board Board, toMove Player) uint64 {
	z := GetZobrist(board.Rows(), board.Cols())
	var hash uint64
	for y := 0; y < board.Rows(); y++ {
		for x := 0; x < board.Cols(); x++ {
			cell := board.At(x, y)
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
	if toMove == PlayerO {
		hash ^= z.side
	}
	return hash
}

func logSearchStats(state GameState, settings SearchSettings, best Move, value float64) {
	stats := settings.Stats
	if stats == nil {
		return
	}
	elapsed := time.Duration(0)
	if !stats.Start.IsZero() {
		elapsed = time.Since(stats.Start)
	}
	nps := 0.0
	if elapsed > 0 {
		nps = float64(stats.Nodes) / elapsed.Seconds()
	}
	ttHitRate := 0.0
	if stats.TTProbes > 0 {
		ttHitRate = float64(stats.TTHits) * 100.0 / float64(stats.TTProbes)
	}
	fmt.Printf("[ai:search] t=%dms board=%dx%d empties=%d best=(%d,%d) value=%.1f nodes=%d nps=%.0f tt_probe=%d tt_hit=%d tt_hit_rate=%.1f%% tt_store=%d cutoffs=%d\n",
		elapsed.Milliseconds(),
		state.Board.Rows(),
		state.Board.Cols(),
		state.Board.CountEmpty(),
		best.X,
		best.Y,
		value,
		stats.Nodes,
		nps,
		stats.TTProbes,
		stats.TTHits,
		ttHitRate,
		stats.TTStores,
		stats.Cutoffs,
	)
}

// AISearchCache owns the transposition table shared by every AI player
// in the process, rebuilt when the configured geometry changes.
type AISearchCache struct {
	mu        sync.Mutex
	tt        *TranspositionTable
	ttSize    int
	ttBuckets int
}

var sharedSearchCache = &AISearchCache{}

func SharedSearchCache() *AISearchCache {
	return sharedSearchCache
}

func (c *AISearchCache) Ensure(config Config) *TranspositionTable {
	size := config.AiTtSize
	if size <= 0 {
		return nil
	}
	buckets := config.AiTtBuckets
	if buckets <= 0 {
		buckets = 2
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tt == nil || c.ttSize != size || c.ttBuckets != buckets {
		c.tt = NewTranspositionTable(uint64(size), buckets)
		c.ttSize = size
		c.ttBuckets = buckets
	}
	return c.tt
}

func (c *AISearchCache) Table() *TranspositionTable {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tt
}

func (c *AISearchCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tt != nil {
		c.tt.Clear()
	}
}

func (c *AISearchCache) Size() int {
	c.mu.Lock()
	tt := c.tt
	c.mu.Unlock()
	if tt == nil {
		return 0
	}
	return tt.Count()
}

func FlushGlobalCaches() {
	SharedSearchCache().Flush()
}
