package engine

import (
	"time"

	"github.com/dkoval/nimzo/internal/board"
)

// Config carries the engine construction options; zero values select
// the defaults.
type Config struct {
	MaxDepth   int           // iterative-deepening ceiling (default 6)
	TimeLimit  time.Duration // wall-clock budget per search, 0 disables
	TTCapacity int           // transposition table slots (default 1<<20)
}

// DefaultMaxDepth is the search depth ceiling when none is configured.
const DefaultMaxDepth = 6

// SearchResult is the outcome of one Search call. BestMove is NoMove
// if and only if the position had no legal moves; the caller
// distinguishes checkmate from stalemate.
type SearchResult struct {
	BestMove board.Move
	Score    int // centipawns from the side to move's perspective
	Depth    int // deepest fully completed iteration
	Nodes    uint64
	Time     time.Duration
}

// Engine is a single-threaded alpha-beta searcher. All mutable state
// is private to the instance; concurrent Search calls on one Engine
// are not supported, hosts wanting parallelism run one Engine each.
type Engine struct {
	maxDepth  int
	timeLimit time.Duration

	tt        *TransTable
	orderer   *Orderer
	pawnCache *PawnCache

	nodes        uint64
	timeExceeded bool
	clock        searchClock
}

// New constructs an engine from cfg.
func New(cfg Config) *Engine {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return &Engine{
		maxDepth:  cfg.MaxDepth,
		timeLimit: cfg.TimeLimit,
		tt:        NewTransTable(cfg.TTCapacity),
		orderer:   NewOrderer(),
		pawnCache: NewPawnCache(),
	}
}

// Search finds the best move for pos under the configured depth and
// time budget.
func (e *Engine) Search(pos *board.Position) SearchResult {
	return e.SearchToDepth(pos, e.maxDepth)
}

// BestMove is the convenience form of Search.
func (e *Engine) BestMove(pos *board.Position) board.Move {
	return e.Search(pos).BestMove
}

// Evaluate exposes the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return evaluate(pos, e.pawnCache)
}

// NewGame clears state that must not leak between unrelated games.
func (e *Engine) NewGame() {
	e.tt.Clear()
}

// SearchToDepth runs iterative deepening up to maxDepth. Heuristic
// tables reset per call; the transposition table persists and is aged,
// which is what makes the deepening iterations cheap.
func (e *Engine) SearchToDepth(pos *board.Position, maxDepth int) SearchResult {
	if maxDepth <= 0 {
		maxDepth = e.maxDepth
	}
	e.nodes = 0
	e.timeExceeded = false
	e.clock.Start(e.timeLimit)
	e.tt.NextSearch()
	e.orderer.Reset()

	moves := pos.LegalMoves()
	if moves.Len() == 0 {
		return SearchResult{Score: 0, Time: e.clock.Elapsed()}
	}

	bestMove := moves.Get(0)
	bestScore := -Infinity
	finalDepth := 1

	for depth := 1; depth <= maxDepth; depth++ {
		if e.timeExceeded {
			break
		}

		// Aspiration window around the previous score once the search
		// is deep enough to trust it.
		alpha, beta := -Infinity, Infinity
		aspirating := depth >= 5 && absInt(bestScore) < MateScore-100
		if aspirating {
			alpha = bestScore - 50
			beta = bestScore + 50
		}
		widened := false

		ttMove := board.NoMove
		if entry, ok := e.tt.Probe(pos.Key); ok {
			ttMove = entry.BestMove
		}
		scores := e.orderer.ScoreMoves(pos, moves, 0, ttMove, board.NoMove)
		Sort(moves, scores)

		iterMove := board.NoMove
		iterScore := -Infinity

		for i := 0; i < moves.Len(); i++ {
			m := moves.Get(i)

			pos.MakeMove(m)
			var score int
			if i == 0 {
				score = -e.negamax(pos, depth-1, 1, -beta, -alpha, m, true)
			} else {
				score = -e.negamax(pos, depth-1, 1, -alpha-1, -alpha, m, true)
				if score > alpha && score < beta && !e.timeExceeded {
					score = -e.negamax(pos, depth-1, 1, -beta, -alpha, m, true)
				}
			}
			pos.UnmakeMove()
			if e.timeExceeded {
				break
			}

			// One widening per iteration: a score outside the
			// aspiration window re-searches this move full-width
			// without revisiting earlier moves.
			if aspirating && !widened && (score <= alpha || score >= beta) {
				widened = true
				alpha, beta = -Infinity, Infinity
				pos.MakeMove(m)
				score = -e.negamax(pos, depth-1, 1, -beta, -alpha, m, true)
				pos.UnmakeMove()
				if e.timeExceeded {
					break
				}
			}

			if score > iterScore {
				iterScore = score
				iterMove = m
			}
			if score > alpha {
				alpha = score
			}
		}

		// Only fully completed iterations commit; an aborted one
		// leaves the previous result untouched.
		if !e.timeExceeded && iterMove != board.NoMove {
			bestMove = iterMove
			bestScore = iterScore
			finalDepth = depth
		}
	}

	return SearchResult{
		BestMove: bestMove,
		Score:    bestScore,
		Depth:    finalDepth,
		Nodes:    e.nodes,
		Time:     e.clock.Elapsed(),
	}
}
