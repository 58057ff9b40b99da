package engine

import (
	"github.com/dkoval/nimzo/internal/board"
)

// Search constants.
const (
	Infinity  = 999_999
	MateScore = 100_000
	MaxPly    = 128
)

// timeCheckInterval is how many node visits pass between wall-clock
// polls.
const timeCheckInterval = 4096

// Pruning margins indexed by remaining depth.
var (
	reverseFutilityMargin = [4]int{0, 120, 250, 400}
	futilityMargin        = [4]int{0, 200, 350, 500}
)

// checkTime polls the clock on the node-count interval and latches the
// abort flag. Once set, every frame of the recursion returns
// immediately and nothing further is committed to the table.
func (e *Engine) checkTime() bool {
	if e.nodes%timeCheckInterval == 0 && e.clock.Expired() {
		e.timeExceeded = true
	}
	return e.timeExceeded
}

// negamax searches pos to the given remaining depth within the
// [alpha, beta] window and returns the score from the side to move's
// perspective. prevMove is the opponent move that led here (for the
// countermove heuristic); allowNull gates null-move pruning so two
// null moves are never stacked.
func (e *Engine) negamax(pos *board.Position, depth, ply, alpha, beta int, prevMove board.Move, allowNull bool) int {
	e.nodes++
	if e.checkTime() {
		return 0
	}
	if ply >= MaxPly-1 {
		return evaluate(pos, e.pawnCache)
	}

	if ply > 0 && (pos.IsTwofoldRepetition() || pos.IsFiftyMoves()) {
		return 0
	}

	ttMove := board.NoMove
	if entry, ok := e.tt.Probe(pos.Key); ok {
		ttMove = entry.BestMove
		if int(entry.Depth) >= depth {
			score := scoreFromTT(int(entry.Score), ply)
			switch entry.Flag {
			case TTExact:
				return score
			case TTLowerBound:
				if score >= beta {
					return score
				}
			case TTUpperBound:
				if score <= alpha {
					return score
				}
			}
		}
	}

	if depth <= 0 {
		return e.quiescence(pos, ply, alpha, beta)
	}

	inCheck := pos.InCheck()

	// Check extension: one ply per node, never past the ply cap.
	if inCheck && depth+ply < MaxPly-1 {
		depth++
	}

	// Null-move pruning. Skipped in check, in pawn endings (zugzwang),
	// and late in the game where passing is too often the best move.
	if allowNull && depth >= 3 && !inCheck && gamePhase(pos) < 0.8 && pos.HasNonPawnMaterial() {
		r := 2
		if depth >= 6 {
			r = 3
		}
		pos.MakeNullMove()
		score := -e.negamax(pos, depth-1-r, ply+1, -beta, -beta+1, board.NoMove, false)
		pos.UnmakeMove()
		if e.timeExceeded {
			return 0
		}
		if score >= beta {
			return beta
		}
	}

	var staticEval int
	staticEvalDone := false
	if depth <= 3 && !inCheck {
		staticEval = evaluate(pos, e.pawnCache)
		staticEvalDone = true

		// Reverse futility: already so far above beta that the margin
		// cannot be eaten at this depth.
		if staticEval-reverseFutilityMargin[depth] >= beta {
			return staticEval - reverseFutilityMargin[depth]
		}
	}

	// Arm per-move futility pruning of quiet moves when the static
	// evaluation is hopelessly below alpha.
	futile := false
	if staticEvalDone && staticEval+futilityMargin[depth] < alpha {
		futile = true
	}

	moves := pos.LegalMoves()
	if moves.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	scores := e.orderer.ScoreMoves(pos, moves, ply, ttMove, prevMove)

	bestScore := -Infinity
	bestMove := board.NoMove
	flag := TTUpperBound

	for i := 0; i < moves.Len(); i++ {
		PickBest(moves, scores, i)
		m := moves.Get(i)

		isCapture := m.IsCapture(pos)
		isQuiet := !isCapture && !m.IsPromotion()

		// Keep at least one searched move so the node always has a
		// real score to store.
		if futile && isQuiet && bestMove != board.NoMove {
			continue
		}

		pos.MakeMove(m)

		// Late move reductions: quiet moves far down the ordering get
		// a reduced-depth scout first.
		reduction := 0
		if i >= 3 && depth >= 3 && !inCheck && !pos.InCheck() && isQuiet {
			reduction = 1
			if i >= 6 {
				reduction++
			}
			if i >= 12 {
				reduction++
			}
			if alpha != beta-1 {
				reduction-- // PV nodes get a gentler reduction
			}
			if depth >= 6 {
				reduction++
			}
			reduction = clamp(reduction, 1, depth-1)
		}

		var score int
		switch {
		case reduction > 0:
			score = -e.negamax(pos, depth-1-reduction, ply+1, -alpha-1, -alpha, m, true)
			if score > alpha && !e.timeExceeded {
				score = -e.negamax(pos, depth-1, ply+1, -beta, -alpha, m, true)
			}
		case i == 0:
			score = -e.negamax(pos, depth-1, ply+1, -beta, -alpha, m, true)
		default:
			// Principal-variation search: scout with a null window,
			// re-search on a genuine score raise.
			score = -e.negamax(pos, depth-1, ply+1, -alpha-1, -alpha, m, true)
			if score > alpha && score < beta && !e.timeExceeded {
				score = -e.negamax(pos, depth-1, ply+1, -beta, -alpha, m, true)
			}
		}

		pos.UnmakeMove()
		if e.timeExceeded {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score > alpha {
			alpha = score
			flag = TTExact
			if !isCapture {
				e.orderer.RecordHistory(m, depth)
			}
		}
		if alpha >= beta {
			if !isCapture {
				e.orderer.RecordKiller(m, ply)
				e.orderer.RecordCountermove(prevMove, m)
			}
			flag = TTLowerBound
			break
		}
	}

	e.tt.Store(pos.Key, depth, scoreToTT(bestScore, ply), flag, bestMove)
	return bestScore
}

// quiescence resolves the horizon by searching captures and promotions
// until the position goes quiet. The recursion ends when no captures or
// promotions remain, and in any case at the MaxPly ceiling.
func (e *Engine) quiescence(pos *board.Position, ply, alpha, beta int) int {
	e.nodes++
	if e.checkTime() {
		return 0
	}
	if ply >= MaxPly-1 {
		return evaluate(pos, e.pawnCache)
	}

	standPat := evaluate(pos, e.pawnCache)
	if standPat >= beta {
		return beta
	}
	// Delta pruning: even winning a queen cannot save this position.
	if standPat+QueenValue < alpha {
		return alpha
	}
	if standPat > alpha {
		alpha = standPat
	}

	moves := pos.LoudMoves()
	scores := e.orderer.ScoreLoudMoves(pos, moves)

	for i := 0; i < moves.Len(); i++ {
		PickBest(moves, scores, i)
		m := moves.Get(i)

		// A capture whose victim cannot lift the score near alpha is
		// not worth trying.
		if !m.IsPromotion() && m.IsCapture(pos) &&
			standPat+victimValue(pos, m)+200 < alpha {
			continue
		}

		pos.MakeMove(m)
		score := -e.quiescence(pos, ply+1, -beta, -alpha)
		pos.UnmakeMove()
		if e.timeExceeded {
			return 0
		}

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
