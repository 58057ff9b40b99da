package engine

import (
	"github.com/dkoval/nimzo/internal/board"
)

// Move ordering buckets. The hash move dominates everything, then
// captures by MVV-LVA, promotions, killers, the countermove of the
// opponent's last move, and finally the history counters.
const (
	hashMoveScore    = 10_000_000
	captureBase      = 1_000_000
	promotionBase    = 900_000
	killerScore0     = 800_000
	killerScore1     = 700_000
	countermoveScore = 650_000
)

// Orderer holds the per-search ordering state: killer slots per ply,
// history counters, and the countermove of each opponent move.
type Orderer struct {
	killers      [MaxPly][2]board.Move
	history      [64][64]int
	countermoves [64][64]board.Move
}

// NewOrderer returns a zeroed orderer.
func NewOrderer() *Orderer {
	return &Orderer{}
}

// Reset clears all tables for a new top-level search.
func (o *Orderer) Reset() {
	*o = Orderer{}
}

// ScoreMoves assigns an ordering score to every move in the list.
func (o *Orderer) ScoreMoves(pos *board.Position, moves *board.MoveList, ply int, ttMove, prevMove board.Move) []int {
	scores := make([]int, moves.Len())
	counter := o.counterOf(prevMove)
	for i := 0; i < moves.Len(); i++ {
		scores[i] = o.scoreMove(pos, moves.Get(i), ply, ttMove, counter)
	}
	return scores
}

// ScoreLoudMoves orders captures and promotions for the quiescence
// search; plain MVV-LVA, no quiet-move state involved.
func (o *Orderer) ScoreLoudMoves(pos *board.Position, moves *board.MoveList) []int {
	scores := make([]int, moves.Len())
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		s := 0
		if m.IsCapture(pos) {
			s += captureBase + 10*victimValue(pos, m) - pieceValues[pos.PieceAt(m.From()).Type()]
		}
		if m.IsPromotion() {
			s += promotionBase + pieceValues[m.Promotion()]
		}
		scores[i] = s
	}
	return scores
}

func (o *Orderer) scoreMove(pos *board.Position, m board.Move, ply int, ttMove, counter board.Move) int {
	if m == ttMove {
		return hashMoveScore
	}

	score := 0
	if m.IsCapture(pos) {
		score += captureBase + 10*victimValue(pos, m) - pieceValues[pos.PieceAt(m.From()).Type()]
	}
	if m.IsPromotion() {
		score += promotionBase + pieceValues[m.Promotion()]
	}
	if ply < MaxPly {
		if m == o.killers[ply][0] {
			score += killerScore0
		} else if m == o.killers[ply][1] {
			score += killerScore1
		}
	}
	if m == counter && counter != board.NoMove {
		score += countermoveScore
	}
	return score + o.history[m.From()][m.To()]
}

// victimValue is the value of the captured piece; en passant captures
// a pawn by definition.
func victimValue(pos *board.Position, m board.Move) int {
	if m.IsEnPassant() {
		return PawnValue
	}
	return pieceValues[pos.PieceAt(m.To()).Type()]
}

// PickBest moves the highest-scored remaining move to index i,
// sorting lazily: most nodes cut off after the first few moves.
func PickBest(moves *board.MoveList, scores []int, i int) {
	best := i
	for j := i + 1; j < moves.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != i {
		moves.Swap(i, best)
		scores[i], scores[best] = scores[best], scores[i]
	}
}

// Sort orders the whole list by descending score; used at the root
// where every move is searched anyway.
func Sort(moves *board.MoveList, scores []int) {
	for i := 0; i < moves.Len(); i++ {
		PickBest(moves, scores, i)
	}
}

// RecordKiller shifts a quiet cutoff move into the killer slots.
func (o *Orderer) RecordKiller(m board.Move, ply int) {
	if ply >= MaxPly || o.killers[ply][0] == m {
		return
	}
	o.killers[ply][1] = o.killers[ply][0]
	o.killers[ply][0] = m
}

// RecordHistory bumps the history counter of a quiet move that raised
// alpha, weighted by depth squared.
func (o *Orderer) RecordHistory(m board.Move, depth int) {
	o.history[m.From()][m.To()] += depth * depth
}

// RecordCountermove remembers m as the refutation of prevMove.
func (o *Orderer) RecordCountermove(prevMove, m board.Move) {
	if prevMove == board.NoMove {
		return
	}
	o.countermoves[prevMove.From()][prevMove.To()] = m
}

func (o *Orderer) counterOf(prevMove board.Move) board.Move {
	if prevMove == board.NoMove {
		return board.NoMove
	}
	return o.countermoves[prevMove.From()][prevMove.To()]
}
