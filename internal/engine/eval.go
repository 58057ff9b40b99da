// Package engine implements the search core: evaluation, move
// ordering, transposition table, and the iterative-deepening driver.
package engine

import (
	"math"

	"github.com/dkoval/nimzo/internal/board"
)

// Piece values in centipawns.
const (
	PawnValue   = 100
	KnightValue = 305
	BishopValue = 333
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 20000
)

var pieceValues = [7]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue, 0}

// Mobility bonus per attacked square.
var mobilityWeight = [6]int{0, 4, 5, 2, 1, 0}

// Passed pawn bonus by relative rank.
var passedPawnBonus = [8]int{0, 15, 25, 40, 60, 90, 130, 0}

const tempoBonus = 10

// Center masks: the four center squares and the twelve squares of the
// extended center around them.
var (
	centerBB = board.Bit(board.D4) | board.Bit(board.E4) |
		board.Bit(board.D5) | board.Bit(board.E5)
	extendedCenterBB = ((board.FileC | board.FileD | board.FileE | board.FileF) &
		(board.Rank3 | board.Rank4 | board.Rank5 | board.Rank6)) &^ centerBB
)

var lightSquares board.Bitboard

// passedMask[c][sq] covers the three files around sq on every rank a
// pawn of color c still has to cross; empty intersection with enemy
// pawns means the pawn is passed.
var passedMask [2][64]board.Bitboard

func init() {
	for sq := board.A1; sq <= board.H8; sq++ {
		if (sq.File()+sq.Rank())%2 == 1 {
			lightSquares |= board.Bit(sq)
		}

		span := board.FileMask[sq.File()]
		if sq.File() > 0 {
			span |= board.FileMask[sq.File()-1]
		}
		if sq.File() < 7 {
			span |= board.FileMask[sq.File()+1]
		}
		var ahead, behind board.Bitboard
		for r := sq.Rank() + 1; r < 8; r++ {
			ahead |= board.RankMask[r]
		}
		for r := 0; r < sq.Rank(); r++ {
			behind |= board.RankMask[r]
		}
		passedMask[board.White][sq] = span & ahead
		passedMask[board.Black][sq] = span & behind
	}
}

// Piece-square tables, indexed from White's perspective; Black pieces
// index them through the vertical flip.

var pawnPSTMg = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	60, 60, 60, 70, 70, 60, 60, 60,
	20, 25, 40, 50, 50, 40, 25, 20,
	10, 15, 25, 40, 40, 25, 15, 10,
	5, 10, 20, 35, 35, 20, 10, 5,
	3, 5, 10, 20, 20, 10, 5, 3,
	5, 10, 0, -15, -15, 0, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var pawnPSTEg = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	80, 80, 80, 80, 80, 80, 80, 80,
	50, 50, 50, 50, 50, 50, 50, 50,
	30, 30, 30, 30, 30, 30, 30, 30,
	15, 15, 15, 15, 15, 15, 15, 15,
	5, 5, 5, 5, 5, 5, 5, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 5, 10, 10, 5, -20, -40,
	-30, 5, 20, 25, 25, 20, 5, -30,
	-30, 10, 25, 35, 35, 25, 10, -30,
	-30, 10, 25, 35, 35, 25, 10, -30,
	-30, 5, 20, 25, 25, 20, 5, -30,
	-40, -20, 5, 10, 10, 5, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 0, 15, 15, 15, 15, 0, -10,
	-10, 5, 15, 15, 15, 15, 5, -10,
	-10, 0, 10, 15, 15, 10, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	10, 10, 10, 10, 10, 10, 10, 10,
	15, 20, 20, 20, 20, 20, 20, 15,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 5, 10, 10, 5, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	-5, 0, 5, 5, 5, 5, 0, -5,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingPSTMg = [64]int{
	-40, -40, -40, -50, -50, -40, -40, -40,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -30, -30, -20, -20, -10,
	-10, -15, -15, -20, -20, -15, -15, -10,
	0, 0, -5, -10, -10, -5, 0, 0,
	15, 15, 0, -5, -5, 0, 15, 15,
	20, 35, 15, 0, 0, 15, 35, 20,
}

var kingPSTEg = [64]int{
	-50, -30, -20, -10, -10, -20, -30, -50,
	-30, -10, 0, 10, 10, 0, -10, -30,
	-20, 0, 20, 30, 30, 20, 0, -20,
	-10, 10, 30, 40, 40, 30, 10, -10,
	-10, 10, 30, 40, 40, 30, 10, -10,
	-20, 0, 20, 30, 30, 20, 0, -20,
	-30, -10, 0, 10, 10, 0, -10, -30,
	-50, -30, -20, -10, -10, -20, -30, -50,
}

// gamePhase returns 0 for full-board middlegames rising to 1 as the
// non-pawn material comes off.
func gamePhase(pos *board.Position) float64 {
	material := 0
	for c := board.White; c <= board.Black; c++ {
		material += pos.Pieces[c][board.Knight].Count()
		material += pos.Pieces[c][board.Bishop].Count()
		material += pos.Pieces[c][board.Rook].Count() * 2
		material += pos.Pieces[c][board.Queen].Count() * 4
	}
	phase := 1 - float64(material)/24
	if phase < 0 {
		return 0
	}
	return phase
}

func pstSquare(sq board.Square, c board.Color) board.Square {
	if c == board.Black {
		return sq.Flip()
	}
	return sq
}

func pstValue(pt board.PieceType, psq board.Square, tau float64) int {
	switch pt {
	case board.Pawn:
		return taper(pawnPSTMg[psq], pawnPSTEg[psq], tau)
	case board.Knight:
		return knightPST[psq]
	case board.Bishop:
		return bishopPST[psq]
	case board.Rook:
		return rookPST[psq]
	case board.Queen:
		return queenPST[psq]
	case board.King:
		return taper(kingPSTMg[psq], kingPSTEg[psq], tau)
	}
	return 0
}

func taper(mg, eg int, tau float64) int {
	return int(math.Round(float64(mg)*(1-tau) + float64(eg)*tau))
}

// Evaluate scores a quiescent position in centipawns from the side to
// move's perspective; larger is better for the mover.
func Evaluate(pos *board.Position) int {
	return evaluate(pos, nil)
}

func evaluate(pos *board.Position, cache *PawnCache) int {
	if !pos.HasLegalMoves() {
		if pos.InCheck() {
			return -MateScore
		}
		return 0 // stalemate
	}
	if pos.IsInsufficientMaterial() || pos.IsFiftyMoves() || pos.IsTwofoldRepetition() {
		return 0
	}

	tau := gamePhase(pos)
	score := 0

	for c := board.White; c <= board.Black; c++ {
		colorScore := 0
		for pt := board.Pawn; pt <= board.King; pt++ {
			bb := pos.Pieces[c][pt]
			for bb != 0 {
				sq := bb.Pop()
				colorScore += pieceValues[pt] + pstValue(pt, pstSquare(sq, c), tau)
			}
		}
		score += signed(c, colorScore)
	}

	score += developmentScore(pos, tau)
	score += centerControl(pos)
	score += mobilityScore(pos)
	score += pawnStructure(pos, cache)
	score += passedPawns(pos, tau)
	score += kingSafety(pos, tau)
	score += pieceFeatures(pos)
	score += threats(pos)
	score += trappedPieces(pos)
	score += coordination(pos)

	if pos.SideToMove == board.White {
		score += tempoBonus
	} else {
		score -= tempoBonus
	}

	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}

func signed(c board.Color, v int) int {
	if c == board.Black {
		return -v
	}
	return v
}

// developmentScore rewards getting the pieces out and the king safe;
// the term fades out smoothly over tau 0.3..0.6.
func developmentScore(pos *board.Position, tau float64) int {
	if tau > 0.6 {
		return 0
	}
	weight := (0.6 - tau) / 0.3
	if weight > 1 {
		weight = 1
	}

	score := 0
	for c := board.White; c <= board.Black; c++ {
		backRank := board.RankMask[0]
		if c == board.Black {
			backRank = board.RankMask[7]
		}
		dev := 0

		minors := pos.Pieces[c][board.Knight] | pos.Pieces[c][board.Bishop]
		undeveloped := (minors & backRank).Count()
		dev -= 25 * undeveloped

		ksq := pos.KingSquare[c]
		castledSquare := ksq.RelativeRank(c) == 0 && (ksq.File() == 2 || ksq.File() == 6)
		rightsGone := !pos.CastlingRights.CanCastle(c, true) && !pos.CastlingRights.CanCastle(c, false)
		kingHome := ksq.RelativeRank(c) == 0 && ksq.File() == 4
		if castledSquare {
			dev += 40
		} else if rightsGone && kingHome {
			dev -= 40
		}

		// An early queen sortie while the minors sit at home.
		if queens := pos.Pieces[c][board.Queen]; queens != 0 {
			if queens.First().RelativeRank(c) > 1 {
				dev -= 15 * undeveloped
			}
		}

		// Central pawns still at home with the square ahead occupied.
		for _, file := range []int{3, 4} {
			home := board.SquareOf(file, 1)
			ahead := board.SquareOf(file, 2)
			if c == board.Black {
				home = board.SquareOf(file, 6)
				ahead = board.SquareOf(file, 5)
			}
			if pos.Pieces[c][board.Pawn].Has(home) && !pos.IsEmpty(ahead) {
				dev -= 20
			}
		}

		score += signed(c, int(float64(dev)*weight))
	}
	return score
}

// centerControl scores occupation of and attacks on the center.
func centerControl(pos *board.Position) int {
	score := 0

	for bb := centerBB & (pos.Pieces[board.White][board.Pawn] | pos.Pieces[board.Black][board.Pawn]); bb != 0; {
		sq := bb.Pop()
		score += signed(pos.PieceAt(sq).Color(), 25)
	}

	for c := board.White; c <= board.Black; c++ {
		attacks := 0
		for bb := centerBB; bb != 0; {
			attacks += 5 * pos.Attackers(c, bb.Pop()).Count()
		}
		for bb := extendedCenterBB; bb != 0; {
			attacks += 2 * pos.Attackers(c, bb.Pop()).Count()
		}
		score += signed(c, attacks)
	}
	return score
}

// mobilityScore counts attacked squares per piece, weighted by type.
func mobilityScore(pos *board.Position) int {
	score := 0
	for c := board.White; c <= board.Black; c++ {
		mob := 0
		for pt := board.Knight; pt <= board.Queen; pt++ {
			for bb := pos.Pieces[c][pt]; bb != 0; {
				mob += mobilityWeight[pt] * pos.Attacks(bb.Pop()).Count()
			}
		}
		score += signed(c, mob)
	}
	return score
}

// pawnStructure scores the king-independent pawn terms: doubled,
// isolated, backward, and chain membership. The result depends only on
// the pawn formation, so it is cached by the pawn key.
func pawnStructure(pos *board.Position, cache *PawnCache) int {
	if cache != nil {
		if score, ok := cache.probe(pos.PawnKey); ok {
			return score
		}
	}

	score := 0
	for c := board.White; c <= board.Black; c++ {
		pawns := pos.Pieces[c][board.Pawn]

		var perFile [8]int
		for bb := pawns; bb != 0; {
			perFile[bb.Pop().File()]++
		}

		colorScore := 0
		for bb := pawns; bb != 0; {
			sq := bb.Pop()
			file := sq.File()

			if perFile[file] > 1 {
				colorScore -= 15
			}

			hasNeighbor := (file > 0 && perFile[file-1] > 0) || (file < 7 && perFile[file+1] > 0)
			if !hasNeighbor {
				colorScore -= 20
			}

			// Defended by an own pawn: part of a chain.
			colorScore += 6 * (board.PawnAttacks(sq, c.Other()) & pawns).Count()

			if hasNeighbor && isBackward(pawns, sq, c, perFile) {
				colorScore -= 10
			}
		}
		score += signed(c, colorScore)
	}

	if cache != nil {
		cache.store(pos.PawnKey, score)
	}
	return score
}

// isBackward: the pawn has neighbors, but every one of them is already
// further advanced, so it cannot be defended on its way forward.
func isBackward(pawns board.Bitboard, sq board.Square, c board.Color, perFile [8]int) bool {
	myRank := sq.RelativeRank(c)
	for _, adj := range []int{sq.File() - 1, sq.File() + 1} {
		if adj < 0 || adj > 7 || perFile[adj] == 0 {
			continue
		}
		for bb := pawns & board.FileMask[adj]; bb != 0; {
			if bb.Pop().RelativeRank(c) <= myRank {
				return false
			}
		}
	}
	return true
}

// passedPawns scores passed pawns with their phase-scaled rank bonus
// and the king-race, support, blockade, and connection terms.
func passedPawns(pos *board.Position, tau float64) int {
	score := 0
	for c := board.White; c <= board.Black; c++ {
		them := c.Other()
		pawns := pos.Pieces[c][board.Pawn]
		enemyPawns := pos.Pieces[them][board.Pawn]

		colorScore := 0
		for bb := pawns; bb != 0; {
			sq := bb.Pop()
			if passedMask[c][sq]&enemyPawns != 0 {
				continue
			}

			relRank := sq.RelativeRank(c)
			bonus := int(float64(passedPawnBonus[relRank]) * (1 + 0.5*tau))

			promoRank := 7
			if c == board.Black {
				promoRank = 0
			}
			promoSq := board.SquareOf(sq.File(), promoRank)

			if board.Distance(pos.KingSquare[them], promoSq) > board.Distance(sq, promoSq)+1 {
				bonus += int(50 * tau) // enemy king loses the race
			}
			if board.Distance(pos.KingSquare[c], sq) <= 2 {
				bonus += int(20 * tau)
			}

			aheadRank := sq.Rank() + 1
			if c == board.Black {
				aheadRank = sq.Rank() - 1
			}
			if aheadRank >= 0 && aheadRank <= 7 {
				ahead := board.SquareOf(sq.File(), aheadRank)
				if pos.Occupied[them].Has(ahead) {
					bonus -= 30 // blockaded
				}
			}
			colorScore += bonus

			// Connected passer on an adjacent file, same rank.
			for _, adj := range []int{sq.File() - 1, sq.File() + 1} {
				if adj >= 0 && adj <= 7 && pawns.Has(board.SquareOf(adj, sq.Rank())) {
					colorScore += 15
				}
			}
		}
		score += signed(c, colorScore)
	}
	return score
}

// kingSafety scores the pawn shield, open files near the king, and
// enemy piece pressure on the king zone; fades out over tau 0.4..0.9.
func kingSafety(pos *board.Position, tau float64) int {
	if tau > 0.9 {
		return 0
	}
	weight := (0.9 - tau) / 0.5
	if weight > 1 {
		weight = 1
	}

	score := 0
	for c := board.White; c <= board.Black; c++ {
		them := c.Other()
		ksq := pos.KingSquare[c]
		kFile, kRank := ksq.File(), ksq.Rank()
		fwd := 1
		if c == board.Black {
			fwd = -1
		}
		safety := 0

		ownPawns := pos.Pieces[c][board.Pawn]
		enemyPawns := pos.Pieces[them][board.Pawn]

		for f := max(0, kFile-1); f <= min(7, kFile+1); f++ {
			for off := 1; off <= 2; off++ {
				r := kRank + fwd*off
				if r < 0 || r > 7 {
					continue
				}
				if ownPawns.Has(board.SquareOf(f, r)) {
					if off == 1 {
						safety += 12
					} else {
						safety += 6
					}
					break
				}
			}
		}

		for f := max(0, kFile-1); f <= min(7, kFile+1); f++ {
			fileBB := board.FileMask[f]
			switch {
			case ownPawns&fileBB == 0 && enemyPawns&fileBB == 0:
				safety -= 25
			case ownPawns&fileBB == 0:
				safety -= 15
			}
		}

		// Enemy non-pawn attacks into the 5x5 zone around the king.
		attackers := 0
		for f := max(0, kFile-2); f <= min(7, kFile+2); f++ {
			for r := max(0, kRank-2); r <= min(7, kRank+2); r++ {
				atk := pos.Attackers(them, board.SquareOf(f, r))
				attackers += (atk &^ enemyPawns).Count()
			}
		}
		safety -= 8 * attackers

		score += signed(c, int(float64(safety)*weight))
	}
	return score
}

// pieceFeatures scores the bishop pair, bad bishops, rook files, rooks
// on the seventh, and knight outposts.
func pieceFeatures(pos *board.Position) int {
	score := 0
	for c := board.White; c <= board.Black; c++ {
		them := c.Other()
		ownPawns := pos.Pieces[c][board.Pawn]
		enemyPawns := pos.Pieces[them][board.Pawn]
		colorScore := 0

		bishops := pos.Pieces[c][board.Bishop]
		if bishops.Count() >= 2 {
			colorScore += 45
		}
		for bb := bishops; bb != 0; {
			sq := bb.Pop()
			sameColor := lightSquares
			if !lightSquares.Has(sq) {
				sameColor = ^lightSquares
			}
			colorScore -= 5 * (ownPawns & sameColor).Count()
		}

		// The seventh rank and the two back ranks from c's side.
		seventh := 6
		lastTwo := board.RankMask[6] | board.RankMask[7]
		if c == board.Black {
			seventh = 1
			lastTwo = board.RankMask[1] | board.RankMask[0]
		}

		for bb := pos.Pieces[c][board.Rook]; bb != 0; {
			sq := bb.Pop()
			fileBB := board.FileMask[sq.File()]
			switch {
			case ownPawns&fileBB == 0 && enemyPawns&fileBB == 0:
				colorScore += 25
			case ownPawns&fileBB == 0:
				colorScore += 12
			}

			if sq.Rank() == seventh {
				bonus := 20
				if lastTwo.Has(pos.KingSquare[them]) {
					bonus += 30
				}
				if enemyPawns&lastTwo != 0 {
					bonus += 15
				}
				colorScore += bonus
			}
		}

		for bb := pos.Pieces[c][board.Knight]; bb != 0; {
			sq := bb.Pop()
			relRank := sq.RelativeRank(c)
			if relRank < 4 {
				continue
			}
			protected := board.PawnAttacks(sq, them)&ownPawns != 0
			if protected && !pawnCanAttack(enemyPawns, sq, them) {
				colorScore += 15 + 3*relRank
			}
		}

		score += signed(c, colorScore)
	}
	return score
}

// pawnCanAttack reports whether any pawn of color c could ever attack
// sq by advancing: an adjacent-file pawn still behind the square from
// c's point of view.
func pawnCanAttack(pawns board.Bitboard, sq board.Square, c board.Color) bool {
	for _, adj := range []int{sq.File() - 1, sq.File() + 1} {
		if adj < 0 || adj > 7 {
			continue
		}
		for bb := pawns & board.FileMask[adj]; bb != 0; {
			psq := bb.Pop()
			if c == board.White && psq.Rank() < sq.Rank() {
				return true
			}
			if c == board.Black && psq.Rank() > sq.Rank() {
				return true
			}
		}
	}
	return false
}

// threats penalizes hanging pieces and pieces attacked by something
// cheaper than themselves.
func threats(pos *board.Position) int {
	score := 0
	for c := board.White; c <= board.Black; c++ {
		them := c.Other()
		colorScore := 0
		for pt := board.Pawn; pt <= board.Queen; pt++ {
			for bb := pos.Pieces[c][pt]; bb != 0; {
				sq := bb.Pop()
				attackers := pos.Attackers(them, sq)
				if attackers == 0 {
					continue
				}
				if pos.Attackers(c, sq) == 0 {
					colorScore -= pieceValues[pt] / 4
					continue
				}
				cheapest := KingValue
				for atk := attackers; atk != 0; {
					v := pieceValues[pos.PieceAt(atk.Pop()).Type()]
					if v < cheapest {
						cheapest = v
					}
				}
				if cheapest < pieceValues[pt] {
					colorScore -= (pieceValues[pt] - cheapest) / 8
				}
			}
		}
		score += signed(c, colorScore)
	}
	return score
}

// trappedPieces detects the classic a7/h7 trapped bishop pattern and
// knights stuck in a corner.
func trappedPieces(pos *board.Position) int {
	score := 0
	for c := board.White; c <= board.Black; c++ {
		them := c.Other()
		colorScore := 0

		enemyPawns := pos.Pieces[them][board.Pawn]
		for bb := pos.Pieces[c][board.Bishop]; bb != 0; {
			sq := bb.Pop()
			file, rank := sq.File(), sq.Rank()
			switch {
			case c == board.White && file == 0 && rank >= 5 && enemyPawns.Has(board.B6):
				colorScore -= 150
			case c == board.White && file == 7 && rank >= 5 && enemyPawns.Has(board.G6):
				colorScore -= 150
			case c == board.Black && file == 0 && rank <= 2 && enemyPawns.Has(board.B3):
				colorScore -= 150
			case c == board.Black && file == 7 && rank <= 2 && enemyPawns.Has(board.G3):
				colorScore -= 150
			}
		}

		corners := board.Bit(board.A1) | board.Bit(board.H1) | board.Bit(board.A8) | board.Bit(board.H8)
		for bb := pos.Pieces[c][board.Knight] & corners; bb != 0; {
			sq := bb.Pop()
			if legalMovesFrom(pos, sq) <= 2 {
				colorScore -= 100
			}
		}

		score += signed(c, colorScore)
	}
	return score
}

// legalMovesFrom counts the legal moves of the piece on sq. A piece of
// the side not to move is counted as if its side had the move.
func legalMovesFrom(pos *board.Position, sq board.Square) int {
	if pos.PieceAt(sq).Color() != pos.SideToMove {
		pos.MakeNullMove()
		defer pos.UnmakeMove()
	}
	moves := pos.LegalMoves()
	count := 0
	for i := 0; i < moves.Len(); i++ {
		if moves.Get(i).From() == sq {
			count++
		}
	}
	return count
}

// coordination rewards rooks on touching files and queen-bishop
// batteries sharing a diagonal.
func coordination(pos *board.Position) int {
	score := 0
	for c := board.White; c <= board.Black; c++ {
		colorScore := 0

		var rooks []board.Square
		for bb := pos.Pieces[c][board.Rook]; bb != 0; {
			rooks = append(rooks, bb.Pop())
		}
		for i := 0; i < len(rooks); i++ {
			for j := i + 1; j < len(rooks); j++ {
				if absInt(rooks[i].File()-rooks[j].File()) <= 1 {
					colorScore += 15
				}
			}
		}

		for qbb := pos.Pieces[c][board.Queen]; qbb != 0; {
			qsq := qbb.Pop()
			for bbb := pos.Pieces[c][board.Bishop]; bbb != 0; {
				bsq := bbb.Pop()
				if absInt(qsq.File()-bsq.File()) == absInt(qsq.Rank()-bsq.Rank()) {
					colorScore += 20
				}
			}
		}

		score += signed(c, colorScore)
	}
	return score
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
