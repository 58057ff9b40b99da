package board

// LegalMoves generates every legal move for the side to move.
func (p *Position) LegalMoves() *MoveList {
	var pseudo MoveList
	p.generateAll(&pseudo)
	return p.keepLegal(&pseudo)
}

// LoudMoves generates legal captures and promotions only; the
// quiescence search runs on these.
func (p *Position) LoudMoves() *MoveList {
	var pseudo MoveList
	p.generateLoud(&pseudo)
	return p.keepLegal(&pseudo)
}

// HasLegalMoves reports whether any legal move exists, stopping at the
// first one found.
func (p *Position) HasLegalMoves() bool {
	var pseudo MoveList
	p.generateAll(&pseudo)
	for i := 0; i < pseudo.Len(); i++ {
		if p.isLegal(pseudo.Get(i)) {
			return true
		}
	}
	return false
}

func (p *Position) generateAll(ml *MoveList) {
	us := p.SideToMove
	occupied := p.AllOccupied
	enemies := p.Occupied[us.Other()]

	p.generatePawnMoves(ml, us, enemies, occupied)
	p.generatePieceMoves(ml, us, ^p.Occupied[us], occupied)
	p.generateCastling(ml, us)
}

func (p *Position) generateLoud(ml *MoveList) {
	us := p.SideToMove
	occupied := p.AllOccupied
	enemies := p.Occupied[us.Other()]

	p.generatePawnCaptures(ml, us, enemies, occupied)
	p.generatePieceMoves(ml, us, enemies, occupied)
}

// generatePieceMoves emits knight through king moves whose destination
// falls inside targets.
func (p *Position) generatePieceMoves(ml *MoveList, us Color, targets, occupied Bitboard) {
	for pieces := p.Pieces[us][Knight]; pieces != 0; {
		from := pieces.Pop()
		for bb := KnightAttacks(from) & targets; bb != 0; {
			ml.Add(NewMove(from, bb.Pop()))
		}
	}
	for pieces := p.Pieces[us][Bishop]; pieces != 0; {
		from := pieces.Pop()
		for bb := bishopAttacks(from, occupied) & targets; bb != 0; {
			ml.Add(NewMove(from, bb.Pop()))
		}
	}
	for pieces := p.Pieces[us][Rook]; pieces != 0; {
		from := pieces.Pop()
		for bb := rookAttacks(from, occupied) & targets; bb != 0; {
			ml.Add(NewMove(from, bb.Pop()))
		}
	}
	for pieces := p.Pieces[us][Queen]; pieces != 0; {
		from := pieces.Pop()
		for bb := (bishopAttacks(from, occupied) | rookAttacks(from, occupied)) & targets; bb != 0; {
			ml.Add(NewMove(from, bb.Pop()))
		}
	}
	from := p.KingSquare[us]
	for bb := KingAttacks(from) & targets; bb != 0; {
		ml.Add(NewMove(from, bb.Pop()))
	}
}

func (p *Position) generatePawnMoves(ml *MoveList, us Color, enemies, occupied Bitboard) {
	pawns := p.Pieces[us][Pawn]
	empty := ^occupied

	var push1, push2, capL, capR, promoRank Bitboard
	var fwd int
	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		capL = pawns.NorthWest() & enemies
		capR = pawns.NorthEast() & enemies
		promoRank = Rank8
		fwd = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		capL = pawns.SouthWest() & enemies
		capR = pawns.SouthEast() & enemies
		promoRank = Rank1
		fwd = -8
	}

	for bb := push1 &^ promoRank; bb != 0; {
		to := bb.Pop()
		ml.Add(NewMove(Square(int(to)-fwd), to))
	}
	for bb := push2; bb != 0; {
		to := bb.Pop()
		ml.Add(NewMove(Square(int(to)-2*fwd), to))
	}
	for bb := capL &^ promoRank; bb != 0; {
		to := bb.Pop()
		ml.Add(NewMove(Square(int(to)-fwd+1), to))
	}
	for bb := capR &^ promoRank; bb != 0; {
		to := bb.Pop()
		ml.Add(NewMove(Square(int(to)-fwd-1), to))
	}
	for bb := push1 & promoRank; bb != 0; {
		to := bb.Pop()
		addPromotions(ml, Square(int(to)-fwd), to)
	}
	for bb := capL & promoRank; bb != 0; {
		to := bb.Pop()
		addPromotions(ml, Square(int(to)-fwd+1), to)
	}
	for bb := capR & promoRank; bb != 0; {
		to := bb.Pop()
		addPromotions(ml, Square(int(to)-fwd-1), to)
	}

	p.generateEnPassant(ml, us, pawns)
}

// generatePawnCaptures emits pawn captures, capture promotions, and
// quiet push promotions (loud for quiescence purposes).
func (p *Position) generatePawnCaptures(ml *MoveList, us Color, enemies, occupied Bitboard) {
	pawns := p.Pieces[us][Pawn]
	empty := ^occupied

	var push1, capL, capR, promoRank Bitboard
	var fwd int
	if us == White {
		push1 = pawns.North() & empty
		capL = pawns.NorthWest() & enemies
		capR = pawns.NorthEast() & enemies
		promoRank = Rank8
		fwd = 8
	} else {
		push1 = pawns.South() & empty
		capL = pawns.SouthWest() & enemies
		capR = pawns.SouthEast() & enemies
		promoRank = Rank1
		fwd = -8
	}

	for bb := capL &^ promoRank; bb != 0; {
		to := bb.Pop()
		ml.Add(NewMove(Square(int(to)-fwd+1), to))
	}
	for bb := capR &^ promoRank; bb != 0; {
		to := bb.Pop()
		ml.Add(NewMove(Square(int(to)-fwd-1), to))
	}
	for bb := capL & promoRank; bb != 0; {
		to := bb.Pop()
		addPromotions(ml, Square(int(to)-fwd+1), to)
	}
	for bb := capR & promoRank; bb != 0; {
		to := bb.Pop()
		addPromotions(ml, Square(int(to)-fwd-1), to)
	}
	for bb := push1 & promoRank; bb != 0; {
		to := bb.Pop()
		addPromotions(ml, Square(int(to)-fwd), to)
	}

	p.generateEnPassant(ml, us, pawns)
}

func (p *Position) generateEnPassant(ml *MoveList, us Color, pawns Bitboard) {
	if p.EnPassant == NoSquare {
		return
	}
	epBB := Bit(p.EnPassant)
	var attackers Bitboard
	if us == White {
		attackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
	} else {
		attackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
	}
	for attackers != 0 {
		ml.Add(NewEnPassant(attackers.Pop(), p.EnPassant))
	}
}

func addPromotions(ml *MoveList, from, to Square) {
	ml.Add(NewPromotion(from, to, Queen))
	ml.Add(NewPromotion(from, to, Rook))
	ml.Add(NewPromotion(from, to, Bishop))
	ml.Add(NewPromotion(from, to, Knight))
}

func (p *Position) generateCastling(ml *MoveList, us Color) {
	them := us.Other()
	rank := 0
	if us == Black {
		rank = 7
	}
	e := SquareOf(4, rank)

	if p.CastlingRights.CanCastle(us, true) {
		f, g := SquareOf(5, rank), SquareOf(6, rank)
		if p.AllOccupied&(Bit(f)|Bit(g)) == 0 &&
			!p.IsAttacked(e, them) && !p.IsAttacked(f, them) && !p.IsAttacked(g, them) {
			ml.Add(NewCastling(e, g))
		}
	}
	if p.CastlingRights.CanCastle(us, false) {
		b, c, d := SquareOf(1, rank), SquareOf(2, rank), SquareOf(3, rank)
		if p.AllOccupied&(Bit(b)|Bit(c)|Bit(d)) == 0 &&
			!p.IsAttacked(e, them) && !p.IsAttacked(d, them) && !p.IsAttacked(c, them) {
			ml.Add(NewCastling(e, c))
		}
	}
}

// keepLegal filters a pseudo-legal list down to the moves that leave
// the own king safe.
func (p *Position) keepLegal(pseudo *MoveList) *MoveList {
	legal := &MoveList{}
	for i := 0; i < pseudo.Len(); i++ {
		if m := pseudo.Get(i); p.isLegal(m) {
			legal.Add(m)
		}
	}
	return legal
}

// isLegal tests a pseudo-legal move on a scratch board: apply it
// without hashing or state tracking and ask whether the own king ends
// up attacked.
func (p *Position) isLegal(m Move) bool {
	us := p.SideToMove
	if m.IsCastling() {
		return true // transit squares already vetted during generation
	}

	sb := newScratchBoard(p)
	sb.apply(m, us)
	return !sb.kingAttacked(us)
}

// GivesCheck reports whether the move checks the opponent.
func (p *Position) GivesCheck(m Move) bool {
	us := p.SideToMove
	sb := newScratchBoard(p)
	sb.apply(m, us)
	return sb.kingAttacked(us.Other())
}

// Perft counts leaf nodes of the legal move tree to the given depth;
// the standard cross-check for move generation.
func (p *Position) Perft(depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := p.LegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}
	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		p.MakeMove(moves.Get(i))
		nodes += p.Perft(depth - 1)
		p.UnmakeMove()
	}
	return nodes
}
