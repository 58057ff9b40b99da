package board

import (
	"fmt"
	"strings"
)

// SAN renders a move in Standard Algebraic Notation for the position
// it is played in.
func (p *Position) SAN(m Move) string {
	if m == NoMove {
		return "-"
	}

	from, to := m.From(), m.To()
	piece := p.PieceAt(from)
	if piece == NoPiece {
		return m.String()
	}

	var sb strings.Builder
	if m.IsCastling() {
		if to > from {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	} else {
		pt := piece.Type()
		if pt != Pawn {
			sb.WriteByte("PNBRQK"[pt])
			sb.WriteString(p.disambiguation(m, pt))
		}
		if m.IsCapture(p) {
			if pt == Pawn {
				sb.WriteByte('a' + byte(from.File()))
			}
			sb.WriteByte('x')
		}
		sb.WriteString(to.String())
		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[m.Promotion()])
		}
	}

	p.MakeMove(m)
	if p.IsCheckmate() {
		sb.WriteByte('#')
	} else if p.InCheck() {
		sb.WriteByte('+')
	}
	p.UnmakeMove()

	return sb.String()
}

// disambiguation returns the origin qualifier needed when another
// piece of the same type also reaches the destination.
func (p *Position) disambiguation(m Move, pt PieceType) string {
	from, to := m.From(), m.To()
	same := p.Pieces[p.SideToMove][pt]

	sameFile, sameRank, ambiguous := false, false, false
	moves := p.LegalMoves()
	for i := 0; i < moves.Len(); i++ {
		other := moves.Get(i)
		if other.To() != to || other.From() == from || !same.Has(other.From()) {
			continue
		}
		ambiguous = true
		if other.From().File() == from.File() {
			sameFile = true
		}
		if other.From().Rank() == from.Rank() {
			sameRank = true
		}
	}

	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string('a' + byte(from.File()))
	case !sameRank:
		return string('1' + byte(from.Rank()))
	}
	return from.String()
}

// ParseSAN resolves SAN text to a legal move of the position.
func (p *Position) ParseSAN(s string) (Move, error) {
	text := strings.TrimRight(strings.TrimSpace(s), "+#!?")

	if text == "O-O" || text == "0-0" {
		return p.findCastling(true)
	}
	if text == "O-O-O" || text == "0-0-0" {
		return p.findCastling(false)
	}

	promo := NoPieceType
	if idx := strings.IndexByte(text, '='); idx >= 0 && idx+1 < len(text) {
		switch text[idx+1] {
		case 'N':
			promo = Knight
		case 'B':
			promo = Bishop
		case 'R':
			promo = Rook
		case 'Q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("san: invalid promotion in %q", s)
		}
		text = text[:idx]
	}

	isCapture := strings.ContainsRune(text, 'x')
	text = strings.ReplaceAll(text, "x", "")

	pt := Pawn
	if len(text) > 0 {
		switch text[0] {
		case 'N':
			pt = Knight
		case 'B':
			pt = Bishop
		case 'R':
			pt = Rook
		case 'Q':
			pt = Queen
		case 'K':
			pt = King
		}
		if pt != Pawn {
			text = text[1:]
		}
	}

	if len(text) < 2 {
		return NoMove, fmt.Errorf("san: no destination in %q", s)
	}
	dest, err := ParseSquare(text[len(text)-2:])
	if err != nil {
		return NoMove, fmt.Errorf("san: %w", err)
	}
	text = text[:len(text)-2]

	fromFile, fromRank := -1, -1
	for _, c := range text {
		switch {
		case c >= 'a' && c <= 'h':
			fromFile = int(c - 'a')
		case c >= '1' && c <= '8':
			fromRank = int(c - '1')
		}
	}

	moves := p.LegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.To() != dest || p.PieceAt(m.From()).Type() != pt {
			continue
		}
		if fromFile >= 0 && m.From().File() != fromFile {
			continue
		}
		if fromRank >= 0 && m.From().Rank() != fromRank {
			continue
		}
		if isCapture && !m.IsCapture(p) {
			continue
		}
		if promo != NoPieceType && (!m.IsPromotion() || m.Promotion() != promo) {
			continue
		}
		return m, nil
	}
	return NoMove, fmt.Errorf("san: no legal move matches %q", s)
}

func (p *Position) findCastling(kingSide bool) (Move, error) {
	moves := p.LegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.IsCastling() && (m.To() > m.From()) == kingSide {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("san: castling not legal here")
}
