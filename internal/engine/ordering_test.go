package engine

import (
	"testing"

	"github.com/dkoval/nimzo/internal/board"
)

func scoreOf(t *testing.T, pos *board.Position, o *Orderer, uci string, ply int, ttMove, prevMove board.Move) int {
	t.Helper()
	m, err := board.ParseMove(uci, pos)
	if err != nil {
		t.Fatalf("ParseMove(%s): %v", uci, err)
	}
	moves := pos.LegalMoves()
	scores := o.ScoreMoves(pos, moves, ply, ttMove, prevMove)
	for i := 0; i < moves.Len(); i++ {
		if moves.Get(i) == m {
			return scores[i]
		}
	}
	t.Fatalf("%s is not legal here", uci)
	return 0
}

func TestHashMoveDominates(t *testing.T) {
	pos := board.NewPosition()
	o := NewOrderer()
	ttMove, _ := board.ParseMove("a2a3", pos) // deliberately quiet

	moves := pos.LegalMoves()
	scores := o.ScoreMoves(pos, moves, 0, ttMove, board.NoMove)
	Sort(moves, scores)
	if moves.Get(0) != ttMove {
		t.Errorf("hash move not ordered first, got %s", moves.Get(0))
	}
	if scores[0] != hashMoveScore {
		t.Errorf("hash move score = %d, want %d", scores[0], hashMoveScore)
	}
}

func TestCapturesOrderedByMVVLVA(t *testing.T) {
	// Pawn takes queen gets the full MVV-LVA score and ranks above a
	// quiet rook move.
	pos, err := board.ParseFEN("k7/8/3q4/2P5/8/8/8/K1R5 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	o := NewOrderer()

	pxq := scoreOf(t, pos, o, "c5d6", 0, board.NoMove, board.NoMove)
	if pxq != captureBase+10*QueenValue-PawnValue {
		t.Errorf("PxQ score = %d, want %d", pxq, captureBase+10*QueenValue-PawnValue)
	}

	quiet := scoreOf(t, pos, o, "c1c2", 0, board.NoMove, board.NoMove)
	if pxq <= quiet {
		t.Error("capture must outrank a quiet move")
	}
}

func TestEnPassantUsesPawnValues(t *testing.T) {
	pos, err := board.ParseFEN("k7/8/8/3pP3/8/8/8/K7 w - d6 0 2")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	o := NewOrderer()
	got := scoreOf(t, pos, o, "e5d6", 0, board.NoMove, board.NoMove)
	if got != captureBase+10*PawnValue-PawnValue {
		t.Errorf("en passant score = %d, want %d", got, captureBase+10*PawnValue-PawnValue)
	}
}

func TestPromotionBucket(t *testing.T) {
	pos, err := board.ParseFEN("k7/4P3/8/8/8/8/8/K7 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	o := NewOrderer()
	queen := scoreOf(t, pos, o, "e7e8q", 0, board.NoMove, board.NoMove)
	knight := scoreOf(t, pos, o, "e7e8n", 0, board.NoMove, board.NoMove)
	if queen != promotionBase+QueenValue {
		t.Errorf("queen promotion score = %d, want %d", queen, promotionBase+QueenValue)
	}
	if queen <= knight {
		t.Error("queen promotion must outrank underpromotion")
	}
}

func TestKillersAndCountermove(t *testing.T) {
	pos := board.NewPosition()
	o := NewOrderer()

	k0, _ := board.ParseMove("b1c3", pos)
	k1, _ := board.ParseMove("g1f3", pos)
	o.RecordKiller(k1, 4)
	o.RecordKiller(k0, 4) // most recent cutoff takes slot 0

	if got := scoreOf(t, pos, o, "b1c3", 4, board.NoMove, board.NoMove); got != killerScore0 {
		t.Errorf("killer slot 0 score = %d, want %d", got, killerScore0)
	}
	if got := scoreOf(t, pos, o, "g1f3", 4, board.NoMove, board.NoMove); got != killerScore1 {
		t.Errorf("killer slot 1 score = %d, want %d", got, killerScore1)
	}

	prev := board.NewMove(board.E7, board.E5)
	counter, _ := board.ParseMove("d2d4", pos)
	o.RecordCountermove(prev, counter)
	if got := scoreOf(t, pos, o, "d2d4", 4, board.NoMove, prev); got != countermoveScore {
		t.Errorf("countermove score = %d, want %d", got, countermoveScore)
	}
}

func TestHistoryBreaksQuietTies(t *testing.T) {
	pos := board.NewPosition()
	o := NewOrderer()

	m, _ := board.ParseMove("e2e4", pos)
	o.RecordHistory(m, 5)

	if got := scoreOf(t, pos, o, "e2e4", 0, board.NoMove, board.NoMove); got != 25 {
		t.Errorf("history score = %d, want depth^2 = 25", got)
	}
	if got := scoreOf(t, pos, o, "d2d4", 0, board.NoMove, board.NoMove); got != 0 {
		t.Errorf("untouched quiet move score = %d, want 0", got)
	}
}

func TestResetClearsTables(t *testing.T) {
	pos := board.NewPosition()
	o := NewOrderer()

	m, _ := board.ParseMove("e2e4", pos)
	o.RecordHistory(m, 6)
	o.RecordKiller(m, 2)
	o.RecordCountermove(board.NewMove(board.E7, board.E5), m)
	o.Reset()

	if got := scoreOf(t, pos, o, "e2e4", 2, board.NoMove, board.NewMove(board.E7, board.E5)); got != 0 {
		t.Errorf("score after reset = %d, want 0", got)
	}
}

func TestLoudOrderingIsMVVLVA(t *testing.T) {
	// Both the queen and a pawn hang; the queen capture comes first.
	pos, err := board.ParseFEN("k7/8/3q4/2P2p2/8/6N1/8/K7 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	o := NewOrderer()

	moves := pos.LoudMoves()
	scores := o.ScoreLoudMoves(pos, moves)
	Sort(moves, scores)
	if moves.Len() < 2 {
		t.Fatalf("expected at least two loud moves, got %d", moves.Len())
	}
	if got := moves.Get(0).String(); got != "c5d6" {
		t.Errorf("first loud move = %s, want c5d6 (pawn takes queen)", got)
	}
}
