package nimzo_test

import (
	"testing"

	"github.com/dkoval/nimzo"
)

func TestFacadeSearch(t *testing.T) {
	pos := nimzo.NewPosition()
	eng := nimzo.NewEngine(nimzo.Config{MaxDepth: 3})

	result := eng.Search(pos)
	if result.BestMove == nimzo.NoMove {
		t.Fatal("no move for the starting position")
	}
	if !pos.LegalMoves().Contains(result.BestMove) {
		t.Errorf("best move %s is not legal", result.BestMove)
	}
}

func TestFacadeFEN(t *testing.T) {
	pos, err := nimzo.FromFEN("6k1/5ppp/8/8/8/8/8/R6K w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	m, err := nimzo.ParseMove("a1a8", pos)
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	eng := nimzo.NewEngine(nimzo.Config{MaxDepth: 3})
	if eng.BestMove(pos) != m {
		t.Error("facade search missed the back-rank mate")
	}
}

func TestFacadeEvaluateSign(t *testing.T) {
	pos, err := nimzo.FromFEN("4k3/8/8/8/8/8/3Q4/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("FromFEN: %v", err)
	}
	if nimzo.Evaluate(pos) <= 0 {
		t.Error("queen-up side to move must evaluate positive")
	}
}
