package engine

import (
	"testing"

	"github.com/dkoval/nimzo/internal/board"
)

func TestTransTableProbeStore(t *testing.T) {
	tt := NewTransTable(1024)
	m := board.NewMove(board.E2, board.E4)

	if _, ok := tt.Probe(42); ok {
		t.Fatal("probe of an empty table hit")
	}

	tt.Store(42, 5, 120, TTExact, m)
	entry, ok := tt.Probe(42)
	if !ok {
		t.Fatal("stored entry not found")
	}
	if entry.BestMove != m || entry.Score != 120 || entry.Depth != 5 || entry.Flag != TTExact {
		t.Errorf("entry round trip mangled: %+v", entry)
	}
}

func TestTransTableKeyCollision(t *testing.T) {
	tt := NewTransTable(16)
	// Same slot, different keys: the mismatch must read as a miss.
	tt.Store(3, 4, 50, TTExact, board.NoMove)
	if _, ok := tt.Probe(3 + 16); ok {
		t.Error("colliding key with different contents must miss")
	}
}

func TestTransTableReplacement(t *testing.T) {
	tt := NewTransTable(16)
	deep := board.NewMove(board.D2, board.D4)
	shallow := board.NewMove(board.G1, board.F3)

	// Within one search, deeper entries win the slot.
	tt.Store(7, 6, 80, TTExact, deep)
	tt.Store(7, 3, -20, TTUpperBound, shallow)
	entry, _ := tt.Probe(7)
	if entry.Depth != 6 || entry.BestMove != deep {
		t.Errorf("shallow store evicted a deeper same-age entry: %+v", entry)
	}

	// Equal depth replaces.
	tt.Store(7, 6, 95, TTLowerBound, shallow)
	entry, _ = tt.Probe(7)
	if entry.Score != 95 {
		t.Errorf("equal-depth store did not replace: %+v", entry)
	}

	// A new top-level search makes old entries fair game at any depth.
	tt.NextSearch()
	tt.Store(7, 1, 5, TTExact, shallow)
	entry, _ = tt.Probe(7)
	if entry.Depth != 1 || entry.Score != 5 {
		t.Errorf("aged entry survived a shallow store: %+v", entry)
	}
}

func TestTransTablePersistsAcrossAges(t *testing.T) {
	tt := NewTransTable(16)
	tt.Store(9, 4, 30, TTExact, board.NoMove)
	tt.NextSearch()
	if _, ok := tt.Probe(9); !ok {
		t.Error("aging must not evict entries, only deprioritize them")
	}
}

func TestTransTableClear(t *testing.T) {
	tt := NewTransTable(16)
	tt.Store(9, 4, 30, TTExact, board.NoMove)
	tt.Clear()
	if _, ok := tt.Probe(9); ok {
		t.Error("entry survived Clear")
	}
}

func TestDefaultCapacity(t *testing.T) {
	tt := NewTransTable(0)
	if tt.Capacity() != DefaultTTCapacity {
		t.Errorf("capacity = %d, want %d", tt.Capacity(), DefaultTTCapacity)
	}
}

// A mate score stored at one ply must read back correctly at another:
// the table keeps distance-from-node, the search works in
// distance-from-root.
func TestMateScorePlyAdjustment(t *testing.T) {
	rootScore := MateScore - 7 // mate found at ply 7
	stored := scoreToTT(rootScore, 7)
	if got := scoreFromTT(stored, 3); got != MateScore-3 {
		t.Errorf("mate rebased to ply 3 = %d, want %d", got, MateScore-3)
	}

	mated := -(MateScore - 6)
	stored = scoreToTT(mated, 6)
	if got := scoreFromTT(stored, 2); got != -(MateScore - 2) {
		t.Errorf("mated rebased to ply 2 = %d, want %d", got, -(MateScore - 2))
	}

	if got := scoreFromTT(scoreToTT(150, 9), 4); got != 150 {
		t.Errorf("normal score changed by adjustment: %d", got)
	}
}
