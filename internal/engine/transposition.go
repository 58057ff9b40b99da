package engine

import (
	"github.com/dkoval/nimzo/internal/board"
)

// TTFlag classifies a stored score as exact or as a bound.
type TTFlag uint8

const (
	ttNone       TTFlag = iota // empty slot
	TTExact                    // alpha < score < beta was established
	TTLowerBound               // fail high: true score >= stored
	TTUpperBound               // fail low: true score <= stored
)

// TTEntry is one transposition table slot.
type TTEntry struct {
	Key      uint64
	BestMove board.Move
	Score    int32
	Depth    int8
	Flag     TTFlag
	Age      uint8
}

// TransTable is a fixed-capacity transposition table indexed by
// key mod capacity. Slots are allocated once at construction; storing
// into an occupied slot is decided by the replacement policy alone.
type TransTable struct {
	entries []TTEntry
	age     uint8
}

// DefaultTTCapacity is the default slot count.
const DefaultTTCapacity = 1 << 20

// NewTransTable allocates a table with the given slot count.
func NewTransTable(capacity int) *TransTable {
	if capacity <= 0 {
		capacity = DefaultTTCapacity
	}
	return &TransTable{entries: make([]TTEntry, capacity)}
}

// Probe returns the entry stored for key, if any. The caller decides
// whether the entry's depth makes its score usable or only the move.
func (tt *TransTable) Probe(key uint64) (TTEntry, bool) {
	entry := tt.entries[key%uint64(len(tt.entries))]
	if entry.Flag != ttNone && entry.Key == key {
		return entry, true
	}
	return TTEntry{}, false
}

// Store records a search result. An occupied slot is replaced when the
// new entry is at least as deep, or when the old entry is from an
// earlier top-level search.
func (tt *TransTable) Store(key uint64, depth, score int, flag TTFlag, best board.Move) {
	entry := &tt.entries[key%uint64(len(tt.entries))]
	if entry.Flag != ttNone && entry.Age == tt.age && depth < int(entry.Depth) {
		return
	}
	*entry = TTEntry{
		Key:      key,
		BestMove: best,
		Score:    int32(score),
		Depth:    int8(depth),
		Flag:     flag,
		Age:      tt.age,
	}
}

// NextSearch advances the age counter; called once per top-level
// search so stale entries lose their replacement priority.
func (tt *TransTable) NextSearch() {
	tt.age++
}

// Clear wipes the table. Meant for the boundary between unrelated
// games, never between iterative-deepening iterations.
func (tt *TransTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.age = 0
}

// Capacity returns the slot count.
func (tt *TransTable) Capacity() int {
	return len(tt.entries)
}

// Mate scores are stored relative to the node ("mate in N from here")
// rather than relative to the root, so an entry stays valid when the
// same position is reached at a different ply.

func scoreToTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}

func scoreFromTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}
