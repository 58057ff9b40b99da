// Package nimzo is a classical alpha-beta chess engine. The root
// package is a thin facade over the rules core in internal/board and
// the search core in internal/engine.
//
// Typical use:
//
//	pos := nimzo.NewPosition()
//	eng := nimzo.NewEngine(nimzo.Config{MaxDepth: 6})
//	result := eng.Search(pos)
package nimzo

import (
	"github.com/dkoval/nimzo/internal/board"
	"github.com/dkoval/nimzo/internal/engine"
)

// Core types, re-exported for hosts of the engine.
type (
	Config       = engine.Config
	Engine       = engine.Engine
	SearchResult = engine.SearchResult
	Position     = board.Position
	Move         = board.Move
)

// NoMove is the sentinel returned when a position has no legal moves.
const NoMove = board.NoMove

// NewEngine constructs an engine; zero-valued options pick defaults.
func NewEngine(cfg Config) *Engine {
	return engine.New(cfg)
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	return board.NewPosition()
}

// FromFEN builds a position from a FEN record.
func FromFEN(fen string) (*Position, error) {
	return board.ParseFEN(fen)
}

// ParseMove resolves UCI move text against a position.
func ParseMove(s string, pos *Position) (Move, error) {
	return board.ParseMove(s, pos)
}

// Evaluate returns the static evaluation of a position in centipawns
// from the side to move's perspective.
func Evaluate(pos *Position) int {
	return engine.Evaluate(pos)
}
