package engine

import (
	"time"

	"go-pairs/internal/board"
)

// Snapshot is the read-only view the presentation layer renders from.
// Cards are copied, so nothing done to a snapshot reaches the engine.
type Snapshot struct {
	Phase        string
	Difficulty   string
	Rows, Cols   int
	Score        int
	Moves        int
	MatchedPairs int
	TotalPairs   int
	Level        int
	Elapsed      time.Duration
	Best         int
	NewBest      bool
	Cards        []board.Card
}

// Snapshot captures the current engine state for rendering and tests.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:        e.fsm.Current(),
		Difficulty:   e.profile.Name,
		Score:        e.score,
		Moves:        e.moves,
		MatchedPairs: e.matchedPairs,
		Level:        e.level,
		Elapsed:      e.elapsed,
		Best:         e.best,
		NewBest:      e.newBest,
	}
	if e.board != nil {
		snap.Rows = e.board.Rows
		snap.Cols = e.board.Cols
		snap.TotalPairs = e.board.Pairs()
		snap.Cards = make([]board.Card, len(e.board.Cards))
		copy(snap.Cards, e.board.Cards)
	}
	return snap
}
