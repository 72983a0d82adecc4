// Package board deals and lays out the card grid for one play-through.
// It owns placement only: flip and match bookkeeping belongs to the
// engine, which mutates the cards through the board it holds.
package board

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// ErrInsufficientSymbols is returned by Generate when the symbol pool
// cannot cover the requested grid.
var ErrInsufficientSymbols = errors.New("insufficient symbols for board size")

// Card is a single cell of the board. Cards are created by Generate and
// mutated only by the engine that owns the board.
type Card struct {
	ID       int
	Symbol   string
	Row, Col int
	Rect     Rect
	Revealed bool
	Matched  bool
}

// Layout describes the canvas the board is placed on, in terminal cells.
type Layout struct {
	Width  int
	Height int
	Margin int // outer border on all four sides
	Gutter int // spacing between neighboring cards
}

// Board holds the cards of one play-through in row-major order, so a
// card's ID doubles as its index.
type Board struct {
	Rows  int
	Cols  int
	Cards []Card
}

// Generate deals a fresh board: the first rows*cols/2 symbols of the
// pool, each duplicated, shuffled uniformly over the grid, and placed
// into cell rectangles computed from the layout. Pool order decides
// which symbols appear at a given grid size, so larger boards reveal
// more of the pool.
func Generate(rows, cols int, pool []string, l Layout, rng *rand.Rand) (*Board, error) {
	total := rows * cols
	if total < 4 || total%2 != 0 {
		return nil, fmt.Errorf("board %dx%d: cell count must be even and at least 4", rows, cols)
	}
	pairs := total / 2
	if len(pool) < pairs {
		return nil, fmt.Errorf("%w: %dx%d grid needs %d distinct symbols, pool has %d",
			ErrInsufficientSymbols, rows, cols, pairs, len(pool))
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	symbols := make([]string, 0, total)
	symbols = append(symbols, pool[:pairs]...)
	symbols = append(symbols, pool[:pairs]...)
	rng.Shuffle(len(symbols), func(i, j int) {
		symbols[i], symbols[j] = symbols[j], symbols[i]
	})

	b := &Board{Rows: rows, Cols: cols, Cards: make([]Card, total)}
	for i, sym := range symbols {
		b.Cards[i] = Card{
			ID:     i,
			Symbol: sym,
			Row:    i / cols,
			Col:    i % cols,
		}
	}
	b.Relayout(l)
	return b, nil
}

// Relayout recomputes every card's rectangle for a new canvas size.
// Symbol assignment and flip state are untouched, so a resize never
// reshuffles. A canvas too small for the grid degrades to zero-size
// rectangles, which hit-test as misses.
func (b *Board) Relayout(l Layout) {
	cellW := (l.Width - 2*l.Margin - (b.Cols-1)*l.Gutter) / b.Cols
	cellH := (l.Height - 2*l.Margin - (b.Rows-1)*l.Gutter) / b.Rows
	if cellW < 0 {
		cellW = 0
	}
	if cellH < 0 {
		cellH = 0
	}

	// Center the grid in the space the integer division left over.
	gridW := b.Cols*cellW + (b.Cols-1)*l.Gutter
	gridH := b.Rows*cellH + (b.Rows-1)*l.Gutter
	offX := l.Margin + (l.Width-2*l.Margin-gridW)/2
	offY := l.Margin + (l.Height-2*l.Margin-gridH)/2

	for i := range b.Cards {
		c := &b.Cards[i]
		c.Rect = Rect{
			X: offX + c.Col*(cellW+l.Gutter),
			Y: offY + c.Row*(cellH+l.Gutter),
			W: cellW,
			H: cellH,
		}
	}
}

// CardAt hit-tests a canvas coordinate and reports the ID of the card
// under it.
func (b *Board) CardAt(x, y int) (int, bool) {
	for i := range b.Cards {
		if b.Cards[i].Rect.Contains(x, y) {
			return b.Cards[i].ID, true
		}
	}
	return 0, false
}

// Pairs returns the number of symbol pairs on the board.
func (b *Board) Pairs() int {
	return len(b.Cards) / 2
}
