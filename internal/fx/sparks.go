package fx

import (
	"math/rand"
	"time"

	"go-pairs/internal/board"
)

const (
	sparksPerCard = 6
	sparkTTL      = 600 * time.Millisecond
	sparkSpread   = 2 // cells beyond the card edge a spark may land
)

var sparkGlyphs = []rune{'✦', '✧', '+', '·'}

// Spark is one drawable particle in canvas coordinates.
type Spark struct {
	X, Y  int
	Glyph rune
}

type spark struct {
	Spark
	ttl time.Duration
}

// Sparks is the particle collaborator: match bursts spawn short-lived
// glyphs around the matched cards, aged out by the same tick that drives
// the game clock.
type Sparks struct {
	rng   *rand.Rand
	alive []spark
}

// NewSparks creates the spark pool. A nil rng falls back to a time
// seed; tests inject a fixed one.
func NewSparks(rng *rand.Rand) *Sparks {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sparks{rng: rng}
}

// MatchBurst spawns sparks around the centers of both matched cards.
func (s *Sparks) MatchBurst(a, b board.Rect) {
	s.burst(a)
	s.burst(b)
}

func (s *Sparks) burst(r board.Rect) {
	cx, cy := r.Center()
	spreadX := r.W/2 + sparkSpread
	spreadY := r.H/2 + sparkSpread
	for i := 0; i < sparksPerCard; i++ {
		s.alive = append(s.alive, spark{
			Spark: Spark{
				X:     cx + s.rng.Intn(2*spreadX+1) - spreadX,
				Y:     cy + s.rng.Intn(2*spreadY+1) - spreadY,
				Glyph: sparkGlyphs[s.rng.Intn(len(sparkGlyphs))],
			},
			ttl: sparkTTL,
		})
	}
}

// Advance ages the pool, dropping sparks whose time is up.
func (s *Sparks) Advance(dt time.Duration) {
	kept := s.alive[:0]
	for _, sp := range s.alive {
		sp.ttl -= dt
		if sp.ttl > 0 {
			kept = append(kept, sp)
		}
	}
	s.alive = kept
}

// Live returns the currently visible sparks for the renderer.
func (s *Sparks) Live() []Spark {
	out := make([]Spark, len(s.alive))
	for i, sp := range s.alive {
		out[i] = sp.Spark
	}
	return out
}

// Clear drops every live spark, used when the board goes away.
func (s *Sparks) Clear() {
	s.alive = s.alive[:0]
}
