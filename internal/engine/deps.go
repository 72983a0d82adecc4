package engine

import "go-pairs/internal/board"

// Audio receives fire-and-forget sound cues. The engine never waits on
// these and never sees their failures.
type Audio interface {
	Flip()
	Match()
	Victory()
}

// Particles receives fire-and-forget visual cues for matched pairs.
type Particles interface {
	MatchBurst(a, b board.Rect)
}

// Scores persists per-difficulty best scores. The engine reads at game
// start and writes at completion; errors are logged and swallowed so a
// broken store can never block a transition.
type Scores interface {
	BestScore(difficulty string) (int, error)
	SetBestScore(difficulty string, score int) error
}

// Deps bundles the engine's collaborators. Nil members are replaced with
// no-ops, which is how the engine runs headless in tests.
type Deps struct {
	Audio     Audio
	Particles Particles
	Scores    Scores
}

func (d Deps) withDefaults() Deps {
	if d.Audio == nil {
		d.Audio = nopAudio{}
	}
	if d.Particles == nil {
		d.Particles = nopParticles{}
	}
	if d.Scores == nil {
		d.Scores = nopScores{}
	}
	return d
}

type nopAudio struct{}

func (nopAudio) Flip()    {}
func (nopAudio) Match()   {}
func (nopAudio) Victory() {}

type nopParticles struct{}

func (nopParticles) MatchBurst(a, b board.Rect) {}

type nopScores struct{}

func (nopScores) BestScore(string) (int, error)  { return 0, nil }
func (nopScores) SetBestScore(string, int) error { return nil }
