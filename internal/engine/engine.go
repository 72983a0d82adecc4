// Package engine owns the match game's state machine: the board, the
// flip buffer, the score, move and time counters, and the transitions
// between menu, playing, paused, and completed.
//
// The engine is single-threaded and clockless. Time only enters through
// Advance, which the presentation layer feeds from its tick, so tests
// drive virtual time deterministically. Player commands arriving out of
// phase are silent no-ops; the engine is built to shrug off rapid or
// duplicate input rather than error on it.
package engine

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/looplab/fsm"

	"go-pairs/internal/board"
	"go-pairs/internal/config"
	"go-pairs/internal/scoring"
)

// A scheduled task fired by Advance once game time reaches its due mark.
// At most one is pending at any moment: the think-delay resolution of a
// full flip buffer, or the short hold between the final match and the
// summary.
type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingResolve
	pendingFinish
)

type pendingTask struct {
	kind pendingKind
	due  time.Duration
}

// Engine is the match game core. Construct with New; the zero value is
// not usable.
type Engine struct {
	cfg    config.Config
	deps   Deps
	logger *log.Logger
	rng    *rand.Rand

	fsm *fsm.FSM

	profile config.Difficulty
	board   *board.Board
	canvasW int
	canvasH int

	score        int
	moves        int
	matchedPairs int
	level        int
	elapsed      time.Duration
	best         int
	newBest      bool

	flips   []int // IDs of revealed, unresolved cards; never more than two
	pending pendingTask
}

// New builds an engine in the menu phase. Nil collaborators become
// no-ops, a nil logger is discarded, and a nil rng falls back to a time
// seed so every deal differs.
func New(cfg config.Config, deps Deps, logger *log.Logger, rng *rand.Rand) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e := &Engine{
		cfg:     cfg,
		deps:    deps.withDefaults(),
		logger:  logger,
		rng:     rng,
		level:   1,
		canvasW: 80,
		canvasH: 24,
		flips:   make([]int, 0, 2),
	}
	e.fsm = fsm.NewFSM(PhaseMenu, phaseTransitions(), phaseCallbacks(e))
	return e
}

// Phase returns the current phase name.
func (e *Engine) Phase() string {
	return e.fsm.Current()
}

// Start deals a board for the named difficulty and begins play. It is
// valid from the menu and from the summary screen; anywhere else it is a
// no-op. On a failed deal (unknown difficulty or a symbol pool too small
// for the grid) the engine lands in the menu with no live board and the
// error is returned for the presentation layer to show.
func (e *Engine) Start(difficulty string) error {
	if !e.fsm.Is(PhaseMenu) && !e.fsm.Is(PhaseCompleted) {
		return nil
	}

	profile, err := e.cfg.Profile(difficulty)
	if err != nil {
		e.fsm.Event(context.Background(), eventAbort)
		return err
	}
	b, err := board.Generate(profile.Rows, profile.Cols, e.cfg.Symbols, e.layout(), e.rng)
	if err != nil {
		e.fsm.Event(context.Background(), eventAbort)
		return fmt.Errorf("starting %s game: %w", difficulty, err)
	}

	e.profile = profile
	e.board = b
	e.flips = e.flips[:0]
	e.pending = pendingTask{}
	e.score, e.moves, e.matchedPairs = 0, 0, 0
	e.elapsed = 0
	e.newBest = false

	best, err := e.deps.Scores.BestScore(profile.Name)
	if err != nil {
		e.logger.Warn("could not read best score", "difficulty", profile.Name, "err", err)
		best = 0
	}
	e.best = best

	e.fsm.Event(context.Background(), eventStart)
	return nil
}

// SelectCard flips the identified card face up. It is a no-op unless the
// game is in play, the flip buffer has room, and the card is both on the
// board and still face down. Filling the buffer costs a move and
// schedules resolution one think-delay from now.
func (e *Engine) SelectCard(id int) {
	if !e.fsm.Is(PhasePlaying) || e.board == nil {
		return
	}
	if len(e.flips) >= 2 {
		return
	}
	if id < 0 || id >= len(e.board.Cards) {
		return
	}
	c := &e.board.Cards[id]
	if c.Revealed || c.Matched {
		return
	}

	c.Revealed = true
	e.flips = append(e.flips, id)
	e.deps.Audio.Flip()

	if len(e.flips) == 2 {
		e.moves++
		e.pending = pendingTask{kind: pendingResolve, due: e.elapsed + e.cfg.ThinkDelay()}
	}
}

// SelectAt flips the card under a canvas coordinate, if any. Pointer
// input funnels through here.
func (e *Engine) SelectAt(x, y int) {
	if !e.fsm.Is(PhasePlaying) || e.board == nil {
		return
	}
	if id, ok := e.board.CardAt(x, y); ok {
		e.SelectCard(id)
	}
}

// Advance moves game time forward by dt and fires the pending scheduled
// task once its due mark is reached. Outside the playing phase it is a
// no-op, which is what freezes the clock (and any pending resolution)
// during pause.
func (e *Engine) Advance(dt time.Duration) {
	if !e.fsm.Is(PhasePlaying) {
		return
	}
	e.elapsed += dt

	if e.pending.kind == pendingNone || e.elapsed < e.pending.due {
		return
	}
	task := e.pending
	e.pending = pendingTask{}
	switch task.kind {
	case pendingResolve:
		e.resolve()
	case pendingFinish:
		e.finish()
	}
}

// resolve settles a full flip buffer: mark a match or hide a mismatch.
// Either way the buffer empties, restoring the SelectCard precondition.
func (e *Engine) resolve() {
	if e.board == nil || len(e.flips) != 2 {
		return
	}
	a := &e.board.Cards[e.flips[0]]
	b := &e.board.Cards[e.flips[1]]
	e.flips = e.flips[:0]

	if a.Symbol != b.Symbol {
		a.Revealed, b.Revealed = false, false
		return
	}

	a.Matched, b.Matched = true, true
	e.matchedPairs++
	e.score += scoring.OnMatch(e.elapsed, e.moves, e.profile.TimeBonus)
	e.deps.Audio.Match()
	e.deps.Particles.MatchBurst(a.Rect, b.Rect)

	if e.matchedPairs == e.board.Pairs() {
		// Hold the final match on screen briefly before the summary.
		e.pending = pendingTask{kind: pendingFinish, due: e.elapsed + e.cfg.FinishDelay()}
	}
}

// finish adds the completion bonus and moves to the summary. Best-score
// persistence and the victory cue happen in the completed-phase
// callback.
func (e *Engine) finish() {
	e.score += scoring.OnCompletion(e.elapsed)
	e.fsm.Event(context.Background(), eventComplete)
}

// TogglePause flips between playing and paused. In any other phase it is
// a no-op. Pausing freezes game time, so nothing resolves and no score
// decays while paused.
func (e *Engine) TogglePause() {
	ctx := context.Background()
	switch {
	case e.fsm.Is(PhasePlaying):
		e.fsm.Event(ctx, eventPause)
	case e.fsm.Is(PhasePaused):
		e.fsm.Event(ctx, eventResume)
	}
}

// PlayAgain restarts from the summary screen on the same difficulty and
// grid. The level counter climbs; it is a streak counter for consecutive
// completions, not a difficulty ramp.
func (e *Engine) PlayAgain() {
	if !e.fsm.Is(PhaseCompleted) {
		return
	}
	e.level++
	if err := e.Start(e.profile.Name); err != nil {
		e.logger.Warn("replay failed", "err", err)
	}
}

// ReturnToMenu abandons whatever is happening and goes back to the menu,
// resetting the level streak. Valid from every phase.
func (e *Engine) ReturnToMenu() {
	e.level = 1
	e.fsm.Event(context.Background(), eventAbort)
}

// Resize tells the engine how big the board canvas is. The live board,
// if any, is laid out again; symbols and flip state never change.
func (e *Engine) Resize(w, h int) {
	e.canvasW, e.canvasH = w, h
	if e.board != nil {
		e.board.Relayout(e.layout())
	}
}

func (e *Engine) layout() board.Layout {
	return board.Layout{
		Width:  e.canvasW,
		Height: e.canvasH,
		Margin: e.cfg.Layout.Margin,
		Gutter: e.cfg.Layout.Gutter,
	}
}
