package engine

import (
	"context"

	"github.com/looplab/fsm"
)

// Game phases, the states of the engine's FSM.
const (
	PhaseMenu      = "menu"
	PhasePlaying   = "playing"
	PhasePaused    = "paused"
	PhaseCompleted = "completed"
)

// Events moving between phases.
const (
	eventStart    = "start"
	eventPause    = "pause"
	eventResume   = "resume"
	eventComplete = "complete"
	eventAbort    = "abort"
)

func phaseTransitions() []fsm.EventDesc {
	return fsm.Events{
		{Name: eventStart, Src: []string{PhaseMenu, PhaseCompleted}, Dst: PhasePlaying},
		{Name: eventPause, Src: []string{PhasePlaying}, Dst: PhasePaused},
		{Name: eventResume, Src: []string{PhasePaused}, Dst: PhasePlaying},
		{Name: eventComplete, Src: []string{PhasePlaying}, Dst: PhaseCompleted},
		{Name: eventAbort, Src: []string{PhaseMenu, PhasePlaying, PhasePaused, PhaseCompleted}, Dst: PhaseMenu},
	}
}

func phaseCallbacks(e *Engine) map[string]fsm.Callback {
	return fsm.Callbacks{
		"enter_" + PhasePlaying: func(ctx context.Context, ev *fsm.Event) {
			if ev.Event == eventStart {
				e.logger.Debug("board dealt",
					"difficulty", e.profile.Name, "pairs", e.board.Pairs(), "level", e.level)
			}
		},
		"enter_" + PhaseCompleted: func(ctx context.Context, ev *fsm.Event) {
			e.deps.Audio.Victory()
			if e.score > e.best {
				e.best = e.score
				e.newBest = true
				if err := e.deps.Scores.SetBestScore(e.profile.Name, e.score); err != nil {
					e.logger.Warn("could not persist best score",
						"difficulty", e.profile.Name, "err", err)
				}
			}
			e.logger.Debug("game completed",
				"score", e.score, "moves", e.moves, "elapsed", e.elapsed)
		},
		"enter_" + PhaseMenu: func(ctx context.Context, ev *fsm.Event) {
			// Leaving a game for the menu discards the board and every
			// transient of the session.
			e.board = nil
			e.flips = e.flips[:0]
			e.pending = pendingTask{}
			e.score, e.moves, e.matchedPairs = 0, 0, 0
			e.elapsed = 0
			e.newBest = false
		},
	}
}
