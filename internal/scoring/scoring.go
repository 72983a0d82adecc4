// Package scoring holds the pure scoring policy for the matching game.
// Nothing here has side effects, so the engine and the tests share the
// exact same arithmetic.
package scoring

import "time"

// Point values for the scoring policy. These are gameplay constants, not
// configuration; difficulty only contributes its time bonus base.
const (
	matchBase       = 100  // starting award for any successful match
	matchFloor      = 10   // a match is never worth less than this
	movePenalty     = 5    // deducted per move taken so far
	completionBase  = 1000 // one-time bonus for finishing the board
	completionDecay = 10   // completion bonus lost per elapsed second
)

// OnMatch returns the points awarded for one successful match, given the
// elapsed game time, the number of moves taken so far, and the
// difficulty's time bonus base. Fast play with few moves scores highest;
// the award never drops below the floor, so a match always pays.
func OnMatch(elapsed time.Duration, moves, timeBonus int) int {
	bonus := timeBonus - floorSeconds(elapsed)
	if bonus < 0 {
		bonus = 0
	}
	penalty := moves * movePenalty
	if penalty < 0 {
		penalty = 0
	}
	points := matchBase + bonus - penalty
	if points < matchFloor {
		return matchFloor
	}
	return points
}

// OnCompletion returns the one-time bonus added when the final pair is
// matched. It decays with elapsed time and bottoms out at zero.
func OnCompletion(elapsed time.Duration) int {
	points := completionBase - floorSeconds(elapsed)*completionDecay
	if points < 0 {
		return 0
	}
	return points
}

// floorSeconds truncates a duration to whole seconds.
func floorSeconds(d time.Duration) int {
	return int(d / time.Second)
}
