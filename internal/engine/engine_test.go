package engine

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"go-pairs/internal/board"
	"go-pairs/internal/config"
	"go-pairs/internal/scoring"
)

const (
	testThink  = 800 * time.Millisecond
	testFinish = 500 * time.Millisecond
)

// recordingAudio counts the cues the engine fires, used to verify the
// fire-and-forget notifications.
type recordingAudio struct {
	flips, matches, victories int
}

func (a *recordingAudio) Flip()    { a.flips++ }
func (a *recordingAudio) Match()   { a.matches++ }
func (a *recordingAudio) Victory() { a.victories++ }

// recordingParticles captures match bursts.
type recordingParticles struct {
	bursts int
	lastA  board.Rect
	lastB  board.Rect
}

func (p *recordingParticles) MatchBurst(a, b board.Rect) {
	p.bursts++
	p.lastA, p.lastB = a, b
}

// mockScores is an in-memory score store with switchable failures, used
// to verify that persistence trouble never blocks the engine.
type mockScores struct {
	best     map[string]int
	getErr   error
	setErr   error
	setCalls int
}

func newMockScores() *mockScores {
	return &mockScores{best: make(map[string]int)}
}

func (m *mockScores) BestScore(difficulty string) (int, error) {
	if m.getErr != nil {
		return 0, m.getErr
	}
	return m.best[difficulty], nil
}

func (m *mockScores) SetBestScore(difficulty string, score int) error {
	m.setCalls++
	if m.setErr != nil {
		return m.setErr
	}
	if score > m.best[difficulty] {
		m.best[difficulty] = score
	}
	return nil
}

func testConfig() config.Config {
	return config.Config{
		Difficulties: []config.Difficulty{
			{Name: "easy", Rows: 2, Cols: 3, TimeBonus: 30},
			{Name: "medium", Rows: 3, Cols: 4, TimeBonus: 60},
		},
		Symbols: []string{"A", "B", "C", "D", "E", "F"},
		Timing:  config.Timing{ThinkDelayMS: 800, FinishDelayMS: 500, TickMS: 100},
		Layout:  config.Layout{Margin: 1, Gutter: 1},
	}
}

func newTestEngine(deps Deps) *Engine {
	return New(testConfig(), deps, nil, rand.New(rand.NewSource(1)))
}

// findPair returns the IDs of two face-down cards sharing a symbol.
func findPair(t *testing.T, snap Snapshot) (int, int) {
	t.Helper()
	for i := 0; i < len(snap.Cards); i++ {
		a := snap.Cards[i]
		if a.Matched || a.Revealed {
			continue
		}
		for j := i + 1; j < len(snap.Cards); j++ {
			b := snap.Cards[j]
			if b.Matched || b.Revealed || a.Symbol != b.Symbol {
				continue
			}
			return a.ID, b.ID
		}
	}
	t.Fatal("no face-down pair left on the board")
	return 0, 0
}

// findMismatch returns the IDs of two face-down cards with different
// symbols.
func findMismatch(t *testing.T, snap Snapshot) (int, int) {
	t.Helper()
	for i := 0; i < len(snap.Cards); i++ {
		a := snap.Cards[i]
		if a.Matched || a.Revealed {
			continue
		}
		for j := i + 1; j < len(snap.Cards); j++ {
			b := snap.Cards[j]
			if b.Matched || b.Revealed || a.Symbol == b.Symbol {
				continue
			}
			return a.ID, b.ID
		}
	}
	t.Fatal("no mismatched face-down cards left on the board")
	return 0, 0
}

// flipped counts cards that are face up but not yet matched, which by
// invariant equals the engine's flip buffer length.
func flipped(snap Snapshot) int {
	n := 0
	for _, c := range snap.Cards {
		if c.Revealed && !c.Matched {
			n++
		}
	}
	return n
}

// TestStartDealsBoard verifies the transition out of the menu and the
// session reset.
func TestStartDealsBoard(t *testing.T) {
	e := newTestEngine(Deps{})

	if e.Phase() != PhaseMenu {
		t.Fatalf("new engine should sit in the menu, got %s", e.Phase())
	}
	if err := e.Start("easy"); err != nil {
		t.Fatalf("Start returned an unexpected error: %v", err)
	}

	snap := e.Snapshot()
	if snap.Phase != PhasePlaying {
		t.Errorf("phase is %s, want playing", snap.Phase)
	}
	if len(snap.Cards) != 6 || snap.TotalPairs != 3 {
		t.Errorf("easy deal has %d cards / %d pairs, want 6 / 3", len(snap.Cards), snap.TotalPairs)
	}
	if snap.Score != 0 || snap.Moves != 0 || snap.MatchedPairs != 0 || snap.Elapsed != 0 {
		t.Errorf("session not reset: %+v", snap)
	}
	if snap.Level != 1 {
		t.Errorf("first game should be level 1, got %d", snap.Level)
	}
	if snap.Difficulty != "easy" {
		t.Errorf("difficulty is %q, want easy", snap.Difficulty)
	}
}

// TestStartWhilePlayingIsNoOp verifies that start is ignored mid-game
// rather than restarting under the player.
func TestStartWhilePlayingIsNoOp(t *testing.T) {
	e := newTestEngine(Deps{})
	if err := e.Start("easy"); err != nil {
		t.Fatalf("Start returned an unexpected error: %v", err)
	}
	if err := e.Start("medium"); err != nil {
		t.Fatalf("mid-game Start should be a silent no-op, got error: %v", err)
	}
	if snap := e.Snapshot(); snap.Difficulty != "easy" || len(snap.Cards) != 6 {
		t.Errorf("mid-game Start changed the board: %s with %d cards", snap.Difficulty, len(snap.Cards))
	}
}

// TestStartInsufficientSymbols is the short-pool failure: the error
// carries the sentinel and the engine stays in the menu without a board.
func TestStartInsufficientSymbols(t *testing.T) {
	cfg := testConfig()
	cfg.Symbols = []string{"A", "B"} // easy needs 3
	e := New(cfg, Deps{}, nil, rand.New(rand.NewSource(1)))

	err := e.Start("easy")
	if !errors.Is(err, board.ErrInsufficientSymbols) {
		t.Fatalf("expected ErrInsufficientSymbols, got %v", err)
	}
	snap := e.Snapshot()
	if snap.Phase != PhaseMenu {
		t.Errorf("engine should remain in the menu after a failed deal, got %s", snap.Phase)
	}
	if len(snap.Cards) != 0 {
		t.Errorf("failed deal left %d cards behind", len(snap.Cards))
	}
}

// TestStartUnknownDifficulty verifies the config lookup failure path.
func TestStartUnknownDifficulty(t *testing.T) {
	e := newTestEngine(Deps{})
	if err := e.Start("nightmare"); err == nil {
		t.Fatal("expected an error for an unknown difficulty")
	}
	if e.Phase() != PhaseMenu {
		t.Errorf("engine should remain in the menu, got %s", e.Phase())
	}
}

// TestMatchResolution is the identical-symbols scenario: after the think
// delay both cards are matched, the pair counter moves, and the score
// grows by exactly the policy amount.
func TestMatchResolution(t *testing.T) {
	audio := &recordingAudio{}
	parts := &recordingParticles{}
	e := newTestEngine(Deps{Audio: audio, Particles: parts})
	if err := e.Start("easy"); err != nil {
		t.Fatalf("Start returned an unexpected error: %v", err)
	}

	a, b := findPair(t, e.Snapshot())
	e.SelectCard(a)
	e.SelectCard(b)

	mid := e.Snapshot()
	if !mid.Cards[a].Revealed || !mid.Cards[b].Revealed {
		t.Fatal("selected cards should be face up before resolution")
	}
	if mid.Moves != 1 {
		t.Errorf("filling the buffer should cost one move, got %d", mid.Moves)
	}
	if mid.Score != 0 {
		t.Errorf("no points before resolution, got %d", mid.Score)
	}

	e.Advance(testThink)
	snap := e.Snapshot()
	if !snap.Cards[a].Matched || !snap.Cards[b].Matched {
		t.Error("both cards should be matched after resolution")
	}
	if snap.MatchedPairs != 1 {
		t.Errorf("matchedPairs = %d, want 1", snap.MatchedPairs)
	}
	want := scoring.OnMatch(snap.Elapsed, snap.Moves, 30)
	if snap.Score != want {
		t.Errorf("score = %d, want the policy award %d", snap.Score, want)
	}
	if flipped(snap) != 0 {
		t.Errorf("buffer should be empty after resolution, %d cards still face up", flipped(snap))
	}
	if audio.flips != 2 || audio.matches != 1 {
		t.Errorf("audio cues: %d flips / %d matches, want 2 / 1", audio.flips, audio.matches)
	}
	if parts.bursts != 1 {
		t.Errorf("expected one particle burst, got %d", parts.bursts)
	}
	if parts.lastA != snap.Cards[a].Rect || parts.lastB != snap.Cards[b].Rect {
		t.Error("burst should land on the matched cards' rectangles")
	}
}

// TestMismatchResolution is the different-symbols scenario: cards go
// back face down, the move still counts, and no points are awarded.
func TestMismatchResolution(t *testing.T) {
	e := newTestEngine(Deps{})
	if err := e.Start("easy"); err != nil {
		t.Fatalf("Start returned an unexpected error: %v", err)
	}

	a, b := findMismatch(t, e.Snapshot())
	e.SelectCard(a)
	e.SelectCard(b)
	e.Advance(testThink)

	snap := e.Snapshot()
	if snap.Cards[a].Revealed || snap.Cards[b].Revealed {
		t.Error("mismatched cards should be face down after resolution")
	}
	if snap.Cards[a].Matched || snap.Cards[b].Matched {
		t.Error("mismatched cards must not be marked matched")
	}
	if snap.Moves != 1 {
		t.Errorf("moves = %d, want 1", snap.Moves)
	}
	if snap.Score != 0 {
		t.Errorf("score = %d, want 0 after a mismatch", snap.Score)
	}
	if flipped(snap) != 0 {
		t.Error("buffer should be empty after resolution")
	}
}

// TestFlipBufferCap verifies that a third selection while two cards
// await resolution is ignored, and that re-selecting a face-up card is
// too.
func TestFlipBufferCap(t *testing.T) {
	audio := &recordingAudio{}
	e := newTestEngine(Deps{Audio: audio})
	if err := e.Start("medium"); err != nil {
		t.Fatalf("Start returned an unexpected error: %v", err)
	}

	snap := e.Snapshot()
	a, b := findMismatch(t, snap)
	e.SelectCard(a)
	e.SelectCard(a) // same card again: no-op
	if n := flipped(e.Snapshot()); n != 1 {
		t.Fatalf("re-selecting a face-up card should not flip anything, buffer = %d", n)
	}

	e.SelectCard(b)
	// Buffer full. Every further selection must bounce.
	for _, c := range e.Snapshot().Cards {
		if !c.Revealed {
			e.SelectCard(c.ID)
		}
	}
	snap = e.Snapshot()
	if n := flipped(snap); n != 2 {
		t.Errorf("buffer exceeded two: %d cards face up", n)
	}
	if snap.Moves != 1 {
		t.Errorf("bounced selections should not cost moves, got %d", snap.Moves)
	}
	if audio.flips != 2 {
		t.Errorf("bounced selections should not cue audio, got %d flips", audio.flips)
	}

	// Out-of-range IDs are ignored, not a panic.
	e.SelectCard(-1)
	e.SelectCard(9999)
}

// TestMatchedNotReselectable confirms a settled pair is out of play.
func TestMatchedNotReselectable(t *testing.T) {
	e := newTestEngine(Deps{})
	if err := e.Start("easy"); err != nil {
		t.Fatalf("Start returned an unexpected error: %v", err)
	}

	a, b := findPair(t, e.Snapshot())
	e.SelectCard(a)
	e.SelectCard(b)
	e.Advance(testThink)

	e.SelectCard(a)
	snap := e.Snapshot()
	if flipped(snap) != 0 {
		t.Error("selecting a matched card should be a no-op")
	}
	if snap.Moves != 1 {
		t.Errorf("moves = %d, want 1", snap.Moves)
	}
}

// TestPauseIdempotence verifies that pausing twice restores the phase
// and that paused time never reaches the clock.
func TestPauseIdempotence(t *testing.T) {
	e := newTestEngine(Deps{})
	if err := e.Start("easy"); err != nil {
		t.Fatalf("Start returned an unexpected error: %v", err)
	}

	e.Advance(time.Second)
	e.TogglePause()
	if e.Phase() != PhasePaused {
		t.Fatalf("expected paused, got %s", e.Phase())
	}

	// Ticks keep arriving while paused; none of them may count.
	for i := 0; i < 50; i++ {
		e.Advance(100 * time.Millisecond)
	}
	e.TogglePause()

	snap := e.Snapshot()
	if snap.Phase != PhasePlaying {
		t.Errorf("expected playing after the second toggle, got %s", snap.Phase)
	}
	if snap.Elapsed != time.Second {
		t.Errorf("elapsed = %v, paused time leaked into the clock", snap.Elapsed)
	}
}

// TestPauseOutsideGameIsNoOp verifies the menu ignores pause.
func TestPauseOutsideGameIsNoOp(t *testing.T) {
	e := newTestEngine(Deps{})
	e.TogglePause()
	if e.Phase() != PhaseMenu {
		t.Errorf("pause in the menu moved the phase to %s", e.Phase())
	}
}

// TestPauseFreezesResolution verifies that a pending resolution holds
// its fire while paused and lands after resume.
func TestPauseFreezesResolution(t *testing.T) {
	e := newTestEngine(Deps{})
	if err := e.Start("easy"); err != nil {
		t.Fatalf("Start returned an unexpected error: %v", err)
	}

	a, b := findPair(t, e.Snapshot())
	e.SelectCard(a)
	e.SelectCard(b)
	e.TogglePause()

	for i := 0; i < 30; i++ {
		e.Advance(100 * time.Millisecond)
	}
	snap := e.Snapshot()
	if snap.MatchedPairs != 0 || !snap.Cards[a].Revealed {
		t.Fatal("resolution fired while paused")
	}

	// While paused, selection is dead too.
	e.SelectCard(a)

	e.TogglePause()
	e.Advance(testThink)
	if snap := e.Snapshot(); snap.MatchedPairs != 1 {
		t.Error("resolution should land after resume plus the think delay")
	}
}

// TestCompleteEasyGame plays an easy board start to finish in three
// moves and checks the full accounting: phase, counters, audio, exact
// score, and the persisted best.
func TestCompleteEasyGame(t *testing.T) {
	audio := &recordingAudio{}
	parts := &recordingParticles{}
	scores := newMockScores()
	e := newTestEngine(Deps{Audio: audio, Particles: parts, Scores: scores})
	if err := e.Start("easy"); err != nil {
		t.Fatalf("Start returned an unexpected error: %v", err)
	}

	want := 0
	for round := 0; round < 3; round++ {
		a, b := findPair(t, e.Snapshot())
		e.SelectCard(a)
		e.SelectCard(b)
		e.Advance(testThink)
		after := e.Snapshot()
		want += scoring.OnMatch(after.Elapsed, after.Moves, 30)
	}

	// The final match holds briefly before the summary.
	if e.Phase() != PhasePlaying {
		t.Fatalf("expected the finish hold in playing, got %s", e.Phase())
	}
	e.Advance(testFinish)
	snap := e.Snapshot()
	want += scoring.OnCompletion(snap.Elapsed)

	if snap.Phase != PhaseCompleted {
		t.Fatalf("expected completed, got %s", snap.Phase)
	}
	if snap.Moves != 3 || snap.MatchedPairs != 3 {
		t.Errorf("moves/matched = %d/%d, want 3/3", snap.Moves, snap.MatchedPairs)
	}
	if snap.Elapsed >= 5*time.Second {
		t.Errorf("run took %v of game time, expected under 5s", snap.Elapsed)
	}
	if snap.Score != want {
		t.Errorf("score = %d, want %d", snap.Score, want)
	}
	if floor := 3*10 + scoring.OnCompletion(snap.Elapsed); snap.Score <= floor {
		t.Errorf("score = %d, should beat the %d floor", snap.Score, floor)
	}
	if audio.victories != 1 {
		t.Errorf("victory cue fired %d times, want 1", audio.victories)
	}
	if parts.bursts != 3 {
		t.Errorf("particle bursts = %d, want 3", parts.bursts)
	}
	if !snap.NewBest {
		t.Error("first completion should set a new best")
	}
	if scores.best["easy"] != snap.Score {
		t.Errorf("persisted best = %d, want %d", scores.best["easy"], snap.Score)
	}

	// The summary is final: the clock stops and selection is dead.
	e.Advance(time.Minute)
	if got := e.Snapshot().Elapsed; got != snap.Elapsed {
		t.Errorf("clock moved after completion: %v -> %v", snap.Elapsed, got)
	}
}

// completeGame drives the current game to the completed phase.
func completeGame(t *testing.T, e *Engine) {
	t.Helper()
	for e.Snapshot().MatchedPairs < e.Snapshot().TotalPairs {
		a, b := findPair(t, e.Snapshot())
		e.SelectCard(a)
		e.SelectCard(b)
		e.Advance(testThink)
	}
	e.Advance(testFinish)
	if e.Phase() != PhaseCompleted {
		t.Fatalf("expected completed after clearing the board, got %s", e.Phase())
	}
}

// TestPlayAgainKeepsDifficultyAndClimbsLevel verifies the replay policy:
// same grid, fresh session, level up.
func TestPlayAgainKeepsDifficultyAndClimbsLevel(t *testing.T) {
	e := newTestEngine(Deps{})
	if err := e.Start("easy"); err != nil {
		t.Fatalf("Start returned an unexpected error: %v", err)
	}
	completeGame(t, e)

	e.PlayAgain()
	snap := e.Snapshot()
	if snap.Phase != PhasePlaying {
		t.Fatalf("expected playing after PlayAgain, got %s", snap.Phase)
	}
	if snap.Level != 2 {
		t.Errorf("level = %d, want 2", snap.Level)
	}
	if snap.Difficulty != "easy" || len(snap.Cards) != 6 {
		t.Errorf("replay should reuse the easy 2x3 grid, got %s with %d cards",
			snap.Difficulty, len(snap.Cards))
	}
	if snap.Score != 0 || snap.Moves != 0 || snap.MatchedPairs != 0 || snap.Elapsed != 0 {
		t.Errorf("replay did not reset the session: %+v", snap)
	}

	// PlayAgain anywhere else is a no-op.
	e.PlayAgain()
	if got := e.Snapshot().Level; got != 2 {
		t.Errorf("PlayAgain while playing changed level to %d", got)
	}
}

// TestReturnToMenu verifies the abort path from every phase and the
// level reset that comes with it.
func TestReturnToMenu(t *testing.T) {
	e := newTestEngine(Deps{})
	if err := e.Start("easy"); err != nil {
		t.Fatalf("Start returned an unexpected error: %v", err)
	}
	completeGame(t, e)
	e.PlayAgain() // level 2

	e.ReturnToMenu()
	snap := e.Snapshot()
	if snap.Phase != PhaseMenu {
		t.Fatalf("expected menu, got %s", snap.Phase)
	}
	if snap.Level != 1 {
		t.Errorf("level = %d, want 1 after returning to the menu", snap.Level)
	}
	if len(snap.Cards) != 0 {
		t.Errorf("menu should hold no board, got %d cards", len(snap.Cards))
	}

	// Input on a dead board is ignored.
	e.SelectCard(0)
	e.Advance(time.Second)
	if got := e.Snapshot(); got.Phase != PhaseMenu || got.Elapsed != 0 {
		t.Errorf("menu absorbed input badly: %+v", got)
	}

	// From the menu itself it is harmless.
	e.ReturnToMenu()
	if e.Phase() != PhaseMenu {
		t.Errorf("ReturnToMenu from the menu moved to %s", e.Phase())
	}

	// Paused games abort the same way.
	if err := e.Start("easy"); err != nil {
		t.Fatalf("Start returned an unexpected error: %v", err)
	}
	e.TogglePause()
	e.ReturnToMenu()
	if e.Phase() != PhaseMenu {
		t.Errorf("abort from paused landed in %s", e.Phase())
	}
}

// TestPersistenceFailureDoesNotBlockCompletion verifies the best-effort
// contract: a broken store is logged and play continues.
func TestPersistenceFailureDoesNotBlockCompletion(t *testing.T) {
	scores := newMockScores()
	scores.getErr = errors.New("disk gone")
	scores.setErr = errors.New("disk still gone")
	e := newTestEngine(Deps{Scores: scores})

	if err := e.Start("easy"); err != nil {
		t.Fatalf("a failing best-score read must not abort Start: %v", err)
	}
	completeGame(t, e)

	snap := e.Snapshot()
	if snap.Phase != PhaseCompleted {
		t.Errorf("completion blocked by persistence failure, phase %s", snap.Phase)
	}
	if snap.Score <= 0 {
		t.Errorf("score lost to persistence failure: %d", snap.Score)
	}
	if scores.setCalls == 0 {
		t.Error("engine never attempted to persist the best score")
	}
}

// TestBestScoreNotBeaten verifies that an existing higher best is kept
// and reported.
func TestBestScoreNotBeaten(t *testing.T) {
	scores := newMockScores()
	scores.best["easy"] = 1000000
	e := newTestEngine(Deps{Scores: scores})

	if err := e.Start("easy"); err != nil {
		t.Fatalf("Start returned an unexpected error: %v", err)
	}
	if got := e.Snapshot().Best; got != 1000000 {
		t.Errorf("snapshot best = %d, want the stored 1000000", got)
	}
	completeGame(t, e)

	snap := e.Snapshot()
	if snap.NewBest {
		t.Error("a lower score must not count as a new best")
	}
	if snap.Best != 1000000 {
		t.Errorf("best = %d, want 1000000", snap.Best)
	}
	if scores.best["easy"] != 1000000 {
		t.Errorf("stored best changed to %d", scores.best["easy"])
	}
}

// TestResizeKeepsDeal verifies that a window resize relays the cards
// without reshuffling or dropping flip state.
func TestResizeKeepsDeal(t *testing.T) {
	e := newTestEngine(Deps{})
	if err := e.Start("medium"); err != nil {
		t.Fatalf("Start returned an unexpected error: %v", err)
	}
	before := e.Snapshot()
	e.SelectCard(before.Cards[0].ID)

	e.Resize(140, 45)
	after := e.Snapshot()
	for i := range after.Cards {
		if after.Cards[i].Symbol != before.Cards[i].Symbol {
			t.Fatalf("resize reshuffled the deal at card %d", i)
		}
	}
	if !after.Cards[0].Revealed {
		t.Error("resize dropped a flip")
	}
	if after.Cards[0].Rect == before.Cards[0].Rect {
		t.Error("resize did not move any rectangles")
	}
}

// TestSelectAt verifies pointer selection through card geometry.
func TestSelectAt(t *testing.T) {
	e := newTestEngine(Deps{})
	if err := e.Start("easy"); err != nil {
		t.Fatalf("Start returned an unexpected error: %v", err)
	}

	snap := e.Snapshot()
	cx, cy := snap.Cards[2].Rect.Center()
	e.SelectAt(cx, cy)
	if !e.Snapshot().Cards[2].Revealed {
		t.Error("click on a card center did not flip it")
	}

	// The margin hits nothing.
	e.SelectAt(0, 0)
	if n := flipped(e.Snapshot()); n != 1 {
		t.Errorf("margin click changed the buffer: %d cards face up", n)
	}
}

// TestSnapshotIsACopy verifies mutations of a snapshot never reach the
// engine.
func TestSnapshotIsACopy(t *testing.T) {
	e := newTestEngine(Deps{})
	if err := e.Start("easy"); err != nil {
		t.Fatalf("Start returned an unexpected error: %v", err)
	}

	snap := e.Snapshot()
	snap.Cards[0].Matched = true
	snap.Cards[0].Symbol = "tampered"

	fresh := e.Snapshot()
	if fresh.Cards[0].Matched || fresh.Cards[0].Symbol == "tampered" {
		t.Error("snapshot mutation leaked into the engine")
	}
}
