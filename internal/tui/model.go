package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"go-pairs/internal/board"
	"go-pairs/internal/config"
	"go-pairs/internal/engine"
	"go-pairs/internal/fx"
	"go-pairs/internal/storage"
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // Status line
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
)

// Screen chrome around the board canvas.
const (
	statusRows = 1 // status line above the board
	helpRows   = 1 // help bar below it
	chromeRows = statusRows + helpRows
)

// Model is the Bubble Tea model for the whole game: menu, table,
// pause screen, and summary, switched on the engine phase.
type Model struct {
	eng    *engine.Engine
	sparks *fx.Sparks
	bell   *fx.Bell
	store  *storage.Store // may be nil
	cfg    config.Config
	canvas *Canvas
	keys   KeyMap
	help   help.Model

	width  int
	height int

	menuCursor     int
	curRow, curCol int // keyboard cursor on the board

	bests     map[string]int
	startErr  string // failed deal message shown in the menu
	lastPhase string
	quitting  bool
}

// NewModel wires an engine and its effects into a renderable model.
// The store may be nil; bests and settings are then simply not shown
// or kept.
func NewModel(eng *engine.Engine, sparks *fx.Sparks, bell *fx.Bell, store *storage.Store, cfg config.Config, width, height int) Model {
	h := help.New()
	h.Width = width

	m := Model{
		eng:       eng,
		sparks:    sparks,
		bell:      bell,
		store:     store,
		cfg:       cfg,
		keys:      DefaultKeyMap(),
		help:      h,
		width:     width,
		height:    height,
		lastPhase: eng.Phase(),
	}

	bw, bh := m.boardSize()
	m.canvas = NewCanvas(bw, bh)
	m.eng.Resize(bw, bh)
	m.refreshBests()

	// Put the menu cursor on the last difficulty the player chose.
	if store != nil {
		if name, ok, err := store.Setting("difficulty"); err == nil && ok {
			for i, d := range cfg.Difficulties {
				if d.Name == name {
					m.menuCursor = i
					break
				}
			}
		}
	}

	return m
}

// boardSize returns the canvas dimensions left after the chrome rows.
func (m Model) boardSize() (int, int) {
	w := m.width
	if w < 1 {
		w = 1
	}
	h := m.height - chromeRows
	if h < 1 {
		h = 1
	}
	return w, h
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.cfg.TickInterval())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		return m.handleTick()
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

// handleTick advances the game clock and the spark overlay.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	dt := m.cfg.TickInterval()
	m.eng.Advance(dt)
	m.sparks.Advance(dt)

	if phase := m.eng.Phase(); phase != m.lastPhase {
		// Entering the menu or the summary refreshes the best table.
		if phase == engine.PhaseMenu || phase == engine.PhaseCompleted {
			m.refreshBests()
		}
		m.lastPhase = phase
	}

	return m, tickCmd(dt)
}

// handleResize reflows the canvas and the live board.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width

	bw, bh := m.boardSize()
	m.canvas.Resize(bw, bh)
	m.eng.Resize(bw, bh)
	return m, nil
}

// handleKey routes keyboard input by engine phase.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Mute) {
		m.toggleMute()
		return m, nil
	}

	switch m.eng.Phase() {
	case engine.PhaseMenu:
		m.handleMenuKey(msg)
	case engine.PhasePlaying:
		m.handlePlayKey(msg)
	case engine.PhasePaused:
		switch {
		case key.Matches(msg, m.keys.Pause), key.Matches(msg, m.keys.Select):
			m.eng.TogglePause()
		case key.Matches(msg, m.keys.Menu):
			m.eng.ReturnToMenu()
		}
	case engine.PhaseCompleted:
		switch {
		case key.Matches(msg, m.keys.Again), key.Matches(msg, m.keys.Select):
			m.eng.PlayAgain()
			m.curRow, m.curCol = 0, 0
		case key.Matches(msg, m.keys.Menu):
			m.eng.ReturnToMenu()
		}
	}

	return m, nil
}

// handleMenuKey moves the difficulty cursor and deals a board.
func (m *Model) handleMenuKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.menuCursor > 0 {
			m.menuCursor--
		}
		m.startErr = ""
	case key.Matches(msg, m.keys.Down):
		if m.menuCursor < len(m.cfg.Difficulties)-1 {
			m.menuCursor++
		}
		m.startErr = ""
	case key.Matches(msg, m.keys.Select):
		if len(m.cfg.Difficulties) == 0 {
			return
		}
		name := m.cfg.Difficulties[m.menuCursor].Name
		if err := m.eng.Start(name); err != nil {
			m.startErr = err.Error()
			return
		}
		m.startErr = ""
		m.curRow, m.curCol = 0, 0
		if m.store != nil {
			//nolint:errcheck // Best-effort preference save
			m.store.SetSetting("difficulty", name)
		}
	}
}

// handlePlayKey moves the board cursor and flips cards.
func (m *Model) handlePlayKey(msg tea.KeyMsg) {
	snap := m.eng.Snapshot()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(snap, -1, 0)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(snap, 1, 0)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(snap, 0, -1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(snap, 0, 1)
	case key.Matches(msg, m.keys.Select):
		m.eng.SelectCard(m.curRow*snap.Cols + m.curCol)
	case key.Matches(msg, m.keys.Pause):
		m.eng.TogglePause()
	case key.Matches(msg, m.keys.Menu):
		m.eng.ReturnToMenu()
	}
}

func (m *Model) moveCursor(snap engine.Snapshot, dr, dc int) {
	if snap.Rows == 0 || snap.Cols == 0 {
		return
	}
	m.curRow = clamp(m.curRow+dr, 0, snap.Rows-1)
	m.curCol = clamp(m.curCol+dc, 0, snap.Cols-1)
}

// handleMouse flips the card under a left click.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	// The board canvas starts below the status row.
	m.eng.SelectAt(msg.X, msg.Y-statusRows)
	return m, nil
}

func (m *Model) toggleMute() {
	m.bell.SetMuted(!m.bell.Muted())
	if m.store != nil {
		v := "0"
		if m.bell.Muted() {
			v = "1"
		}
		//nolint:errcheck // Best-effort preference save
		m.store.SetSetting("muted", v)
	}
}

// refreshBests reloads the per-difficulty best scores shown in the menu.
func (m *Model) refreshBests() {
	if m.store == nil {
		return
	}
	entries, err := m.store.BestScores()
	if err != nil {
		return
	}
	bests := make(map[string]int, len(entries))
	for _, e := range entries {
		bests[e.Difficulty] = e.Score
	}
	m.bests = bests
}

// View renders the frame for the current engine phase.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	snap := m.eng.Snapshot()

	m.canvas.Clear()
	switch snap.Phase {
	case engine.PhaseMenu:
		m.drawMenu()
	case engine.PhasePlaying:
		m.drawBoard(snap, true)
		m.drawSparks()
	case engine.PhasePaused:
		m.drawBoard(snap, false)
		m.drawPauseBanner()
	case engine.PhaseCompleted:
		m.drawBoard(snap, true)
		m.drawSparks()
		m.drawSummary(snap)
	}

	return m.statusLine(snap) + "\n" + m.canvas.Render() + "\n" + m.help.View(m.keys)
}

// statusLine renders the row above the board.
func (m Model) statusLine(snap engine.Snapshot) string {
	if snap.Phase == engine.PhaseMenu {
		return titleStyle.Render(" PAIRS ")
	}

	line := fmt.Sprintf("SCORE: %d | MOVES: %d | PAIRS: %d/%d | TIME: %s | BEST: %d",
		snap.Score, snap.Moves, snap.MatchedPairs, snap.TotalPairs,
		formatClock(snap.Elapsed), snap.Best)
	if snap.Level > 1 {
		line += fmt.Sprintf(" | LEVEL: %d", snap.Level)
	}
	if m.bell.Muted() {
		line += " | MUTED"
	}
	return statusStyle.Render(line)
}

// drawMenu renders the difficulty picker with recorded bests.
func (m Model) drawMenu() {
	top := m.canvas.Height()/2 - len(m.cfg.Difficulties)/2 - 3
	if top < 0 {
		top = 0
	}
	m.canvas.DrawTextCentered(top, "P A I R S", InkAccent)
	m.canvas.DrawTextCentered(top+1, "find the matching cards", InkDim)

	for i, d := range m.cfg.Difficulties {
		cursor := "  "
		ink := InkDefault
		if i == m.menuCursor {
			cursor = "> "
			ink = InkCursor
		}
		best := "-"
		if b, ok := m.bests[d.Name]; ok {
			best = strconv.Itoa(b)
		}
		line := fmt.Sprintf("%s%-8s %dx%d  best %6s", cursor, d.Name, d.Rows, d.Cols, best)
		m.canvas.DrawTextCentered(top+3+i, line, ink)
	}

	if m.startErr != "" {
		m.canvas.DrawTextCentered(top+4+len(m.cfg.Difficulties), m.startErr, InkAlert)
	}
}

// drawBoard renders every card. With showFaces false, flipped cards
// are drawn as backs, which keeps the frozen clock from being free
// study time.
func (m Model) drawBoard(snap engine.Snapshot, showFaces bool) {
	for _, c := range snap.Cards {
		if c.Rect.W < 2 || c.Rect.H < 2 {
			continue // window too small for this grid
		}

		frame := InkFrame
		switch {
		case c.Matched:
			frame = InkMatched
		case snap.Phase == engine.PhasePlaying && c.Row == m.curRow && c.Col == m.curCol:
			frame = InkCursor
		}
		m.canvas.DrawBox(c.Rect, frame)

		inner := board.Rect{X: c.Rect.X + 1, Y: c.Rect.Y + 1, W: c.Rect.W - 2, H: c.Rect.H - 2}
		switch {
		case c.Matched:
			m.drawSymbol(c, inner, InkMatched)
		case c.Revealed && showFaces:
			m.drawSymbol(c, inner, InkFace)
		default:
			m.canvas.FillRect(inner, '░', InkBack)
		}
	}
}

// drawSymbol centers a card's symbol inside its interior.
func (m Model) drawSymbol(c board.Card, inner board.Rect, ink Ink) {
	w := runewidth.StringWidth(c.Symbol)
	x := inner.X + (inner.W-w)/2
	y := inner.Y + inner.H/2
	m.canvas.DrawText(x, y, c.Symbol, ink)
}

// drawSparks overlays the live match particles.
func (m Model) drawSparks() {
	for _, s := range m.sparks.Live() {
		m.canvas.Set(s.X, s.Y, s.Glyph, InkSpark)
	}
}

func (m Model) drawPauseBanner() {
	y := m.canvas.Height() / 2
	m.canvas.DrawTextCentered(y, " P A U S E D ", InkAlert)
	m.canvas.DrawTextCentered(y+1, "p resumes", InkDim)
}

// drawSummary renders the completion banner over the cleared board.
func (m Model) drawSummary(snap engine.Snapshot) {
	y := m.canvas.Height()/2 - 2
	if y < 0 {
		y = 0
	}

	banner := " BOARD CLEARED! "
	if snap.Level > 1 {
		banner = fmt.Sprintf(" LEVEL %d CLEARED! ", snap.Level)
	}
	m.canvas.DrawTextCentered(y, banner, InkAccent)

	m.canvas.DrawTextCentered(y+2, fmt.Sprintf("score %d   moves %d   time %s",
		snap.Score, snap.Moves, formatClock(snap.Elapsed)), InkFace)
	if snap.NewBest {
		m.canvas.DrawTextCentered(y+3, "NEW BEST!", InkSpark)
	} else {
		m.canvas.DrawTextCentered(y+3, fmt.Sprintf("best %d", snap.Best), InkDim)
	}
	m.canvas.DrawTextCentered(y+5, "r play again   esc menu", InkDim)
}

func formatClock(d time.Duration) string {
	s := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Run starts the local Bubble Tea program.
func Run(m Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
