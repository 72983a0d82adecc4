package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"go-pairs/internal/board"
)

// Ink is a semantic color class for canvas cells. The renderer maps
// each class to a lipgloss style, keeping drawing code free of color
// codes.
type Ink uint8

const (
	InkDefault Ink = iota
	InkFrame       // card borders
	InkBack        // face-down fill
	InkFace        // revealed symbols
	InkMatched     // settled pairs
	InkCursor      // keyboard cursor highlight
	InkAccent      // titles and badges
	InkDim         // secondary text
	InkSpark       // match particles
	InkAlert       // pause banner
)

// inkStyles maps ink classes to lipgloss styles.
var inkStyles = map[Ink]lipgloss.Style{
	InkDefault: lipgloss.NewStyle(),
	InkFrame:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	InkBack:    lipgloss.NewStyle().Foreground(lipgloss.Color("61")),
	InkFace:    lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
	InkMatched: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	InkCursor:  lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
	InkAccent:  lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true),
	InkDim:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	InkSpark:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	InkAlert:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
}

type cell struct {
	r   rune
	ink Ink
}

// Canvas is the cell buffer a frame is drawn into. A double-width rune
// claims two cells; the second holds a zero rune the renderer skips, so
// emoji symbols line up with the card geometry.
type Canvas struct {
	width  int
	height int
	cells  [][]cell
}

// NewCanvas creates a canvas with the given dimensions.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{width: width, height: height}
	c.allocate()
	c.Clear()
	return c
}

func (c *Canvas) allocate() {
	c.cells = make([][]cell, c.height)
	for y := range c.cells {
		c.cells[y] = make([]cell, c.width)
	}
}

// Width returns the canvas width in cells.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in cells.
func (c *Canvas) Height() int {
	return c.height
}

// Resize reallocates the buffer. Content is not preserved; every frame
// is drawn from scratch.
func (c *Canvas) Resize(width, height int) {
	if width == c.width && height == c.height {
		return
	}
	c.width = width
	c.height = height
	c.allocate()
	c.Clear()
}

// Clear fills the canvas with spaces.
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = cell{r: ' '}
		}
	}
}

// Set places a rune at the given position. Out-of-bounds coordinates
// are silently ignored.
func (c *Canvas) Set(x, y int, r rune, ink Ink) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.cells[y][x] = cell{r: r, ink: ink}
	if runewidth.RuneWidth(r) == 2 && x+1 < c.width {
		c.cells[y][x+1] = cell{ink: ink}
	}
}

// Get returns the rune at the given position. Out-of-bounds positions
// return a space; the continuation cell of a wide rune returns zero.
func (c *Canvas) Get(x, y int) rune {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return ' '
	}
	return c.cells[y][x].r
}

// DrawText writes a string starting at (x, y), clipping at the edges.
func (c *Canvas) DrawText(x, y int, text string, ink Ink) {
	for _, r := range text {
		c.Set(x, y, r, ink)
		x += runewidth.RuneWidth(r)
	}
}

// DrawTextCentered centers text horizontally on row y.
func (c *Canvas) DrawTextCentered(y int, text string, ink Ink) {
	x := (c.width - runewidth.StringWidth(text)) / 2
	if x < 0 {
		x = 0
	}
	c.DrawText(x, y, text, ink)
}

// FillRect floods a rectangle with the given rune.
func (c *Canvas) FillRect(r board.Rect, fill rune, ink Ink) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			c.Set(x, y, fill, ink)
		}
	}
}

// DrawBox draws a box outline. Rectangles too small for a border are
// skipped.
func (c *Canvas) DrawBox(r board.Rect, ink Ink) {
	if r.W < 2 || r.H < 2 {
		return
	}
	c.Set(r.X, r.Y, '┌', ink)
	c.Set(r.Right()-1, r.Y, '┐', ink)
	c.Set(r.X, r.Bottom()-1, '└', ink)
	c.Set(r.Right()-1, r.Bottom()-1, '┘', ink)

	for x := r.X + 1; x < r.Right()-1; x++ {
		c.Set(x, r.Y, '─', ink)
		c.Set(x, r.Bottom()-1, '─', ink)
	}
	for y := r.Y + 1; y < r.Bottom()-1; y++ {
		c.Set(r.X, y, '│', ink)
		c.Set(r.Right()-1, y, '│', ink)
	}
}

// Render converts the buffer to a styled frame. Runs of cells sharing
// an ink are grouped to keep the escape-sequence count down.
func (c *Canvas) Render() string {
	var sb strings.Builder
	sb.Grow(c.width*c.height*2 + c.height)

	for y := 0; y < c.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		x := 0
		for x < c.width {
			ink := c.cells[y][x].ink
			var run strings.Builder
			for x < c.width && c.cells[y][x].ink == ink {
				if r := c.cells[y][x].r; r != 0 {
					run.WriteRune(r)
				}
				x++
			}
			if ink == InkDefault {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(inkStyles[ink].Render(run.String()))
		}
	}
	return sb.String()
}
