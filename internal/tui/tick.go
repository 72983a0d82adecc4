// Package tui renders the card table with Bubble Tea and serves it
// locally or over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg drives the game clock.
type TickMsg time.Time

// tickCmd schedules the next clock tick.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
