// Package config provides YAML-based configuration for the pairs game:
// the difficulty table, the symbol pool, timing, and board layout
// metrics.
package config

import (
	"fmt"
	"time"
)

// Config is the full game configuration. Zero values are never used
// directly; Load falls back to the embedded defaults field by field.
type Config struct {
	Difficulties []Difficulty `yaml:"difficulties"`
	Symbols      []string     `yaml:"symbols"`
	Timing       Timing       `yaml:"timing"`
	Layout       Layout       `yaml:"layout"`
}

// Difficulty is one named grid profile. Rows*Cols must be even and at
// least 4 so every symbol has exactly one partner.
type Difficulty struct {
	Name      string `yaml:"name"`
	Rows      int    `yaml:"rows"`
	Cols      int    `yaml:"cols"`
	TimeBonus int    `yaml:"time_bonus"` // seconds of time bonus granted at game start
}

// Pairs returns how many symbol pairs the profile's grid holds.
func (d Difficulty) Pairs() int {
	return d.Rows * d.Cols / 2
}

// Timing holds the engine's scheduling constants in milliseconds.
type Timing struct {
	ThinkDelayMS  int `yaml:"think_delay_ms"`  // both cards stay visible this long before resolution
	FinishDelayMS int `yaml:"finish_delay_ms"` // pause between the last match and the summary
	TickMS        int `yaml:"tick_ms"`         // presentation tick driving the game clock
}

// Layout holds the board placement metrics in terminal cells.
type Layout struct {
	Margin int `yaml:"margin"` // outer border around the grid
	Gutter int `yaml:"gutter"` // spacing between cards
}

// Profile looks up a difficulty by name.
func (c Config) Profile(name string) (Difficulty, error) {
	for _, d := range c.Difficulties {
		if d.Name == name {
			return d, nil
		}
	}
	return Difficulty{}, fmt.Errorf("unknown difficulty %q", name)
}

// ThinkDelay returns the pre-resolution delay as a duration.
func (c Config) ThinkDelay() time.Duration {
	return time.Duration(c.Timing.ThinkDelayMS) * time.Millisecond
}

// FinishDelay returns the post-final-match delay as a duration.
func (c Config) FinishDelay() time.Duration {
	return time.Duration(c.Timing.FinishDelayMS) * time.Millisecond
}

// TickInterval returns the presentation tick period as a duration.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.Timing.TickMS) * time.Millisecond
}

// Validate checks that the configuration can actually host a game.
func (c Config) Validate() error {
	if len(c.Difficulties) == 0 {
		return fmt.Errorf("config has no difficulties")
	}
	maxPairs := 0
	for _, d := range c.Difficulties {
		if d.Name == "" {
			return fmt.Errorf("difficulty with empty name")
		}
		if d.Rows <= 0 || d.Cols <= 0 {
			return fmt.Errorf("difficulty %q: grid %dx%d is not positive", d.Name, d.Rows, d.Cols)
		}
		cells := d.Rows * d.Cols
		if cells < 4 || cells%2 != 0 {
			return fmt.Errorf("difficulty %q: %dx%d cells must be even and at least 4", d.Name, d.Rows, d.Cols)
		}
		if d.TimeBonus < 0 {
			return fmt.Errorf("difficulty %q: negative time bonus", d.Name)
		}
		if p := d.Pairs(); p > maxPairs {
			maxPairs = p
		}
	}
	if len(c.Symbols) < maxPairs {
		return fmt.Errorf("symbol pool has %d symbols, largest grid needs %d", len(c.Symbols), maxPairs)
	}
	if c.Timing.ThinkDelayMS <= 0 || c.Timing.FinishDelayMS < 0 || c.Timing.TickMS <= 0 {
		return fmt.Errorf("timing values must be positive")
	}
	if c.Layout.Margin < 0 || c.Layout.Gutter < 0 {
		return fmt.Errorf("layout metrics must not be negative")
	}
	return nil
}
