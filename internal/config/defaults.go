package config

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Default returns the embedded default configuration.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return hardcodedDefault() // fallback if the embedded file is broken
	}
	return cfg
}

// hardcodedDefault mirrors default.yaml so a corrupted embed still yields
// a playable game.
func hardcodedDefault() Config {
	return Config{
		Difficulties: []Difficulty{
			{Name: "easy", Rows: 2, Cols: 3, TimeBonus: 30},
			{Name: "medium", Rows: 3, Cols: 4, TimeBonus: 60},
			{Name: "hard", Rows: 4, Cols: 4, TimeBonus: 90},
			{Name: "expert", Rows: 4, Cols: 6, TimeBonus: 120},
		},
		Symbols: []string{
			"🍎", "🍌", "🍇", "🍒", "🍋", "🍉",
			"🍓", "🍑", "🥝", "🍍", "🥥", "🥕",
		},
		Timing: Timing{ThinkDelayMS: 800, FinishDelayMS: 500, TickMS: 100},
		Layout: Layout{Margin: 1, Gutter: 1},
	}
}
