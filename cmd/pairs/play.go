package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"go-pairs/internal/config"
	"go-pairs/internal/engine"
	"go-pairs/internal/fx"
	"go-pairs/internal/storage"
	"go-pairs/internal/tui"
)

var (
	flagDifficulty string
	flagMute       bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the game",
	Long: `Start the game locally.

Controls:
  Arrows/hjkl  - Move the cursor
  Enter/Space  - Flip a card (mouse clicks work too)
  P            - Pause
  R            - Play again (after clearing a board)
  M            - Mute the bell
  Esc          - Back to the menu
  Q/Ctrl+C     - Quit

Examples:
  pairs play
  pairs play --difficulty hard
  pairs play --config ./house-rules.yaml --mute`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Skip the menu and deal this difficulty")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Start with the bell muted")
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Get terminal size early so the first deal fits
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open score database: %v\n", err)
		// Continue without persistence - the game still works
		store = nil
	}

	var rng *rand.Rand
	if flagSeed != 0 {
		rng = rand.New(rand.NewSource(flagSeed))
	}

	muted := flagMute
	if !muted && store != nil {
		if v, ok, settingErr := store.Setting("muted"); settingErr == nil && ok {
			muted = v == "1"
		}
	}
	bell := fx.NewBell(os.Stdout, muted)
	sparks := fx.NewSparks(nil)

	deps := engine.Deps{Audio: bell, Particles: sparks}
	if store != nil {
		deps.Scores = store
	}
	eng := engine.New(cfg, deps, nil, rng)

	if flagDifficulty != "" {
		if startErr := eng.Start(flagDifficulty); startErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", startErr)
			if store != nil {
				store.Close()
			}
			os.Exit(1)
		}
	}

	runErr := tui.Run(tui.NewModel(eng, sparks, bell, store, cfg, width, height))

	if store != nil {
		store.Close()
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
