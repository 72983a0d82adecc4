// pairs is a memory matching game for the terminal.
//
// Usage:
//
//	pairs play               - Play locally
//	pairs list               - Show the difficulty table
//	pairs scores             - Show recorded best scores
//	pairs serve              - Serve the game over SSH
//
// Global flags:
//
//	--config <path>  - Custom rules file (YAML)
//	--db <path>      - Best-score database path
//	--seed <value>   - RNG seed for reproducible deals
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go-pairs/internal/storage"
)

var (
	// Global flags
	flagConfig string
	flagDBPath string
	flagSeed   int64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pairs",
	Short: "Pairs - a memory matching game in your terminal",
	Long: `Pairs is a memory matching game: cards are dealt face down, you
flip two at a time, and matching symbols stay up. Clear the board
quickly and in few moves for the best score.

Available commands:
  play     - Play locally
  list     - Show the difficulty table
  scores   - View recorded best scores
  serve    - Start an SSH server for remote play

Examples:
  pairs play
  pairs play --difficulty hard
  pairs scores
  pairs serve --ssh :2222`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a custom rules YAML file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to the best-score database")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}
