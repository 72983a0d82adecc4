package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go-pairs/internal/storage"
)

var flagClear bool

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the recorded best scores",
	Long: `Display the best score recorded for each difficulty.

Examples:
  pairs scores
  pairs scores --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Forget all recorded best scores")
}

func runScores(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening score database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		if clearErr := store.Clear(); clearErr != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", clearErr)
			os.Exit(1)
		}
		fmt.Println("Best scores cleared.")
		return
	}

	entries, err := store.BestScores()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	if len(entries) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'pairs play' to set the first one!")
		return
	}

	fmt.Println("Best scores:")
	fmt.Println()
	fmt.Printf("  %-10s  %-8s  %s\n", "Difficulty", "Score", "Set on")
	fmt.Printf("  %-10s  %-8s  %s\n", "----------", "-----", "------")
	for _, e := range entries {
		fmt.Printf("  %-10s  %-8d  %s\n", e.Difficulty, e.Score, e.UpdatedAt.Format("2006-01-02 15:04"))
	}
}
