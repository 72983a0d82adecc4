package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go-pairs/internal/config"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the difficulty levels",
	Long:  `Shows the board size and time bonus for each difficulty.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Difficulties:")
	fmt.Println()
	fmt.Printf("  %-10s  %-5s  %-5s  %s\n", "Name", "Grid", "Pairs", "Time bonus")
	fmt.Printf("  %-10s  %-5s  %-5s  %s\n", "----", "----", "-----", "----------")
	for _, d := range cfg.Difficulties {
		grid := fmt.Sprintf("%dx%d", d.Rows, d.Cols)
		fmt.Printf("  %-10s  %-5s  %-5d  %ds\n", d.Name, grid, d.Pairs(), d.TimeBonus)
	}

	fmt.Println()
	fmt.Println("Run 'pairs play --difficulty <name>' to deal one directly.")
}
