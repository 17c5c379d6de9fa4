package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dodge/internal/config"
)

var flagWatch bool

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the game with the main menu",
	Long: `Start in interactive menu mode.

The menu shows your high score and lets you start a game, change the
shape and color of your player, or browse the scoreboard. After a game
ends, press Enter to come back here.

With --watch, edits to the --config file are picked up while the menu
runs and apply from the next game on.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Q            - Quit

Examples:
  dodge menu
  dodge menu --fps 30
  dodge menu --config ./dodge.yaml --watch`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func init() {
	menuCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload the --config file when it changes")
	menuCmd.Flags().StringVar(&flagShape, "shape", "", "Player shape: circle, square, triangle")
	menuCmd.Flags().StringVar(&flagColor, "color", "", "Player color: red, green, blue, yellow, purple, orange, cyan, pink")
}

func runMenu(_ *cobra.Command, _ []string) {
	var watcher *config.Watcher
	if flagWatch {
		if flagConfig == "" {
			fmt.Fprintln(os.Stderr, "Error: --watch needs --config")
			os.Exit(1)
		}
		w, err := config.NewWatcher(flagConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		watcher = w
	}

	runGame(false, watcher)
}
