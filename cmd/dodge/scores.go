package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dodge/internal/storage"
)

var (
	flagLimit  int
	flagRecent bool
	flagClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the high score and the best runs",
	Long: `Display the high score and the top runs.

Examples:
  dodge scores
  dodge scores --limit 20
  dodge scores --recent
  dodge scores --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "Show the most recent runs instead of the best")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the high score and the run history")
}

func runScores(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		if err := clearScores(store); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("High score and run history cleared.")
		return
	}

	var runs []storage.RunEntry
	title := "Top Runs"
	if flagRecent {
		title = "Recent Runs"
		runs, err = store.RecentRuns(flagLimit)
	} else {
		runs, err = store.TopRuns(flagLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	high, err := store.HighScore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading high score: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("High Score: %d\n", high)
	fmt.Println()
	fmt.Printf("%s\n", title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'dodge play' to set the first high score!")
		return
	}

	fmt.Printf("  %-4s  %-7s  %-8s  %-16s  %s\n", "Rank", "Score", "Time", "Look", "Date")
	fmt.Printf("  %-4s  %-7s  %-8s  %-16s  %s\n", "----", "-----", "----", "----", "----")

	for i, r := range runs {
		seconds := float64(r.Frames) / float64(max(flagFPS, 1))
		look := r.Color + " " + r.Shape
		fmt.Printf("  %-4d  %-7d  %-8s  %-16s  %s\n",
			i+1, r.Score, fmt.Sprintf("%.1fs", seconds), look, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.GetStats(); err == nil {
		fmt.Println()
		fmt.Printf("Runs: %d  Average: %.1f\n", stats.RunsCount, stats.AvgScore)
	}
}

func clearScores(store *storage.Store) error {
	if err := store.ClearRuns(); err != nil {
		return err
	}
	return store.ResetHighScore()
}
