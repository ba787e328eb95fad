package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gravity-tap/internal/config"
	"github.com/vovakirdan/gravity-tap/internal/platform/tui"
	"github.com/vovakirdan/gravity-tap/internal/storage"
)

var (
	flagScoresDifficulty string
	flagScoresLimit      int
	flagScoresStats      bool
	flagScoresClear      bool
	flagScoresTUI        bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the top high scores, optionally for one difficulty.

Examples:
  gravitytap scores
  gravitytap scores --difficulty hard --limit 5
  gravitytap scores --stats
  gravitytap scores --tui
  gravitytap scores --clear`,
	Run: runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresDifficulty, "difficulty", "", "Only show this difficulty: easy, normal, hard")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresStats, "stats", false, "Show per-difficulty statistics")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all recorded scores")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Open the interactive scoreboard")
}

func runScores(_ *cobra.Command, _ []string) {
	if flagScoresTUI {
		if err := runApp(tui.StartScoreboard, tui.PlayOptions{}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var difficulty *config.Difficulty
	if flagScoresDifficulty != "" {
		d, err := config.ParseDifficulty(flagScoresDifficulty)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		difficulty = &d
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagScoresClear:
		err = store.ClearScores()
		if err == nil {
			fmt.Println("All scores cleared.")
		}
	case flagScoresStats:
		err = printStats(store)
	default:
		err = printScores(store, difficulty, flagScoresLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		store.Close()
		os.Exit(1)
	}
}

func printScores(store *storage.Store, difficulty *config.Difficulty, limit int) error {
	var (
		scores []storage.ScoreRecord
		err    error
		title  = "All difficulties"
	)
	if difficulty != nil {
		title = difficulty.String()
		scores, err = store.TopScoresByDifficulty(*difficulty, limit)
	} else {
		scores, err = store.TopScores(limit)
	}
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'gravitytap play' to set the first high score!")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %s\n", "Rank", "Score", "Combo", "Level", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %s\n", "----", "-----", "-----", "-----", "----")

	for i, rec := range scores {
		dateStr := rec.CompletedAt.Local().Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-8d  x%-5d  %-6s  %s\n", i+1, rec.Score, rec.MaxCombo, rec.Difficulty, dateStr)
	}

	if difficulty != nil {
		fmt.Println()
		if best, err := store.HighScore(*difficulty); err == nil {
			fmt.Printf("Best: %d\n", best)
		}
	}
	return nil
}

func printStats(store *storage.Store) error {
	stats, err := store.Stats()
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}

	fmt.Println("Statistics")
	fmt.Println()
	fmt.Printf("  %-6s  %-5s  %-6s  %-8s  %-6s  %s\n", "Level", "Games", "Best", "Average", "Combo", "Last played")
	for _, d := range config.Difficulties() {
		st, ok := stats[d]
		if !ok {
			fmt.Printf("  %-6s  %-5d  %-6s  %-8s  %-6s  %s\n", d, 0, "-", "-", "-", "-")
			continue
		}
		fmt.Printf("  %-6s  %-5d  %-6d  %-8.1f  x%-5d  %s\n",
			d, st.GamesCount, st.HighScore, st.AvgScore, st.BestCombo,
			st.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
