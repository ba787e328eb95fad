// gravitytap is a terminal game: balls fall down three lanes and you tap
// before they reach the ground.
//
// Usage:
//
//	gravitytap play          - Play (resumes a saved run if there is one)
//	gravitytap menu          - Start with the menu
//	gravitytap scores        - Show high scores
//	gravitytap settings      - Show or change difficulty and sound
//	gravitytap serve         - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>      - Simulation rate (default: 60)
//	--seed <value>    - Lane seed for reproducible runs
//	--db <path>       - Database path (default: ~/.gravitytap/gravitytap.db)
//	--config <path>   - Game config YAML
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gravity-tap/internal/config"
	"github.com/vovakirdan/gravity-tap/internal/storage"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   uint64
	flagDBPath string
	flagConfig string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gravitytap",
	Short: "Gravity Tap - tap the falling balls before they land",
	Long: `Gravity Tap is a terminal reflex game. A ball drops down one of three
lanes; tap before it reaches the ground to score. Consecutive hits build a
combo, every miss costs a life.

Available commands:
  play      - Start playing (resumes a saved run)
  menu      - Menu with difficulty, sound and scoreboard
  scores    - View high scores
  settings  - Show or change settings
  serve     - Start SSH server for remote play

Examples:
  gravitytap play
  gravitytap play --difficulty hard --new
  gravitytap scores --difficulty easy
  gravitytap serve --ssh :2222 --http :8080`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Simulation rate (frames per second)")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "Lane seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.gravitytap/gravitytap.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadGameConfig loads the game config and applies --fps.
func loadGameConfig() (config.GameConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagFPS > 0 {
		cfg.Loop.FrameMs = max(1000/flagFPS, 1)
	}
	return cfg, nil
}

// openStore opens the database, warning and continuing without it on failure.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

// openFileLogger logs to ~/.gravitytap/gravitytap.log so the alt screen is
// not disturbed. The returned closer releases the file.
func openFileLogger() (*log.Logger, io.Closer) {
	options := log.Options{
		ReportTimestamp: true,
		Prefix:          "gravitytap",
	}

	dir := config.AppDir()
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err == nil {
			f, err := os.OpenFile(filepath.Join(dir, "gravitytap.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
			if err == nil {
				return log.NewWithOptions(f, options), f
			}
		}
	}
	return log.NewWithOptions(io.Discard, options), io.NopCloser(nil)
}

// terminalSize returns the size of stdout, or 80x24.
func terminalSize() (int, int) {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}
