package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gravity-tap/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start Gravity Tap with the menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, left/right to change difficulty and
sound, Enter to select. After a game ends you can play again or return to
the menu.

Controls:
  Up/Down/j/k     - Navigate menu
  Left/Right/h/l  - Change option
  Enter/Space     - Select
  Tab             - High scores
  Q               - Quit

Examples:
  gravitytap menu
  gravitytap menu --fps 30
  gravitytap menu --db ./scores.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	if err := runApp(tui.StartMenu, tui.PlayOptions{}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
