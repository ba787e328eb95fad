package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gravity-tap/internal/audio"
	"github.com/vovakirdan/gravity-tap/internal/config"
	"github.com/vovakirdan/gravity-tap/internal/platform/tui"
	"github.com/vovakirdan/gravity-tap/internal/platform/web"
	"github.com/vovakirdan/gravity-tap/internal/session"
)

var (
	flagDifficulty string
	flagNew        bool
	flagSpectate   string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Gravity Tap",
	Long: `Start playing. A run that was interrupted (quit while playing or
paused) is resumed where it left off unless --new is given.

Controls:
  Space/Enter/1-3/click  - Tap
  P/Esc                  - Pause
  B                      - Back to menu (while paused)
  Ctrl+S                 - Save a screenshot
  Q/Ctrl+C               - Quit

Difficulty options:
  easy    - slow gravity, 5 lives
  normal  - default, 3 lives
  hard    - fast gravity, 2 lives

Without --difficulty the difficulty from 'gravitytap settings' is used.
An explicit difficulty that differs from the saved run starts a new one.

Examples:
  gravitytap play
  gravitytap play --difficulty hard
  gravitytap play --new
  gravitytap play --spectate :8080`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().BoolVar(&flagNew, "new", false, "Discard a saved run and start over")
	playCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Serve the spectator API on this address (e.g. :8080)")
}

func runPlay(_ *cobra.Command, _ []string) {
	play := tui.PlayOptions{Fresh: flagNew}
	if flagDifficulty != "" {
		d, err := config.ParseDifficulty(flagDifficulty)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		play.Difficulty = &d
	}

	if err := runApp(tui.StartGame, play); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}

// runApp wires the local dependencies and runs the app until it exits.
func runApp(start tui.StartScreen, play tui.PlayOptions) error {
	cfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	logger, logFile := openFileLogger()
	defer logFile.Close()

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	deps := tui.Deps{
		Settings: config.OpenSettings(config.DefaultSettingsPath(), logger),
		Config:   cfg,
		Registry: session.NewRegistry(),
		Logger:   logger,
		// The bell goes to stderr so it never splits a frame on stdout.
		Cues: audio.NewBell(os.Stderr),
		Slot: session.DefaultSlot,
		Seed: flagSeed,
	}
	deps.UseStore(store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if flagSpectate != "" {
		webCfg := web.Config{
			Sessions: deps.Registry,
			Logger:   logger.WithPrefix("gravitytap-http"),
		}
		if store != nil {
			webCfg.Scores = store
		}
		srv := web.NewServer(webCfg)
		go func() {
			if err := srv.ListenAndServe(ctx, flagSpectate); err != nil {
				logger.Error("spectator server stopped", "addr", flagSpectate, "err", err)
			}
		}()
	}

	width, height := terminalSize()
	return tui.Run(ctx, deps, start, play, width, height)
}
