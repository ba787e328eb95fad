package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gravity-tap/internal/config"
)

var (
	flagSetDifficulty string
	flagSetSound      string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change settings",
	Long: `Show the current settings, or change them with flags. Settings are
stored in ~/.gravitytap/settings.yaml and apply to the next run; sound also
applies to a running game.

Examples:
  gravitytap settings
  gravitytap settings --difficulty hard
  gravitytap settings --sound off`,
	Run: runSettings,
}

func init() {
	settingsCmd.Flags().StringVar(&flagSetDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	settingsCmd.Flags().StringVar(&flagSetSound, "sound", "", "Sound cues: on, off")
}

func runSettings(_ *cobra.Command, _ []string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "gravitytap",
	})
	store := config.OpenSettings(config.DefaultSettingsPath(), logger)

	if flagSetDifficulty != "" {
		d, err := config.ParseDifficulty(flagSetDifficulty)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := store.SetDifficulty(d); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving settings: %v\n", err)
			os.Exit(1)
		}
	}

	if flagSetSound != "" {
		on, err := parseOnOff(flagSetSound)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := store.SetSoundEnabled(on); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving settings: %v\n", err)
			os.Exit(1)
		}
	}

	cur := store.Current()
	sound := "off"
	if cur.SoundEnabled {
		sound = "on"
	}
	fmt.Printf("Difficulty: %s\n", cur.Difficulty)
	fmt.Printf("Sound:      %s\n", sound)
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid sound value %q, expected on or off", s)
}
