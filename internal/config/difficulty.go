package config

import (
	"fmt"
	"strings"
)

// Difficulty is one of the fixed game presets. It is chosen once at session
// start and never changes during a run.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyNormal
	DifficultyHard
)

// DefaultDifficulty is used when no valid preset is configured.
const DefaultDifficulty = DifficultyNormal

// DifficultyParams are the constants each preset carries.
type DifficultyParams struct {
	Acceleration    float64 // Gravity in px/s²
	SpawnIntervalMs int64   // Minimum time between spawns
	Lives           int     // Lives at session start
}

var difficultyParams = [...]DifficultyParams{
	DifficultyEasy:   {Acceleration: 900, SpawnIntervalMs: 900, Lives: 5},
	DifficultyNormal: {Acceleration: 1200, SpawnIntervalMs: 700, Lives: 3},
	DifficultyHard:   {Acceleration: 1500, SpawnIntervalMs: 550, Lives: 2},
}

var difficultyNames = [...]string{
	DifficultyEasy:   "EASY",
	DifficultyNormal: "NORMAL",
	DifficultyHard:   "HARD",
}

// Difficulties lists all presets from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyNormal, DifficultyHard}
}

// Valid reports whether d is one of the known presets.
func (d Difficulty) Valid() bool {
	return d >= DifficultyEasy && d <= DifficultyHard
}

// Params returns the preset constants. Unknown values map to the default preset.
func (d Difficulty) Params() DifficultyParams {
	if !d.Valid() {
		return difficultyParams[DefaultDifficulty]
	}
	return difficultyParams[d]
}

// Acceleration returns the gravity for this preset in px/s².
func (d Difficulty) Acceleration() float64 { return d.Params().Acceleration }

// SpawnIntervalMs returns the spawn interval for this preset.
func (d Difficulty) SpawnIntervalMs() int64 { return d.Params().SpawnIntervalMs }

// Lives returns the starting life count for this preset.
func (d Difficulty) Lives() int { return d.Params().Lives }

// String returns the upper-case preset name.
func (d Difficulty) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
	return difficultyNames[d]
}

// Next returns the next harder preset, wrapping around.
func (d Difficulty) Next() Difficulty {
	return Difficulty((int(d) + 1) % len(difficultyNames))
}

// Prev returns the next easier preset, wrapping around.
func (d Difficulty) Prev() Difficulty {
	n := len(difficultyNames)
	return Difficulty((int(d) - 1 + n) % n)
}

// ParseDifficulty parses a preset name. Matching is case-insensitive and
// tolerates surrounding whitespace and braces (e.g. "{hard}").
func ParseDifficulty(s string) (Difficulty, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, "{")
	raw = strings.TrimSuffix(raw, "}")
	raw = strings.ToUpper(strings.TrimSpace(raw))

	for i, name := range difficultyNames {
		if name == raw {
			return Difficulty(i), nil
		}
	}
	return DefaultDifficulty, fmt.Errorf("config: unknown difficulty %q", s)
}

// DifficultyOrDefault parses s and falls back to the default preset.
func DifficultyOrDefault(s string) Difficulty {
	d, err := ParseDifficulty(s)
	if err != nil {
		return DefaultDifficulty
	}
	return d
}

// MarshalText implements encoding.TextMarshaler.
func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("config: invalid difficulty %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
