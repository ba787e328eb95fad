// Package config provides YAML-based game configuration, the difficulty
// presets and the persisted player settings.
package config

import (
	"errors"
	"fmt"
)

// GameConfig contains tunable parameters for the game and its presentation.
// Difficulty constants are fixed per preset and are not part of it.
type GameConfig struct {
	Physics PhysicsConfig `yaml:"physics"`
	Board   BoardConfig   `yaml:"board"`
	Loop    LoopConfig    `yaml:"loop"`
	Render  RenderConfig  `yaml:"render"`
}

// PhysicsConfig defines the falling-object physics boundaries.
type PhysicsConfig struct {
	TerminalVelocity float64 `yaml:"terminal_velocity"` // px/s
	GroundLevel      float64 `yaml:"ground_level"`      // px, initial value before the view reports its size
}

// BoardConfig defines the playfield.
type BoardConfig struct {
	Lanes int `yaml:"lanes"`
}

// LoopConfig defines the fixed-step loop cadence.
type LoopConfig struct {
	FrameMs int `yaml:"frame_ms"`
}

// RenderConfig defines how virtual pixels map onto terminal cells.
type RenderConfig struct {
	PixelsPerRow float64 `yaml:"pixels_per_row"`
}

// ErrInvalidConfig is returned by Validate for out-of-range values.
var ErrInvalidConfig = errors.New("config: invalid game config")

// Validate checks that every value is usable.
func (c GameConfig) Validate() error {
	switch {
	case c.Physics.TerminalVelocity <= 0:
		return fmt.Errorf("%w: physics.terminal_velocity must be positive, got %v", ErrInvalidConfig, c.Physics.TerminalVelocity)
	case c.Physics.GroundLevel <= 0:
		return fmt.Errorf("%w: physics.ground_level must be positive, got %v", ErrInvalidConfig, c.Physics.GroundLevel)
	case c.Board.Lanes < 1:
		return fmt.Errorf("%w: board.lanes must be at least 1, got %d", ErrInvalidConfig, c.Board.Lanes)
	case c.Loop.FrameMs < 1:
		return fmt.Errorf("%w: loop.frame_ms must be at least 1, got %d", ErrInvalidConfig, c.Loop.FrameMs)
	case c.Render.PixelsPerRow <= 0:
		return fmt.Errorf("%w: render.pixels_per_row must be positive, got %v", ErrInvalidConfig, c.Render.PixelsPerRow)
	}
	return nil
}
