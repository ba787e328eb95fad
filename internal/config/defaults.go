package config

import (
	_ "embed"
)

//go:embed defaults/gravitytap.yaml
var defaultGameYAML []byte

// DefaultGameConfig returns the built-in configuration.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Physics: PhysicsConfig{
			TerminalVelocity: 2400,
			GroundLevel:      1000,
		},
		Board: BoardConfig{
			Lanes: 3,
		},
		Loop: LoopConfig{
			FrameMs: 16,
		},
		Render: RenderConfig{
			PixelsPerRow: 50,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultGameYAML
}
