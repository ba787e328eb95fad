package game

import (
	"math"

	"github.com/vovakirdan/gravity-tap/internal/core"
)

// Physics constants
const (
	MaxStepSeconds          = 0.05   // Longest single integration step
	DefaultTerminalVelocity = 2400.0 // px/s
	DefaultGroundLevel      = 1000.0 // px
)

// ClampStep bounds a time delta to [0, MaxStepSeconds] so a long stall
// cannot carry the ball through the ground in one step.
func ClampStep(dt float64) float64 {
	return core.ClampF(dt, 0, MaxStepSeconds)
}

// Advance integrates one step of a falling object with semi-implicit Euler
// and a velocity cap. It reports whether the ground was reached; when it was,
// the position is pinned to groundLevel. The lane never changes.
func Advance(obj FallingObject, dt, accel, terminalVelocity, groundLevel float64) (FallingObject, bool) {
	dt = ClampStep(dt)

	vy := math.Min(obj.VY+accel*dt, terminalVelocity)
	y := obj.Y + vy*dt

	hitGround := y >= groundLevel
	if hitGround {
		y = groundLevel
	}

	obj.Y = y
	obj.VY = vy
	return obj, hitGround
}

// stepMillis converts a clamped delta to whole milliseconds.
func stepMillis(dt float64) int64 {
	return int64(math.Round(ClampStep(dt) * 1000))
}
