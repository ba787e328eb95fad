package game

import "github.com/vovakirdan/gravity-tap/internal/config"

// Action is an input to the Reducer.
type Action interface {
	action()
}

// Tick advances physics by DeltaSeconds. NowMs is the clock time of the tick.
type Tick struct {
	NowMs        int64
	DeltaSeconds float64
}

// Tap hits the ball in flight. Any tap counts; there is no lane check.
type Tap struct{}

// PauseToggle flips the paused flag.
type PauseToggle struct{}

// Spawn drops a new ball at NowMs if none is in flight.
type Spawn struct {
	NowMs int64
}

func (Tick) action()        {}
func (Tap) action()         {}
func (PauseToggle) action() {}
func (Spawn) action()       {}

// Effect is a one-shot outcome of a transition, delivered to the
// presentation layer exactly once.
type Effect interface {
	effect()
}

// GameOver is emitted by the transition that takes the last life.
type GameOver struct {
	Score      int
	Difficulty config.Difficulty
	MaxCombo   int
}

func (GameOver) effect() {}
