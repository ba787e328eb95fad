// Package game implements Gravity Tap's deterministic core: a ball falls
// through one of several lanes and the player taps it before it reaches the
// ground. The package holds the pure state machine (Reducer), its physics,
// scoring and spawn-timing policies, and the fixed-step tick Loop.
// Nothing here performs I/O.
package game

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/gravity-tap/internal/config"
)

// FallingObject is the ball currently in flight.
type FallingObject struct {
	Lane      int     `json:"lane"`       // Lane index in [0, lanes)
	Y         float64 `json:"y"`          // Vertical position in px, grows downwards
	VY        float64 `json:"vy"`         // Vertical velocity in px/s
	SpawnedAt int64   `json:"spawned_at"` // Clock time (ms) of the spawn
}

// GameState is the complete state of one run. It is only ever changed by
// the Reducer and is serializable so a run can be resumed.
type GameState struct {
	Difficulty config.Difficulty `json:"difficulty"`
	Score      int               `json:"score"`
	Lives      int               `json:"lives"`
	Combo      int               `json:"combo"`
	MaxCombo   int               `json:"max_combo"`
	Object     *FallingObject    `json:"object,omitempty"` // nil when no ball is in flight
	Paused     bool              `json:"paused"`
	ElapsedMs  int64             `json:"elapsed_ms"` // Time spent with a ball in flight
}

// NewGameState returns the starting state for a difficulty.
func NewGameState(d config.Difficulty) GameState {
	return GameState{
		Difficulty: d,
		Lives:      d.Lives(),
	}
}

// HasObject reports whether a ball is in flight.
func (s GameState) HasObject() bool {
	return s.Object != nil
}

// IsGameOver reports whether the run has ended.
func (s GameState) IsGameOver() bool {
	return s.Lives <= 0
}

// Equal reports whether two states hold the same values.
func (s GameState) Equal(o GameState) bool {
	if s.Difficulty != o.Difficulty ||
		s.Score != o.Score ||
		s.Lives != o.Lives ||
		s.Combo != o.Combo ||
		s.MaxCombo != o.MaxCombo ||
		s.Paused != o.Paused ||
		s.ElapsedMs != o.ElapsedMs {
		return false
	}
	switch {
	case s.Object == nil && o.Object == nil:
		return true
	case s.Object == nil || o.Object == nil:
		return false
	default:
		return *s.Object == *o.Object
	}
}

// withObject returns a copy of s holding its own copy of obj.
func (s GameState) withObject(obj *FallingObject) GameState {
	if obj != nil {
		o := *obj
		obj = &o
	}
	s.Object = obj
	return s
}

// ErrInvariant is wrapped by Validate failures.
var ErrInvariant = errors.New("game: state invariant violated")

// Validate checks the data model invariants. A failure means the reducer or
// a restored snapshot is broken; valid action sequences never produce one.
func (s GameState) Validate(lanes int) error {
	switch {
	case !s.Difficulty.Valid():
		return fmt.Errorf("%w: unknown difficulty %d", ErrInvariant, int(s.Difficulty))
	case s.Score < 0:
		return fmt.Errorf("%w: negative score %d", ErrInvariant, s.Score)
	case s.Lives < 0:
		return fmt.Errorf("%w: negative lives %d", ErrInvariant, s.Lives)
	case s.Combo < 0:
		return fmt.Errorf("%w: negative combo %d", ErrInvariant, s.Combo)
	case s.MaxCombo < s.Combo:
		return fmt.Errorf("%w: max combo %d below combo %d", ErrInvariant, s.MaxCombo, s.Combo)
	case s.ElapsedMs < 0:
		return fmt.Errorf("%w: negative elapsed time %d", ErrInvariant, s.ElapsedMs)
	}
	if s.Object != nil {
		if s.Object.Lane < 0 || s.Object.Lane >= lanes {
			return fmt.Errorf("%w: lane %d outside [0, %d)", ErrInvariant, s.Object.Lane, lanes)
		}
		if s.Object.Y < 0 {
			return fmt.Errorf("%w: negative position %v", ErrInvariant, s.Object.Y)
		}
	}
	return nil
}
