package game

import (
	"math/rand/v2"

	"github.com/vovakirdan/gravity-tap/internal/core"
)

// DefaultLanes is the number of lanes a ball can fall through.
const DefaultLanes = 3

// LaneSource picks spawn lanes. *rand.Rand satisfies it.
type LaneSource interface {
	IntN(n int) int
}

// NewLaneSource returns a PCG-backed lane source. A zero seed draws one from
// the runtime's random source.
func NewLaneSource(seed uint64) LaneSource {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Result is the outcome of one transition.
type Result struct {
	State  GameState
	Effect Effect // nil when the transition produced no effect
}

// Changed reports whether the transition altered the state.
func (r Result) Changed(prev GameState) bool {
	return !r.State.Equal(prev)
}

// Reducer turns (state, action) into (state, effect). It holds only
// configuration and is not safe for concurrent use because of its lane
// source.
type Reducer struct {
	lanes            int
	groundLevel      float64
	terminalVelocity float64
	rng              LaneSource
}

// NewReducer creates a reducer for the given lane count. Non-positive lane
// counts fall back to DefaultLanes.
func NewReducer(lanes int, rng LaneSource) *Reducer {
	if lanes <= 0 {
		lanes = DefaultLanes
	}
	if rng == nil {
		rng = NewLaneSource(0)
	}
	return &Reducer{
		lanes:            lanes,
		groundLevel:      DefaultGroundLevel,
		terminalVelocity: DefaultTerminalVelocity,
		rng:              rng,
	}
}

// WithGroundLevel returns a copy of the reducer using a new ground level for
// subsequent ticks. Non-positive values are ignored.
func (r *Reducer) WithGroundLevel(px float64) *Reducer {
	c := *r
	if px > 0 {
		c.groundLevel = px
	}
	return &c
}

// WithTerminalVelocity returns a copy of the reducer with a new velocity cap.
// Non-positive values are ignored.
func (r *Reducer) WithTerminalVelocity(v float64) *Reducer {
	c := *r
	if v > 0 {
		c.terminalVelocity = v
	}
	return &c
}

// Lanes returns the lane count.
func (r *Reducer) Lanes() int { return r.lanes }

// GroundLevel returns the ground level in px.
func (r *Reducer) GroundLevel() float64 { return r.groundLevel }

// Reduce applies one action.
func (r *Reducer) Reduce(s GameState, a Action) Result {
	switch a := a.(type) {
	case PauseToggle:
		s.Paused = !s.Paused
		return Result{State: s}

	case Tap:
		if s.Paused || s.Object == nil {
			return Result{State: s}
		}
		out := OnHit(s.Score, s.Combo, s.MaxCombo)
		s.Score, s.Combo, s.MaxCombo = out.Score, out.Combo, out.MaxCombo
		s.Object = nil
		return Result{State: s}

	case Spawn:
		if s.Paused || s.Object != nil {
			return Result{State: s}
		}
		return Result{State: s.withObject(&FallingObject{
			Lane:      r.pickLane(),
			SpawnedAt: a.NowMs,
		})}

	case Tick:
		if s.Paused || s.Object == nil {
			return Result{State: s}
		}
		return r.tick(s, a)
	}

	return Result{State: s}
}

func (r *Reducer) tick(s GameState, t Tick) Result {
	obj, grounded := Advance(*s.Object, t.DeltaSeconds, s.Difficulty.Acceleration(), r.terminalVelocity, r.groundLevel)
	s.ElapsedMs += stepMillis(t.DeltaSeconds)

	if !grounded {
		return Result{State: s.withObject(&obj)}
	}

	// Miss: clear, reset combo and take a life in one transition.
	out := OnMiss(s.Score, s.Combo, s.MaxCombo)
	s.Score, s.Combo, s.MaxCombo = out.Score, out.Combo, out.MaxCombo
	s.Object = nil
	s.Lives = max(s.Lives-1, 0)

	if s.Lives <= 0 {
		return Result{
			State: s,
			Effect: GameOver{
				Score:      s.Score,
				Difficulty: s.Difficulty,
				MaxCombo:   s.MaxCombo,
			},
		}
	}
	return Result{State: s}
}

func (r *Reducer) pickLane() int {
	return core.Clamp(r.rng.IntN(r.lanes), 0, r.lanes-1)
}
