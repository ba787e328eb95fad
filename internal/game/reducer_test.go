package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/gravity-tap/internal/config"
)

// laneSeq returns lanes from a fixed sequence, cycling.
type laneSeq struct {
	lanes []int
	i     int
}

func (s *laneSeq) IntN(n int) int {
	l := s.lanes[s.i%len(s.lanes)]
	s.i++
	return l
}

func newTestReducer(lanes ...int) *Reducer {
	if len(lanes) == 0 {
		lanes = []int{1}
	}
	return NewReducer(DefaultLanes, &laneSeq{lanes: lanes})
}

// sampleStates builds a spread of valid states for property checks.
func sampleStates(n int) []GameState {
	rng := rand.New(rand.NewPCG(7, 11))
	states := make([]GameState, 0, n)
	for i := 0; i < n; i++ {
		d := config.Difficulties()[rng.IntN(3)]
		combo := rng.IntN(10)
		s := GameState{
			Difficulty: d,
			Score:      rng.IntN(1000),
			Lives:      rng.IntN(d.Lives() + 1),
			Combo:      combo,
			MaxCombo:   combo + rng.IntN(5),
			Paused:     rng.IntN(2) == 0,
			ElapsedMs:  int64(rng.IntN(60_000)),
		}
		if rng.IntN(2) == 0 {
			s.Object = &FallingObject{
				Lane:      rng.IntN(DefaultLanes),
				Y:         rng.Float64() * DefaultGroundLevel,
				VY:        rng.Float64() * DefaultTerminalVelocity,
				SpawnedAt: int64(rng.IntN(10_000)),
			}
		}
		states = append(states, s)
	}
	return states
}

func TestPausedStateAbsorbsActions(t *testing.T) {
	r := newTestReducer()
	actions := []Action{Tick{NowMs: 5, DeltaSeconds: 0.016}, Tick{DeltaSeconds: 1}, Tap{}, Spawn{NowMs: 5}}

	for _, s := range sampleStates(200) {
		s.Paused = true
		for _, a := range actions {
			res := r.Reduce(s, a)
			assert.True(t, res.State.Equal(s), "%T changed paused state", a)
			assert.Nil(t, res.Effect)
		}
	}
}

func TestTapWithoutObjectIsNoop(t *testing.T) {
	r := newTestReducer()
	for _, s := range sampleStates(200) {
		s.Object = nil
		res := r.Reduce(s, Tap{})
		assert.True(t, res.State.Equal(s))
		assert.False(t, res.Changed(s))
	}
}

func TestSpawnWithObjectIsNoop(t *testing.T) {
	r := newTestReducer()
	for _, s := range sampleStates(200) {
		if s.Object == nil {
			s.Object = &FallingObject{Lane: 0, Y: 42}
		}
		res := r.Reduce(s, Spawn{NowMs: 99})
		assert.True(t, res.State.Equal(s))
	}
}

func TestPauseToggleOnlyFlipsPaused(t *testing.T) {
	r := newTestReducer()
	for _, s := range sampleStates(50) {
		res := r.Reduce(s, PauseToggle{})
		flipped := s
		flipped.Paused = !s.Paused
		assert.True(t, res.State.Equal(flipped))
		assert.Nil(t, res.Effect)
	}

	over := NewGameState(config.DifficultyHard)
	over.Lives = 0
	assert.True(t, r.Reduce(over, PauseToggle{}).State.Paused)
}

func TestSpawnPlacesObject(t *testing.T) {
	r := newTestReducer(2, 0, 1)
	s := NewGameState(config.DifficultyNormal)

	for _, lane := range []int{2, 0, 1} {
		res := r.Reduce(s, Spawn{NowMs: 1234})
		require.NotNil(t, res.State.Object)
		assert.Equal(t, FallingObject{Lane: lane, Y: 0, VY: 0, SpawnedAt: 1234}, *res.State.Object)
		assert.Nil(t, s.Object, "input state must not be modified")
	}
}

func TestSpawnLaneStaysInBounds(t *testing.T) {
	r := NewReducer(DefaultLanes, &laneSeq{lanes: []int{-4, 9}})
	s := NewGameState(config.DifficultyEasy)

	res := r.Reduce(s, Spawn{})
	assert.Equal(t, 0, res.State.Object.Lane)
	res = r.Reduce(s, Spawn{})
	assert.Equal(t, DefaultLanes-1, res.State.Object.Lane)
}

func TestTickDoesNotAliasInput(t *testing.T) {
	r := newTestReducer()
	s := r.Reduce(NewGameState(config.DifficultyNormal), Spawn{}).State
	before := *s.Object

	res := r.Reduce(s, Tick{DeltaSeconds: 0.05})
	assert.Equal(t, before, *s.Object)
	assert.Greater(t, res.State.Object.Y, before.Y)
}

func TestTickAccumulatesElapsed(t *testing.T) {
	r := newTestReducer()
	s := r.Reduce(NewGameState(config.DifficultyNormal), Spawn{}).State

	s = r.Reduce(s, Tick{DeltaSeconds: 0.016}).State
	s = r.Reduce(s, Tick{DeltaSeconds: 0.5}).State
	assert.Equal(t, int64(66), s.ElapsedMs)

	// No object, no time.
	s.Object = nil
	s = r.Reduce(s, Tick{DeltaSeconds: 0.016}).State
	assert.Equal(t, int64(66), s.ElapsedMs)
}

func TestScenarioSpawnThenTap(t *testing.T) {
	r := newTestReducer(2)
	s := NewGameState(config.DifficultyNormal)
	assert.Equal(t, GameState{Difficulty: config.DifficultyNormal, Lives: 3}, s)

	res := r.Reduce(s, Spawn{NowMs: 0})
	require.NotNil(t, res.State.Object)
	assert.Equal(t, 2, res.State.Object.Lane)
	assert.Zero(t, res.State.Object.Y)

	res = r.Reduce(res.State, Tap{})
	assert.Nil(t, res.Effect)
	assert.Equal(t, GameState{
		Difficulty: config.DifficultyNormal,
		Score:      10,
		Lives:      3,
		Combo:      1,
		MaxCombo:   1,
	}, res.State)
}

func TestScenarioObjectHitsGround(t *testing.T) {
	r := newTestReducer()
	s := r.Reduce(NewGameState(config.DifficultyNormal), Spawn{NowMs: 0}).State

	var res Result
	for i := 0; i < 100 && s.Object != nil; i++ {
		res = r.Reduce(s, Tick{NowMs: int64(i * 50), DeltaSeconds: 0.05})
		s = res.State
	}

	assert.Nil(t, s.Object)
	assert.Equal(t, 2, s.Lives)
	assert.Equal(t, 0, s.Combo)
	assert.Equal(t, 0, s.MaxCombo)
	assert.Nil(t, res.Effect)
}

func TestScenarioLastLifeEmitsGameOver(t *testing.T) {
	r := newTestReducer()
	s := GameState{
		Difficulty: config.DifficultyHard,
		Score:      70,
		Lives:      1,
		MaxCombo:   3,
		Combo:      2,
		Object:     &FallingObject{Lane: 1, Y: 999, VY: 500},
	}

	res := r.Reduce(s, Tick{DeltaSeconds: 0.016})
	assert.Equal(t, 0, res.State.Lives)
	assert.Equal(t, 0, res.State.Combo)
	assert.Nil(t, res.State.Object)
	assert.True(t, res.State.IsGameOver())
	assert.Equal(t, GameOver{Score: 70, Difficulty: config.DifficultyHard, MaxCombo: 3}, res.Effect)

	// Nothing left to miss: no second effect.
	for i := 0; i < 10; i++ {
		res = r.Reduce(res.State, Tick{DeltaSeconds: 0.05})
		assert.Nil(t, res.Effect)
	}
}

func TestScenarioThreeHits(t *testing.T) {
	r := newTestReducer(0, 1, 2)
	s := NewGameState(config.DifficultyNormal)
	for i := 0; i < 3; i++ {
		s = r.Reduce(s, Spawn{NowMs: int64(i * 700)}).State
		s = r.Reduce(s, Tick{DeltaSeconds: 0.016}).State
		s = r.Reduce(s, Tap{}).State
	}
	assert.Equal(t, 3, s.MaxCombo)
	assert.Equal(t, 60, s.Score)
}

func TestWithGroundLevel(t *testing.T) {
	r := newTestReducer()
	low := r.WithGroundLevel(10)
	assert.Equal(t, DefaultGroundLevel, r.GroundLevel())
	assert.Equal(t, 10.0, low.GroundLevel())
	assert.Equal(t, 10.0, low.WithGroundLevel(0).GroundLevel())
	assert.Equal(t, 10.0, low.WithGroundLevel(-3).GroundLevel())

	s := low.Reduce(NewGameState(config.DifficultyNormal), Spawn{}).State
	for i := 0; i < 5 && s.Object != nil; i++ {
		s = low.Reduce(s, Tick{DeltaSeconds: 0.05}).State
	}
	assert.Nil(t, s.Object)
	assert.Equal(t, 2, s.Lives)
}

func TestReducerKeepsInvariants(t *testing.T) {
	r := NewReducer(DefaultLanes, rand.New(rand.NewPCG(1, 2)))
	rng := rand.New(rand.NewPCG(3, 4))

	for _, d := range config.Difficulties() {
		s := NewGameState(d)
		for i := 0; i < 5000 && !s.IsGameOver(); i++ {
			var a Action
			switch rng.IntN(10) {
			case 0:
				a = Tap{}
			case 1:
				a = Spawn{NowMs: int64(i)}
			case 2:
				if rng.IntN(10) == 0 {
					a = PauseToggle{}
				} else {
					a = Spawn{NowMs: int64(i)}
				}
			default:
				a = Tick{NowMs: int64(i), DeltaSeconds: rng.Float64() * 0.08}
			}
			prev := s
			s = r.Reduce(s, a).State
			require.NoError(t, s.Validate(DefaultLanes))
			if prev.Object != nil && s.Object != nil {
				assert.GreaterOrEqual(t, s.Object.Y, prev.Object.Y)
			}
		}
	}
}
