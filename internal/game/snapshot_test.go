package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/gravity-tap/internal/config"
)

func TestSnapshotRoundTripReplays(t *testing.T) {
	r := NewReducer(DefaultLanes, rand.New(rand.NewPCG(1, 1)))
	sched := NewSpawnScheduler(0)
	s := NewGameState(config.DifficultyHard)

	s = r.Reduce(s, Spawn{NowMs: 0}).State
	sched.ShouldSpawn(0, s.Difficulty.SpawnIntervalMs())
	for i := 0; i < 7; i++ {
		s = r.Reduce(s, Tick{NowMs: int64(i * 16), DeltaSeconds: 0.016}).State
	}

	data, err := EncodeSnapshot(NewSnapshot(s, sched))
	require.NoError(t, err)

	restored, err := DecodeSnapshot(data, DefaultLanes)
	require.NoError(t, err)
	assert.True(t, restored.State.Equal(s))
	assert.Equal(t, sched.Snapshot(), restored.NextSpawnAt)

	again, err := EncodeSnapshot(restored)
	require.NoError(t, err)
	assert.Equal(t, data, again)

	// Both copies must produce identical outputs from here on.
	actions := []Action{
		Tick{NowMs: 200, DeltaSeconds: 0.05},
		Tap{},
		Spawn{NowMs: 900},
		Tick{NowMs: 916, DeltaSeconds: 0.016},
		PauseToggle{},
		Tick{NowMs: 932, DeltaSeconds: 0.016},
		PauseToggle{},
		Tick{NowMs: 948, DeltaSeconds: 0.05},
	}
	r1 := NewReducer(DefaultLanes, rand.New(rand.NewPCG(9, 9)))
	r2 := NewReducer(DefaultLanes, rand.New(rand.NewPCG(9, 9)))
	a, b := s, restored.State
	for _, act := range actions {
		ra, rb := r1.Reduce(a, act), r2.Reduce(b, act)
		assert.True(t, ra.State.Equal(rb.State), "%T diverged", act)
		assert.Equal(t, ra.Effect, rb.Effect)
		a, b = ra.State, rb.State
	}

	ea, err := EncodeSnapshot(Snapshot{State: a, NextSpawnAt: 1})
	require.NoError(t, err)
	eb, err := EncodeSnapshot(Snapshot{State: b, NextSpawnAt: 1})
	require.NoError(t, err)
	assert.Equal(t, ea, eb)
}

func TestNewSnapshotCopiesObject(t *testing.T) {
	s := GameState{Difficulty: config.DifficultyEasy, Lives: 5, Object: &FallingObject{Lane: 1, Y: 3}}
	snap := NewSnapshot(s, NewSpawnScheduler(42))
	s.Object.Y = 500
	assert.Equal(t, 3.0, snap.State.Object.Y)
	assert.Equal(t, int64(42), snap.NextSpawnAt)
}

func TestDecodeSnapshotRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{`},
		{"wrong version", `{"version":7,"state":{"difficulty":"NORMAL","lives":3}}`},
		{"unknown difficulty", `{"version":1,"state":{"difficulty":"INSANE","lives":3}}`},
		{"negative score", `{"version":1,"state":{"difficulty":"NORMAL","score":-1,"lives":3}}`},
		{"negative lives", `{"version":1,"state":{"difficulty":"NORMAL","lives":-1}}`},
		{"lane out of range", `{"version":1,"state":{"difficulty":"EASY","lives":3,"object":{"lane":3,"y":0}}}`},
		{"combo above peak", `{"version":1,"state":{"difficulty":"EASY","lives":3,"combo":4,"max_combo":2}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSnapshot([]byte(tt.data), DefaultLanes)
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}
}

func TestDecodeSnapshotDifficultyText(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{"version":1,"state":{"difficulty":" hard ","lives":2},"next_spawn_at":77}`), DefaultLanes)
	require.NoError(t, err)
	assert.Equal(t, config.DifficultyHard, snap.State.Difficulty)
	assert.Equal(t, int64(77), snap.NextSpawnAt)
}

func TestValidate(t *testing.T) {
	ok := NewGameState(config.DifficultyNormal)
	assert.NoError(t, ok.Validate(DefaultLanes))

	bad := ok
	bad.ElapsedMs = -1
	assert.ErrorIs(t, bad.Validate(DefaultLanes), ErrInvariant)

	bad = ok
	bad.Object = &FallingObject{Lane: 0, Y: -0.5}
	assert.ErrorIs(t, bad.Validate(DefaultLanes), ErrInvariant)
}
