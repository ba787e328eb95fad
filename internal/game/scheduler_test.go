package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldSpawnEdgeTriggered(t *testing.T) {
	s := NewSpawnScheduler(0)
	assert.True(t, s.ShouldSpawn(100, 700))
	assert.False(t, s.ShouldSpawn(100, 700))
	assert.Equal(t, int64(800), s.Snapshot())
}

func TestShouldSpawnBeforeEligible(t *testing.T) {
	s := NewSpawnScheduler(500)
	assert.False(t, s.ShouldSpawn(499, 700))
	assert.Equal(t, int64(500), s.Snapshot())
	assert.True(t, s.ShouldSpawn(500, 700))
	assert.Equal(t, int64(1200), s.Snapshot())
}

func TestShouldSpawnMeasuresFromDecision(t *testing.T) {
	s := NewSpawnScheduler(0)
	fired := 0
	// Poll irregularly for 3.5 seconds.
	for now := int64(0); now <= 3500; now += 33 {
		if s.ShouldSpawn(now, 700) {
			fired++
		}
	}
	assert.Equal(t, 5, fired)
}

func TestSchedulerRestore(t *testing.T) {
	s := NewSpawnScheduler(0)
	s.Restore(10_000)
	assert.False(t, s.ShouldSpawn(9_999, 700))
	assert.True(t, s.ShouldSpawn(10_000, 700))
}
