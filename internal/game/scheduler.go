package game

// SpawnScheduler gates spawns so at most one fires per elapsed interval.
// The interval is measured from the firing decision, not from a fixed origin,
// so irregular polling never drifts by more than one interval per fire.
type SpawnScheduler struct {
	nextSpawnAt int64
}

// NewSpawnScheduler creates a scheduler that becomes eligible at nextSpawnAt.
func NewSpawnScheduler(nextSpawnAt int64) *SpawnScheduler {
	return &SpawnScheduler{nextSpawnAt: nextSpawnAt}
}

// ShouldSpawn reports whether a spawn is due at now. When it returns true the
// next eligible time moves to now+intervalMs; otherwise nothing changes.
func (s *SpawnScheduler) ShouldSpawn(now, intervalMs int64) bool {
	if now < s.nextSpawnAt {
		return false
	}
	s.nextSpawnAt = now + intervalMs
	return true
}

// Snapshot returns the next eligible spawn time for persistence.
func (s *SpawnScheduler) Snapshot() int64 {
	return s.nextSpawnAt
}

// Restore sets the next eligible spawn time from a persisted value.
func (s *SpawnScheduler) Restore(nextSpawnAt int64) {
	s.nextSpawnAt = nextSpawnAt
}
