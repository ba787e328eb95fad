package game

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SnapshotVersion is the current snapshot encoding version.
const SnapshotVersion = 1

// ErrInvalidSnapshot is returned when a snapshot cannot be decoded or breaks
// the state invariants.
var ErrInvalidSnapshot = errors.New("game: invalid snapshot")

// Snapshot is everything needed to resume a run: the state and the spawn
// scheduler's next eligible time.
type Snapshot struct {
	Version     int       `json:"version"`
	State       GameState `json:"state"`
	NextSpawnAt int64     `json:"next_spawn_at"`
}

// NewSnapshot captures a state and scheduler.
func NewSnapshot(s GameState, sched *SpawnScheduler) Snapshot {
	return Snapshot{
		Version:     SnapshotVersion,
		State:       s.withObject(s.Object),
		NextSpawnAt: sched.Snapshot(),
	}
}

// EncodeSnapshot serializes a snapshot.
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	if snap.Version == 0 {
		snap.Version = SnapshotVersion
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("game: encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a snapshot and validates it for the given lane count.
func DecodeSnapshot(data []byte, lanes int) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if snap.Version != SnapshotVersion {
		return Snapshot{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, snap.Version)
	}
	if err := snap.State.Validate(lanes); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return snap, nil
}
