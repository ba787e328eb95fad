package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/gravity-tap/internal/game"
)

// SlotInfo describes a saved session snapshot.
type SlotInfo struct {
	Slot      string
	UpdatedAt time.Time
}

// SaveSnapshot stores the snapshot for a slot, replacing any previous one.
func (s *Store) SaveSnapshot(slot string, snap game.Snapshot) error {
	data, err := game.EncodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("storage: cannot save snapshot: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO snapshots (slot, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(slot) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		slot, data,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the snapshot saved for a slot, or nil if there is
// none. A stored snapshot that fails validation yields an error wrapping
// game.ErrInvalidSnapshot.
func (s *Store) LoadSnapshot(slot string, lanes int) (*game.Snapshot, error) {
	var data []byte
	err := s.db.QueryRow("SELECT data FROM snapshots WHERE slot = ?", slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load snapshot: %w", err)
	}

	snap, err := game.DecodeSnapshot(data, lanes)
	if err != nil {
		return nil, fmt.Errorf("storage: slot %q: %w", slot, err)
	}
	return &snap, nil
}

// DeleteSnapshot removes the snapshot for a slot. Missing slots are not an
// error.
func (s *Store) DeleteSnapshot(slot string) error {
	if _, err := s.db.Exec("DELETE FROM snapshots WHERE slot = ?", slot); err != nil {
		return fmt.Errorf("storage: cannot delete snapshot: %w", err)
	}
	return nil
}

// Snapshots lists saved slots, most recently updated first.
func (s *Store) Snapshots() ([]SlotInfo, error) {
	rows, err := s.db.Query("SELECT slot, updated_at FROM snapshots ORDER BY updated_at DESC, slot")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query snapshots: %w", err)
	}
	defer rows.Close()

	var slots []SlotInfo
	for rows.Next() {
		var info SlotInfo
		var updatedAt any
		if err := rows.Scan(&info.Slot, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		info.UpdatedAt = parseTimestamp(updatedAt)
		slots = append(slots, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return slots, nil
}
