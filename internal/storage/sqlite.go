// Package storage provides SQLite-based persistence for finished runs and
// in-progress session snapshots.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/gravity-tap/internal/config"
)

// DefaultLimit is the number of records returned when no limit is given.
const DefaultLimit = 20

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB

	mu     sync.Mutex
	subs   map[int]*topSubscriber
	nextID int
}

// ScoreRecord is one finished run.
type ScoreRecord struct {
	ID          int64             `json:"id"`
	CompletedAt time.Time         `json:"completed_at"`
	Score       int               `json:"score"`
	Difficulty  config.Difficulty `json:"difficulty"`
	MaxCombo    int               `json:"max_combo"`
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One connection serializes writers from the session persister and the
	// score sink, and keeps a :memory: database alive.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{
		db:   db,
		subs: make(map[int]*topSubscriber),
	}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			completed_at INTEGER NOT NULL,
			score INTEGER NOT NULL,
			difficulty TEXT NOT NULL,
			max_combo INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(score DESC, completed_at DESC);
		CREATE INDEX IF NOT EXISTS idx_scores_difficulty ON scores(difficulty, score DESC);

		CREATE TABLE IF NOT EXISTS snapshots (
			slot TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection and ends all top-list subscriptions.
func (s *Store) Close() error {
	s.mu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.mu.Unlock()

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records a finished run. A zero CompletedAt is set to now.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(rec ScoreRecord) (int64, error) {
	if !rec.Difficulty.Valid() {
		return 0, fmt.Errorf("storage: cannot save score: invalid difficulty %d", int(rec.Difficulty))
	}
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = time.Now()
	}

	result, err := s.db.Exec(
		"INSERT INTO scores (completed_at, score, difficulty, max_combo) VALUES (?, ?, ?, ?)",
		rec.CompletedAt.UnixMilli(), rec.Score, rec.Difficulty.String(), rec.MaxCombo,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	s.publishTop()
	return id, nil
}

// TopScores retrieves the best runs across all difficulties, ordered by
// score and then by most recent completion.
func (s *Store) TopScores(limit int) ([]ScoreRecord, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return s.queryScores(
		`SELECT id, completed_at, score, difficulty, max_combo
		 FROM scores
		 ORDER BY score DESC, completed_at DESC
		 LIMIT ?`,
		limit,
	)
}

// TopScoresByDifficulty retrieves the best runs for one difficulty.
func (s *Store) TopScoresByDifficulty(d config.Difficulty, limit int) ([]ScoreRecord, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return s.queryScores(
		`SELECT id, completed_at, score, difficulty, max_combo
		 FROM scores
		 WHERE difficulty = ?
		 ORDER BY score DESC, completed_at DESC
		 LIMIT ?`,
		d.String(), limit,
	)
}

func (s *Store) queryScores(query string, args ...any) ([]ScoreRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var records []ScoreRecord
	for rows.Next() {
		var r ScoreRecord
		var completedAt int64
		var difficulty string
		if err := rows.Scan(&r.ID, &completedAt, &r.Score, &difficulty, &r.MaxCombo); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CompletedAt = time.UnixMilli(completedAt)
		r.Difficulty = config.DifficultyOrDefault(difficulty)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// HighScore returns the highest score for the given difficulty.
// Returns 0 if no scores exist.
func (s *Store) HighScore(d config.Difficulty) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE difficulty = ?",
		d.String(),
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes every score record.
func (s *Store) ClearScores() error {
	_, err := s.db.Exec("DELETE FROM scores")
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	s.publishTop()
	return nil
}

// DifficultyStats contains aggregated statistics for one difficulty.
type DifficultyStats struct {
	Difficulty config.Difficulty `json:"difficulty"`
	GamesCount int               `json:"games"`
	HighScore  int               `json:"high_score"`
	AvgScore   float64           `json:"avg_score"`
	TotalScore int64             `json:"total_score"`
	BestCombo  int               `json:"best_combo"`
	LastPlayed time.Time         `json:"last_played"`
}

// Stats retrieves statistics for every difficulty that has been played.
func (s *Store) Stats() (map[config.Difficulty]*DifficultyStats, error) {
	rows, err := s.db.Query(
		`SELECT difficulty, COUNT(*), MAX(score), AVG(score), SUM(score), MAX(max_combo), MAX(completed_at)
		 FROM scores
		 GROUP BY difficulty`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[config.Difficulty]*DifficultyStats)
	for rows.Next() {
		var st DifficultyStats
		var difficulty string
		var lastPlayed int64
		if err := rows.Scan(&difficulty, &st.GamesCount, &st.HighScore, &st.AvgScore, &st.TotalScore, &st.BestCombo, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.Difficulty = config.DifficultyOrDefault(difficulty)
		st.LastPlayed = time.UnixMilli(lastPlayed)
		stats[st.Difficulty] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTimestamp handles both time.Time and string DATETIME values.
func parseTimestamp(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

var errClosed = errors.New("storage: store is closed")
