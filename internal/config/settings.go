package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// Settings are the player preferences shared by every session.
type Settings struct {
	Difficulty   Difficulty
	SoundEnabled bool
}

// DefaultSettings returns NORMAL difficulty with sound on.
func DefaultSettings() Settings {
	return Settings{
		Difficulty:   DefaultDifficulty,
		SoundEnabled: true,
	}
}

// settingsFile is the on-disk form. Fields are loose so one bad value does
// not discard the other.
type settingsFile struct {
	Difficulty string `yaml:"difficulty"`
	Sound      *bool  `yaml:"sound"`
}

// SettingsStore keeps the current settings in memory, persists them to a
// YAML file and notifies subscribers of every change.
type SettingsStore struct {
	path   string // empty = memory only
	logger *log.Logger

	mu      sync.Mutex
	current Settings
	subs    map[int]chan Settings
	nextID  int
}

// DefaultSettingsPath returns ~/.gravitytap/settings.yaml.
func DefaultSettingsPath() string {
	dir := AppDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "settings.yaml")
}

// OpenSettings loads settings from path. A missing or unreadable file yields
// the defaults; problems are logged and never returned, so callers can always
// proceed with last-known-good values.
func OpenSettings(path string, logger *log.Logger) *SettingsStore {
	if logger == nil {
		logger = log.Default()
	}
	s := newSettingsStore(ExpandHome(path), logger, DefaultSettings())

	if s.path == "" {
		return s
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("could not read settings, using defaults", "path", s.path, "error", err)
		}
		return s
	}

	var raw settingsFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		logger.Warn("could not parse settings, using defaults", "path", s.path, "error", err)
		return s
	}

	if raw.Difficulty != "" {
		d, err := ParseDifficulty(raw.Difficulty)
		if err != nil {
			logger.Warn("unknown difficulty in settings", "value", raw.Difficulty)
		}
		s.current.Difficulty = d
	}
	if raw.Sound != nil {
		s.current.SoundEnabled = *raw.Sound
	}
	return s
}

// NewMemorySettings creates a store that never touches the filesystem.
func NewMemorySettings(initial Settings) *SettingsStore {
	return newSettingsStore("", log.Default(), initial)
}

func newSettingsStore(path string, logger *log.Logger, initial Settings) *SettingsStore {
	return &SettingsStore{
		path:    path,
		logger:  logger,
		current: initial,
		subs:    make(map[int]chan Settings),
	}
}

// Current returns the latest settings.
func (s *SettingsStore) Current() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe returns a channel that receives the current settings right away
// and then every change. A slow subscriber only sees the newest value.
// The cancel function closes the channel and is safe to call more than once.
func (s *SettingsStore) Subscribe() (<-chan Settings, func()) {
	ch := make(chan Settings, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	ch <- s.current
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

// SetDifficulty updates and persists the difficulty preset.
func (s *SettingsStore) SetDifficulty(d Difficulty) error {
	if !d.Valid() {
		return fmt.Errorf("config: invalid difficulty %d", int(d))
	}
	return s.update(func(cur *Settings) { cur.Difficulty = d })
}

// SetSoundEnabled updates and persists the sound flag.
func (s *SettingsStore) SetSoundEnabled(on bool) error {
	return s.update(func(cur *Settings) { cur.SoundEnabled = on })
}

// update applies fn, notifies subscribers and saves. The in-memory value is
// kept even when saving fails.
func (s *SettingsStore) update(fn func(*Settings)) error {
	s.mu.Lock()
	next := s.current
	fn(&next)
	if next == s.current {
		s.mu.Unlock()
		return nil
	}
	s.current = next
	for _, ch := range s.subs {
		publishLatest(ch, next)
	}
	s.mu.Unlock()

	if err := s.save(next); err != nil {
		s.logger.Error("could not save settings", "path", s.path, "error", err)
		return err
	}
	return nil
}

func (s *SettingsStore) save(cur Settings) error {
	if s.path == "" {
		return nil
	}

	sound := cur.SoundEnabled
	data, err := yaml.Marshal(settingsFile{
		Difficulty: cur.Difficulty.String(),
		Sound:      &sound,
	})
	if err != nil {
		return fmt.Errorf("config: cannot encode settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: cannot create directory %s: %w", dir, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("config: cannot write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("config: cannot replace settings: %w", err)
	}
	return nil
}

// publishLatest replaces any unread value so the channel holds only the newest.
func publishLatest(ch chan Settings, v Settings) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
