// Package session hosts one Gravity Tap run. A Session owns the game state,
// the reducer and the spawn scheduler, and is driven by a single goroutine
// (Run) that serializes loop ticks, player input and settings changes.
// States are published to subscribers with last-value-wins semantics; the
// game-over effect is delivered once through Effects.
package session

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/gravity-tap/internal/audio"
	"github.com/vovakirdan/gravity-tap/internal/config"
	"github.com/vovakirdan/gravity-tap/internal/core"
	"github.com/vovakirdan/gravity-tap/internal/game"
)

// DefaultSlot is the snapshot slot used by local play.
const DefaultSlot = "local"

// ErrAlreadyRunning is returned when Run is called on a session that has
// already been started.
var ErrAlreadyRunning = errors.New("session: already running")

// ID uniquely identifies a session.
type ID string

// SettingsProvider supplies the player's settings.
type SettingsProvider interface {
	Current() config.Settings
	Subscribe() (<-chan config.Settings, func())
}

// SnapshotStore persists in-progress runs so they survive a restart.
type SnapshotStore interface {
	SaveSnapshot(slot string, snap game.Snapshot) error
	LoadSnapshot(slot string, lanes int) (*game.Snapshot, error)
	DeleteSnapshot(slot string) error
}

// Options configures a Session. Zero values select defaults.
type Options struct {
	Settings   SettingsProvider   // defaults to in-memory default settings
	Store      SnapshotStore      // nil disables persistence
	Slot       string             // snapshot slot, DefaultSlot if empty
	Cues       audio.Player       // nil disables audio cues
	Clock      core.Clock         // defaults to a system clock
	Lanes      game.LaneSource    // defaults to a randomly seeded source
	Logger     *log.Logger        // defaults to a discarding logger
	Config     *config.GameConfig // defaults to config.DefaultGameConfig()
	Difficulty *config.Difficulty // overrides the settings difficulty
	Fresh      bool               // ignore any saved snapshot
}

// Session is one run of the game.
type Session struct {
	id       ID
	slot     string
	started  time.Time
	restored bool

	settings SettingsProvider
	cues     audio.Player
	logger   *log.Logger
	lanes    int

	reducer *game.Reducer
	sched   *game.SpawnScheduler
	loop    *game.Loop

	// Owned by the Run goroutine.
	state        game.GameState
	soundEnabled bool

	inputs  chan input
	effects chan game.Effect
	feed    *feed
	persist *persister

	running  atomic.Bool
	done     chan struct{}
	doneOnce sync.Once
	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a session. If a non-terminal snapshot is saved in the slot it
// is restored, otherwise a fresh run starts with the first spawn due
// immediately.
func New(opts Options) *Session {
	if opts.Settings == nil {
		opts.Settings = config.NewMemorySettings(config.DefaultSettings())
	}
	if opts.Slot == "" {
		opts.Slot = DefaultSlot
	}
	if opts.Clock == nil {
		opts.Clock = core.NewSystemClock()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	cfg := config.DefaultGameConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}

	id := ID(uuid.NewString())
	logger := opts.Logger.With("session", string(id))

	reducer := game.NewReducer(cfg.Board.Lanes, opts.Lanes).
		WithGroundLevel(cfg.Physics.GroundLevel).
		WithTerminalVelocity(cfg.Physics.TerminalVelocity)

	current := opts.Settings.Current()
	difficulty := current.Difficulty
	if opts.Difficulty != nil && opts.Difficulty.Valid() {
		difficulty = *opts.Difficulty
	}

	s := &Session{
		id:           id,
		slot:         opts.Slot,
		started:      time.Now(),
		settings:     opts.Settings,
		cues:         opts.Cues,
		logger:       logger,
		lanes:        reducer.Lanes(),
		reducer:      reducer,
		loop:         game.NewLoop(opts.Clock, time.Duration(cfg.Loop.FrameMs)*time.Millisecond),
		soundEnabled: current.SoundEnabled,
		inputs:       make(chan input, 64),
		effects:      make(chan game.Effect, 1),
		persist:      newPersister(opts.Store, opts.Slot, logger),
		done:         make(chan struct{}),
		stop:         make(chan struct{}),
	}

	state := game.NewGameState(difficulty)
	nextSpawnAt := opts.Clock.Now()
	if snap := s.restore(opts.Store, opts.Fresh, difficulty, opts.Difficulty != nil); snap != nil {
		state = snap.State
		nextSpawnAt = snap.NextSpawnAt
		s.restored = true
	}

	s.state = state
	s.sched = game.NewSpawnScheduler(nextSpawnAt)
	s.feed = newFeed(state, nextSpawnAt)
	return s
}

// restore loads the saved snapshot for the slot if it can be resumed.
func (s *Session) restore(store SnapshotStore, fresh bool, difficulty config.Difficulty, explicit bool) *game.Snapshot {
	if store == nil {
		return nil
	}
	if fresh {
		if err := store.DeleteSnapshot(s.slot); err != nil {
			s.logger.Warn("cannot clear saved session", "slot", s.slot, "err", err)
		}
		return nil
	}

	snap, err := store.LoadSnapshot(s.slot, s.lanes)
	switch {
	case err != nil:
		s.logger.Warn("discarding saved session", "slot", s.slot, "err", err)
		if err := store.DeleteSnapshot(s.slot); err != nil {
			s.logger.Warn("cannot clear saved session", "slot", s.slot, "err", err)
		}
		return nil
	case snap == nil:
		return nil
	case snap.State.IsGameOver():
		return nil
	case explicit && snap.State.Difficulty != difficulty:
		s.logger.Info("difficulty changed, starting a new run", "saved", snap.State.Difficulty, "requested", difficulty)
		return nil
	}

	s.logger.Info("resuming saved session", "slot", s.slot, "score", snap.State.Score, "lives", snap.State.Lives)
	return snap
}

// ID returns the session identifier.
func (s *Session) ID() ID {
	return s.id
}

// Slot returns the snapshot slot.
func (s *Session) Slot() string {
	return s.slot
}

// StartedAt returns when the session was created.
func (s *Session) StartedAt() time.Time {
	return s.started
}

// Restored reports whether the session resumed a saved run.
func (s *Session) Restored() bool {
	return s.restored
}

// Lanes returns the lane count.
func (s *Session) Lanes() int {
	return s.lanes
}

// State returns the latest published state.
func (s *Session) State() game.GameState {
	return s.feed.latest()
}

// Snapshot returns the latest published snapshot.
func (s *Session) Snapshot() game.Snapshot {
	return s.feed.snapshot()
}

// Subscribe returns a state feed. The latest state is available right away;
// a slow reader only ever sees the newest state. The channel is closed when
// the session ends or cancel is called.
func (s *Session) Subscribe() (<-chan game.GameState, func()) {
	return s.feed.subscribe()
}

// Effects delivers one-shot effects. GameOver is sent at most once and is
// buffered until read.
func (s *Session) Effects() <-chan game.Effect {
	return s.effects
}

// Done is closed when Run has returned.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Tap hits the ball in flight. Tap, PauseToggle and SetGroundLevel share
// one ordered queue and wait for room when it is full.
func (s *Session) Tap() {
	s.send(actionInput{game.Tap{}})
}

// PauseToggle pauses or resumes the run.
func (s *Session) PauseToggle() {
	s.send(actionInput{game.PauseToggle{}})
}

// SetGroundLevel changes the ground level used by subsequent ticks, for
// example after the view is resized. Non-positive values are ignored.
func (s *Session) SetGroundLevel(px float64) {
	s.send(groundInput{px: px})
}

// Stop ends the session. Safe to call multiple times.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

// send queues an input for the Run goroutine, waiting while the queue is
// full. Inputs after the session stopped or ended are dropped.
func (s *Session) send(in input) {
	select {
	case <-s.done:
		return
	case <-s.stop:
		return
	default:
	}

	select {
	case s.inputs <- in:
	case <-s.stop:
	case <-s.done:
	}
}
