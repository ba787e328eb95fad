package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gravity-tap/internal/config"
	"github.com/vovakirdan/gravity-tap/internal/core"
	"github.com/vovakirdan/gravity-tap/internal/game"
	"github.com/vovakirdan/gravity-tap/internal/session"
	"github.com/vovakirdan/gravity-tap/internal/storage"
)

// GameResult summarizes a finished run for the result screen.
type GameResult struct {
	Score      int
	MaxCombo   int
	Difficulty config.Difficulty
	PrevBest   int
	NewBest    bool
	Saved      bool
}

// PlayOptions selects how a run starts.
type PlayOptions struct {
	Fresh      bool               // discard a saved run
	Difficulty *config.Difficulty // overrides the settings difficulty
}

// GameModel renders a running session and forwards input to it.
// The session runs on its own goroutine; the model only reacts to the
// states and effects it publishes.
type GameModel struct {
	deps        *Deps
	sess        *session.Session
	ctx         context.Context
	cancel      context.CancelFunc
	updates     <-chan game.GameState
	unsubscribe func()

	screen      *core.Screen
	state       game.GameState
	groundLevel float64
	best        int
	keyMapper   *KeyMapper

	result     *GameResult
	backToMenu bool
	quitting   bool
	ended      bool
}

// NewGameModel creates a session for the deps' slot and a model rendering it.
func NewGameModel(ctx context.Context, deps *Deps, opts PlayOptions, width, height int) GameModel {
	cfg := deps.Config
	sess := session.New(session.Options{
		Settings:   deps.Settings,
		Store:      deps.Snapshots,
		Slot:       deps.Slot,
		Cues:       deps.Cues,
		Lanes:      game.NewLaneSource(deps.Seed),
		Logger:     deps.Logger,
		Config:     &cfg,
		Difficulty: opts.Difficulty,
		Fresh:      opts.Fresh,
	})
	if deps.Registry != nil {
		deps.Registry.Track(sess)
	}

	runCtx, cancel := context.WithCancel(ctx)
	updates, unsubscribe := sess.Subscribe()

	m := GameModel{
		deps:        deps,
		sess:        sess,
		ctx:         runCtx,
		cancel:      cancel,
		updates:     updates,
		unsubscribe: unsubscribe,
		screen:      core.NewScreen(width, height),
		state:       sess.State(),
		groundLevel: cfg.Physics.GroundLevel,
		keyMapper:   NewKeyMapper(),
	}
	m.best = m.highScore(m.state.Difficulty)
	m.resize(width, height)
	return m
}

// Init starts the session and the state/effect listeners.
func (m GameModel) Init() tea.Cmd {
	return tea.Batch(
		runSessionCmd(m.ctx, m.sess),
		waitForState(m.sess.ID(), m.updates),
		waitForEffect(m.sess),
	)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.sess.Tap()
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case StateMsg:
		if msg.Session != m.sess.ID() || msg.Closed {
			return m, nil
		}
		m.state = msg.State
		return m, waitForState(m.sess.ID(), m.updates)

	case EffectMsg:
		if msg.Session != m.sess.ID() {
			return m, nil
		}
		if over, ok := msg.Effect.(game.GameOver); ok {
			m.result = m.record(over)
		}

	case SessionEndedMsg:
		if msg.Session != m.sess.ID() {
			return m, nil
		}
		m.ended = true
		m.release()
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.deps.Logger.Error("session ended with error", "session", msg.Session, "err", msg.Err)
		}
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		m.sess.Stop()
		return m, nil
	}

	switch action {
	case core.ActionTap:
		m.sess.Tap()
	case core.ActionPause:
		m.sess.PauseToggle()
	case core.ActionBack:
		if m.state.Paused {
			m.backToMenu = true
			m.sess.Stop()
		}
	}
	return m, nil
}

// resize fits the screen and tells the session where the ground now is.
func (m *GameModel) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.screen.Resize(width, height)
	m.groundLevel = float64(FieldRows(height)) * m.deps.Config.Render.PixelsPerRow
	m.sess.SetGroundLevel(m.groundLevel)
}

// record saves the finished run and compares it with the previous best.
func (m GameModel) record(over game.GameOver) *GameResult {
	res := &GameResult{
		Score:      over.Score,
		MaxCombo:   over.MaxCombo,
		Difficulty: over.Difficulty,
		PrevBest:   m.highScore(over.Difficulty),
	}
	res.NewBest = res.Score > res.PrevBest

	if m.deps.Scores != nil {
		_, err := m.deps.Scores.SaveScore(storage.ScoreRecord{
			CompletedAt: time.Now(),
			Score:       over.Score,
			Difficulty:  over.Difficulty,
			MaxCombo:    over.MaxCombo,
		})
		if err != nil {
			m.deps.Logger.Warn("could not save score", "score", over.Score, "err", err)
		} else {
			res.Saved = true
		}
	}

	m.deps.Logger.Info("game over",
		"session", m.sess.ID(),
		"score", over.Score,
		"difficulty", over.Difficulty,
		"max_combo", over.MaxCombo,
		"new_best", res.NewBest,
	)
	return res
}

func (m GameModel) highScore(d config.Difficulty) int {
	if m.deps.Scores == nil {
		return 0
	}
	best, err := m.deps.Scores.HighScore(d)
	if err != nil {
		m.deps.Logger.Warn("could not read high score", "difficulty", d, "err", err)
		return 0
	}
	return best
}

// release drops the subscription once the session is over.
func (m GameModel) release() {
	m.unsubscribe()
	m.cancel()
}

// saveScreenshot saves the current field to a text file.
func (m GameModel) saveScreenshot() {
	m.draw()

	dir := filepath.Join(config.AppDir(), "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.deps.Logger.Warn("could not create screenshot directory", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("gravitytap_%s.txt", timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.deps.Logger.Warn("could not save screenshot", "path", path, "err", err)
	}
}

func (m GameModel) draw() {
	DrawField(m.screen, FieldView{
		State:       m.state,
		Lanes:       m.sess.Lanes(),
		GroundLevel: m.groundLevel,
		Best:        m.best,
		Help:        plainHelp(m.keyMapper.GameKeys().ShortHelp()),
	})
}

// View renders the current state.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.draw()
	return RenderScreen(m.screen)
}

// Session returns the session the model is rendering.
func (m GameModel) Session() *session.Session {
	return m.sess
}

// Result returns the finished run, or nil while playing.
func (m GameModel) Result() *GameResult {
	return m.result
}

// BackToMenu returns true if the player left the paused game for the menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if the player asked to quit.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// Ended returns true once the session's Run has returned and its snapshot
// has been written.
func (m GameModel) Ended() bool {
	return m.ended
}

// plainHelp formats bindings as "key desc • key desc" without styling, so
// it can be drawn into the screen buffer.
func plainHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return " " + strings.Join(parts, " • ")
}
