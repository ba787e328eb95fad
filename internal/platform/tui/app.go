package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gravity-tap/internal/audio"
	"github.com/vovakirdan/gravity-tap/internal/config"
	"github.com/vovakirdan/gravity-tap/internal/session"
	"github.com/vovakirdan/gravity-tap/internal/storage"
)

// ScoreStore is the score history the screens read and write.
type ScoreStore interface {
	SaveScore(rec storage.ScoreRecord) (int64, error)
	HighScore(d config.Difficulty) (int, error)
	TopScores(limit int) ([]storage.ScoreRecord, error)
	TopScoresByDifficulty(d config.Difficulty, limit int) ([]storage.ScoreRecord, error)
	SubscribeTop(limit int) (<-chan []storage.ScoreRecord, func(), error)
}

// Deps are the shared services a player's screens run against.
type Deps struct {
	Scores    ScoreStore            // nil disables score history
	Snapshots session.SnapshotStore // nil disables resume
	Settings  *config.SettingsStore
	Config    config.GameConfig
	Registry  *session.Registry // sessions are tracked here when set
	Logger    *log.Logger
	Cues      audio.Player
	Slot      string
	Seed      uint64 // lane seed, 0 = random
}

// UseStore wires a SQLite store as both score history and snapshot store.
// A nil store leaves both disabled.
func (d *Deps) UseStore(st *storage.Store) {
	if st == nil {
		return
	}
	d.Scores = st
	d.Snapshots = st
}

func (d *Deps) normalize() {
	if d.Settings == nil {
		d.Settings = config.NewMemorySettings(config.DefaultSettings())
	}
	if d.Logger == nil {
		d.Logger = log.New(io.Discard)
	}
	if d.Config.Validate() != nil {
		d.Config = config.DefaultGameConfig()
	}
	if d.Slot == "" {
		d.Slot = session.DefaultSlot
	}
}

// hasSavedRun reports whether the slot holds a run that can be resumed.
func (d *Deps) hasSavedRun() bool {
	if d.Snapshots == nil {
		return false
	}
	snap, err := d.Snapshots.LoadSnapshot(d.Slot, d.Config.Board.Lanes)
	return err == nil && snap != nil && !snap.State.IsGameOver()
}

type appScreen int

const (
	screenMenu appScreen = iota
	screenResume
	screenGame
	screenResult
	screenScoreboard
)

// AppModel manages the full flow: menu -> game -> result -> menu.
// It is the top-level model for both local play and SSH sessions.
type AppModel struct {
	ctx      context.Context
	deps     *Deps
	current  appScreen
	width    int
	height   int
	menu     MenuModel
	resume   ResumeModel
	game     *GameModel
	result   ResultModel
	board    ScoreboardModel
	play     PlayOptions
	pending  *PlayOptions // run requested while the previous one shuts down
	starts   *clickThrottle
	quitting bool
}

// StartScreen selects what the app shows first.
type StartScreen int

const (
	StartMenu StartScreen = iota
	StartGame
	StartScoreboard
)

// NewAppModel creates the app. With StartGame the menu is skipped and the
// run starts (or resumes) immediately using play.
func NewAppModel(ctx context.Context, deps Deps, start StartScreen, play PlayOptions, width, height int) AppModel {
	deps.normalize()
	m := AppModel{
		ctx:    ctx,
		deps:   &deps,
		width:  width,
		height: height,
		play:   play,
		starts: newClickThrottle(startThrottle),
	}
	m.menu = NewMenuModel(m.deps.Settings, width, height)

	switch start {
	case StartGame:
		m.startGame(play)
	case StartScoreboard:
		m.board = NewScoreboardModel(m.deps.Scores, width, height)
		m.current = screenScoreboard
	}
	return m
}

// Init initializes the current screen.
func (m AppModel) Init() tea.Cmd {
	switch m.current {
	case screenGame:
		return m.game.Init()
	case screenScoreboard:
		return m.board.Init()
	}
	return m.menu.Init()
}

// Update routes messages to the current screen and handles transitions.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	// Session messages keep flowing to the game model after the player
	// has moved on, so it can observe the end of the run.
	if m.game != nil {
		switch msg.(type) {
		case StateMsg, EffectMsg, SessionEndedMsg:
			return m.updateGame(msg)
		}
	}

	switch m.current {
	case screenResume:
		return m.updateResume(msg)
	case screenGame:
		return m.updateGame(msg)
	case screenResult:
		return m.updateResult(msg)
	case screenScoreboard:
		return m.updateScoreboard(msg)
	}
	return m.updateMenu(msg)
}

func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch m.menu.Choice() {
	case MenuChoiceQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuChoiceScores:
		m.menu = m.menu.Reset()
		m.board = NewScoreboardModel(m.deps.Scores, m.width, m.height)
		m.current = screenScoreboard
		return m, m.board.Init()
	case MenuChoicePlay:
		m.menu = m.menu.Reset()
		if m.deps.hasSavedRun() {
			m.resume = NewResumeModel(m.width, m.height)
			m.current = screenResume
			return m, nil
		}
		if !m.starts.allow() {
			return m, cmd
		}
		return m.beginGame(PlayOptions{})
	}
	return m, cmd
}

func (m AppModel) updateResume(msg tea.Msg) (tea.Model, tea.Cmd) {
	newResume, cmd := m.resume.Update(msg)
	if resumeModel, ok := newResume.(ResumeModel); ok {
		m.resume = resumeModel
	}

	switch {
	case m.resume.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.resume.IsGoingBack():
		m.current = screenMenu
		return m, nil
	case m.resume.Selected() != nil:
		fresh := *m.resume.Selected() == ResumeNew
		m.resume = m.resume.Reset()
		if !m.starts.allow() {
			return m, cmd
		}
		return m.beginGame(PlayOptions{Fresh: fresh})
	}
	return m, cmd
}

func (m AppModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.game = &gameModel
	}

	if m.current != screenGame {
		if !m.game.Ended() {
			return m, cmd
		}
		m.game = nil
		if m.pending == nil {
			return m, cmd
		}
		play := *m.pending
		m.pending = nil
		m.startGame(play)
		return m, tea.Batch(cmd, m.game.Init())
	}

	switch {
	case m.game.Result() != nil:
		m.result = NewResultModel(m.deps.Scores, *m.game.Result(), m.width, m.height)
		m.current = screenResult
		m.starts.touch()
		if m.game.Ended() {
			m.game = nil
		}
		return m, tea.Batch(cmd, m.result.Init())
	case m.game.Ended() && m.game.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.game.Ended():
		// Back to the menu, or the session stopped on its own.
		m.game = nil
		m.current = screenMenu
		return m, nil
	}
	return m, cmd
}

func (m AppModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	newResult, cmd := m.result.Update(msg)
	if resultModel, ok := newResult.(ResultModel); ok {
		m.result = resultModel
	}

	switch m.result.Choice() {
	case ResultChoiceQuit:
		m.result.Close()
		m.quitting = true
		return m, tea.Quit
	case ResultChoiceMenu:
		m.result.Close()
		m.current = screenMenu
		return m, nil
	case ResultChoiceAgain:
		m.result = m.result.Reset()
		if !m.starts.allow() {
			return m, cmd
		}
		m.result.Close()
		return m.beginGame(PlayOptions{Fresh: true, Difficulty: m.play.Difficulty})
	}
	return m, cmd
}

func (m AppModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newBoard, cmd := m.board.Update(msg)
	if boardModel, ok := newBoard.(ScoreboardModel); ok {
		m.board = boardModel
	}

	switch {
	case m.board.IsQuitting():
		m.board.Close()
		m.quitting = true
		return m, tea.Quit
	case m.board.IsGoingBack():
		m.board.Close()
		m.current = screenMenu
		return m, nil
	}
	return m, cmd
}

// beginGame starts a run and returns the commands that drive it.
func (m AppModel) beginGame(play PlayOptions) (tea.Model, tea.Cmd) {
	if m.game != nil {
		// The previous session is still writing its final state.
		m.pending = &play
		return m, nil
	}
	m.startGame(play)
	return m, m.game.Init()
}

func (m *AppModel) startGame(play PlayOptions) {
	gm := NewGameModel(m.ctx, m.deps, play, m.width, m.height)
	m.game = &gm
	m.current = screenGame
}

// View renders the current screen.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.current {
	case screenResume:
		return m.resume.View()
	case screenGame:
		if m.game != nil {
			return m.game.View()
		}
	case screenResult:
		return m.result.View()
	case screenScoreboard:
		return m.board.View()
	}
	return m.menu.View()
}

// Run starts a local Bubble Tea program for the app.
func Run(ctx context.Context, deps Deps, start StartScreen, play PlayOptions, width, height int) error {
	model := NewAppModel(ctx, deps, start, play, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
