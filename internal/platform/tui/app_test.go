package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gravity-tap/internal/config"
	"github.com/vovakirdan/gravity-tap/internal/game"
	"github.com/vovakirdan/gravity-tap/internal/session"
	"github.com/vovakirdan/gravity-tap/internal/storage"
)

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testDeps(t *testing.T) Deps {
	t.Helper()
	deps := Deps{
		Settings: config.NewMemorySettings(config.DefaultSettings()),
		Config:   config.DefaultGameConfig(),
		Registry: session.NewRegistry(),
		Slot:     "test",
		Seed:     7,
	}
	deps.UseStore(openTestStore(t))
	return deps
}

func keyEnter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	app, ok := next.(AppModel)
	if !ok {
		t.Fatalf("Update() returned %T, expected AppModel", next)
	}
	return app, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestMenuEditsSettings(t *testing.T) {
	settings := config.NewMemorySettings(config.DefaultSettings())
	m := NewMenuModel(settings, 80, 24)

	press := func(msg tea.KeyMsg) {
		next, _ := m.Update(msg)
		m = next.(MenuModel)
	}

	press(tea.KeyMsg{Type: tea.KeyDown}) // difficulty
	press(tea.KeyMsg{Type: tea.KeyRight})
	if got := settings.Current().Difficulty; got != config.DifficultyHard {
		t.Errorf("Difficulty = %v, expected HARD", got)
	}
	press(tea.KeyMsg{Type: tea.KeyLeft})
	press(tea.KeyMsg{Type: tea.KeyLeft})
	if got := settings.Current().Difficulty; got != config.DifficultyEasy {
		t.Errorf("Difficulty = %v, expected EASY", got)
	}

	press(tea.KeyMsg{Type: tea.KeyDown}) // sound
	press(keyEnter())
	if settings.Current().SoundEnabled {
		t.Error("SoundEnabled should be toggled off")
	}

	if m.Choice() != MenuChoiceNone {
		t.Errorf("Choice() = %v, expected none", m.Choice())
	}
	press(tea.KeyMsg{Type: tea.KeyTab})
	if m.Choice() != MenuChoiceScores {
		t.Errorf("Choice() = %v, expected scores", m.Choice())
	}
	if m.Reset().Choice() != MenuChoiceNone {
		t.Error("Reset() should clear the choice")
	}
}

func TestAppPlayAndQuit(t *testing.T) {
	m := NewAppModel(context.Background(), testDeps(t), StartMenu, PlayOptions{}, 80, 24)

	m, cmd := update(t, m, keyEnter())
	if m.current != screenGame || m.game == nil {
		t.Fatalf("current = %v, expected the game screen", m.current)
	}
	if cmd == nil {
		t.Error("starting a game should return its commands")
	}
	if m.deps.Registry.Count() != 1 {
		t.Errorf("Registry.Count() = %d, expected 1", m.deps.Registry.Count())
	}

	m, cmd = update(t, m, runeKey('q'))
	if isQuit(cmd) {
		t.Fatal("app should wait for the session to end before quitting")
	}
	if !m.game.IsQuitting() {
		t.Error("game should be quitting")
	}

	id := m.game.Session().ID()
	m, cmd = update(t, m, SessionEndedMsg{Session: id})
	if !isQuit(cmd) {
		t.Error("app should quit once the session has ended")
	}
	if m.View() != "" {
		t.Error("View() should be empty after quitting")
	}
}

func TestAppOffersResume(t *testing.T) {
	deps := testDeps(t)
	st := game.NewGameState(config.DifficultyNormal)
	st.Score = 30
	if err := deps.Snapshots.SaveSnapshot(deps.Slot, game.NewSnapshot(st, game.NewSpawnScheduler(0))); err != nil {
		t.Fatalf("SaveSnapshot() failed: %v", err)
	}

	m := NewAppModel(context.Background(), deps, StartMenu, PlayOptions{}, 80, 24)
	m, _ = update(t, m, keyEnter())
	if m.current != screenResume {
		t.Fatalf("current = %v, expected the resume prompt", m.current)
	}

	m, _ = update(t, m, keyEnter()) // Continue
	if m.current != screenGame {
		t.Fatalf("current = %v, expected the game screen", m.current)
	}
	if !m.game.Session().Restored() {
		t.Error("Continue should restore the saved run")
	}
	if got := m.game.state.Score; got != 30 {
		t.Errorf("restored score = %d, expected 30", got)
	}
}

func TestAppResumeNewGame(t *testing.T) {
	deps := testDeps(t)
	st := game.NewGameState(config.DifficultyNormal)
	st.Score = 30
	if err := deps.Snapshots.SaveSnapshot(deps.Slot, game.NewSnapshot(st, game.NewSpawnScheduler(0))); err != nil {
		t.Fatalf("SaveSnapshot() failed: %v", err)
	}

	m := NewAppModel(context.Background(), deps, StartMenu, PlayOptions{}, 80, 24)
	m, _ = update(t, m, keyEnter())
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, keyEnter())

	if m.game == nil || m.game.Session().Restored() {
		t.Fatal("New game should not restore the saved run")
	}
	snap, err := deps.Snapshots.LoadSnapshot(deps.Slot, 3)
	if err != nil {
		t.Fatalf("LoadSnapshot() failed: %v", err)
	}
	if snap != nil {
		t.Error("New game should discard the saved run")
	}
}

func TestGameOverRecordsScore(t *testing.T) {
	deps := testDeps(t)
	if _, err := deps.Scores.SaveScore(storage.ScoreRecord{Score: 50, Difficulty: config.DifficultyNormal}); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	m := NewAppModel(context.Background(), deps, StartGame, PlayOptions{}, 80, 24)
	if m.current != screenGame {
		t.Fatalf("current = %v, expected the game screen", m.current)
	}
	id := m.game.Session().ID()

	over := game.GameOver{Score: 120, Difficulty: config.DifficultyNormal, MaxCombo: 6}
	m, _ = update(t, m, EffectMsg{Session: id, Effect: over})
	if m.current != screenResult {
		t.Fatalf("current = %v, expected the result screen", m.current)
	}

	res := m.result.result
	if !res.Saved || !res.NewBest || res.PrevBest != 50 {
		t.Errorf("result = %+v, expected a saved new best over 50", res)
	}
	best, err := deps.Scores.HighScore(config.DifficultyNormal)
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if best != 120 {
		t.Errorf("HighScore() = %d, expected 120", best)
	}

	// The session ends after the effect; the app forgets it.
	m, _ = update(t, m, SessionEndedMsg{Session: id})
	if m.game != nil {
		t.Error("ended session should be released")
	}

	m, _ = update(t, m, runeKey('m'))
	if m.current != screenMenu {
		t.Errorf("current = %v, expected the menu", m.current)
	}
}

// fakeNow is a hand-driven wall clock for the start throttle.
type fakeNow struct {
	t time.Time
}

func (f *fakeNow) now() time.Time { return f.t }

func (f *fakeNow) advance(d time.Duration) { f.t = f.t.Add(d) }

func withFakeNow(m AppModel) *fakeNow {
	clock := &fakeNow{t: time.Unix(1_700_000_000, 0)}
	m.starts.now = clock.now
	return clock
}

func TestPlayAgainWaitsForPreviousSession(t *testing.T) {
	m := NewAppModel(context.Background(), testDeps(t), StartGame, PlayOptions{}, 80, 24)
	clock := withFakeNow(m)
	first := m.game.Session().ID()

	m, _ = update(t, m, EffectMsg{Session: first, Effect: game.GameOver{Score: 10, Difficulty: config.DifficultyNormal}})
	clock.advance(startThrottle)
	m, _ = update(t, m, keyEnter()) // play again before the session has ended
	if m.current != screenResult || m.pending == nil {
		t.Fatalf("current = %v, pending = %v, expected a queued run", m.current, m.pending)
	}

	m, _ = update(t, m, SessionEndedMsg{Session: first})
	if m.current != screenGame || m.game == nil {
		t.Fatalf("current = %v, expected the new game", m.current)
	}
	if m.game.Session().ID() == first {
		t.Error("play again should start a new session")
	}
}

func TestPlayAgainIgnoresTapsRightAfterGameOver(t *testing.T) {
	m := NewAppModel(context.Background(), testDeps(t), StartGame, PlayOptions{}, 80, 24)
	clock := withFakeNow(m)
	first := m.game.Session().ID()

	m, _ = update(t, m, EffectMsg{Session: first, Effect: game.GameOver{Score: 10, Difficulty: config.DifficultyNormal}})
	m, _ = update(t, m, SessionEndedMsg{Session: first})

	clock.advance(100 * time.Millisecond)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m, _ = update(t, m, keyEnter())
	if m.current != screenResult || m.game != nil || m.pending != nil {
		t.Fatalf("current = %v, expected the result screen to stay", m.current)
	}
	if m.result.Choice() != ResultChoiceNone {
		t.Errorf("Choice() = %v, expected the ignored press to be cleared", m.result.Choice())
	}

	clock.advance(startThrottle)
	m, _ = update(t, m, keyEnter())
	if m.current != screenGame || m.game == nil {
		t.Fatalf("current = %v, expected a new game", m.current)
	}
}

func TestMenuStartIsThrottled(t *testing.T) {
	m := NewAppModel(context.Background(), testDeps(t), StartMenu, PlayOptions{}, 80, 24)
	clock := withFakeNow(m)

	m, _ = update(t, m, keyEnter())
	if m.current != screenGame {
		t.Fatalf("current = %v, expected the game screen", m.current)
	}
	id := m.game.Session().ID()

	// Pause, leave to the menu and press start again at once.
	paused := m.game.state
	paused.Paused = true
	m, _ = update(t, m, StateMsg{Session: id, State: paused})
	m, _ = update(t, m, runeKey('b'))
	m, _ = update(t, m, SessionEndedMsg{Session: id})
	if m.current != screenMenu {
		t.Fatalf("current = %v, expected the menu", m.current)
	}

	clock.advance(200 * time.Millisecond)
	m, _ = update(t, m, keyEnter())
	if m.current != screenMenu || m.game != nil {
		t.Fatalf("current = %v, expected a repeated start to be ignored", m.current)
	}

	clock.advance(startThrottle)
	m, _ = update(t, m, keyEnter())
	if m.current != screenGame || m.game == nil {
		t.Fatalf("current = %v, expected the game to start", m.current)
	}
	if m.game.Session().ID() == id {
		t.Error("a new session should start")
	}
}

func TestClickThrottle(t *testing.T) {
	clock := &fakeNow{t: time.Unix(0, 0)}
	th := newClickThrottle(startThrottle)
	th.now = clock.now

	if !th.allow() {
		t.Error("first action should be allowed")
	}
	clock.advance(startThrottle - time.Millisecond)
	if th.allow() {
		t.Error("repeat inside the window should be dropped")
	}
	clock.advance(time.Millisecond)
	if !th.allow() {
		t.Error("action after the window should be allowed")
	}

	clock.advance(time.Hour)
	th.touch()
	clock.advance(time.Millisecond)
	if th.allow() {
		t.Error("touch should restart the window")
	}
}

func TestResultFollowsTopScores(t *testing.T) {
	store := openTestStore(t)
	m := NewResultModel(store, GameResult{Score: 10}, 80, 24)
	defer m.Close()

	msg := m.Init()()
	top, ok := msg.(TopMsg)
	if !ok {
		t.Fatalf("Init() message = %T, expected TopMsg", msg)
	}
	next, _ := m.Update(top)
	m = next.(ResultModel)
	if len(m.top) != 0 {
		t.Errorf("top = %d records, expected none", len(m.top))
	}

	if _, err := store.SaveScore(storage.ScoreRecord{Score: 10, Difficulty: config.DifficultyEasy}); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	next, _ = m.Update(waitForTop(m.updates)())
	m = next.(ResultModel)
	if len(m.top) != 1 {
		t.Errorf("top = %d records, expected 1", len(m.top))
	}

	// A message from an old feed is ignored.
	next, _ = m.Update(TopMsg{Records: nil})
	m = next.(ResultModel)
	if len(m.top) != 1 {
		t.Error("stale feed message should be ignored")
	}
}

func TestScoreboardTabs(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()
	for _, rec := range []storage.ScoreRecord{
		{Score: 30, Difficulty: config.DifficultyEasy, CompletedAt: now},
		{Score: 20, Difficulty: config.DifficultyHard, CompletedAt: now},
		{Score: 10, Difficulty: config.DifficultyHard, CompletedAt: now},
	} {
		if _, err := store.SaveScore(rec); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	m := NewScoreboardModel(store, 100, 30)
	defer m.Close()
	if len(m.scores) != 3 {
		t.Fatalf("ALL tab = %d scores, expected 3", len(m.scores))
	}

	press := func(msg tea.KeyMsg) {
		next, _ := m.Update(msg)
		m = next.(ScoreboardModel)
	}

	press(tea.KeyMsg{Type: tea.KeyShiftTab}) // wraps to HARD
	if got := m.tabs[m.tabCursor].title; got != "HARD" {
		t.Errorf("tab = %s, expected HARD", got)
	}
	if len(m.scores) != 2 {
		t.Errorf("HARD tab = %d scores, expected 2", len(m.scores))
	}

	press(tea.KeyMsg{Type: tea.KeyTab}) // back to ALL
	if len(m.scores) != 3 {
		t.Errorf("ALL tab = %d scores, expected 3", len(m.scores))
	}

	press(runeKey('b'))
	if !m.IsGoingBack() {
		t.Error("b should go back")
	}
}

func TestScoreRows(t *testing.T) {
	rows := ScoreRows([]storage.ScoreRecord{
		{Score: 120, MaxCombo: 7, Difficulty: config.DifficultyHard, CompletedAt: time.Now()},
	})
	if len(rows) != 1 {
		t.Fatalf("ScoreRows() = %d rows, expected 1", len(rows))
	}
	row := rows[0]
	if row[0] != "#1" || row[1] != "120" || row[2] != "x7" || row[3] != "HARD" {
		t.Errorf("ScoreRows() row = %v", row)
	}
}

func TestDepsNormalize(t *testing.T) {
	var deps Deps
	deps.UseStore(nil)
	if deps.Scores != nil || deps.Snapshots != nil {
		t.Error("UseStore(nil) should leave the stores unset")
	}

	deps.normalize()
	if deps.Settings == nil || deps.Logger == nil {
		t.Error("normalize() should fill settings and logger")
	}
	if deps.Slot != session.DefaultSlot {
		t.Errorf("Slot = %q, expected %q", deps.Slot, session.DefaultSlot)
	}
	if deps.Config.Board.Lanes != config.DefaultGameConfig().Board.Lanes {
		t.Error("invalid config should be replaced by the default")
	}
	if deps.hasSavedRun() {
		t.Error("hasSavedRun() without a store should be false")
	}
}

func TestSlotForUser(t *testing.T) {
	if got := SlotForUser("ada"); got != "ssh:ada" {
		t.Errorf("SlotForUser() = %q, expected %q", got, "ssh:ada")
	}
}
