// Package tui provides the Bubble Tea screens for Gravity Tap: the game
// field, menu, result and scoreboard, plus the SSH server that serves them.
// The game itself runs in a session goroutine; the screens only render the
// states it publishes and forward input to it.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gravity-tap/internal/game"
	"github.com/vovakirdan/gravity-tap/internal/session"
	"github.com/vovakirdan/gravity-tap/internal/storage"
)

// StateMsg carries a state published by a session.
type StateMsg struct {
	Session session.ID
	State   game.GameState
	Closed  bool // the feed ended
}

// EffectMsg carries a one-shot effect from a session.
type EffectMsg struct {
	Session session.ID
	Effect  game.Effect
}

// SessionEndedMsg is sent when a session's Run returns.
type SessionEndedMsg struct {
	Session session.ID
	Err     error
}

// TopMsg carries a refreshed top-score list.
type TopMsg struct {
	Feed    <-chan []storage.ScoreRecord
	Records []storage.ScoreRecord
	Closed  bool
}

// runSessionCmd drives the session until it ends.
func runSessionCmd(ctx context.Context, s *session.Session) tea.Cmd {
	return func() tea.Msg {
		err := s.Run(ctx)
		return SessionEndedMsg{Session: s.ID(), Err: err}
	}
}

// waitForState blocks until the next published state.
func waitForState(id session.ID, ch <-chan game.GameState) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		return StateMsg{Session: id, State: st, Closed: !ok}
	}
}

// waitForEffect blocks until the session emits an effect or ends.
func waitForEffect(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-s.Effects():
			return EffectMsg{Session: s.ID(), Effect: e}
		case <-s.Done():
			select {
			case e := <-s.Effects():
				return EffectMsg{Session: s.ID(), Effect: e}
			default:
				return nil
			}
		}
	}
}

// waitForTop blocks until the next top-score list.
func waitForTop(ch <-chan []storage.ScoreRecord) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		records, ok := <-ch
		return TopMsg{Feed: ch, Records: records, Closed: !ok}
	}
}
