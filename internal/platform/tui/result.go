package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gravity-tap/internal/storage"
)

// resultTopN is how many top scores the result screen lists.
const resultTopN = 5

// ResultChoice is what the player does after a game over.
type ResultChoice int

const (
	ResultChoiceNone ResultChoice = iota
	ResultChoiceAgain
	ResultChoiceMenu
	ResultChoiceQuit
)

// ResultModel shows the final score next to a live top-score list.
type ResultModel struct {
	result  GameResult
	top     []storage.ScoreRecord
	updates <-chan []storage.ScoreRecord
	cancel  func()
	width   int
	height  int
	choice  ResultChoice
}

// NewResultModel creates the result screen for a finished run.
func NewResultModel(store ScoreStore, result GameResult, width, height int) ResultModel {
	m := ResultModel{
		result: result,
		width:  width,
		height: height,
	}
	if store != nil {
		if updates, cancel, err := store.SubscribeTop(resultTopN); err == nil {
			m.updates = updates
			m.cancel = cancel
		}
	}
	return m
}

// Init starts following the top-score feed.
func (m ResultModel) Init() tea.Cmd {
	return waitForTop(m.updates)
}

// Update handles messages.
func (m ResultModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", " ", "r":
			m.choice = ResultChoiceAgain
		case "m", "b", "esc":
			m.choice = ResultChoiceMenu
		case "q", "ctrl+c":
			m.choice = ResultChoiceQuit
		}

	case TopMsg:
		if msg.Feed != m.updates || msg.Closed {
			return m, nil
		}
		m.top = msg.Records
		return m, waitForTop(m.updates)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// View renders the result.
func (m ResultModel) View() string {
	var b strings.Builder
	r := m.result

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("G A M E   O V E R", m.width)))
	b.WriteString("\n\n")

	b.WriteString(centerText(fmt.Sprintf("Score: %d", r.Score), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(fmt.Sprintf("Best combo: x%d   Difficulty: %s", r.MaxCombo, r.Difficulty), m.width))
	b.WriteString("\n")

	switch {
	case r.NewBest:
		b.WriteString(accentStyle.Render(centerText(fmt.Sprintf("NEW BEST! (previous %d)", r.PrevBest), m.width)))
	default:
		b.WriteString(dimStyle.Render(centerText(fmt.Sprintf("Best: %d", r.PrevBest), m.width)))
	}
	b.WriteString("\n")
	if !r.Saved {
		b.WriteString(dimStyle.Render(centerText("(score not recorded)", m.width)))
		b.WriteString("\n")
	}

	if len(m.top) > 0 {
		b.WriteString("\n")
		b.WriteString(centerText("TOP SCORES", m.width))
		b.WriteString("\n")
		for i, rec := range m.top {
			line := fmt.Sprintf("%d. %6d  x%-3d %-6s", i+1, rec.Score, rec.MaxCombo, rec.Difficulty)
			b.WriteString(centerText(line, m.width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(centerText("Enter: Play again  |  M: Menu  |  Q: Quit", m.width)))
	b.WriteString("\n")

	return b.String()
}

// Choice returns what the player picked, or ResultChoiceNone.
func (m ResultModel) Choice() ResultChoice {
	return m.choice
}

// Reset clears the choice.
func (m ResultModel) Reset() ResultModel {
	m.choice = ResultChoiceNone
	return m
}

// Close stops following the top-score feed. Safe to call more than once.
func (m ResultModel) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}
