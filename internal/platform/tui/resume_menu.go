package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ResumeChoice is the player's answer when a saved run exists.
type ResumeChoice int

const (
	ResumeContinue ResumeChoice = iota
	ResumeNew
)

// ResumeModel asks whether to continue a saved run or start over.
type ResumeModel struct {
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	selection ResumeChoice
	choosing  bool
	quitting  bool
	back      bool
}

// NewResumeModel creates a new resume prompt.
func NewResumeModel(width, height int) ResumeModel {
	return ResumeModel{
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		choosing:  true,
	}
}

// Init initializes the model.
func (m ResumeModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m ResumeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m ResumeModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < 1 {
			m.cursor++
		}
	case MenuActionSelect:
		m.choosing = false
		m.selection = ResumeChoice(m.cursor)
	case MenuActionBack:
		m.back = true
	}
	return m, nil
}

// View renders the prompt.
func (m ResumeModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("SAVED RUN FOUND", m.width)))
	b.WriteString("\n\n")

	options := []string{
		"Continue",
		"New game",
	}

	for i, option := range options {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%s", cursor, option), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width)))

	return b.String()
}

// Selected returns the selection, or nil if still choosing.
func (m ResumeModel) Selected() *ResumeChoice {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// Reset puts the prompt back into choosing mode.
func (m ResumeModel) Reset() ResumeModel {
	m.choosing = true
	return m
}

// IsGoingBack returns true if user wants to return to the menu.
func (m ResumeModel) IsGoingBack() bool {
	return m.back
}

// IsQuitting returns true if user requested to quit.
func (m ResumeModel) IsQuitting() bool {
	return m.quitting
}
