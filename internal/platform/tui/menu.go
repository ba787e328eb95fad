package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gravity-tap/internal/config"
)

// MenuChoice is what the player picked in the main menu.
type MenuChoice int

const (
	MenuChoiceNone MenuChoice = iota
	MenuChoicePlay
	MenuChoiceScores
	MenuChoiceQuit
)

// menuItem indexes the rows of the main menu.
type menuItem int

const (
	itemPlay menuItem = iota
	itemDifficulty
	itemSound
	itemScores
	itemQuit
	menuItemCount
)

// MenuModel is the main menu. Difficulty and sound are edited in place and
// written through the settings store, so they persist across runs.
type MenuModel struct {
	settings  *config.SettingsStore
	cursor    menuItem
	width     int
	height    int
	keyMapper *KeyMapper
	choice    MenuChoice
	err       error // last settings write error
}

// NewMenuModel creates a new menu model.
func NewMenuModel(settings *config.SettingsStore, width, height int) MenuModel {
	return MenuModel{
		settings:  settings,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch action {
	case MenuActionQuit:
		m.choice = MenuChoiceQuit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < menuItemCount-1 {
			m.cursor++
		}

	case MenuActionLeft, MenuActionRight:
		switch m.cursor {
		case itemDifficulty:
			d := m.settings.Current().Difficulty
			if action == MenuActionLeft {
				d = d.Prev()
			} else {
				d = d.Next()
			}
			m.err = m.settings.SetDifficulty(d)
		case itemSound:
			m.err = m.settings.SetSoundEnabled(!m.settings.Current().SoundEnabled)
		}

	case MenuActionSelect:
		switch m.cursor {
		case itemPlay:
			m.choice = MenuChoicePlay
		case itemDifficulty:
			m.err = m.settings.SetDifficulty(m.settings.Current().Difficulty.Next())
		case itemSound:
			m.err = m.settings.SetSoundEnabled(!m.settings.Current().SoundEnabled)
		case itemScores:
			m.choice = MenuChoiceScores
		case itemQuit:
			m.choice = MenuChoiceQuit
		}

	case MenuActionScoreboard:
		m.choice = MenuChoiceScores
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("G R A V I T Y   T A P", m.width)))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(centerText("Tap before the ball hits the ground", m.width)))
	b.WriteString("\n\n")

	current := m.settings.Current()
	sound := "off"
	if current.SoundEnabled {
		sound = "on"
	}

	labels := [menuItemCount]string{
		itemPlay:       "Play",
		itemDifficulty: fmt.Sprintf("Difficulty  < %s >", current.Difficulty),
		itemSound:      fmt.Sprintf("Sound       < %s >", sound),
		itemScores:     "High scores",
		itemQuit:       "Quit",
	}

	for i, label := range labels {
		line := "  " + label
		if menuItem(i) == m.cursor {
			line = selectedStyle.Render("> " + label)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(accentStyle.Render(centerText("settings not saved: "+m.err.Error(), m.width)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Left/Right: Change  |  Enter: Select  |  Tab: Scores  |  Q: Quit"
	b.WriteString(dimStyle.Render(centerText(controls, m.width)))
	b.WriteString("\n")

	return b.String()
}

// Choice returns what the player picked, or MenuChoiceNone.
func (m MenuModel) Choice() MenuChoice {
	return m.choice
}

// Reset clears the choice so the menu can be shown again.
func (m MenuModel) Reset() MenuModel {
	m.choice = MenuChoiceNone
	return m
}
