package tui

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/gravity-tap/internal/core"
	"github.com/vovakirdan/gravity-tap/internal/game"
)

// Field layout: HUD, separator, play rows, ground, help line.
const (
	hudRows    = 2
	footerRows = 2
	minWidth   = 20
)

const (
	ballRune   = '●'
	groundRune = '▀'
	laneRune   = '│'
	lifeRune   = "♥"
)

// FieldRows returns how many play rows fit in a terminal of the given height.
func FieldRows(height int) int {
	return core.Max(height-hudRows-footerRows, 1)
}

// BallRow maps a vertical position in pixels to a play row.
func BallRow(y, groundLevel float64, rows int) int {
	if groundLevel <= 0 || rows <= 0 {
		return 0
	}
	row := int(y / groundLevel * float64(rows))
	return core.Clamp(row, 0, rows-1)
}

// LaneColumn returns the center column of a lane.
func LaneColumn(lane, lanes, width int) int {
	if lanes < 1 {
		lanes = 1
	}
	laneWidth := width / lanes
	return core.Clamp(lane*laneWidth+laneWidth/2, 0, width-1)
}

// FieldView is everything needed to draw one frame of the playfield.
type FieldView struct {
	State       game.GameState
	Lanes       int
	GroundLevel float64
	Best        int
	Help        string
}

// DrawField renders the playfield into the screen buffer.
func DrawField(s *core.Screen, v FieldView) {
	s.Clear()
	w, h := s.Width(), s.Height()
	if w < minWidth || h < hudRows+footerRows+1 {
		s.DrawTextCentered(h/2, "terminal too small")
		return
	}

	drawHUD(s, v)
	s.DrawHLine(0, 1, w, '─', core.ColorGray)

	rows := FieldRows(h)
	top := hudRows
	lanes := core.Max(v.Lanes, 1)
	laneWidth := w / lanes
	for i := 1; i < lanes; i++ {
		s.DrawVLine(i*laneWidth, top, rows, laneRune, core.ColorGray)
	}

	if obj := v.State.Object; obj != nil {
		x := LaneColumn(obj.Lane, lanes, w)
		y := top + BallRow(obj.Y, v.GroundLevel, rows)
		s.SetColored(x, y, ballRune, core.ColorYellow)
	}

	s.DrawHLine(0, top+rows, w, groundRune, core.ColorOrange)
	s.DrawTextColored(0, h-1, truncate(v.Help, w), core.ColorGray)

	if v.State.Paused {
		drawPause(s, top, rows)
	}
}

func drawHUD(s *core.Screen, v FieldView) {
	st := v.State
	left := fmt.Sprintf(" SCORE %d  COMBO x%d  MAX x%d", st.Score, st.Combo, st.MaxCombo)
	s.DrawTextColored(0, 0, left, core.ColorBrightWhite)

	right := fmt.Sprintf("%s  BEST %d  %s ", st.Difficulty, v.Best, strings.Repeat(lifeRune, core.Max(st.Lives, 0)))
	x := core.Max(s.Width()-len([]rune(right)), len(left)+1)
	s.DrawTextColored(x, 0, right, core.ColorRed)
}

func drawPause(s *core.Screen, top, rows int) {
	const text = " PAUSED - p to resume, b for menu "
	w := len(text) + 2
	x := core.Max((s.Width()-w)/2, 0)
	y := top + core.Max(rows/2-1, 0)
	box := core.NewRect(x, y, w, 3)
	s.DrawRect(box, ' ')
	s.DrawBox(box)
	s.DrawTextColored(x+1, y+1, text, core.ColorCyan)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width])
}
