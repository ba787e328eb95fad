package core

// Action represents a semantic player intent, abstracted from physical keys,
// mouse clicks or touch. The platform maps raw input to actions.
type Action int

const (
	ActionNone    Action = iota
	ActionTap            // Space, Enter, 1-3, mouse click - hit the falling ball
	ActionPause          // P, Escape - pause/unpause
	ActionUp             // W, Up arrow - menu navigation
	ActionDown           // S, Down arrow - menu navigation
	ActionLeft           // A, Left arrow - change option
	ActionRight          // D, Right arrow - change option
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // B, Escape - back to menu
	ActionScores         // Tab - open scoreboard
	ActionQuit           // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionTap:
		return "Tap"
	case ActionPause:
		return "Pause"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionScores:
		return "Scores"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
