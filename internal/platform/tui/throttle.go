package tui

import "time"

// startThrottle is the minimum time between two run starts.
const startThrottle = 600 * time.Millisecond

// clickThrottle drops repeats of an action that arrive within a window.
// Space and enter both tap the ball and start a run, so a burst of taps at
// game over must not roll straight into the next run.
type clickThrottle struct {
	window time.Duration
	now    func() time.Time
	last   time.Time
}

func newClickThrottle(window time.Duration) *clickThrottle {
	return &clickThrottle{window: window, now: time.Now}
}

// touch restarts the window without performing the action.
func (t *clickThrottle) touch() {
	t.last = t.now()
}

// allow reports whether the action may run now and, if so, restarts the window.
func (t *clickThrottle) allow() bool {
	now := t.now()
	if !t.last.IsZero() && now.Sub(t.last) < t.window {
		return false
	}
	t.last = now
	return true
}
