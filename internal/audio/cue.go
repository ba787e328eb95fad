// Package audio turns gameplay cues into sound. In a terminal the only
// portable sound is the bell, so both cues ring it; players with a bell
// that maps to a system sound hear it, others see a visual flash.
package audio

import (
	"io"
	"sync"
	"sync/atomic"
)

// Cue is a short sound requested by the game session.
type Cue int

const (
	CueHit Cue = iota
	CueMiss
)

// String returns the cue name.
func (c Cue) String() string {
	switch c {
	case CueHit:
		return "hit"
	case CueMiss:
		return "miss"
	default:
		return "unknown"
	}
}

// Player plays cues. Implementations must not block for long; they are
// called from the session's update path.
type Player interface {
	Play(c Cue)
}

// Bell plays cues by writing BEL to a terminal.
type Bell struct {
	mu    sync.Mutex
	w     io.Writer
	muted atomic.Bool
	// misses ring twice so they are distinguishable from hits
	pattern map[Cue]string
}

// NewBell creates a bell that writes to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{
		w: w,
		pattern: map[Cue]string{
			CueHit:  "\a",
			CueMiss: "\a\a",
		},
	}
}

// SetMuted silences or restores the bell.
func (b *Bell) SetMuted(muted bool) {
	b.muted.Store(muted)
}

// Muted reports whether the bell is silenced.
func (b *Bell) Muted() bool {
	return b.muted.Load()
}

// Play rings the bell for c. Write errors are ignored; a missing bell is
// not worth interrupting the game for.
func (b *Bell) Play(c Cue) {
	if b.muted.Load() || b.w == nil {
		return
	}
	seq, ok := b.pattern[c]
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = io.WriteString(b.w, seq)
}

// Recorder collects played cues. Useful for tests and for headless runs.
type Recorder struct {
	mu   sync.Mutex
	cues []Cue
}

// Play records c.
func (r *Recorder) Play(c Cue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cues = append(r.cues, c)
}

// Cues returns a copy of the recorded cues.
func (r *Recorder) Cues() []Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Cue(nil), r.cues...)
}
