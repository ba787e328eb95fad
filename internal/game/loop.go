package game

import (
	"context"
	"time"

	"github.com/vovakirdan/gravity-tap/internal/core"
)

// Loop timing defaults.
const (
	DefaultFrame = 16 * time.Millisecond
	MaxDeltaMs   = 50
)

// Loop produces Tick actions at a fixed cadence. Each delta is measured on
// the clock since the previous tick and capped at MaxDeltaMs. A Loop can be
// run again after its context ends; pausing is left to the reducer.
type Loop struct {
	clock core.Clock
	frame time.Duration
}

// NewLoop creates a loop. A non-positive frame uses DefaultFrame.
func NewLoop(clock core.Clock, frame time.Duration) *Loop {
	if frame <= 0 {
		frame = DefaultFrame
	}
	return &Loop{clock: clock, frame: frame}
}

// Frame returns the tick cadence.
func (l *Loop) Frame() time.Duration {
	return l.frame
}

// Ticks starts the loop and returns its tick channel. The first tick is sent
// immediately with a zero delta. The channel is unbuffered so ticks are
// consumed in emission order; a slow consumer delays the next tick rather
// than queueing a backlog. The channel is closed when ctx is done.
func (l *Loop) Ticks(ctx context.Context) <-chan Tick {
	out := make(chan Tick)

	go func() {
		defer close(out)

		ticker := time.NewTicker(l.frame)
		defer ticker.Stop()

		last := l.clock.Now()
		next := Tick{NowMs: last}

		for {
			select {
			case out <- next:
			case <-ctx.Done():
				return
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}

			now := l.clock.Now()
			next = Tick{NowMs: now, DeltaSeconds: deltaSeconds(last, now)}
			last = now
		}
	}()

	return out
}

// deltaSeconds returns now-last in seconds, bounded to [0, MaxDeltaMs].
func deltaSeconds(last, now int64) float64 {
	dt := min(max(now-last, 0), MaxDeltaMs)
	return float64(dt) / 1000
}
