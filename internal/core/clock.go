package core

import (
	"sync"
	"time"
)

// Clock supplies the current time in milliseconds.
// Implementations must never go backwards within a process.
type Clock interface {
	Now() int64
}

// SystemClock is anchored to the Unix epoch when created and then advances
// using Go's monotonic clock reading, so wall-clock adjustments never make it
// jump backwards. Values stay comparable across process restarts, which lets
// a restored spawn timestamp keep its meaning.
type SystemClock struct {
	start time.Time
	base  int64
}

// NewSystemClock creates a clock anchored at the current time.
func NewSystemClock() *SystemClock {
	start := time.Now()
	return &SystemClock{
		start: start,
		base:  start.UnixMilli(),
	}
}

// Now returns milliseconds since the Unix epoch.
func (c *SystemClock) Now() int64 {
	return c.base + time.Since(c.start).Milliseconds()
}

// ManualClock is a Clock driven by hand. Safe for concurrent use.
type ManualClock struct {
	mu  sync.Mutex
	now int64
}

// NewManualClock creates a manual clock starting at the given millisecond value.
func NewManualClock(start int64) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current manual time.
func (c *ManualClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward. Negative durations are ignored.
func (c *ManualClock) Advance(ms int64) {
	if ms <= 0 {
		return
	}
	c.mu.Lock()
	c.now += ms
	c.mu.Unlock()
}

// Set moves the clock to the given value if it is not in the past.
func (c *ManualClock) Set(ms int64) {
	c.mu.Lock()
	if ms > c.now {
		c.now = ms
	}
	c.mu.Unlock()
}
