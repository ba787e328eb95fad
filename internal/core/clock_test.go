package core

import "testing"

func TestSystemClockNonDecreasing(t *testing.T) {
	c := NewSystemClock()

	prev := c.Now()
	for i := 0; i < 1000; i++ {
		now := c.Now()
		if now < prev {
			t.Fatalf("clock went backwards: %d -> %d", prev, now)
		}
		prev = now
	}
}

func TestManualClock(t *testing.T) {
	c := NewManualClock(100)

	if c.Now() != 100 {
		t.Errorf("Now() = %d, expected 100", c.Now())
	}

	c.Advance(50)
	if c.Now() != 150 {
		t.Errorf("after Advance(50) Now() = %d, expected 150", c.Now())
	}

	c.Advance(-20)
	if c.Now() != 150 {
		t.Errorf("negative Advance should be ignored, got %d", c.Now())
	}

	c.Set(120)
	if c.Now() != 150 {
		t.Errorf("Set into the past should be ignored, got %d", c.Now())
	}

	c.Set(400)
	if c.Now() != 400 {
		t.Errorf("Set(400) Now() = %d, expected 400", c.Now())
	}
}
