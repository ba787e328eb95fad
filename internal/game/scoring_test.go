package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOnHitStreak(t *testing.T) {
	for n := 1; n <= 25; n++ {
		out := ScoreOutcome{}
		for i := 0; i < n; i++ {
			out = OnHit(out.Score, out.Combo, out.MaxCombo)
		}
		assert.Equal(t, n, out.MaxCombo, "n=%d", n)
		assert.Equal(t, n, out.Combo, "n=%d", n)
		assert.Equal(t, 5*n*(n+1), out.Score, "n=%d", n)
	}
}

func TestOnMissKeepsScoreAndPeak(t *testing.T) {
	out := OnMiss(120, 4, 6)
	assert.Equal(t, ScoreOutcome{Score: 120, Combo: 0, MaxCombo: 6}, out)
}

func TestOnHitAfterMiss(t *testing.T) {
	out := OnHit(0, 0, 0)
	out = OnHit(out.Score, out.Combo, out.MaxCombo)
	out = OnMiss(out.Score, out.Combo, out.MaxCombo)
	out = OnHit(out.Score, out.Combo, out.MaxCombo)

	assert.Equal(t, 40, out.Score)
	assert.Equal(t, 1, out.Combo)
	assert.Equal(t, 2, out.MaxCombo)
}
