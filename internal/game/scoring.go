package game

// HitPoints is the base award for a hit; it is multiplied by the combo.
const HitPoints = 10

// ScoreOutcome is the result of applying a scoring rule.
type ScoreOutcome struct {
	Score    int
	Combo    int
	MaxCombo int
}

// OnHit extends the combo and awards HitPoints times the new combo, so each
// consecutive hit is worth more than the last.
func OnHit(score, combo, maxCombo int) ScoreOutcome {
	newCombo := combo + 1
	return ScoreOutcome{
		Score:    score + HitPoints*newCombo,
		Combo:    newCombo,
		MaxCombo: max(maxCombo, newCombo),
	}
}

// OnMiss resets the combo. Score and the run's best combo are kept.
func OnMiss(score, combo, maxCombo int) ScoreOutcome {
	return ScoreOutcome{
		Score:    score,
		Combo:    0,
		MaxCombo: maxCombo,
	}
}
