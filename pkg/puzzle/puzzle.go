// Package puzzle derives the 0-4 puzzle stage from accumulated circle
// activity. Both functions are pure.
package puzzle

// Stage is the 0-4 progress tier rendered by clients.
type Stage int

// StageOf maps a nonnegative score onto a stage using fixed thresholds.
// Negative input is treated as zero.
func StageOf(score float64) Stage {
	switch {
	case score >= 8:
		return 4
	case score >= 5:
		return 3
	case score >= 3:
		return 2
	case score >= 1:
		return 1
	default:
		return 0
	}
}

// ScoreFrom combines piece and meetup counts into the score StageOf consumes,
// clamped to [1, 100].
func ScoreFrom(pieceCount, meetupCount int) float64 {
	score := pieceCount*12 + meetupCount*8
	if score < 1 {
		score = 1
	}
	if score > 100 {
		score = 100
	}
	return float64(score)
}
