package scheduler

// PerformanceLevel is the 3-level label derived from a score percentage.
// It is stored on the score row and passed to the strategy provider as an
// urgency hint.
type PerformanceLevel string

const (
	LevelWeak    PerformanceLevel = "weak"
	LevelAverage PerformanceLevel = "average"
	LevelStrong  PerformanceLevel = "strong"
)

// Classify maps a raw score percentage onto a performance level using
// half-open intervals: [0,40) weak, [40,70) average, [70,∞) strong.
func Classify(scorePercentage float64) PerformanceLevel {
	switch {
	case scorePercentage < 40:
		return LevelWeak
	case scorePercentage < 70:
		return LevelAverage
	default:
		return LevelStrong
	}
}
