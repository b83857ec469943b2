package scheduler

import (
	"math"
	"time"
)

// DateOnly truncates t to a calendar date at UTC midnight.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysLeft returns the whole calendar days from now until deadline.
// Negative when the deadline has already passed.
func DaysLeft(now, deadline time.Time) int {
	diff := DateOnly(deadline).Sub(DateOnly(now))
	return int(math.Ceil(diff.Hours() / 24))
}

// BuildRevisionDates expands a strategy into concrete revision dates
// counted from now. The gap grows geometrically but each round advances
// the calendar by the ceiling of the current gap, before the multiplier is
// applied. The first candidate past the deadline ends the sequence; later
// rounds are not considered.
//
// The result is date-only, strictly ascending and at most
// s.RevisionCount long. It may be empty.
func BuildRevisionDates(s Strategy, now, deadline time.Time) []time.Time {
	today := DateOnly(now)
	deadlineDate := DateOnly(deadline)

	gap := s.InitialGap
	daysPassed := 0
	dates := make([]time.Time, 0, s.RevisionCount)

	for i := 0; i < s.RevisionCount; i++ {
		daysPassed += int(math.Ceil(gap))
		candidate := today.AddDate(0, 0, daysPassed)
		if candidate.After(deadlineDate) {
			break
		}
		dates = append(dates, candidate)
		gap *= s.GapMultiplier
	}

	return dates
}
