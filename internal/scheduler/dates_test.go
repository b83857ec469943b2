package scheduler

import (
	"testing"
	"time"
)

var fixedNow = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func day(offset int) time.Time {
	return DateOnly(fixedNow).AddDate(0, 0, offset)
}

func TestBuildRevisionDatesPinnedClock(t *testing.T) {
	s := Strategy{RevisionCount: 3, InitialGap: 3, GapMultiplier: 1.6}
	got := BuildRevisionDates(s, fixedNow, day(100))

	// ceil(3)=3, ceil(4.8)=5 -> 8, ceil(7.68)=8 -> 16
	want := []time.Time{day(3), day(8), day(16)}
	if len(got) != len(want) {
		t.Fatalf("length: want=%d got=%d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("date[%d]: want=%s got=%s", i, want[i].Format(time.DateOnly), got[i].Format(time.DateOnly))
		}
	}
}

func TestBuildRevisionDatesNeverPastDeadline(t *testing.T) {
	s := Strategy{RevisionCount: 10, InitialGap: 2, GapMultiplier: 1.5}
	deadline := day(14)
	got := BuildRevisionDates(s, fixedNow, deadline)
	if len(got) == 0 {
		t.Fatalf("expected at least one date before %s", deadline.Format(time.DateOnly))
	}
	for i, d := range got {
		if d.After(deadline) {
			t.Fatalf("date[%d]=%s is past the deadline", i, d.Format(time.DateOnly))
		}
		if i > 0 && !got[i-1].Before(d) {
			t.Fatalf("dates not strictly ascending at %d: %v", i, got)
		}
	}
}

func TestBuildRevisionDatesStopsOnFirstOvershoot(t *testing.T) {
	// Offsets would be 3, 8, 16; with a deadline at day 8 only the first
	// two survive, and iteration ends there rather than skipping ahead.
	s := Strategy{RevisionCount: 5, InitialGap: 3, GapMultiplier: 1.6}
	got := BuildRevisionDates(s, fixedNow, day(8))
	if len(got) != 2 {
		t.Fatalf("length: want=2 got=%d (%v)", len(got), got)
	}
}

func TestBuildRevisionDatesZeroCount(t *testing.T) {
	s := Strategy{RevisionCount: 0, InitialGap: 3, GapMultiplier: 1.6}
	if got := BuildRevisionDates(s, fixedNow, day(365)); len(got) != 0 {
		t.Fatalf("want empty, got %v", got)
	}
}

func TestBuildRevisionDatesPassedDeadline(t *testing.T) {
	s := FallbackStrategy()
	if got := BuildRevisionDates(s, fixedNow, day(-1)); len(got) != 0 {
		t.Fatalf("want empty for passed deadline, got %v", got)
	}
}

func TestBuildRevisionDatesLengthBound(t *testing.T) {
	s := Strategy{RevisionCount: 4, InitialGap: 1, GapMultiplier: 2}
	got := BuildRevisionDates(s, fixedNow, day(1000))
	if len(got) != 4 {
		t.Fatalf("length: want=4 got=%d", len(got))
	}
}

func TestDaysLeft(t *testing.T) {
	cases := []struct {
		deadline time.Time
		want     int
	}{
		{day(0), 0},
		{day(1), 1},
		{day(30), 30},
		{day(-3), -3},
	}
	for _, tc := range cases {
		if got := DaysLeft(fixedNow, tc.deadline); got != tc.want {
			t.Fatalf("DaysLeft(%s): want=%d got=%d", tc.deadline.Format(time.DateOnly), tc.want, got)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(FallbackStrategy()); err != nil {
		t.Fatalf("fallback strategy should validate: %v", err)
	}
	bad := []Strategy{
		{RevisionCount: -1, InitialGap: 3, GapMultiplier: 1.6},
		{RevisionCount: 2, InitialGap: 0, GapMultiplier: 1.6},
		{RevisionCount: 2, InitialGap: 3, GapMultiplier: 1},
		{RevisionCount: 2, InitialGap: 3, GapMultiplier: 0.5},
	}
	for _, s := range bad {
		if err := Validate(s); err == nil {
			t.Fatalf("expected validation error for %+v", s)
		}
	}
}
