package gemini

import (
	"strings"
	"testing"
)

func TestParseStrategyPlainJSON(t *testing.T) {
	s, err := parseStrategy(`{"revision_count": 4, "initial_gap": 2, "gap_multiplier": 1.5}`)
	if err != nil {
		t.Fatalf("parseStrategy: %v", err)
	}
	if s.RevisionCount != 4 || s.InitialGap != 2 || s.GapMultiplier != 1.5 {
		t.Fatalf("parseStrategy: %+v", s)
	}
}

func TestParseStrategyFencedJSON(t *testing.T) {
	raw := "```json\n{\"revision_count\": 3, \"initial_gap\": 1.5, \"gap_multiplier\": 1.8}\n```"
	s, err := parseStrategy(raw)
	if err != nil {
		t.Fatalf("parseStrategy: %v", err)
	}
	if s.RevisionCount != 3 || s.InitialGap != 1.5 || s.GapMultiplier != 1.8 {
		t.Fatalf("parseStrategy: %+v", s)
	}
}

func TestParseStrategyRejectsGarbage(t *testing.T) {
	if _, err := parseStrategy("the plan is to revise twice"); err == nil {
		t.Fatalf("expected error for non-JSON output")
	}
}

func TestParseStrategyRejectsStructurallyInvalid(t *testing.T) {
	_, err := parseStrategy(`{"revision_count": 3, "initial_gap": 0, "gap_multiplier": 1.6}`)
	if err == nil {
		t.Fatalf("expected error for zero initial_gap")
	}
	if !strings.Contains(err.Error(), "invalid strategy") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tc := range cases {
		if got := stripCodeFences(tc.in); got != tc.want {
			t.Fatalf("stripCodeFences(%q): want=%q got=%q", tc.in, tc.want, got)
		}
	}
}
