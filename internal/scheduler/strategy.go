package scheduler

import "fmt"

// Strategy describes a geometric revision spacing plan: RevisionCount
// attempts, the first InitialGap days out, each following gap scaled by
// GapMultiplier.
type Strategy struct {
	RevisionCount int     `json:"revision_count"`
	InitialGap    float64 `json:"initial_gap"`
	GapMultiplier float64 `json:"gap_multiplier"`
}

// FallbackStrategy is the fixed plan used whenever the strategy provider
// fails or times out.
func FallbackStrategy() Strategy {
	return Strategy{RevisionCount: 2, InitialGap: 3, GapMultiplier: 1.6}
}

// Validate checks a provider-supplied strategy on structural grounds only.
// Advisory rules (multiplier bounds, count vs days left) are the provider's
// business and are deliberately not re-checked here.
func Validate(s Strategy) error {
	if s.RevisionCount < 0 {
		return fmt.Errorf("revision_count must be >= 0, got %d", s.RevisionCount)
	}
	if s.InitialGap <= 0 {
		return fmt.Errorf("initial_gap must be > 0, got %v", s.InitialGap)
	}
	if s.GapMultiplier <= 1 {
		return fmt.Errorf("gap_multiplier must be > 1, got %v", s.GapMultiplier)
	}
	return nil
}
