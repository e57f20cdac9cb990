package detect

import (
	"context"
	"math"
	"testing"

	"TrendPulse/internal/domain/models"
)

func TestSeasonalityDetectsWeeklyCycle(t *testing.T) {
	// four full period-7 cycles
	values := make([]float64, 28)
	for i := range values {
		values[i] = 10 + 5*math.Sin(2*math.Pi*float64(i)/7)
	}
	cand, err := NewSeasonalityDetector().Detect(context.Background(), dailySeries("order volume", values))
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if cand == nil {
		t.Fatalf("expected seasonal candidate")
	}
	if cand.Type != models.CandidateSeasonal {
		t.Fatalf("type = %s", cand.Type)
	}
	if cand.Evidence.Period != 7 {
		t.Fatalf("period = %d, want 7", cand.Evidence.Period)
	}
	if cand.Evidence.PeriodLabel != "Weekly" {
		t.Fatalf("label = %q", cand.Evidence.PeriodLabel)
	}
	if cand.GrowthRatePercent != 0 {
		t.Fatalf("seasonal growth rate = %v, want 0", cand.GrowthRatePercent)
	}
	if cand.Strength < 0.3 {
		t.Fatalf("strength = %v", cand.Strength)
	}
}

func TestSeasonalityIgnoresConstantSeries(t *testing.T) {
	values := make([]float64, 28)
	cand, err := NewSeasonalityDetector().Detect(context.Background(), dailySeries("m", values))
	if err != nil || cand != nil {
		t.Fatalf("expected no candidate, got cand=%v err=%v", cand, err)
	}
}

func TestSeasonalitySkipsShortSeries(t *testing.T) {
	cand, err := NewSeasonalityDetector().Detect(context.Background(), dailySeries("m", make([]float64, 27)))
	if err != nil || cand != nil {
		t.Fatalf("expected silent skip, got cand=%v err=%v", cand, err)
	}
}

func TestPeriodLabels(t *testing.T) {
	cases := map[int]string{
		1:   "Daily",
		7:   "Weekly",
		14:  "Bi-weekly",
		28:  "Monthly",
		90:  "Quarterly",
		180: "Long-term",
	}
	for period, want := range cases {
		if got := periodLabel(period); got != want {
			t.Fatalf("periodLabel(%d) = %q, want %q", period, got, want)
		}
	}
}
