package detect

import (
	"context"
	"testing"

	"TrendPulse/internal/domain/models"
)

func TestChangePointDetectsLevelShift(t *testing.T) {
	// eleven low points then ten high ones: the max |CUSUM| lands on the
	// last low point, index 10, the earliest index the detector accepts
	values := make([]float64, 0, 21)
	for i := 0; i < 11; i++ {
		values = append(values, 1)
	}
	for i := 0; i < 10; i++ {
		values = append(values, 10)
	}
	series := dailySeries("deploy failures", values)

	cand, err := NewChangePointDetector().Detect(context.Background(), series)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if cand == nil {
		t.Fatalf("expected change point candidate")
	}
	if cand.Type != models.CandidateChangePoint {
		t.Fatalf("type = %s", cand.Type)
	}
	if cand.Evidence.ChangeIndex != 10 {
		t.Fatalf("change index = %d, want 10", cand.Evidence.ChangeIndex)
	}
	if cand.GrowthRatePercent <= 0 {
		t.Fatalf("growth rate = %v for an upward shift", cand.GrowthRatePercent)
	}
	if !cand.StartDate.Equal(series.Points[10].Date) {
		t.Fatalf("start date = %v, want change date", cand.StartDate)
	}
	if cand.Strength <= 0 || cand.Strength > 1 {
		t.Fatalf("strength = %v", cand.Strength)
	}
}

func TestChangePointIgnoresFlatSeries(t *testing.T) {
	values := make([]float64, 25)
	for i := range values {
		values[i] = 7
	}
	cand, err := NewChangePointDetector().Detect(context.Background(), dailySeries("m", values))
	if err != nil || cand != nil {
		t.Fatalf("expected no candidate, got cand=%v err=%v", cand, err)
	}
}

func TestChangePointRejectsEarlyShift(t *testing.T) {
	// a shift inside the first MinIndex points is treated as a window artifact
	values := make([]float64, 0, 25)
	for i := 0; i < 5; i++ {
		values = append(values, 1)
	}
	for i := 0; i < 20; i++ {
		values = append(values, 10)
	}
	cand, err := NewChangePointDetector().Detect(context.Background(), dailySeries("m", values))
	if err != nil || cand != nil {
		t.Fatalf("expected rejection of early shift, got cand=%v err=%v", cand, err)
	}

	// one point earlier than the accepted boundary is still rejected
	values = values[:0]
	for i := 0; i < 10; i++ {
		values = append(values, 1)
	}
	for i := 0; i < 11; i++ {
		values = append(values, 10)
	}
	cand, err = NewChangePointDetector().Detect(context.Background(), dailySeries("m", values))
	if err != nil || cand != nil {
		t.Fatalf("expected rejection at index 9, got cand=%v err=%v", cand, err)
	}
}

func TestChangePointSkipsShortSeries(t *testing.T) {
	cand, err := NewChangePointDetector().Detect(context.Background(), dailySeries("m", make([]float64, 19)))
	if err != nil || cand != nil {
		t.Fatalf("expected silent skip, got cand=%v err=%v", cand, err)
	}
}
