package detect

import (
	"context"
	"testing"

	"TrendPulse/internal/domain/models"
)

func TestAnomalyDetectsRecentSpike(t *testing.T) {
	values := make([]float64, 20)
	for i := range values {
		values[i] = 10
	}
	values[19] = 30
	series := dailySeries("login errors", values)

	cand, err := NewAnomalyDetector().Detect(context.Background(), series)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if cand == nil {
		t.Fatalf("expected anomaly candidate")
	}
	if cand.Type != models.CandidateAnomaly {
		t.Fatalf("type = %s", cand.Type)
	}
	if len(cand.Evidence.Anomalies) != 1 || cand.Evidence.Anomalies[0].Index != 19 {
		t.Fatalf("anomalies = %+v", cand.Evidence.Anomalies)
	}
	if cand.Strength <= 0 || cand.Strength > 1 {
		t.Fatalf("strength = %v", cand.Strength)
	}
	if cand.PeakDate == nil || !cand.PeakDate.Equal(series.Points[19].Date) {
		t.Fatalf("peak date = %v", cand.PeakDate)
	}
	if cand.GrowthRatePercent <= 0 {
		t.Fatalf("growth rate = %v for a spike", cand.GrowthRatePercent)
	}
}

func TestAnomalyIgnoresOldOutliers(t *testing.T) {
	// same outlier magnitude, but outside the trailing quarter
	values := make([]float64, 20)
	for i := range values {
		values[i] = 10
	}
	values[2] = 30
	cand, err := NewAnomalyDetector().Detect(context.Background(), dailySeries("m", values))
	if err != nil || cand != nil {
		t.Fatalf("expected no candidate for stale outlier, got cand=%v err=%v", cand, err)
	}
}

func TestAnomalyIgnoresConstantSeries(t *testing.T) {
	values := make([]float64, 20)
	for i := range values {
		values[i] = 10
	}
	cand, err := NewAnomalyDetector().Detect(context.Background(), dailySeries("m", values))
	if err != nil || cand != nil {
		t.Fatalf("expected no candidate for zero variance, got cand=%v err=%v", cand, err)
	}
}

func TestAnomalyLabelsDrops(t *testing.T) {
	values := make([]float64, 20)
	for i := range values {
		values[i] = 10
	}
	values[19] = -15
	cand, err := NewAnomalyDetector().Detect(context.Background(), dailySeries("m", values))
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if cand == nil {
		t.Fatalf("expected drop candidate")
	}
	if cand.Name != "Anomalous drop in m" {
		t.Fatalf("name = %q", cand.Name)
	}
}
