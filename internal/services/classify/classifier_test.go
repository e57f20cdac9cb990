package classify

import (
	"reflect"
	"testing"
	"time"

	"TrendPulse/internal/domain/models"
)

func growthCandidate(rate float64) models.DetectedTrend {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return models.DetectedTrend{
		Name:              "Sustained growth in signups",
		Type:              models.CandidateGrowth,
		Metric:            "signups",
		Strength:          0.9,
		Confidence:        0.9,
		GrowthRatePercent: rate,
		StartDate:         start,
		Evidence: models.Evidence{Points: []models.EvidencePoint{
			{Date: start, Value: 10},
			{Date: start.AddDate(0, 0, 1), Value: 55},
		}},
		Keywords: []string{"signups"},
	}
}

func TestClassifyGatesWeakCandidates(t *testing.T) {
	c := NewClassifier()
	if got := c.Classify(growthCandidate(120)); got != nil {
		t.Fatalf("expected gate to drop 120%% candidate, got %+v", got)
	}
	if got := c.Classify(growthCandidate(-350)); got == nil {
		t.Fatalf("expected negative rate to pass on magnitude")
	}
}

func TestClassifyMapsGrowth(t *testing.T) {
	got := NewClassifier().Classify(growthCandidate(414))
	if got == nil {
		t.Fatalf("expected trend")
	}
	if got.TrendType != models.TrendIncreasing {
		t.Fatalf("type = %s", got.TrendType)
	}
	if got.PreviousValue != 10 || got.CurrentValue != 55 {
		t.Fatalf("values = %v -> %v", got.PreviousValue, got.CurrentValue)
	}
	if got.ChangePercent != 450 {
		t.Fatalf("change percent = %v", got.ChangePercent)
	}
	if got.TimePeriod != models.PeriodDay {
		t.Fatalf("time period = %s for 2 samples", got.TimePeriod)
	}
	if got.Significance != 0.9 {
		t.Fatalf("significance = %v", got.Significance)
	}
	if !got.DetectedAt.IsZero() || got.ID != "" {
		t.Fatalf("classifier must not assign identity or timestamps")
	}
}

func TestClassifyAnomalyGate(t *testing.T) {
	cand := growthCandidate(100)
	cand.Type = models.CandidateAnomaly
	cand.Strength = 0.8

	got := NewClassifier().Classify(cand)
	if got == nil {
		t.Fatalf("expected strong anomaly to pass despite low growth")
	}
	if got.TrendType != models.TrendStable {
		t.Fatalf("anomaly maps to %s, want stable", got.TrendType)
	}

	cand.Strength = 0.6
	if got := NewClassifier().Classify(cand); got != nil {
		t.Fatalf("expected weak anomaly to be gated")
	}
}

func TestClassifyIsPure(t *testing.T) {
	c := NewClassifier()
	cand := growthCandidate(500)
	a := c.Classify(cand)
	b := c.Classify(cand)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("classify not deterministic: %+v vs %+v", a, b)
	}
}

func TestClassifyAllKeepsOrder(t *testing.T) {
	decline := growthCandidate(-400)
	decline.Type = models.CandidateDecline
	out := NewClassifier().ClassifyAll([]models.DetectedTrend{
		growthCandidate(400),
		growthCandidate(10), // gated
		decline,
	})
	if len(out) != 2 {
		t.Fatalf("trends = %d", len(out))
	}
	if out[0].TrendType != models.TrendIncreasing || out[1].TrendType != models.TrendDecreasing {
		t.Fatalf("order = %s, %s", out[0].TrendType, out[1].TrendType)
	}
}

func TestInferTimePeriod(t *testing.T) {
	cases := map[int]models.TimePeriod{
		7:   models.PeriodDay,
		30:  models.PeriodWeek,
		90:  models.PeriodMonth,
		180: models.PeriodQuarter,
		400: models.PeriodYear,
	}
	for samples, want := range cases {
		if got := inferTimePeriod(samples); got != want {
			t.Fatalf("inferTimePeriod(%d) = %s, want %s", samples, got, want)
		}
	}
}
