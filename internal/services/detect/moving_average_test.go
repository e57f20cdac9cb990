package detect

import (
	"context"
	"testing"
	"time"

	"TrendPulse/internal/domain/models"
)

func dailySeries(metric string, values []float64) models.TimeSeries {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	points := make([]models.Point, len(values))
	for i, v := range values {
		points[i] = models.Point{Date: start.AddDate(0, 0, i), Value: v}
	}
	return models.TimeSeries{Metric: metric, Points: points}
}

func TestMovingAverageDetectsGrowth(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = float64(i + 1)
	}
	cand, err := NewMovingAverageDetector().Detect(context.Background(), dailySeries("support tickets", values))
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if cand == nil {
		t.Fatalf("expected growth candidate")
	}
	if cand.Type != models.CandidateGrowth {
		t.Fatalf("type = %s", cand.Type)
	}
	if cand.GrowthRatePercent <= 50 {
		t.Fatalf("growth rate = %v", cand.GrowthRatePercent)
	}
	if cand.Strength < 0.9 {
		t.Fatalf("strength = %v for a perfectly linear series", cand.Strength)
	}
	if cand.PeakDate == nil {
		t.Fatalf("expected peak date")
	}
	if len(cand.Evidence.Points) == 0 {
		t.Fatalf("expected evidence points")
	}
}

func TestMovingAverageDetectsDecline(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = float64(30 - i)
	}
	cand, err := NewMovingAverageDetector().Detect(context.Background(), dailySeries("m", values))
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if cand == nil || cand.Type != models.CandidateDecline {
		t.Fatalf("expected decline, got %+v", cand)
	}
	if cand.GrowthRatePercent >= 0 {
		t.Fatalf("growth rate = %v", cand.GrowthRatePercent)
	}
}

func TestMovingAverageIgnoresFlatSeries(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 5
	}
	cand, err := NewMovingAverageDetector().Detect(context.Background(), dailySeries("m", values))
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if cand != nil {
		t.Fatalf("expected no candidate for flat series, got %+v", cand)
	}
}

func TestMovingAverageSkipsShortSeries(t *testing.T) {
	cand, err := NewMovingAverageDetector().Detect(context.Background(), dailySeries("m", []float64{1, 2, 3}))
	if err != nil || cand != nil {
		t.Fatalf("expected silent skip, got cand=%v err=%v", cand, err)
	}
}
