package detect

import (
	"context"
	"errors"
	"testing"

	"TrendPulse/internal/domain/models"
)

type stubDetector struct {
	name string
	cand *models.DetectedTrend
	err  error
	boom bool
}

func (s *stubDetector) Name() string { return s.name }

func (s *stubDetector) Detect(context.Context, models.TimeSeries) (*models.DetectedTrend, error) {
	if s.boom {
		panic("bad input")
	}
	return s.cand, s.err
}

func TestSetIsolatesFailures(t *testing.T) {
	ok := &models.DetectedTrend{Name: "found", Type: models.CandidateGrowth}
	set := NewSet(
		&stubDetector{name: "panicky", boom: true},
		&stubDetector{name: "broken", err: errors.New("nope")},
		&stubDetector{name: "quiet"},
		&stubDetector{name: "working", cand: ok},
	)

	cands, errs := set.Run(context.Background(), models.TimeSeries{})
	if len(cands) != 1 || cands[0].Name != "found" {
		t.Fatalf("candidates = %+v", cands)
	}
	if len(errs) != 2 {
		t.Fatalf("errs = %v", errs)
	}
	if _, ok := errs["panicky"]; !ok {
		t.Fatalf("panic not captured: %v", errs)
	}
	if _, ok := errs["broken"]; !ok {
		t.Fatalf("error not captured: %v", errs)
	}
}

func TestDefaultSetOrder(t *testing.T) {
	names := []string{}
	for _, d := range DefaultSet().Detectors() {
		names = append(names, d.Name())
	}
	want := []string{"moving_average", "change_point", "seasonality", "anomaly"}
	if len(names) != len(want) {
		t.Fatalf("detectors = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("detectors = %v, want %v", names, want)
		}
	}
}
