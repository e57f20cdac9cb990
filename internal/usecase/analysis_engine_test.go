package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"TrendPulse/internal/domain/models"
	domrepo "TrendPulse/internal/domain/repository"
	"TrendPulse/internal/services/alert"
	"TrendPulse/internal/services/classify"
	"TrendPulse/internal/services/detect"
	applogger "TrendPulse/pkg/logger"
)

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

type memSource struct {
	obs map[string][]models.Observation
}

func (s *memSource) ListMetrics(context.Context, string, time.Time, time.Time) ([]string, error) {
	names := make([]string, 0, len(s.obs))
	for name := range s.obs {
		names = append(names, name)
	}
	return names, nil
}

func (s *memSource) FetchEvents(_ context.Context, _, metric string, _, _ time.Time) ([]models.Observation, error) {
	if metric == "broken" {
		return nil, errors.New("shard offline")
	}
	return s.obs[metric], nil
}

type memStore struct {
	saved []models.Trend
	subs  []models.AlertSubscription
}

func (s *memStore) SaveTrend(_ context.Context, t *models.Trend) (string, error) {
	s.saved = append(s.saved, *t)
	return fmt.Sprintf("trend-%d", len(s.saved)), nil
}

func (s *memStore) ListTrends(context.Context, string, int) ([]models.Trend, error) {
	return s.saved, nil
}

func (s *memStore) ListActiveAlertSubscriptions(context.Context) ([]models.AlertSubscription, error) {
	return s.subs, nil
}

func (s *memStore) RecordAlertTrigger(context.Context, string, string, string) error { return nil }

type memNotifier struct{ events []models.AlertEvent }

func (n *memNotifier) Notify(_ context.Context, ev models.AlertEvent) error {
	n.events = append(n.events, ev)
	return nil
}

type nopMetrics struct{}

func (nopMetrics) RecordTrendDetected(string, string) {}
func (nopMetrics) RecordAlertTriggered(string)        {}
func (nopMetrics) RecordError(string)                 {}
func (nopMetrics) RecordLastValue(string, float64)    {}
func (nopMetrics) RecordLatency(string, float64)      {}

func dailyObs(values []float64) []models.Observation {
	now := time.Now().UTC()
	obs := make([]models.Observation, len(values))
	for i, v := range values {
		obs[i] = models.Observation{Timestamp: now.AddDate(0, 0, -(len(values) - i)), Value: v}
	}
	return obs
}

func newTestEngine(t *testing.T, source domrepo.EventSource, store *memStore, notifier *memNotifier) *AnalysisEngine {
	t.Helper()
	l := testLogger(t)
	evaluator := alert.NewEvaluator(store, notifier, nopMetrics{}, l)
	return NewAnalysisEngine(source, store, detect.DefaultSet(), classify.NewClassifier(), evaluator, nopMetrics{}, l, WithWorkers(2))
}

func TestEngineRunDetectsPersistsAndAlerts(t *testing.T) {
	source := &memSource{obs: map[string][]models.Observation{
		"ticket volume": dailyObs([]float64{10, 11, 9, 12, 50, 52, 55, 53}),
	}}
	store := &memStore{subs: []models.AlertSubscription{
		{ID: "sub1", Type: models.AlertEmergence, Active: true},
	}}
	notifier := &memNotifier{}
	engine := newTestEngine(t, source, store, notifier)

	res, err := engine.Run(context.Background(), RunConfig{
		Source:        "helpdesk",
		WindowValue:   30,
		WindowUnit:    domrepo.BucketDay,
		MinSampleSize: 8,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Metrics != 1 || res.Skipped != 0 {
		t.Fatalf("metrics=%d skipped=%d", res.Metrics, res.Skipped)
	}
	if len(res.Trends) != 1 {
		t.Fatalf("trends = %+v", res.Trends)
	}
	trend := res.Trends[0]
	if trend.TrendType != models.TrendIncreasing {
		t.Fatalf("trend type = %s", trend.TrendType)
	}
	if trend.ChangePercent <= 300 {
		t.Fatalf("change percent = %v", trend.ChangePercent)
	}
	if trend.ID == "" || trend.DetectedAt.IsZero() {
		t.Fatalf("engine must assign identity: %+v", trend)
	}
	if len(store.saved) != 1 {
		t.Fatalf("saved = %d", len(store.saved))
	}
	if res.Alerts != 1 || len(notifier.events) != 1 {
		t.Fatalf("alerts=%d notified=%d", res.Alerts, len(notifier.events))
	}
	if notifier.events[0].TrendID != trend.ID {
		t.Fatalf("alert trend id = %q", notifier.events[0].TrendID)
	}
}

func TestEngineSkipsSparseSeries(t *testing.T) {
	source := &memSource{obs: map[string][]models.Observation{
		"sparse": dailyObs([]float64{1, 2, 3}),
	}}
	store := &memStore{}
	engine := newTestEngine(t, source, store, &memNotifier{})

	res, err := engine.Run(context.Background(), RunConfig{
		Source: "helpdesk", WindowValue: 30, WindowUnit: domrepo.BucketDay, MinSampleSize: 8,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Skipped != 1 || len(res.Trends) != 0 {
		t.Fatalf("skipped=%d trends=%d", res.Skipped, len(res.Trends))
	}
	if len(store.saved) != 0 {
		t.Fatalf("sparse series must not persist trends")
	}
}

func TestEngineIsolatesMetricFailures(t *testing.T) {
	source := &memSource{obs: map[string][]models.Observation{
		"broken":        nil,
		"ticket volume": dailyObs([]float64{10, 11, 9, 12, 50, 52, 55, 53}),
	}}
	store := &memStore{}
	engine := newTestEngine(t, source, store, &memNotifier{})

	res, err := engine.Run(context.Background(), RunConfig{
		Source: "helpdesk", WindowValue: 30, WindowUnit: domrepo.BucketDay, MinSampleSize: 8,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Errors["broken"] == "" {
		t.Fatalf("expected per-metric error, got %+v", res.Errors)
	}
	if len(res.Trends) != 1 {
		t.Fatalf("healthy metric should still produce a trend, got %d", len(res.Trends))
	}
}

func TestEngineRejectsEmptySource(t *testing.T) {
	engine := newTestEngine(t, &memSource{}, &memStore{}, &memNotifier{})
	if _, err := engine.Run(context.Background(), RunConfig{}); err == nil {
		t.Fatalf("expected error for empty source")
	}
}
