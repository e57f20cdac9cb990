package alert

import (
	"context"
	"errors"
	"testing"
	"time"

	"TrendPulse/internal/domain/models"
	applogger "TrendPulse/pkg/logger"
)

func f64(v float64) *float64 { return &v }

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

type fakeStore struct {
	subs     []models.AlertSubscription
	listErr  error
	triggers []string
}

func (s *fakeStore) SaveTrend(context.Context, *models.Trend) (string, error) { return "", nil }

func (s *fakeStore) ListTrends(context.Context, string, int) ([]models.Trend, error) {
	return nil, nil
}

func (s *fakeStore) ListActiveAlertSubscriptions(context.Context) ([]models.AlertSubscription, error) {
	return s.subs, s.listErr
}

func (s *fakeStore) RecordAlertTrigger(_ context.Context, subID, _, _ string) error {
	s.triggers = append(s.triggers, subID)
	return nil
}

type fakeNotifier struct {
	events []models.AlertEvent
	err    error
}

func (n *fakeNotifier) Notify(_ context.Context, ev models.AlertEvent) error {
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, ev)
	return nil
}

type fakeMetrics struct {
	alerts map[string]int
	errs   map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{alerts: map[string]int{}, errs: map[string]int{}}
}

func (m *fakeMetrics) RecordTrendDetected(string, string) {}
func (m *fakeMetrics) RecordAlertTriggered(t string)      { m.alerts[t]++ }
func (m *fakeMetrics) RecordError(kind string)            { m.errs[kind]++ }
func (m *fakeMetrics) RecordLastValue(string, float64)    {}
func (m *fakeMetrics) RecordLatency(string, float64)      {}

func testTrend() models.Trend {
	return models.Trend{
		ID:            "signups-increasing-1",
		TrendName:     "Sustained growth in signups",
		TrendType:     models.TrendIncreasing,
		Metric:        "signups",
		ChangePercent: 420,
		Significance:  0.9,
		Keywords:      []string{"signups", "growth"},
		DetectedAt:    time.Now().UTC(),
	}
}

func TestMatchesThreshold(t *testing.T) {
	sub := models.AlertSubscription{Type: models.AlertThreshold, Active: true}
	if Matches(sub, testTrend()) {
		t.Fatalf("threshold without value must not match")
	}
	sub.Conditions.Threshold = f64(0.8)
	if !Matches(sub, testTrend()) {
		t.Fatalf("0.9 significance should pass 0.8 threshold")
	}
	sub.Conditions.Threshold = f64(0.95)
	if Matches(sub, testTrend()) {
		t.Fatalf("0.9 significance should fail 0.95 threshold")
	}
}

func TestMatchesAcceleration(t *testing.T) {
	sub := models.AlertSubscription{Type: models.AlertAcceleration, Active: true}
	if Matches(sub, testTrend()) {
		t.Fatalf("acceleration without min growth rate must not match")
	}
	sub.Conditions.MinGrowthRate = f64(300)
	if !Matches(sub, testTrend()) {
		t.Fatalf("420%% change should pass a 300%% floor")
	}
	sub.Conditions.MinGrowthRate = f64(500)
	if Matches(sub, testTrend()) {
		t.Fatalf("420%% change should fail a 500%% floor")
	}
}

func TestMatchesSecondaryFilters(t *testing.T) {
	sub := models.AlertSubscription{Type: models.AlertEmergence, Active: true}
	if !Matches(sub, testTrend()) {
		t.Fatalf("emergence with no filters should match")
	}

	sub.Conditions.MinConfidence = f64(0.95)
	if Matches(sub, testTrend()) {
		t.Fatalf("min confidence filter should reject")
	}
	sub.Conditions.MinConfidence = f64(0.5)

	sub.Conditions.TrendTypes = []models.TrendType{models.TrendDecreasing}
	if Matches(sub, testTrend()) {
		t.Fatalf("trend type filter should reject")
	}
	sub.Conditions.TrendTypes = []models.TrendType{models.TrendIncreasing}

	sub.Conditions.Keywords = []string{"billing"}
	if Matches(sub, testTrend()) {
		t.Fatalf("keyword filter should reject")
	}
	sub.Conditions.Keywords = []string{"SIGNUPS"}
	if !Matches(sub, testTrend()) {
		t.Fatalf("keyword match is case-insensitive")
	}
}

func TestMatchesUnknownType(t *testing.T) {
	sub := models.AlertSubscription{Type: "bogus", Active: true}
	if Matches(sub, testTrend()) {
		t.Fatalf("unknown alert type must not match")
	}
}

func TestEvaluateFiresAndRecords(t *testing.T) {
	store := &fakeStore{subs: []models.AlertSubscription{
		{ID: "s1", Type: models.AlertEmergence, Active: true},
		{ID: "s2", Type: models.AlertThreshold, Active: true, Conditions: models.AlertConditions{Threshold: f64(0.99)}},
		{ID: "s3", Type: models.AlertEmergence, Active: false},
	}}
	notifier := &fakeNotifier{}
	metrics := newFakeMetrics()

	events := NewEvaluator(store, notifier, metrics, testLogger(t)).Evaluate(context.Background(), testTrend())
	if len(events) != 1 || events[0].SubscriptionID != "s1" {
		t.Fatalf("events = %+v", events)
	}
	if len(store.triggers) != 1 || store.triggers[0] != "s1" {
		t.Fatalf("triggers = %v", store.triggers)
	}
	if len(notifier.events) != 1 {
		t.Fatalf("notified = %d", len(notifier.events))
	}
	if metrics.alerts["emergence"] != 1 {
		t.Fatalf("alert metric = %v", metrics.alerts)
	}
	if events[0].Message == "" {
		t.Fatalf("expected alert message")
	}
}

func TestEvaluateSurvivesNotifyFailure(t *testing.T) {
	store := &fakeStore{subs: []models.AlertSubscription{
		{ID: "s1", Type: models.AlertEmergence, Active: true},
		{ID: "s2", Type: models.AlertEmergence, Active: true},
	}}
	notifier := &fakeNotifier{err: errors.New("broker down")}
	metrics := newFakeMetrics()

	events := NewEvaluator(store, notifier, metrics, testLogger(t)).Evaluate(context.Background(), testTrend())
	if len(events) != 2 {
		t.Fatalf("events = %d, delivery failure must not stop evaluation", len(events))
	}
	if metrics.errs["alert_notify"] != 2 {
		t.Fatalf("notify errors = %v", metrics.errs)
	}
}

func TestEvaluateListFailure(t *testing.T) {
	store := &fakeStore{listErr: errors.New("ch down")}
	metrics := newFakeMetrics()
	events := NewEvaluator(store, &fakeNotifier{}, metrics, testLogger(t)).Evaluate(context.Background(), testTrend())
	if events != nil {
		t.Fatalf("events = %+v", events)
	}
	if metrics.errs["alert_list_subscriptions"] != 1 {
		t.Fatalf("errors = %v", metrics.errs)
	}
}
