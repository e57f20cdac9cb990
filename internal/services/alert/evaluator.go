package alert

import (
	"context"
	"fmt"
	"strings"
	"time"

	"TrendPulse/internal/domain/models"
	domrepo "TrendPulse/internal/domain/repository"
	applogger "TrendPulse/pkg/logger"
)

// Evaluator matches freshly classified trends against active alert
// subscriptions. Notification failures are local: they are logged and never
// abort evaluation of the remaining subscriptions.
type Evaluator struct {
	store    domrepo.TrendStore
	notifier domrepo.Notifier
	metrics  domrepo.Metrics
	logger   *applogger.Logger
}

func NewEvaluator(store domrepo.TrendStore, notifier domrepo.Notifier, metrics domrepo.Metrics, logger *applogger.Logger) *Evaluator {
	return &Evaluator{store: store, notifier: notifier, metrics: metrics, logger: logger}
}

// Evaluate checks every active subscription against the trend and fires
// alert events for full matches. It returns the events it produced.
func (e *Evaluator) Evaluate(ctx context.Context, trend models.Trend) []models.AlertEvent {
	subs, err := e.store.ListActiveAlertSubscriptions(ctx)
	if err != nil {
		e.logger.Error("list alert subscriptions failed", applogger.Error(err))
		e.metrics.RecordError("alert_list_subscriptions")
		return nil
	}

	var events []models.AlertEvent
	for _, sub := range subs {
		if !sub.Active {
			continue
		}
		if !Matches(sub, trend) {
			continue
		}

		ev := models.AlertEvent{
			SubscriptionID: sub.ID,
			TrendID:        trend.ID,
			TriggeredAt:    time.Now().UTC(),
			Message:        buildMessage(sub, trend),
		}

		if err := e.store.RecordAlertTrigger(ctx, sub.ID, trend.ID, ev.Message); err != nil {
			e.logger.Error("record alert trigger failed",
				applogger.String("subscription", sub.ID),
				applogger.String("trend", trend.ID),
				applogger.Error(err),
			)
			e.metrics.RecordError("alert_record_trigger")
		}
		if err := e.notifier.Notify(ctx, ev); err != nil {
			// at-least-once: log and keep evaluating
			e.logger.Error("alert notify failed",
				applogger.String("subscription", sub.ID),
				applogger.Error(err),
			)
			e.metrics.RecordError("alert_notify")
		}

		e.metrics.RecordAlertTriggered(string(sub.Type))
		events = append(events, ev)
	}
	return events
}

// Matches evaluates the primary condition for the subscription's alert type,
// then the secondary filters in order. Malformed conditions fail the match
// instead of erroring.
func Matches(sub models.AlertSubscription, trend models.Trend) bool {
	switch sub.Type {
	case models.AlertThreshold:
		if sub.Conditions.Threshold == nil {
			return false
		}
		if trend.Significance < *sub.Conditions.Threshold {
			return false
		}
	case models.AlertAcceleration:
		if sub.Conditions.MinGrowthRate == nil {
			return false
		}
		if trend.ChangePercent < *sub.Conditions.MinGrowthRate {
			return false
		}
	case models.AlertEmergence, models.AlertPeak, models.AlertDecline, models.AlertAnomaly:
		// a freshly classified trend always satisfies the primary condition;
		// the secondary filters do the narrowing
	default:
		return false
	}

	cond := sub.Conditions
	if cond.MinConfidence != nil && trend.Significance < *cond.MinConfidence {
		return false
	}
	if len(cond.TrendTypes) > 0 && !containsType(cond.TrendTypes, trend.TrendType) {
		return false
	}
	if len(cond.Keywords) > 0 && !keywordsIntersect(cond.Keywords, trend.Keywords) {
		return false
	}
	return true
}

func containsType(types []models.TrendType, t models.TrendType) bool {
	for _, tt := range types {
		if tt == t {
			return true
		}
	}
	return false
}

func keywordsIntersect(want, have []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, k := range have {
		set[strings.ToLower(k)] = struct{}{}
	}
	for _, k := range want {
		if _, ok := set[strings.ToLower(k)]; ok {
			return true
		}
	}
	return false
}

func buildMessage(sub models.AlertSubscription, trend models.Trend) string {
	return fmt.Sprintf("%s alert: %q (%s) strength %.2f, growth %.1f%%",
		sub.Type, trend.TrendName, trend.TrendType, trend.Significance, trend.ChangePercent)
}
