package usecase

import (
	"context"
	"fmt"
	"time"

	"TrendPulse/internal/domain/models"
	domrepo "TrendPulse/internal/domain/repository"
	applogger "TrendPulse/pkg/logger"
	"TrendPulse/pkg/queue"
)

const NotifyJobType = "deliver_alert"

// NotifyJob delivers matched alert events from the Redis queue. Enqueued
// delivery keeps the evaluator fast and gives failed notifications the
// queue's retry and dead-letter handling.
type NotifyJob struct {
	notifier domrepo.Notifier
	l        *applogger.Logger
}

func NewNotifyJob(notifier domrepo.Notifier, l *applogger.Logger) *NotifyJob {
	return &NotifyJob{notifier: notifier, l: l}
}

func (j *NotifyJob) Name() string { return "notify-job" }
func (j *NotifyJob) Type() string { return NotifyJobType }

func (j *NotifyJob) Handle(ctx context.Context, payload interface{}) error {
	ev, err := queue.ParsePayload[models.AlertEvent](payload)
	if err != nil {
		return fmt.Errorf("alert payload: %w", err)
	}
	if err := j.notifier.Notify(ctx, *ev); err != nil {
		return fmt.Errorf("deliver alert %s/%s: %w", ev.SubscriptionID, ev.TrendID, err)
	}
	j.l.Info("alert delivered",
		applogger.String("subscription", ev.SubscriptionID),
		applogger.String("trend", ev.TrendID),
	)
	return nil
}

var _ queue.Job = (*NotifyJob)(nil)

// QueueNotifier hands alert events to the job queue instead of delivering
// inline. Delivery stays at-least-once end to end.
type QueueNotifier struct {
	q *queue.RedisQueue
}

func NewQueueNotifier(q *queue.RedisQueue) *QueueNotifier {
	return &QueueNotifier{q: q}
}

func (n *QueueNotifier) Notify(ctx context.Context, ev models.AlertEvent) error {
	if ev.TriggeredAt.IsZero() {
		ev.TriggeredAt = time.Now().UTC()
	}
	return n.q.Enqueue(ctx, NotifyJobType, ev)
}

var _ domrepo.Notifier = (*QueueNotifier)(nil)
