package repository

import (
	"context"
	"fmt"

	"TrendPulse/internal/domain/models"
	domrepo "TrendPulse/internal/domain/repository"
	pkgkafka "TrendPulse/pkg/kafka"
	applogger "TrendPulse/pkg/logger"
)

// KafkaNotifier delivers alert events to the alerts topic. Delivery is
// at-least-once; the caller treats errors as non-fatal.
type KafkaNotifier struct {
	producer *pkgkafka.Producer
	topic    string
	l        *applogger.Logger
}

func NewKafkaNotifier(producer *pkgkafka.Producer, topic string, l *applogger.Logger) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic, l: l}
}

func (n *KafkaNotifier) Notify(ctx context.Context, ev models.AlertEvent) error {
	payload := map[string]interface{}{
		"subscription_id": ev.SubscriptionID,
		"trend_id":        ev.TrendID,
		"triggered_at":    ev.TriggeredAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		"message":         ev.Message,
	}
	if err := n.producer.Publish(ctx, n.topic, []byte(ev.SubscriptionID), payload); err != nil {
		return fmt.Errorf("notify alert: %w", err)
	}
	if n.l != nil {
		n.l.Debug("alert published",
			applogger.String("subscription", ev.SubscriptionID),
			applogger.String("trend", ev.TrendID),
		)
	}
	return nil
}

var _ domrepo.Notifier = (*KafkaNotifier)(nil)
