package repository

import (
	"context"

	"TrendPulse/internal/domain/models"
	domrepo "TrendPulse/internal/domain/repository"
	applogger "TrendPulse/pkg/logger"
)

// LogNotifier writes alerts to the application log. Used when no broker
// is configured.
type LogNotifier struct {
	l *applogger.Logger
}

func NewLogNotifier(l *applogger.Logger) *LogNotifier { return &LogNotifier{l: l} }

func (n *LogNotifier) Notify(_ context.Context, ev models.AlertEvent) error {
	n.l.Info("alert",
		applogger.String("subscription", ev.SubscriptionID),
		applogger.String("trend", ev.TrendID),
		applogger.String("message", ev.Message),
	)
	return nil
}

var _ domrepo.Notifier = (*LogNotifier)(nil)
