package repository

import (
	"context"
	"time"

	"TrendPulse/internal/domain/models"
)

// EventSource supplies raw observations for the engine. The series builder
// performs its own bucketing on top of this.
type EventSource interface {
	ListMetrics(ctx context.Context, sourceID string, start, end time.Time) ([]string, error)
	FetchEvents(ctx context.Context, sourceID, metric string, start, end time.Time) ([]models.Observation, error)
}

// TrendStore persists classified trends and exposes alert subscriptions.
type TrendStore interface {
	SaveTrend(ctx context.Context, t *models.Trend) (string, error)
	ListTrends(ctx context.Context, metric string, limit int) ([]models.Trend, error)
	ListActiveAlertSubscriptions(ctx context.Context) ([]models.AlertSubscription, error)
	RecordAlertTrigger(ctx context.Context, subscriptionID, trendID, message string) error
}

// EventSink receives raw events on the ingest path.
type EventSink interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, e *models.Event) error
	StoreBatch(ctx context.Context, events []*models.Event) error
	Health(ctx context.Context) error
	Close() error
}

// EventStream is a live feed of raw events (WebSocket gateway).
type EventStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Event, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Notifier delivers alert events to the outside world. Delivery is
// at-least-once; a failed delivery must not abort the caller.
type Notifier interface {
	Notify(ctx context.Context, ev models.AlertEvent) error
}

// Metrics records operational metrics for the engine.
type Metrics interface {
	RecordTrendDetected(detector, metric string)
	RecordAlertTriggered(alertType string)
	RecordError(kind string)
	RecordLastValue(metric string, value float64)
	RecordLatency(op string, seconds float64)
}
