package usecase

import (
	"context"
	"fmt"
	"time"

	"TrendPulse/internal/domain/models"
	drepo "TrendPulse/internal/domain/repository"
	pkgkafka "TrendPulse/pkg/kafka"
)

// EventPublisher forwards raw events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, e *models.Event) error
	PublishBatch(ctx context.Context, events []*models.Event) error
	Close() error
}

// EventProcessor routes raw events to the configured ingest backend.
type EventProcessor struct {
	pub     EventPublisher
	sink    drepo.EventSink
	metrics drepo.Metrics
	backend string
	batchSz int
	batchTO time.Duration
}

func NewEventProcessor(
	pub EventPublisher,
	sink drepo.EventSink,
	metrics drepo.Metrics,
	backend string,
	batchSz int,
	batchTO time.Duration,
) *EventProcessor {
	return &EventProcessor{
		pub:     pub,
		sink:    sink,
		metrics: metrics,
		backend: backend,
		batchSz: batchSz,
		batchTO: batchTO,
	}
}

// Process routes a single event to the configured backend.
func (p *EventProcessor) Process(ctx context.Context, e *models.Event) error {
	if e == nil {
		return fmt.Errorf("event is nil")
	}

	start := time.Now()
	var err error
	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, e)
	case "clickhouse":
		err = p.sink.Store(ctx, e)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}
	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process event: %w", err)
	}

	p.metrics.RecordLastValue(e.Metric, e.Count)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())
	return nil
}

// ProcessBatch routes multiple events in one call.
func (p *EventProcessor) ProcessBatch(ctx context.Context, events []*models.Event) error {
	if len(events) == 0 {
		return nil
	}

	start := time.Now()
	var err error
	switch p.backend {
	case "kafka":
		err = p.pub.PublishBatch(ctx, events)
	case "clickhouse":
		err = p.sink.StoreBatch(ctx, events)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}
	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())
	return nil
}

// Close closes underlying resources if available.
func (p *EventProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.sink != nil {
		_ = p.sink.Close()
	}
}

var _ pkgkafka.MessageHandler = (*KafkaEventsHandler)(nil)
