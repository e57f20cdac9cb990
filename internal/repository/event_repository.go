package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"TrendPulse/internal/domain/models"
	domrepo "TrendPulse/internal/domain/repository"
	"TrendPulse/internal/usecase"
	pkgch "TrendPulse/pkg/clickhouse"
	pkgkafka "TrendPulse/pkg/kafka"
	applogger "TrendPulse/pkg/logger"
)

// CHEventSink writes raw events into the ClickHouse raw_events table.
type CHEventSink struct {
	client *pkgch.Client
	db     *sql.DB
	dbName string
	l      *applogger.Logger
}

func NewCHEventSink(ch *pkgch.Client, dbName string, l *applogger.Logger) *CHEventSink {
	return &CHEventSink{client: ch, db: ch.DB(), dbName: dbName, l: l}
}

// Init ensures the database and tables exist.
func (s *CHEventSink) Init(ctx context.Context) error {
	return s.client.InitSchema(ctx, SchemaStatements(s.dbName))
}

func (s *CHEventSink) Store(ctx context.Context, e *models.Event) error {
	if e == nil {
		return fmt.Errorf("nil event")
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO raw_events (ts, source, metric, count)
        VALUES (?, ?, ?, ?)
    `, time.Unix(e.Timestamp, 0).UTC(), e.Source, e.Metric, e.Count)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse store event error",
				applogger.String("metric", e.Metric),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store event: %w", err)
	}
	return nil
}

func (s *CHEventSink) StoreBatch(ctx context.Context, events []*models.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO raw_events (ts, source, metric, count)
        VALUES (?, ?, ?, ?)
    `)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare batch: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		if e == nil {
			continue
		}
		if _, err := stmt.ExecContext(ctx, time.Unix(e.Timestamp, 0).UTC(), e.Source, e.Metric, e.Count); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse batch stored", applogger.Int("events", len(events)))
	}
	return nil
}

func (s *CHEventSink) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

func (s *CHEventSink) Close() error { return nil }

var _ domrepo.EventSink = (*CHEventSink)(nil)

// KafkaEventPublisher publishes raw events to the events topic so that
// downstream consumers (including our own ingest consumer) can pick
// them up.
type KafkaEventPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaEventPublisher(producer *pkgkafka.Producer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, e *models.Event) error {
	if e == nil {
		return fmt.Errorf("nil event")
	}
	payload := map[string]interface{}{
		"source": e.Source,
		"metric": e.Metric,
		"t":      e.Timestamp,
		"v":      e.Count,
	}
	return p.producer.Publish(ctx, p.topic, []byte(e.Metric), payload)
}

func (p *KafkaEventPublisher) PublishBatch(ctx context.Context, events []*models.Event) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, 0, len(events))
	for _, e := range events {
		if e == nil {
			continue
		}
		msgs = append(msgs, pkgkafka.Message{
			Key: []byte(e.Metric),
			Value: map[string]interface{}{
				"source": e.Source,
				"metric": e.Metric,
				"t":      e.Timestamp,
				"v":      e.Count,
			},
		})
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaEventPublisher) Close() error { return p.producer.Close() }

var _ usecase.EventPublisher = (*KafkaEventPublisher)(nil)
