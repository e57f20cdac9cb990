package usecase

import (
	"context"
	"encoding/json"
	"time"

	"TrendPulse/internal/domain/models"
	domrepo "TrendPulse/internal/domain/repository"
)

// KafkaEventsHandler consumes raw event counts from Kafka and writes them
// to the event sink.
type KafkaEventsHandler struct {
	topic   string
	sink    domrepo.EventSink
	metrics domrepo.Metrics
}

func NewKafkaEventsHandler(topic string, sink domrepo.EventSink, metrics domrepo.Metrics) *KafkaEventsHandler {
	return &KafkaEventsHandler{topic: topic, sink: sink, metrics: metrics}
}

func (h *KafkaEventsHandler) Topic() string { return h.topic }

// incoming message schema: {source, metric, t, v}
func (h *KafkaEventsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Source string  `json:"source"`
		Metric string  `json:"metric"`
		T      int64   `json:"t"`
		V      float64 `json:"v"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.T > 1e11 { // ms
		m.T = m.T / 1000
	}
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(time.Unix(m.T, 0)).Seconds())

	start := time.Now()
	err := h.sink.Store(ctx, &models.Event{
		Source:    m.Source,
		Metric:    m.Metric,
		Timestamp: m.T,
		Count:     m.V,
	})
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordLastValue(m.Metric, m.V)
	return nil
}
