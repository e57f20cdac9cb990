package usecase

import (
	"context"
	"strconv"
	"testing"
	"time"

	"TrendPulse/internal/domain/models"
)

type memSink struct {
	stored   []*models.Event
	storeErr error
}

func (s *memSink) Init(context.Context) error   { return nil }
func (s *memSink) Health(context.Context) error { return nil }
func (s *memSink) Close() error                 { return nil }

func (s *memSink) Store(_ context.Context, e *models.Event) error {
	if s.storeErr != nil {
		return s.storeErr
	}
	s.stored = append(s.stored, e)
	return nil
}

func (s *memSink) StoreBatch(_ context.Context, events []*models.Event) error {
	s.stored = append(s.stored, events...)
	return nil
}

func TestKafkaEventsHandlerStoresEvent(t *testing.T) {
	sink := &memSink{}
	h := NewKafkaEventsHandler("raw.events", sink, nopMetrics{})
	if h.Topic() != "raw.events" {
		t.Fatalf("topic = %q", h.Topic())
	}

	ts := time.Now().Unix()
	msg := []byte(`{"source":"helpdesk","metric":"ticket volume","t":` + strconv.FormatInt(ts, 10) + `,"v":42}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sink.stored) != 1 {
		t.Fatalf("stored = %d", len(sink.stored))
	}
	ev := sink.stored[0]
	if ev.Source != "helpdesk" || ev.Metric != "ticket volume" {
		t.Fatalf("event = %+v", ev)
	}
	if ev.Timestamp != ts || ev.Count != 42 {
		t.Fatalf("ts=%d count=%v", ev.Timestamp, ev.Count)
	}
}

func TestKafkaEventsHandlerNormalizesMilliseconds(t *testing.T) {
	sink := &memSink{}
	h := NewKafkaEventsHandler("raw.events", sink, nopMetrics{})

	sec := time.Now().Unix()
	msg := []byte(`{"source":"helpdesk","metric":"m","t":` + strconv.FormatInt(sec*1000, 10) + `,"v":1}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := sink.stored[0].Timestamp; got != sec {
		t.Fatalf("timestamp = %d, want seconds %d", got, sec)
	}
}

func TestKafkaEventsHandlerRejectsBadJSON(t *testing.T) {
	sink := &memSink{}
	h := NewKafkaEventsHandler("raw.events", sink, nopMetrics{})
	if err := h.Handle(context.Background(), []byte(`{broken`)); err == nil {
		t.Fatalf("expected unmarshal error")
	}
	if len(sink.stored) != 0 {
		t.Fatalf("malformed message must not reach the sink")
	}
}
