package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"TrendPulse/internal/domain/models"
)

type recProc struct {
	mu     sync.Mutex
	events []*models.Event
	err    error
}

func (p *recProc) Process(_ context.Context, e *models.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recProc) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func (p *recProc) setErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

type countMetrics struct{ errs map[string]int }

func newCountMetrics() *countMetrics { return &countMetrics{errs: map[string]int{}} }

func (m *countMetrics) RecordTrendDetected(string, string) {}
func (m *countMetrics) RecordAlertTriggered(string)        {}
func (m *countMetrics) RecordError(kind string)            { m.errs[kind]++ }
func (m *countMetrics) RecordLastValue(string, float64)    {}
func (m *countMetrics) RecordLatency(string, float64)      {}

func validEvent() *models.Event {
	return &models.Event{Source: "helpdesk", Metric: "ticket volume", Timestamp: time.Now().Unix(), Count: 3}
}

func TestPipelinePassesValidEvents(t *testing.T) {
	proc := &recProc{}
	p := NewIngestPipeline(proc, newCountMetrics())
	if err := p.Process(context.Background(), validEvent()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(proc.events) != 1 {
		t.Fatalf("forwarded = %d", len(proc.events))
	}
}

func TestPipelineRejectsInvalidEvents(t *testing.T) {
	proc := &recProc{}
	metrics := newCountMetrics()
	p := NewIngestPipeline(proc, metrics)

	cases := []*models.Event{
		nil,
		{Source: "s", Timestamp: 1, Count: 1},               // no metric
		{Source: "s", Metric: "m", Timestamp: 0, Count: 1},  // bad timestamp
		{Source: "s", Metric: "m", Timestamp: 1, Count: -1}, // negative count
	}
	for i, e := range cases {
		if err := p.Process(context.Background(), e); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
	if len(proc.events) != 0 {
		t.Fatalf("invalid events must not reach downstream")
	}
	if metrics.errs["pipeline_validate"] != len(cases) {
		t.Fatalf("validate errors = %v", metrics.errs)
	}
}

func TestPipelineAppliesTransform(t *testing.T) {
	proc := &recProc{}
	p := NewIngestPipeline(proc, newCountMetrics(), WithTransform(func(e *models.Event) *models.Event {
		e.Count *= 2
		return e
	}))
	if err := p.Process(context.Background(), validEvent()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if proc.events[0].Count != 6 {
		t.Fatalf("count = %v after transform", proc.events[0].Count)
	}
}

func TestPipelineBuffersOnDownstreamFailure(t *testing.T) {
	proc := &recProc{err: errors.New("sink down")}
	metrics := newCountMetrics()
	p := NewIngestPipeline(proc, metrics, WithBufferSize(4))

	if err := p.Process(context.Background(), validEvent()); err == nil {
		t.Fatalf("expected downstream error")
	}
	if metrics.errs["pipeline_process"] != 1 {
		t.Fatalf("errors = %v", metrics.errs)
	}

	// flush retries from the buffer once downstream recovers
	proc.setErr(nil)
	p.Start(context.Background())
	defer p.Stop()

	deadline := time.After(2 * time.Second)
	for proc.count() == 0 {
		select {
		case <-deadline:
			t.Fatalf("buffered event was never flushed")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestPipelineThrottlesPerMetric(t *testing.T) {
	proc := &recProc{}
	metrics := newCountMetrics()
	p := NewIngestPipeline(proc, metrics, WithMaxRPS(1))

	for i := 0; i < 5; i++ {
		if err := p.Process(context.Background(), validEvent()); err != nil {
			t.Fatalf("process %d: %v", i, err)
		}
	}
	if len(proc.events) >= 5 {
		t.Fatalf("expected throttling, all %d events passed", len(proc.events))
	}
	if metrics.errs["pipeline_throttle"] == 0 {
		t.Fatalf("throttle counter not recorded")
	}
}
