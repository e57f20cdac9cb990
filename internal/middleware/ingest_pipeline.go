package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TrendPulse/internal/domain/models"
	domrepo "TrendPulse/internal/domain/repository"
	"TrendPulse/internal/service/ratelimit"
)

// Proc is the minimal processor interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, e *models.Event) error
}

// IngestPipeline sits between the live feed and the ingest backend.
// It validates, throttles per metric, and buffers when downstream is
// unavailable. State is owned by the instance with an explicit
// Start/Stop lifecycle.
type IngestPipeline struct {
	proc    Proc
	metrics domrepo.Metrics
	maxRPS  int
	bufSize int
	bufCh   chan *models.Event
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex
	limiter *ratelimit.Limiter
	// optional format transform hook
	transform func(*models.Event) *models.Event
}

type PipelineOption func(*IngestPipeline)

// WithMaxRPS sets the max events per second per metric.
func WithMaxRPS(n int) PipelineOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the temporary buffer size for downstream outages.
func WithBufferSize(n int) PipelineOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithTransform sets a transformation hook to modify event format.
func WithTransform(fn func(*models.Event) *models.Event) PipelineOption {
	return func(p *IngestPipeline) { p.transform = fn }
}

// NewIngestPipeline creates a new pipeline.
func NewIngestPipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *IngestPipeline {
	p := &IngestPipeline{
		proc:    proc,
		metrics: metrics,
		maxRPS:  20,
		bufSize: 1000,
		bufCh:   make(chan *models.Event, 1000),
		stopCh:  make(chan struct{}),
		limiter: ratelimit.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize != cap(p.bufCh) {
		p.bufCh = make(chan *models.Event, p.bufSize)
	}
	return p
}

// Start launches background flushing of buffered events.
func (p *IngestPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case e := <-p.bufCh:
				if e == nil {
					continue
				}
				if err := p.proc.Process(ctx, e); err != nil {
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- e:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *IngestPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates, throttles, and forwards an event downstream,
// buffering on errors.
func (p *IngestPipeline) Process(ctx context.Context, e *models.Event) error {
	start := time.Now()
	if err := validateEvent(e); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if p.transform != nil {
		e = p.transform(e)
		if err := validateEvent(e); err != nil {
			p.metrics.RecordError("pipeline_transform_invalid")
			return err
		}
	}
	if p.maxRPS > 0 && !p.limiter.Allow(e.Metric, float64(p.maxRPS), float64(p.maxRPS)) {
		// throttled; record and drop silently
		p.metrics.RecordError("pipeline_throttle")
		return nil
	}

	if err := p.proc.Process(ctx, e); err != nil {
		p.metrics.RecordError("pipeline_process")
		// buffer non-blocking
		select {
		case p.bufCh <- e:
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateEvent(e *models.Event) error {
	if e == nil {
		return fmt.Errorf("event nil")
	}
	if e.Metric == "" {
		return fmt.Errorf("metric empty")
	}
	if e.Timestamp <= 0 {
		return fmt.Errorf("timestamp invalid")
	}
	if e.Count < 0 {
		return fmt.Errorf("negative count")
	}
	return nil
}
