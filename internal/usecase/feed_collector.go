package usecase

import (
	"context"

	"TrendPulse/internal/domain/models"
	drepo "TrendPulse/internal/domain/repository"
	mid "TrendPulse/internal/middleware"
)

// FeedCollector collects raw events from a live stream and hands them to
// the processor, optionally through the buffered ingest pipeline.
type FeedCollector struct {
	stream  drepo.EventStream
	proc    *EventProcessor
	metrics drepo.Metrics
	pipe    *mid.IngestPipeline
}

func NewFeedCollector(stream drepo.EventStream, proc *EventProcessor, metrics drepo.Metrics, pipe *mid.IngestPipeline) *FeedCollector {
	return &FeedCollector{stream: stream, proc: proc, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the event stream is connected.
func (c *FeedCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *FeedCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	evCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, evCh, errCh)
	return nil
}

func (c *FeedCollector) consume(ctx context.Context, evCh <-chan *models.Event, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case e := <-evCh:
			if e == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, e)
			} else {
				_ = c.proc.Process(ctx, e)
			}
			c.metrics.RecordLastValue(e.Metric, e.Count)
		}
	}
}

func (c *FeedCollector) Stop() error { return c.stream.Close() }

// Processor returns the underlying EventProcessor for lifecycle management.
func (c *FeedCollector) Processor() *EventProcessor { return c.proc }

// Shutdown stops the pipeline and closes the stream.
func (c *FeedCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
