package logger

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Publisher receives flushed log batches. The Redis job queue satisfies
// this with its PublishMessage method.
type Publisher interface {
	PublishMessage(ctx context.Context, topic string, payload interface{}) error
}

type CollectionConfig struct {
	TimeInterval   time.Duration // flush period
	CountThreshold int           // flush early once this many unique lines accumulate
	Topic          string
	Publisher      Publisher
}

// AggregatedLogEntry is one deduplicated log line with its repeat count.
type AggregatedLogEntry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields"`
	Caller    string                 `json:"caller"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`
}

// LogCollector deduplicates log lines by (level, message, fields, caller)
// and publishes the aggregate periodically. A consumer failing once per
// message becomes one entry with a count instead of a flood.
type LogCollector struct {
	cfg     *CollectionConfig
	mu      sync.Mutex
	pending map[string]*AggregatedLogEntry
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewLogCollector(cfg *CollectionConfig) *LogCollector {
	ctx, cancel := context.WithCancel(context.Background())
	c := &LogCollector{
		cfg:     cfg,
		pending: make(map[string]*AggregatedLogEntry),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go c.loop(ctx)
	return c
}

func (c *LogCollector) AddLog(level, message string, fields map[string]interface{}, caller string) {
	now := time.Now()
	key := dedupeKey(level, message, fields, caller)

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.pending[key]; ok {
		entry.Count++
		entry.LastSeen = now
	} else {
		c.pending[key] = &AggregatedLogEntry{
			Level:     level,
			Message:   message,
			Fields:    fields,
			Caller:    caller,
			Count:     1,
			FirstSeen: now,
			LastSeen:  now,
		}
	}

	if len(c.pending) >= c.cfg.CountThreshold {
		c.flushLocked()
	}
}

// Close flushes whatever is pending and stops the loop.
func (c *LogCollector) Close() {
	c.cancel()
	<-c.done
}

func (c *LogCollector) loop(ctx context.Context) {
	defer close(c.done)
	ticker := time.NewTicker(c.cfg.TimeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.flushLocked()
			c.mu.Unlock()
		case <-ctx.Done():
			c.mu.Lock()
			c.flushLocked()
			c.mu.Unlock()
			return
		}
	}
}

// flushLocked hands the pending batch to the publisher. Caller holds mu.
// Publishing happens off the logging path so a slow broker never blocks
// a log call.
func (c *LogCollector) flushLocked() {
	if len(c.pending) == 0 {
		return
	}
	batch := make([]AggregatedLogEntry, 0, len(c.pending))
	for _, entry := range c.pending {
		batch = append(batch, *entry)
	}
	c.pending = make(map[string]*AggregatedLogEntry)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := c.cfg.Publisher.PublishMessage(ctx, c.cfg.Topic, batch); err != nil {
			fmt.Printf("log batch publish failed: %v\n", err)
		}
	}()
}

func dedupeKey(level, message string, fields map[string]interface{}, caller string) string {
	raw, _ := json.Marshal(struct {
		Level   string                 `json:"level"`
		Message string                 `json:"message"`
		Fields  map[string]interface{} `json:"fields"`
		Caller  string                 `json:"caller"`
	}{level, message, fields, caller})
	return fmt.Sprintf("%x", sha256.Sum256(raw))
}
