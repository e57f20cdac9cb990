package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"TrendPulse/internal/domain/models"
	drepo "TrendPulse/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Client implements an EventStream backed by a WebSocket event gateway.
type Client struct {
	apiKey         string
	websocketURL   string
	sources        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// New creates a new event feed stream.
func New(apiKey, websocketURL string, sources []string, reconnectDelay, pingInterval time.Duration) drepo.EventStream {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		sources:        sources,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("feed connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("feed: connected")
	return nil
}

// Subscribe subscribes to configured event sources.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("feed not connected")
	}
	for _, s := range c.sources {
		msg := map[string]string{"type": "subscribe", "source": s}
		if err := c.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", s, err)
		}
		log.Printf("feed: subscribed %s", s)
	}
	return nil
}

type feedEvent struct {
	S string  `json:"s"` // source
	M string  `json:"m"` // metric
	V float64 `json:"v"` // count
	T int64   `json:"t"` // ms
}

type feedMessage struct {
	Type string      `json:"type"`
	Data []feedEvent `json:"data"`
}

// Read streams events and errors.
func (c *Client) Read(ctx context.Context) (<-chan *models.Event, <-chan error) {
	events := make(chan *models.Event, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(events)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("feed conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("feed read: %w", err)
					return
				}
				var m feedMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-event frames
					continue
				}
				if m.Type != "events" {
					continue
				}
				for _, d := range m.Data {
					sec := d.T / 1000
					ev := &models.Event{Source: d.S, Metric: d.M, Timestamp: sec, Count: d.V}
					select {
					case events <- ev:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return events, errs
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
