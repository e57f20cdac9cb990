package models

import "time"

// Observation is a single raw event count as delivered by an event source.
type Observation struct {
	Timestamp time.Time
	Value     float64
}

// Point is one bucketed value of an aggregated series.
type Point struct {
	Date  time.Time
	Value float64
}

// TimeSeries is an evenly bucketed, date-ordered series for one metric.
// Buckets with no observations are omitted, not interpolated; consumers
// must tolerate gaps but can rely on strictly increasing dates.
type TimeSeries struct {
	Metric string
	Points []Point
}

// Len returns the number of points in the series.
func (s TimeSeries) Len() int { return len(s.Points) }

// Values returns the raw values in order.
func (s TimeSeries) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// Event is a raw ingested event count before bucketing, as carried on the
// ingest path (Kafka topic, WebSocket feed) and stored in ClickHouse.
type Event struct {
	Source    string
	Metric    string
	Timestamp int64 // unix seconds
	Count     float64
}
