package service

import (
	"context"

	"TrendPulse/internal/domain/models"
)

// TrendDetector is one detection strategy over a built series. A detector
// returns (nil, nil) when it finds no candidate; errors are isolated per
// detector by the caller and treated as "no candidate". The statistical
// detectors are pure and ignore ctx; a learned-model implementation may
// use it for remote calls.
type TrendDetector interface {
	Name() string
	Detect(ctx context.Context, series models.TimeSeries) (*models.DetectedTrend, error)
}

// Summarizer optionally produces free-text interpretation of a trend.
// The result is attached by the caller, never by the engine.
type Summarizer interface {
	Summarize(ctx context.Context, t models.Trend) (string, error)
}
