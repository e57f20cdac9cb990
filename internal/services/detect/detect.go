package detect

import (
	"context"
	"fmt"

	"TrendPulse/internal/domain/models"
	domsvc "TrendPulse/internal/domain/service"
)

// Set runs a fixed list of detectors against one series. Detector failures
// (errors or panics) are isolated so one faulty input cannot suppress the
// other detectors' findings.
type Set struct {
	detectors []domsvc.TrendDetector
}

func NewSet(detectors ...domsvc.TrendDetector) *Set {
	return &Set{detectors: detectors}
}

// DefaultDetectors returns the statistical detector family in a stable order.
func DefaultDetectors() []domsvc.TrendDetector {
	return []domsvc.TrendDetector{
		NewMovingAverageDetector(),
		NewChangePointDetector(),
		NewSeasonalityDetector(),
		NewAnomalyDetector(),
	}
}

// DefaultSet wraps DefaultDetectors in a Set.
func DefaultSet() *Set {
	return NewSet(DefaultDetectors()...)
}

// Detectors returns the configured detectors in order.
func (s *Set) Detectors() []domsvc.TrendDetector { return s.detectors }

// Run evaluates every detector and collects the non-nil candidates in
// detector order. Failed detectors are reported in errs keyed by name.
func (s *Set) Run(ctx context.Context, series models.TimeSeries) (candidates []models.DetectedTrend, errs map[string]error) {
	errs = make(map[string]error)
	for _, d := range s.detectors {
		cand, err := runOne(ctx, d, series)
		if err != nil {
			errs[d.Name()] = err
			continue
		}
		if cand != nil {
			candidates = append(candidates, *cand)
		}
	}
	return candidates, errs
}

func runOne(ctx context.Context, d domsvc.TrendDetector, series models.TimeSeries) (cand *models.DetectedTrend, err error) {
	defer func() {
		if r := recover(); r != nil {
			cand = nil
			err = fmt.Errorf("detector %s panicked: %v", d.Name(), r)
		}
	}()
	return d.Detect(ctx, series)
}
