package detect

import (
	"context"
	"fmt"
	"math"

	"TrendPulse/internal/domain/models"
	domsvc "TrendPulse/internal/domain/service"
	"TrendPulse/internal/services/stats"
)

// MovingAverageDetector surfaces sustained growth or decline by smoothing
// the series with SMA/EMA curves and correlating the SMA against time.
type MovingAverageDetector struct {
	MinGrowthRate float64 // percent, absolute
	MinStrength   float64
}

func NewMovingAverageDetector() *MovingAverageDetector {
	return &MovingAverageDetector{MinGrowthRate: 50, MinStrength: 0.5}
}

func (d *MovingAverageDetector) Name() string { return "moving_average" }

func (d *MovingAverageDetector) Detect(_ context.Context, series models.TimeSeries) (*models.DetectedTrend, error) {
	n := series.Len()
	if n < 7 {
		return nil, nil
	}

	window := n / 3
	if window > 7 {
		window = 7
	}
	values := series.Values()
	sma := stats.SMA(values, window)
	ema := stats.EMA(values, window)
	if len(sma) == 0 {
		return nil, nil
	}

	firstSMA := sma[0]
	lastSMA := sma[len(sma)-1]
	if firstSMA == 0 {
		// degenerate base, a ratio here would be meaningless
		return nil, nil
	}
	growthRate := (lastSMA - firstSMA) / firstSMA * 100

	idx := make([]float64, len(sma))
	for i := range idx {
		idx[i] = float64(i)
	}
	strength := math.Abs(stats.Pearson(idx, sma))

	if math.Abs(growthRate) < d.MinGrowthRate && strength < d.MinStrength {
		return nil, nil // noise
	}

	ctype := models.CandidateGrowth
	label := "growth"
	if growthRate <= 0 {
		ctype = models.CandidateDecline
		label = "decline"
	}

	// align SMA[i] with the point that closes its window
	points := make([]models.EvidencePoint, 0, len(sma))
	peak := 0
	for i, s := range sma {
		pi := i + window - 1
		p := series.Points[pi]
		points = append(points, models.EvidencePoint{Date: p.Date, Value: p.Value, SMA: s, EMA: ema[pi]})
		if p.Value > series.Points[peak].Value {
			peak = pi
		}
	}
	peakDate := series.Points[peak].Date

	return &models.DetectedTrend{
		Name:              fmt.Sprintf("Sustained %s in %s", label, series.Metric),
		Type:              ctype,
		Metric:            series.Metric,
		Strength:          strength,
		Confidence:        strength,
		GrowthRatePercent: growthRate,
		StartDate:         series.Points[0].Date,
		PeakDate:          &peakDate,
		Evidence:          models.Evidence{Points: points},
		Keywords:          ExtractKeywords(series.Metric),
	}, nil
}

var _ domsvc.TrendDetector = (*MovingAverageDetector)(nil)
