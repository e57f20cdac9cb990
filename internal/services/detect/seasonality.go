package detect

import (
	"context"
	"fmt"
	"math"

	"TrendPulse/internal/domain/models"
	domsvc "TrendPulse/internal/domain/service"
	"TrendPulse/internal/services/stats"
)

// SeasonalityDetector finds recurring cycles with a discrete Fourier
// transform over the raw values. It signals periodicity, not direction,
// so its growth rate is always zero.
type SeasonalityDetector struct {
	MinPower float64 // normalized spectral power gate
}

func NewSeasonalityDetector() *SeasonalityDetector {
	return &SeasonalityDetector{MinPower: 0.3}
}

func (d *SeasonalityDetector) Name() string { return "seasonality" }

func (d *SeasonalityDetector) Detect(_ context.Context, series models.TimeSeries) (*models.DetectedTrend, error) {
	n := series.Len()
	if n < 28 { // four weekly cycles minimum
		return nil, nil
	}

	mags := stats.SpectrumMagnitudes(series.Values())
	if len(mags) == 0 {
		return nil, nil
	}

	sum := 0.0
	maxIdx := 0
	for i, m := range mags {
		sum += m
		if m > mags[maxIdx] {
			maxIdx = i
		}
	}
	if sum == 0 {
		return nil, nil
	}
	power := 2 * mags[maxIdx] / sum
	if power > 1 {
		power = 1
	}
	if power < d.MinPower {
		return nil, nil
	}

	freq := maxIdx + 1 // bin 0 of mags is frequency 1 (DC excluded)
	period := int(math.Round(float64(n) / float64(freq)))
	label := periodLabel(period)

	points := make([]models.EvidencePoint, n)
	for i, p := range series.Points {
		points[i] = models.EvidencePoint{Date: p.Date, Value: p.Value}
	}

	return &models.DetectedTrend{
		Name:              fmt.Sprintf("%s cycle in %s", label, series.Metric),
		Type:              models.CandidateSeasonal,
		Metric:            series.Metric,
		Strength:          power,
		Confidence:        power,
		GrowthRatePercent: 0,
		StartDate:         series.Points[0].Date,
		Evidence: models.Evidence{
			Points:      points,
			DominantIdx: freq,
			Period:      period,
			PeriodLabel: label,
		},
		Keywords: ExtractKeywords(series.Metric),
	}, nil
}

func periodLabel(period int) string {
	switch {
	case period <= 1:
		return "Daily"
	case period <= 7:
		return "Weekly"
	case period <= 14:
		return "Bi-weekly"
	case period <= 30:
		return "Monthly"
	case period <= 90:
		return "Quarterly"
	default:
		return "Long-term"
	}
}

var _ domsvc.TrendDetector = (*SeasonalityDetector)(nil)
