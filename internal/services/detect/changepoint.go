package detect

import (
	"context"
	"fmt"
	"math"

	"TrendPulse/internal/domain/models"
	domsvc "TrendPulse/internal/domain/service"
	"TrendPulse/internal/services/stats"
)

// ChangePointDetector locates an abrupt mean shift with a cumulative-sum
// statistic over the deviations from the series mean.
type ChangePointDetector struct {
	ThresholdRatio float64 // fraction of the mean the max CUSUM must exceed
	MinIndex       int     // change points inside the first MinIndex points are spurious
}

func NewChangePointDetector() *ChangePointDetector {
	return &ChangePointDetector{ThresholdRatio: 0.3, MinIndex: 10}
}

func (d *ChangePointDetector) Name() string { return "change_point" }

func (d *ChangePointDetector) Detect(_ context.Context, series models.TimeSeries) (*models.DetectedTrend, error) {
	n := series.Len()
	if n < 20 {
		return nil, nil
	}

	values := series.Values()
	mean := stats.Mean(values)
	changeIdx, maxCusum := stats.CUSUM(values)

	threshold := d.ThresholdRatio * mean
	if math.Abs(maxCusum) <= threshold || changeIdx < d.MinIndex {
		return nil, nil
	}

	atChange := values[changeIdx]
	if atChange == 0 {
		return nil, nil
	}
	last := values[n-1]
	growthRate := (last - atChange) / atChange * 100

	// scale to [0,1]: ratio 1 is the bare gate, saturate well past it
	strength := math.Abs(maxCusum) / threshold / 5
	if strength > 1 {
		strength = 1
	}

	// keep only the tail as evidence
	tail := series.Points[n-20:]
	points := make([]models.EvidencePoint, len(tail))
	for i, p := range tail {
		points[i] = models.EvidencePoint{Date: p.Date, Value: p.Value}
	}
	changeDate := series.Points[changeIdx].Date

	return &models.DetectedTrend{
		Name:              fmt.Sprintf("Abrupt shift in %s", series.Metric),
		Type:              models.CandidateChangePoint,
		Metric:            series.Metric,
		Strength:          strength,
		Confidence:        strength,
		GrowthRatePercent: growthRate,
		StartDate:         changeDate,
		Evidence: models.Evidence{
			Points:      points,
			ChangeIndex: changeIdx,
			ChangeDate:  changeDate,
		},
		Keywords: ExtractKeywords(series.Metric),
	}, nil
}

var _ domsvc.TrendDetector = (*ChangePointDetector)(nil)
