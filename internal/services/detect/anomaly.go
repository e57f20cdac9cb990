package detect

import (
	"context"
	"fmt"
	"math"

	"TrendPulse/internal/domain/models"
	domsvc "TrendPulse/internal/domain/service"
	"TrendPulse/internal/services/stats"
)

// AnomalyDetector flags recent extreme points with a z-score test.
// Older anomalies are historical noise and are filtered out.
type AnomalyDetector struct {
	ZThreshold      float64
	RecencyFraction float64 // only the trailing fraction of the series is eligible
}

func NewAnomalyDetector() *AnomalyDetector {
	return &AnomalyDetector{ZThreshold: 2.5, RecencyFraction: 0.25}
}

func (d *AnomalyDetector) Name() string { return "anomaly" }

func (d *AnomalyDetector) Detect(_ context.Context, series models.TimeSeries) (*models.DetectedTrend, error) {
	n := series.Len()
	if n < 10 {
		return nil, nil
	}

	values := series.Values()
	mean := stats.Mean(values)
	stddev := stats.StdDev(values)
	if stddev == 0 || mean == 0 {
		return nil, nil
	}

	points := make([]models.EvidencePoint, n)
	cutoff := n - int(float64(n)*d.RecencyFraction)
	var eligible []models.AnomalyPoint
	for i, p := range series.Points {
		z := (p.Value - mean) / stddev
		anomalous := math.Abs(z) > d.ZThreshold
		points[i] = models.EvidencePoint{Date: p.Date, Value: p.Value, ZScore: z, Anomalous: anomalous}
		if anomalous && i >= cutoff {
			eligible = append(eligible, models.AnomalyPoint{Index: i, Date: p.Date, Value: p.Value, ZScore: z})
		}
	}
	if len(eligible) == 0 {
		return nil, nil
	}

	rep := eligible[0]
	for _, a := range eligible[1:] {
		if math.Abs(a.ZScore) > math.Abs(rep.ZScore) {
			rep = a
		}
	}

	growthRate := (rep.Value - mean) / mean * 100
	strength := math.Abs(rep.ZScore) / 4
	if strength > 1 {
		strength = 1
	}

	direction := "spike"
	if rep.ZScore < 0 {
		direction = "drop"
	}
	peakDate := rep.Date

	return &models.DetectedTrend{
		Name:              fmt.Sprintf("Anomalous %s in %s", direction, series.Metric),
		Type:              models.CandidateAnomaly,
		Metric:            series.Metric,
		Strength:          strength,
		Confidence:        strength,
		GrowthRatePercent: growthRate,
		StartDate:         series.Points[0].Date,
		PeakDate:          &peakDate,
		Evidence: models.Evidence{
			Points:    points,
			Anomalies: eligible,
			Mean:      mean,
			StdDev:    stddev,
		},
		Keywords: ExtractKeywords(series.Metric),
	}, nil
}

var _ domsvc.TrendDetector = (*AnomalyDetector)(nil)
