package classify

import (
	"math"

	"TrendPulse/internal/domain/models"
)

// canonicalType is the fixed mapping from detector output to the persisted
// trend type. change_point and anomaly both map to "stable" for
// compatibility with existing consumers, even though a change point is
// arguably anything but stable.
var canonicalType = map[models.CandidateType]models.TrendType{
	models.CandidateGrowth:      models.TrendIncreasing,
	models.CandidateDecline:     models.TrendDecreasing,
	models.CandidateChangePoint: models.TrendStable,
	models.CandidateSeasonal:    models.TrendSeasonal,
	models.CandidateAnomaly:     models.TrendStable,
}

// Classifier gates detector candidates on global significance and maps the
// survivors onto the canonical Trend shape. It is a pure function of its
// inputs: identical candidates always yield identical trends.
type Classifier struct {
	MinGrowthRate      float64 // absolute percent a candidate must reach
	MinAnomalyStrength float64 // alternative gate for anomaly candidates
}

func NewClassifier() *Classifier {
	return &Classifier{MinGrowthRate: 300, MinAnomalyStrength: 0.7}
}

// Classify canonicalizes a single candidate, or returns nil when the
// candidate is not noteworthy enough to persist.
func (c *Classifier) Classify(cand models.DetectedTrend) *models.Trend {
	if !c.significant(cand) {
		return nil
	}

	trendType, ok := canonicalType[cand.Type]
	if !ok {
		return nil
	}

	var current, previous float64
	if n := len(cand.Evidence.Points); n > 0 {
		previous = cand.Evidence.Points[0].Value
		current = cand.Evidence.Points[n-1].Value
	}
	changePercent := 0.0
	if previous != 0 {
		changePercent = (current - previous) / previous * 100
	}

	return &models.Trend{
		TrendName:     cand.Name,
		TrendType:     trendType,
		Metric:        cand.Metric,
		CurrentValue:  current,
		PreviousValue: previous,
		ChangePercent: changePercent,
		TimePeriod:    inferTimePeriod(len(cand.Evidence.Points)),
		Significance:  cand.Confidence,
		StartDate:     cand.StartDate,
		Keywords:      cand.Keywords,
	}
}

// ClassifyAll canonicalizes candidates in order, dropping the gated ones.
func (c *Classifier) ClassifyAll(cands []models.DetectedTrend) []models.Trend {
	out := make([]models.Trend, 0, len(cands))
	for _, cand := range cands {
		if t := c.Classify(cand); t != nil {
			out = append(out, *t)
		}
	}
	return out
}

func (c *Classifier) significant(cand models.DetectedTrend) bool {
	if math.Abs(cand.GrowthRatePercent) >= c.MinGrowthRate {
		return true
	}
	return cand.Type == models.CandidateAnomaly && cand.Strength > c.MinAnomalyStrength
}

func inferTimePeriod(samples int) models.TimePeriod {
	switch {
	case samples <= 7:
		return models.PeriodDay
	case samples <= 30:
		return models.PeriodWeek
	case samples <= 90:
		return models.PeriodMonth
	case samples <= 180:
		return models.PeriodQuarter
	default:
		return models.PeriodYear
	}
}
