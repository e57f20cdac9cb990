package analytics

import (
	"context"
	"fmt"
	"time"

	"TrendPulse/internal/domain/models"
	domsvc "TrendPulse/internal/domain/service"
	pkgcache "TrendPulse/pkg/cache"
	"TrendPulse/pkg/config"
)

// HTTPTrendDetector delegates detection to an external learned-model
// service. It plugs into the same TrendDetector seam as the statistical
// detectors, so the two strategies are interchangeable per deployment.
type HTTPTrendDetector struct {
	base *HTTPServiceBase
}

func NewHTTPTrendDetector(cfg *config.Config) *HTTPTrendDetector {
	return &HTTPTrendDetector{base: NewHTTPServiceBase(cfg)}
}

func (d *HTTPTrendDetector) Name() string { return "learned" }

type detectReq struct {
	Metric string    `json:"metric"`
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
}

type detectResp struct {
	Found      bool    `json:"found"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Strength   float64 `json:"strength"`
	Confidence float64 `json:"confidence"`
	GrowthRate float64 `json:"growth_rate"`
	StartDate  string  `json:"start_date"`
}

func (d *HTTPTrendDetector) Detect(ctx context.Context, series models.TimeSeries) (*models.DetectedTrend, error) {
	req := detectReq{
		Metric: series.Metric,
		Dates:  make([]string, 0, series.Len()),
		Values: series.Values(),
	}
	for _, p := range series.Points {
		req.Dates = append(req.Dates, p.Date.Format(time.RFC3339))
	}

	// key the cache on the exact series content
	cacheKey := pkgcache.Key("trend", series.Metric,
		pkgcache.HashKey(fmt.Sprintf("%v|%v", req.Dates, req.Values)))

	var dr detectResp
	if err := d.base.PostJSONCached(ctx, "/trend/detect", cacheKey, req, &dr); err != nil {
		return nil, fmt.Errorf("post trend: %w", err)
	}
	if !dr.Found {
		return nil, nil
	}

	start := series.Points[0].Date
	if t, err := time.Parse(time.RFC3339, dr.StartDate); err == nil {
		start = t
	}

	points := make([]models.EvidencePoint, series.Len())
	for i, p := range series.Points {
		points[i] = models.EvidencePoint{Date: p.Date, Value: p.Value}
	}

	return &models.DetectedTrend{
		Name:              dr.Name,
		Type:              models.CandidateType(dr.Type),
		Metric:            series.Metric,
		Strength:          dr.Strength,
		Confidence:        dr.Confidence,
		GrowthRatePercent: dr.GrowthRate,
		StartDate:         start,
		Evidence:          models.Evidence{Points: points},
	}, nil
}

var _ domsvc.TrendDetector = (*HTTPTrendDetector)(nil)
