package models

import "time"

// CandidateType is the raw detector classification of a candidate trend.
type CandidateType string

const (
	CandidateGrowth      CandidateType = "growth"
	CandidateDecline     CandidateType = "decline"
	CandidateChangePoint CandidateType = "change_point"
	CandidateSeasonal    CandidateType = "seasonal"
	CandidateAnomaly     CandidateType = "anomaly"
)

// EvidencePoint is one series point annotated with detector output.
// SMA/EMA are filled by the moving-average detector, ZScore/Anomalous
// by the anomaly detector; unused fields stay zero.
type EvidencePoint struct {
	Date      time.Time `json:"date"`
	Value     float64   `json:"value"`
	SMA       float64   `json:"sma,omitempty"`
	EMA       float64   `json:"ema,omitempty"`
	ZScore    float64   `json:"z_score,omitempty"`
	Anomalous bool      `json:"anomalous,omitempty"`
}

// AnomalyPoint is a single flagged outlier.
type AnomalyPoint struct {
	Index  int       `json:"index"`
	Date   time.Time `json:"date"`
	Value  float64   `json:"value"`
	ZScore float64   `json:"z_score"`
}

// Evidence is the detector-specific payload attached to a candidate.
type Evidence struct {
	Points      []EvidencePoint `json:"points"`
	ChangeIndex int             `json:"change_index,omitempty"`
	ChangeDate  time.Time       `json:"change_date,omitempty"`
	DominantIdx int             `json:"dominant_idx,omitempty"`
	Period      int             `json:"period,omitempty"`
	PeriodLabel string          `json:"period_label,omitempty"`
	Anomalies   []AnomalyPoint  `json:"anomalies,omitempty"`
	Mean        float64         `json:"mean,omitempty"`
	StdDev      float64         `json:"stddev,omitempty"`
}

// DetectedTrend is the ephemeral output of a single detector run.
type DetectedTrend struct {
	Name              string
	Type              CandidateType
	Metric            string
	Strength          float64 // [0,1]
	Confidence        float64 // [0,1]
	GrowthRatePercent float64 // signed, unbounded
	StartDate         time.Time
	PeakDate          *time.Time
	Evidence          Evidence
	Keywords          []string
}

// TrendType is the canonical persisted classification.
type TrendType string

const (
	TrendIncreasing TrendType = "increasing"
	TrendDecreasing TrendType = "decreasing"
	TrendStable     TrendType = "stable"
	TrendSeasonal   TrendType = "seasonal"
	TrendCyclical   TrendType = "cyclical"
)

// TimePeriod is the bucket granularity inferred from evidence size.
type TimePeriod string

const (
	PeriodDay     TimePeriod = "day"
	PeriodWeek    TimePeriod = "week"
	PeriodMonth   TimePeriod = "month"
	PeriodQuarter TimePeriod = "quarter"
	PeriodYear    TimePeriod = "year"
)

// Trend is the canonical persisted record produced by the classifier.
// Created once per qualifying candidate and never mutated by the engine.
type Trend struct {
	ID            string     `json:"id,omitempty"`
	TrendName     string     `json:"trend_name"`
	TrendType     TrendType  `json:"trend_type"`
	Metric        string     `json:"metric"`
	CurrentValue  float64    `json:"current_value"`
	PreviousValue float64    `json:"previous_value"`
	ChangePercent float64    `json:"change_percent"`
	TimePeriod    TimePeriod `json:"time_period"`
	Significance  float64    `json:"significance"` // [0,1]
	StartDate     time.Time  `json:"start_date"`
	Keywords      []string   `json:"keywords,omitempty"`
	DetectedAt    time.Time  `json:"detected_at"`
}
