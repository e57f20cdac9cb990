package models

// Requests for engine HTTP endpoints. Defined in domain for consistency and reuse.

type AnalyzeRequest struct {
	Source        string `query:"source" json:"source" validate:"required"`
	WindowValue   int    `query:"window" json:"window" default:"90" validate:"gte=1,lte=3650"`
	WindowUnit    string `query:"unit" json:"unit" default:"day" validate:"oneof=day week month"`
	MinSampleSize int    `query:"min_samples" json:"min_samples" default:"50" validate:"gte=7,lte=5000"`
}

type TrendsRequest struct {
	Metric string `query:"metric" json:"metric"`
	Limit  int    `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=500"`
}
