package usecase

import (
	"context"
	"fmt"

	domrepo "TrendPulse/internal/domain/repository"
	applogger "TrendPulse/pkg/logger"
	"TrendPulse/pkg/queue"
)

const AnalyzeJobType = "analyze_source"

// AnalyzePayload is the queue message for one scheduled analysis run.
type AnalyzePayload struct {
	Source        string `json:"source"`
	WindowValue   int    `json:"window"`
	WindowUnit    string `json:"unit"`
	MinSampleSize int    `json:"min_samples"`
}

// AnalyzeJob runs the analysis engine for queued sources. Scheduled runs
// go through the Redis queue so retries and dead-lettering come for free.
type AnalyzeJob struct {
	engine *AnalysisEngine
	l      *applogger.Logger
}

func NewAnalyzeJob(engine *AnalysisEngine, l *applogger.Logger) *AnalyzeJob {
	return &AnalyzeJob{engine: engine, l: l}
}

func (j *AnalyzeJob) Name() string { return "analyze-job" }
func (j *AnalyzeJob) Type() string { return AnalyzeJobType }

func (j *AnalyzeJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[AnalyzePayload](payload)
	if err != nil {
		return fmt.Errorf("analyze payload: %w", err)
	}

	res, err := j.engine.Run(ctx, RunConfig{
		Source:        p.Source,
		WindowValue:   p.WindowValue,
		WindowUnit:    domrepo.NormalizeBucket(p.WindowUnit),
		MinSampleSize: p.MinSampleSize,
	})
	if err != nil {
		return fmt.Errorf("analyze %s: %w", p.Source, err)
	}

	j.l.Info("scheduled analysis done",
		applogger.String("source", res.Source),
		applogger.Int("metrics", res.Metrics),
		applogger.Int("skipped", res.Skipped),
		applogger.Int("trends", len(res.Trends)),
		applogger.Int("alerts", res.Alerts),
	)
	return nil
}

var _ queue.Job = (*AnalyzeJob)(nil)
