package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"TrendPulse/internal/domain/models"
	domrepo "TrendPulse/internal/domain/repository"
	"TrendPulse/internal/services/alert"
	"TrendPulse/internal/services/classify"
	"TrendPulse/internal/services/detect"
	"TrendPulse/internal/services/series"
	applogger "TrendPulse/pkg/logger"
)

const (
	defaultWorkers       = 4
	defaultSeriesTimeout = 5 * time.Second
	defaultMinSamples    = 50
)

// AnalysisEngine is the fetch → compute → persist pipeline. The compute
// step (detectors + classifier) is synchronous and side-effect-free; only
// the fetch and persist steps touch I/O.
type AnalysisEngine struct {
	source     domrepo.EventSource
	store      domrepo.TrendStore
	set        *detect.Set
	classifier *classify.Classifier
	evaluator  *alert.Evaluator
	metrics    domrepo.Metrics
	logger     *applogger.Logger

	workers       int
	seriesTimeout time.Duration
}

type EngineOption func(*AnalysisEngine)

// WithWorkers bounds the number of series analyzed concurrently.
func WithWorkers(n int) EngineOption {
	return func(e *AnalysisEngine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithSeriesTimeout sets the per-series detector budget.
func WithSeriesTimeout(d time.Duration) EngineOption {
	return func(e *AnalysisEngine) {
		if d > 0 {
			e.seriesTimeout = d
		}
	}
}

func NewAnalysisEngine(
	source domrepo.EventSource,
	store domrepo.TrendStore,
	set *detect.Set,
	classifier *classify.Classifier,
	evaluator *alert.Evaluator,
	metrics domrepo.Metrics,
	logger *applogger.Logger,
	opts ...EngineOption,
) *AnalysisEngine {
	e := &AnalysisEngine{
		source:        source,
		store:         store,
		set:           set,
		classifier:    classifier,
		evaluator:     evaluator,
		metrics:       metrics,
		logger:        logger,
		workers:       defaultWorkers,
		seriesTimeout: defaultSeriesTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunConfig configures one analysis run.
type RunConfig struct {
	Source        string
	WindowValue   int
	WindowUnit    domrepo.Bucket
	MinSampleSize int
}

// RunResult summarizes one analysis run. Errors holds per-metric failures
// that did not abort the run.
type RunResult struct {
	Source   string            `json:"source"`
	Metrics  int               `json:"metrics"`
	Skipped  int               `json:"skipped"`
	Trends   []models.Trend    `json:"trends"`
	Alerts   int               `json:"alerts"`
	Errors   map[string]string `json:"errors,omitempty"`
	Duration time.Duration     `json:"duration_ns"`
}

type seriesResult struct {
	metric     string
	skipped    bool
	candidates []models.DetectedTrend
	err        error
}

// Run analyzes every metric of the source over the configured window,
// persists qualifying trends, and evaluates alert subscriptions for each.
// A failure on one metric never aborts the others.
func (e *AnalysisEngine) Run(ctx context.Context, cfg RunConfig) (*RunResult, error) {
	start := time.Now()
	if cfg.Source == "" {
		return nil, fmt.Errorf("source required")
	}
	if cfg.WindowValue <= 0 {
		cfg.WindowValue = 90
	}
	if !domrepo.IsValidBucket(cfg.WindowUnit) {
		cfg.WindowUnit = domrepo.DefaultBucket()
	}
	if cfg.MinSampleSize <= 0 {
		cfg.MinSampleSize = defaultMinSamples
	}

	end := time.Now().UTC()
	from := end.Add(-cfg.WindowUnit.Span(cfg.WindowValue))

	names, err := e.source.ListMetrics(ctx, cfg.Source, from, end)
	if err != nil {
		return nil, fmt.Errorf("list metrics: %w", err)
	}

	results := e.analyzeAll(ctx, cfg, names, from, end)

	// merge deterministically before classification and persistence
	sort.Slice(results, func(i, j int) bool { return results[i].metric < results[j].metric })

	res := &RunResult{Source: cfg.Source, Metrics: len(names), Errors: map[string]string{}}
	for _, r := range results {
		if r.err != nil {
			res.Errors[r.metric] = r.err.Error()
			continue
		}
		if r.skipped {
			res.Skipped++
			continue
		}
		for _, t := range e.classifier.ClassifyAll(r.candidates) {
			t.DetectedAt = time.Now().UTC()
			id, err := e.store.SaveTrend(ctx, &t)
			if err != nil {
				e.logger.Error("save trend failed",
					applogger.String("metric", t.Metric),
					applogger.Error(err),
				)
				e.metrics.RecordError("trend_save")
				res.Errors[r.metric] = err.Error()
				continue
			}
			t.ID = id
			res.Trends = append(res.Trends, t)
			res.Alerts += len(e.evaluator.Evaluate(ctx, t))
		}
	}
	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	res.Duration = time.Since(start)
	e.metrics.RecordLatency("analysis_run", res.Duration.Seconds())
	return res, nil
}

// analyzeAll fans metric names out to a bounded worker pool.
func (e *AnalysisEngine) analyzeAll(ctx context.Context, cfg RunConfig, names []string, from, end time.Time) []seriesResult {
	jobs := make(chan string)
	out := make(chan seriesResult, len(names))

	var wg sync.WaitGroup
	workers := e.workers
	if workers > len(names) {
		workers = len(names)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				out <- e.analyzeOne(ctx, cfg, name, from, end)
			}
		}()
	}
	for _, name := range names {
		jobs <- name
	}
	close(jobs)
	wg.Wait()
	close(out)

	results := make([]seriesResult, 0, len(names))
	for r := range out {
		results = append(results, r)
	}
	return results
}

// analyzeOne fetches a metric's observations, builds the series, and runs
// the detector set under the per-series budget.
func (e *AnalysisEngine) analyzeOne(ctx context.Context, cfg RunConfig, metric string, from, end time.Time) seriesResult {
	obs, err := e.source.FetchEvents(ctx, cfg.Source, metric, from, end)
	if err != nil {
		e.logger.Error("fetch events failed",
			applogger.String("metric", metric),
			applogger.Error(err),
		)
		e.metrics.RecordError("fetch_events")
		return seriesResult{metric: metric, err: err}
	}

	ts := series.Build(metric, obs, cfg.WindowUnit, from, end)
	if ts.Len() < cfg.MinSampleSize {
		return seriesResult{metric: metric, skipped: true}
	}
	if n := ts.Len(); n > 0 {
		e.metrics.RecordLastValue(metric, ts.Points[n-1].Value)
	}

	dctx, cancel := context.WithTimeout(ctx, e.seriesTimeout)
	defer cancel()

	type detectOut struct {
		cands []models.DetectedTrend
		errs  map[string]error
	}
	done := make(chan detectOut, 1)
	go func() {
		cands, errs := e.set.Run(dctx, ts)
		done <- detectOut{cands: cands, errs: errs}
	}()

	select {
	case <-dctx.Done():
		// budget exceeded: abandon this series, keep the run going
		e.logger.Warn("series analysis timed out", applogger.String("metric", metric))
		e.metrics.RecordError("series_timeout")
		return seriesResult{metric: metric, err: dctx.Err()}
	case o := <-done:
		for name, derr := range o.errs {
			e.logger.Warn("detector failed",
				applogger.String("detector", name),
				applogger.String("metric", metric),
				applogger.Error(derr),
			)
			e.metrics.RecordError("detector_" + name)
		}
		for _, c := range o.cands {
			e.metrics.RecordTrendDetected(string(c.Type), metric)
		}
		return seriesResult{metric: metric, candidates: o.cands}
	}
}
