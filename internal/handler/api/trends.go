package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"TrendPulse/internal/domain/models"
	icache "TrendPulse/internal/service/cache"
	"TrendPulse/internal/service/metrics"
	"TrendPulse/internal/service/ratelimit"
	"TrendPulse/internal/usecase"
	applogger "TrendPulse/pkg/logger"
	"TrendPulse/pkg/util"
)

// TrendsHandler serves the plain net/http endpoints used by internal
// tooling. The Echo handler below is the public surface.
type TrendsHandler struct {
	engine *usecase.AnalysisEngine
	lister TrendLister
	cache  icache.BytesCache
	rl     *ratelimit.Limiter
	l      *applogger.Logger
}

func NewTrendsHandler(engine *usecase.AnalysisEngine, lister TrendLister) *TrendsHandler {
	metrics.Register()
	return &TrendsHandler{engine: engine, lister: lister, rl: ratelimit.New()}
}

func (h *TrendsHandler) SetCache(c icache.BytesCache) { h.cache = c }

// SetLogger injects a structured logger.
func (h *TrendsHandler) SetLogger(l *applogger.Logger) { h.l = l }

func (h *TrendsHandler) Trends() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		endpoint := "trends"
		defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

		q := r.URL.Query()
		metric := q.Get("metric")
		limit := util.ParseIntDefault(q.Get("limit"), 50)
		since := util.ParseTimeDefault(q.Get("since"), time.Time{})

		if !h.rl.Allow(r.RemoteAddr+":trends", 5, 2) {
			if h.l != nil {
				h.l.Warn("trends rate_limited", applogger.String("remote", r.RemoteAddr))
			}
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}

		cacheKey := "trends:" + metric + ":" + strconv.Itoa(limit) + ":" + strconv.FormatInt(since.Unix(), 10)
		if h.cache != nil {
			if b, ok, err := h.cache.Get(cacheKey); err != nil {
				if h.l != nil {
					h.l.Warn("trends cache_get_error", applogger.Error(err))
				}
			} else if ok {
				w.Header().Set("Content-Type", "application/json")
				if _, err := w.Write(b); err != nil && h.l != nil {
					h.l.Warn("trends write_error", applogger.Error(err))
				}
				return
			}
		}

		res, err := h.lister.ListTrends(r.Context(), metric, limit)
		if err != nil {
			metrics.APIErrors.WithLabelValues(endpoint).Inc()
			if h.l != nil {
				h.l.Error("trends error", applogger.Error(err))
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		res = filterSince(res, since)

		w.Header().Set("Content-Type", "application/json")
		b, err := json.Marshal(res)
		if err != nil {
			http.Error(w, "encode error", http.StatusInternalServerError)
			return
		}
		if h.cache != nil {
			if err := h.cache.Set(cacheKey, b, 30*time.Second); err != nil && h.l != nil {
				h.l.Warn("trends cache_set_error", applogger.Error(err))
			}
		}
		if _, err := w.Write(b); err != nil && h.l != nil {
			h.l.Warn("trends write_error", applogger.Error(err))
		}
	}
}

func filterSince(trends []models.Trend, since time.Time) []models.Trend {
	if since.IsZero() {
		return trends
	}
	out := trends[:0]
	for _, t := range trends {
		if !t.DetectedAt.Before(since) {
			out = append(out, t)
		}
	}
	return out
}
