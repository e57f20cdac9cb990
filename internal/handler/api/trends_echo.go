package api

import (
	"context"
	"time"

	models "TrendPulse/internal/domain/models"
	domrepo "TrendPulse/internal/domain/repository"
	"TrendPulse/internal/service/metrics"
	"TrendPulse/internal/usecase"
	xhttp "TrendPulse/pkg/http"
	xlogger "TrendPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// TrendLister is the read side of the trend store the handlers need.
type TrendLister interface {
	ListTrends(ctx context.Context, metric string, limit int) ([]models.Trend, error)
	ListActiveAlertSubscriptions(ctx context.Context) ([]models.AlertSubscription, error)
}

// TrendsEchoHandler implements the Echo-based HTTP surface.
type TrendsEchoHandler struct {
	logger *xlogger.Logger
	engine *usecase.AnalysisEngine
	lister TrendLister
	legacy *TrendsHandler
}

func NewTrendsEchoHandler(logger *xlogger.Logger, engine *usecase.AnalysisEngine, lister TrendLister) *TrendsEchoHandler {
	metrics.Register()
	return &TrendsEchoHandler{logger: logger, engine: engine, lister: lister}
}

// SetLegacy mounts the plain net/http handler under /internal for tooling
// that wants the cached, rate-limited variant.
func (h *TrendsEchoHandler) SetLegacy(legacy *TrendsHandler) { h.legacy = legacy }

func (h *TrendsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/analyze", h.Analyze)
	g.GET("/trends", h.Trends)
	g.GET("/subscriptions", h.Subscriptions)
	if h.legacy != nil {
		// cached, rate-limited variant
		g.GET("/trends/recent", echo.WrapHandler(h.legacy.Trends()))
		e.GET("/internal/trends", echo.WrapHandler(h.legacy.Trends()))
	}
}

// Analyze runs a full analysis pass over the requested source.
func (h *TrendsEchoHandler) Analyze(c echo.Context) error {
	start := time.Now()
	defer func() { metrics.APILatency.WithLabelValues("analyze").Observe(time.Since(start).Seconds()) }()

	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.engine.Run(c.Request().Context(), usecase.RunConfig{
		Source:        req.Source,
		WindowValue:   req.WindowValue,
		WindowUnit:    domrepo.NormalizeBucket(req.WindowUnit),
		MinSampleSize: req.MinSampleSize,
	})
	if err != nil {
		metrics.APIErrors.WithLabelValues("analyze").Inc()
		h.logger.Error("analyze usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Trends lists the most recently detected trends.
func (h *TrendsEchoHandler) Trends(c echo.Context) error {
	req := &models.TrendsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rows, err := h.lister.ListTrends(c.Request().Context(), req.Metric, req.Limit)
	if err != nil {
		metrics.APIErrors.WithLabelValues("trends").Inc()
		h.logger.Error("trends usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// Subscriptions lists the active alert subscriptions.
func (h *TrendsEchoHandler) Subscriptions(c echo.Context) error {
	rows, err := h.lister.ListActiveAlertSubscriptions(c.Request().Context())
	if err != nil {
		metrics.APIErrors.WithLabelValues("subscriptions").Inc()
		h.logger.Error("subscriptions usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}
