package server

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	domrepo "TrendPulse/internal/domain/repository"
	"TrendPulse/internal/handler/api"
	"TrendPulse/internal/repository"
	icache "TrendPulse/internal/service/cache"
	"TrendPulse/internal/services/alert"
	"TrendPulse/internal/services/analytics"
	"TrendPulse/internal/services/classify"
	"TrendPulse/internal/services/detect"
	"TrendPulse/internal/usecase"
	pkgcache "TrendPulse/pkg/cache"
	pkgch "TrendPulse/pkg/clickhouse"
	"TrendPulse/pkg/config"
	xhttp "TrendPulse/pkg/http"
	pkgkafka "TrendPulse/pkg/kafka"
	applogger "TrendPulse/pkg/logger"
	pkgmetrics "TrendPulse/pkg/metrics"
	pkgqueue "TrendPulse/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	collector   *usecase.FeedCollector
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	chClient    *pkgch.Client
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	EventProc   *usecase.EventProcessor
	jobQueue    *pkgqueue.RedisQueue
	redisCache  *pkgcache.RedisCache
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	collector *usecase.FeedCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:       cfg,
		collector: collector,
		consumer:  consumer,
		kh:        kh,
		chClient:  chClient,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// init app logger (console info by default)
	l, _ := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})

	// Setup Echo HTTP server using pkg/http and register routes via handler
	var httpHandler xhttp.Handler
	if a.httpHandler != nil {
		httpHandler = a.httpHandler
	} else if a.chClient != nil {
		source := repository.NewCHEventSource(a.chClient, "raw_events")
		source.SetLogger(l)
		store := repository.NewCHTrendStore(a.chClient)
		store.SetLogger(l)

		set := detect.DefaultSet()
		if a.cfg.Analytics.ModelServiceURL != "" {
			set = detect.NewSet(append(detect.DefaultDetectors(), analytics.NewHTTPTrendDetector(a.cfg))...)
		}
		classifier := classify.NewClassifier()
		if a.cfg.Engine.MinGrowthRate > 0 {
			classifier.MinGrowthRate = a.cfg.Engine.MinGrowthRate
		}
		if a.cfg.Engine.MinAnomalyStrength > 0 {
			classifier.MinAnomalyStrength = a.cfg.Engine.MinAnomalyStrength
		}

		rec := pkgmetrics.New()

		// Alerts go through the Redis queue when one is configured, so
		// delivery gets retries and a dead-letter lane. The queue job
		// hands off to the direct notifier.
		var notifier domrepo.Notifier = repository.NewLogNotifier(l)
		var jq *pkgqueue.RedisQueue
		if a.cfg.Analytics.Redis.Enabled {
			if jq = a.initJobQueue(l, notifier); jq != nil {
				notifier = usecase.NewQueueNotifier(jq)
			}
		}
		evaluator := alert.NewEvaluator(store, notifier, rec, l)

		var opts []usecase.EngineOption
		if a.cfg.Engine.Workers > 0 {
			opts = append(opts, usecase.WithWorkers(a.cfg.Engine.Workers))
		}
		if a.cfg.Engine.SeriesTimeout > 0 {
			opts = append(opts, usecase.WithSeriesTimeout(a.cfg.Engine.SeriesTimeout))
		}
		engine := usecase.NewAnalysisEngine(source, store, set, classifier, evaluator, rec, l, opts...)

		legacy := api.NewTrendsHandler(engine, store)
		legacy.SetLogger(l)
		if a.cfg.Analytics.Redis.Enabled {
			legacy.SetCache(icache.NewRedisCache(icache.RedisConfig{
				Addr:     a.cfg.Analytics.Redis.Addr,
				Password: a.cfg.Analytics.Redis.Password,
				DB:       a.cfg.Analytics.Redis.DB,
			}))
		} else {
			legacy.SetCache(icache.NewTTLCache())
		}

		eh := api.NewTrendsEchoHandler(l, engine, store)
		eh.SetLegacy(legacy)
		httpHandler = eh

		// Scheduled analysis runs go through the same queue
		if jq != nil {
			a.startScheduler(ctx, l, jq, engine)
		}
	}

	a.httpServer = xhttp.NewServer(httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start collector
	go func() {
		if err := a.collector.Start(ctx); err != nil {
			l.Error("collector error", applogger.Error(err))
		}
	}()
	l.Info("collector started", applogger.Strings("sources", a.cfg.Feed.Sources))

	// Start consumer if configured
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// initJobQueue connects Redis and builds the job queue with the alert
// delivery job registered. The queue is started later, once the analysis
// job is registered too.
func (a *App) initJobQueue(l *applogger.Logger, notifier domrepo.Notifier) *pkgqueue.RedisQueue {
	host, port := splitAddr(a.cfg.Analytics.Redis.Addr)
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(a.cfg.Analytics.Redis.Password),
		pkgcache.WithRedisDB(a.cfg.Analytics.Redis.DB),
	)
	if err != nil {
		l.Warn("redis unavailable, queued delivery and scheduling disabled", applogger.Error(err))
		return nil
	}
	a.redisCache = rc

	q := pkgqueue.NewRedisQueue(l, &pkgqueue.QueueConfig{
		Workers:    2,
		RetryLimit: 3,
		RetryDelay: 30 * time.Second,
	}, rc.Client(), pkgqueue.ModeProducerConsumer)
	q.RegisterJob(usecase.NewNotifyJob(notifier, l))
	return q
}

// startScheduler starts the job queue and enqueues one analysis run per
// configured source every engine interval. Aggregated warn/error logs are
// published through the queue as well.
func (a *App) startScheduler(ctx context.Context, l *applogger.Logger, q *pkgqueue.RedisQueue, engine *usecase.AnalysisEngine) {
	q.RegisterJob(usecase.NewAnalyzeJob(engine, l))
	if err := q.Start(); err != nil {
		l.Warn("job queue start failed", applogger.Error(err))
		return
	}
	a.jobQueue = q

	l.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   30 * time.Second,
		CountThreshold: 100,
		Topic:          "log_batches",
		Publisher:      q,
	})

	interval := a.cfg.Engine.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, src := range a.cfg.Feed.Sources {
					err := q.Enqueue(ctx, usecase.AnalyzeJobType, usecase.AnalyzePayload{
						Source:        src,
						WindowValue:   a.cfg.Engine.WindowValue,
						WindowUnit:    a.cfg.Engine.WindowUnit,
						MinSampleSize: a.cfg.Engine.MinSampleSize,
					})
					if err != nil {
						l.Warn("enqueue analysis failed",
							applogger.String("source", src),
							applogger.Error(err),
						)
					}
				}
			}
		}
	}()
	l.Info("analysis scheduler started",
		applogger.String("interval", interval.String()),
		applogger.Strings("sources", a.cfg.Feed.Sources),
	)
}

func splitAddr(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 6379
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, 6379
	}
	return host, port
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		log.Printf("failed to create logger: %v", err)
		return err
	}
	l.Info("shutting down...")

	// Stop collector (pipeline + stream)
	if err := a.collector.Shutdown(ctx); err != nil {
		l.Warn("collector stop error", applogger.Error(err))
	}

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Stop job queue and Redis
	if a.jobQueue != nil {
		if err := a.jobQueue.Stop(shutdownCtx); err != nil {
			l.Warn("job queue stop error", applogger.Error(err))
		}
	}
	if a.redisCache != nil {
		if err := a.redisCache.Close(); err != nil {
			l.Warn("redis close error", applogger.Error(err))
		}
	}

	// Close event processor resources (publisher/sink)
	if a.EventProc != nil {
		a.EventProc.Close()
	}

	l.Info("shutdown complete")
	return nil
}
