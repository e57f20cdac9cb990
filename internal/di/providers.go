package di

import (
	"context"
	"fmt"
	"time"

	"TrendPulse/internal/domain/repository"
	mid "TrendPulse/internal/middleware"
	internalrepo "TrendPulse/internal/repository"
	"TrendPulse/internal/service/feed"
	"TrendPulse/internal/usecase"
	pkgch "TrendPulse/pkg/clickhouse"
	"TrendPulse/pkg/config"
	pkgkafka "TrendPulse/pkg/kafka"
	"TrendPulse/pkg/metrics"
	"TrendPulse/pkg/server"
)

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.SchemaStatements(cfg.ClickHouse.Database)); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideEventSink creates the ClickHouse ingest sink.
func ProvideEventSink(chClient *pkgch.Client, cfg *config.Config) repository.EventSink {
	return internalrepo.NewCHEventSink(chClient, cfg.ClickHouse.Database, nil)
}

// ProvideEventPublisher creates the Kafka publisher for raw events.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) usecase.EventPublisher {
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaEventsHandler registers the handler for the events topic.
func ProvideKafkaEventsHandler(sink repository.EventSink, metrics repository.Metrics, cfg *config.Config) *usecase.KafkaEventsHandler {
	return usecase.NewKafkaEventsHandler(cfg.Kafka.Topic, sink, metrics)
}

// ProvideFeedStream creates the WebSocket event stream.
func ProvideFeedStream(cfg *config.Config) repository.EventStream {
	return feed.New(
		cfg.Feed.APIKey,
		cfg.Feed.WebSocketURL,
		cfg.Feed.Sources,
		cfg.Feed.ReconnectDelay,
		cfg.Feed.PingInterval,
	)
}

// ProvideEventProcessor creates the event processor use case.
func ProvideEventProcessor(
	pub usecase.EventPublisher,
	sink repository.EventSink,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.EventProcessor {
	return usecase.NewEventProcessor(
		pub,
		sink,
		metrics,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvideFeedCollector creates the feed collector use case.
func ProvideFeedCollector(
	stream repository.EventStream,
	processor *usecase.EventProcessor,
	metrics repository.Metrics,
) *usecase.FeedCollector {
	// Build middleware pipeline between WebSocket and the ingest backend
	pipe := mid.NewIngestPipeline(processor, metrics,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewFeedCollector(stream, processor, metrics, pipe)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	collector *usecase.FeedCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaEventsHandler,
	chClient *pkgch.Client,
) *server.App {
	// Attach hook to consumer: example NoopHook for now; can be replaced via config
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, collector, consumer, kh, chClient)
	// attach event processor to app for closing resources via collector
	if collector != nil {
		app.EventProc = collector.Processor()
	}
	return app
}
