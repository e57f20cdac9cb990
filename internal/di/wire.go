//go:build wireinject
// +build wireinject

package di

import (
	"TrendPulse/pkg/config"
	"TrendPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Metrics
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories (with business logic)
		ProvideEventSink,
		ProvideEventPublisher,
		ProvideFeedStream,

		// Use cases
		ProvideEventProcessor,
		ProvideFeedCollector,
		ProvideKafkaEventsHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
