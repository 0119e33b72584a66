//go:build wireinject
// +build wireinject

package di

import (
	"LaborPulse/pkg/config"
	"LaborPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideCache,

		// Repositories
		ProvideStorage,
		ProvideSeriesStore,
		ProvidePublisher,
		ProvideFeed,
		ProvideAdvisoryPublisher,

		// Analytics
		ProvideExtender,
		ProvideEvaluator,

		// Use cases
		ProvideObservationProcessor,
		ProvideObservationCollector,
		ProvideKafkaObservationsHandler,
		ProvideAnalysisUseCase,
		ProvideForecastUseCase,

		// HTTP surface
		ProvideLiveHub,
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
