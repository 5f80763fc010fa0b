//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/URF365LLC/forex-decision-engine--sub001/pkg/config"
	"github.com/URF365LLC/forex-decision-engine--sub001/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideClock,

		// Infrastructure clients
		ProvideRedisClient,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideCooldownStore,
		ProvideDetectionStore,
		ProvideDetectionPublisher,
		ProvideIndicatorProvider,
		ProvideInstrumentProvider,
		ProvidePriceStream,

		// Services
		ProvideTickCollector,
		ProvideStrategyRegistry,
		ProvideVolatilityGate,
		ProvideSizer,
		ProvideDecisionCache,
		ProvideRateLimiter,

		// Use cases
		ProvideCooldownTracker,
		ProvideDetectionLifecycle,
		ProvideScanLocker,
		ProvideScanEngine,
		ProvideSweeper,

		// HTTP and application server
		ProvideAPI,
		ProvideApp,
	)
	return &server.App{}, nil
}
