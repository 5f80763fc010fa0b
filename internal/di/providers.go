package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/URF365LLC/forex-decision-engine--sub001/internal/domain/repository"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/handler/api"
	internalrepo "github.com/URF365LLC/forex-decision-engine--sub001/internal/repository"
	icache "github.com/URF365LLC/forex-decision-engine--sub001/internal/service/cache"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/service/instruments"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/service/marketdata"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/service/ratelimit"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/services/gates"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/services/sizing"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/services/strategy"
	"github.com/URF365LLC/forex-decision-engine--sub001/internal/usecase"
	pkgcache "github.com/URF365LLC/forex-decision-engine--sub001/pkg/cache"
	pkgch "github.com/URF365LLC/forex-decision-engine--sub001/pkg/clickhouse"
	"github.com/URF365LLC/forex-decision-engine--sub001/pkg/config"
	pkgkafka "github.com/URF365LLC/forex-decision-engine--sub001/pkg/kafka"
	"github.com/URF365LLC/forex-decision-engine--sub001/pkg/logger"
	"github.com/URF365LLC/forex-decision-engine--sub001/pkg/metrics"
	"github.com/URF365LLC/forex-decision-engine--sub001/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates the Prometheus recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClock supplies real time.
func ProvideClock() repository.Clock {
	return time.Now
}

// ProvideRedisClient creates the Redis client, or nil when disabled.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// ProvideClickHouseClient creates the ClickHouse client and ensures the
// detections schema, or returns nil when disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	stmts := append([]string{"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database},
		internalrepo.DetectionSchema(cfg.ClickHouse.Database+".detections")...)
	if err := client.InitSchema(ctx, stmts); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideKafkaProducer creates the Kafka producer, or nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
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

// ProvideCooldownStore builds the durable cooldown backend. A nil return
// leaves the tracker in memory-only mode.
func ProvideCooldownStore(cli *redis.Client, cfg *config.Config) repository.CooldownStore {
	if cli == nil {
		return nil
	}
	prefix := cfg.Redis.Prefix
	if prefix == "" {
		prefix = "fdx"
	}
	return internalrepo.NewRedisCooldownStore(cli, prefix+":cooldown:")
}

// ProvideDetectionStore picks the durable backend when available, the
// bounded memory fallback otherwise.
func ProvideDetectionStore(chClient *pkgch.Client, cfg *config.Config, clock repository.Clock) repository.DetectionStore {
	if chClient != nil {
		return internalrepo.NewClickHouseDetectionStore(chClient.DB(), cfg.ClickHouse.Database+".detections")
	}
	return internalrepo.NewMemoryDetectionStore(internalrepo.MemoryStoreConfig{
		MaxAge:        cfg.Engine.Detection.MemoryMaxAge,
		TerminalGrace: cfg.Engine.Detection.TerminalGrace,
		MaxCount:      cfg.Engine.Detection.MemoryMaxCount,
	}, clock)
}

// ProvideDetectionPublisher creates the Kafka detection publisher, or nil
// when Kafka is disabled.
func ProvideDetectionPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.DetectionPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaDetectionPublisher(producer, cfg.Kafka.Topic)
}

// ProvideIndicatorProvider creates the market data indicator client.
func ProvideIndicatorProvider(cfg *config.Config) repository.IndicatorProvider {
	return marketdata.NewIndicatorClient(cfg.MarketData.BaseURL, cfg.MarketData.APIKey, cfg.MarketData.Timeout)
}

// ProvideInstrumentProvider serves the static contract table.
func ProvideInstrumentProvider() repository.InstrumentProvider {
	return instruments.NewStaticProvider()
}

// ProvidePriceStream creates the WebSocket tick feed.
func ProvidePriceStream(cfg *config.Config, log *logger.Logger) repository.PriceStream {
	return marketdata.NewWSPriceStream(
		cfg.MarketData.APIKey,
		cfg.MarketData.WebSocketURL,
		cfg.MarketData.StreamSymbols,
		cfg.MarketData.ReconnectDelay,
		cfg.MarketData.PingInterval,
		log,
	)
}

// ProvideTickCollector creates the throttled tick consumer.
func ProvideTickCollector(stream repository.PriceStream, m repository.Metrics, log *logger.Logger) *marketdata.TickCollector {
	return marketdata.NewTickCollector(stream, m, log, time.Second)
}

// ProvideStrategyRegistry registers every rule-set behind one shared
// preflight gate.
func ProvideStrategyRegistry(cfg *config.Config, clock repository.Clock) *strategy.Registry {
	gate := gates.NewPreflight(gates.PreflightConfig{
		MinBars:         cfg.Engine.MinBars,
		ATRFloorPercent: cfg.Engine.ATRFloorPercent,
	}, clock)
	params := strategy.Params{
		MinBars:       cfg.Engine.MinBars,
		MinConfidence: cfg.Engine.MinConfidence,
	}
	return strategy.NewRegistry(
		strategy.NewRSIReversal(gate, params, clock),
		strategy.NewEMATrend(gate, params, clock),
		strategy.NewRangeBreakout(gate, params, clock),
		strategy.NewMACDMomentum(gate, params, clock),
	)
}

// ProvideVolatilityGate creates the post-evaluation volatility classifier.
func ProvideVolatilityGate(cfg *config.Config) *gates.VolatilityGate {
	return gates.NewVolatilityGate(gates.VolatilityConfig{
		LowRatio:     cfg.Engine.Volatility.LowRatio,
		HighRatio:    cfg.Engine.Volatility.HighRatio,
		ExtremeRatio: cfg.Engine.Volatility.ExtremeRatio,
	})
}

// ProvideSizer creates the position sizer.
func ProvideSizer(specs repository.InstrumentProvider) *sizing.Sizer {
	return sizing.NewSizer(specs)
}

// ProvideCooldownTracker creates the dedup tracker.
func ProvideCooldownTracker(store repository.CooldownStore, log *logger.Logger, m repository.Metrics, clock repository.Clock) *usecase.CooldownTracker {
	return usecase.NewCooldownTracker(store, log, m, clock)
}

// ProvideDetectionLifecycle creates the lifecycle manager.
func ProvideDetectionLifecycle(store repository.DetectionStore, pub repository.DetectionPublisher,
	log *logger.Logger, m repository.Metrics, clock repository.Clock, cfg *config.Config) *usecase.DetectionLifecycle {

	return usecase.NewDetectionLifecycle(store, pub, log, m, clock, usecase.LifecycleConfig{
		CooldownWindow: cfg.Engine.Detection.CooldownWindow,
		ValidityBars:   cfg.Engine.Detection.ValidityBars,
	})
}

// ProvideScanLocker creates the per-strategy concurrency controller.
func ProvideScanLocker(cfg *config.Config, log *logger.Logger, m repository.Metrics, clock repository.Clock) *usecase.ScanLocker {
	return usecase.NewScanLocker(cfg.Engine.MaxConcurrentScans, cfg.Engine.ScanLockTimeout, log, m, clock)
}

// ProvideDecisionCache creates the two-bucket decision memo. With Redis
// available it layers memory over Redis so cached decisions survive a
// restart; otherwise it runs in-process only.
func ProvideDecisionCache(cfg *config.Config) *icache.DecisionCache {
	var backend icache.BytesCache = icache.NewTTLCache()
	if cfg.Redis.Enabled {
		if rc, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(cfg.Redis.Host),
			pkgcache.WithRedisPort(cfg.Redis.Port),
			pkgcache.WithRedisPassword(cfg.Redis.Password),
			pkgcache.WithRedisDB(cfg.Redis.DB),
			pkgcache.WithRedisPrefix(cfg.Redis.Prefix),
		); err == nil {
			backend = icache.NewServiceAdapter(pkgcache.NewLayeredCache(rc))
		}
	}
	return icache.NewDecisionCache(backend, cfg.Engine.Cache.ActionableTTL, cfg.Engine.Cache.NoTradeTTL)
}

// ProvideRateLimiter creates the scan rate limiter.
func ProvideRateLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideScanEngine assembles the pipeline.
func ProvideScanEngine(
	registry *strategy.Registry,
	indicators repository.IndicatorProvider,
	sizer *sizing.Sizer,
	volGate *gates.VolatilityGate,
	cooldowns *usecase.CooldownTracker,
	lifecycle *usecase.DetectionLifecycle,
	locker *usecase.ScanLocker,
	decisions *icache.DecisionCache,
	log *logger.Logger,
	m repository.Metrics,
	clock repository.Clock,
) *usecase.ScanEngine {
	return usecase.NewScanEngine(registry, indicators, sizer, volGate, cooldowns, lifecycle, locker, decisions, log, m, clock)
}

// ProvideSweeper schedules the periodic lifecycle passes.
func ProvideSweeper(cooldowns *usecase.CooldownTracker, lifecycle *usecase.DetectionLifecycle,
	cfg *config.Config, log *logger.Logger) *usecase.Sweeper {
	return usecase.NewSweeper(cooldowns, lifecycle, cfg.Engine.SweepInterval, log)
}

// ProvideAPI creates the HTTP handler set.
func ProvideAPI(log *logger.Logger, engine *usecase.ScanEngine, lifecycle *usecase.DetectionLifecycle,
	collector *marketdata.TickCollector, limiter *ratelimit.Limiter, decisions *icache.DecisionCache) *api.API {
	return api.New(log, engine, lifecycle, collector, limiter, decisions)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	handler *api.API,
	collector *marketdata.TickCollector,
	sweeper *usecase.Sweeper,
	cooldowns *usecase.CooldownTracker,
	pub repository.DetectionPublisher,
	chClient *pkgch.Client,
	redisCli *redis.Client,
) *server.App {
	// Aggregated error logs ride the same Kafka producer as detections.
	if lp, ok := pub.(logger.Publisher); ok {
		log.AddCollector(&logger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.Topic + ".logs",
			Publisher:      lp,
		})
	}
	return server.New(cfg, log, handler, collector, sweeper, cooldowns, pub, chClient, redisCli)
}
