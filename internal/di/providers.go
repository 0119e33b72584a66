package di

import (
	"context"
	"fmt"
	"time"

	"LaborPulse/internal/domain/repository"
	domsvc "LaborPulse/internal/domain/service"
	"LaborPulse/internal/handler/api"
	mid "LaborPulse/internal/middleware"
	internalrepo "LaborPulse/internal/repository"
	icache "LaborPulse/internal/service/cache"
	"LaborPulse/internal/service/statfeed"
	"LaborPulse/internal/services/analytics"
	"LaborPulse/internal/services/simulate"
	"LaborPulse/internal/usecase"
	pkgch "LaborPulse/pkg/clickhouse"
	"LaborPulse/pkg/config"
	xhttp "LaborPulse/pkg/http"
	pkgkafka "LaborPulse/pkg/kafka"
	applogger "LaborPulse/pkg/logger"
	"LaborPulse/pkg/metrics"
	"LaborPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

func observationsTable(cfg *config.Config) string {
	return cfg.ClickHouse.Database + ".observations"
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.SchemaStatements(cfg.ClickHouse.Database, observationsTable(cfg))); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when no brokers are
// configured (pure clickhouse deployments).
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.WriteTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideStorage creates the ClickHouse observation storage.
func ProvideStorage(chClient *pkgch.Client, cfg *config.Config) repository.Storage {
	return internalrepo.NewClickHouseStorage(chClient.DB(), observationsTable(cfg), repository.NormalizeFrequency(cfg.Feed.Frequency))
}

// ProvideSeriesStore creates the read-side series store.
func ProvideSeriesStore(chClient *pkgch.Client, cfg *config.Config, l *applogger.Logger) repository.SeriesStore {
	s := internalrepo.NewCHSeriesStore(chClient, observationsTable(cfg))
	s.SetLogger(l)
	return s
}

// ProvidePublisher creates the Kafka observation publisher when a producer
// exists.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideFeed selects the observation feed: a live statistics stream or the
// seeded simulator.
func ProvideFeed(cfg *config.Config, l *applogger.Logger) repository.ObservationFeed {
	if cfg.Feed.Mode == "simulate" {
		return simulate.NewFeed(
			cfg.Feed.Seed,
			cfg.Feed.Entities,
			cfg.Feed.Periods,
			repository.NormalizeFrequency(cfg.Feed.Frequency),
			0,
		)
	}
	return statfeed.New(
		cfg.Feed.APIKey,
		cfg.Feed.URL,
		cfg.Feed.Entities,
		cfg.Feed.ReconnectDelay,
		cfg.Feed.PingInterval,
		l,
	)
}

// ProvideObservationProcessor creates the backend router.
func ProvideObservationProcessor(
	pub repository.Publisher,
	store repository.Storage,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.ObservationProcessor {
	return usecase.NewObservationProcessor(pub, store, m, cfg.Backend.Type)
}

// ProvideObservationCollector creates the feed collector with the ingest
// pipeline in front of the processor.
func ProvideObservationCollector(
	feed repository.ObservationFeed,
	processor *usecase.ObservationProcessor,
	m repository.Metrics,
) *usecase.ObservationCollector {
	pipe := mid.NewIngestPipeline(processor, m,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewObservationCollector(feed, processor, m, pipe)
}

// ProvideKafkaConsumer creates a consumer when Kafka is the active backend.
func ProvideKafkaConsumer(cfg *config.Config, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if cfg.Backend.Type != "kafka" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(l,
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaObservationsHandler registers the handler for the observations
// topic.
func ProvideKafkaObservationsHandler(store repository.Storage, m repository.Metrics, cfg *config.Config) *usecase.KafkaObservationsHandler {
	return usecase.NewKafkaObservationsHandler(cfg.Kafka.Topic, store, m)
}

// ProvideCache selects the shared Redis cache or an in-process TTL cache.
func ProvideCache(cfg *config.Config) icache.BytesCache {
	if cfg.Analytics.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Analytics.Redis.Addr,
			Password: cfg.Analytics.Redis.Password,
			DB:       cfg.Analytics.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideExtender creates the forecast extender.
func ProvideExtender(cfg *config.Config) domsvc.ForecastExtender {
	f := cfg.Analytics.Forecast
	return analytics.NewExtender(analytics.ForecastConfig{
		MaxP:            f.MaxP,
		MaxD:            f.MaxD,
		MaxQ:            f.MaxQ,
		MaxSeasonalP:    f.MaxSeasonalP,
		MaxSeasonalD:    f.MaxSeasonalD,
		MaxSeasonalQ:    f.MaxSeasonalQ,
		Confidence:      f.Confidence,
		MinObservations: f.MinObservations,
	})
}

// ProvideEvaluator compiles the configured policy rules.
func ProvideEvaluator(cfg *config.Config) (domsvc.RuleEvaluator, error) {
	specs := make([]analytics.ThresholdRule, len(cfg.Policy.Rules))
	for i, r := range cfg.Policy.Rules {
		specs[i] = analytics.ThresholdRule{
			Name:       r.Name,
			Metric:     r.Metric,
			Op:         r.Op,
			Threshold:  r.Threshold,
			Quantifier: r.Quantifier,
			Advisory:   r.Advisory,
		}
	}
	rules, err := analytics.CompileRules(specs)
	if err != nil {
		return nil, fmt.Errorf("policy rules: %w", err)
	}
	return analytics.NewEvaluator(rules), nil
}

// ProvideLiveHub creates the websocket advisory hub.
func ProvideLiveHub(l *applogger.Logger) *api.LiveHub {
	return api.NewLiveHub(l)
}

// ProvideAdvisoryPublisher fans advisories out to Kafka (when available) and
// to live websocket subscribers.
func ProvideAdvisoryPublisher(producer *pkgkafka.Producer, cfg *config.Config, hub *api.LiveHub) repository.AdvisoryPublisher {
	if producer == nil {
		return hub
	}
	return internalrepo.NewFanoutAdvisoryPublisher(
		internalrepo.NewKafkaAdvisoryPublisher(producer, cfg.Kafka.AdvisoryTopic),
		hub,
	)
}

// ProvideAnalysisUseCase creates the metric and advisory use case.
func ProvideAnalysisUseCase(
	series repository.SeriesStore,
	evaluator domsvc.RuleEvaluator,
	advPub repository.AdvisoryPublisher,
	m repository.Metrics,
	c icache.BytesCache,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.AnalysisUseCase {
	return usecase.NewAnalysisUseCase(series, evaluator, advPub, m, c, cfg.Analytics.CacheTTL.Metrics, l)
}

// ProvideForecastUseCase creates the forecast use case.
func ProvideForecastUseCase(
	series repository.SeriesStore,
	extender domsvc.ForecastExtender,
	m repository.Metrics,
	c icache.BytesCache,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.ForecastUseCase {
	return usecase.NewForecastUseCase(series, extender, m, c, cfg.Analytics.CacheTTL.Forecast, l)
}

// ProvideHTTPHandler creates the Echo route handler.
func ProvideHTTPHandler(
	l *applogger.Logger,
	analysis *usecase.AnalysisUseCase,
	forecast *usecase.ForecastUseCase,
	collector *usecase.ObservationCollector,
	hub *api.LiveHub,
) xhttp.Handler {
	return api.NewLaborEchoHandler(l, analysis, forecast, collector, hub)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	collector *usecase.ObservationCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaObservationsHandler,
	chClient *pkgch.Client,
	handler xhttp.Handler,
) *server.App {
	var mh pkgkafka.MessageHandler
	if consumer != nil {
		mh = kh
	}
	app := server.New(cfg, l, collector, consumer, mh, chClient, handler)
	if collector != nil {
		app.ObsProc = collector.Processor()
	}
	return app
}
