package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"LaborPulse/internal/domain/models"
	domrepo "LaborPulse/internal/domain/repository"
	domsvc "LaborPulse/internal/domain/service"
	"LaborPulse/internal/service/cache"
	"LaborPulse/internal/services/analytics"
	"LaborPulse/internal/store"
	applogger "LaborPulse/pkg/logger"
)

// AnalysisUseCase computes volatility and resilience scores across all
// persisted entities and evaluates policy rules against them.
type AnalysisUseCase struct {
	series    domrepo.SeriesStore
	evaluator domsvc.RuleEvaluator
	advPub    domrepo.AdvisoryPublisher
	metrics   domrepo.Metrics
	cache     cache.BytesCache
	cacheTTL  time.Duration
	logger    *applogger.Logger
	timeout   time.Duration
}

func NewAnalysisUseCase(
	series domrepo.SeriesStore,
	evaluator domsvc.RuleEvaluator,
	advPub domrepo.AdvisoryPublisher,
	metrics domrepo.Metrics,
	c cache.BytesCache,
	cacheTTL time.Duration,
	l *applogger.Logger,
) *AnalysisUseCase {
	return &AnalysisUseCase{
		series:    series,
		evaluator: evaluator,
		advPub:    advPub,
		metrics:   metrics,
		cache:     c,
		cacheTTL:  cacheTTL,
		logger:    l,
		timeout:   30 * time.Second,
	}
}

type MetricsParams struct {
	Freq domrepo.Frequency
	N    int
}

// ComputeMetrics loads every entity's series and scores them concurrently.
// Results are keyed by entity; undefined statistics stay nil.
func (uc *AnalysisUseCase) ComputeMetrics(ctx context.Context, p MetricsParams) (map[string]models.MetricResult, error) {
	if p.N <= 0 {
		p.N = 240
	}

	cacheKey := cache.MetricsKey(string(p.Freq))
	if uc.cache != nil {
		if b, ok, err := uc.cache.GetBytes(cacheKey); err == nil && ok {
			var cached map[string]models.MetricResult
			if err := json.Unmarshal(b, &cached); err == nil {
				return cached, nil
			}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	start := time.Now()
	all, err := uc.series.GetAllSeries(ctx, p.Freq, p.N)
	if err != nil {
		uc.metrics.RecordError("analysis_load")
		return nil, fmt.Errorf("load series: %w", err)
	}

	records := make([]models.Observation, 0, 1024)
	for _, obs := range all {
		records = append(records, obs...)
	}
	st, err := store.Load(records)
	if err != nil {
		uc.metrics.RecordError("analysis_validate")
		return nil, err
	}

	entities := st.Entities()
	results := make(map[string]models.MetricResult, len(entities))

	type item struct {
		entity string
		result models.MetricResult
	}
	ch := make(chan item, len(entities))
	var wg sync.WaitGroup

	for _, entity := range entities {
		wg.Add(1)
		go func(entity string) {
			defer wg.Done()
			ch <- item{entity, analytics.ComputeEntityMetrics(entity, st.Series(entity))}
		}(entity)
	}
	go func() { wg.Wait(); close(ch) }()

	for it := range ch {
		results[it.entity] = it.result
		if it.result.HasVolatility() {
			uc.metrics.RecordEntityMetric(it.entity, "volatility", *it.result.Volatility)
		}
		if it.result.HasResilience() {
			uc.metrics.RecordEntityMetric(it.entity, "resilience", *it.result.Resilience)
		}
	}

	uc.metrics.RecordLatency("compute_metrics", time.Since(start).Seconds())
	uc.logger.Info("metrics computed",
		applogger.Int("entities", len(results)),
		applogger.Duration("duration_ms", time.Since(start)),
	)

	if uc.cache != nil {
		if b, err := json.Marshal(results); err == nil {
			_ = uc.cache.SetBytes(cacheKey, b, uc.cacheTTL)
		}
	}
	return results, nil
}

// Advisories scores all entities and evaluates the configured policy rules.
// Triggered advisories are published to the bus on a best-effort basis.
func (uc *AnalysisUseCase) Advisories(ctx context.Context, p MetricsParams) ([]models.Advisory, error) {
	results, err := uc.ComputeMetrics(ctx, p)
	if err != nil {
		return nil, err
	}

	advisories := uc.evaluator.Evaluate(results)

	if uc.advPub != nil && len(advisories) > 0 {
		if err := uc.advPub.PublishAdvisories(ctx, advisories); err != nil {
			uc.metrics.RecordError("advisory_publish")
			uc.logger.Error("advisory publish failed", applogger.Error(err))
		}
	}
	return advisories, nil
}

// Entities lists known entities at the given frequency.
func (uc *AnalysisUseCase) Entities(ctx context.Context, freq domrepo.Frequency) ([]string, error) {
	return uc.series.ListEntities(ctx, freq)
}

// Series returns one entity's stored observations, period ascending.
func (uc *AnalysisUseCase) Series(ctx context.Context, entity string, freq domrepo.Frequency, limit int) ([]models.Observation, error) {
	if entity == "" {
		return nil, &models.ValidationError{Field: "entity", Reason: "is empty"}
	}
	if limit <= 0 {
		limit = 240
	}
	return uc.series.GetSeries(ctx, entity, freq, limit)
}
