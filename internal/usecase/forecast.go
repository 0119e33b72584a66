package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"LaborPulse/internal/domain/models"
	domrepo "LaborPulse/internal/domain/repository"
	domsvc "LaborPulse/internal/domain/service"
	"LaborPulse/internal/service/cache"
	applogger "LaborPulse/pkg/logger"
)

// ForecastUseCase extends an entity's measured series beyond its last
// observed period.
type ForecastUseCase struct {
	series   domrepo.SeriesStore
	extender domsvc.ForecastExtender
	metrics  domrepo.Metrics
	cache    cache.BytesCache
	cacheTTL time.Duration
	logger   *applogger.Logger
}

func NewForecastUseCase(
	series domrepo.SeriesStore,
	extender domsvc.ForecastExtender,
	metrics domrepo.Metrics,
	c cache.BytesCache,
	cacheTTL time.Duration,
	l *applogger.Logger,
) *ForecastUseCase {
	return &ForecastUseCase{
		series:   series,
		extender: extender,
		metrics:  metrics,
		cache:    c,
		cacheTTL: cacheTTL,
		logger:   l,
	}
}

type ForecastParams struct {
	Entity   string
	Measure  string
	Freq     domrepo.Frequency
	Horizon  int
	N        int
	Fallback bool
}

// Forecast fits a model to the entity's series and projects Horizon periods.
// With Fallback set, a non-converging fit degrades to a last-value carry
// instead of failing.
func (uc *ForecastUseCase) Forecast(ctx context.Context, p ForecastParams) (models.ForecastResult, error) {
	if p.Entity == "" {
		return models.ForecastResult{}, &models.ValidationError{Field: "entity", Reason: "is empty"}
	}
	if p.N <= 0 {
		p.N = 240
	}

	cacheKey := cache.ForecastKey(p.Entity, p.Measure, p.Horizon)
	if uc.cache != nil {
		if b, ok, err := uc.cache.GetBytes(cacheKey); err == nil && ok {
			var cached models.ForecastResult
			if err := json.Unmarshal(b, &cached); err == nil {
				return cached, nil
			}
		}
	}

	start := time.Now()
	obs, err := uc.series.GetSeries(ctx, p.Entity, p.Freq, p.N)
	if err != nil {
		uc.metrics.RecordError("forecast_load")
		return models.ForecastResult{}, fmt.Errorf("load series: %w", err)
	}
	if len(obs) == 0 {
		return models.ForecastResult{}, &models.InsufficientDataError{Entity: p.Entity, Got: 0, Need: 1}
	}

	series, err := buildMeasureSeries(p.Entity, p.Measure, p.Freq, obs)
	if err != nil {
		return models.ForecastResult{}, err
	}

	result, err := uc.extender.Extend(ctx, series, p.Freq, p.Horizon)
	if err != nil {
		var fitErr *models.FitError
		if p.Fallback && errors.As(err, &fitErr) {
			uc.metrics.RecordError("forecast_fallback")
			uc.logger.Warn("fit failed, carrying last value",
				applogger.String("entity", p.Entity),
				applogger.Error(err),
			)
			result = naiveForecast(series, p.Freq, p.Horizon)
		} else {
			uc.metrics.RecordError("forecast")
			return models.ForecastResult{}, err
		}
	}

	uc.metrics.RecordLatency("forecast", time.Since(start).Seconds())
	uc.logger.Info("forecast produced",
		applogger.String("entity", p.Entity),
		applogger.String("measure", p.Measure),
		applogger.String("model", result.Model),
		applogger.Int("horizon", p.Horizon),
		applogger.Duration("duration_ms", time.Since(start)),
	)

	if uc.cache != nil {
		if b, err := json.Marshal(result); err == nil {
			_ = uc.cache.SetBytes(cacheKey, b, uc.cacheTTL)
		}
	}
	return result, nil
}

// buildMeasureSeries projects one count field out of the observation rows.
func buildMeasureSeries(entity, measure string, freq domrepo.Frequency, obs []models.Observation) (models.MeasureSeries, error) {
	pick, err := measurePicker(measure)
	if err != nil {
		return models.MeasureSeries{}, err
	}
	values := make([]float64, len(obs))
	for i, o := range obs {
		values[i] = pick(o)
	}
	return models.MeasureSeries{
		Entity:    entity,
		Measure:   measure,
		Frequency: string(freq),
		Start:     obs[0].Period,
		Values:    values,
	}, nil
}

func measurePicker(measure string) (func(models.Observation) float64, error) {
	switch measure {
	case "employment":
		return func(o models.Observation) float64 { return o.EmploymentLevel }, nil
	case "openings":
		return func(o models.Observation) float64 { return o.JobOpenings }, nil
	case "hires", "":
		return func(o models.Observation) float64 { return o.Hires }, nil
	case "separations":
		return func(o models.Observation) float64 { return o.Separations }, nil
	default:
		return nil, &models.ValidationError{Field: "measure", Reason: "unknown " + measure}
	}
}

// naiveForecast carries the last observed value forward with collapsed
// intervals. Only used as an explicit opt-in when the model search fails.
func naiveForecast(series models.MeasureSeries, freq domrepo.Frequency, horizon int) models.ForecastResult {
	last := series.Values[len(series.Values)-1]
	period := series.Start
	for i := 1; i < len(series.Values); i++ {
		period = freq.Next(period)
	}

	points := make([]models.ForecastPoint, horizon)
	for i := range points {
		period = freq.Next(period)
		points[i] = models.ForecastPoint{Period: period, Point: last, Lower: last, Upper: last}
	}
	return models.ForecastResult{
		Entity:    series.Entity,
		Measure:   series.Measure,
		Frequency: string(freq),
		Horizon:   horizon,
		Model:     "naive",
		Points:    points,
	}
}
