package service

import (
	"context"

	"LaborPulse/internal/domain/models"
	domrepo "LaborPulse/internal/domain/repository"
)

// ForecastExtender fits a model to one entity's measured series and projects
// the next horizon periods at the series frequency.
type ForecastExtender interface {
	Extend(ctx context.Context, series models.MeasureSeries, freq domrepo.Frequency, horizon int) (models.ForecastResult, error)
}

// RuleEvaluator applies the configured policy rules to a computed metric map.
// It only reads metrics; rules fire in declaration order.
type RuleEvaluator interface {
	Evaluate(metrics map[string]models.MetricResult) []models.Advisory
}
