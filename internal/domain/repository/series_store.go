package repository

import (
	"context"

	"LaborPulse/internal/domain/models"
)

// SeriesStore provides read-only access to persisted observation series for
// the analysis path. Series are returned period-ascending.
type SeriesStore interface {
	ListEntities(ctx context.Context, freq Frequency) ([]string, error)
	GetSeries(ctx context.Context, entity string, freq Frequency, limit int) ([]models.Observation, error)
	GetAllSeries(ctx context.Context, freq Frequency, limit int) (map[string][]models.Observation, error)
}
