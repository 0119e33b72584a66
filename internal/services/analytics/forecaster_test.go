package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"LaborPulse/internal/domain/models"
	domrepo "LaborPulse/internal/domain/repository"
)

func measureSeries(values []float64) models.MeasureSeries {
	return models.MeasureSeries{
		Entity:    "Healthcare",
		Measure:   "hires",
		Frequency: string(domrepo.FreqMonthly),
		Start:     time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC),
		Values:    values,
	}
}

func TestExtendConstantSeriesIsDegenerate(t *testing.T) {
	values := make([]float64, 24)
	for i := range values {
		values[i] = 10
	}
	e := NewExtender(NewForecastConfig())

	res, err := e.Extend(context.Background(), measureSeries(values), domrepo.FreqMonthly, 2)
	require.NoError(t, err)
	require.True(t, res.Trivial)
	require.Len(t, res.Points, 2)
	for _, p := range res.Points {
		require.Equal(t, 10.0, p.Point)
		require.Equal(t, p.Point, p.Lower) // interval collapses to zero width
		require.Equal(t, p.Point, p.Upper)
	}
	require.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), res.Points[0].Period)
}

func TestExtendInsufficientData(t *testing.T) {
	cfg := NewForecastConfig()
	cfg.MinObservations = 8
	e := NewExtender(cfg)

	_, err := e.Extend(context.Background(), measureSeries([]float64{5, 6, 7}), domrepo.FreqMonthly, 2)
	var ide *models.InsufficientDataError
	require.ErrorAs(t, err, &ide)
	require.Equal(t, 3, ide.Got)
	require.Equal(t, 8, ide.Need)
}

func TestExtendRejectsNonPositiveHorizon(t *testing.T) {
	e := NewExtender(NewForecastConfig())
	_, err := e.Extend(context.Background(), measureSeries([]float64{1, 2, 3}), domrepo.FreqMonthly, 0)
	require.Error(t, err)
}

func TestExtendProjectsHorizon(t *testing.T) {
	// deterministic bounded walk; non-constant after any differencing order
	values := make([]float64, 48)
	v := 5000.0
	for i := range values {
		v += float64((i*37)%11 - 5)
		values[i] = v
	}
	cfg := NewForecastConfig()
	cfg.MinObservations = 24
	e := NewExtender(cfg)

	res, err := e.Extend(context.Background(), measureSeries(values), domrepo.FreqMonthly, 6)
	require.NoError(t, err)
	require.Len(t, res.Points, 6)
	require.NotEmpty(t, res.Model)
	require.False(t, res.Trivial)

	prev := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	for _, p := range res.Points {
		next := prev.AddDate(0, 1, 0)
		require.Equal(t, next, p.Period)
		require.LessOrEqual(t, p.Lower, p.Point)
		require.LessOrEqual(t, p.Point, p.Upper)
		prev = next
	}
}

func TestExtendCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := NewExtender(NewForecastConfig())
	_, err := e.Extend(ctx, measureSeries([]float64{1, 2, 3}), domrepo.FreqMonthly, 2)
	require.ErrorIs(t, err, context.Canceled)
}

func TestExtendFitErrorWhenSearchExhausts(t *testing.T) {
	// Zeroed bounds leave (0,0,0) with a constant as the only candidate. For
	// a high-level series that constant is its mean, which fails the
	// coefficient stability guard, so every candidate is rejected.
	values := make([]float64, 24)
	for i := range values {
		values[i] = 100000 + float64((i*37)%11)
	}
	cfg := ForecastConfig{Confidence: 0.95, MinObservations: 12}
	e := NewExtender(cfg)

	_, err := e.Extend(context.Background(), measureSeries(values), domrepo.FreqMonthly, 3)
	var fe *models.FitError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, "Healthcare", fe.Entity)
}
