package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"LaborPulse/internal/domain/models"
	domrepo "LaborPulse/internal/domain/repository"
	applogger "LaborPulse/pkg/logger"
)

type fakeExtender struct {
	result models.ForecastResult
	err    error
	got    models.MeasureSeries
}

func (f *fakeExtender) Extend(_ context.Context, series models.MeasureSeries, _ domrepo.Frequency, _ int) (models.ForecastResult, error) {
	f.got = series
	return f.result, f.err
}

func newForecastForTest(store *fakeSeriesStore, ext *fakeExtender) *ForecastUseCase {
	return NewForecastUseCase(store, ext, nopMetrics{}, nil, 0, applogger.Nop())
}

func TestForecastProjectsSelectedMeasure(t *testing.T) {
	store := &fakeSeriesStore{series: map[string][]models.Observation{
		"Construction": monthlySeries("Construction", 4000, 6000, 5000),
	}}
	ext := &fakeExtender{result: models.ForecastResult{Entity: "Construction", Model: "ARIMA(1,0,0)"}}
	uc := newForecastForTest(store, ext)

	res, err := uc.Forecast(context.Background(), ForecastParams{
		Entity: "Construction", Measure: "hires", Freq: domrepo.FreqMonthly, Horizon: 6,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Model != "ARIMA(1,0,0)" {
		t.Fatalf("unexpected model %q", res.Model)
	}
	if len(ext.got.Values) != 3 {
		t.Fatalf("expected 3 values passed to extender, got %d", len(ext.got.Values))
	}
	if ext.got.Values[1] != 6000 {
		t.Fatalf("expected hires series, got %v", ext.got.Values)
	}
}

func TestForecastRejectsEmptyEntity(t *testing.T) {
	uc := newForecastForTest(&fakeSeriesStore{series: map[string][]models.Observation{}}, &fakeExtender{})

	_, err := uc.Forecast(context.Background(), ForecastParams{Entity: "", Measure: "hires"})
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestForecastRejectsUnknownMeasure(t *testing.T) {
	store := &fakeSeriesStore{series: map[string][]models.Observation{
		"Retail": monthlySeries("Retail", 1000, 1100),
	}}
	uc := newForecastForTest(store, &fakeExtender{})

	_, err := uc.Forecast(context.Background(), ForecastParams{Entity: "Retail", Measure: "wages", Freq: domrepo.FreqMonthly, Horizon: 3})
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestForecastUnknownEntityIsInsufficientData(t *testing.T) {
	uc := newForecastForTest(&fakeSeriesStore{series: map[string][]models.Observation{}}, &fakeExtender{})

	_, err := uc.Forecast(context.Background(), ForecastParams{Entity: "Mining", Measure: "hires", Freq: domrepo.FreqMonthly, Horizon: 3})
	var ide *models.InsufficientDataError
	if !errors.As(err, &ide) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}

func TestForecastFitErrorPropagatesWithoutFallback(t *testing.T) {
	store := &fakeSeriesStore{series: map[string][]models.Observation{
		"Retail": monthlySeries("Retail", 1000, 1100, 900),
	}}
	ext := &fakeExtender{err: &models.FitError{Entity: "Retail", Reason: "no candidate model converged"}}
	uc := newForecastForTest(store, ext)

	_, err := uc.Forecast(context.Background(), ForecastParams{Entity: "Retail", Measure: "hires", Freq: domrepo.FreqMonthly, Horizon: 3})
	var fitErr *models.FitError
	if !errors.As(err, &fitErr) {
		t.Fatalf("expected FitError, got %v", err)
	}
}

func TestForecastFallbackCarriesLastValue(t *testing.T) {
	store := &fakeSeriesStore{series: map[string][]models.Observation{
		"Retail": monthlySeries("Retail", 1000, 1100, 900),
	}}
	ext := &fakeExtender{err: &models.FitError{Entity: "Retail", Reason: "no candidate model converged"}}
	uc := newForecastForTest(store, ext)

	res, err := uc.Forecast(context.Background(), ForecastParams{
		Entity: "Retail", Measure: "hires", Freq: domrepo.FreqMonthly, Horizon: 3, Fallback: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Model != "naive" {
		t.Fatalf("unexpected model %q", res.Model)
	}
	if len(res.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(res.Points))
	}
	for _, p := range res.Points {
		if p.Point != 900 || p.Lower != 900 || p.Upper != 900 {
			t.Fatalf("expected last value carried forward, got %+v", p)
		}
	}
	// Periods continue monthly from the last observed month (March 2024).
	want := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	if !res.Points[0].Period.Equal(want) {
		t.Fatalf("unexpected first forecast period %v", res.Points[0].Period)
	}
}
