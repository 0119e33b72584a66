package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/creasty/defaults"
	"gonum.org/v1/gonum/stat/distuv"

	"LaborPulse/internal/domain/models"
	domrepo "LaborPulse/internal/domain/repository"
	domsvc "LaborPulse/internal/domain/service"
)

// ForecastConfig exposes the order-search bounds and fit policy explicitly
// instead of hiding them behind the auto-selection call.
type ForecastConfig struct {
	MaxP         int     `default:"3"`
	MaxD         int     `default:"2"`
	MaxQ         int     `default:"3"`
	MaxSeasonalP int     `default:"1"`
	MaxSeasonalD int     `default:"1"`
	MaxSeasonalQ int     `default:"1"`
	Confidence   float64 `default:"0.95"`
	// MinObservations overrides the fitting floor; 0 keeps the default of
	// 2*seasonal period + 4.
	MinObservations int
}

// NewForecastConfig returns a config populated with defaults.
func NewForecastConfig() ForecastConfig {
	var c ForecastConfig
	_ = defaults.Set(&c)
	return c
}

func (c ForecastConfig) floor(period int) int {
	if c.MinObservations > 0 {
		return c.MinObservations
	}
	return 2*period + 4
}

// Extender implements the forecast extension over a single measured series:
// fit one seasonal ARIMA with automatically selected orders, then project
// the requested horizon with two-sided prediction intervals.
type Extender struct {
	cfg ForecastConfig
}

func NewExtender(cfg ForecastConfig) *Extender {
	return &Extender{cfg: cfg}
}

// Extend fits and projects. It fails with *models.InsufficientDataError below
// the observation floor and *models.FitError when the bounded order search
// exhausts without a usable fit; it never retries. Constant input returns a
// degenerate result instead of an error. Output is never clamped to the
// non-negative domain.
func (e *Extender) Extend(ctx context.Context, series models.MeasureSeries, freq domrepo.Frequency, horizon int) (models.ForecastResult, error) {
	if horizon <= 0 {
		return models.ForecastResult{}, fmt.Errorf("horizon must be positive, got %d", horizon)
	}
	if err := ctx.Err(); err != nil {
		return models.ForecastResult{}, err
	}

	period := freq.SeasonalPeriod()
	if len(series.Values) == 0 {
		return models.ForecastResult{}, &models.InsufficientDataError{
			Entity: series.Entity,
			Got:    0,
			Need:   1,
		}
	}

	res := models.ForecastResult{
		Entity:     series.Entity,
		Measure:    series.Measure,
		Frequency:  string(freq),
		Horizon:    horizon,
		Confidence: e.cfg.Confidence,
		Points:     make([]models.ForecastPoint, horizon),
	}
	last := lastPeriod(series, freq)

	// A constant series needs no fit, so it bypasses the observation floor
	// that guards the order search.
	if isConstant(series.Values) {
		c := series.Values[0]
		res.Model = "constant"
		res.Trivial = true
		p := last
		for i := 0; i < horizon; i++ {
			p = freq.Next(p)
			res.Points[i] = models.ForecastPoint{Period: p, Point: c, Lower: c, Upper: c}
		}
		return res, nil
	}

	need := e.cfg.floor(period)
	if len(series.Values) < need {
		return models.ForecastResult{}, &models.InsufficientDataError{
			Entity: series.Entity,
			Got:    len(series.Values),
			Need:   need,
		}
	}

	m, err := autoFit(series.Entity, series.Values, period, searchBounds{
		maxP:  e.cfg.MaxP,
		maxD:  e.cfg.MaxD,
		maxQ:  e.cfg.MaxQ,
		maxSP: e.cfg.MaxSeasonalP,
		maxSD: e.cfg.MaxSeasonalD,
		maxSQ: e.cfg.MaxSeasonalQ,
	})
	if err != nil {
		return models.ForecastResult{}, err
	}

	points, stderr := m.forecast(horizon)
	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.5 + e.cfg.Confidence/2)
	res.Model = m.ord.label()
	p := last
	for i := 0; i < horizon; i++ {
		p = freq.Next(p)
		res.Points[i] = models.ForecastPoint{
			Period: p,
			Point:  points[i],
			Lower:  points[i] - z*stderr[i],
			Upper:  points[i] + z*stderr[i],
		}
	}
	return res, nil
}

func lastPeriod(series models.MeasureSeries, freq domrepo.Frequency) time.Time {
	p := freq.Truncate(series.Start)
	for i := 1; i < len(series.Values); i++ {
		p = freq.Next(p)
	}
	return p
}

var _ domsvc.ForecastExtender = (*Extender)(nil)
