package analytics

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"LaborPulse/internal/domain/models"
)

// ComputeEmploymentChange derives the period-over-period employment change
// view over an ordered series. The output has exactly the input length; the
// first element carries a nil change.
func ComputeEmploymentChange(series []models.Observation) []models.DerivedObservation {
	out := make([]models.DerivedObservation, len(series))
	for i, o := range series {
		out[i] = models.DerivedObservation{Observation: o}
		if i > 0 {
			d := o.EmploymentLevel - series[i-1].EmploymentLevel
			out[i].EmploymentChange = &d
		}
	}
	return out
}

// ComputeVolatility returns the sample standard deviation (n-1 divisor) of
// the defined changes, or nil when fewer than two are defined. A single
// defined value yields nil, never zero.
func ComputeVolatility(changes []*float64) *float64 {
	defined := make([]float64, 0, len(changes))
	for _, c := range changes {
		if c != nil {
			defined = append(defined, *c)
		}
	}
	if len(defined) < 2 {
		return nil
	}
	sd := stat.StdDev(defined, nil)
	return &sd
}

// ComputeResilience returns the arithmetic mean of the hires values, or nil
// when the sequence is empty.
func ComputeResilience(hires []float64) *float64 {
	if len(hires) == 0 {
		return nil
	}
	m := stat.Mean(hires, nil)
	return &m
}

// ComputeEntityMetrics runs both metric computations over one entity's
// ordered series. Pure and restartable; entities never interact, so callers
// may fan this out across entities freely.
func ComputeEntityMetrics(entity string, series []models.Observation) models.MetricResult {
	derived := ComputeEmploymentChange(series)
	changes := make([]*float64, len(derived))
	for i, d := range derived {
		changes[i] = d.EmploymentChange
	}
	hires := make([]float64, len(series))
	for i, o := range series {
		hires[i] = o.Hires
	}
	return models.MetricResult{
		Entity:     entity,
		Timestamp:  time.Now().UTC(),
		Volatility: ComputeVolatility(changes),
		Resilience: ComputeResilience(hires),
	}
}
