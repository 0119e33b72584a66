package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"LaborPulse/internal/domain/models"
)

func seriesWithLevels(entity string, levels []float64) []models.Observation {
	out := make([]models.Observation, len(levels))
	p := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i, l := range levels {
		out[i] = models.Observation{Entity: entity, Period: p, EmploymentLevel: l}
		p = p.AddDate(0, 1, 0)
	}
	return out
}

func TestComputeEmploymentChange(t *testing.T) {
	series := seriesWithLevels("Construction", []float64{100000, 120000, 90000, 150000})
	derived := ComputeEmploymentChange(series)

	require.Len(t, derived, len(series))
	require.Nil(t, derived[0].EmploymentChange)
	want := []float64{20000, -30000, 60000}
	for i, w := range want {
		require.NotNil(t, derived[i+1].EmploymentChange)
		require.Equal(t, w, *derived[i+1].EmploymentChange) // exact, no rounding
	}
}

func TestComputeVolatilityConstructionScenario(t *testing.T) {
	series := seriesWithLevels("Construction", []float64{100000, 120000, 90000, 150000})
	derived := ComputeEmploymentChange(series)
	changes := make([]*float64, len(derived))
	for i, d := range derived {
		changes[i] = d.EmploymentChange
	}

	v := ComputeVolatility(changes)
	require.NotNil(t, v)
	// sample std dev of [20000, -30000, 60000]
	require.InDelta(t, 45092.498, *v, 0.1)
}

func TestComputeVolatilityUndefinedBelowTwoChanges(t *testing.T) {
	require.Nil(t, ComputeVolatility(nil))

	one := 500.0
	// a single defined change cannot produce a variance; nil, never 0
	require.Nil(t, ComputeVolatility([]*float64{nil, &one}))
}

func TestComputeResilience(t *testing.T) {
	r := ComputeResilience([]float64{4000, 6000, 5000})
	require.NotNil(t, r)
	require.Equal(t, 5000.0, *r)

	// order-independent
	r2 := ComputeResilience([]float64{6000, 5000, 4000})
	require.Equal(t, *r, *r2)

	require.Nil(t, ComputeResilience(nil))
}

func TestMetricsIdempotent(t *testing.T) {
	series := seriesWithLevels("Retail", []float64{1000, 1100, 950, 1200, 1050})
	a := ComputeEmploymentChange(series)
	b := ComputeEmploymentChange(series)
	for i := range a {
		if a[i].EmploymentChange == nil {
			require.Nil(t, b[i].EmploymentChange)
			continue
		}
		require.Equal(t, *a[i].EmploymentChange, *b[i].EmploymentChange)
	}

	ch := make([]*float64, len(a))
	for i := range a {
		ch[i] = a[i].EmploymentChange
	}
	v1 := ComputeVolatility(ch)
	v2 := ComputeVolatility(ch)
	require.Equal(t, *v1, *v2)
}
