package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDifferenceAndIntegrateRoundTrip(t *testing.T) {
	hist := []float64{10, 12, 9, 14, 13, 17}
	future := []float64{16, 18, 15}

	full := append(append([]float64{}, hist...), future...)
	diffed := difference(full, 1)
	// the last len(future) diffs, integrated against hist, recover the future
	got := integrate(hist, diffed[len(diffed)-len(future):], 1)
	for i := range future {
		require.InDelta(t, future[i], got[i], 1e-9)
	}
}

func TestDifferenceSeasonalLag(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	d := difference(x, 4)
	require.Equal(t, []float64{4, 4, 4, 4}, d)
	require.Nil(t, difference(x[:3], 4))
}

func TestKPSSFlagsTrendAsNonStationary(t *testing.T) {
	trend := make([]float64, 60)
	for i := range trend {
		trend[i] = float64(i)
	}
	require.Greater(t, kpssLevel(trend), kpssCritical5)
	require.GreaterOrEqual(t, selectD(trend, 2), 1)
}

func TestIsConstant(t *testing.T) {
	require.True(t, isConstant([]float64{5, 5, 5}))
	require.True(t, isConstant(nil))
	require.False(t, isConstant([]float64{5, 5, 5.1}))
}

func TestACFDetectsSeasonality(t *testing.T) {
	x := make([]float64, 48)
	for i := range x {
		x[i] = float64(i % 12)
	}
	require.Greater(t, acfAtLag(x, 12), 0.5)
}

func TestOrderLabel(t *testing.T) {
	require.Equal(t, "ARIMA(1,1,0)", order{p: 1, d: 1}.label())
	require.Equal(t, "ARIMA(1,0,1)(0,1,1)[12]", order{p: 1, q: 1, D: 1, Q: 1, s: 12}.label())
}

func TestLagUnionMergesSeasonalLags(t *testing.T) {
	require.Equal(t, []int{1, 2, 12, 24}, lagUnion(2, 2, 12))
	require.Equal(t, []int{1, 2}, lagUnion(2, 2, 1)) // no seasonality at period 1
}
