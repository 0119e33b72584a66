package analytics

import "math"

// Differencing and stationarity helpers for the order search. The regular
// differencing order d is chosen by repeated KPSS level-stationarity tests;
// the seasonal order D by the lag-s autocorrelation of the series.

// difference applies one round of differencing at the given lag and returns
// a series shorter by lag.
func difference(x []float64, lag int) []float64 {
	if len(x) <= lag {
		return nil
	}
	out := make([]float64, len(x)-lag)
	for i := lag; i < len(x); i++ {
		out[i-lag] = x[i] - x[i-lag]
	}
	return out
}

// kpssLevel computes the KPSS test statistic for level stationarity with a
// Newey-West long-run variance estimate. Larger values reject stationarity.
func kpssLevel(x []float64) float64 {
	n := len(x)
	if n < 3 {
		return 0
	}
	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(n)

	resid := make([]float64, n)
	for i, v := range x {
		resid[i] = v - mean
	}

	// cumulative partial sums
	sumS2 := 0.0
	s := 0.0
	for _, e := range resid {
		s += e
		sumS2 += s * s
	}

	// Newey-West long-run variance, Bartlett kernel
	bw := int(math.Floor(4 * math.Pow(float64(n)/100, 0.25)))
	if bw >= n {
		bw = n - 1
	}
	lrv := 0.0
	for _, e := range resid {
		lrv += e * e
	}
	for l := 1; l <= bw; l++ {
		g := 0.0
		for i := l; i < n; i++ {
			g += resid[i] * resid[i-l]
		}
		lrv += 2 * (1 - float64(l)/float64(bw+1)) * g
	}
	lrv /= float64(n)
	if lrv <= 0 {
		return 0
	}
	return sumS2 / (float64(n) * float64(n) * lrv)
}

// kpssCritical5 is the 5% critical value of the KPSS level statistic.
const kpssCritical5 = 0.463

// selectD returns the smallest d <= maxD for which the d-times differenced
// series passes the KPSS test.
func selectD(x []float64, maxD int) int {
	d := 0
	w := x
	for d < maxD && len(w) > 3 && kpssLevel(w) > kpssCritical5 {
		w = difference(w, 1)
		d++
	}
	return d
}

// selectSeasonalD returns 1 when the lag-s autocorrelation indicates a strong
// seasonal pattern, 0 otherwise. Capped by maxD.
func selectSeasonalD(x []float64, period, maxD int) int {
	if maxD <= 0 || period < 2 || len(x) < 2*period+2 {
		return 0
	}
	if acfAtLag(x, period) > 0.5 {
		return 1
	}
	return 0
}

func acfAtLag(x []float64, lag int) float64 {
	n := len(x)
	if lag <= 0 || n <= lag {
		return 0
	}
	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(n)
	var num, den float64
	for i := 0; i < n; i++ {
		d := x[i] - mean
		den += d * d
		if i >= lag {
			num += d * (x[i-lag] - mean)
		}
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// isConstant reports whether every value in x equals the first within a tiny
// tolerance scaled to the magnitude of the data.
func isConstant(x []float64) bool {
	if len(x) == 0 {
		return true
	}
	tol := 1e-12 * (1 + math.Abs(x[0]))
	for _, v := range x[1:] {
		if math.Abs(v-x[0]) > tol {
			return false
		}
	}
	return true
}
