package analytics

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Seasonal ARIMA fitted by conditional least squares. The AR and MA parts
// are estimated with a Hannan-Rissanen style two-stage regression: a long AR
// fit supplies residual proxies, then the working series is regressed on its
// own lags and the lagged residuals. Seasonal terms enter the same regression
// as lags at multiples of the seasonal period.

type order struct {
	p, d, q int
	P, D, Q int
	s       int
}

func (o order) label() string {
	if o.s > 1 && (o.P > 0 || o.D > 0 || o.Q > 0) {
		return fmt.Sprintf("ARIMA(%d,%d,%d)(%d,%d,%d)[%d]", o.p, o.d, o.q, o.P, o.D, o.Q, o.s)
	}
	return fmt.Sprintf("ARIMA(%d,%d,%d)", o.p, o.d, o.q)
}

// arLags returns the union of regular and seasonal AR lags, ascending.
func (o order) arLags() []int { return lagUnion(o.p, o.P, o.s) }

// maLags returns the union of regular and seasonal MA lags, ascending.
func (o order) maLags() []int { return lagUnion(o.q, o.Q, o.s) }

func lagUnion(regular, seasonal, s int) []int {
	set := make(map[int]struct{})
	for l := 1; l <= regular; l++ {
		set[l] = struct{}{}
	}
	if s > 1 {
		for l := 1; l <= seasonal; l++ {
			set[l*s] = struct{}{}
		}
	}
	lags := make([]int, 0, len(set))
	for l := range set {
		lags = append(lags, l)
	}
	sort.Ints(lags)
	return lags
}

func (o order) nParams() int {
	n := len(o.arLags()) + len(o.maLags())
	if o.d+o.D == 0 {
		n++ // constant
	}
	return n
}

// fittedModel holds the estimated coefficients and the differenced working
// series required for forecasting.
type fittedModel struct {
	ord       order
	withConst bool
	c         float64
	arLags    []int
	ar        []float64
	maLags    []int
	ma        []float64
	sigma2    float64
	aicc      float64
	w         []float64 // working series after differencing
	resid     []float64 // CSS residuals aligned with w (presample zero)
	stages    []diffStage
}

// diffStage records one differencing application so forecasts can be
// integrated back to the original scale.
type diffStage struct {
	lag  int
	hist []float64 // series before this differencing was applied
}

func fitARIMA(y []float64, ord order) (*fittedModel, error) {
	w := y
	var stages []diffStage
	for i := 0; i < ord.D; i++ {
		stages = append(stages, diffStage{lag: ord.s, hist: w})
		w = difference(w, ord.s)
	}
	for i := 0; i < ord.d; i++ {
		stages = append(stages, diffStage{lag: 1, hist: w})
		w = difference(w, 1)
	}

	arLags := ord.arLags()
	maLags := ord.maLags()
	maxLag := 0
	if n := len(arLags); n > 0 && arLags[n-1] > maxLag {
		maxLag = arLags[n-1]
	}
	if n := len(maLags); n > 0 && maLags[n-1] > maxLag {
		maxLag = maLags[n-1]
	}

	withConst := ord.d+ord.D == 0
	k := ord.nParams()
	nEff := len(w) - maxLag
	if nEff < k+3 {
		return nil, fmt.Errorf("series too short for %s: %d usable points, %d parameters", ord.label(), nEff, k)
	}

	// Stage 1: residual proxies from a long AR fit, only needed for MA terms.
	var proxy []float64
	if len(maLags) > 0 {
		m := maxLag + 2
		if cap := (len(w) - 1) / 2; m > cap {
			m = cap
		}
		if m < 1 {
			return nil, fmt.Errorf("series too short for MA estimation in %s", ord.label())
		}
		var err error
		proxy, err = longARResiduals(w, m)
		if err != nil {
			return nil, err
		}
	}

	// Stage 2: regress w_t on its lags and the lagged residual proxies.
	// A pure random-walk order has nothing to estimate and skips this.
	cols := len(arLags) + len(maLags)
	if withConst {
		cols++
	}
	var beta []float64
	if cols > 0 {
		X := mat.NewDense(nEff, cols, nil)
		b := mat.NewVecDense(nEff, nil)
		for row := 0; row < nEff; row++ {
			t := row + maxLag
			col := 0
			if withConst {
				X.Set(row, col, 1)
				col++
			}
			for _, l := range arLags {
				X.Set(row, col, w[t-l])
				col++
			}
			for _, l := range maLags {
				X.Set(row, col, proxy[t-l])
				col++
			}
			b.SetVec(row, w[t])
		}

		var err error
		beta, err = solveOLS(X, b)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ord.label(), err)
		}
	}

	m := &fittedModel{
		ord:       ord,
		withConst: withConst,
		arLags:    arLags,
		ar:        make([]float64, len(arLags)),
		maLags:    maLags,
		ma:        make([]float64, len(maLags)),
		w:         w,
		stages:    stages,
	}
	idx := 0
	if withConst {
		m.c = beta[idx]
		idx++
	}
	copy(m.ar, beta[idx:idx+len(arLags)])
	idx += len(arLags)
	copy(m.ma, beta[idx:])

	for _, v := range beta {
		if math.IsNaN(v) || math.Abs(v) > 1e2 {
			return nil, fmt.Errorf("%s: unstable coefficient estimate", ord.label())
		}
	}

	// CSS residual pass with the final coefficients.
	m.resid = make([]float64, len(w))
	rss := 0.0
	for t := maxLag; t < len(w); t++ {
		pred := m.c
		for i, l := range m.arLags {
			pred += m.ar[i] * w[t-l]
		}
		for i, l := range m.maLags {
			pred += m.ma[i] * m.resid[t-l]
		}
		e := w[t] - pred
		m.resid[t] = e
		rss += e * e
	}

	m.sigma2 = rss / float64(nEff)
	if m.sigma2 <= 0 || math.IsNaN(m.sigma2) || math.IsInf(m.sigma2, 0) {
		return nil, fmt.Errorf("%s: degenerate residual variance", ord.label())
	}

	kk := float64(k + 1) // +1 for sigma^2
	n := float64(nEff)
	aic := n*math.Log(m.sigma2) + 2*kk
	if n-kk-1 <= 0 {
		m.aicc = math.Inf(1)
	} else {
		m.aicc = aic + 2*kk*(kk+1)/(n-kk-1)
	}
	return m, nil
}

// longARResiduals fits an AR(m) by least squares and returns residuals
// aligned with w; the first m entries are zero.
func longARResiduals(w []float64, m int) ([]float64, error) {
	nEff := len(w) - m
	if nEff < m+2 {
		return nil, fmt.Errorf("series too short for long AR(%d)", m)
	}
	X := mat.NewDense(nEff, m+1, nil)
	b := mat.NewVecDense(nEff, nil)
	for row := 0; row < nEff; row++ {
		t := row + m
		X.Set(row, 0, 1)
		for l := 1; l <= m; l++ {
			X.Set(row, l, w[t-l])
		}
		b.SetVec(row, w[t])
	}
	beta, err := solveOLS(X, b)
	if err != nil {
		return nil, fmt.Errorf("long AR fit: %w", err)
	}
	resid := make([]float64, len(w))
	for t := m; t < len(w); t++ {
		pred := beta[0]
		for l := 1; l <= m; l++ {
			pred += beta[l] * w[t-l]
		}
		resid[t] = w[t] - pred
	}
	return resid, nil
}

func solveOLS(X *mat.Dense, b *mat.VecDense) ([]float64, error) {
	var qr mat.QR
	qr.Factorize(X)
	_, cols := X.Dims()
	var sol mat.Dense
	if err := qr.SolveTo(&sol, false, b); err != nil {
		return nil, fmt.Errorf("singular regression: %w", err)
	}
	out := make([]float64, cols)
	for i := range out {
		out[i] = sol.At(i, 0)
	}
	return out, nil
}

// forecast projects h steps of the working series and integrates the result
// back through the recorded differencing stages. It returns point forecasts
// on the original scale together with the forecast standard error per step.
func (m *fittedModel) forecast(h int) (points, stderr []float64) {
	ext := make([]float64, len(m.w), len(m.w)+h)
	copy(ext, m.w)
	for i := 0; i < h; i++ {
		t := len(ext)
		v := m.c
		for j, l := range m.arLags {
			if t-l >= 0 {
				v += m.ar[j] * ext[t-l]
			}
		}
		for j, l := range m.maLags {
			if t-l >= 0 && t-l < len(m.resid) {
				v += m.ma[j] * m.resid[t-l]
			}
		}
		ext = append(ext, v)
	}
	wf := ext[len(m.w):]

	// integrate back, undoing the most recent differencing first
	f := wf
	for i := len(m.stages) - 1; i >= 0; i-- {
		f = integrate(m.stages[i].hist, f, m.stages[i].lag)
	}

	// forecast error variance via psi weights of the full integrated model
	psi := m.psiWeights(h)
	stderr = make([]float64, h)
	acc := 0.0
	for i := 0; i < h; i++ {
		acc += psi[i] * psi[i]
		stderr[i] = math.Sqrt(m.sigma2 * acc)
	}
	return f, stderr
}

// integrate undoes one differencing stage: out[i] = f[i] + value lag periods
// earlier, drawing from history or from already-integrated forecasts.
func integrate(hist, f []float64, lag int) []float64 {
	out := make([]float64, len(f))
	for i := range f {
		j := len(hist) + i - lag
		if j < len(hist) {
			out[i] = f[i] + hist[j]
		} else {
			out[i] = f[i] + out[j-len(hist)]
		}
	}
	return out
}

// psiWeights expands the fitted model, including its differencing operators,
// into the MA(infinity) weights used for the prediction interval variance.
func (m *fittedModel) psiWeights(h int) []float64 {
	// phi(B) * (1-B)^d * (1-B^s)^D as a single polynomial, constant term 1
	poly := []float64{1}
	if n := lastLag(m.arLags); n > 0 {
		ar := make([]float64, n+1)
		ar[0] = 1
		for i, l := range m.arLags {
			ar[l] = -m.ar[i]
		}
		poly = polyMul(poly, ar)
	}
	for i := 0; i < m.ord.d; i++ {
		poly = polyMul(poly, []float64{1, -1})
	}
	for i := 0; i < m.ord.D; i++ {
		seas := make([]float64, m.ord.s+1)
		seas[0] = 1
		seas[m.ord.s] = -1
		poly = polyMul(poly, seas)
	}

	theta := make([]float64, h)
	for i, l := range m.maLags {
		if l < h {
			theta[l] = m.ma[i]
		}
	}

	psi := make([]float64, h)
	psi[0] = 1
	for j := 1; j < h; j++ {
		v := theta[j]
		for i := 1; i <= j && i < len(poly); i++ {
			v += -poly[i] * psi[j-i]
		}
		psi[j] = v
	}
	return psi
}

func polyMul(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		for j, bv := range b {
			out[i+j] += av * bv
		}
	}
	return out
}

func lastLag(lags []int) int {
	if len(lags) == 0 {
		return 0
	}
	return lags[len(lags)-1]
}
