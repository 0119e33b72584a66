package analytics

import (
	"math"

	"LaborPulse/internal/domain/models"
)

// Automatic order selection: differencing orders come from the stationarity
// tests in difference.go, then a bounded stepwise search over
// (p,q)(P,Q) picks the candidate with the lowest corrected AIC, in the manner
// of the Hyndman-Khandakar procedure.

// searchBounds caps the stepwise order search.
type searchBounds struct {
	maxP, maxD, maxQ int
	maxSP, maxSD, maxSQ int
}

func autoFit(entity string, y []float64, period int, bounds searchBounds) (*fittedModel, error) {
	d := selectD(y, bounds.maxD)
	sD := 0
	if period > 1 {
		sD = selectSeasonalD(y, period, bounds.maxSD)
	}

	seed := []order{
		{p: 0, d: d, q: 0, D: sD, s: period},
		{p: 1, d: d, q: 0, D: sD, s: period},
		{p: 0, d: d, q: 1, D: sD, s: period},
		{p: 2, d: d, q: 2, D: sD, s: period},
	}
	if period > 1 {
		seed = append(seed,
			order{p: 1, d: d, q: 0, P: 1, D: sD, s: period},
			order{p: 0, d: d, q: 1, Q: 1, D: sD, s: period},
			order{p: 2, d: d, q: 2, P: 1, D: sD, Q: 1, s: period},
		)
	}

	tried := make(map[order]bool)
	var best *fittedModel
	consider := func(o order) {
		if tried[o] || !withinBounds(o, bounds) {
			return
		}
		tried[o] = true
		m, err := fitARIMA(y, o)
		if err != nil || math.IsInf(m.aicc, 1) {
			return
		}
		if best == nil || m.aicc < best.aicc {
			best = m
		}
	}

	for _, o := range seed {
		consider(o)
	}
	if best == nil {
		return nil, &models.FitError{Entity: entity, Reason: "no candidate model converged"}
	}

	// hill-climb around the current best until no neighbor improves
	for {
		cur := best.ord
		prev := best.aicc
		for _, o := range neighbors(cur) {
			consider(o)
		}
		if best.aicc >= prev {
			break
		}
	}
	return best, nil
}

func withinBounds(o order, b searchBounds) bool {
	return o.p >= 0 && o.q >= 0 && o.P >= 0 && o.Q >= 0 &&
		o.p <= b.maxP && o.q <= b.maxQ && o.P <= b.maxSP && o.Q <= b.maxSQ
}

func neighbors(o order) []order {
	out := make([]order, 0, 8)
	for _, dp := range []int{-1, 1} {
		n := o
		n.p += dp
		out = append(out, n)
		n = o
		n.q += dp
		out = append(out, n)
		if o.s > 1 {
			n = o
			n.P += dp
			out = append(out, n)
			n = o
			n.Q += dp
			out = append(out, n)
		}
	}
	return out
}
