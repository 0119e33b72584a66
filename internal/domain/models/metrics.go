package models

import "time"

// MetricResult holds the per-entity scalar metrics. A nil field means the
// statistic is undefined for that entity (too few observations), which is
// distinct from a computed zero.
type MetricResult struct {
	Entity     string    `json:"entity"`
	Timestamp  time.Time `json:"timestamp"`
	Volatility *float64  `json:"volatility"` // sample std dev of employment changes
	Resilience *float64  `json:"resilience"` // mean hires
}

// HasVolatility reports whether volatility is defined.
func (m MetricResult) HasVolatility() bool { return m.Volatility != nil }

// HasResilience reports whether resilience is defined.
func (m MetricResult) HasResilience() bool { return m.Resilience != nil }
