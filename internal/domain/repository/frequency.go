package repository

import "time"

// Frequency is the period resolution of an observation series.
type Frequency string

const (
	FreqAnnual  Frequency = "annual"
	FreqMonthly Frequency = "monthly"
)

// IsValidFrequency returns true if f is a supported frequency.
func IsValidFrequency(f Frequency) bool {
	switch f {
	case FreqAnnual, FreqMonthly:
		return true
	default:
		return false
	}
}

// DefaultFrequency returns the default frequency.
func DefaultFrequency() Frequency { return FreqMonthly }

// NormalizeFrequency converts a raw string to a valid frequency (or default).
func NormalizeFrequency(s string) Frequency {
	if s == "" {
		return DefaultFrequency()
	}
	f := Frequency(s)
	if IsValidFrequency(f) {
		return f
	}
	return DefaultFrequency()
}

// SeasonalPeriod returns the seasonal cycle length in periods: 12 for
// monthly series, 1 (no seasonality) for annual.
func (f Frequency) SeasonalPeriod() int {
	if f == FreqMonthly {
		return 12
	}
	return 1
}

// Next returns the period immediately following t at this frequency.
func (f Frequency) Next(t time.Time) time.Time {
	if f == FreqMonthly {
		return t.AddDate(0, 1, 0)
	}
	return t.AddDate(1, 0, 0)
}

// Truncate aligns t to the period bucket start for this frequency.
func (f Frequency) Truncate(t time.Time) time.Time {
	if f == FreqMonthly {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
}
