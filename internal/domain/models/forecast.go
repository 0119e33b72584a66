package models

import "time"

// ForecastPoint is one projected period with its two-sided prediction
// interval. Negative values are legal output and are passed through
// unclamped.
type ForecastPoint struct {
	Period time.Time `json:"period"`
	Point  float64   `json:"point"`
	Lower  float64   `json:"lower"`
	Upper  float64   `json:"upper"`
}

// MeasureSeries is one measured quantity of a single entity over consecutive
// periods, the unit the forecaster consumes. Values[i] belongs to the i-th
// period after Start at the declared frequency.
type MeasureSeries struct {
	Entity    string
	Measure   string
	Frequency string
	Start     time.Time
	Values    []float64
}

// ForecastResult is the projection for one entity's measured series over the
// next Horizon periods, continuing the observed frequency.
type ForecastResult struct {
	Entity     string          `json:"entity"`
	Measure    string          `json:"measure"`
	Frequency  string          `json:"frequency"`
	Horizon    int             `json:"horizon"`
	Confidence float64         `json:"confidence"` // e.g. 0.95
	Model      string          `json:"model"`      // fitted model label, e.g. "ARIMA(1,1,0)(0,1,1)[12]"
	Trivial    bool            `json:"trivial"`    // constant input; intervals collapsed to zero width
	Points     []ForecastPoint `json:"points"`
}
