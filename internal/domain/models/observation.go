package models

import "time"

// Observation is one labor-market record for an (entity, period) pair.
// Entity is an industry label; Period is the bucket start (year or month).
// Count fields are non-negative by contract; the store rejects violations.
type Observation struct {
	Entity          string    `json:"entity"`
	Period          time.Time `json:"period"`
	EmploymentLevel float64   `json:"employment_level"`
	JobOpenings     float64   `json:"job_openings"`
	Hires           float64   `json:"hires"`
	Separations     float64   `json:"separations"`
}

// DerivedObservation is an Observation plus the period-over-period employment
// change. EmploymentChange is nil for an entity's first period; nil is never
// collapsed to zero.
type DerivedObservation struct {
	Observation
	EmploymentChange *float64
}
